package main

import (
	"time"
)

// GameSession is one connected player. Send abstracts the transport so the
// TCP line protocol and the WebSocket endpoint share the same dispatch
// path. Combat is non-nil only while an encounter is running.
type GameSession struct {
	Send      func(ServerMessage)
	Character *Character
	Combat    *CombatSession
	Active    bool

	WindowStart time.Time
	WindowCount int
}

func NewGameSession(send func(ServerMessage)) *GameSession {
	return &GameSession{
		Send:   send,
		Active: true,
	}
}

func (s *GameSession) allowCommand(now time.Time) bool {
	const (
		perSecondPlaying     = 30
		perSecondNoCharacter = 12
	)

	if s.WindowStart.IsZero() || now.Sub(s.WindowStart) >= time.Second {
		s.WindowStart = now
		s.WindowCount = 0
	}
	s.WindowCount++

	limit := perSecondNoCharacter
	if s.Character != nil {
		limit = perSecondPlaying
	}
	return s.WindowCount <= limit
}
