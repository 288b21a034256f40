package main

import (
	"log"
	"strings"
)

// handleCommand dispatches one client command against the session. The
// first return is whether the command was recognized, the second whether
// character state changed and should be persisted.
func handleCommand(session *GameSession, chronicle *Chronicle, cmd string, rawPayload interface{}) (bool, bool) {
	if cmd == ReqCreateCharacter {
		return true, handleCreateCharacter(session, rawPayload)
	}

	c := session.Character
	if c == nil {
		session.Send(ServerMessage{Command: RespError, Payload: MsgCreateFirst})
		return true, false
	}

	switch cmd {
	case ReqGetState:
		session.Send(ServerMessage{Command: RespState, Payload: statePayload(session)})
		return true, false

	case ReqLook:
		session.Send(ServerMessage{Command: RespLocation, Payload: locationPayload(worldMap[c.Location], isNight(c))})
		return true, false

	case ReqMove:
		if session.Combat != nil {
			session.Send(ServerMessage{Command: RespMoveRejected, Payload: ReasonInCombat})
			return true, false
		}
		target := toString(toMap(rawPayload), "to")
		loc := worldMap[c.Location]
		connected := false
		for _, exit := range loc.Exits {
			if exit == target {
				connected = true
				break
			}
		}
		dest, known := worldMap[target]
		if !connected || !known {
			session.Send(ServerMessage{Command: RespMoveRejected, Payload: ReasonLocationUnknown})
			return true, false
		}
		if !canEnter(c, dest) {
			session.Send(ServerMessage{Command: RespMoveRejected, Payload: ReasonLocationLocked})
			return true, false
		}
		c.Location = dest.ID
		advanceClock(c, 1)
		session.Send(ServerMessage{Command: RespMoveOK, Payload: locationPayload(dest, isNight(c))})
		return true, true

	case ReqExplore:
		if session.Combat != nil {
			session.Send(ServerMessage{Command: RespExploreRejected, Payload: ReasonInCombat})
			return true, false
		}
		result := explore(c)
		if result.Enemy != nil {
			session.Combat = newCombatSession(c, result.Enemy)
			session.Send(ServerMessage{Command: RespCombatStarted, Payload: enemyPayload(result.Enemy)})
			return true, false
		}
		session.Send(ServerMessage{Command: RespExploreResult, Payload: result.Event})
		return true, true

	case ReqTalkNPC:
		if session.Combat != nil {
			session.Send(ServerMessage{Command: RespNPCRejected, Payload: ReasonInCombat})
			return true, false
		}
		result, ok, reason := talkToNPC(c, toString(toMap(rawPayload), "npc_id"))
		if !ok {
			session.Send(ServerMessage{Command: RespNPCRejected, Payload: reason})
			return true, false
		}
		session.Send(ServerMessage{Command: RespNPCState, Payload: result})
		return true, true

	case ReqShopList:
		result, ok, reason := shopList(c)
		if !ok {
			session.Send(ServerMessage{Command: RespShopRejected, Payload: reason})
			return true, false
		}
		session.Send(ServerMessage{Command: RespShopStock, Payload: result})
		return true, false

	case ReqShopBuy:
		if session.Combat != nil {
			session.Send(ServerMessage{Command: RespShopRejected, Payload: ReasonInCombat})
			return true, false
		}
		result, ok, reason := shopBuy(c, toString(toMap(rawPayload), "template_id"))
		if !ok {
			session.Send(ServerMessage{Command: RespShopRejected, Payload: reason})
			return true, false
		}
		session.Send(ServerMessage{Command: RespShopResult, Payload: result})
		return true, true

	case ReqInventory:
		session.Send(ServerMessage{Command: RespInventory, Payload: inventoryPayload(c)})
		return true, false

	case ReqEquipItem:
		if session.Combat != nil {
			session.Send(ServerMessage{Command: RespEquipRejected, Payload: ReasonInCombat})
			return true, false
		}
		result, ok, reason := c.equipItem(toString(toMap(rawPayload), "item_id"))
		if !ok {
			session.Send(ServerMessage{Command: RespEquipRejected, Payload: reason})
			return true, false
		}
		session.Send(ServerMessage{Command: RespEquipOK, Payload: result})
		return true, true

	case ReqUseItem:
		if session.Combat != nil {
			session.Send(ServerMessage{Command: RespItemRejected, Payload: ReasonInCombat})
			return true, false
		}
		result, ok, reason := useItemOutOfCombat(c, toString(toMap(rawPayload), "item_id"))
		if !ok {
			session.Send(ServerMessage{Command: RespItemRejected, Payload: reason})
			return true, false
		}
		session.Send(ServerMessage{Command: RespItemUsed, Payload: result})
		return true, true

	case ReqDropItem:
		itemID := toString(toMap(rawPayload), "item_id")
		it := c.itemByID(itemID)
		if it == nil {
			session.Send(ServerMessage{Command: RespItemRejected, Payload: ReasonItemNotFound})
			return true, false
		}
		c.removeItem(itemID)
		session.Send(ServerMessage{Command: RespItemDropped, Payload: map[string]interface{}{"item": it.Name}})
		return true, true

	case ReqEnhanceItem:
		if session.Combat != nil {
			session.Send(ServerMessage{Command: RespEnhanceRejected, Payload: ReasonInCombat})
			return true, false
		}
		result, ok, reason := handleEnhance(c, toString(toMap(rawPayload), "item_id"))
		if !ok {
			session.Send(ServerMessage{Command: RespEnhanceRejected, Payload: reason})
			return true, false
		}
		session.Send(ServerMessage{Command: RespEnhanceResult, Payload: result})
		return true, true

	case ReqLearnSkill:
		result, ok, reason := learnSkill(c, toString(toMap(rawPayload), "skill_id"))
		if !ok {
			session.Send(ServerMessage{Command: RespSkillRejected, Payload: reason})
			return true, false
		}
		session.Send(ServerMessage{Command: RespSkillLearned, Payload: result})
		return true, true

	case ReqRest:
		if session.Combat != nil {
			session.Send(ServerMessage{Command: RespRestRejected, Payload: ReasonInCombat})
			return true, false
		}
		result, ambusher, died := rest(c)
		if died {
			handleDeath(session, chronicle, "madness")
			return true, false
		}
		session.Send(ServerMessage{Command: RespRestResult, Payload: result})
		if ambusher != nil {
			session.Combat = newCombatSession(c, ambusher)
			session.Send(ServerMessage{Command: RespCombatStarted, Payload: enemyPayload(ambusher)})
		}
		return true, true

	case ReqCombatAction:
		return true, handleCombatAction(session, chronicle, rawPayload)

	case ReqHallOfRecords:
		payload := toMap(rawPayload)
		entries, ok, reason := chronicle.Board(toString(payload, "board"))
		if !ok {
			session.Send(ServerMessage{Command: RespHallRejected, Payload: reason})
			return true, false
		}
		session.Send(ServerMessage{Command: RespHallOfRecords, Payload: map[string]interface{}{
			"board":   entries,
			"records": chronicle.RecentFalls(toInt(payload, "limit")),
		}})
		return true, false
	}

	return false, false
}

func handleCreateCharacter(session *GameSession, rawPayload interface{}) bool {
	if session.Character != nil {
		session.Send(ServerMessage{Command: RespCreateRejected, Payload: ReasonCharacterExists})
		return false
	}

	payload := toMap(rawPayload)
	name := toString(payload, "name")
	if strings.TrimSpace(name) == "" {
		session.Send(ServerMessage{Command: RespCreateRejected, Payload: ReasonNameRequired})
		return false
	}

	// An existing save under this name resumes instead of creating.
	if saved, found, err := loadCharacter(name); err != nil {
		log.Printf("Failed to load character %q: %v", name, err)
		session.Send(ServerMessage{Command: RespError, Payload: "LOAD_FAILED"})
		return false
	} else if found {
		session.Character = saved
		session.Send(ServerMessage{Command: RespCharacterReady, Payload: map[string]interface{}{
			"resumed":   true,
			"character": characterPayload(saved),
		}})
		return false
	}

	origin, ok := parseOrigin(toString(payload, "origin"))
	if !ok {
		session.Send(ServerMessage{Command: RespCreateRejected, Payload: ReasonUnknownOrigin})
		return false
	}

	c := NewCharacter(name, origin)
	session.Character = c
	session.Send(ServerMessage{Command: RespCharacterReady, Payload: map[string]interface{}{
		"resumed":   false,
		"character": characterPayload(c),
	}})
	return true
}

// handleCombatAction runs one full round: the player's action, the victory
// check, then the enemy's response and the death check. A rejected action
// ends the exchange immediately with the turn still open.
func handleCombatAction(session *GameSession, chronicle *Chronicle, rawPayload interface{}) bool {
	if session.Combat == nil {
		session.Send(ServerMessage{Command: RespCombatRejected, Payload: ReasonNotInCombat})
		return false
	}

	payload := toMap(rawPayload)
	cs := session.Combat
	playerResult, ok, reason := cs.playerAct(
		toString(payload, "action"),
		toString(payload, "skill_id"),
		toString(payload, "item_id"),
	)
	if !ok {
		session.Send(ServerMessage{Command: RespCombatRejected, Payload: reason})
		return false
	}

	if cs.checkOutcome() == OutcomeVictory {
		rewards := victoryRewards(cs.Player, cs.Enemy)
		rewards["player_action"] = playerResult
		session.Combat = nil
		chronicle.RecordVictory(cs.Player.Name)
		session.Send(ServerMessage{Command: RespCombatVictory, Payload: rewards})
		return true
	}

	enemyResult := cs.enemyTurn()
	if cs.checkOutcome() == OutcomeDeath {
		session.Send(ServerMessage{Command: RespCombatRound, Payload: map[string]interface{}{
			"turn":   cs.TurnCount + 1,
			"player": playerResult,
			"enemy":  enemyResult,
		}})
		handleDeath(session, chronicle, "slain by "+cs.Enemy.Name)
		return false
	}

	cs.endRound()
	session.Send(ServerMessage{Command: RespCombatRound, Payload: map[string]interface{}{
		"turn":          cs.TurnCount,
		"player":        playerResult,
		"enemy":         enemyResult,
		"player_health": cs.Player.Health,
		"enemy_health":  maxInt(cs.Enemy.Health, 0),
	}})
	return true
}

// handleDeath ends the run: the fall goes to the chronicle, the save is
// deleted in whatever store is active, and the session closes.
func handleDeath(session *GameSession, chronicle *Chronicle, cause string) {
	c := session.Character
	chronicle.RecordFall(c, cause)
	if err := deleteCharacter(c.Name); err != nil {
		log.Printf("Failed to delete character %q after death: %v", c.Name, err)
	}

	session.Send(ServerMessage{Command: RespPlayerDied, Payload: map[string]interface{}{
		"name":  c.Name,
		"level": c.Level,
		"cause": cause,
	}})
	session.Combat = nil
	session.Character = nil
	session.Active = false
}

// useItemOutOfCombat covers consumables between fights. Only the healing
// salve works here; poison needs a fight to matter.
func useItemOutOfCombat(c *Character, itemID string) (map[string]interface{}, bool, string) {
	it := c.itemByID(itemID)
	if it == nil {
		return nil, false, ReasonItemNotFound
	}
	if it.Kind != ItemSpecial || it.TemplateID != "healing_salve" {
		return nil, false, ReasonItemNotUsable
	}
	c.heal(50)
	c.removeItem(it.ID)
	return map[string]interface{}{
		"item":   it.Name,
		"health": c.Health,
	}, true, "OK"
}

func handleEnhance(c *Character, itemID string) (map[string]interface{}, bool, string) {
	it := c.itemByID(itemID)
	if it == nil {
		return nil, false, ReasonItemNotFound
	}
	if it.Kind != ItemWeapon && it.Kind != ItemArmor {
		return nil, false, ReasonNotEnhanceable
	}

	success, outcome := enhanceItem(it)
	result := map[string]interface{}{
		"success": success,
		"outcome": string(outcome),
	}
	switch outcome {
	case EnhanceDestroyed:
		c.removeItem(it.ID)
		result["item"] = it.Name
	case EnhanceCursed:
		c.Cursed = true
		result["item"] = itemPayload(it)
	default:
		result["item"] = itemPayload(it)
	}
	return result, true, "OK"
}

func statePayload(session *GameSession) map[string]interface{} {
	c := session.Character
	state := map[string]interface{}{
		"character": characterPayload(c),
		"location":  locationPayload(worldMap[c.Location], isNight(c)),
		"hour":      c.GameHour,
		"in_combat": session.Combat != nil,
	}
	if session.Combat != nil {
		state["enemy"] = enemyPayload(session.Combat.Enemy)
		state["turn"] = session.Combat.TurnCount
	}
	return state
}

func characterPayload(c *Character) map[string]interface{} {
	return map[string]interface{}{
		"name":             c.Name,
		"origin":           string(c.Origin),
		"job":              c.Job.String(),
		"level":            c.Level,
		"experience":       c.Experience,
		"health":           c.Health,
		"max_health":       c.MaxHealth,
		"stamina":          c.Stamina,
		"max_stamina":      c.MaxStamina,
		"focus":            c.Focus,
		"max_focus":        c.MaxFocus,
		"sanity":           c.Sanity,
		"attack":           c.totalAttack(),
		"defense":          c.totalDefense(),
		"money":            c.Money,
		"cursed":           c.Cursed,
		"skills":           knownSkillsPayload(c),
		"faction_affinity": c.FactionAffinity,
	}
}

func inventoryPayload(c *Character) map[string]interface{} {
	items := []map[string]interface{}{}
	for _, it := range c.Inventory {
		items = append(items, itemPayload(it))
	}
	return map[string]interface{}{
		"items":    items,
		"equipped": c.Equipped,
		"money":    c.Money,
	}
}

func itemPayload(it *Item) map[string]interface{} {
	p := map[string]interface{}{
		"id":         it.ID,
		"name":       it.Name,
		"kind":       string(it.Kind),
		"durability": it.Durability,
	}
	if it.Power > 0 {
		p["power"] = it.Power
	}
	if it.Defense > 0 {
		p["defense"] = it.Defense
	}
	if it.EnhanceLevel > 0 {
		p["enhance_level"] = it.EnhanceLevel
	}
	if it.SpecialEffect != "" {
		p["effect"] = it.SpecialEffect
	}
	return p
}

func enemyPayload(e *Enemy) map[string]interface{} {
	return map[string]interface{}{
		"name":       e.Name,
		"health":     maxInt(e.Health, 0),
		"max_health": e.MaxHealth,
		"stance":     e.Stance,
		"enraged":    e.RageMode,
	}
}
