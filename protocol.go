package main

import "strings"

type ClientMessage struct {
	Command string      `json:"command"`
	Payload interface{} `json:"payload,omitempty"`
}

type ServerMessage struct {
	Command string      `json:"command"`
	Payload interface{} `json:"payload,omitempty"`
}

// Client commands.
const (
	ReqCreateCharacter = "CREATE_CHARACTER"
	ReqGetState        = "GET_STATE"
	ReqLook            = "LOOK"
	ReqMove            = "MOVE"
	ReqExplore         = "EXPLORE"
	ReqTalkNPC         = "TALK_NPC"
	ReqShopList        = "SHOP_LIST"
	ReqShopBuy         = "SHOP_BUY"
	ReqInventory       = "INVENTORY"
	ReqEquipItem       = "EQUIP_ITEM"
	ReqUseItem         = "USE_ITEM"
	ReqDropItem        = "DROP_ITEM"
	ReqEnhanceItem     = "ENHANCE_ITEM"
	ReqLearnSkill      = "LEARN_SKILL"
	ReqRest            = "REST"
	ReqCombatAction    = "COMBAT_ACTION"
	ReqHallOfRecords   = "HALL_OF_RECORDS"
)

// Server responses.
const (
	RespWelcome         = "WELCOME"
	RespCharacterReady  = "CHARACTER_READY"
	RespCreateRejected  = "CREATE_REJECTED"
	RespState           = "STATE"
	RespLocation        = "LOCATION"
	RespMoveOK          = "MOVE_OK"
	RespMoveRejected    = "MOVE_REJECTED"
	RespExploreResult   = "EXPLORE_RESULT"
	RespExploreRejected = "EXPLORE_REJECTED"
	RespNPCState        = "NPC_STATE"
	RespNPCRejected     = "NPC_REJECTED"
	RespShopStock       = "SHOP_STOCK"
	RespShopResult      = "SHOP_RESULT"
	RespShopRejected    = "SHOP_REJECTED"
	RespInventory       = "INVENTORY"
	RespEquipOK         = "EQUIP_OK"
	RespEquipRejected   = "EQUIP_REJECTED"
	RespItemUsed        = "ITEM_USED"
	RespItemRejected    = "ITEM_REJECTED"
	RespItemDropped     = "ITEM_DROPPED"
	RespEnhanceResult   = "ENHANCE_RESULT"
	RespEnhanceRejected = "ENHANCE_REJECTED"
	RespSkillLearned    = "SKILL_LEARNED"
	RespSkillRejected   = "SKILL_REJECTED"
	RespRestResult      = "REST_RESULT"
	RespRestRejected    = "REST_REJECTED"
	RespCombatStarted   = "COMBAT_STARTED"
	RespCombatRound     = "COMBAT_ROUND"
	RespCombatRejected  = "COMBAT_REJECTED"
	RespCombatVictory   = "COMBAT_VICTORY"
	RespPlayerDied      = "PLAYER_DIED"
	RespHallOfRecords   = "HALL_OF_RECORDS"
	RespHallRejected    = "HALL_REJECTED"
	RespRateLimited     = "RATE_LIMITED"
	RespError           = "ERROR"
)

// Rejection reasons. Insufficient-resource and invalid-action rejections
// never mutate state; item-terminal events (weapon_broken, armor_broken,
// destroyed, cursed) travel inside success payloads instead.
const (
	ReasonCharacterExists   = "CHARACTER_EXISTS"
	ReasonNameRequired      = "NAME_REQUIRED"
	ReasonUnknownOrigin     = "UNKNOWN_ORIGIN"
	ReasonInCombat          = "IN_COMBAT"
	ReasonNotInCombat       = "NOT_IN_COMBAT"
	ReasonUnknownAction     = "UNKNOWN_ACTION"
	ReasonTurnAlreadyTaken  = "TURN_ALREADY_TAKEN"
	ReasonCombatOver        = "COMBAT_OVER"
	ReasonNotEnoughStamina  = "NOT_ENOUGH_STAMINA"
	ReasonNotEnoughFocus    = "NOT_ENOUGH_FOCUS"
	ReasonNotEnoughMoney    = "NOT_ENOUGH_MONEY"
	ReasonItemNotFound      = "ITEM_NOT_FOUND"
	ReasonItemNotUsable     = "ITEM_NOT_USABLE"
	ReasonItemBroken        = "ITEM_BROKEN"
	ReasonWrongItemKind     = "WRONG_ITEM_KIND"
	ReasonNoWeaponEquipped  = "NO_WEAPON_EQUIPPED"
	ReasonSkillNotFound     = "SKILL_NOT_FOUND"
	ReasonSkillNotKnown     = "SKILL_NOT_KNOWN"
	ReasonSkillKnown        = "SKILL_ALREADY_KNOWN"
	ReasonLevelTooLow       = "LEVEL_TOO_LOW"
	ReasonLocationLocked    = "LOCATION_LOCKED"
	ReasonLocationUnknown   = "LOCATION_UNKNOWN"
	ReasonNPCNotFound       = "NPC_NOT_FOUND"
	ReasonNPCHostile        = "NPC_HOSTILE"
	ReasonNoShopHere        = "NO_SHOP_HERE"
	ReasonStockUnknown      = "STOCK_UNKNOWN"
	ReasonHallUnavailable   = "HALL_UNAVAILABLE"
	ReasonUnknownBoard      = "UNKNOWN_BOARD"
	ReasonNotEnhanceable    = "NOT_ENHANCEABLE"
)

const (
	MsgUnknownCommand  = "UNKNOWN_COMMAND"
	MsgTooManyRequests = "TOO_MANY_REQUESTS"
	MsgCreateFirst     = "CREATE_CHARACTER_FIRST"
)

func toMap(v interface{}) map[string]interface{} {
	if v == nil {
		return map[string]interface{}{}
	}
	m, ok := v.(map[string]interface{})
	if !ok {
		return map[string]interface{}{}
	}
	return m
}

func toString(m map[string]interface{}, key string) string {
	v, ok := m[key]
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}

func toInt(m map[string]interface{}, key string) int {
	v, ok := m[key]
	if !ok {
		return 0
	}
	switch t := v.(type) {
	case float64:
		return int(t)
	case int:
		return t
	default:
		return 0
	}
}
