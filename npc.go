package main

const (
	trustMin     = 0
	trustMax     = 100
	trustHostile = 20
	trustDefault = 50
)

// NPC is a talkable resident of one location. Dialogue is picked by the
// character's current trust with that NPC; trust below the hostile line
// ends the conversation before it starts.
type NPC struct {
	ID          string
	Name        string
	Faction     Faction
	LowDialogue string
	MidDialogue string
	HighTrust   string
	TalkBonus   int
}

var npcCatalog = map[string]*NPC{
	"old_beggar": {
		ID:          "old_beggar",
		Name:        "Old Beggar",
		Faction:     FactionPeoplesAlliance,
		LowDialogue: "The beggar eyes you and shuffles deeper into his rags.",
		MidDialogue: "Spare a coin? No? Then spare an ear. The soldiers doubled the gate watch last week.",
		HighTrust:   "You again. Listen well. The guild den behind the butcher only opens to those who carry the right paper.",
		TalkBonus:   2,
	},
	"market_broker": {
		ID:          "market_broker",
		Name:        "Market Broker",
		Faction:     FactionShadowGuild,
		LowDialogue: "The broker turns away and finds a sudden interest in his ledgers.",
		MidDialogue: "Everything has a price. Yours, I have not decided yet.",
		HighTrust:   "For a friend, a whisper. The docks move foreign steel after midnight, better than anything on my shelf.",
		TalkBonus:   1,
	},
	"tavern_keeper": {
		ID:          "tavern_keeper",
		Name:        "Tavern Keeper",
		Faction:     FactionNeutral,
		LowDialogue: "We're full. Try the gutter.",
		MidDialogue: "Wine's two coins, rumors are free. The mountain path ate another merchant party this week.",
		HighTrust:   "Take the back room tonight, no charge. And whatever you hear through the wall, you heard nothing.",
		TalkBonus:   3,
	},
	"gate_captain": {
		ID:          "gate_captain",
		Name:        "Gate Captain",
		Faction:     FactionPalace,
		LowDialogue: "The captain's hand rests on his sword hilt. Move along.",
		MidDialogue: "Papers. Hm. Keep out of trouble and we'll have no quarrel.",
		HighTrust:   "Between us, the palace wants someone watched on the outskirts. Careful feet could earn careful money.",
		TalkBonus:   1,
	},
	"foreign_trader": {
		ID:          "foreign_trader",
		Name:        "Foreign Trader",
		Faction:     FactionForeignerUnion,
		LowDialogue: "The trader barks something in a language you do not know and waves you off.",
		MidDialogue: "You buy? You sell? Good blades from over the sea, good price.",
		HighTrust:   "My friend. The cove below the cliffs, you know it? My competitors store there what customs never saw.",
		TalkBonus:   2,
	},
	"guild_handler": {
		ID:          "guild_handler",
		Name:        "Guild Handler",
		Faction:     FactionShadowGuild,
		LowDialogue: "A knife appears, cleaning fingernails. You should not be here.",
		MidDialogue: "The guild sees you. Whether it smiles on you is not yet settled.",
		HighTrust:   "We have work for steady hands. The altar in the hills, the cult pays in things worth more than coin.",
		TalkBonus:   2,
	},
	"mad_hermit": {
		ID:          "mad_hermit",
		Name:        "Mad Hermit",
		Faction:     FactionCult,
		LowDialogue: "The hermit hisses and throws a handful of ash at your feet.",
		MidDialogue: "The buddha's face is gone but the mouth beneath the floor still eats. It still eats!",
		HighTrust:   "You hear them too, don't you. The black stones. Bring the seal and the stones will open for you.",
		TalkBonus:   1,
	},
	"royal_informant": {
		ID:          "royal_informant",
		Name:        "Royal Informant",
		Faction:     FactionPalace,
		LowDialogue: "A figure in plain clothes studies you a moment too long, then is gone.",
		MidDialogue: "I trade in names. Yours is not yet worth anything. Change that.",
		HighTrust:   "The throne knows about the cult. It also knows about you. Choose a side before one is chosen for you.",
		TalkBonus:   3,
	},
}

func npcTrust(c *Character, npcID string) int {
	if v, ok := c.NPCTrust[npcID]; ok {
		return v
	}
	return trustDefault
}

// adjustTrust clamps into [0, 100] and returns the new value.
func adjustTrust(c *Character, npcID string, delta int) int {
	v := npcTrust(c, npcID) + delta
	if v < trustMin {
		v = trustMin
	}
	if v > trustMax {
		v = trustMax
	}
	c.NPCTrust[npcID] = v
	return v
}

// talkToNPC runs one conversation. Hostile NPCs refuse outright; otherwise
// the dialogue tier follows current trust and the talk itself nudges trust
// upward by the NPC's talk bonus.
func talkToNPC(c *Character, npcID string) (map[string]interface{}, bool, string) {
	npc, ok := npcCatalog[npcID]
	if !ok {
		return nil, false, ReasonNPCNotFound
	}
	loc := worldMap[c.Location]
	found := false
	for _, id := range loc.NPCs {
		if id == npcID {
			found = true
			break
		}
	}
	if !found {
		return nil, false, ReasonNPCNotFound
	}

	trust := npcTrust(c, npcID)
	if trust < trustHostile {
		return nil, false, ReasonNPCHostile
	}

	dialogue := npc.MidDialogue
	switch {
	case trust >= 80:
		dialogue = npc.HighTrust
	case trust < 40:
		dialogue = npc.LowDialogue
	}

	trust = adjustTrust(c, npcID, npc.TalkBonus)
	return map[string]interface{}{
		"npc":      npc.Name,
		"faction":  string(npc.Faction),
		"dialogue": dialogue,
		"trust":    trust,
	}, true, "OK"
}
