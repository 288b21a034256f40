package main

import (
	"github.com/google/uuid"
)

type ItemKind string

const (
	ItemWeapon  ItemKind = "weapon"
	ItemArmor   ItemKind = "armor"
	ItemSpecial ItemKind = "special"
	ItemStory   ItemKind = "story"
)

const (
	SlotWeapon = "weapon"
	SlotArmor  = "armor"
)

type EnhanceOutcome string

const (
	EnhanceNormal    EnhanceOutcome = "normal"
	EnhanceDamaged   EnhanceOutcome = "damaged"
	EnhanceDestroyed EnhanceOutcome = "destroyed"
	EnhanceCursed    EnhanceOutcome = "cursed"
)

const cursedEffect = "Drains the wielder's mind with every strike"

// Item is a single owned instance. ID is the stable identity; Name is
// display only and may change (curses rename the item).
type Item struct {
	ID            string   `json:"id"`
	TemplateID    string   `json:"template_id"`
	Name          string   `json:"name"`
	Kind          ItemKind `json:"kind"`
	Description   string   `json:"description"`
	Power         int      `json:"power"`
	Defense       int      `json:"defense"`
	SpecialEffect string   `json:"special_effect,omitempty"`
	EnhanceLevel  int      `json:"enhance_level"`
	Durability    int      `json:"durability"`
}

type ItemTemplate struct {
	ID            string
	Name          string
	Kind          ItemKind
	Description   string
	Power         int
	Defense       int
	SpecialEffect string
}

var itemCatalog = map[string]ItemTemplate{
	"rusty_sword": {
		ID: "rusty_sword", Name: "Rusty Sword", Kind: ItemWeapon,
		Description: "An old sword eaten by rust.", Power: 10,
	},
	"patrol_sword": {
		ID: "patrol_sword", Name: "Patrol Office Sword", Kind: ItemWeapon,
		Description: "A service blade issued to the capital patrol.", Power: 25,
	},
	"azure_blade": {
		ID: "azure_blade", Name: "Cheonghong, the Famed Blade", Kind: ItemWeapon,
		Description: "A legendary sword wrapped in faint blue light.", Power: 50,
	},
	"ragged_clothes": {
		ID: "ragged_clothes", Name: "Ragged Clothes", Kind: ItemArmor,
		Description: "Torn rags that barely hold together.", Defense: 5,
	},
	"leather_armor": {
		ID: "leather_armor", Name: "Leather Armor", Kind: ItemArmor,
		Description: "Armor cut from tough hide.", Defense: 15,
	},
	"iron_armor": {
		ID: "iron_armor", Name: "Iron Armor", Kind: ItemArmor,
		Description: "Heavy plates of hammered iron.", Defense: 30,
	},
	"secret_document": {
		ID: "secret_document", Name: "Secret Document", Kind: ItemStory,
		Description:   "Papers naming members of the Shadow Guild.",
		SpecialEffect: "Reveals the Shadow Guild hideout",
	},
	"royal_seal": {
		ID: "royal_seal", Name: "Royal Seal", Kind: ItemSpecial,
		Description:   "A seal carrying the authority of the throne.",
		SpecialEffect: "Grants entry to the palace",
	},
	"poison_vial": {
		ID: "poison_vial", Name: "Poison Vial", Kind: ItemSpecial,
		Description:   "A small bottle of lethal poison.",
		SpecialEffect: "Coats a blade for assassination",
	},
	"healing_salve": {
		ID: "healing_salve", Name: "Healing Salve", Kind: ItemSpecial,
		Description:   "A bitter medicine that knits wounds.",
		SpecialEffect: "Restores 50 health",
	},
}

func newItemFromTemplate(templateID string) (*Item, bool) {
	t, ok := itemCatalog[templateID]
	if !ok {
		return nil, false
	}
	return &Item{
		ID:            uuid.NewString(),
		TemplateID:    t.ID,
		Name:          t.Name,
		Kind:          t.Kind,
		Description:   t.Description,
		Power:         t.Power,
		Defense:       t.Defense,
		SpecialEffect: t.SpecialEffect,
		Durability:    100,
	}, true
}

func (it *Item) Usable() bool {
	return it.Durability > 0
}

// enhanceItem rolls one enhancement attempt. Success chance falls 15 points
// per level already on the item, so level 6 and above can no longer succeed.
// Exactly one of the four outcomes happens per call:
//
//	roll <= rate           success, level +1, power and defense x1.2
//	roll <= rate+10        plain failure, nothing changes
//	roll <= rate+20        durability -30
//	otherwise              coin flip between destruction and a curse
//
// A destroyed item is left at durability 0; the caller removes it from the
// inventory and any equip slot. A cursed item stays usable but is renamed,
// gains power x1.5 and loses half its defense. All scaling truncates toward
// zero.
func enhanceItem(it *Item) (bool, EnhanceOutcome) {
	rate := 80 - it.EnhanceLevel*15
	roll := randIntn(100) + 1

	if roll <= rate {
		it.EnhanceLevel++
		it.Power = int(float64(it.Power) * 1.2)
		it.Defense = int(float64(it.Defense) * 1.2)
		return true, EnhanceNormal
	}
	if roll <= rate+10 {
		return false, EnhanceNormal
	}
	if roll <= rate+20 {
		it.Durability -= 30
		if it.Durability < 0 {
			it.Durability = 0
		}
		return false, EnhanceDamaged
	}

	if randIntn(100)+1 <= 50 {
		it.Durability = 0
		return false, EnhanceDestroyed
	}
	it.Name = "Cursed " + it.Name
	it.SpecialEffect = cursedEffect
	it.Power = int(float64(it.Power) * 1.5)
	it.Defense = int(float64(it.Defense) * 0.5)
	return false, EnhanceCursed
}
