package main

type Origin string

const (
	OriginFallenNoble   Origin = "fallen_noble"
	OriginBanditOutcast Origin = "bandit_outcast"
	OriginWarOrphan     Origin = "war_orphan"
)

type Faction string

const (
	FactionPalace          Faction = "Palace"
	FactionCult            Faction = "Cult"
	FactionShadowGuild     Faction = "Shadow Guild"
	FactionPeoplesAlliance Faction = "People's Alliance"
	FactionForeignerUnion  Faction = "Foreigner Union"
	FactionNeutral         Faction = "Neutral"
)

// JobTier is the five-stage advancement ladder. Tiers only ever move
// forward.
type JobTier int

const (
	JobWanderer JobTier = iota
	JobWarriorApprentice
	JobWarrior
	JobBladeMaster
	JobSwordDemon
)

func (j JobTier) String() string {
	switch j {
	case JobWanderer:
		return "Wanderer"
	case JobWarriorApprentice:
		return "Warrior Apprentice"
	case JobWarrior:
		return "Warrior"
	case JobBladeMaster:
		return "Blade Master"
	case JobSwordDemon:
		return "Sword Demon"
	default:
		return "Unknown"
	}
}

// Status effect kinds carried on a character. Dodge and defense feed the
// derived stats; poison marks a coated weapon.
const (
	EffectDodge   = "dodge"
	EffectDefense = "defense"
	EffectPoison  = "poison"
)

type StatusEffect struct {
	Kind  string `json:"kind"`
	Turns int    `json:"turns"`
	Value int    `json:"value"`
}

type Character struct {
	Name            string          `json:"name"`
	Origin          Origin          `json:"origin"`
	Job             JobTier         `json:"job"`
	FactionAffinity map[Faction]int `json:"faction_affinity"`

	MaxHealth  int `json:"max_health"`
	Health     int `json:"health"`
	MaxStamina int `json:"max_stamina"`
	Stamina    int `json:"stamina"`
	MaxFocus   int `json:"max_focus"`
	Focus      int `json:"focus"`
	Sanity     int `json:"sanity"`

	BaseAttack  int `json:"base_attack"`
	BaseDefense int `json:"base_defense"`

	Money      int `json:"money"`
	Experience int `json:"experience"`
	Level      int `json:"level"`

	Inventory []*Item           `json:"inventory"`
	Equipped  map[string]string `json:"equipped"`
	Skills    map[string]bool   `json:"skills"`

	Location string         `json:"location"`
	GameHour int            `json:"game_hour"`
	NPCTrust map[string]int `json:"npc_trust"`

	Cursed     bool           `json:"cursed"`
	Nightmares []string       `json:"nightmares"`
	Buffs      []StatusEffect `json:"buffs"`
	Debuffs    []StatusEffect `json:"debuffs"`
}

func originStats(origin Origin) (attack, defense, money int) {
	switch origin {
	case OriginFallenNoble:
		return 15, 12, 100
	case OriginBanditOutcast:
		return 20, 10, 50
	default: // war orphan
		return 12, 15, 10
	}
}

func originAffinity(origin Origin) map[Faction]int {
	switch origin {
	case OriginFallenNoble:
		return map[Faction]int{
			FactionPalace:          60,
			FactionCult:            30,
			FactionShadowGuild:     40,
			FactionPeoplesAlliance: 20,
			FactionForeignerUnion:  30,
		}
	case OriginBanditOutcast:
		return map[Faction]int{
			FactionPalace:          10,
			FactionCult:            40,
			FactionShadowGuild:     70,
			FactionPeoplesAlliance: 50,
			FactionForeignerUnion:  60,
		}
	default:
		return map[Faction]int{
			FactionPalace:          20,
			FactionCult:            50,
			FactionShadowGuild:     50,
			FactionPeoplesAlliance: 70,
			FactionForeignerUnion:  40,
		}
	}
}

func parseOrigin(raw string) (Origin, bool) {
	switch Origin(raw) {
	case OriginFallenNoble, OriginBanditOutcast, OriginWarOrphan:
		return Origin(raw), true
	}
	return "", false
}

func NewCharacter(name string, origin Origin) *Character {
	attack, defense, money := originStats(origin)
	return &Character{
		Name:            name,
		Origin:          origin,
		Job:             JobWanderer,
		FactionAffinity: originAffinity(origin),
		MaxHealth:       100,
		Health:          100,
		MaxStamina:      100,
		Stamina:         100,
		MaxFocus:        100,
		Focus:           100,
		Sanity:          100,
		BaseAttack:      attack,
		BaseDefense:     defense,
		Money:           money,
		Level:           1,
		Location:        startLocationID,
		GameHour:        8,
		NPCTrust:        map[string]int{},
		Equipped:        map[string]string{},
		Skills:          map[string]bool{},
		Nightmares:      []string{},
	}
}

func ensureCharacterDefaults(c *Character) {
	if c.FactionAffinity == nil {
		c.FactionAffinity = originAffinity(c.Origin)
	}
	if c.Equipped == nil {
		c.Equipped = map[string]string{}
	}
	if c.Skills == nil {
		c.Skills = map[string]bool{}
	}
	if c.Nightmares == nil {
		c.Nightmares = []string{}
	}
	if c.NPCTrust == nil {
		c.NPCTrust = map[string]int{}
	}
	if _, ok := worldMap[c.Location]; !ok {
		c.Location = startLocationID
	}
	if c.Level <= 0 {
		c.Level = 1
	}
	if c.MaxHealth <= 0 {
		c.MaxHealth = 100
	}
}

func (c *Character) itemByID(id string) *Item {
	for _, it := range c.Inventory {
		if it.ID == id {
			return it
		}
	}
	return nil
}

func (c *Character) equippedWeapon() *Item {
	id, ok := c.Equipped[SlotWeapon]
	if !ok {
		return nil
	}
	return c.itemByID(id)
}

func (c *Character) equippedArmor() *Item {
	id, ok := c.Equipped[SlotArmor]
	if !ok {
		return nil
	}
	return c.itemByID(id)
}

func (c *Character) addItem(it *Item) {
	c.Inventory = append(c.Inventory, it)
}

// removeItem drops the item from the inventory and clears any equip slot
// still pointing at it.
func (c *Character) removeItem(id string) bool {
	for i, it := range c.Inventory {
		if it.ID != id {
			continue
		}
		c.Inventory = append(c.Inventory[:i], c.Inventory[i+1:]...)
		for slot, equippedID := range c.Equipped {
			if equippedID == id {
				delete(c.Equipped, slot)
			}
		}
		return true
	}
	return false
}

// equipItem assigns an owned weapon or armor piece to its slot. Broken
// items and other kinds are rejected; no other state changes.
func (c *Character) equipItem(id string) (map[string]interface{}, bool, string) {
	it := c.itemByID(id)
	if it == nil {
		return nil, false, ReasonItemNotFound
	}
	if !it.Usable() {
		return nil, false, ReasonItemBroken
	}
	switch it.Kind {
	case ItemWeapon:
		c.Equipped[SlotWeapon] = it.ID
	case ItemArmor:
		c.Equipped[SlotArmor] = it.ID
	default:
		return nil, false, ReasonWrongItemKind
	}
	return map[string]interface{}{"slot": string(it.Kind), "item": it}, true, "OK"
}

// totalAttack is base attack plus the equipped weapon's power. A weapon at
// zero durability contributes nothing even while still in the slot.
func (c *Character) totalAttack() int {
	total := c.BaseAttack
	if w := c.equippedWeapon(); w != nil && w.Usable() {
		total += w.Power
	}
	return total
}

// totalDefense is base defense plus usable armor plus active defense buffs.
func (c *Character) totalDefense() int {
	total := c.BaseDefense
	if a := c.equippedArmor(); a != nil && a.Usable() {
		total += a.Defense
	}
	for _, b := range c.Buffs {
		if b.Kind == EffectDefense {
			total += b.Value
		}
	}
	return total
}

// dodgeChance is 10 + focus/20 + dodge buffs, capped at 75.
func (c *Character) dodgeChance() int {
	chance := 10 + c.Focus/20
	for _, b := range c.Buffs {
		if b.Kind == EffectDodge {
			chance += b.Value
		}
	}
	if chance > 75 {
		chance = 75
	}
	return chance
}

// takeDamage applies damage after total defense and returns the amount that
// landed. Health is floored at zero; the combat session owns death
// detection.
func (c *Character) takeDamage(amount int) int {
	actual := amount - c.totalDefense()
	if actual < 0 {
		actual = 0
	}
	c.Health -= actual
	if c.Health < 0 {
		c.Health = 0
	}
	return actual
}

func (c *Character) heal(amount int) {
	c.Health += amount
	if c.Health > c.MaxHealth {
		c.Health = c.MaxHealth
	}
}

func (c *Character) useStamina(amount int) bool {
	if c.Stamina < amount {
		return false
	}
	c.Stamina -= amount
	return true
}

func (c *Character) useFocus(amount int) bool {
	if c.Focus < amount {
		return false
	}
	c.Focus -= amount
	return true
}

func (c *Character) drainStamina(amount int) {
	c.Stamina -= amount
	if c.Stamina < 0 {
		c.Stamina = 0
	}
}

func (c *Character) drainFocus(amount int) {
	c.Focus -= amount
	if c.Focus < 0 {
		c.Focus = 0
	}
}

func (c *Character) adjustSanity(delta int) {
	c.Sanity += delta
	if c.Sanity > 100 {
		c.Sanity = 100
	}
	if c.Sanity < 0 {
		c.Sanity = 0
	}
}

// restore is one unit of rest: +30 stamina, +20 focus, +10 health, capped.
// Narrative long-rest flows call this plus their own effects.
func (c *Character) restore() {
	c.Stamina += 30
	if c.Stamina > c.MaxStamina {
		c.Stamina = c.MaxStamina
	}
	c.Focus += 20
	if c.Focus > c.MaxFocus {
		c.Focus = c.MaxFocus
	}
	c.heal(10)
}

func (c *Character) addBuff(kind string, turns, value int) {
	c.Buffs = append(c.Buffs, StatusEffect{Kind: kind, Turns: turns, Value: value})
}

func (c *Character) hasBuff(kind string) bool {
	for _, b := range c.Buffs {
		if b.Kind == kind {
			return true
		}
	}
	return false
}

// tickStatusEffects decrements every buff and debuff by one round and
// removes the expired ones. The combat session calls this at end of round.
func (c *Character) tickStatusEffects() {
	c.Buffs = tickEffects(c.Buffs)
	c.Debuffs = tickEffects(c.Debuffs)
}

func tickEffects(effects []StatusEffect) []StatusEffect {
	kept := effects[:0]
	for _, e := range effects {
		e.Turns--
		if e.Turns > 0 {
			kept = append(kept, e)
		}
	}
	return kept
}
