package main

// Enemy actions, also used as the player-visible tags in round payloads.
const (
	EnemyAttack       = "attack"
	EnemyStrongAttack = "strong_attack"
	EnemyFeint        = "feint"
	EnemyDefend       = "defend"
	EnemyTaunt        = "taunt"
)

const (
	StanceNormal     = "normal"
	StanceDefensive  = "defensive"
	StanceAggressive = "aggressive"
)

// rage latches at or below this fraction of max health
const rageThreshold = 0.3

// Enemy lives for exactly one combat encounter and is never persisted.
type Enemy struct {
	Name             string
	MaxHealth        int
	Health           int
	Attack           int
	Defense          int
	ExperienceReward int
	Loot             []*Item
	ActionPool       []string
	RageMode         bool
	Stance           string
}

// takeDamage applies damage after defense. The first time health falls to
// 30% of max or below, rage mode latches for the rest of the encounter and
// attack is multiplied by 1.5; the latch never releases.
func (e *Enemy) takeDamage(amount int) int {
	actual := amount - e.Defense
	if actual < 0 {
		actual = 0
	}
	e.Health -= actual

	if !e.RageMode && e.Health <= int(float64(e.MaxHealth)*rageThreshold) {
		e.RageMode = true
		e.Attack = int(float64(e.Attack) * 1.5)
	}
	return actual
}

func (e *Enemy) isAlive() bool {
	return e.Health > 0
}

// attackDamage rolls one outgoing hit: attack plus a [-5,5] offset, then
// x1.3 under rage and the stance modifier. Both multipliers compose and the
// result is truncated once at the end.
func (e *Enemy) attackDamage() int {
	base := e.Attack + randIntn(11) - 5
	mult := 1.0
	if e.RageMode {
		mult *= 1.3
	}
	switch e.Stance {
	case StanceAggressive:
		mult *= 1.2
	case StanceDefensive:
		mult *= 0.8
	}
	return int(float64(base) * mult)
}

// chooseAction picks the enemy's move for the round. Rage overrides
// everything with an attack-heavy pool; otherwise a defending player draws
// a strong attack, a dodging player draws a feint, and anything else rolls
// the configured pool.
func (e *Enemy) chooseAction(playerLastAction string) string {
	if e.RageMode {
		pool := []string{EnemyStrongAttack, EnemyAttack, EnemyAttack}
		return pool[randIntn(len(pool))]
	}
	switch playerLastAction {
	case ActionDefend:
		return EnemyStrongAttack
	case ActionDodge:
		return EnemyFeint
	}
	if len(e.ActionPool) > 0 {
		return e.ActionPool[randIntn(len(e.ActionPool))]
	}
	return EnemyAttack
}

type enemyTemplate struct {
	Name             string
	Health           int
	Attack           int
	Defense          int
	ExperienceReward int
	LootTemplates    []string
	ActionPool       []string
}

// Night roamers, ordered by rising danger.
var nightBestiary = []enemyTemplate{
	{Name: "Bandit", Health: 50, Attack: 12, Defense: 5, ExperienceReward: 20,
		LootTemplates: []string{"healing_salve"},
		ActionPool:    []string{EnemyAttack, EnemyFeint, EnemyStrongAttack}},
	{Name: "Starving Wolf", Health: 40, Attack: 15, Defense: 3, ExperienceReward: 15,
		ActionPool: []string{EnemyAttack, EnemyAttack, EnemyStrongAttack}},
	{Name: "Night Slayer", Health: 80, Attack: 20, Defense: 10, ExperienceReward: 50,
		ActionPool: []string{EnemyAttack, EnemyFeint, EnemyStrongAttack, EnemyTaunt}},
	{Name: "Possessed One", Health: 60, Attack: 18, Defense: 8, ExperienceReward: 35,
		ActionPool: []string{EnemyAttack, EnemyTaunt, EnemyStrongAttack}},
}

// Daylight threats.
var dayBestiary = []enemyTemplate{
	{Name: "Government Soldier", Health: 70, Attack: 16, Defense: 12, ExperienceReward: 30,
		LootTemplates: []string{"patrol_sword"},
		ActionPool:    []string{EnemyAttack, EnemyDefend, EnemyStrongAttack}},
	{Name: "Deserter", Health: 60, Attack: 14, Defense: 8, ExperienceReward: 25,
		ActionPool: []string{EnemyAttack, EnemyFeint}},
	{Name: "Mad Monk", Health: 70, Attack: 18, Defense: 10, ExperienceReward: 35,
		ActionPool: []string{EnemyAttack, EnemyTaunt, EnemyStrongAttack}},
	{Name: "Highwayman", Health: 55, Attack: 13, Defense: 7, ExperienceReward: 20,
		LootTemplates: []string{"healing_salve"},
		ActionPool:    []string{EnemyAttack, EnemyFeint, EnemyDefend}},
}

func newEnemy(t enemyTemplate) *Enemy {
	e := &Enemy{
		Name:             t.Name,
		MaxHealth:        t.Health,
		Health:           t.Health,
		Attack:           t.Attack,
		Defense:          t.Defense,
		ExperienceReward: t.ExperienceReward,
		ActionPool:       append([]string(nil), t.ActionPool...),
		Stance:           StanceNormal,
	}
	for _, templateID := range t.LootTemplates {
		if it, ok := newItemFromTemplate(templateID); ok {
			e.Loot = append(e.Loot, it)
		}
	}
	return e
}

// spawnEnemy draws from the day or night table, keeping only the entries a
// location of the given danger level can field.
func spawnEnemy(dangerLevel int, night bool) *Enemy {
	table := dayBestiary
	if night {
		table = nightBestiary
	}
	limit := dangerLevel + 1
	if limit > len(table) {
		limit = len(table)
	}
	if limit < 1 {
		limit = 1
	}
	return newEnemy(table[randIntn(limit)])
}
