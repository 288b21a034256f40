package main

// Player combat actions.
const (
	ActionAttack = "attack"
	ActionDodge  = "dodge"
	ActionDefend = "defend"
	ActionAmbush = "ambush"
	ActionSkill  = "skill"
	ActionItem   = "item"
)

const (
	OutcomeVictory = "victory"
	OutcomeDeath   = "death"
)

const (
	attackStaminaCost = 10
	dodgeStaminaCost  = 15
	defendStaminaCost = 5
	ambushStaminaCost = 20
	ambushFocusCost   = 20
)

// CombatSession runs one encounter between a character and an enemy. A
// round is one player action followed by one enemy response; the session
// stays active until the enemy dies or the player does. There is no flee.
type CombatSession struct {
	Player *Character
	Enemy  *Enemy

	TurnCount   int
	PlayerActed bool
	LastAction  string
	Active      bool

	rageAnnounced bool
}

func newCombatSession(player *Character, enemy *Enemy) *CombatSession {
	return &CombatSession{
		Player: player,
		Enemy:  enemy,
		Active: true,
	}
}

// playerAct resolves the player's action for this round. A rejection, for
// an already-taken turn or a missing resource, mutates nothing and leaves
// the turn open; defend is the one exception, its 5 stamina is taken
// unconditionally (floored at zero) and the action always lands.
func (cs *CombatSession) playerAct(action, skillID, itemID string) (map[string]interface{}, bool, string) {
	if !cs.Active {
		return nil, false, ReasonCombatOver
	}
	if cs.PlayerActed {
		return nil, false, ReasonTurnAlreadyTaken
	}

	switch action {
	case ActionAttack:
		return cs.playerAttack()
	case ActionDodge:
		return cs.playerDodge()
	case ActionDefend:
		return cs.playerDefend()
	case ActionAmbush:
		return cs.playerAmbush()
	case ActionSkill:
		return cs.playerUseSkill(skillID)
	case ActionItem:
		return cs.playerUseItem(itemID)
	default:
		return nil, false, ReasonUnknownAction
	}
}

func (cs *CombatSession) playerAttack() (map[string]interface{}, bool, string) {
	p := cs.Player
	if p.Stamina < attackStaminaCost {
		return nil, false, ReasonNotEnoughStamina
	}
	p.useStamina(attackStaminaCost)
	cs.PlayerActed = true
	cs.LastAction = ActionAttack

	// Focus sharpens aim, fatigue dulls it. Computed after the stamina
	// cost is paid.
	hitChance := 70 + p.Focus/10 - (100-p.Stamina)/20

	result := map[string]interface{}{"action": ActionAttack}
	if randIntn(100)+1 > hitChance {
		result["hit"] = false
		return result, true, "OK"
	}

	damage := p.totalAttack() + randIntn(16) - 5
	actual := cs.Enemy.takeDamage(damage)
	result["hit"] = true
	result["damage"] = actual
	result["enemy_health"] = maxInt(cs.Enemy.Health, 0)
	result["enemy_max_health"] = cs.Enemy.MaxHealth

	if w := p.equippedWeapon(); w != nil {
		w.Durability--
		if w.Durability <= 0 {
			w.Durability = 0
			result["weapon_broken"] = w.Name
		}
	}
	cs.noteRage(result)
	return result, true, "OK"
}

func (cs *CombatSession) playerDodge() (map[string]interface{}, bool, string) {
	p := cs.Player
	if p.Stamina < dodgeStaminaCost {
		return nil, false, ReasonNotEnoughStamina
	}
	p.useStamina(dodgeStaminaCost)
	cs.PlayerActed = true
	cs.LastAction = ActionDodge

	p.addBuff(EffectDodge, 2, 30)
	return map[string]interface{}{
		"action":       ActionDodge,
		"dodge_chance": p.dodgeChance(),
	}, true, "OK"
}

func (cs *CombatSession) playerDefend() (map[string]interface{}, bool, string) {
	p := cs.Player
	cs.PlayerActed = true
	cs.LastAction = ActionDefend

	p.addBuff(EffectDefense, 1, 15)
	p.drainStamina(defendStaminaCost)
	return map[string]interface{}{
		"action":  ActionDefend,
		"defense": p.totalDefense(),
	}, true, "OK"
}

func (cs *CombatSession) playerAmbush() (map[string]interface{}, bool, string) {
	p := cs.Player
	if p.Stamina < ambushStaminaCost {
		return nil, false, ReasonNotEnoughStamina
	}
	if p.Focus < ambushFocusCost {
		return nil, false, ReasonNotEnoughFocus
	}
	p.useStamina(ambushStaminaCost)
	p.useFocus(ambushFocusCost)
	cs.PlayerActed = true
	cs.LastAction = ActionAmbush

	result := map[string]interface{}{"action": ActionAmbush}
	chance := 50 + p.Level*2
	if randIntn(100)+1 > chance {
		result["success"] = false
		return result, true, "OK"
	}

	actual := cs.Enemy.takeDamage(p.totalAttack() * 2)
	result["success"] = true
	result["damage"] = actual
	result["enemy_health"] = maxInt(cs.Enemy.Health, 0)
	cs.noteRage(result)
	return result, true, "OK"
}

func (cs *CombatSession) playerUseSkill(skillID string) (map[string]interface{}, bool, string) {
	p := cs.Player
	def, ok := skillCatalog[skillID]
	if !ok {
		return nil, false, ReasonSkillNotFound
	}
	if !p.Skills[skillID] {
		return nil, false, ReasonSkillNotKnown
	}
	if p.Stamina < def.StaminaCost {
		return nil, false, ReasonNotEnoughStamina
	}
	if p.Focus < def.FocusCost {
		return nil, false, ReasonNotEnoughFocus
	}
	p.useStamina(def.StaminaCost)
	p.useFocus(def.FocusCost)
	cs.PlayerActed = true
	cs.LastAction = ActionSkill

	damage := int(float64(p.totalAttack()) * def.DamageMultiplier)
	actual := cs.Enemy.takeDamage(damage)
	result := map[string]interface{}{
		"action":       ActionSkill,
		"skill":        def.Name,
		"damage":       actual,
		"enemy_health": maxInt(cs.Enemy.Health, 0),
	}
	cs.noteRage(result)
	return result, true, "OK"
}

// playerUseItem covers the two consumables usable mid-combat: the healing
// salve, and the poison vial which coats the equipped weapon for three
// rounds. Everything else is rejected untouched.
func (cs *CombatSession) playerUseItem(itemID string) (map[string]interface{}, bool, string) {
	p := cs.Player
	it := p.itemByID(itemID)
	if it == nil {
		return nil, false, ReasonItemNotFound
	}
	if it.Kind != ItemSpecial {
		return nil, false, ReasonItemNotUsable
	}

	switch it.TemplateID {
	case "healing_salve":
		p.heal(50)
		p.removeItem(it.ID)
		cs.PlayerActed = true
		cs.LastAction = ActionItem
		return map[string]interface{}{
			"action": ActionItem,
			"item":   it.Name,
			"health": p.Health,
		}, true, "OK"

	case "poison_vial":
		if p.equippedWeapon() == nil {
			return nil, false, ReasonNoWeaponEquipped
		}
		p.addBuff(EffectPoison, 3, 10)
		p.removeItem(it.ID)
		cs.PlayerActed = true
		cs.LastAction = ActionItem
		return map[string]interface{}{
			"action": ActionItem,
			"item":   it.Name,
			"effect": "weapon poisoned",
		}, true, "OK"
	}

	return nil, false, ReasonItemNotUsable
}

// enemyTurn resolves the enemy's response once the player has acted. The
// player's dodge chance is rolled first; a successful dodge voids the whole
// enemy action. Armor loses a point of durability on any hit that deals
// damage.
func (cs *CombatSession) enemyTurn() map[string]interface{} {
	e := cs.Enemy
	p := cs.Player
	if !e.isAlive() {
		return nil
	}

	if randIntn(100)+1 <= p.dodgeChance() {
		return map[string]interface{}{"evaded": true, "enemy": e.Name}
	}

	action := e.chooseAction(cs.LastAction)
	result := map[string]interface{}{"enemy": e.Name, "action": action}

	switch action {
	case EnemyAttack, EnemyStrongAttack:
		damage := e.attackDamage()
		if action == EnemyStrongAttack {
			damage = int(float64(damage) * 1.5)
		}
		actual := p.takeDamage(damage)
		result["damage"] = actual
		result["player_health"] = p.Health
		if actual > 0 {
			if a := p.equippedArmor(); a != nil {
				a.Durability--
				if a.Durability <= 0 {
					a.Durability = 0
					result["armor_broken"] = a.Name
				}
			}
		}
	case EnemyFeint:
		p.drainFocus(15)
		result["player_focus"] = p.Focus
	case EnemyDefend:
		e.Defense += 5
		e.Stance = StanceDefensive
	case EnemyTaunt:
		p.adjustSanity(-5)
		result["player_sanity"] = p.Sanity
	}

	return result
}

// endRound closes the bookkeeping for a completed round: turn counter,
// turn flag, and buff/debuff expiry.
func (cs *CombatSession) endRound() {
	cs.TurnCount++
	cs.PlayerActed = false
	cs.Player.tickStatusEffects()
}

// checkOutcome reports a terminal state, if any. Enemy death wins even
// when the player would also be down, since victory is checked before the
// enemy acts.
func (cs *CombatSession) checkOutcome() string {
	if !cs.Enemy.isAlive() {
		cs.Active = false
		return OutcomeVictory
	}
	if cs.Player.Health <= 0 {
		cs.Active = false
		return OutcomeDeath
	}
	return ""
}

func (cs *CombatSession) noteRage(result map[string]interface{}) {
	if cs.Enemy.RageMode && !cs.rageAnnounced {
		cs.rageAnnounced = true
		result["enemy_enraged"] = true
	}
}

func maxInt(a, b int) int {
	if a >= b {
		return a
	}
	return b
}
