package main

import "testing"

func testCombat() *CombatSession {
	return newCombatSession(testCharacter(), testEnemy())
}

func TestAttackHit(t *testing.T) {
	cs := testCombat()

	// hit roll 1 against chance 80, damage offset +0
	withRandSequence([]int{0, 5}, func() {
		result, ok, reason := cs.playerAct(ActionAttack, "", "")
		if !ok {
			t.Fatalf("attack rejected: %s", reason)
		}
		if result["hit"] != true {
			t.Fatalf("expected hit")
		}
		if result["damage"] != 7 { // 12 attack - 5 defense
			t.Fatalf("damage=%v, want 7", result["damage"])
		}
	})
	if cs.Player.Stamina != 90 {
		t.Fatalf("stamina=%d, want 90", cs.Player.Stamina)
	}
	if cs.Enemy.Health != 43 {
		t.Fatalf("enemy health=%d, want 43", cs.Enemy.Health)
	}
	if !cs.PlayerActed || cs.LastAction != ActionAttack {
		t.Fatalf("turn state not recorded")
	}
}

func TestAttackMissStillPaysStamina(t *testing.T) {
	cs := testCombat()

	withRandSequence([]int{99}, func() {
		result, ok, _ := cs.playerAct(ActionAttack, "", "")
		if !ok || result["hit"] != false {
			t.Fatalf("expected a paid miss, got %v", result)
		}
	})
	if cs.Player.Stamina != 90 {
		t.Fatalf("stamina=%d, want 90", cs.Player.Stamina)
	}
	if cs.Enemy.Health != cs.Enemy.MaxHealth {
		t.Fatalf("miss dealt damage")
	}
}

func TestAttackWearsAndBreaksWeapon(t *testing.T) {
	cs := testCombat()
	sword := mustItem(t, "rusty_sword")
	sword.Durability = 1
	cs.Player.addItem(sword)
	cs.Player.equipItem(sword.ID)

	withRandSequence([]int{0, 5}, func() {
		result, _, _ := cs.playerAct(ActionAttack, "", "")
		if result["weapon_broken"] != sword.Name {
			t.Fatalf("expected weapon_broken event, got %v", result)
		}
	})
	if sword.Durability != 0 {
		t.Fatalf("durability=%d, want 0", sword.Durability)
	}
}

func TestAttackRejectionLeavesTurnOpen(t *testing.T) {
	cs := testCombat()
	cs.Player.Stamina = 9

	_, ok, reason := cs.playerAct(ActionAttack, "", "")
	if ok || reason != ReasonNotEnoughStamina {
		t.Fatalf("got ok=%v reason=%s", ok, reason)
	}
	if cs.PlayerActed {
		t.Fatalf("rejection consumed the turn")
	}
	if cs.Player.Stamina != 9 {
		t.Fatalf("rejection cost stamina: %d", cs.Player.Stamina)
	}
}

func TestTurnAlreadyTaken(t *testing.T) {
	cs := testCombat()

	withRandSequence([]int{99}, func() {
		cs.playerAct(ActionAttack, "", "")
	})
	_, ok, reason := cs.playerAct(ActionAttack, "", "")
	if ok || reason != ReasonTurnAlreadyTaken {
		t.Fatalf("got ok=%v reason=%s", ok, reason)
	}
}

func TestDodgeBuff(t *testing.T) {
	cs := testCombat()

	result, ok, _ := cs.playerAct(ActionDodge, "", "")
	if !ok {
		t.Fatalf("dodge rejected")
	}
	if cs.Player.Stamina != 85 {
		t.Fatalf("stamina=%d, want 85", cs.Player.Stamina)
	}
	if result["dodge_chance"] != 45 { // 10 + 100/20 + 30
		t.Fatalf("dodge_chance=%v, want 45", result["dodge_chance"])
	}

	// survives the first end of round, expires after the second
	cs.endRound()
	if !cs.Player.hasBuff(EffectDodge) {
		t.Fatalf("dodge buff expired a round early")
	}
	cs.endRound()
	if cs.Player.hasBuff(EffectDodge) {
		t.Fatalf("dodge buff outlived two rounds")
	}
}

func TestDefendWorksAtZeroStamina(t *testing.T) {
	cs := testCombat()
	cs.Player.Stamina = 0

	_, ok, reason := cs.playerAct(ActionDefend, "", "")
	if !ok {
		t.Fatalf("defend rejected: %s", reason)
	}
	if cs.Player.Stamina != 0 {
		t.Fatalf("stamina=%d, want 0", cs.Player.Stamina)
	}
	if !cs.Player.hasBuff(EffectDefense) {
		t.Fatalf("defense buff missing")
	}
	if cs.Player.totalDefense() != 30 { // 15 base + 15 buff
		t.Fatalf("totalDefense=%d, want 30", cs.Player.totalDefense())
	}
}

func TestAmbushChecksBothCostsBeforePaying(t *testing.T) {
	cs := testCombat()
	cs.Player.Focus = 10

	_, ok, reason := cs.playerAct(ActionAmbush, "", "")
	if ok || reason != ReasonNotEnoughFocus {
		t.Fatalf("got ok=%v reason=%s", ok, reason)
	}
	if cs.Player.Stamina != 100 {
		t.Fatalf("stamina paid on a rejected ambush: %d", cs.Player.Stamina)
	}
}

func TestAmbushSuccess(t *testing.T) {
	cs := testCombat()

	// chance is 52 at level 1; roll exactly 52
	withRandSequence([]int{51}, func() {
		result, ok, _ := cs.playerAct(ActionAmbush, "", "")
		if !ok || result["success"] != true {
			t.Fatalf("expected success, got %v", result)
		}
		if result["damage"] != 19 { // 12*2 - 5 defense
			t.Fatalf("damage=%v, want 19", result["damage"])
		}
	})
	if cs.Player.Stamina != 80 || cs.Player.Focus != 80 {
		t.Fatalf("costs wrong: stamina=%d focus=%d", cs.Player.Stamina, cs.Player.Focus)
	}
}

func TestAmbushFailureStillPays(t *testing.T) {
	cs := testCombat()

	withRandSequence([]int{52}, func() {
		result, ok, _ := cs.playerAct(ActionAmbush, "", "")
		if !ok || result["success"] != false {
			t.Fatalf("expected paid failure, got %v", result)
		}
	})
	if cs.Player.Stamina != 80 || cs.Player.Focus != 80 {
		t.Fatalf("costs wrong: stamina=%d focus=%d", cs.Player.Stamina, cs.Player.Focus)
	}
	if cs.Enemy.Health != cs.Enemy.MaxHealth {
		t.Fatalf("failed ambush dealt damage")
	}
}

func TestSkillDamageAndGates(t *testing.T) {
	cs := testCombat()
	cs.Player.Money = 100
	if _, ok, reason := learnSkill(cs.Player, "flash_cut"); !ok {
		t.Fatalf("learn failed: %s", reason)
	}

	if _, ok, reason := cs.playerAct(ActionSkill, "no_such_skill", ""); ok || reason != ReasonSkillNotFound {
		t.Fatalf("got ok=%v reason=%s", ok, reason)
	}
	if _, ok, reason := cs.playerAct(ActionSkill, "chain_strike", ""); ok || reason != ReasonSkillNotKnown {
		t.Fatalf("got ok=%v reason=%s", ok, reason)
	}

	result, ok, reason := cs.playerAct(ActionSkill, "flash_cut", "")
	if !ok {
		t.Fatalf("skill rejected: %s", reason)
	}
	if result["damage"] != 13 { // floor(12*1.5) - 5 defense
		t.Fatalf("damage=%v, want 13", result["damage"])
	}
	if cs.Player.Stamina != 80 || cs.Player.Focus != 90 {
		t.Fatalf("costs wrong: stamina=%d focus=%d", cs.Player.Stamina, cs.Player.Focus)
	}
}

func TestHealingSalveInCombat(t *testing.T) {
	cs := testCombat()
	cs.Player.Health = 40
	salve := mustItem(t, "healing_salve")
	cs.Player.addItem(salve)

	result, ok, reason := cs.playerAct(ActionItem, "", salve.ID)
	if !ok {
		t.Fatalf("salve rejected: %s", reason)
	}
	if result["health"] != 90 {
		t.Fatalf("health=%v, want 90", result["health"])
	}
	if cs.Player.itemByID(salve.ID) != nil {
		t.Fatalf("salve not consumed")
	}
}

func TestPoisonVialNeedsEquippedWeapon(t *testing.T) {
	cs := testCombat()
	vial := mustItem(t, "poison_vial")
	cs.Player.addItem(vial)

	if _, ok, reason := cs.playerAct(ActionItem, "", vial.ID); ok || reason != ReasonNoWeaponEquipped {
		t.Fatalf("got ok=%v reason=%s", ok, reason)
	}
	if cs.PlayerActed {
		t.Fatalf("rejection consumed the turn")
	}

	sword := mustItem(t, "rusty_sword")
	cs.Player.addItem(sword)
	cs.Player.equipItem(sword.ID)

	if _, ok, reason := cs.playerAct(ActionItem, "", vial.ID); !ok {
		t.Fatalf("vial rejected with weapon: %s", reason)
	}
	if !cs.Player.hasBuff(EffectPoison) {
		t.Fatalf("poison buff missing")
	}
	if cs.Player.itemByID(vial.ID) != nil {
		t.Fatalf("vial not consumed")
	}
}

func TestStoryItemNotUsableInCombat(t *testing.T) {
	cs := testCombat()
	doc := mustItem(t, "secret_document")
	cs.Player.addItem(doc)

	if _, ok, reason := cs.playerAct(ActionItem, "", doc.ID); ok || reason != ReasonItemNotUsable {
		t.Fatalf("got ok=%v reason=%s", ok, reason)
	}
}

func TestEnemyTurnDodged(t *testing.T) {
	cs := testCombat()

	// fresh dodge chance is 15; roll 1 evades
	withRandSequence([]int{0}, func() {
		result := cs.enemyTurn()
		if result["evaded"] != true {
			t.Fatalf("expected evasion, got %v", result)
		}
	})
	if cs.Player.Health != cs.Player.MaxHealth {
		t.Fatalf("evaded attack dealt damage")
	}
}

func TestEnemyTurnAttackWearsArmor(t *testing.T) {
	cs := testCombat()
	cs.Enemy.Attack = 40
	armor := mustItem(t, "leather_armor")
	cs.Player.addItem(armor)
	cs.Player.equipItem(armor.ID)

	// dodge roll 100 misses, pool pick, offset +0
	withRandSequence([]int{99, 0, 5}, func() {
		result := cs.enemyTurn()
		if result["damage"] != 10 { // 40 - (15 base + 15 armor)
			t.Fatalf("damage=%v, want 10", result["damage"])
		}
	})
	if cs.Player.Health != 90 {
		t.Fatalf("health=%d, want 90", cs.Player.Health)
	}
	if armor.Durability != 99 {
		t.Fatalf("armor durability=%d, want 99", armor.Durability)
	}
}

func TestEnemyTurnZeroDamageSparesArmor(t *testing.T) {
	cs := testCombat()
	armor := mustItem(t, "leather_armor")
	cs.Player.addItem(armor)
	cs.Player.equipItem(armor.ID)

	// enemy attack 12 cannot pierce defense 30
	withRandSequence([]int{99, 0, 5}, func() {
		cs.enemyTurn()
	})
	if armor.Durability != 100 {
		t.Fatalf("armor wore down on a zero damage hit: %d", armor.Durability)
	}
}

func TestEnemyFeintDrainsFocus(t *testing.T) {
	cs := testCombat()
	cs.LastAction = ActionDodge

	withRandSequence([]int{99}, func() {
		result := cs.enemyTurn()
		if result["action"] != EnemyFeint {
			t.Fatalf("action=%v, want feint", result["action"])
		}
	})
	if cs.Player.Focus != 85 {
		t.Fatalf("focus=%d, want 85", cs.Player.Focus)
	}
}

func TestEnemyDefendAndTaunt(t *testing.T) {
	cs := testCombat()
	cs.Enemy.ActionPool = []string{EnemyDefend}

	withRandSequence([]int{99, 0}, func() {
		cs.enemyTurn()
	})
	if cs.Enemy.Defense != 10 || cs.Enemy.Stance != StanceDefensive {
		t.Fatalf("defend effects wrong: defense=%d stance=%s", cs.Enemy.Defense, cs.Enemy.Stance)
	}

	cs.Enemy.ActionPool = []string{EnemyTaunt}
	withRandSequence([]int{99, 0}, func() {
		cs.enemyTurn()
	})
	if cs.Player.Sanity != 95 {
		t.Fatalf("sanity=%d, want 95", cs.Player.Sanity)
	}
}

func TestCheckOutcomeVictoryBeatsDeath(t *testing.T) {
	cs := testCombat()
	cs.Enemy.Health = 0
	cs.Player.Health = 0

	if got := cs.checkOutcome(); got != OutcomeVictory {
		t.Fatalf("outcome=%s, want victory", got)
	}
	if cs.Active {
		t.Fatalf("session still active after victory")
	}
}

func TestCheckOutcomeDeath(t *testing.T) {
	cs := testCombat()
	cs.Player.Health = 0

	if got := cs.checkOutcome(); got != OutcomeDeath {
		t.Fatalf("outcome=%s, want death", got)
	}
}

func TestEndRoundResetsTurn(t *testing.T) {
	cs := testCombat()
	withRandSequence([]int{99}, func() {
		cs.playerAct(ActionAttack, "", "")
	})
	cs.endRound()
	if cs.TurnCount != 1 || cs.PlayerActed {
		t.Fatalf("turn=%d acted=%v", cs.TurnCount, cs.PlayerActed)
	}
	if _, ok, _ := cs.playerAct(ActionDefend, "", ""); !ok {
		t.Fatalf("next round action rejected")
	}
}

func TestActionsRejectedAfterCombatEnds(t *testing.T) {
	cs := testCombat()
	cs.Enemy.Health = 0
	cs.checkOutcome()

	if _, ok, reason := cs.playerAct(ActionAttack, "", ""); ok || reason != ReasonCombatOver {
		t.Fatalf("got ok=%v reason=%s", ok, reason)
	}
}
