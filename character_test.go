package main

import "testing"

func testCharacter() *Character {
	return NewCharacter("Test", OriginWarOrphan)
}

func TestOriginStats(t *testing.T) {
	tests := []struct {
		origin  Origin
		attack  int
		defense int
		money   int
	}{
		{OriginFallenNoble, 15, 12, 100},
		{OriginBanditOutcast, 20, 10, 50},
		{OriginWarOrphan, 12, 15, 10},
	}
	for _, tc := range tests {
		c := NewCharacter("x", tc.origin)
		if c.BaseAttack != tc.attack || c.BaseDefense != tc.defense || c.Money != tc.money {
			t.Fatalf("%s: got %d/%d/%d, want %d/%d/%d",
				tc.origin, c.BaseAttack, c.BaseDefense, c.Money, tc.attack, tc.defense, tc.money)
		}
	}
}

func TestParseOrigin(t *testing.T) {
	if _, ok := parseOrigin("bandit_outcast"); !ok {
		t.Fatalf("known origin rejected")
	}
	if _, ok := parseOrigin("prince"); ok {
		t.Fatalf("unknown origin accepted")
	}
}

func TestTakeDamageUsesTotalDefense(t *testing.T) {
	c := testCharacter() // base defense 15

	actual := c.takeDamage(40)
	if actual != 25 {
		t.Fatalf("actual=%d, want 25", actual)
	}
	if c.Health != 75 {
		t.Fatalf("health=%d, want 75", c.Health)
	}

	// damage below defense lands as zero
	if got := c.takeDamage(10); got != 0 {
		t.Fatalf("actual=%d, want 0", got)
	}
}

func TestTakeDamageFloorsHealthAtZero(t *testing.T) {
	c := testCharacter()
	c.Health = 5

	c.takeDamage(1000)
	if c.Health != 0 {
		t.Fatalf("health=%d, want 0", c.Health)
	}
}

func TestTotalAttackIgnoresBrokenWeapon(t *testing.T) {
	c := testCharacter()
	sword := mustItem(t, "patrol_sword")
	c.addItem(sword)
	if _, ok, _ := c.equipItem(sword.ID); !ok {
		t.Fatalf("equip failed")
	}

	if got := c.totalAttack(); got != 37 { // 12 + 25
		t.Fatalf("totalAttack=%d, want 37", got)
	}

	sword.Durability = 0
	if got := c.totalAttack(); got != 12 {
		t.Fatalf("totalAttack with broken weapon=%d, want 12", got)
	}
}

func TestTotalDefenseIncludesArmorAndBuffs(t *testing.T) {
	c := testCharacter()
	armor := mustItem(t, "leather_armor")
	c.addItem(armor)
	c.equipItem(armor.ID)
	c.addBuff(EffectDefense, 1, 15)

	if got := c.totalDefense(); got != 45 { // 15 + 15 + 15
		t.Fatalf("totalDefense=%d, want 45", got)
	}
}

func TestEquipRejectsBrokenAndWrongKind(t *testing.T) {
	c := testCharacter()
	sword := mustItem(t, "patrol_sword")
	sword.Durability = 0
	c.addItem(sword)

	if _, ok, reason := c.equipItem(sword.ID); ok || reason != ReasonItemBroken {
		t.Fatalf("expected ITEM_BROKEN, got ok=%v reason=%s", ok, reason)
	}

	doc := mustItem(t, "secret_document")
	c.addItem(doc)
	if _, ok, reason := c.equipItem(doc.ID); ok || reason != ReasonWrongItemKind {
		t.Fatalf("expected WRONG_ITEM_KIND, got ok=%v reason=%s", ok, reason)
	}

	if _, ok, reason := c.equipItem("missing"); ok || reason != ReasonItemNotFound {
		t.Fatalf("expected ITEM_NOT_FOUND, got ok=%v reason=%s", ok, reason)
	}
}

func TestRemoveItemClearsEquipSlot(t *testing.T) {
	c := testCharacter()
	sword := mustItem(t, "rusty_sword")
	c.addItem(sword)
	c.equipItem(sword.ID)

	if !c.removeItem(sword.ID) {
		t.Fatalf("remove failed")
	}
	if c.equippedWeapon() != nil {
		t.Fatalf("weapon slot still points at removed item")
	}
}

func TestDodgeChanceCap(t *testing.T) {
	c := testCharacter()
	c.Focus = 100
	c.addBuff(EffectDodge, 2, 30)
	c.addBuff(EffectDodge, 2, 30)

	if got := c.dodgeChance(); got != 75 {
		t.Fatalf("dodgeChance=%d, want cap 75", got)
	}
}

func TestSanityClamp(t *testing.T) {
	c := testCharacter()
	c.adjustSanity(50)
	if c.Sanity != 100 {
		t.Fatalf("sanity=%d, want 100", c.Sanity)
	}
	c.adjustSanity(-200)
	if c.Sanity != 0 {
		t.Fatalf("sanity=%d, want 0", c.Sanity)
	}
}

func TestRestoreCapsAtMaxima(t *testing.T) {
	c := testCharacter()
	c.Health = 50
	c.Stamina = 90
	c.Focus = 95

	c.restore()
	if c.Health != 60 || c.Stamina != 100 || c.Focus != 100 {
		t.Fatalf("got health=%d stamina=%d focus=%d", c.Health, c.Stamina, c.Focus)
	}
}

func TestTickStatusEffectsPrunesExpired(t *testing.T) {
	c := testCharacter()
	c.addBuff(EffectDodge, 2, 30)
	c.addBuff(EffectDefense, 1, 15)

	c.tickStatusEffects()
	if !c.hasBuff(EffectDodge) {
		t.Fatalf("dodge buff expired a round early")
	}
	if c.hasBuff(EffectDefense) {
		t.Fatalf("defense buff survived its round")
	}

	c.tickStatusEffects()
	if c.hasBuff(EffectDodge) {
		t.Fatalf("dodge buff survived two rounds")
	}
}

func TestEnsureCharacterDefaults(t *testing.T) {
	c := &Character{Name: "Bare", Origin: OriginFallenNoble, Location: "nowhere"}
	ensureCharacterDefaults(c)

	if c.Equipped == nil || c.Skills == nil || c.NPCTrust == nil {
		t.Fatalf("maps not initialized")
	}
	if c.Level != 1 || c.MaxHealth != 100 {
		t.Fatalf("level=%d maxHealth=%d", c.Level, c.MaxHealth)
	}
	if c.Location != startLocationID {
		t.Fatalf("location=%q, want %q", c.Location, startLocationID)
	}
	if c.FactionAffinity[FactionPalace] == 0 {
		t.Fatalf("faction affinity not filled from origin")
	}
}
