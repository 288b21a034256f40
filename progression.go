package main

import "math/rand"

var randIntn = rand.Intn

// gainExperience adds experience and resolves every level-up it pays for.
// Each level costs level*100 and grants +10 to the three resource maximums
// and +2 to base attack and defense. Current pools are not refilled.
func gainExperience(c *Character, amount int) (leveled bool) {
	if amount <= 0 {
		return false
	}
	c.Experience += amount
	for c.Experience >= c.Level*100 {
		c.Experience -= c.Level * 100
		c.Level++
		c.MaxHealth += 10
		c.MaxStamina += 10
		c.MaxFocus += 10
		c.BaseAttack += 2
		c.BaseDefense += 2
		leveled = true
	}
	return leveled
}

// jobRequirement is the level needed to leave the given tier.
func jobRequirement(tier JobTier) int {
	return (int(tier) + 1) * 5
}

// advanceJob moves the character one tier up the ladder when the level gate
// is met, granting a one-time +20 to each resource maximum and +5 to base
// attack and defense. Returns whether the advancement happened.
func advanceJob(c *Character) bool {
	if c.Job >= JobSwordDemon {
		return false
	}
	if c.Level < jobRequirement(c.Job) {
		return false
	}
	c.Job++
	c.MaxHealth += 20
	c.MaxStamina += 20
	c.MaxFocus += 20
	c.BaseAttack += 5
	c.BaseDefense += 5
	return true
}
