package main

// restAmbushChance is the odds that a rest in the open draws an attacker.
const restAmbushChance = 20

// exploreResult covers one EXPLORE roll: either an enemy steps out, a
// non-combat event fires, or nothing happens.
type exploreResult struct {
	Enemy *Enemy
	Event map[string]interface{}
}

// explore rolls the current location. Encounter odds scale with danger
// level and cap at 90; the remainder splits between a found event and a
// quiet sweep.
func explore(c *Character) exploreResult {
	loc := worldMap[c.Location]
	chance := 30 + loc.DangerLevel*15
	if chance > 90 {
		chance = 90
	}
	if randIntn(100)+1 <= chance {
		return exploreResult{Enemy: spawnEnemy(loc.DangerLevel, isNight(c))}
	}
	if randIntn(100)+1 <= 40 {
		return exploreResult{Event: exploreEvent(c)}
	}
	return exploreResult{Event: map[string]interface{}{
		"event":   "nothing",
		"message": "You search the area and find nothing but wind and dust.",
	}}
}

// exploreEvent fires one of the non-combat finds.
func exploreEvent(c *Character) map[string]interface{} {
	switch randIntn(3) {
	case 0:
		// A wounded soldier, helped back to his feet. The palace remembers.
		c.FactionAffinity[FactionPalace] += 5
		gainExperience(c, 10)
		return map[string]interface{}{
			"event":   "wounded_soldier",
			"message": "You bind a wounded soldier's leg. He limps off toward the gate, swearing the palace will hear of this.",
		}
	case 1:
		found := randIntn(21) + 5
		c.Money += found
		return map[string]interface{}{
			"event":   "coin_purse",
			"message": "A dropped coin purse, half trodden into the mud.",
			"money":   found,
		}
	default:
		c.adjustSanity(-5)
		c.Nightmares = appendUnique(c.Nightmares, "black omen")
		return map[string]interface{}{
			"event":   "omen",
			"message": "A crow with too many eyes watches you from a dead branch. You will see it again in your sleep.",
			"sanity":  c.Sanity,
		}
	}
}

// victoryRewards settles a won encounter: experience with its level-up and
// job advancement chain, loot handed over as-is, and a money roll of 10-50
// plus half the experience reward.
func victoryRewards(c *Character, e *Enemy) map[string]interface{} {
	leveled := gainExperience(c, e.ExperienceReward)
	advanced := false
	if leveled {
		advanced = advanceJob(c)
	}

	money := randIntn(41) + 10 + e.ExperienceReward/2
	c.Money += money

	loot := []string{}
	for _, it := range e.Loot {
		c.addItem(it)
		loot = append(loot, it.Name)
	}

	result := map[string]interface{}{
		"enemy":      e.Name,
		"experience": e.ExperienceReward,
		"money":      money,
		"loot":       loot,
		"level":      c.Level,
	}
	if leveled {
		result["leveled_up"] = true
	}
	if advanced {
		result["job"] = c.Job.String()
	}
	return result
}

// rest resolves one night's rest. A troubled mind (sanity under 30, or
// accumulated nightmares) turns the rest against the sleeper; sanity
// reaching zero there is death by madness. A safe rest restores, with the
// curse taxing sanity and a 20% chance of being ambushed mid-camp.
func rest(c *Character) (map[string]interface{}, *Enemy, bool) {
	advanceClock(c, 3)

	if c.Sanity < 30 || len(c.Nightmares) > 0 {
		c.adjustSanity(-10)
		c.drainStamina(20)
		result := map[string]interface{}{
			"rested":     false,
			"nightmare":  true,
			"message":    "Sleep comes, and with it the things you have seen. You wake worse than you lay down.",
			"sanity":     c.Sanity,
			"stamina":    c.Stamina,
			"nightmares": c.Nightmares,
		}
		if c.Sanity <= 0 {
			return result, nil, true
		}
		return result, nil, false
	}

	c.restore()
	if c.Cursed {
		c.adjustSanity(-5)
	}

	result := map[string]interface{}{
		"rested":  true,
		"health":  c.Health,
		"stamina": c.Stamina,
		"focus":   c.Focus,
		"sanity":  c.Sanity,
	}

	if randIntn(100)+1 <= restAmbushChance {
		loc := worldMap[c.Location]
		enemy := spawnEnemy(loc.DangerLevel, isNight(c))
		result["ambushed"] = true
		result["message"] = "Something moves at the edge of the firelight."
		return result, enemy, false
	}

	result["message"] = "You rest undisturbed."
	return result, nil, false
}

func appendUnique(list []string, value string) []string {
	for _, v := range list {
		if v == value {
			return list
		}
	}
	return append(list, value)
}
