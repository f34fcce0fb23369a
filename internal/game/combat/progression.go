package combat

import (
	"math"

	"github.com/cory-johannsen/rpjamma/internal/game/dice"
)

// ExpPerBank is the modulus banked experience wraps at after a gain.
const ExpPerBank = 100

// ExpThreshold returns the experience total needed to level up from level:
// e^level * 5.
func ExpThreshold(level int) float64 {
	return math.Exp(float64(level)) * 5
}

// ExpReward returns the experience earned for hitting a combatant at level:
// floor(e^level) for a kill, floor(e^level / 10) otherwise.
func ExpReward(level int, killed bool) int {
	if killed {
		return int(math.Exp(float64(level)))
	}
	return int(math.Exp(float64(level)) / 10)
}

// IncLevel raises the combatant by n levels, adding one growth roll per
// level to attack, defense, speed and both HP and max HP.
//
// Precondition: n >= 0.
// Postcondition: Level increased by n; MaxHP never decreases.
func (c *Combatant) IncLevel(src dice.Source, n int) {
	for i := 0; i < n; i++ {
		g := c.Archetype.RollGrowth(src)
		c.Level++
		c.Attack += g.Attack
		c.Defense += g.Defense
		c.Speed += g.Speed
		c.maxHP += g.HP
		c.hp += g.HP
	}
}

// GainExp adds amount to banked experience. If the total reaches the
// threshold for the current level the combatant gains exactly one level.
// Banked experience then becomes total mod 100 whether or not a level was
// gained.
//
// Postcondition: 0 <= Exp < 100; returns true iff a level was gained.
func (c *Combatant) GainExp(src dice.Source, amount int) bool {
	total := c.Exp + amount
	leveled := false
	if float64(total) >= ExpThreshold(c.Level) {
		c.IncLevel(src, 1)
		leveled = true
	}
	c.Exp = total % ExpPerBank
	if c.Exp < 0 {
		c.Exp = 0
	}
	return leveled
}

// EarnExp awards the experience for acting on target and returns the amount.
func (c *Combatant) EarnExp(src dice.Source, target *Combatant) (amount int, leveled bool) {
	amount = ExpReward(target.Level, target.IsDead())
	return amount, c.GainExp(src, amount)
}
