// Package dice provides the randomness abstraction and roll-result types
// shared by every stochastic part of the battle engine.
package dice

import "fmt"

// RollResult holds the full audit trail for a single dice roll evaluation.
//
// Postcondition: Total() == sum(Dice) + Modifier.
type RollResult struct {
	Expression string // original expression string, e.g. "1d11+74"
	Dice       []int  // individual die results before modifier
	Modifier   int    // flat modifier (may be negative)
}

// Total returns the sum of all die results plus the modifier.
//
// Postcondition: return value == sum(r.Dice) + r.Modifier.
func (r RollResult) Total() int {
	total := r.Modifier
	for _, d := range r.Dice {
		total += d
	}
	return total
}

// String returns a human-readable audit string in the format:
//
//	"1d3+1 → [2] +1 = 3"
//
// Precondition: r.Expression is non-empty.
func (r RollResult) String() string {
	if r.Expression == "" {
		panic("dice: RollResult.String() precondition violated: Expression must be non-empty")
	}
	diceStr := fmt.Sprintf("%v", r.Dice)
	modStr := fmt.Sprintf("%+d", r.Modifier)
	return fmt.Sprintf("%s → %s %s = %d", r.Expression, diceStr, modStr, r.Total())
}

// Source is the randomness provider for every draw the engine makes: damage
// jitter, critical rolls, target selection and stat growth.
//
// A battle is single-threaded, so implementations need not be safe for
// concurrent use unless they are shared across battles.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
}

// Between returns a uniformly distributed int in the inclusive range [min, max].
//
// Precondition: min <= max; src must be non-nil.
// Postcondition: min <= result <= max; exactly one Intn draw is consumed.
func Between(src Source, min, max int) int {
	if min > max {
		panic(fmt.Sprintf("dice: Between called with min %d > max %d", min, max))
	}
	return min + src.Intn(max-min+1)
}

// Chance reports success for a percent-based roll.
// A percent of 100 or more always succeeds without drawing; otherwise one
// Intn(100) draw is consumed and compared against percent.
//
// Postcondition: percent <= 0 never succeeds; percent >= 100 always succeeds.
func Chance(src Source, percent int) bool {
	if percent >= 100 {
		return true
	}
	return src.Intn(100) < percent
}

// Coin returns true or false with equal probability.
func Coin(src Source) bool {
	return src.Intn(2) == 1
}
