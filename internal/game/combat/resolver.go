package combat

import "github.com/cory-johannsen/rpjamma/internal/game/dice"

// CritMultiplier scales the varied attack on a critical strike.
const CritMultiplier = 1.5

// DamageResult holds the outcome of one damage or healing resolution.
type DamageResult struct {
	// Magnitude is the resolved amount. For attacks it is negative when the
	// varied attack falls short of defense, which raises the target's HP.
	Magnitude int
	// Variance is the signed delta drawn from [-attack/10, attack/10].
	Variance int
	// Critical is true when the multiplier was applied.
	Critical bool
	// Healing is true when Magnitude restores HP instead of removing it.
	Healing bool
	// Support is true when the actor had no critical chance at all.
	Support bool
}

// ResolveDamage computes the HP change an attack of the given strength
// inflicts against defense.
//
//	ten   = attack/10 (truncated)
//	delta = uniform in [-ten, ten]
//	crit  = 1.5 if a critChance% roll succeeds, else 1
//	if defense < attack: (attack+delta)*crit truncated, minus defense
//	else: 1
//
// Draw order is variance then crit. A critChance of 100 never draws for the
// crit, so the source advances by exactly one in that case.
//
// Precondition: attack >= 0; 0 <= critChance <= 100.
func ResolveDamage(attack, defense, critChance int, src dice.Source) DamageResult {
	ten := attack / 10
	delta := dice.Between(src, -ten, ten)
	crit := dice.Chance(src, critChance)

	res := DamageResult{Variance: delta, Critical: crit, Support: critChance == 0}
	if defense >= attack {
		res.Magnitude = 1
		return res
	}
	mult := 1.0
	if crit {
		mult = CritMultiplier
	}
	res.Magnitude = int(float64(attack+delta)*mult) - defense
	return res
}

// ResolveAction computes what actor does to target. Healers ignore the
// target's defense and never crit.
//
// Precondition: actor and target must be non-nil.
func ResolveAction(actor, target *Combatant, src dice.Source) DamageResult {
	if actor.Heals() {
		res := ResolveDamage(actor.Attack, 0, 0, src)
		res.Healing = true
		return res
	}
	return ResolveDamage(actor.Attack, target.Defense, actor.CritChance, src)
}

// applyResult mutates target's HP by res and returns the transition. The
// only clamp is the [0, maxHP] bound of SetHP.
func applyResult(target *Combatant, res DamageResult) (before, after int) {
	if res.Healing {
		return target.ApplyDelta(res.Magnitude)
	}
	return target.ApplyDelta(-res.Magnitude)
}
