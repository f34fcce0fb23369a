package combat_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/rpjamma/internal/game/combat"
	"github.com/cory-johannsen/rpjamma/internal/game/dice"
)

func TestResolveDamage_NoCrit(t *testing.T) {
	// ten = 8; Between(-8, 8) draws Intn(17) = 8 -> delta 0; crit roll 50 >= 10.
	src := &seqSrc{vals: []int{8, 50}}
	res := combat.ResolveDamage(80, 50, 10, src)
	assert.Equal(t, 30, res.Magnitude)
	assert.Equal(t, 0, res.Variance)
	assert.False(t, res.Critical)
	assert.False(t, res.Support)
}

func TestResolveDamage_Crit(t *testing.T) {
	src := &seqSrc{vals: []int{8, 5}}
	res := combat.ResolveDamage(80, 50, 10, src)
	assert.True(t, res.Critical)
	assert.Equal(t, 70, res.Magnitude, "int(80*1.5) - 50")
}

func TestResolveDamage_DefenseAtLeastAttackDealsOne(t *testing.T) {
	for _, def := range []int{50, 51, 500} {
		res := combat.ResolveDamage(50, def, 100, &seqSrc{vals: []int{0}})
		assert.Equal(t, 1, res.Magnitude, "defense %d", def)
	}
}

func TestResolveDamage_GuaranteedCritBounds(t *testing.T) {
	low := &seqSrc{vals: []int{0}}
	assert.Equal(t, 135, combat.ResolveDamage(100, 0, 100, low).Magnitude)
	assert.Equal(t, 1, low.i, "a 100% crit does not draw")

	high := &seqSrc{vals: []int{20}}
	assert.Equal(t, 165, combat.ResolveDamage(100, 0, 100, high).Magnitude)
}

func TestProperty_GuaranteedCritWithinRange(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		seed := rapid.Uint64().Draw(rt, "seed")
		res := combat.ResolveDamage(100, 0, 100, dice.NewSeededSource(seed))
		if res.Magnitude < 135 || res.Magnitude > 165 {
			rt.Fatalf("magnitude %d outside [135,165]", res.Magnitude)
		}
		if !res.Critical {
			rt.Fatal("expected critical")
		}
	})
}

func TestProperty_VarianceWithinTenPercent(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		atk := rapid.IntRange(0, 1000).Draw(rt, "attack")
		def := rapid.IntRange(0, 1000).Draw(rt, "defense")
		crit := rapid.IntRange(0, 100).Draw(rt, "crit")
		seed := rapid.Uint64().Draw(rt, "seed")
		res := combat.ResolveDamage(atk, def, crit, dice.NewSeededSource(seed))
		ten := atk / 10
		if res.Variance < -ten || res.Variance > ten {
			rt.Fatalf("variance %d outside +/-%d", res.Variance, ten)
		}
		if def >= atk && res.Magnitude != 1 {
			rt.Fatalf("defense %d >= attack %d should deal 1, got %d", def, atk, res.Magnitude)
		}
	})
}

func TestResolveDamage_CanBeNonPositiveJustAboveDefense(t *testing.T) {
	// delta = -10, no crit: 90 - 95 = -5.
	res := combat.ResolveDamage(100, 95, 0, &seqSrc{vals: []int{0}})
	assert.Equal(t, -5, res.Magnitude)
	assert.True(t, res.Support)
}

func TestResolveAction_HealerIgnoresDefense(t *testing.T) {
	healer := cleric("Mira", 30, 70)
	ally := fighter("Ash", 80, 500, 60, 100)
	// ten = 3; Intn(7) = 3 -> delta 0.
	res := combat.ResolveAction(healer, ally, &seqSrc{vals: []int{3}})
	assert.True(t, res.Healing)
	assert.False(t, res.Critical)
	assert.Equal(t, 30, res.Magnitude)
}
