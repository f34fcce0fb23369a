package combat_test

import (
	"github.com/cory-johannsen/rpjamma/internal/game/combat"
	"github.com/cory-johannsen/rpjamma/internal/game/ruleset"
)

// seqSrc replays a fixed sequence of draws, clamped into [0, n).
type seqSrc struct {
	vals []int
	i    int
}

func (s *seqSrc) Intn(n int) int {
	v := s.vals[s.i%len(s.vals)]
	s.i++
	if v >= n {
		v = n - 1
	}
	if v < 0 {
		v = 0
	}
	return v
}

// fixedSrc returns val for every draw, clamped into [0, n).
type fixedSrc struct{ val int }

func (f fixedSrc) Intn(n int) int {
	if f.val >= n {
		return n - 1
	}
	return f.val
}

func archetype(id ruleset.ArchetypeID) *ruleset.Archetype {
	return ruleset.DefaultTable().MustGet(id)
}

// plainFighter is a swordsman that never crits, so damage draws only the
// variance.
func plainFighter() *ruleset.Archetype {
	a := *archetype(ruleset.Swordsman)
	a.CritChance = 0
	return &a
}

func fighter(name string, atk, def, spd, hp int) *combat.Combatant {
	return combat.NewCombatant(name, plainFighter(), 1, ruleset.Stats{Attack: atk, Defense: def, Speed: spd, HP: hp})
}

func cleric(name string, atk, hp int) *combat.Combatant {
	return combat.NewCombatant(name, archetype(ruleset.Cleric), 1, ruleset.Stats{Attack: atk, Defense: 40, Speed: 40, HP: hp})
}
