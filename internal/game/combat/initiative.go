package combat

import "github.com/cory-johannsen/rpjamma/internal/game/dice"

// TurnOrder merges both rosters into the round's acting sequence, fastest
// first. Dead members are included; the executor skips them.
//
// Ties keep enumeration order: a's members in insertion order ahead of b's.
// Round sequencing never flips a coin; see Clash for the one-on-one case.
//
// Postcondition: len(result) == a.Len() + b.Len(); result[i].Speed >= result[i+1].Speed.
func TurnOrder(a, b *Party) []*Combatant {
	order := make([]*Combatant, 0, a.Len()+b.Len())
	order = append(order, a.Members()...)
	order = append(order, b.Members()...)
	sortBySpeedDesc(order)
	return order
}

// Clash orders two individual combatants for callers that resolve a direct
// single-target clash outside a round. The faster one acts first; equal
// speeds are decided by a coin flip. TurnOrder does not use it.
func Clash(x, y *Combatant, src dice.Source) (first, second *Combatant) {
	switch {
	case x.Speed > y.Speed:
		return x, y
	case y.Speed > x.Speed:
		return y, x
	case dice.Coin(src):
		return y, x
	default:
		return x, y
	}
}

// sortBySpeedDesc sorts combatants in place, highest speed first. The
// insertion sort is stable so equal speeds keep their relative order.
func sortBySpeedDesc(combatants []*Combatant) {
	n := len(combatants)
	for i := 1; i < n; i++ {
		for j := i; j > 0 && combatants[j].Speed > combatants[j-1].Speed; j-- {
			combatants[j], combatants[j-1] = combatants[j-1], combatants[j]
		}
	}
}
