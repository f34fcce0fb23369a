package combat

import (
	"github.com/google/uuid"

	"github.com/cory-johannsen/rpjamma/internal/game/dice"
)

// Party is a roster of combatants fighting on the same side.
//
// Membership has set semantics keyed by Combatant.ID and preserves insertion
// order, which is also the enumeration order every query uses.
//
// Invariant: every member's Party() is this roster; a combatant is a member of
// at most one Party.
type Party struct {
	members          []*Combatant
	playerControlled bool
}

// NewParty creates a roster and adds members in order.
//
// Postcondition: IsPlayerControlled() == playerControlled.
func NewParty(playerControlled bool, members ...*Combatant) *Party {
	p := &Party{playerControlled: playerControlled}
	for _, m := range members {
		p.AddMember(m)
	}
	return p
}

// IsPlayerControlled reports whether targets for this roster come from the
// human input provider.
func (p *Party) IsPlayerControlled() bool { return p.playerControlled }

// AddMember inserts c and points its back-reference at p. A combatant already
// in p is left where it is; a combatant in another party is moved.
//
// Precondition: c must be non-nil.
// Postcondition: p.Contains(c) && c.Party() == p.
func (p *Party) AddMember(c *Combatant) {
	if c.party == p && p.Contains(c) {
		return
	}
	if c.party != nil {
		c.party.remove(c)
	}
	p.members = append(p.members, c)
	c.party = p
}

// AddParty moves every member of other into p, in other's order.
//
// Postcondition: other.Len() == 0 unless other == p.
func (p *Party) AddParty(other *Party) {
	if other == nil || other == p {
		return
	}
	for _, m := range other.Members() {
		p.AddMember(m)
	}
}

func (p *Party) remove(c *Combatant) {
	for i, m := range p.members {
		if m.ID == c.ID {
			p.members = append(p.members[:i], p.members[i+1:]...)
			break
		}
	}
	if c.party == p {
		c.party = nil
	}
}

// Members returns a copy of the roster in insertion order.
func (p *Party) Members() []*Combatant {
	out := make([]*Combatant, len(p.members))
	copy(out, p.members)
	return out
}

// Len returns the number of members, living or dead.
func (p *Party) Len() int { return len(p.members) }

// Contains reports membership by identity.
func (p *Party) Contains(c *Combatant) bool {
	return c != nil && p.ByID(c.ID) != nil
}

// ByID returns the member with the given ID, or nil.
func (p *Party) ByID(id uuid.UUID) *Combatant {
	for _, m := range p.members {
		if m.ID == id {
			return m
		}
	}
	return nil
}

// Member returns the first member named name in enumeration order, living or
// dead, or nil. When names collide the earlier-added member wins.
func (p *Party) Member(name string) *Combatant {
	for _, m := range p.members {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// Living returns the members with HP > 0 in insertion order.
func (p *Party) Living() []*Combatant {
	var alive []*Combatant
	for _, m := range p.members {
		if !m.IsDead() {
			alive = append(alive, m)
		}
	}
	return alive
}

// TotalHP sums every member's current HP.
func (p *Party) TotalHP() int {
	total := 0
	for _, m := range p.members {
		total += m.HP()
	}
	return total
}

// IsDefeated reports whether TotalHP is zero. An empty roster is defeated.
func (p *Party) IsDefeated() bool { return p.TotalHP() == 0 }

// Random returns a uniformly chosen member regardless of liveness, or nil for
// an empty roster. Callers that need a living target must re-roll.
func (p *Party) Random(src dice.Source) *Combatant {
	if len(p.members) == 0 {
		return nil
	}
	return p.members[src.Intn(len(p.members))]
}

// RandomLiving returns a uniformly chosen living member, or nil if none.
func (p *Party) RandomLiving(src dice.Source) *Combatant {
	alive := p.Living()
	if len(alive) == 0 {
		return nil
	}
	return alive[src.Intn(len(alive))]
}

// BySpeedDesc returns the members ordered fastest first. Equal speeds keep
// insertion order.
func (p *Party) BySpeedDesc() []*Combatant {
	out := p.Members()
	sortBySpeedDesc(out)
	return out
}

// AverageLevel returns the integer mean level of all members, or 1 for an
// empty roster.
func (p *Party) AverageLevel() int {
	if len(p.members) == 0 {
		return 1
	}
	total := 0
	for _, m := range p.members {
		total += m.Level
	}
	return total / len(p.members)
}

// Restore brings every member back to full health.
func (p *Party) Restore() {
	for _, m := range p.members {
		m.Restore()
	}
}
