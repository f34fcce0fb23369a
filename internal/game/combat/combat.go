// Package combat implements the turn-based party battle engine: combatants
// and their rosters, speed ordering, target resolution, damage and healing,
// experience, and the round state machine that ties them together.
//
// A Battle is single-threaded. Exactly one goroutine may drive it, and the
// two parties it holds must not be mutated elsewhere while it runs.
package combat

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/cory-johannsen/rpjamma/internal/game/ruleset"
)

// Combatant is one fighter: identity, archetype, mutable stats and a weak
// reference to the combatant it intends to act on this round.
//
// Invariant: 0 <= HP() <= MaxHP(); MaxHP() > 0 and never decreases.
type Combatant struct {
	// ID is the identity handle. Party membership and target references are
	// keyed by ID, never by Name.
	ID uuid.UUID
	// Name is the display name; two combatants may share one.
	Name       string
	Archetype  *ruleset.Archetype
	Level      int
	Attack     int
	Defense    int
	Speed      int
	Accuracy   int
	CritChance int
	// Exp is the banked experience, always in [0, 99].
	Exp int

	hp    int
	maxHP int

	party  *Party
	target targetRef
}

// targetRef is a non-owning handle: the party the target belonged to when it
// was chosen, plus the target's ID. It is resolved at use time so a death
// never has to be propagated to the combatants aiming at the dead one.
type targetRef struct {
	party *Party
	id    uuid.UUID
}

// NewCombatant creates a level-1 shaped combatant at full health.
//
// Precondition: arch must be non-nil; stats.HP must be > 0; level >= 1.
// Postcondition: HP() == MaxHP() == stats.HP; Accuracy and CritChance come from arch.
func NewCombatant(name string, arch *ruleset.Archetype, level int, stats ruleset.Stats) *Combatant {
	if arch == nil {
		panic("combat.NewCombatant: archetype must not be nil")
	}
	if stats.HP <= 0 {
		panic(fmt.Sprintf("combat.NewCombatant: hp must be > 0, got %d", stats.HP))
	}
	if level < 1 {
		level = 1
	}
	return &Combatant{
		ID:         uuid.New(),
		Name:       name,
		Archetype:  arch,
		Level:      level,
		Attack:     stats.Attack,
		Defense:    stats.Defense,
		Speed:      stats.Speed,
		Accuracy:   arch.Accuracy,
		CritChance: arch.CritChance,
		hp:         stats.HP,
		maxHP:      stats.HP,
	}
}

// HP returns current hit points.
func (c *Combatant) HP() int { return c.hp }

// MaxHP returns the hit point capacity.
func (c *Combatant) MaxHP() int { return c.maxHP }

// SetHP sets current hit points, clamped to [0, MaxHP()].
func (c *Combatant) SetHP(hp int) {
	switch {
	case hp < 0:
		hp = 0
	case hp > c.maxHP:
		hp = c.maxHP
	}
	c.hp = hp
}

// ApplyDelta adds delta (negative for damage, positive for healing) to HP,
// clamped to [0, MaxHP()].
//
// Postcondition: returns the HP before and after the change.
func (c *Combatant) ApplyDelta(delta int) (before, after int) {
	before = c.hp
	c.SetHP(c.hp + delta)
	return before, c.hp
}

// Restore returns the combatant to full health.
func (c *Combatant) Restore() { c.hp = c.maxHP }

// IsDead reports whether HP is zero.
func (c *Combatant) IsDead() bool { return c.hp == 0 }

// Heals reports whether this combatant's actions restore allies instead of
// damaging enemies.
func (c *Combatant) Heals() bool { return c.Archetype != nil && c.Archetype.Heals }

// Class returns the archetype display name.
func (c *Combatant) Class() string {
	if c.Archetype == nil {
		return ""
	}
	return c.Archetype.Name
}

// Party returns the roster this combatant currently belongs to, or nil.
func (c *Combatant) Party() *Party { return c.party }

// Target resolves the remembered target, or nil if none was set or the
// target has since left the party it was chosen from.
func (c *Combatant) Target() *Combatant {
	if c.target.party == nil {
		return nil
	}
	return c.target.party.ByID(c.target.id)
}

// SetTarget remembers t as this combatant's target; nil clears it.
func (c *Combatant) SetTarget(t *Combatant) {
	if t == nil || t.party == nil {
		c.target = targetRef{}
		return
	}
	c.target = targetRef{party: t.party, id: t.ID}
}

// String returns the display name.
func (c *Combatant) String() string { return c.Name }

// Stats returns the multi-line stat block shown while drafting.
func (c *Combatant) Stats() string {
	return fmt.Sprintf("Name:  %s\nClass: %s\nLevel: %d\nHp:    %d\nAtt:   %d\nDef:   %d\nSpd:   %d\n",
		c.Name, c.Class(), c.Level, c.maxHP, c.Attack, c.Defense, c.Speed)
}
