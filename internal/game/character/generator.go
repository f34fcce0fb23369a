// Package character builds combatants: rolling archetype stats, naming them,
// drafting a player party from candidates and generating enemy parties.
package character

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/rpjamma/internal/game/combat"
	"github.com/cory-johannsen/rpjamma/internal/game/dice"
	"github.com/cory-johannsen/rpjamma/internal/game/ruleset"
	"github.com/cory-johannsen/rpjamma/internal/names"
)

// recruitWeights maps a Between(0, 5) draw to a draft candidate archetype:
// two Swordsman, one Assassin, one Tank and two Cleric faces.
var recruitWeights = [6]ruleset.ArchetypeID{
	ruleset.Swordsman, ruleset.Assassin, ruleset.Tank, ruleset.Cleric, ruleset.Swordsman, ruleset.Cleric,
}

// enemyWeights maps a Between(0, 5) draw to an enemy fighter archetype.
// Enemy parties get exactly one Cleric on top of these draws.
var enemyWeights = [6]ruleset.ArchetypeID{
	ruleset.Swordsman, ruleset.Assassin, ruleset.Tank, ruleset.Tank, ruleset.Assassin, ruleset.Swordsman,
}

// Generator creates combatants from an archetype table and a name provider.
type Generator struct {
	table  *ruleset.Table
	names  names.Provider
	src    dice.Source
	logger *zap.Logger
}

// NewGenerator creates a Generator. Name lookups fall back to the built-in
// list when provider fails or is nil.
//
// Precondition: table and src must be non-nil.
func NewGenerator(table *ruleset.Table, provider names.Provider, src dice.Source, logger *zap.Logger) *Generator {
	if table == nil || src == nil {
		panic("character.NewGenerator: table and source must not be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{
		table: table,
		names: names.Fallback{
			Primary:   provider,
			Secondary: names.NewStaticPool(src),
			OnError: func(err error) {
				logger.Warn("name provider failed; using built-in names", zap.Error(err))
			},
		},
		src:    src,
		logger: logger,
	}
}

// New builds a combatant of the given archetype at level: base stats are
// rolled, a name is drawn, then level-1 growth rolls are applied.
//
// Precondition: level >= 1.
// Postcondition: Returns a full-health combatant with Level == level, or a non-nil error.
func (g *Generator) New(ctx context.Context, id ruleset.ArchetypeID, level int) (*combat.Combatant, error) {
	if level < 1 {
		return nil, fmt.Errorf("level must be >= 1, got %d", level)
	}
	arch, ok := g.table.Get(id)
	if !ok {
		return nil, fmt.Errorf("unknown archetype %q", id)
	}
	stats := arch.RollBase(g.src)
	name, err := g.names.Name(ctx)
	if err != nil {
		return nil, fmt.Errorf("naming %s: %w", arch.Name, err)
	}
	c := combat.NewCombatant(name, arch, 1, stats)
	c.IncLevel(g.src, level-1)
	g.logger.Debug("combatant generated",
		zap.String("name", c.Name),
		zap.String("archetype", string(arch.ID)),
		zap.Int("level", c.Level),
	)
	return c, nil
}

// Recruit builds one level-1 draft candidate with recruit weighting.
func (g *Generator) Recruit(ctx context.Context) (*combat.Combatant, error) {
	return g.New(ctx, recruitWeights[dice.Between(g.src, 0, 5)], 1)
}

// Candidates builds n draft candidates.
//
// Postcondition: len(result) == n on nil error.
func (g *Generator) Candidates(ctx context.Context, n int) ([]*combat.Combatant, error) {
	out := make([]*combat.Combatant, 0, n)
	for i := 0; i < n; i++ {
		c, err := g.Recruit(ctx)
		if err != nil {
			return nil, fmt.Errorf("candidate %d: %w", i+1, err)
		}
		out = append(out, c)
	}
	return out, nil
}

// EnemyParty builds count weighted fighters plus one Cleric, all at level,
// in a roster that is not player-controlled.
//
// Precondition: level >= 1; count >= 0.
// Postcondition: result.Len() == count+1 on nil error.
func (g *Generator) EnemyParty(ctx context.Context, level, count int) (*combat.Party, error) {
	if count < 0 {
		return nil, errors.New("enemy count must be >= 0")
	}
	p := combat.NewParty(false)
	for i := 0; i < count; i++ {
		c, err := g.New(ctx, enemyWeights[dice.Between(g.src, 0, 5)], level)
		if err != nil {
			return nil, fmt.Errorf("enemy %d: %w", i+1, err)
		}
		p.AddMember(c)
	}
	c, err := g.New(ctx, ruleset.Cleric, level)
	if err != nil {
		return nil, fmt.Errorf("enemy cleric: %w", err)
	}
	p.AddMember(c)
	return p, nil
}
