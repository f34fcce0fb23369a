package combat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/cory-johannsen/rpjamma/internal/game/dice"
)

// ErrNoInput is returned when a player-controlled roster needs a target but
// the input provider is exhausted.
var ErrNoInput = errors.New("combat: no target input available")

// maxChooserAttempts bounds how often an automated chooser may name a dead or
// unknown member before the resolver picks a living one itself.
const maxChooserAttempts = 64

// PromptContext describes one pending target decision.
type PromptContext struct {
	Round int
	// Actor is the combatant that needs a target.
	Actor *Combatant
	// Candidates is the roster the target must come from: the opposing
	// roster for attackers, the actor's own roster for healers.
	Candidates *Party
	// Previous is the actor's remembered target, which blank input reuses.
	Previous *Combatant
}

// InputProvider supplies raw target names for player-controlled combatants.
type InputProvider interface {
	ReadTarget(ctx context.Context, pc PromptContext) (string, error)
}

// InputFunc adapts a function to InputProvider.
type InputFunc func(ctx context.Context, pc PromptContext) (string, error)

// ReadTarget calls f.
func (f InputFunc) ReadTarget(ctx context.Context, pc PromptContext) (string, error) {
	return f(ctx, pc)
}

// TargetChooser picks a target name for combatants not under human control.
// A chooser may name a dead or unknown member; the resolver asks again.
type TargetChooser interface {
	Choose(ctx context.Context, pc PromptContext) (string, error)
}

// RandomChooser names a uniformly random member of the candidate roster,
// living or dead.
type RandomChooser struct {
	Src dice.Source
}

// Choose implements TargetChooser.
func (r RandomChooser) Choose(_ context.Context, pc PromptContext) (string, error) {
	m := pc.Candidates.Random(r.Src)
	if m == nil {
		return "", nil
	}
	return m.Name, nil
}

// TargetResolver turns raw input or chooser picks into validated targets.
type TargetResolver struct {
	input    InputProvider
	chooser  TargetChooser
	narrator Narrator
	src      dice.Source
	logger   *zap.Logger
}

// NewTargetResolver creates a resolver. A nil input makes player-controlled
// rosters fall back to chooser; a nil chooser defaults to RandomChooser.
//
// Precondition: src must be non-nil.
func NewTargetResolver(input InputProvider, chooser TargetChooser, narrator Narrator, src dice.Source, logger *zap.Logger) *TargetResolver {
	if chooser == nil {
		chooser = RandomChooser{Src: src}
	}
	if narrator == nil {
		narrator = nopNarrator{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TargetResolver{input: input, chooser: chooser, narrator: narrator, src: src, logger: logger}
}

// candidatesFor returns the roster actor may target.
func candidatesFor(actor *Combatant, opposing *Party) *Party {
	if actor.Heals() {
		return actor.Party()
	}
	return opposing
}

// Resolve assigns actor's target for the round.
//
// Player-controlled actors read names from the input provider until one names
// a living candidate. Blank input reuses the previous target while it is a
// living candidate, otherwise it picks a random living candidate. Automated
// actors ask the chooser until it names a living candidate.
//
// Postcondition: on nil error, actor.Target() is a living candidate, or nil
// when no living candidate exists.
func (r *TargetResolver) Resolve(ctx context.Context, round int, actor *Combatant, opposing *Party) error {
	candidates := candidatesFor(actor, opposing)
	if candidates == nil || len(candidates.Living()) == 0 {
		actor.SetTarget(nil)
		return nil
	}
	pc := PromptContext{Round: round, Actor: actor, Candidates: candidates, Previous: actor.Target()}

	if r.input != nil && actor.Party() != nil && actor.Party().IsPlayerControlled() {
		return r.resolveHuman(ctx, actor, pc)
	}
	return r.resolveAuto(ctx, actor, pc)
}

func (r *TargetResolver) resolveHuman(ctx context.Context, actor *Combatant, pc PromptContext) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		raw, err := r.input.ReadTarget(ctx, pc)
		if err != nil {
			return fmt.Errorf("reading target for %s: %w", actor.Name, err)
		}
		name := strings.TrimSpace(raw)
		if name == "" {
			if prev := pc.Previous; prev != nil && !prev.IsDead() && pc.Candidates.Contains(prev) {
				actor.SetTarget(prev)
			} else {
				actor.SetTarget(pc.Candidates.RandomLiving(r.src))
			}
			return nil
		}
		m := pc.Candidates.Member(name)
		switch {
		case m == nil:
			r.reject(pc, name, RejectUnknown)
		case m.IsDead() && actor.Heals():
			r.reject(pc, name, RejectDeadAlly)
		case m.IsDead():
			r.reject(pc, name, RejectDeadEnemy)
		default:
			actor.SetTarget(m)
			return nil
		}
	}
}

func (r *TargetResolver) reject(pc PromptContext, input string, reason RejectReason) {
	r.narrator.Narrate(Event{
		Kind:   EventTargetRejected,
		Round:  pc.Round,
		Actor:  pc.Actor,
		Input:  input,
		Reason: reason,
	})
}

func (r *TargetResolver) resolveAuto(ctx context.Context, actor *Combatant, pc PromptContext) error {
	for attempt := 0; attempt < maxChooserAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		name, err := r.chooser.Choose(ctx, pc)
		if err != nil {
			r.logger.Warn("target chooser failed; picking at random",
				zap.String("actor", actor.Name),
				zap.Error(err),
			)
			break
		}
		if m := pc.Candidates.Member(name); m != nil && !m.IsDead() {
			actor.SetTarget(m)
			return nil
		}
	}
	actor.SetTarget(pc.Candidates.RandomLiving(r.src))
	return nil
}
