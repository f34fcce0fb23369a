package combat

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/rpjamma/internal/game/dice"
)

// State is a battle state machine phase.
type State int

const (
	// StateRoundStart opens a round or ends the battle if a roster is
	// already defeated.
	StateRoundStart State = iota
	// StateAssignTargets resolves a target for every living combatant.
	StateAssignTargets
	// StateSequence computes the acting order.
	StateSequence
	// StateExecute runs each action in order.
	StateExecute
	// StateCheckEnd decides whether another round follows.
	StateCheckEnd
	// StateOver is terminal.
	StateOver
)

// String returns a lowercase label.
func (s State) String() string {
	switch s {
	case StateRoundStart:
		return "round_start"
	case StateAssignTargets:
		return "assign_targets"
	case StateSequence:
		return "sequence"
	case StateExecute:
		return "execute"
	case StateCheckEnd:
		return "check_end"
	case StateOver:
		return "over"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Battle holds the live state of one encounter between two rosters.
type Battle struct {
	// A and B are the two rosters. Within a speed tie A's members act first.
	A, B *Party
	// Round is the current round number, starting at 0 before the first round.
	Round int
	// Order is the acting order of the current round.
	Order []*Combatant

	state     State
	outcome   Outcome
	maxRounds int

	src      dice.Source
	resolver *TargetResolver
	narrator Narrator
	logger   *zap.Logger

	input   InputProvider
	chooser TargetChooser
}

// Option configures a Battle.
type Option func(*Battle)

// WithNarrator sets the event sink.
func WithNarrator(n Narrator) Option { return func(b *Battle) { b.narrator = n } }

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option { return func(b *Battle) { b.logger = l } }

// WithInput sets the provider used for player-controlled target choices.
func WithInput(p InputProvider) Option { return func(b *Battle) { b.input = p } }

// WithChooser sets the strategy used for automated target choices.
func WithChooser(c TargetChooser) Option { return func(b *Battle) { b.chooser = c } }

// WithMaxRounds ends the battle as a Draw after n rounds. Zero means no limit.
func WithMaxRounds(n int) Option { return func(b *Battle) { b.maxRounds = n } }

// NewBattle creates a battle between a and b. Randomness for damage, targets
// and redirection all comes from src.
//
// Precondition: a, b and src must be non-nil; a != b.
// Postcondition: State() == StateRoundStart; Round == 0.
func NewBattle(a, b *Party, src dice.Source, opts ...Option) *Battle {
	if a == nil || b == nil || src == nil {
		panic("combat.NewBattle: parties and source must not be nil")
	}
	if a == b {
		panic("combat.NewBattle: a party cannot fight itself")
	}
	bt := &Battle{A: a, B: b, src: src}
	for _, opt := range opts {
		opt(bt)
	}
	if bt.narrator == nil {
		bt.narrator = nopNarrator{}
	}
	if bt.logger == nil {
		bt.logger = zap.NewNop()
	}
	bt.resolver = NewTargetResolver(bt.input, bt.chooser, bt.narrator, src, bt.logger)
	return bt
}

// State returns the current phase.
func (b *Battle) State() State { return b.state }

// Outcome returns the result, or OutcomeUndecided while running.
func (b *Battle) Outcome() Outcome { return b.outcome }

// Over reports whether the battle has ended.
func (b *Battle) Over() bool { return b.state == StateOver }

func (b *Battle) emit(e Event) {
	b.narrator.Narrate(e)
}

// Step advances the state machine by one phase.
//
// Postcondition: on error the state is unchanged so the phase can be retried.
func (b *Battle) Step(ctx context.Context) error {
	switch b.state {
	case StateRoundStart:
		if b.A.IsDefeated() || b.B.IsDefeated() {
			b.finish()
			return nil
		}
		b.Round++
		player, enemy := b.sides()
		b.emit(Event{Kind: EventRoundStart, Round: b.Round, Player: player, Enemy: enemy})
		b.state = StateAssignTargets

	case StateAssignTargets:
		if err := b.assignTargets(ctx, b.A, b.B); err != nil {
			return err
		}
		if err := b.assignTargets(ctx, b.B, b.A); err != nil {
			return err
		}
		b.state = StateSequence

	case StateSequence:
		b.Order = TurnOrder(b.A, b.B)
		b.state = StateExecute

	case StateExecute:
		for _, e := range ResolveRound(b.Round, b.Order, b.src) {
			b.emit(e)
		}
		b.state = StateCheckEnd

	case StateCheckEnd:
		switch {
		case b.A.IsDefeated() || b.B.IsDefeated():
			b.finish()
		case b.maxRounds > 0 && b.Round >= b.maxRounds:
			b.logger.Info("round limit reached", zap.Int("round", b.Round))
			b.finish()
		default:
			b.state = StateRoundStart
		}

	case StateOver:
	}
	return nil
}

// assignTargets resolves targets for every living member of side, which
// fights against opposing. Each member is resolved once per round.
func (b *Battle) assignTargets(ctx context.Context, side, opposing *Party) error {
	for _, m := range side.Members() {
		if m.IsDead() {
			continue
		}
		if err := b.resolver.Resolve(ctx, b.Round, m, opposing); err != nil {
			return err
		}
	}
	return nil
}

// sides returns the rosters as (player, enemy). A is the player side unless
// only B is player-controlled.
func (b *Battle) sides() (player, enemy *Party) {
	if !b.A.IsPlayerControlled() && b.B.IsPlayerControlled() {
		return b.B, b.A
	}
	return b.A, b.B
}

// finish decides the outcome and enters StateOver.
func (b *Battle) finish() {
	player, enemy := b.sides()
	switch {
	case player.IsDefeated() && enemy.IsDefeated():
		b.outcome = Draw
	case enemy.IsDefeated():
		b.outcome = PlayerVictory
	case player.IsDefeated():
		b.outcome = PlayerDefeat
	default:
		b.outcome = Draw
	}
	b.state = StateOver
	b.logger.Info("battle over",
		zap.Int("rounds", b.Round),
		zap.Stringer("outcome", b.outcome),
	)
	b.emit(Event{Kind: EventOutcome, Round: b.Round, Outcome: b.outcome, Player: player, Enemy: enemy})
}

// Run drives the state machine until the battle ends.
//
// Postcondition: on nil error, Over() is true and the returned Outcome is
// decided. An error is returned only when ctx is cancelled or target input
// fails.
func (b *Battle) Run(ctx context.Context) (Outcome, error) {
	for !b.Over() {
		if err := ctx.Err(); err != nil {
			return OutcomeUndecided, err
		}
		if err := b.Step(ctx); err != nil {
			return OutcomeUndecided, fmt.Errorf("round %d %s: %w", b.Round, b.state, err)
		}
	}
	return b.outcome, nil
}
