// Package session runs the play-again loop: draft or heal a party, fight a
// freshly generated enemy party, report, and ask whether to go again.
package session

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/cory-johannsen/rpjamma/internal/game/character"
	"github.com/cory-johannsen/rpjamma/internal/game/combat"
	"github.com/cory-johannsen/rpjamma/internal/game/dice"
)

// AgainPrompt is the question asked after every battle.
const AgainPrompt = "Go another round? (y/n)"

// Asker asks the player a free-form question.
type Asker interface {
	Ask(ctx context.Context, question string) (string, error)
}

// Options sizes the session.
type Options struct {
	// PartySize is how many candidates the player drafts.
	PartySize int
	// DraftPool is how many candidates are offered.
	DraftPool int
	// EnemyCount is how many non-Cleric enemies join the one enemy Cleric.
	EnemyCount int
	// MaxRounds caps each battle; zero means unbounded.
	MaxRounds int
}

// DefaultOptions returns the classic 4-from-10 against 3+1 setup.
func DefaultOptions() Options {
	return Options{PartySize: 4, DraftPool: 10, EnemyCount: 3}
}

// Tally counts battle outcomes. All methods are safe for concurrent use.
type Tally struct {
	mu       sync.RWMutex
	outcomes map[combat.Outcome]int
}

func (t *Tally) record(o combat.Outcome) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.outcomes == nil {
		t.outcomes = make(map[combat.Outcome]int)
	}
	t.outcomes[o]++
}

// Count returns how many battles ended with o.
func (t *Tally) Count(o combat.Outcome) int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.outcomes[o]
}

// Battles returns the number of finished battles.
func (t *Tally) Battles() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	n := 0
	for _, c := range t.outcomes {
		n += c
	}
	return n
}

// Session wires the generator, the player-facing I/O and the battle engine.
type Session struct {
	gen      *character.Generator
	prompter character.Prompter
	asker    Asker
	input    combat.InputProvider
	chooser  combat.TargetChooser
	narrator combat.Narrator
	src      dice.Source
	logger   *zap.Logger
	opts     Options

	tally Tally
	party *combat.Party
}

// Deps groups a Session's collaborators.
type Deps struct {
	Generator *character.Generator
	Prompter  character.Prompter
	Asker     Asker
	// Input supplies human target names; nil lets the chooser pick for the player too.
	Input combat.InputProvider
	// Chooser picks targets for the enemy roster; nil means uniformly random.
	Chooser  combat.TargetChooser
	Narrator combat.Narrator
	Source   dice.Source
	Logger   *zap.Logger
}

// New creates a Session.
//
// Precondition: d.Generator, d.Prompter, d.Asker and d.Source must be non-nil.
func New(d Deps, opts Options) *Session {
	if d.Generator == nil || d.Prompter == nil || d.Asker == nil || d.Source == nil {
		panic("session.New: generator, prompter, asker and source are required")
	}
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	return &Session{
		gen:      d.Generator,
		prompter: d.Prompter,
		asker:    d.Asker,
		input:    d.Input,
		chooser:  d.Chooser,
		narrator: d.Narrator,
		src:      d.Source,
		logger:   d.Logger,
		opts:     opts,
	}
}

// Tally returns the running outcome counts.
func (s *Session) Tally() *Tally { return &s.tally }

// Party returns the current player party, or nil before the first draft.
func (s *Session) Party() *combat.Party { return s.party }

// Play runs battles until the player declines another round.
//
// Postcondition: returns nil when the player stops; otherwise the first
// draft, generation, battle or prompt error.
func (s *Session) Play(ctx context.Context) error {
	won := false
	for {
		if err := s.prepareParty(ctx, won); err != nil {
			return err
		}
		outcome, err := s.fight(ctx)
		if err != nil {
			return err
		}
		won = outcome == combat.PlayerVictory

		answer, err := s.asker.Ask(ctx, AgainPrompt)
		if err != nil {
			return fmt.Errorf("asking to continue: %w", err)
		}
		if !strings.EqualFold(strings.TrimSpace(answer), "y") {
			s.logger.Info("session finished",
				zap.Int("battles", s.tally.Battles()),
				zap.Int("victories", s.tally.Count(combat.PlayerVictory)),
			)
			return nil
		}
	}
}

// prepareParty heals the party after a win and drafts a new one otherwise.
func (s *Session) prepareParty(ctx context.Context, won bool) error {
	if won && s.party != nil {
		s.party.Restore()
		return nil
	}
	candidates, err := s.gen.Candidates(ctx, s.opts.DraftPool)
	if err != nil {
		return fmt.Errorf("generating draft: %w", err)
	}
	party, err := character.Draft(ctx, s.prompter, candidates, s.opts.PartySize)
	if err != nil {
		return fmt.Errorf("drafting party: %w", err)
	}
	s.party = party
	return nil
}

// fight runs one battle against a fresh enemy party at the player party's
// average level.
func (s *Session) fight(ctx context.Context) (combat.Outcome, error) {
	level := s.party.AverageLevel()
	enemy, err := s.gen.EnemyParty(ctx, level, s.opts.EnemyCount)
	if err != nil {
		return combat.OutcomeUndecided, fmt.Errorf("generating enemies: %w", err)
	}
	opts := []combat.Option{
		combat.WithLogger(s.logger),
		combat.WithMaxRounds(s.opts.MaxRounds),
	}
	if s.narrator != nil {
		opts = append(opts, combat.WithNarrator(s.narrator))
	}
	if s.input != nil {
		opts = append(opts, combat.WithInput(s.input))
	}
	if s.chooser != nil {
		opts = append(opts, combat.WithChooser(s.chooser))
	}
	s.logger.Debug("battle starting",
		zap.Int("enemy_level", level),
		zap.Int("enemies", enemy.Len()),
	)
	outcome, err := combat.NewBattle(s.party, enemy, s.src, opts...).Run(ctx)
	if err != nil {
		return combat.OutcomeUndecided, fmt.Errorf("battle: %w", err)
	}
	s.tally.record(outcome)
	return outcome, nil
}
