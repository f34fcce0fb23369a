package combat_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/rpjamma/internal/game/combat"
	"github.com/cory-johannsen/rpjamma/internal/game/dice"
)

func TestBattle_StepWalksStates(t *testing.T) {
	a := combat.NewParty(false, fighter("A", 80, 50, 60, 100))
	b := combat.NewParty(false, fighter("B", 80, 50, 40, 100))
	bt := combat.NewBattle(a, b, dice.NewSeededSource(1))
	ctx := context.Background()

	want := []combat.State{
		combat.StateAssignTargets,
		combat.StateSequence,
		combat.StateExecute,
		combat.StateCheckEnd,
		combat.StateRoundStart,
	}
	assert.Equal(t, combat.StateRoundStart, bt.State())
	for _, s := range want {
		require.NoError(t, bt.Step(ctx))
		assert.Equal(t, s, bt.State())
	}
	assert.Equal(t, 1, bt.Round)
	assert.Len(t, bt.Order, 2)
	assert.Equal(t, "A", bt.Order[0].Name)
}

func TestBattle_PlayerVictory(t *testing.T) {
	hero := fighter("Hero", 200, 100, 90, 500)
	gob := fighter("Gob", 60, 10, 10, 50)
	rec := &recorder{}
	bt := combat.NewBattle(combat.NewParty(true, hero), combat.NewParty(false, gob), dice.NewSeededSource(7),
		combat.WithNarrator(rec))

	outcome, err := bt.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, combat.PlayerVictory, outcome)
	assert.Equal(t, 1, bt.Round)
	assert.Equal(t, []combat.EventKind{
		combat.EventRoundStart,
		combat.EventAction,
		combat.EventDeath,
		combat.EventExpEarned,
		combat.EventOutcome,
	}, rec.kinds())
	assert.Equal(t, 500, hero.HP(), "dead combatants never act")
}

func TestBattle_OutcomeFromPlayerRosterPerspective(t *testing.T) {
	brute := fighter("Brute", 200, 100, 90, 500)
	hero := fighter("Hero", 60, 10, 10, 50)
	bt := combat.NewBattle(combat.NewParty(false, brute), combat.NewParty(true, hero), dice.NewSeededSource(7))

	outcome, err := bt.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, combat.PlayerDefeat, outcome)
}

func TestBattle_MaxRoundsIsDraw(t *testing.T) {
	a := combat.NewParty(true, cleric("A1", 30, 70), cleric("A2", 30, 70))
	b := combat.NewParty(false, cleric("B1", 30, 70), cleric("B2", 30, 70))
	bt := combat.NewBattle(a, b, dice.NewSeededSource(3), combat.WithMaxRounds(3))

	outcome, err := bt.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, combat.Draw, outcome)
	assert.Equal(t, 3, bt.Round)
	assert.Equal(t, 140, a.TotalHP())
}

func TestBattle_AlreadyDefeatedEndsWithoutRounds(t *testing.T) {
	dead := fighter("Dead", 80, 50, 60, 100)
	dead.SetHP(0)
	bt := combat.NewBattle(combat.NewParty(true, fighter("Hero", 80, 50, 60, 100)), combat.NewParty(false, dead), dice.NewSeededSource(1))

	outcome, err := bt.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, combat.PlayerVictory, outcome)
	assert.Equal(t, 0, bt.Round)
}

func TestBattle_HumanInputDrivesTargets(t *testing.T) {
	hero := fighter("Hero", 200, 100, 90, 500)
	gob := fighter("Gob", 60, 10, 10, 50)
	bt := combat.NewBattle(combat.NewParty(true, hero), combat.NewParty(false, gob), dice.NewSeededSource(11),
		combat.WithInput(lines("Gob")))

	outcome, err := bt.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, combat.PlayerVictory, outcome)
}

// promptLog records who was asked for a target, in order, across the human
// input provider and the automated chooser.
type promptLog struct{ asked []string }

func (l *promptLog) pick(pc combat.PromptContext) string {
	l.asked = append(l.asked, pc.Actor.Name)
	return pc.Candidates.Living()[0].Name
}

func (l *promptLog) ReadTarget(_ context.Context, pc combat.PromptContext) (string, error) {
	return l.pick(pc), nil
}

func (l *promptLog) Choose(_ context.Context, pc combat.PromptContext) (string, error) {
	return l.pick(pc), nil
}

func TestBattle_AssignTargetsResolvesSideABeforeSideB(t *testing.T) {
	// Speeds favour B so the order cannot come from initiative.
	a := combat.NewParty(true, fighter("A1", 10, 90, 10, 1000), fighter("A2", 10, 90, 20, 1000))
	b := combat.NewParty(false, fighter("B1", 10, 90, 90, 1000), fighter("B2", 10, 90, 80, 1000))
	log := &promptLog{}
	bt := combat.NewBattle(a, b, dice.NewSeededSource(5),
		combat.WithInput(combat.InputFunc(log.ReadTarget)),
		combat.WithChooser(log),
		combat.WithMaxRounds(2))

	outcome, err := bt.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, combat.Draw, outcome)
	assert.Equal(t, []string{"A1", "A2", "B1", "B2", "A1", "A2", "B1", "B2"}, log.asked)
}

func TestBattle_AssignTargetsOrderWithBothSidesHuman(t *testing.T) {
	a := combat.NewParty(true, fighter("A1", 10, 90, 10, 1000), fighter("A2", 10, 90, 20, 1000))
	b := combat.NewParty(true, fighter("B1", 10, 90, 90, 1000), fighter("B2", 10, 90, 80, 1000))
	log := &promptLog{}
	bt := combat.NewBattle(a, b, dice.NewSeededSource(5),
		combat.WithInput(combat.InputFunc(log.ReadTarget)),
		combat.WithMaxRounds(1))

	_, err := bt.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"A1", "A2", "B1", "B2"}, log.asked)
}

func TestBattle_InputFailureStopsRun(t *testing.T) {
	hero := fighter("Hero", 80, 50, 60, 100)
	bt := combat.NewBattle(combat.NewParty(true, hero), combat.NewParty(false, fighter("Orc", 80, 50, 60, 100)),
		dice.NewSeededSource(1), combat.WithInput(lines()))

	outcome, err := bt.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, combat.ErrNoInput)
	assert.Equal(t, combat.OutcomeUndecided, outcome)
	assert.False(t, bt.Over())
}

func TestBattle_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	bt := combat.NewBattle(combat.NewParty(true, fighter("A", 80, 50, 60, 100)), combat.NewParty(false, fighter("B", 80, 50, 60, 100)),
		dice.NewSeededSource(1))

	_, err := bt.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewBattle_PanicsOnSameParty(t *testing.T) {
	p := combat.NewParty(true, fighter("A", 80, 50, 60, 100))
	assert.Panics(t, func() { combat.NewBattle(p, p, dice.NewSeededSource(1)) })
}

func TestProperty_BattleTerminatesWithOneSideDefeated(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		seed := rapid.Uint64().Draw(rt, "seed")
		n := rapid.IntRange(1, 4).Draw(rt, "size")
		a := combat.NewParty(true)
		b := combat.NewParty(false)
		for i := 0; i < n; i++ {
			a.AddMember(fighter("a", 80, 50, rapid.IntRange(1, 100).Draw(rt, "spdA"), 100))
			b.AddMember(fighter("b", 80, 50, rapid.IntRange(1, 100).Draw(rt, "spdB"), 100))
		}
		bt := combat.NewBattle(a, b, dice.NewSeededSource(seed), combat.WithMaxRounds(200))

		outcome, err := bt.Run(context.Background())
		if err != nil {
			rt.Fatalf("run: %v", err)
		}
		if outcome == combat.Draw || outcome == combat.OutcomeUndecided {
			rt.Fatalf("unexpected outcome %s after %d rounds", outcome, bt.Round)
		}
		if a.IsDefeated() == b.IsDefeated() {
			rt.Fatalf("exactly one side must be defeated")
		}
		for _, c := range append(a.Members(), b.Members()...) {
			if c.HP() < 0 || c.HP() > c.MaxHP() {
				rt.Fatalf("%s hp %d outside [0,%d]", c.Name, c.HP(), c.MaxHP())
			}
		}
	})
}
