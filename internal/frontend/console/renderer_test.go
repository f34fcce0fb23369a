package console_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/rpjamma/internal/frontend/console"
	"github.com/cory-johannsen/rpjamma/internal/game/combat"
	"github.com/cory-johannsen/rpjamma/internal/game/dice"
	"github.com/cory-johannsen/rpjamma/internal/game/ruleset"
)

// zeroSrc always draws 0, so every cry is the first of its list.
type zeroSrc struct{}

func (zeroSrc) Intn(int) int { return 0 }

func newRenderer(input string, pause bool) (*console.Renderer, *bytes.Buffer) {
	var out bytes.Buffer
	con := console.New(strings.NewReader(input), &out, false)
	return console.NewRenderer(con, zeroSrc{}, console.DefaultCries(), pause), &out
}

func sides() (hero, healer, foe *combat.Combatant) {
	hero = fighter("Raven")
	healer = combat.NewCombatant("Mab", ruleset.DefaultTable().MustGet(ruleset.Cleric), 1,
		ruleset.Stats{Attack: 30, Defense: 40, Speed: 40, HP: 70})
	foe = fighter("Zona")
	combat.NewParty(true, hero, healer)
	combat.NewParty(false, foe)
	return hero, healer, foe
}

func TestNewRenderer_NilPanics(t *testing.T) {
	assert.Panics(t, func() { console.NewRenderer(nil, zeroSrc{}, console.DefaultCries(), false) })
}

func TestRenderer_AttackLine(t *testing.T) {
	r, out := newRenderer("", false)
	hero, _, foe := sides()
	r.Narrate(combat.Event{
		Kind: combat.EventAction, Actor: hero, Target: foe,
		Result:   combat.DamageResult{Magnitude: 30},
		HPBefore: 90, HPAfter: 60,
	})
	text := out.String()
	assert.Contains(t, text, "Raven attacks Zona\n")
	assert.Contains(t, text, `"Take this!"`)
	assert.Contains(t, text, "Zona's health goes from 90 to 60")
	assert.NotContains(t, text, ">>>")
}

func TestRenderer_CriticalLine(t *testing.T) {
	r, out := newRenderer("", false)
	hero, _, foe := sides()
	r.Narrate(combat.Event{
		Kind: combat.EventAction, Actor: hero, Target: foe,
		Result:   combat.DamageResult{Magnitude: 60, Critical: true},
		HPBefore: 90, HPAfter: 30,
	})
	assert.Contains(t, out.String(), `"You're finished!"`)
	assert.Contains(t, out.String(), "Critical Hit!")
}

func TestRenderer_HealerTargetsThemselves(t *testing.T) {
	r, out := newRenderer("", false)
	_, healer, _ := sides()
	r.Narrate(combat.Event{
		Kind: combat.EventAction, Actor: healer, Target: healer,
		Result:   combat.DamageResult{Magnitude: 30, Healing: true, Support: true},
		HPBefore: 20, HPAfter: 50,
	})
	assert.Contains(t, out.String(), "Mab heals themselves\n")
	assert.Contains(t, out.String(), `"Here you go!"`)
}

func TestRenderer_DeathAndExp(t *testing.T) {
	r, out := newRenderer("", false)
	hero, _, foe := sides()
	r.Narrate(combat.Event{Kind: combat.EventDeath, Actor: hero, Target: foe})
	r.Narrate(combat.Event{Kind: combat.EventExpEarned, Actor: hero, Target: foe, Exp: 2})
	r.Narrate(combat.Event{Kind: combat.EventLevelUp, Actor: hero, Level: 2})
	text := out.String()
	assert.Contains(t, text, `Zona: "This... This is it..."`)
	assert.Contains(t, text, "Raven earned 2 exp")
	assert.Contains(t, text, "LEVEL UP!")
}

func TestRenderer_Pause(t *testing.T) {
	var out bytes.Buffer
	con := console.New(strings.NewReader("\nafter\n"), &out, false)
	r := console.NewRenderer(con, zeroSrc{}, console.DefaultCries(), true)
	hero, _, foe := sides()
	r.Narrate(combat.Event{Kind: combat.EventDeath, Actor: hero, Target: foe})
	assert.Contains(t, out.String(), " >>>")

	next, err := con.ReadLine(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "after", next, "pause consumes exactly one line")
}

func TestRenderer_RoundStartShowsRosters(t *testing.T) {
	r, out := newRenderer("", false)
	hero, _, foe := sides()
	r.Narrate(combat.Event{Kind: combat.EventRoundStart, Round: 3, Player: hero.Party(), Enemy: foe.Party()})
	text := out.String()
	assert.Contains(t, text, "Round 3")
	assert.Contains(t, text, "Your party:  Raven(90) Mab(70)")
	assert.Contains(t, text, "Enemy party: Zona(90)")
}

func TestRenderer_Outcomes(t *testing.T) {
	cases := map[combat.Outcome]string{
		combat.PlayerVictory: "You win!",
		combat.PlayerDefeat:  "You lose...",
		combat.Draw:          "It's a draw.",
	}
	for outcome, want := range cases {
		r, out := newRenderer("", false)
		r.Narrate(combat.Event{Kind: combat.EventOutcome, Outcome: outcome})
		assert.Equal(t, console.Separator+"\n"+want+"\n", out.String())
	}
}

func TestRenderer_RejectionUsesNarrative(t *testing.T) {
	r, out := newRenderer("", false)
	r.Narrate(combat.Event{Kind: combat.EventTargetRejected, Input: "Bob", Reason: combat.RejectUnknown})
	assert.Equal(t, "Bob is not a valid target.\n", out.String())
}

func TestRenderer_Farewell(t *testing.T) {
	r, out := newRenderer("", false)
	r.Farewell()
	assert.Equal(t, "Until the next time!\n", out.String())
}

func TestRenderer_NarratesWholeBattle(t *testing.T) {
	var out bytes.Buffer
	con := console.New(strings.NewReader(""), &out, true)
	src := dice.NewSeededSource(5)
	r := console.NewRenderer(con, src, console.DefaultCries(), false)

	a := combat.NewParty(true, fighter("Raven"))
	b := combat.NewParty(false, fighter("Zona"))
	outcome, err := combat.NewBattle(a, b, src, combat.WithNarrator(r), combat.WithMaxRounds(200)).Run(context.Background())
	require.NoError(t, err)
	assert.NotEqual(t, combat.OutcomeUndecided, outcome)

	plain := console.StripANSI(out.String())
	assert.Contains(t, plain, "Round 1")
	assert.Contains(t, plain, console.Separator)
}

func TestLoadCries_OverridesListsPresent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cries.yaml")
	require.NoError(t, os.WriteFile(path, []byte("attack:\n  - \"Have at you!\"\n"), 0o644))
	c, err := console.LoadCries(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Have at you!"}, c.Attack)
	assert.Equal(t, console.DefaultCries().Death, c.Death)
}

func TestLoadCries_Errors(t *testing.T) {
	_, err := console.LoadCries(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("attack: [unterminated"), 0o644))
	_, err = console.LoadCries(path)
	assert.Error(t, err)
}
