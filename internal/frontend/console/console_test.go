package console_test

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/rpjamma/internal/frontend/console"
	"github.com/cory-johannsen/rpjamma/internal/game/character"
	"github.com/cory-johannsen/rpjamma/internal/game/combat"
	"github.com/cory-johannsen/rpjamma/internal/game/ruleset"
)

func newConsole(input string) (*console.Console, *bytes.Buffer) {
	var out bytes.Buffer
	return console.New(strings.NewReader(input), &out, false), &out
}

func fighter(name string) *combat.Combatant {
	return combat.NewCombatant(name, ruleset.DefaultTable().MustGet(ruleset.Swordsman), 1,
		ruleset.Stats{Attack: 80, Defense: 60, Speed: 60, HP: 90})
}

func TestReadLine_LineEndings(t *testing.T) {
	con, _ := newConsole("one\r\ntwo\nthree\rfour")
	ctx := context.Background()
	for _, want := range []string{"one", "two", "three", "four"} {
		got, err := con.ReadLine(ctx)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := con.ReadLine(ctx)
	assert.ErrorIs(t, err, io.EOF)
}

func TestReadLine_DropsControlCharacters(t *testing.T) {
	con, _ := newConsole("Ra\x07ve\tn\n")
	got, err := con.ReadLine(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Rave\tn", got)
}

func TestReadLine_CancelledContext(t *testing.T) {
	con, _ := newConsole("x\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := con.ReadLine(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPrompt_TrimsAnswer(t *testing.T) {
	con, out := newConsole("  y  \n")
	got, err := con.Prompt(context.Background(), "Continue?")
	require.NoError(t, err)
	assert.Equal(t, "y", got)
	assert.Equal(t, "Continue?\n", out.String())
}

func TestReadTarget_PromptsAndMapsEOF(t *testing.T) {
	con, out := newConsole("Zona\n")
	pc := combat.PromptContext{Actor: fighter("Raven")}
	name, err := con.ReadTarget(context.Background(), pc)
	require.NoError(t, err)
	assert.Equal(t, "Zona", name)
	assert.Contains(t, out.String(), "Please select a target for Raven")

	_, err = con.ReadTarget(context.Background(), pc)
	assert.ErrorIs(t, err, combat.ErrNoInput)
}

func TestPrompter_DraftsThroughConsole(t *testing.T) {
	con, out := newConsole("abc\n2\n2\n1\n")
	candidates := []*combat.Combatant{fighter("Raven"), fighter("Zona"), fighter("Olly")}

	party, err := character.Draft(context.Background(), con, candidates, 2)
	require.NoError(t, err)
	require.Equal(t, 2, party.Len())
	assert.Same(t, candidates[1], party.Members()[0])
	assert.Same(t, candidates[0], party.Members()[1])

	text := out.String()
	assert.Contains(t, text, "Select fighters for your party:")
	assert.Contains(t, text, "1. \nName:  Raven")
	assert.Contains(t, text, "Character 1's index:")
	assert.Contains(t, text, "Invalid index 'abc'")
	assert.Contains(t, text, "You've already selected that character.")
}

func TestAskSlot_EOF(t *testing.T) {
	con, _ := newConsole("")
	_, err := con.AskSlot(context.Background(), 1)
	assert.ErrorIs(t, err, combat.ErrNoInput)
}

func TestAsk_EOFEndsQuietly(t *testing.T) {
	con, _ := newConsole("Y\n")
	answer, err := con.Ask(context.Background(), "Go another round? (y/n)")
	require.NoError(t, err)
	assert.Equal(t, "Y", answer)

	answer, err = con.Ask(context.Background(), "Go another round? (y/n)")
	require.NoError(t, err)
	assert.Equal(t, "", answer)
}

func TestPaint_RespectsColorSetting(t *testing.T) {
	plain := console.New(strings.NewReader(""), io.Discard, false)
	colored := console.New(strings.NewReader(""), io.Discard, true)
	assert.Equal(t, "hi", plain.Paint(console.Red, "hi"))
	assert.Equal(t, console.Colorize(console.Red, "hi"), colored.Paint(console.Red, "hi"))
}
