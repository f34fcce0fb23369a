package console

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/cory-johannsen/rpjamma/internal/game/character"
	"github.com/cory-johannsen/rpjamma/internal/game/combat"
)

// Console is a line-oriented terminal. It is the human side of the game:
// target entry, drafting and the play-again question all read through it.
type Console struct {
	reader *bufio.Reader
	out    io.Writer
	color  bool
	mu     sync.Mutex
}

// New wraps in and out. With color false all ANSI styling is dropped.
//
// Precondition: in and out must be non-nil.
func New(in io.Reader, out io.Writer, color bool) *Console {
	return &Console{
		reader: bufio.NewReaderSize(in, 4096),
		out:    out,
		color:  color,
	}
}

// Paint styles text when colour output is enabled.
func (c *Console) Paint(color, text string) string {
	if !c.color {
		return text
	}
	return Colorize(color, text)
}

// Print writes text verbatim.
func (c *Console) Print(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, _ = io.WriteString(c.out, text)
}

// Println writes text followed by a newline.
func (c *Console) Println(text string) {
	c.Print(text + "\n")
}

// Printf formats and writes.
func (c *Console) Printf(format string, args ...any) {
	c.Print(fmt.Sprintf(format, args...))
}

// ReadLine reads one line without its trailing \n or \r\n. Control
// characters other than tab are dropped.
//
// Postcondition: Returns the next line, or io.EOF once input is exhausted
// and no partial line remains.
func (c *Console) ReadLine(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var line bytes.Buffer
	for {
		b, err := c.reader.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) && line.Len() > 0 {
				return line.String(), nil
			}
			return line.String(), err
		}
		if b == '\n' {
			break
		}
		if b == '\r' {
			next, err := c.reader.Peek(1)
			if err == nil && len(next) > 0 && next[0] == '\n' {
				_, _ = c.reader.ReadByte()
			}
			break
		}
		if b < 32 && b != '\t' {
			continue
		}
		line.WriteByte(b)
	}
	return line.String(), nil
}

// Prompt writes question on its own line and reads the trimmed answer.
func (c *Console) Prompt(ctx context.Context, question string) (string, error) {
	c.Println(question)
	line, err := c.ReadLine(ctx)
	return strings.TrimSpace(line), err
}

// ReadTarget implements combat.InputProvider.
//
// Postcondition: exhausted input is reported as combat.ErrNoInput.
func (c *Console) ReadTarget(ctx context.Context, pc combat.PromptContext) (string, error) {
	c.Println("")
	name, err := c.Prompt(ctx, "Please select a target for "+pc.Actor.Name)
	if errors.Is(err, io.EOF) {
		return "", combat.ErrNoInput
	}
	return name, err
}

// Present implements character.Prompter.
func (c *Console) Present(candidates []*combat.Combatant) {
	c.Println("Select fighters for your party:")
	c.Println("")
	for i, cand := range candidates {
		c.Printf("%d. \n%s\n", i+1, cand.Stats())
	}
}

// AskSlot implements character.Prompter.
func (c *Console) AskSlot(ctx context.Context, slot int) (string, error) {
	entry, err := c.Prompt(ctx, fmt.Sprintf("Character %d's index:", slot))
	if errors.Is(err, io.EOF) {
		return "", fmt.Errorf("draft slot %d: %w", slot, combat.ErrNoInput)
	}
	return entry, err
}

// Reject implements character.Prompter.
func (c *Console) Reject(entry string, reason character.DraftReject) {
	switch reason {
	case character.RejectAlreadySelected:
		c.Println(c.Paint(Red, "You've already selected that character.") + "\n")
	default:
		c.Println(c.Paint(Red, fmt.Sprintf("Invalid index '%s'. Enter a number from the list.", entry)) + "\n")
	}
}

// Ask implements session.Asker. Exhausted input answers with an empty
// string, which ends the session.
func (c *Console) Ask(ctx context.Context, question string) (string, error) {
	c.Println("")
	answer, err := c.Prompt(ctx, question)
	if errors.Is(err, io.EOF) {
		return "", nil
	}
	c.Println("")
	return answer, err
}
