// Package names supplies display names for generated combatants.
package names

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/cory-johannsen/rpjamma/internal/game/dice"
)

// ErrEmptyPool is returned when a pool has no names to hand out.
var ErrEmptyPool = errors.New("names: pool is empty")

// Provider hands out one random name per call.
type Provider interface {
	Name(ctx context.Context) (string, error)
}

// Store is a Provider backed by persistent storage that can be filled.
type Store interface {
	Provider
	// Add inserts names, ignoring ones already present, and reports how
	// many were new.
	Add(ctx context.Context, names ...string) (int, error)
	// Count returns the number of stored names.
	Count(ctx context.Context) (int, error)
}

// Defaults is the built-in name list used when no store is configured or a
// store fails.
var Defaults = []string{
	"Raven", "Zona", "Angelita", "Neida", "Leeanna", "Doran", "Sean", "Charlie", "Herbert", "Yelena",
	"Opal", "Sherwood", "Camila", "Glennie", "Denis", "Naida", "Jesse", "Tessie", "Talitha", "Grady",
	"Hector", "Edwardo", "Marybelle", "Carlo", "Weston", "Gregg", "Caroyln", "Mira", "Milly", "Cristen",
	"Antonette", "Keeley", "Ling", "Diego", "Anja", "Myron", "Micaela", "Latisha", "Darryl", "Margery",
	"Karren", "Meghan", "Reginald", "Casey", "Lessie", "Coy", "Tameika", "Carolina", "Alonzo", "Camie",
}

// StaticPool picks uniformly from an in-memory list.
type StaticPool struct {
	names []string
	src   dice.Source
}

// NewStaticPool creates a pool over list, or over Defaults when list is empty.
//
// Precondition: src must be non-nil.
func NewStaticPool(src dice.Source, list ...string) *StaticPool {
	if len(list) == 0 {
		list = Defaults
	}
	cp := make([]string, len(list))
	copy(cp, list)
	return &StaticPool{names: cp, src: src}
}

// Name implements Provider.
func (p *StaticPool) Name(_ context.Context) (string, error) {
	if len(p.names) == 0 {
		return "", ErrEmptyPool
	}
	return p.names[p.src.Intn(len(p.names))], nil
}

// Len returns the number of names in the pool.
func (p *StaticPool) Len() int { return len(p.names) }

// Capitalize trims s and upper-cases its first letter, leaving the rest as is.
func Capitalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}

// ReadDictionary reads one name per line, capitalizing each and skipping
// blank lines and lines starting with '#'. Duplicates are kept; stores drop
// them on insert.
func ReadDictionary(r io.Reader) ([]string, error) {
	var out []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, Capitalize(line))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading dictionary: %w", err)
	}
	return out, nil
}

// Fallback tries primary first and answers from secondary when primary fails.
type Fallback struct {
	Primary   Provider
	Secondary Provider
	// OnError, when set, observes every primary failure.
	OnError func(error)
}

// Name implements Provider.
func (f Fallback) Name(ctx context.Context) (string, error) {
	if f.Primary != nil {
		name, err := f.Primary.Name(ctx)
		if err == nil && name != "" {
			return name, nil
		}
		if err == nil {
			err = ErrEmptyPool
		}
		if f.OnError != nil {
			f.OnError(err)
		}
	}
	return f.Secondary.Name(ctx)
}
