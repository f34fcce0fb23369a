package character

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/cory-johannsen/rpjamma/internal/game/combat"
)

// DraftReject says why a draft entry was refused.
type DraftReject int

const (
	// RejectInvalidIndex means the entry was not a number in range.
	RejectInvalidIndex DraftReject = iota
	// RejectAlreadySelected means the candidate was already picked.
	RejectAlreadySelected
)

// Prompter is the I/O the drafting flow needs.
type Prompter interface {
	// Present shows the numbered candidates once before selection.
	Present(candidates []*combat.Combatant)
	// AskSlot asks for the 1-based candidate index to fill slot (1-based).
	AskSlot(ctx context.Context, slot int) (string, error)
	// Reject reports a refused entry.
	Reject(entry string, reason DraftReject)
}

// Draft asks the player to pick size candidates by 1-based index and returns
// them as a player-controlled party in pick order.
//
// Precondition: 0 < size <= len(candidates).
// Postcondition: on nil error the party has exactly size distinct candidates.
func Draft(ctx context.Context, p Prompter, candidates []*combat.Combatant, size int) (*combat.Party, error) {
	if size <= 0 || size > len(candidates) {
		return nil, fmt.Errorf("cannot draft %d from %d candidates", size, len(candidates))
	}
	p.Present(candidates)
	taken := make([]bool, len(candidates))
	party := combat.NewParty(true)
	for slot := 1; slot <= size; slot++ {
		for {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			entry, err := p.AskSlot(ctx, slot)
			if err != nil {
				return nil, fmt.Errorf("drafting slot %d: %w", slot, err)
			}
			idx, err := strconv.Atoi(strings.TrimSpace(entry))
			if err != nil || idx < 1 || idx > len(candidates) {
				p.Reject(entry, RejectInvalidIndex)
				continue
			}
			if taken[idx-1] {
				p.Reject(entry, RejectAlreadySelected)
				continue
			}
			taken[idx-1] = true
			party.AddMember(candidates[idx-1])
			break
		}
	}
	return party, nil
}
