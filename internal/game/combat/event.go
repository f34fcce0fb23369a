package combat

import "fmt"

// EventKind classifies a battle event.
type EventKind int

const (
	// EventRoundStart opens a round.
	EventRoundStart EventKind = iota
	// EventAction reports an attack or heal and its HP transition.
	EventAction
	// EventDeath follows an action that took its target to 0 HP.
	EventDeath
	// EventRedirect reports an actor switching from a dead target to a
	// living member of the same roster.
	EventRedirect
	// EventSkip reports an actor that had nothing to act on.
	EventSkip
	// EventExpEarned reports experience awarded to a player-side actor.
	EventExpEarned
	// EventLevelUp follows an experience gain that crossed the threshold.
	EventLevelUp
	// EventTargetRejected reports a human target entry that was refused.
	EventTargetRejected
	// EventOutcome closes the battle.
	EventOutcome
)

// RejectReason says why a target entry was refused.
type RejectReason int

const (
	// RejectUnknown means no member matched the entered name.
	RejectUnknown RejectReason = iota
	// RejectDeadEnemy means an attacker named a dead opponent.
	RejectDeadEnemy
	// RejectDeadAlly means a healer named a dead ally.
	RejectDeadAlly
)

// Outcome is the result of a battle from the player roster's perspective.
type Outcome int

const (
	// OutcomeUndecided means the battle is still running.
	OutcomeUndecided Outcome = iota
	// PlayerVictory means the opposing roster was defeated.
	PlayerVictory
	// PlayerDefeat means the player roster was defeated.
	PlayerDefeat
	// Draw means the round limit was reached or both rosters fell together.
	Draw
)

// String returns a lowercase label.
func (o Outcome) String() string {
	switch o {
	case PlayerVictory:
		return "victory"
	case PlayerDefeat:
		return "defeat"
	case Draw:
		return "draw"
	default:
		return "undecided"
	}
}

// Event is one observable step of a battle, handed to the Narrator.
type Event struct {
	Kind   EventKind
	Round  int
	Actor  *Combatant
	Target *Combatant
	// Previous is the dead combatant an EventRedirect moved away from.
	Previous *Combatant
	Result   DamageResult
	HPBefore int
	HPAfter  int
	Exp      int
	Level    int
	Input    string
	Reason   RejectReason
	Outcome  Outcome
	// Player and Enemy are set on EventRoundStart and EventOutcome.
	Player *Party
	Enemy  *Party
}

// Narrative returns a plain one-line description of the event.
func (e Event) Narrative() string {
	switch e.Kind {
	case EventRoundStart:
		return fmt.Sprintf("Round %d begins.", e.Round)
	case EventAction:
		verb := "attacks"
		if e.Result.Healing {
			verb = "heals"
		}
		target := e.Target.Name
		if e.Result.Healing && e.Target == e.Actor {
			target = "themselves"
		}
		crit := ""
		if e.Result.Critical {
			crit = " Critical strike!"
		}
		return fmt.Sprintf("%s %s %s.%s %s: %d -> %d", e.Actor.Name, verb, target, crit, e.Target.Name, e.HPBefore, e.HPAfter)
	case EventDeath:
		return fmt.Sprintf("%s has fallen.", e.Target.Name)
	case EventRedirect:
		return fmt.Sprintf("%s is already dead; %s turns to %s.", e.Previous.Name, e.Actor.Name, e.Target.Name)
	case EventSkip:
		return fmt.Sprintf("%s has no one to act on.", e.Actor.Name)
	case EventExpEarned:
		return fmt.Sprintf("%s earns %d experience.", e.Actor.Name, e.Exp)
	case EventLevelUp:
		return fmt.Sprintf("%s reaches level %d!", e.Actor.Name, e.Level)
	case EventTargetRejected:
		switch e.Reason {
		case RejectDeadEnemy:
			return fmt.Sprintf("%s is already dead. Choose another target.", e.Input)
		case RejectDeadAlly:
			return fmt.Sprintf("You cannot resurrect %s. Choose another target.", e.Input)
		default:
			return fmt.Sprintf("%s is not a valid target.", e.Input)
		}
	case EventOutcome:
		return fmt.Sprintf("Battle over after %d rounds: %s.", e.Round, e.Outcome)
	default:
		return ""
	}
}

// Narrator receives battle events in the order they happen.
type Narrator interface {
	Narrate(Event)
}

// NarratorFunc adapts a function to Narrator.
type NarratorFunc func(Event)

// Narrate calls f(e).
func (f NarratorFunc) Narrate(e Event) { f(e) }

type nopNarrator struct{}

func (nopNarrator) Narrate(Event) {}
