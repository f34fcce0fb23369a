package combat

import "github.com/cory-johannsen/rpjamma/internal/game/dice"

// ResolveRound executes one round's actions in order and returns the events
// they produced, in order.
//
// For each combatant in order:
//   - a dead actor is skipped without an event;
//   - an actor with no target produces EventSkip;
//   - a dead target whose roster still has living members is replaced by a
//     random living member of that roster (EventRedirect);
//   - a dead target whose roster is defeated produces EventSkip;
//   - otherwise the action resolves (EventAction), followed by EventDeath if
//     the target fell, and by EventExpEarned/EventLevelUp if the actor's
//     roster is player-controlled.
//
// Precondition: every combatant in order must belong to a party; src must be non-nil.
// Postcondition: HP changes are applied in place and respect each target's clamp.
func ResolveRound(round int, order []*Combatant, src dice.Source) []Event {
	var events []Event
	for _, actor := range order {
		if actor.IsDead() {
			continue
		}
		target := actor.Target()
		if target == nil {
			events = append(events, Event{Kind: EventSkip, Round: round, Actor: actor})
			continue
		}
		if target.IsDead() {
			roster := target.Party()
			next := (*Combatant)(nil)
			if roster != nil {
				next = roster.RandomLiving(src)
			}
			if next == nil {
				events = append(events, Event{Kind: EventSkip, Round: round, Actor: actor, Target: target})
				continue
			}
			events = append(events, Event{Kind: EventRedirect, Round: round, Actor: actor, Previous: target, Target: next})
			target = next
		}
		events = append(events, act(round, actor, target, src)...)
	}
	return events
}

// act resolves actor acting on a living target.
func act(round int, actor, target *Combatant, src dice.Source) []Event {
	res := ResolveAction(actor, target, src)
	before, after := applyResult(target, res)
	events := []Event{{
		Kind:     EventAction,
		Round:    round,
		Actor:    actor,
		Target:   target,
		Result:   res,
		HPBefore: before,
		HPAfter:  after,
	}}
	if before > 0 && after == 0 {
		events = append(events, Event{Kind: EventDeath, Round: round, Actor: actor, Target: target})
	}
	if p := actor.Party(); p != nil && p.IsPlayerControlled() {
		amount, leveled := actor.EarnExp(src, target)
		events = append(events, Event{Kind: EventExpEarned, Round: round, Actor: actor, Target: target, Exp: amount})
		if leveled {
			events = append(events, Event{Kind: EventLevelUp, Round: round, Actor: actor, Level: actor.Level})
		}
	}
	return events
}
