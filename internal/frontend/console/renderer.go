package console

import (
	"context"
	"fmt"
	"strings"

	"github.com/cory-johannsen/rpjamma/internal/game/combat"
	"github.com/cory-johannsen/rpjamma/internal/game/dice"
)

// Separator precedes the outcome banner.
const Separator = "-----------"

// Renderer narrates battle events to a Console.
type Renderer struct {
	con   *Console
	src   dice.Source
	cries Cries
	pause bool
}

// NewRenderer creates a Renderer. Cry lines are drawn from src. With pause
// set, each action waits for Enter behind a ">>>" marker.
//
// Precondition: con and src must be non-nil.
func NewRenderer(con *Console, src dice.Source, cries Cries, pause bool) *Renderer {
	if con == nil || src == nil {
		panic("console.NewRenderer: con and src must not be nil")
	}
	return &Renderer{con: con, src: src, cries: cries, pause: pause}
}

// alliance colours a combatant's name by side.
func (r *Renderer) alliance(c *combat.Combatant, text string) string {
	if p := c.Party(); p != nil && p.IsPlayerControlled() {
		return r.con.Paint(Cyan, text)
	}
	return r.con.Paint(Red, text)
}

func (r *Renderer) health(hp, maxHP int) string {
	return r.con.Paint(HealthColor(hp, maxHP), fmt.Sprintf("%d", hp))
}

func (r *Renderer) roster(p *combat.Party) string {
	if p == nil {
		return ""
	}
	parts := make([]string, 0, p.Len())
	for _, m := range p.Members() {
		parts = append(parts, fmt.Sprintf("%s(%s)", m.Name, r.health(m.HP(), m.MaxHP())))
	}
	return strings.Join(parts, " ")
}

// wait shows the ">>>" marker and blocks until a line is read.
func (r *Renderer) wait() {
	if !r.pause {
		r.con.Println("")
		return
	}
	r.con.Println(" >>>")
	_, _ = r.con.ReadLine(context.Background())
}

// Narrate implements combat.Narrator.
func (r *Renderer) Narrate(e combat.Event) {
	c := r.con
	switch e.Kind {
	case combat.EventRoundStart:
		c.Println(c.Paint(Dim, fmt.Sprintf("Round %d", e.Round)))
		c.Println(c.Paint(Cyan, "Your party:") + "  " + r.roster(e.Player))
		c.Println(c.Paint(Red, "Enemy party:") + " " + r.roster(e.Enemy))

	case combat.EventAction:
		verb := " attacks "
		if e.Result.Healing {
			verb = " heals "
		}
		target := e.Target.Name
		if e.Target == e.Actor {
			target = "themselves"
		}
		c.Println("")
		c.Println(r.alliance(e.Actor, e.Actor.Name) + verb + r.alliance(e.Target, target))
		switch {
		case e.Result.Critical:
			c.Println(c.Paint(Yellow, pick(r.src, r.cries.Critical)))
			c.Println(c.Paint(Magenta, "Critical Hit!"))
		case e.Result.Support:
			c.Println(c.Paint(Green, pick(r.src, r.cries.Support)))
		default:
			c.Println(c.Paint(Yellow, pick(r.src, r.cries.Attack)))
		}
		maxHP := e.Target.MaxHP()
		c.Println(r.alliance(e.Target, e.Target.Name) + "'s health goes from " +
			r.health(e.HPBefore, maxHP) + " to " + r.health(e.HPAfter, maxHP))
		r.wait()

	case combat.EventDeath:
		c.Println(r.alliance(e.Target, e.Target.Name+": ") + c.Paint(DarkGray, pick(r.src, r.cries.Death)))
		r.wait()

	case combat.EventExpEarned:
		c.Println(e.Actor.Name + " earned " + c.Paint(Yellow, fmt.Sprintf("%d", e.Exp)) + " exp")

	case combat.EventLevelUp:
		c.Println(c.Paint(Bold+Yellow, "LEVEL UP!") + " " + e.Narrative())

	case combat.EventRedirect, combat.EventSkip:
		c.Println(c.Paint(Dim, e.Narrative()))

	case combat.EventTargetRejected:
		c.Println(c.Paint(Red, e.Narrative()))

	case combat.EventOutcome:
		c.Println(Separator)
		switch e.Outcome {
		case combat.PlayerVictory:
			c.Println(c.Paint(Cyan, "You win!"))
		case combat.PlayerDefeat:
			c.Println(c.Paint(Red, "You lose..."))
		default:
			c.Println(c.Paint(Yellow, "It's a draw."))
		}
	}
}

// Farewell closes a session.
func (r *Renderer) Farewell() {
	r.con.Println("Until the next time!")
}
