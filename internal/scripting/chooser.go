package scripting

import (
	"context"

	lua "github.com/yuin/gopher-lua"

	"github.com/cory-johannsen/rpjamma/internal/game/combat"
	"github.com/cory-johannsen/rpjamma/internal/game/dice"
)

// ChooseHook is the Lua global a targeting script defines:
//
//	function choose_target(actor, candidates) return "Name" end
//
// actor is a combatant table; candidates is an array of combatant tables in
// roster order. Each combatant table carries name, class, level, hp, max_hp,
// attack, defense, speed, heals and dead.
const ChooseHook = "choose_target"

// Chooser is a combat.TargetChooser backed by Lua scripts. Scripts are looked
// up by the actor's archetype ID, then the global set. Anything other than a
// non-empty string falls back to a random pick.
type Chooser struct {
	mgr      *Manager
	fallback combat.TargetChooser
}

// NewChooser creates a Chooser.
//
// Precondition: mgr and src must be non-nil.
func NewChooser(mgr *Manager, src dice.Source) *Chooser {
	if mgr == nil {
		panic("scripting.NewChooser: mgr must not be nil")
	}
	return &Chooser{mgr: mgr, fallback: combat.RandomChooser{Src: src}}
}

// Choose implements combat.TargetChooser.
func (c *Chooser) Choose(ctx context.Context, pc combat.PromptContext) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	key := GlobalKey
	if pc.Actor.Archetype != nil {
		key = string(pc.Actor.Archetype.ID)
	}
	ret, err := c.mgr.CallHookWith(key, ChooseHook, func(L *lua.LState) []lua.LValue {
		return []lua.LValue{combatantTable(L, pc.Actor), rosterTable(L, pc.Candidates)}
	})
	if err != nil {
		return "", err
	}
	if s, ok := ret.(lua.LString); ok && s != "" {
		return string(s), nil
	}
	return c.fallback.Choose(ctx, pc)
}

func combatantTable(L *lua.LState, c *combat.Combatant) *lua.LTable {
	t := L.NewTable()
	t.RawSetString("name", lua.LString(c.Name))
	t.RawSetString("class", lua.LString(c.Class()))
	t.RawSetString("level", lua.LNumber(c.Level))
	t.RawSetString("hp", lua.LNumber(c.HP()))
	t.RawSetString("max_hp", lua.LNumber(c.MaxHP()))
	t.RawSetString("attack", lua.LNumber(c.Attack))
	t.RawSetString("defense", lua.LNumber(c.Defense))
	t.RawSetString("speed", lua.LNumber(c.Speed))
	t.RawSetString("heals", lua.LBool(c.Heals()))
	t.RawSetString("dead", lua.LBool(c.IsDead()))
	return t
}

func rosterTable(L *lua.LState, p *combat.Party) *lua.LTable {
	t := L.NewTable()
	if p == nil {
		return t
	}
	for _, m := range p.Members() {
		t.Append(combatantTable(L, m))
	}
	return t
}
