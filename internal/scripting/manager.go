package scripting

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/rpjamma/internal/game/dice"
)

// GlobalKey is the reserved key for scripts shared by every archetype.
// CallHook falls back to this VM when no keyed VM is found.
const GlobalKey = "__global__"

type vm struct {
	L     *lua.LState
	limit int
}

// Manager owns one sandboxed LState per script set and exposes hook dispatch.
// Script sets are keyed by archetype ID, with GlobalKey as the shared fallback.
//
// All methods are safe for concurrent use; hook calls are serialized because
// an LState is single-threaded.
type Manager struct {
	mu     sync.Mutex
	states map[string]*vm
	roller *dice.Roller
	logger *zap.Logger
}

// NewManager creates a Manager.
//
// Precondition: roller and logger must be non-nil.
// Postcondition: Returns a non-nil Manager with no script sets.
func NewManager(roller *dice.Roller, logger *zap.Logger) *Manager {
	if roller == nil {
		panic("scripting.NewManager: roller must not be nil")
	}
	if logger == nil {
		panic("scripting.NewManager: logger must not be nil")
	}
	return &Manager{
		states: make(map[string]*vm),
		roller: roller,
		logger: logger,
	}
}

// Load creates a sandboxed VM for key, registers the engine.* modules, then
// executes every *.lua file in scriptDir in lexicographic order.
//
// Precondition: key must be non-empty; scriptDir must be a readable directory.
// Postcondition: The VM replaces any previous one for key; returns error on Lua load failure.
func (m *Manager) Load(key, scriptDir string, instLimit int) error {
	L := NewSandboxedState(instLimit)
	m.RegisterModules(L)

	entries, err := os.ReadDir(scriptDir)
	if err != nil {
		L.Close()
		return fmt.Errorf("scripting: reading script dir %q for %q: %w", scriptDir, key, err)
	}

	var luaFiles []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".lua" {
			luaFiles = append(luaFiles, filepath.Join(scriptDir, e.Name()))
		}
	}
	sort.Strings(luaFiles)

	for _, path := range luaFiles {
		if err := L.DoFile(path); err != nil {
			L.Close()
			return fmt.Errorf("scripting: loading %q for %q: %w", path, key, err)
		}
	}
	L.RemoveContext()

	m.mu.Lock()
	if old, ok := m.states[key]; ok {
		old.L.Close()
	}
	m.states[key] = &vm{L: L, limit: instLimit}
	m.mu.Unlock()
	return nil
}

// LoadGlobal loads scriptDir as the shared fallback script set.
func (m *Manager) LoadGlobal(scriptDir string, instLimit int) error {
	return m.Load(GlobalKey, scriptDir, instLimit)
}

// LoadTree loads root's own *.lua files as the global set and each
// subdirectory as the set keyed by the subdirectory name.
//
// Postcondition: Returns the keys loaded, global first.
func (m *Manager) LoadTree(root string, instLimit int) ([]string, error) {
	if err := m.LoadGlobal(root, instLimit); err != nil {
		return nil, err
	}
	keys := []string{GlobalKey}
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("scripting: reading %q: %w", root, err)
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if err := m.Load(e.Name(), filepath.Join(root, e.Name()), instLimit); err != nil {
			return nil, err
		}
		keys = append(keys, e.Name())
	}
	return keys, nil
}

// CallHook calls the named Lua global function in key's VM, falling back to
// the global VM. Returns (LNil, nil) if the hook is not defined or no VM
// exists. Lua runtime errors, including an exhausted instruction budget, are
// logged at Warn level and never propagated.
//
// Precondition: args must be valid lua.LValue instances.
// Postcondition: Returns the first return value of the hook, or LNil.
func (m *Manager) CallHook(key, hook string, args ...lua.LValue) (lua.LValue, error) {
	return m.CallHookWith(key, hook, func(*lua.LState) []lua.LValue { return args })
}

// CallHookWith is CallHook with arguments built against the target VM, for
// callers that need to allocate tables.
func (m *Manager) CallHookWith(key, hook string, build func(L *lua.LState) []lua.LValue) (lua.LValue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.states[key]
	if !ok {
		v = m.states[GlobalKey]
	}
	if v == nil {
		m.logger.Info("scripting: no VM for key",
			zap.String("key", key),
			zap.String("hook", hook),
		)
		return lua.LNil, nil
	}

	L := v.L
	fn := L.GetGlobal(hook)
	if fn == lua.LNil {
		// A keyed VM without the hook defers to the global set.
		if g := m.states[GlobalKey]; ok && g != nil && g != v {
			if gfn := g.L.GetGlobal(hook); gfn != lua.LNil {
				v, L, fn = g, g.L, gfn
			}
		}
		if fn == lua.LNil {
			return lua.LNil, nil
		}
	}

	release := armLimit(L, v.limit)
	defer release()

	if err := L.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, build(L)...); err != nil {
		m.logger.Warn("scripting: Lua runtime error",
			zap.String("key", key),
			zap.String("hook", hook),
			zap.Error(err),
		)
		return lua.LNil, nil
	}

	ret := L.Get(-1)
	L.Pop(1)
	return ret, nil
}

// Close releases every VM.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, v := range m.states {
		v.L.Close()
		delete(m.states, key)
	}
}
