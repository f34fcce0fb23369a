package scripting_test

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/rpjamma/internal/game/dice"
	"github.com/cory-johannsen/rpjamma/internal/scripting"
)

func newTestManager(t testing.TB) (*scripting.Manager, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zap.DebugLevel)
	logger := zap.New(core)
	roller := dice.NewLoggedRoller(dice.NewSeededSource(7), logger)
	mgr := scripting.NewManager(roller, logger)
	t.Cleanup(mgr.Close)
	return mgr, logs
}

func writeTempLua(t testing.TB, filename, src string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, filename), []byte(src), 0644))
	return dir
}

func hasLevel(logs *observer.ObservedLogs, level zapcore.Level) bool {
	for _, e := range logs.All() {
		if e.Level == level {
			return true
		}
	}
	return false
}

func TestNewManager_NilArgsPanic(t *testing.T) {
	logger := zap.NewNop()
	roller := dice.NewLoggedRoller(dice.NewSeededSource(1), logger)
	assert.Panics(t, func() { scripting.NewManager(nil, logger) })
	assert.Panics(t, func() { scripting.NewManager(roller, nil) })
}

func TestManager_Load_CallsHook(t *testing.T) {
	mgr, _ := newTestManager(t)
	dir := writeTempLua(t, "hooks.lua", `
		function test_hook(a, b)
			return a + b
		end
	`)
	require.NoError(t, mgr.Load("tank", dir, 0))
	ret, err := mgr.CallHook("tank", "test_hook", lua.LNumber(3), lua.LNumber(4))
	require.NoError(t, err)
	assert.Equal(t, lua.LNumber(7), ret)
}

func TestManager_CallHook_MissingHook_NoOp(t *testing.T) {
	mgr, _ := newTestManager(t)
	dir := writeTempLua(t, "empty.lua", `-- no functions`)
	require.NoError(t, mgr.Load("tank", dir, 0))
	ret, err := mgr.CallHook("tank", "nonexistent_hook")
	require.NoError(t, err)
	assert.Equal(t, lua.LNil, ret)
}

func TestManager_CallHook_UnknownKey_LogsInfoReturnsNil(t *testing.T) {
	mgr, logs := newTestManager(t)
	ret, err := mgr.CallHook("no_such_set", "some_hook")
	require.NoError(t, err)
	assert.Equal(t, lua.LNil, ret)
	assert.True(t, hasLevel(logs, zap.InfoLevel), "expected Info log for missing VM")
}

func TestManager_CallHook_RuntimeError_WarnLogNoPanic(t *testing.T) {
	mgr, logs := newTestManager(t)
	dir := writeTempLua(t, "bad.lua", `
		function bad_hook()
			error("intentional error")
		end
	`)
	require.NoError(t, mgr.Load("tank", dir, 0))
	ret, err := mgr.CallHook("tank", "bad_hook")
	require.NoError(t, err)
	assert.Equal(t, lua.LNil, ret)
	assert.True(t, hasLevel(logs, zap.WarnLevel), "expected Warn log for Lua runtime error")
}

func TestManager_LoadGlobal_CallHookFallback(t *testing.T) {
	mgr, _ := newTestManager(t)
	dir := writeTempLua(t, "global.lua", `
		function global_hook()
			return 42
		end
	`)
	require.NoError(t, mgr.LoadGlobal(dir, 0))
	ret, err := mgr.CallHook("assassin", "global_hook")
	require.NoError(t, err)
	assert.Equal(t, lua.LNumber(42), ret)
}

func TestManager_KeyedSetWithoutHook_FallsBackToGlobal(t *testing.T) {
	mgr, _ := newTestManager(t)
	require.NoError(t, mgr.LoadGlobal(writeTempLua(t, "g.lua", `function h() return "global" end`), 0))
	require.NoError(t, mgr.Load("cleric", writeTempLua(t, "c.lua", `function other() return 1 end`), 0))
	ret, err := mgr.CallHook("cleric", "h")
	require.NoError(t, err)
	assert.Equal(t, lua.LString("global"), ret)
}

func TestManager_KeyedSetShadowsGlobal(t *testing.T) {
	mgr, _ := newTestManager(t)
	require.NoError(t, mgr.LoadGlobal(writeTempLua(t, "g.lua", `function h() return "global" end`), 0))
	require.NoError(t, mgr.Load("cleric", writeTempLua(t, "c.lua", `function h() return "cleric" end`), 0))
	ret, err := mgr.CallHook("cleric", "h")
	require.NoError(t, err)
	assert.Equal(t, lua.LString("cleric"), ret)
}

func TestManager_Load_EmptyDir_NoError(t *testing.T) {
	mgr, _ := newTestManager(t)
	require.NoError(t, mgr.Load("empty", t.TempDir(), 0))
	ret, err := mgr.CallHook("empty", "anything")
	require.NoError(t, err)
	assert.Equal(t, lua.LNil, ret)
}

func TestManager_Load_InvalidLua_ReturnsError(t *testing.T) {
	mgr, _ := newTestManager(t)
	dir := writeTempLua(t, "bad.lua", `this is not valid lua @@@@`)
	assert.Error(t, mgr.Load("bad", dir, 0))
}

func TestManager_Load_MissingDir_ReturnsError(t *testing.T) {
	mgr, _ := newTestManager(t)
	assert.Error(t, mgr.Load("gone", filepath.Join(t.TempDir(), "missing"), 0))
}

func TestManager_LoadTree_KeysSubdirectories(t *testing.T) {
	mgr, _ := newTestManager(t)
	root := writeTempLua(t, "root.lua", `function who() return "global" end`)
	require.NoError(t, os.Mkdir(filepath.Join(root, "tank"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "tank", "t.lua"), []byte(`function who() return "tank" end`), 0o644))

	keys, err := mgr.LoadTree(root, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{scripting.GlobalKey, "tank"}, keys)

	ret, err := mgr.CallHook("tank", "who")
	require.NoError(t, err)
	assert.Equal(t, lua.LString("tank"), ret)
	ret, err = mgr.CallHook("swordsman", "who")
	require.NoError(t, err)
	assert.Equal(t, lua.LString("global"), ret)
}

func TestManager_InstructionLimitIsPerCall(t *testing.T) {
	mgr, logs := newTestManager(t)
	dir := writeTempLua(t, "loop.lua", `
		function spin(n)
			local x = 0
			for i = 1, n do x = x + i end
			return x
		end
	`)
	require.NoError(t, mgr.Load("tank", dir, 200))

	for i := 0; i < 5; i++ {
		ret, err := mgr.CallHook("tank", "spin", lua.LNumber(10))
		require.NoError(t, err)
		assert.Equal(t, lua.LNumber(55), ret, "call %d", i)
	}

	ret, err := mgr.CallHook("tank", "spin", lua.LNumber(1_000_000))
	require.NoError(t, err)
	assert.Equal(t, lua.LNil, ret)
	assert.True(t, hasLevel(logs, zap.WarnLevel))

	ret, err = mgr.CallHook("tank", "spin", lua.LNumber(3))
	require.NoError(t, err)
	assert.Equal(t, lua.LNumber(6), ret, "budget must re-arm after an exhausted call")
}

func TestManager_CallHook_ConcurrentCalls(t *testing.T) {
	mgr, _ := newTestManager(t)
	dir := writeTempLua(t, "add.lua", `function add(a, b) return a + b end`)
	require.NoError(t, mgr.LoadGlobal(dir, 0))

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			ret, err := mgr.CallHook("any", "add", lua.LNumber(n), lua.LNumber(1))
			assert.NoError(t, err)
			assert.Equal(t, lua.LNumber(n+1), ret)
		}(i)
	}
	wg.Wait()
}

func TestModules_EngineRandomInRange(t *testing.T) {
	mgr, _ := newTestManager(t)
	dir := writeTempLua(t, "r.lua", `function pick(n) return engine.random(n) end`)
	require.NoError(t, mgr.LoadGlobal(dir, 0))
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(1, 100).Draw(rt, "n")
		ret, err := mgr.CallHook(scripting.GlobalKey, "pick", lua.LNumber(n))
		if err != nil {
			rt.Fatal(err)
		}
		v, ok := ret.(lua.LNumber)
		if !ok || int(v) < 1 || int(v) > n {
			rt.Fatalf("engine.random(%d) returned %v", n, ret)
		}
	})
}

func TestModules_EngineDiceRoll(t *testing.T) {
	mgr, logs := newTestManager(t)
	dir := writeTempLua(t, "d.lua", `
		function roll() return engine.dice.roll("2d6+1") end
		function bad() return engine.dice.roll("nonsense") end
	`)
	require.NoError(t, mgr.LoadGlobal(dir, 0))

	ret, err := mgr.CallHook(scripting.GlobalKey, "roll")
	require.NoError(t, err)
	v, ok := ret.(lua.LNumber)
	require.True(t, ok)
	assert.GreaterOrEqual(t, int(v), 3)
	assert.LessOrEqual(t, int(v), 13)

	ret, err = mgr.CallHook(scripting.GlobalKey, "bad")
	require.NoError(t, err)
	assert.Equal(t, lua.LNil, ret)
	assert.True(t, hasLevel(logs, zap.WarnLevel))
}

func TestModules_EngineLogWritesThroughLogger(t *testing.T) {
	mgr, logs := newTestManager(t)
	dir := writeTempLua(t, "l.lua", `function shout() engine.log.info("hello") end`)
	require.NoError(t, mgr.LoadGlobal(dir, 0))
	_, err := mgr.CallHook(scripting.GlobalKey, "shout")
	require.NoError(t, err)
	assert.Equal(t, 1, logs.FilterMessage("lua: hello").Len())
}
