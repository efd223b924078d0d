package main

import (
	"bytes"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/rollkit/internal/dice"
	"github.com/cory-johannsen/rollkit/internal/preset"
	"github.com/cory-johannsen/rollkit/internal/rollservice"
)

func repoRoot(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	root := wd
	for {
		if _, err := os.Stat(filepath.Join(root, "go.mod")); err == nil {
			return root
		}
		parent := filepath.Dir(root)
		if parent == root {
			t.Fatalf("could not find repo root from %s", wd)
		}
		root = parent
	}
}

// setupEnv points the CLI at the shipped content with a seeded source.
func setupEnv(t *testing.T) {
	t.Helper()
	root := repoRoot(t)
	t.Setenv("ROLLKIT_LOGGING_LEVEL", "error")
	t.Setenv("ROLLKIT_DICE_SOURCE", "seeded")
	t.Setenv("ROLLKIT_DICE_SEED", "42")
	t.Setenv("ROLLKIT_PRESETS_DIR", filepath.Join(root, "content", "presets"))
	t.Setenv("ROLLKIT_SCRIPTING_DIR", filepath.Join(root, "content", "scripts"))
}

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_NoCommand(t *testing.T) {
	setupEnv(t)
	code, _, stderr := runCLI(t)
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "usage: roll")
}

func TestRun_UnknownCommand(t *testing.T) {
	setupEnv(t)
	code, _, stderr := runCLI(t, "juggle")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, `unknown command "juggle"`)
}

func TestRun_Eval(t *testing.T) {
	setupEnv(t)
	code, stdout, stderr := runCLI(t, "eval", "2d6+3")
	require.Equal(t, 0, code, stderr)
	assert.True(t, strings.HasPrefix(stdout, "🎲 2d6+3 → ["), stdout)
}

func TestRun_EvalFlagsAfterFormula(t *testing.T) {
	setupEnv(t)
	code, stdout, stderr := runCLI(t, "eval", "1d20", "-mode", "advantage", "-mod", "2")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "(advantage)")
	assert.Contains(t, stdout, "+ 2 =")
}

func TestRun_EvalMalformed(t *testing.T) {
	setupEnv(t)
	code, stdout, stderr := runCLI(t, "eval", "2d")
	assert.Equal(t, 1, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "malformed dice expression")
}

func TestRun_EvalMissingFormula(t *testing.T) {
	setupEnv(t)
	code, _, stderr := runCLI(t, "eval")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "usage: roll")
}

func TestRun_Simple(t *testing.T) {
	setupEnv(t)
	code, stdout, stderr := runCLI(t, "simple", "3d8-1")
	require.Equal(t, 0, code, stderr)
	assert.True(t, strings.HasPrefix(stdout, "🎲 3d8-1 → ["), stdout)
}

func TestRun_AbilitySet(t *testing.T) {
	setupEnv(t)
	code, stdout, stderr := runCLI(t, "ability", "-set")
	require.Equal(t, 0, code, stderr)
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 6)
	for _, line := range lines {
		assert.True(t, strings.HasPrefix(line, "4d6: ["), line)
	}
}

func TestRun_AttackWithoutDamage(t *testing.T) {
	setupEnv(t)
	code, stdout, stderr := runCLI(t, "attack", "-mod", "5", "-no-damage")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "⚔️ Attack: d20+5 → ")
	assert.NotContains(t, stdout, "Damage")
}

func TestRun_DeathSaveSpanish(t *testing.T) {
	setupEnv(t)
	code, stdout, stderr := runCLI(t, "-lang", "es", "death-save")
	require.Equal(t, 0, code, stderr)
	assert.Regexp(t, `Éxito|Fracaso|natural`, stdout)
}

func TestRun_HitDie(t *testing.T) {
	setupEnv(t)
	code, stdout, stderr := runCLI(t, "hit-die", "d8", "2")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "🎲 d8+2 → ")
	assert.True(t, strings.HasSuffix(strings.TrimSpace(stdout), "HP"))
}

func TestRun_HitDieBadDie(t *testing.T) {
	setupEnv(t)
	code, _, stderr := runCLI(t, "hit-die", "d7", "2")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "unsupported die d7")
}

func TestRun_Preset(t *testing.T) {
	setupEnv(t)
	code, stdout, stderr := runCLI(t, "preset", "stealth-armored", "-mod", "1")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "1d20+6 (disadvantage)")
}

func TestRun_PresetUnknown(t *testing.T) {
	setupEnv(t)
	code, _, stderr := runCLI(t, "preset", "nope")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, preset.ErrNotFound.Error())
}

func TestRun_PresetsListsShippedContent(t *testing.T) {
	setupEnv(t)
	code, stdout, stderr := runCLI(t, "presets")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "stealth-armored")
}

func TestRun_Script(t *testing.T) {
	setupEnv(t)
	code, stdout, stderr := runCLI(t, "script", "fireball", "3")
	require.Equal(t, 0, code, stderr)
	total, err := strconv.Atoi(strings.TrimSpace(stdout))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, total, 8)
	assert.LessOrEqual(t, total, 48)
}

func TestRun_ScriptUndefinedFunction(t *testing.T) {
	setupEnv(t)
	code, _, stderr := runCLI(t, "script", "no_such_macro")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "no_such_macro")
}

func TestRun_ScriptWithoutDirectory(t *testing.T) {
	setupEnv(t)
	t.Setenv("ROLLKIT_SCRIPTING_DIR", "")
	code, _, stderr := runCLI(t, "script", "fireball")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "scripting.dir")
}

func TestRun_Remote(t *testing.T) {
	setupEnv(t)
	logger := zap.NewNop()
	roller := dice.NewLoggedRoller(dice.NewEngine(dice.NewSeededSource(1), dice.NewSystemClock()), logger)
	lib, err := preset.NewLibrary()
	require.NoError(t, err)
	gs := rollservice.NewGRPCServer(rollservice.NewServer(roller, lib, logger), logger)
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = gs.Serve(lis) }()
	t.Cleanup(gs.Shutdown)

	code, stdout, stderr := runCLI(t, "remote", "4d6kh3", "-addr", lis.Addr().String())
	require.Equal(t, 0, code, stderr)
	assert.True(t, strings.HasPrefix(stdout, "🎲 4d6kh3 → ["), stdout)
}

func TestLuaArg(t *testing.T) {
	tests := []struct {
		in   string
		want lua.LValue
	}{
		{"3", lua.LNumber(3)},
		{"-1.5", lua.LNumber(-1.5)},
		{"true", lua.LTrue},
		{"false", lua.LFalse},
		{"slashing", lua.LString("slashing")},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, luaArg(tt.in))
		})
	}
}

func TestRenderLua(t *testing.T) {
	L := lua.NewState()
	defer L.Close()
	tbl := L.NewTable()
	tbl.RawSetString("total", lua.LNumber(9))
	tbl.RawSetString("dice", L.NewTable())
	tbl.RawSetString("critical", lua.LFalse)

	assert.Equal(t, "critical=false dice={...} total=9", renderLua(tbl))
	assert.Equal(t, "7", renderLua(lua.LNumber(7)))
}
