package scripting

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cory-johannsen/rollkit/internal/dice"
)

// RegisterModules registers the engine.dice and engine.log tables into L.
//
// Precondition: L must be from NewSandboxedState.
// Postcondition: engine global is defined in L.
func (m *Manager) RegisterModules(L *lua.LState) {
	engine := L.NewTable()

	diceMod := L.NewTable()
	L.SetFuncs(diceMod, map[string]lua.LGFunction{
		"roll":       m.luaRoll,
		"parse":      luaParse,
		"ability":    m.luaAbility,
		"attack":     m.luaAttack,
		"death_save": m.luaDeathSave,
		"hit_die":    m.luaHitDie,
	})
	L.SetField(engine, "dice", diceMod)

	logMod := L.NewTable()
	L.SetFuncs(logMod, map[string]lua.LGFunction{
		"debug": m.luaLog(zap.DebugLevel),
		"info":  m.luaLog(zap.InfoLevel),
		"warn":  m.luaLog(zap.WarnLevel),
		"error": m.luaLog(zap.ErrorLevel),
	})
	L.SetField(engine, "log", logMod)

	L.SetGlobal("engine", engine)
}

// fail pushes the (nil, message) pair Lua callers check for.
func fail(L *lua.LState, err error) int {
	L.Push(lua.LNil)
	L.Push(lua.LString(err.Error()))
	return 2
}

func intList(L *lua.LState, values []int) *lua.LTable {
	t := L.CreateTable(len(values), 0)
	for _, v := range values {
		t.Append(lua.LNumber(v))
	}
	return t
}

// engine.dice.roll(formula [, mode [, modifier]]) -> result | nil, err
func (m *Manager) luaRoll(L *lua.LState) int {
	expr := L.CheckString(1)
	mode, err := dice.ParseAdvantageMode(L.OptString(2, ""))
	if err != nil {
		return fail(L, err)
	}
	res, err := m.roller.Evaluate(expr, mode, L.OptInt(3, 0))
	if err != nil {
		return fail(L, err)
	}
	t := L.NewTable()
	t.RawSetString("id", lua.LString(res.ID))
	t.RawSetString("expression", lua.LString(res.Expression))
	t.RawSetString("dice", intList(L, res.Values()))
	t.RawSetString("kept", intList(L, res.Kept()))
	t.RawSetString("modifier", lua.LNumber(res.Modifier))
	t.RawSetString("subtotal", lua.LNumber(res.Subtotal))
	t.RawSetString("total", lua.LNumber(res.Total))
	t.RawSetString("critical", lua.LBool(res.IsCritical))
	t.RawSetString("fumble", lua.LBool(res.IsFumble))
	t.RawSetString("timestamp", lua.LString(res.Timestamp))
	t.RawSetString("text", lua.LString(res.String()))
	L.Push(t)
	return 1
}

// engine.dice.parse(formula) -> formula | nil, err
func luaParse(L *lua.LState) int {
	f, err := dice.ParseComplex(L.CheckString(1))
	if err != nil {
		return fail(L, err)
	}
	groups := L.CreateTable(len(f.Groups), 0)
	for _, g := range f.Groups {
		gt := L.NewTable()
		gt.RawSetString("count", lua.LNumber(g.Count))
		gt.RawSetString("sides", lua.LNumber(g.Sides))
		gt.RawSetString("keep_highest", lua.LNumber(g.KeepHighest))
		gt.RawSetString("keep_lowest", lua.LNumber(g.KeepLowest))
		groups.Append(gt)
	}
	t := L.NewTable()
	t.RawSetString("canonical", lua.LString(f.String()))
	t.RawSetString("modifier", lua.LNumber(f.Modifier))
	t.RawSetString("groups", groups)
	L.Push(t)
	return 1
}

// engine.dice.ability() -> {rolls, kept, discarded, total}
func (m *Manager) luaAbility(L *lua.LState) int {
	r := m.roller.RollAbilityScore()
	t := L.NewTable()
	t.RawSetString("rolls", intList(L, r.AllRolls[:]))
	t.RawSetString("kept", intList(L, r.Kept[:]))
	t.RawSetString("discarded", lua.LNumber(r.Discarded))
	t.RawSetString("total", lua.LNumber(r.Total))
	L.Push(t)
	return 1
}

// engine.dice.attack(modifier [, damage_dice [, damage_modifier [, damage_type]]])
// Damage is rolled only when damage_dice is given; damage is nil when it
// does not parse.
func (m *Manager) luaAttack(L *lua.LState) int {
	mod := L.CheckInt(1)
	damageDice := L.OptString(2, "")
	r := m.roller.RollAttack(mod, damageDice, L.OptInt(3, 0), L.OptString(4, ""), damageDice != "")
	t := L.NewTable()
	t.RawSetString("d20", lua.LNumber(r.D20Roll))
	t.RawSetString("modifier", lua.LNumber(r.AttackModifier))
	t.RawSetString("total", lua.LNumber(r.AttackTotal))
	t.RawSetString("critical", lua.LBool(r.IsCritical))
	t.RawSetString("fumble", lua.LBool(r.IsFumble))
	if d := r.Damage; d != nil {
		dt := L.NewTable()
		dt.RawSetString("rolls", intList(L, d.Rolls))
		dt.RawSetString("modifier", lua.LNumber(d.Modifier))
		dt.RawSetString("total", lua.LNumber(d.Total))
		dt.RawSetString("type", lua.LString(d.DamageType))
		t.RawSetString("damage", dt)
	}
	L.Push(t)
	return 1
}

// engine.dice.death_save() -> {roll, success, critical, fumble}
func (m *Manager) luaDeathSave(L *lua.LState) int {
	r := m.roller.RollDeathSave()
	t := L.NewTable()
	t.RawSetString("roll", lua.LNumber(r.Roll))
	t.RawSetString("success", lua.LBool(r.IsSuccess))
	t.RawSetString("critical", lua.LBool(r.IsCritical))
	t.RawSetString("fumble", lua.LBool(r.IsFumble))
	L.Push(t)
	return 1
}

// engine.dice.hit_die(die, con_modifier) -> {roll, modifier, total} | nil, err
// die may be "d8", "D8", or 8.
func (m *Manager) luaHitDie(L *lua.LState) int {
	die, err := dice.ParseDieType(L.CheckAny(1).String())
	if err != nil {
		return fail(L, err)
	}
	r := m.roller.RollHitDie(die, L.OptInt(2, 0))
	t := L.NewTable()
	t.RawSetString("roll", lua.LNumber(r.Roll))
	t.RawSetString("modifier", lua.LNumber(r.Modifier))
	t.RawSetString("total", lua.LNumber(r.Total))
	L.Push(t)
	return 1
}

// engine.log.<level>(message)
func (m *Manager) luaLog(level zapcore.Level) lua.LGFunction {
	return func(L *lua.LState) int {
		if ce := m.logger.Check(level, L.CheckString(1)); ce != nil {
			ce.Write(zap.String("source", "lua"))
		}
		return 0
	}
}
