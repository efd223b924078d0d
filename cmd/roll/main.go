// Package main provides the roll CLI, which evaluates dice formulas, rule
// rolls, presets and Lua macros locally or against a roll server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/rollkit/internal/config"
	"github.com/cory-johannsen/rollkit/internal/dice"
	"github.com/cory-johannsen/rollkit/internal/observability"
	"github.com/cory-johannsen/rollkit/internal/preset"
	"github.com/cory-johannsen/rollkit/internal/rollservice"
	"github.com/cory-johannsen/rollkit/internal/scripting"
)

const usage = `usage: roll [-config path] [-lang en|es] <command> [args]

commands:
  eval <formula> [-mode normal|advantage|disadvantage] [-mod N]
  simple <formula>
  ability [-set]
  attack -mod N [-damage 1d8] [-damage-mod N] [-type slashing] [-no-damage]
  death-save
  hit-die <dN> <con-modifier>
  preset <id> [-mod N]
  presets
  script <function> [args...]
  remote <formula> [-addr host:port] [-mode M] [-mod N]
`

// errUsage marks argument errors that should print usage.
var errUsage = errors.New("invalid arguments")

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// app carries the dependencies shared by every command.
type app struct {
	cfg     config.Config
	logger  *zap.Logger
	roller  *dice.Roller
	presets *preset.Library
	format  dice.Formatter
	out     io.Writer
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("roll", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "path to configuration file; empty uses defaults and ROLLKIT_* environment variables")
	lang := fs.String("lang", "en", "output language: en or es")
	fs.Usage = func() { fmt.Fprint(stderr, usage) }
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "loading config: %v\n", err)
		return 1
	}
	logger, err := observability.NewLogger(cfg.Logging, "roll")
	if err != nil {
		fmt.Fprintf(stderr, "initializing logger: %v\n", err)
		return 1
	}
	defer logger.Sync()

	src, err := dice.NewSourceByKind(cfg.Dice.Source, cfg.Dice.Seed, cfg.Dice.ServerSeed, cfg.Dice.ClientSeed, cfg.Dice.Nonce)
	if err != nil {
		fmt.Fprintf(stderr, "dice source: %v\n", err)
		return 1
	}
	presets, err := preset.LoadDir(cfg.Presets.Dir)
	if err != nil {
		fmt.Fprintf(stderr, "loading presets: %v\n", err)
		return 1
	}

	a := &app{
		cfg:     cfg,
		logger:  logger,
		roller:  dice.NewLoggedRoller(dice.NewEngine(src, dice.NewSystemClock()), logger),
		presets: presets,
		format:  dice.DefaultFormatter,
		out:     stdout,
	}
	if *lang == "es" {
		a.format = dice.Formatter{Labels: dice.SpanishLabels}
	}

	if err := a.dispatch(fs.Arg(0), fs.Args()[1:]); err != nil {
		fmt.Fprintf(stderr, "roll %s: %v\n", fs.Arg(0), err)
		if errors.Is(err, errUsage) {
			fmt.Fprint(stderr, usage)
			return 2
		}
		return 1
	}
	return 0
}

func (a *app) dispatch(cmd string, args []string) error {
	switch cmd {
	case "eval":
		return a.eval(args)
	case "simple":
		return a.simple(args)
	case "ability":
		return a.ability(args)
	case "attack":
		return a.attack(args)
	case "death-save":
		fmt.Fprintln(a.out, a.format.FormatDeathSave(a.roller.RollDeathSave()))
		return nil
	case "hit-die":
		return a.hitDie(args)
	case "preset":
		return a.preset(args)
	case "presets":
		for _, p := range a.presets.All() {
			fmt.Fprintf(a.out, "%-20s %s\n", p.ID, p.DisplayName())
		}
		return nil
	case "script":
		return a.script(args)
	case "remote":
		return a.remote(args)
	}
	return fmt.Errorf("unknown command %q: %w", cmd, errUsage)
}

// parseInterspersed parses flags that may appear before or after the single
// positional argument.
func parseInterspersed(fs *flag.FlagSet, args []string) ([]string, error) {
	fs.SetOutput(io.Discard)
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, fmt.Errorf("%v: %w", err, errUsage)
		}
		if fs.NArg() == 0 {
			return positional, nil
		}
		positional = append(positional, fs.Arg(0))
		args = fs.Args()[1:]
	}
}

func (a *app) eval(args []string) error {
	fs := flag.NewFlagSet("eval", flag.ContinueOnError)
	mode := fs.String("mode", "normal", "advantage mode")
	mod := fs.Int("mod", 0, "extra modifier")
	pos, err := parseInterspersed(fs, args)
	if err != nil {
		return err
	}
	if len(pos) != 1 {
		return fmt.Errorf("eval takes one formula: %w", errUsage)
	}
	m, err := dice.ParseAdvantageMode(*mode)
	if err != nil {
		return err
	}
	res, err := a.roller.Evaluate(pos[0], m, *mod)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, a.format.FormatRollResult(res))
	return nil
}

func (a *app) simple(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("simple takes one formula: %w", errUsage)
	}
	res, err := a.roller.EvaluateSimple(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, a.format.FormatRollResult(res))
	return nil
}

func (a *app) ability(args []string) error {
	fs := flag.NewFlagSet("ability", flag.ContinueOnError)
	set := fs.Bool("set", false, "roll a full set of six scores")
	if _, err := parseInterspersed(fs, args); err != nil {
		return err
	}
	if !*set {
		fmt.Fprintln(a.out, a.format.FormatAbilityRoll(a.roller.RollAbilityScore()))
		return nil
	}
	for _, r := range a.roller.RollAbilityScoreSet() {
		fmt.Fprintf(a.out, "%s (%s)\n", a.format.FormatAbilityRoll(r), dice.FormatModifier(dice.AbilityModifier(r.Total)))
	}
	return nil
}

func (a *app) attack(args []string) error {
	fs := flag.NewFlagSet("attack", flag.ContinueOnError)
	mod := fs.Int("mod", 0, "attack modifier")
	damage := fs.String("damage", "1d6", "damage dice")
	damageMod := fs.Int("damage-mod", 0, "damage modifier")
	damageType := fs.String("type", "", "damage type")
	noDamage := fs.Bool("no-damage", false, "skip the damage roll")
	if _, err := parseInterspersed(fs, args); err != nil {
		return err
	}
	res := a.roller.RollAttack(*mod, *damage, *damageMod, *damageType, !*noDamage)
	fmt.Fprintln(a.out, a.format.FormatAttackRoll(res))
	return nil
}

func (a *app) hitDie(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("hit-die takes a die and a constitution modifier: %w", errUsage)
	}
	die, err := dice.ParseDieType(args[0])
	if err != nil {
		return err
	}
	con, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("constitution modifier %q: %w", args[1], errUsage)
	}
	res := a.roller.RollHitDie(die, con)
	fmt.Fprintf(a.out, "%s %s%s → %d HP\n", a.format.Labels.Dice, die, dice.FormatModifier(res.Modifier), res.Total)
	return nil
}

func (a *app) preset(args []string) error {
	fs := flag.NewFlagSet("preset", flag.ContinueOnError)
	mod := fs.Int("mod", 0, "extra modifier")
	pos, err := parseInterspersed(fs, args)
	if err != nil {
		return err
	}
	if len(pos) != 1 {
		return fmt.Errorf("preset takes one id: %w", errUsage)
	}
	p, err := a.presets.Get(pos[0])
	if err != nil {
		return err
	}
	res, err := a.presets.Roll(a.roller, p.ID, *mod)
	if err != nil {
		return err
	}
	line := p.DisplayName() + ": " + a.format.FormatRollResult(res)
	if p.DamageType != "" {
		line += " " + p.DamageType
	}
	fmt.Fprintln(a.out, line)
	return nil
}

// luaArg converts a command-line word into the closest Lua value.
func luaArg(s string) lua.LValue {
	switch s {
	case "true":
		return lua.LTrue
	case "false":
		return lua.LFalse
	}
	if n, err := strconv.ParseFloat(s, 64); err == nil {
		return lua.LNumber(n)
	}
	return lua.LString(s)
}

func (a *app) script(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("script takes a function name: %w", errUsage)
	}
	if a.cfg.Scripting.Dir == "" {
		return errors.New("no script directory configured (scripting.dir)")
	}
	mgr := scripting.NewManager(a.roller, a.logger)
	defer mgr.Close()
	if err := mgr.LoadGlobal(a.cfg.Scripting.Dir, a.cfg.Scripting.InstructionLimit); err != nil {
		return err
	}
	luaArgs := make([]lua.LValue, 0, len(args)-1)
	for _, s := range args[1:] {
		luaArgs = append(luaArgs, luaArg(s))
	}
	ret, err := mgr.CallHook(scripting.GlobalScope, args[0], luaArgs...)
	if err != nil {
		return err
	}
	if ret == lua.LNil {
		return fmt.Errorf("function %q returned nothing or failed; see log", args[0])
	}
	fmt.Fprintln(a.out, renderLua(ret))
	return nil
}

// renderLua prints tables as sorted key=value pairs one level deep.
func renderLua(v lua.LValue) string {
	tbl, ok := v.(*lua.LTable)
	if !ok {
		return v.String()
	}
	var parts []string
	tbl.ForEach(func(k, val lua.LValue) {
		s := val.String()
		if _, nested := val.(*lua.LTable); nested {
			s = "{...}"
		}
		parts = append(parts, k.String()+"="+s)
	})
	sort.Strings(parts)
	return strings.Join(parts, " ")
}

func (a *app) remote(args []string) error {
	fs := flag.NewFlagSet("remote", flag.ContinueOnError)
	addr := fs.String("addr", a.cfg.GRPC.Addr(), "roll server address")
	mode := fs.String("mode", "normal", "advantage mode")
	mod := fs.Int("mod", 0, "extra modifier")
	pos, err := parseInterspersed(fs, args)
	if err != nil {
		return err
	}
	if len(pos) != 1 {
		return fmt.Errorf("remote takes one formula: %w", errUsage)
	}
	m, err := dice.ParseAdvantageMode(*mode)
	if err != nil {
		return err
	}
	client, conn, err := rollservice.Dial(*addr)
	if err != nil {
		return err
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	res, err := client.Evaluate(ctx, pos[0], m, *mod)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, a.format.FormatRollResult(res))
	return nil
}
