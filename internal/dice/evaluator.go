package dice

import (
	"fmt"
	"sort"
	"strings"
)

// AdvantageMode selects how a lone d20 is rolled.
type AdvantageMode int

const (
	Normal AdvantageMode = iota
	Advantage
	Disadvantage
)

// String returns the canonical lower-case mode name.
func (m AdvantageMode) String() string {
	switch m {
	case Normal:
		return "normal"
	case Advantage:
		return "advantage"
	case Disadvantage:
		return "disadvantage"
	default:
		return "unknown"
	}
}

// ParseAdvantageMode accepts "normal", "advantage", "disadvantage", the short
// forms "adv" and "dis", and the Spanish labels "ventaja" and "desventaja".
// The empty string is Normal.
func ParseAdvantageMode(s string) (AdvantageMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "normal":
		return Normal, nil
	case "advantage", "adv", "ventaja":
		return Advantage, nil
	case "disadvantage", "dis", "desventaja":
		return Disadvantage, nil
	}
	return Normal, fmt.Errorf("dice: unknown advantage mode %q", s)
}

// Evaluation is the itemized outcome of Execute.
type Evaluation struct {
	Rolls      []DieRoll
	Subtotal   int
	Total      int
	IsCritical bool
	IsFumble   bool
}

// Execute rolls a parsed formula.
//
// A formula made of exactly one single, unkept d20 group is the attack/check
// shape: under Advantage or Disadvantage two d20 are rolled and the higher or
// lower one contributes while the other is recorded as discarded (on a tie the
// first die contributes). IsCritical and IsFumble reflect a natural 20 or 1 on
// the contributing die for that shape in every mode, independent of sign and
// modifiers. mode has no effect on any other formula.
//
// Every other group rolls |Count| dice. With a keep qualifier the dice are
// stable-sorted descending (equal values keep roll order); kh keeps the first
// KeepHighest of that order and kl keeps the last KeepLowest. The kept sum is
// multiplied by the group's sign.
//
// Total = Subtotal + f.Modifier + extraModifier and is never clamped.
//
// Precondition: f must come from ParseComplex or satisfy the Group invariant.
// Postcondition: len(Rolls) counts every die rolled, discarded ones included.
func (e *Engine) Execute(f Formula, mode AdvantageMode, extraModifier int) Evaluation {
	var ev Evaluation

	if f.loneD20() {
		g := f.Groups[0]
		chosen := e.RollDie(20)
		if mode == Normal {
			ev.Rolls = append(ev.Rolls, DieRoll{Sides: 20, Value: chosen})
		} else {
			other := e.RollDie(20)
			first, second := DieRoll{Sides: 20, Value: chosen}, DieRoll{Sides: 20, Value: other}
			if (mode == Advantage && other > chosen) || (mode == Disadvantage && other < chosen) {
				chosen = other
				first.Discarded = true
			} else {
				second.Discarded = true
			}
			ev.Rolls = append(ev.Rolls, first, second)
		}
		ev.Subtotal = g.Sign() * chosen
		ev.IsCritical = chosen == 20
		ev.IsFumble = chosen == 1
	} else {
		for _, g := range f.Groups {
			rolls := e.rollGroup(g)
			sum := 0
			for _, r := range rolls {
				if !r.Discarded {
					sum += r.Value
				}
			}
			ev.Rolls = append(ev.Rolls, rolls...)
			ev.Subtotal += g.Sign() * sum
		}
	}

	ev.Total = ev.Subtotal + f.Modifier + extraModifier
	return ev
}

// rollGroup rolls one group and marks the dice its keep qualifier drops.
func (e *Engine) rollGroup(g Group) []DieRoll {
	rolls := make([]DieRoll, g.Dice())
	for i := range rolls {
		rolls[i] = DieRoll{Sides: g.Sides, Value: e.RollDie(g.Sides)}
	}
	if !g.HasKeep() {
		return rolls
	}

	order := make([]int, len(rolls))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return rolls[order[a]].Value > rolls[order[b]].Value
	})

	keep := order[:g.KeepHighest]
	if g.KeepLowest > 0 {
		keep = order[len(order)-g.KeepLowest:]
	}
	kept := make(map[int]bool, len(keep))
	for _, idx := range keep {
		kept[idx] = true
	}
	for i := range rolls {
		rolls[i].Discarded = !kept[i]
	}
	return rolls
}

// Evaluate parses expr with ParseComplex and executes it. The returned
// Modifier is the formula's constant plus extraModifier, and Total is not
// clamped.
//
// Postcondition: Returns a RollResult or an error wrapping ErrMalformed.
func (e *Engine) Evaluate(expr string, mode AdvantageMode, extraModifier int) (RollResult, error) {
	f, err := ParseComplex(expr)
	if err != nil {
		return RollResult{}, err
	}
	ev := e.Execute(f, mode, extraModifier)
	expression := f.String()
	if extraModifier != 0 {
		expression += FormatModifier(extraModifier)
	}
	if mode != Normal && f.loneD20() {
		expression += " (" + mode.String() + ")"
	}
	return RollResult{
		Expression: expression,
		Rolls:      ev.Rolls,
		Modifier:   f.Modifier + extraModifier,
		Subtotal:   ev.Subtotal,
		Total:      ev.Total,
		IsCritical: ev.IsCritical,
		IsFumble:   ev.IsFumble,
		Timestamp:  e.timestamp(),
	}, nil
}
