package dice

import (
	"fmt"
	"strconv"
	"strings"
)

// Labels holds the decoration used by a Formatter. Swapping labels changes
// presentation only.
type Labels struct {
	Dice     string
	Critical string
	Fumble   string
	Discards string
	Attack   string
	Damage   string

	DeathCritical string
	DeathFumble   string
	// DeathSuccess and DeathFailure are format strings taking the d20 value.
	DeathSuccess string
	DeathFailure string
}

// DefaultLabels are English labels.
var DefaultLabels = Labels{
	Dice:          "🎲",
	Critical:      "✨ CRITICAL!",
	Fumble:        "💀 FUMBLE!",
	Discards:      "drops",
	Attack:        "⚔️ Attack",
	Damage:        "Damage",
	DeathCritical: "💚 Natural 20! The character regains 1 HP and comes to.",
	DeathFumble:   "💀 Natural 1! Counts as two failures.",
	DeathSuccess:  "✅ Success (%d): death saving throw passed.",
	DeathFailure:  "❌ Failure (%d): death saving throw failed.",
}

// SpanishLabels are Spanish labels.
var SpanishLabels = Labels{
	Dice:          "🎲",
	Critical:      "✨ ¡CRÍTICO!",
	Fumble:        "💀 ¡PIFIA!",
	Discards:      "descarta",
	Attack:        "⚔️ Ataque",
	Damage:        "Daño",
	DeathCritical: "💚 ¡20 natural! Tu personaje recupera 1 PG y vuelve en sí.",
	DeathFumble:   "💀 ¡1 natural! Cuenta como 2 fracasos.",
	DeathSuccess:  "✅ Éxito (%d): tirada de salvación contra muerte superada.",
	DeathFailure:  "❌ Fracaso (%d): tirada de salvación contra muerte fallida.",
}

// Formatter transcribes results into plain text.
type Formatter struct {
	Labels Labels
}

// DefaultFormatter uses DefaultLabels.
var DefaultFormatter = Formatter{Labels: DefaultLabels}

// FormatModifier returns modifier with an explicit sign: 3 → "+3", -1 → "-1", 0 → "+0".
func FormatModifier(modifier int) string {
	if modifier >= 0 {
		return "+" + strconv.Itoa(modifier)
	}
	return strconv.Itoa(modifier)
}

// spacedModifier renders " + 3", " - 2", or "" for zero.
func spacedModifier(modifier int) string {
	switch {
	case modifier > 0:
		return " + " + strconv.Itoa(modifier)
	case modifier < 0:
		return " - " + strconv.Itoa(-modifier)
	}
	return ""
}

func joinInts(values []int, sep string) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, sep)
}

func (f Formatter) outcome(critical, fumble bool) string {
	switch {
	case critical:
		return " " + f.Labels.Critical
	case fumble:
		return " " + f.Labels.Fumble
	}
	return ""
}

// FormatRollResult renders r, e.g. "🎲 2d6+3 → [4, 5] + 3 = 12". Discarded
// dice appear in parentheses.
func (f Formatter) FormatRollResult(r RollResult) string {
	dice := make([]string, len(r.Rolls))
	for i, d := range r.Rolls {
		if d.Discarded {
			dice[i] = "(" + strconv.Itoa(d.Value) + ")"
		} else {
			dice[i] = strconv.Itoa(d.Value)
		}
	}
	text := fmt.Sprintf("%s %s → [%s]%s = %d",
		f.Labels.Dice, r.Expression, strings.Join(dice, ", "), spacedModifier(r.Modifier), r.Total)
	return text + f.outcome(r.IsCritical, r.IsFumble)
}

// FormatAbilityRoll renders r, e.g. "4d6: [3, 4, 5, 6] → drops 3 → 15".
func (f Formatter) FormatAbilityRoll(r AbilityRoll) string {
	return fmt.Sprintf("4d6: [%s] → %s %d → %d",
		joinInts(r.AllRolls[:], ", "), f.Labels.Discards, r.Discarded, r.Total)
}

// FormatAttackRoll renders r, e.g.
// "⚔️ Attack: d20+5 → 18 (13+5) | Damage: [4+2]+3 = 9 slashing".
func (f Formatter) FormatAttackRoll(r AttackRoll) string {
	mod := FormatModifier(r.AttackModifier)
	text := fmt.Sprintf("%s: d20%s → %d (%d%s)", f.Labels.Attack, mod, r.AttackTotal, r.D20Roll, mod)
	text += f.outcome(r.IsCritical, r.IsFumble)
	if d := r.Damage; d != nil {
		dmgMod := ""
		if d.Modifier != 0 {
			dmgMod = FormatModifier(d.Modifier)
		}
		text += fmt.Sprintf(" | %s: [%s]%s = %d", f.Labels.Damage, joinInts(d.Rolls, "+"), dmgMod, d.Total)
		if d.DamageType != "" {
			text += " " + d.DamageType
		}
	}
	return text
}

// FormatDeathSave renders the outcome of a death saving throw.
func (f Formatter) FormatDeathSave(r DeathSave) string {
	switch {
	case r.IsCritical:
		return f.Labels.DeathCritical
	case r.IsFumble:
		return f.Labels.DeathFumble
	case r.IsSuccess:
		return fmt.Sprintf(f.Labels.DeathSuccess, r.Roll)
	}
	return fmt.Sprintf(f.Labels.DeathFailure, r.Roll)
}

// FormatRollResult renders r with DefaultFormatter.
func FormatRollResult(r RollResult) string { return DefaultFormatter.FormatRollResult(r) }

// FormatAbilityRoll renders r with DefaultFormatter.
func FormatAbilityRoll(r AbilityRoll) string { return DefaultFormatter.FormatAbilityRoll(r) }

// FormatAttackRoll renders r with DefaultFormatter.
func FormatAttackRoll(r AttackRoll) string { return DefaultFormatter.FormatAttackRoll(r) }

// FormatDeathSave renders r with DefaultFormatter.
func FormatDeathSave(r DeathSave) string { return DefaultFormatter.FormatDeathSave(r) }
