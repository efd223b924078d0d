// Package dice implements the dice-formula engine: notation parsers, the
// formula evaluator, and the rule-specific roll builders used by the
// character sheet.
package dice

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMalformed is wrapped by every parse failure. It is the only error kind
// the engine produces; evaluation of a parsed formula cannot fail.
var ErrMalformed = errors.New("malformed dice expression")

// DieType is one of the standard polyhedral dice. The value is the face count.
type DieType int

const (
	D4   DieType = 4
	D6   DieType = 6
	D8   DieType = 8
	D10  DieType = 10
	D12  DieType = 12
	D20  DieType = 20
	D100 DieType = 100
)

// DieTypes lists every supported DieType in ascending order.
var DieTypes = []DieType{D4, D6, D8, D10, D12, D20, D100}

// Sides returns the maximum value of the die.
func (d DieType) Sides() int { return int(d) }

// Valid reports whether d is one of the supported dice.
func (d DieType) Valid() bool {
	switch d {
	case D4, D6, D8, D10, D12, D20, D100:
		return true
	}
	return false
}

// String returns the die in "dN" form.
func (d DieType) String() string { return "d" + strconv.Itoa(int(d)) }

// ParseDieType parses "d8", "D8", or "8" into a DieType.
//
// Postcondition: Returns a valid DieType or an error wrapping ErrMalformed.
func ParseDieType(s string) (DieType, error) {
	s = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "d")
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("dice: invalid die %q: %w", s, ErrMalformed)
	}
	d := DieType(n)
	if !d.Valid() {
		return 0, fmt.Errorf("dice: unsupported die d%d: %w", n, ErrMalformed)
	}
	return d, nil
}

// DieRoll is one rolled die.
//
// Invariant: 1 <= Value <= Sides. Discarded dice were rolled but excluded from
// the subtotal; they stay in the result for auditability.
type DieRoll struct {
	Sides     int
	Value     int
	Discarded bool
}

// Die returns the die label, e.g. "d6" or "d7" for a raw face count.
func (r DieRoll) Die() string { return "d" + strconv.Itoa(r.Sides) }

// RollResult holds the full audit trail for a single roll evaluation.
type RollResult struct {
	ID         string    // assigned by Roller; empty for direct Engine rolls
	Expression string    // expression as rolled, e.g. "2d6+3"
	Rolls      []DieRoll // every die in roll order, discarded ones included
	Modifier   int       // flat modifier (may be negative)
	Subtotal   int       // signed sum of kept dice only
	Total      int
	IsCritical bool
	IsFumble   bool
	Timestamp  string
}

// Values returns the face values of every die, discarded ones included.
func (r RollResult) Values() []int {
	out := make([]int, len(r.Rolls))
	for i, d := range r.Rolls {
		out[i] = d.Value
	}
	return out
}

// Kept returns the face values of the dice that count toward Subtotal.
func (r RollResult) Kept() []int {
	out := make([]int, 0, len(r.Rolls))
	for _, d := range r.Rolls {
		if !d.Discarded {
			out = append(out, d.Value)
		}
	}
	return out
}

// String returns the default text transcription. See FormatRollResult.
func (r RollResult) String() string {
	return FormatRollResult(r)
}
