package dice

import (
	"strconv"
	"strings"
)

// Group is one dice term of a complex formula, e.g. the "-2d6" of "1d20-2d6".
//
// Invariant: 1 <= |Count| <= 100, 1 <= Sides <= 1000. KeepHighest and
// KeepLowest are 0 when absent, otherwise in [1, |Count|]; at most one is set.
type Group struct {
	// Count carries the term's sign. Die values are always positive; a
	// negative count subtracts the group's kept sum.
	Count       int
	Sides       int
	KeepHighest int
	KeepLowest  int
}

// Sign returns -1 for a subtracted group and 1 otherwise.
func (g Group) Sign() int {
	if g.Count < 0 {
		return -1
	}
	return 1
}

// Dice returns the number of dice rolled for the group.
func (g Group) Dice() int {
	if g.Count < 0 {
		return -g.Count
	}
	return g.Count
}

// HasKeep reports whether the group carries a kh or kl qualifier.
func (g Group) HasKeep() bool { return g.KeepHighest > 0 || g.KeepLowest > 0 }

// String renders the group without its sign, e.g. "4d6kh3".
func (g Group) String() string {
	var b strings.Builder
	b.WriteString(strconv.Itoa(g.Dice()))
	b.WriteByte('d')
	b.WriteString(strconv.Itoa(g.Sides))
	switch {
	case g.KeepHighest > 0:
		b.WriteString("kh" + strconv.Itoa(g.KeepHighest))
	case g.KeepLowest > 0:
		b.WriteString("kl" + strconv.Itoa(g.KeepLowest))
	}
	return b.String()
}

// Formula is a parsed complex dice formula: a signed sum of dice groups plus
// a flat modifier.
type Formula struct {
	Raw      string // original input string
	Groups   []Group
	Modifier int
}

// String returns the canonical notation, e.g. "1d8+1d4-2".
func (f Formula) String() string {
	var b strings.Builder
	for i, g := range f.Groups {
		switch {
		case g.Count < 0:
			b.WriteByte('-')
		case i > 0:
			b.WriteByte('+')
		}
		b.WriteString(g.String())
	}
	if len(f.Groups) == 0 {
		b.WriteString(strconv.Itoa(f.Modifier))
	} else if f.Modifier != 0 {
		b.WriteString(FormatModifier(f.Modifier))
	}
	return b.String()
}

// loneD20 reports whether f is the attack/check shape: exactly one group of a
// single unkept d20.
func (f Formula) loneD20() bool {
	if len(f.Groups) != 1 {
		return false
	}
	g := f.Groups[0]
	return g.Dice() == 1 && g.Sides == 20 && !g.HasKeep()
}

// SimpleFormula is a single homogeneous dice group plus a modifier, "NdX±M".
//
// Invariant: 1 <= Count <= 100 and Die.Valid().
type SimpleFormula struct {
	Raw      string
	Count    int
	Die      DieType
	Modifier int
}

// String returns the canonical notation, e.g. "2d6+3".
func (s SimpleFormula) String() string {
	out := strconv.Itoa(s.Count) + s.Die.String()
	if s.Modifier != 0 {
		out += FormatModifier(s.Modifier)
	}
	return out
}

// Formula converts s into the equivalent complex Formula.
func (s SimpleFormula) Formula() Formula {
	return Formula{
		Raw:      s.Raw,
		Groups:   []Group{{Count: s.Count, Sides: s.Die.Sides()}},
		Modifier: s.Modifier,
	}
}
