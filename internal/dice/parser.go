package dice

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

const (
	// MaxDiceCount bounds the number of dice in one group.
	MaxDiceCount = 100
	// MaxSides bounds the face count of a raw die in the complex grammar.
	MaxSides = 1000
)

var (
	diceTerm    = regexp.MustCompile(`^(\d*)d(\d+)(?:(kh|kl)(\d+))?$`)
	integerTerm = regexp.MustCompile(`^\d+$`)
)

// term is one signed token of a formula.
type term struct {
	sign         int
	explicitSign bool
	dice         bool
	count        int
	sides        int
	keepHighest  int
	keepLowest   int
	value        int // signed constant; only meaningful when !dice
}

func malformed(raw, format string, args ...any) error {
	return fmt.Errorf("dice: %s in %q: %w", fmt.Sprintf(format, args...), raw, ErrMalformed)
}

// normalize lower-cases s and removes every whitespace rune.
func normalize(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return unicode.ToLower(r)
	}, s)
}

// tokenize splits a formula on '+' and '-' while keeping each term's sign.
func tokenize(raw string) ([]term, error) {
	s := normalize(raw)
	if s == "" {
		return nil, fmt.Errorf("dice: empty expression: %w", ErrMalformed)
	}

	sign, explicit := 1, false
	if s[0] == '+' || s[0] == '-' {
		sign, explicit = signOf(s[0]), true
		s = s[1:]
	}

	var terms []term
	for {
		idx := strings.IndexAny(s, "+-")
		tok := s
		if idx >= 0 {
			tok = s[:idx]
		}
		t, err := parseTerm(raw, tok, sign)
		if err != nil {
			return nil, err
		}
		t.explicitSign = explicit
		terms = append(terms, t)
		if idx < 0 {
			return terms, nil
		}
		sign, explicit = signOf(s[idx]), true
		s = s[idx+1:]
	}
}

func signOf(c byte) int {
	if c == '-' {
		return -1
	}
	return 1
}

func parseTerm(raw, tok string, sign int) (term, error) {
	if tok == "" {
		return term{}, malformed(raw, "empty term")
	}

	if m := diceTerm.FindStringSubmatch(tok); m != nil {
		count := 1
		if m[1] != "" {
			n, err := strconv.Atoi(m[1])
			if err != nil {
				return term{}, malformed(raw, "invalid die count %q", m[1])
			}
			count = n
		}
		if count < 1 || count > MaxDiceCount {
			return term{}, malformed(raw, "die count %d must be 1-%d", count, MaxDiceCount)
		}
		sides, err := strconv.Atoi(m[2])
		if err != nil || sides < 1 || sides > MaxSides {
			return term{}, malformed(raw, "die sides %q must be 1-%d", m[2], MaxSides)
		}
		t := term{sign: sign, dice: true, count: count, sides: sides}
		if m[3] != "" {
			keep, err := strconv.Atoi(m[4])
			if err != nil || keep < 1 || keep > count {
				return term{}, malformed(raw, "%s value %q must be 1-%d", m[3], m[4], count)
			}
			if m[3] == "kh" {
				t.keepHighest = keep
			} else {
				t.keepLowest = keep
			}
		}
		return t, nil
	}

	if integerTerm.MatchString(tok) {
		v, err := strconv.Atoi(tok)
		if err != nil {
			return term{}, malformed(raw, "constant %q out of range", tok)
		}
		return term{sign: sign, value: sign * v}, nil
	}

	return term{}, malformed(raw, "unparseable term %q", tok)
}

// ParseComplex parses a signed sum of dice groups and integer constants.
// Supported forms include "d20", "4d6kh3", "2d20kl1+5", "1d8+1d4-2" and "-1d6+10".
// Whitespace and case are ignored.
//
// Postcondition: Returns a Formula with at least one group or a nonzero
// modifier, or an error wrapping ErrMalformed.
func ParseComplex(expr string) (Formula, error) {
	terms, err := tokenize(expr)
	if err != nil {
		return Formula{}, err
	}
	f := Formula{Raw: expr}
	for _, t := range terms {
		if !t.dice {
			f.Modifier += t.value
			continue
		}
		f.Groups = append(f.Groups, Group{
			Count:       t.sign * t.count,
			Sides:       t.sides,
			KeepHighest: t.keepHighest,
			KeepLowest:  t.keepLowest,
		})
	}
	if len(f.Groups) == 0 && f.Modifier == 0 {
		return Formula{}, malformed(expr, "nothing to roll")
	}
	return f, nil
}

// ParseSimple parses the strict "NdX±M" form used by fixed damage-dice
// fields: one group of a standard die, no keep qualifier, at most one
// constant. Inputs the complex grammar accepts, such as "1d8+1d4" or "4d6kh3",
// are rejected here.
//
// Postcondition: Returns a SimpleFormula satisfying its invariant, or an
// error wrapping ErrMalformed.
func ParseSimple(expr string) (SimpleFormula, error) {
	terms, err := tokenize(expr)
	if err != nil {
		return SimpleFormula{}, err
	}
	if len(terms) > 2 {
		return SimpleFormula{}, malformed(expr, "expected a single NdX±M term")
	}
	first := terms[0]
	if !first.dice || first.explicitSign || first.keepHighest > 0 || first.keepLowest > 0 {
		return SimpleFormula{}, malformed(expr, "expected a single NdX±M term")
	}
	modifier := 0
	if len(terms) == 2 {
		if terms[1].dice {
			return SimpleFormula{}, malformed(expr, "expected a single NdX±M term")
		}
		modifier = terms[1].value
	}
	die := DieType(first.sides)
	if !die.Valid() {
		return SimpleFormula{}, malformed(expr, "unsupported die d%d", first.sides)
	}
	return SimpleFormula{
		Raw:      expr,
		Count:    first.count,
		Die:      die,
		Modifier: modifier,
	}, nil
}

// MustParse parses expr with ParseComplex and panics on error. Useful for
// package-level formulas.
//
// Precondition: expr must be a valid dice formula.
func MustParse(expr string) Formula {
	f, err := ParseComplex(expr)
	if err != nil {
		panic("dice: MustParse failed for expression " + expr + ": " + err.Error())
	}
	return f
}
