package dice_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/rollkit/internal/dice"
)

func values(rolls []dice.DieRoll) []int {
	out := make([]int, len(rolls))
	for i, r := range rolls {
		out[i] = r.Value
	}
	return out
}

func discarded(rolls []dice.DieRoll) []bool {
	out := make([]bool, len(rolls))
	for i, r := range rolls {
		out[i] = r.Discarded
	}
	return out
}

func TestExecute_LoneD20_Advantage(t *testing.T) {
	e, src := newTestEngine(faces(20, 7, 15)...)
	ev := e.Execute(dice.MustParse("1d20"), dice.Advantage, 0)
	assert.Equal(t, []int{7, 15}, values(ev.Rolls))
	assert.Equal(t, []bool{true, false}, discarded(ev.Rolls))
	assert.Equal(t, 15, ev.Subtotal)
	assert.Equal(t, 15, ev.Total)
	assert.Equal(t, 2, src.calls)
}

func TestExecute_LoneD20_Disadvantage(t *testing.T) {
	e, _ := newTestEngine(faces(20, 7, 15)...)
	ev := e.Execute(dice.MustParse("1d20+2"), dice.Disadvantage, 1)
	assert.Equal(t, []bool{false, true}, discarded(ev.Rolls))
	assert.Equal(t, 7, ev.Subtotal)
	assert.Equal(t, 10, ev.Total)
}

func TestExecute_LoneD20_TieKeepsFirstDie(t *testing.T) {
	for _, mode := range []dice.AdvantageMode{dice.Advantage, dice.Disadvantage} {
		e, _ := newTestEngine(faces(20, 12, 12)...)
		ev := e.Execute(dice.MustParse("d20"), mode, 0)
		assert.Equal(t, []bool{false, true}, discarded(ev.Rolls), "mode=%s", mode)
		assert.Equal(t, 12, ev.Subtotal)
	}
}

func TestExecute_LoneD20_CriticalInEveryMode(t *testing.T) {
	for _, mode := range []dice.AdvantageMode{dice.Normal, dice.Advantage, dice.Disadvantage} {
		e, _ := newTestEngine(face(20, 20))
		ev := e.Execute(dice.MustParse("1d20+5"), mode, 0)
		assert.True(t, ev.IsCritical, "mode=%s", mode)
		assert.False(t, ev.IsFumble, "mode=%s", mode)
		assert.Equal(t, 25, ev.Total)
	}
}

func TestExecute_LoneD20_FumbleUnderAdvantage(t *testing.T) {
	e, _ := newTestEngine(faces(20, 1, 1)...)
	ev := e.Execute(dice.MustParse("1d20"), dice.Advantage, 0)
	assert.True(t, ev.IsFumble)
	assert.False(t, ev.IsCritical)
}

func TestExecute_NegativeLoneD20_CritIgnoresSign(t *testing.T) {
	e, _ := newTestEngine(faces(20, 20, 3)...)
	ev := e.Execute(dice.MustParse("-1d20"), dice.Advantage, 0)
	assert.Equal(t, -20, ev.Subtotal)
	assert.True(t, ev.IsCritical)
}

func TestExecute_NoCritOutsideLoneD20Shape(t *testing.T) {
	for _, expr := range []string{"2d20", "1d20kh1", "1d20+1d4", "2d20kh1"} {
		e, _ := newTestEngine(face(20, 20))
		ev := e.Execute(dice.MustParse(expr), dice.Normal, 0)
		assert.False(t, ev.IsCritical, "expr=%q", expr)
		assert.False(t, ev.IsFumble, "expr=%q", expr)
	}
}

func TestExecute_AdvantageIgnoredForOtherShapes(t *testing.T) {
	e, src := newTestEngine(faces(6, 3, 4)...)
	ev := e.Execute(dice.MustParse("2d6"), dice.Advantage, 0)
	assert.Equal(t, 2, src.calls)
	assert.Equal(t, 7, ev.Total)
	assert.Equal(t, []bool{false, false}, discarded(ev.Rolls))
}

func TestExecute_KeepHighest(t *testing.T) {
	e, _ := newTestEngine(faces(6, 2, 5, 6, 3)...)
	ev := e.Execute(dice.MustParse("4d6kh3"), dice.Normal, 0)
	assert.Equal(t, []int{2, 5, 6, 3}, values(ev.Rolls))
	assert.Equal(t, []bool{true, false, false, false}, discarded(ev.Rolls))
	assert.Equal(t, 14, ev.Subtotal)
}

func TestExecute_KeepLowest(t *testing.T) {
	e, _ := newTestEngine(faces(20, 17, 4)...)
	ev := e.Execute(dice.MustParse("2d20kl1+3"), dice.Normal, 0)
	assert.Equal(t, []bool{true, false}, discarded(ev.Rolls))
	assert.Equal(t, 4, ev.Subtotal)
	assert.Equal(t, 7, ev.Total)
}

// TestExecute_KeepIsStableOnTies pins the tie-break: dice are ordered highest
// first with equal values in roll order; kh takes the front of that order and
// kl takes the back.
func TestExecute_KeepIsStableOnTies(t *testing.T) {
	tests := []struct {
		expr      string
		faces     []int
		discarded []bool
	}{
		{"3d6kh2", []int{4, 4, 4}, []bool{false, false, true}},
		{"3d6kl2", []int{4, 4, 4}, []bool{true, false, false}},
		{"4d6kl1", []int{3, 1, 1, 5}, []bool{true, true, false, true}},
		{"4d6kh1", []int{6, 2, 6, 1}, []bool{false, true, true, true}},
		{"5d6kh3", []int{5, 3, 5, 3, 1}, []bool{false, false, false, true, true}},
	}
	for _, tc := range tests {
		e, _ := newTestEngine(faces(6, tc.faces...)...)
		ev := e.Execute(dice.MustParse(tc.expr), dice.Normal, 0)
		assert.Equal(t, tc.discarded, discarded(ev.Rolls), "expr=%q", tc.expr)
	}
}

func TestExecute_SignedGroups(t *testing.T) {
	e, _ := newTestEngine(face(5, 8), face(3, 4))
	ev := e.Execute(dice.MustParse("1d8-1d4"), dice.Normal, 0)
	assert.Equal(t, []int{5, 3}, values(ev.Rolls))
	assert.Equal(t, 2, ev.Subtotal)
}

func TestExecute_NegativeKeptGroup(t *testing.T) {
	e, _ := newTestEngine(faces(6, 2, 6, 4)...)
	ev := e.Execute(dice.MustParse("10-3d6kh2"), dice.Normal, 0)
	assert.Equal(t, -10, ev.Subtotal)
	assert.Equal(t, 0, ev.Total)
}

func TestExecute_TotalIsNotClamped(t *testing.T) {
	e, _ := newTestEngine(face(1, 4))
	ev := e.Execute(dice.MustParse("1d4-10"), dice.Normal, -5)
	assert.Equal(t, 1, ev.Subtotal)
	assert.Equal(t, -14, ev.Total)
}

func TestExecute_PureConstantRollsNothing(t *testing.T) {
	e, src := newTestEngine(0.5)
	ev := e.Execute(dice.MustParse("5"), dice.Advantage, 2)
	assert.Empty(t, ev.Rolls)
	assert.Equal(t, 0, src.calls)
	assert.Equal(t, 7, ev.Total)
}

func TestEvaluate_BuildsRollResult(t *testing.T) {
	e, _ := newTestEngine(faces(20, 7, 15)...)
	r, err := e.Evaluate("1d20 + 4", dice.Advantage, 1)
	require.NoError(t, err)
	assert.Equal(t, "1d20+4+1 (advantage)", r.Expression)
	assert.Equal(t, 5, r.Modifier)
	assert.Equal(t, 15, r.Subtotal)
	assert.Equal(t, 20, r.Total)
	assert.Equal(t, "2025-01-01T00:00:00.000Z", r.Timestamp)
	assert.Equal(t, []int{15}, r.Kept())
	assert.Equal(t, []int{7, 15}, r.Values())
	assert.Empty(t, r.ID)
}

func TestEvaluate_Malformed(t *testing.T) {
	e, src := newTestEngine(0.5)
	_, err := e.Evaluate("4d6kh5", dice.Normal, 0)
	assert.ErrorIs(t, err, dice.ErrMalformed)
	assert.Equal(t, 0, src.calls)
}

func TestParseAdvantageMode(t *testing.T) {
	tests := map[string]dice.AdvantageMode{
		"":             dice.Normal,
		"normal":       dice.Normal,
		"Advantage":    dice.Advantage,
		"adv":          dice.Advantage,
		"ventaja":      dice.Advantage,
		"disadvantage": dice.Disadvantage,
		"dis":          dice.Disadvantage,
		"desventaja":   dice.Disadvantage,
	}
	for in, want := range tests {
		got, err := dice.ParseAdvantageMode(in)
		require.NoError(t, err, "input=%q", in)
		assert.Equal(t, want, got, "input=%q", in)
	}
	_, err := dice.ParseAdvantageMode("lucky")
	assert.Error(t, err)
}

// TestProperty_ExecuteInvariants checks the evaluator against a generated
// formula: every die is rolled and in range, kept counts match the keep
// qualifier, and Total is the unclamped signed sum.
func TestProperty_ExecuteInvariants(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(1, 3).Draw(rt, "groups")
		f := dice.Formula{Modifier: rapid.IntRange(-30, 30).Draw(rt, "modifier")}
		for i := 0; i < n; i++ {
			g := genGroup(rt, "g")
			g.Sides = rapid.IntRange(1, 30).Draw(rt, "sides")
			f.Groups = append(f.Groups, g)
		}
		extra := rapid.IntRange(-30, 30).Draw(rt, "extra")
		seed := rapid.Uint64().Draw(rt, "seed")
		e := dice.NewEngine(dice.NewSeededSource(seed), dice.FixedClock(testTime))

		ev := e.Execute(f, dice.Normal, extra)

		subtotal, offset := 0, 0
		for _, g := range f.Groups {
			rolls := ev.Rolls[offset : offset+g.Dice()]
			offset += g.Dice()
			kept, sum := 0, 0
			for _, r := range rolls {
				assert.Equal(rt, g.Sides, r.Sides)
				assert.GreaterOrEqual(rt, r.Value, 1)
				assert.LessOrEqual(rt, r.Value, g.Sides)
				if !r.Discarded {
					kept++
					sum += r.Value
				}
			}
			switch {
			case g.KeepHighest > 0:
				assert.Equal(rt, g.KeepHighest, kept)
			case g.KeepLowest > 0:
				assert.Equal(rt, g.KeepLowest, kept)
			default:
				assert.Equal(rt, g.Dice(), kept)
			}
			subtotal += g.Sign() * sum
		}
		assert.Equal(rt, offset, len(ev.Rolls))
		assert.Equal(rt, subtotal, ev.Subtotal)
		assert.Equal(rt, ev.Subtotal+f.Modifier+extra, ev.Total)
	})
}
