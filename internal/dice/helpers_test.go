package dice_test

import (
	"time"

	"github.com/cory-johannsen/rollkit/internal/dice"
)

// seqSource replays a fixed sequence of draws and counts how many were taken.
type seqSource struct {
	draws []float64
	calls int
}

func (s *seqSource) Float64() float64 {
	v := s.draws[s.calls%len(s.draws)]
	s.calls++
	return v
}

// face returns the draw that makes a die of the given size land on value.
func face(value, sides int) float64 {
	return (float64(value) - 0.5) / float64(sides)
}

// faces converts a list of face values on same-sized dice into draws.
func faces(sides int, values ...int) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = face(v, sides)
	}
	return out
}

var testTime = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func newTestEngine(draws ...float64) (*dice.Engine, *seqSource) {
	src := &seqSource{draws: draws}
	return dice.NewEngine(src, dice.FixedClock(testTime)), src
}
