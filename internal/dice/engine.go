package dice

// Engine rolls dice against an explicit Source and Clock. There is no package
// level randomness; independent engines never share state.
type Engine struct {
	src   Source
	clock Clock
}

// NewEngine creates an Engine.
//
// Precondition: src and clock must be non-nil.
// Postcondition: Returns a non-nil Engine.
func NewEngine(src Source, clock Clock) *Engine {
	if src == nil {
		panic("dice: NewEngine called with nil Source")
	}
	if clock == nil {
		panic("dice: NewEngine called with nil Clock")
	}
	return &Engine{src: src, clock: clock}
}

// NewDefaultEngine returns an Engine backed by crypto/rand and the wall clock.
func NewDefaultEngine() *Engine {
	return NewEngine(NewCryptoSource(), NewSystemClock())
}

// RollDie rolls one die of the given size, consuming exactly one draw.
//
// Precondition: sides > 0. Panics with "dice: RollDie called with sides <= 0" otherwise.
// Postcondition: 1 <= result <= sides.
func (e *Engine) RollDie(sides int) int {
	if sides <= 0 {
		panic("dice: RollDie called with sides <= 0")
	}
	v := int(e.src.Float64()*float64(sides)) + 1
	switch {
	case v < 1:
		return 1
	case v > sides:
		return sides
	}
	return v
}

// RollDice rolls count dice of the given size in order.
//
// Precondition: count >= 0; sides > 0.
// Postcondition: len(result) == count.
func (e *Engine) RollDice(count, sides int) []int {
	out := make([]int, count)
	for i := range out {
		out[i] = e.RollDie(sides)
	}
	return out
}

func (e *Engine) timestamp() string {
	return formatTimestamp(e.clock.Now())
}
