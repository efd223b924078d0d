// Package preset holds named roll presets, such as a character's weapon
// attacks or a spell's damage, loaded from YAML.
package preset

import (
	"errors"
	"fmt"
	"sort"

	"github.com/cory-johannsen/rollkit/internal/dice"
)

// ErrNotFound is returned when no preset has the requested ID.
var ErrNotFound = errors.New("preset: not found")

// Preset is a named complex formula with a default mode and modifier.
//
// Precondition: ID and Formula must be non-empty after loading.
type Preset struct {
	ID         string `yaml:"id"`
	Name       string `yaml:"name"`
	Formula    string `yaml:"formula"`
	Mode       string `yaml:"mode"`
	Modifier   int    `yaml:"modifier"`
	DamageType string `yaml:"damage_type"`

	parsed dice.Formula
	mode   dice.AdvantageMode
}

// Validate parses Formula and Mode, caching the results.
//
// Postcondition: Returns nil and caches the parsed formula, or an error
// naming the preset. Formula errors wrap dice.ErrMalformed.
func (p *Preset) Validate() error {
	if p.ID == "" {
		return errors.New("preset: id must not be empty")
	}
	f, err := dice.ParseComplex(p.Formula)
	if err != nil {
		return fmt.Errorf("preset %q: %w", p.ID, err)
	}
	mode, err := dice.ParseAdvantageMode(p.Mode)
	if err != nil {
		return fmt.Errorf("preset %q: %w", p.ID, err)
	}
	p.parsed, p.mode = f, mode
	return nil
}

// Parsed returns the formula cached by Validate.
func (p *Preset) Parsed() dice.Formula { return p.parsed }

// AdvantageMode returns the mode cached by Validate.
func (p *Preset) AdvantageMode() dice.AdvantageMode { return p.mode }

// DisplayName returns Name, or ID when Name is empty.
func (p *Preset) DisplayName() string {
	if p.Name == "" {
		return p.ID
	}
	return p.Name
}

// Library is an immutable set of validated presets keyed by ID.
type Library struct {
	presets map[string]*Preset
}

// NewLibrary validates presets and indexes them by ID.
//
// Postcondition: Returns a non-nil Library, or an error for an invalid preset
// or a duplicate ID.
func NewLibrary(presets ...*Preset) (*Library, error) {
	lib := &Library{presets: make(map[string]*Preset, len(presets))}
	for _, p := range presets {
		if p == nil {
			continue
		}
		if err := p.Validate(); err != nil {
			return nil, err
		}
		if _, dup := lib.presets[p.ID]; dup {
			return nil, fmt.Errorf("preset: duplicate id %q", p.ID)
		}
		lib.presets[p.ID] = p
	}
	return lib, nil
}

// Get returns the preset with the given ID.
//
// Postcondition: Returns the preset, or an error wrapping ErrNotFound.
func (l *Library) Get(id string) (*Preset, error) {
	p, ok := l.presets[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return p, nil
}

// All returns every preset ordered by ID.
func (l *Library) All() []*Preset {
	out := make([]*Preset, 0, len(l.presets))
	for _, p := range l.presets {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Len returns the number of presets.
func (l *Library) Len() int { return len(l.presets) }

// Roll evaluates the preset id through roller, adding extraModifier to the
// preset's own modifier.
//
// Postcondition: Returns the logged RollResult, or an error wrapping ErrNotFound.
func (l *Library) Roll(roller *dice.Roller, id string, extraModifier int) (dice.RollResult, error) {
	p, err := l.Get(id)
	if err != nil {
		return dice.RollResult{}, err
	}
	return roller.Evaluate(p.Formula, p.mode, p.Modifier+extraModifier)
}
