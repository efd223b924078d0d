package rollservice

import (
	"fmt"
	"math"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/cory-johannsen/rollkit/internal/dice"
)

// Request field names.
const (
	FieldFormula        = "formula"
	FieldMode           = "mode"
	FieldModifier       = "modifier"
	FieldDamageDice     = "damage_dice"
	FieldDamageModifier = "damage_modifier"
	FieldDamageType     = "damage_type"
	FieldRollDamage     = "roll_damage"
	FieldDie            = "die"
	FieldPreset         = "preset"
)

func stringField(s *structpb.Struct, key string) string {
	return s.GetFields()[key].GetStringValue()
}

// intField reads an integral number field. A missing field is zero.
func intField(s *structpb.Struct, key string) (int, error) {
	v, ok := s.GetFields()[key]
	if !ok {
		return 0, nil
	}
	n, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return 0, fmt.Errorf("field %q must be a number", key)
	}
	if n.NumberValue != math.Trunc(n.NumberValue) || math.Abs(n.NumberValue) > math.MaxInt32 {
		return 0, fmt.Errorf("field %q must be an integer, got %v", key, n.NumberValue)
	}
	return int(n.NumberValue), nil
}

// boolField reads a boolean field, returning def when it is absent.
func boolField(s *structpb.Struct, key string, def bool) bool {
	v, ok := s.GetFields()[key]
	if !ok {
		return def
	}
	return v.GetBoolValue()
}

func ints(values []int) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

func rollFields(r dice.RollResult) map[string]any {
	rolls := make([]any, len(r.Rolls))
	for i, d := range r.Rolls {
		rolls[i] = map[string]any{
			"sides":     d.Sides,
			"value":     d.Value,
			"discarded": d.Discarded,
		}
	}
	return map[string]any{
		"id":         r.ID,
		"expression": r.Expression,
		"rolls":      rolls,
		"modifier":   r.Modifier,
		"subtotal":   r.Subtotal,
		"total":      r.Total,
		"critical":   r.IsCritical,
		"fumble":     r.IsFumble,
		"timestamp":  r.Timestamp,
		"text":       r.String(),
	}
}

// EncodeRoll converts a RollResult into its wire form.
func EncodeRoll(r dice.RollResult) (*structpb.Struct, error) {
	return structpb.NewStruct(rollFields(r))
}

// fieldReader reads integer fields, keeping the first error.
type fieldReader struct {
	err error
}

func (f *fieldReader) int(s *structpb.Struct, key string) int {
	if f.err != nil {
		return 0
	}
	n, err := intField(s, key)
	f.err = err
	return n
}

// DecodeRoll converts the wire form produced by EncodeRoll back into a
// RollResult.
func DecodeRoll(s *structpb.Struct) (dice.RollResult, error) {
	var f fieldReader
	r := dice.RollResult{
		ID:         stringField(s, "id"),
		Expression: stringField(s, "expression"),
		Modifier:   f.int(s, "modifier"),
		Subtotal:   f.int(s, "subtotal"),
		Total:      f.int(s, "total"),
		IsCritical: boolField(s, "critical", false),
		IsFumble:   boolField(s, "fumble", false),
		Timestamp:  stringField(s, "timestamp"),
	}
	for _, v := range s.GetFields()["rolls"].GetListValue().GetValues() {
		d := v.GetStructValue()
		r.Rolls = append(r.Rolls, dice.DieRoll{
			Sides:     f.int(d, "sides"),
			Value:     f.int(d, "value"),
			Discarded: boolField(d, "discarded", false),
		})
	}
	if f.err != nil {
		return dice.RollResult{}, fmt.Errorf("decoding roll: %w", f.err)
	}
	return r, nil
}
