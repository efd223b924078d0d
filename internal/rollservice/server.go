package rollservice

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/cory-johannsen/rollkit/internal/dice"
	"github.com/cory-johannsen/rollkit/internal/preset"
)

// Server implements RollServiceServer on top of a logged dice roller and a
// preset library.
type Server struct {
	roller  *dice.Roller
	presets *preset.Library
	logger  *zap.Logger
}

// NewServer creates a Server.
//
// Precondition: roller, presets and logger must be non-nil.
// Postcondition: Returns a non-nil Server.
func NewServer(roller *dice.Roller, presets *preset.Library, logger *zap.Logger) *Server {
	if roller == nil {
		panic("rollservice: NewServer called with nil roller")
	}
	if presets == nil {
		panic("rollservice: NewServer called with nil preset library")
	}
	if logger == nil {
		panic("rollservice: NewServer called with nil logger")
	}
	return &Server{roller: roller, presets: presets, logger: logger}
}

var _ RollServiceServer = (*Server)(nil)

// toStatus maps domain errors onto gRPC status codes.
func toStatus(err error) error {
	switch {
	case errors.Is(err, dice.ErrMalformed):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, preset.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	}
	return status.Error(codes.Internal, err.Error())
}

func invalid(err error) error {
	return status.Error(codes.InvalidArgument, err.Error())
}

func respond(fields map[string]any) (*structpb.Struct, error) {
	s, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encoding response: %v", err)
	}
	return s, nil
}

func (s *Server) rollResponse(r dice.RollResult) (*structpb.Struct, error) {
	return respond(rollFields(r))
}

// Evaluate rolls a complex formula. Request: formula, mode, modifier.
func (s *Server) Evaluate(_ context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	mode, err := dice.ParseAdvantageMode(stringField(req, FieldMode))
	if err != nil {
		return nil, invalid(err)
	}
	mod, err := intField(req, FieldModifier)
	if err != nil {
		return nil, invalid(err)
	}
	r, err := s.roller.Evaluate(stringField(req, FieldFormula), mode, mod)
	if err != nil {
		return nil, toStatus(err)
	}
	return s.rollResponse(r)
}

// EvaluateSimple rolls a simple "NdX±M" formula. Request: formula.
func (s *Server) EvaluateSimple(_ context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	r, err := s.roller.EvaluateSimple(stringField(req, FieldFormula))
	if err != nil {
		return nil, toStatus(err)
	}
	return s.rollResponse(r)
}

// Parse validates a complex formula and returns its canonical form and groups.
func (s *Server) Parse(_ context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	f, err := dice.ParseComplex(stringField(req, FieldFormula))
	if err != nil {
		return nil, toStatus(err)
	}
	groups := make([]any, len(f.Groups))
	for i, g := range f.Groups {
		groups[i] = map[string]any{
			"count":        g.Count,
			"sides":        g.Sides,
			"keep_highest": g.KeepHighest,
			"keep_lowest":  g.KeepLowest,
		}
	}
	return respond(map[string]any{
		"canonical": f.String(),
		"modifier":  f.Modifier,
		"groups":    groups,
	})
}

// RollAbilityScores rolls a set of six 4d6 drop-lowest scores.
func (s *Server) RollAbilityScores(_ context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	set := s.roller.RollAbilityScoreSet()
	scores := make([]any, len(set))
	for i, a := range set {
		scores[i] = map[string]any{
			"rolls":     ints(a.AllRolls[:]),
			"kept":      ints(a.Kept[:]),
			"discarded": a.Discarded,
			"total":     a.Total,
			"text":      dice.FormatAbilityRoll(a),
		}
	}
	return respond(map[string]any{"scores": scores})
}

// RollAttack rolls a to-hit d20 and optional damage. Request: modifier,
// damage_dice, damage_modifier, damage_type, roll_damage (default true).
func (s *Server) RollAttack(_ context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	mod, err := intField(req, FieldModifier)
	if err != nil {
		return nil, invalid(err)
	}
	dmgMod, err := intField(req, FieldDamageModifier)
	if err != nil {
		return nil, invalid(err)
	}
	r := s.roller.RollAttack(mod, stringField(req, FieldDamageDice), dmgMod,
		stringField(req, FieldDamageType), boolField(req, FieldRollDamage, true))
	fields := map[string]any{
		"d20":      r.D20Roll,
		"modifier": r.AttackModifier,
		"total":    r.AttackTotal,
		"critical": r.IsCritical,
		"fumble":   r.IsFumble,
		"text":     dice.FormatAttackRoll(r),
	}
	if d := r.Damage; d != nil {
		fields["damage"] = map[string]any{
			"rolls":    ints(d.Rolls),
			"modifier": d.Modifier,
			"total":    d.Total,
			"type":     d.DamageType,
		}
	}
	return respond(fields)
}

// RollDeathSave rolls a death saving throw.
func (s *Server) RollDeathSave(_ context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	r := s.roller.RollDeathSave()
	return respond(map[string]any{
		"roll":     r.Roll,
		"success":  r.IsSuccess,
		"critical": r.IsCritical,
		"fumble":   r.IsFumble,
		"text":     dice.FormatDeathSave(r),
	})
}

// RollHitDie spends one hit die. Request: die ("d8" or "8"), modifier.
func (s *Server) RollHitDie(_ context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	die, err := dice.ParseDieType(stringField(req, FieldDie))
	if err != nil {
		return nil, invalid(err)
	}
	mod, err := intField(req, FieldModifier)
	if err != nil {
		return nil, invalid(err)
	}
	r := s.roller.RollHitDie(die, mod)
	return respond(map[string]any{
		"die":      die.String(),
		"roll":     r.Roll,
		"modifier": r.Modifier,
		"total":    r.Total,
	})
}

// RollPreset rolls a named preset. Request: preset, modifier (added to the
// preset's own modifier).
func (s *Server) RollPreset(_ context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	mod, err := intField(req, FieldModifier)
	if err != nil {
		return nil, invalid(err)
	}
	id := stringField(req, FieldPreset)
	r, err := s.presets.Roll(s.roller, id, mod)
	if err != nil {
		return nil, toStatus(err)
	}
	p, _ := s.presets.Get(id)
	fields := rollFields(r)
	fields["preset"] = p.ID
	fields["name"] = p.DisplayName()
	if p.DamageType != "" {
		fields["damage_type"] = p.DamageType
	}
	return respond(fields)
}
