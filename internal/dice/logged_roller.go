package dice

import (
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Roller wraps an Engine and a logger. Every roll is assigned an ID and logged
// at debug level with its expression, dice, modifier, and total.
type Roller struct {
	engine *Engine
	logger *zap.Logger
}

// NewLoggedRoller creates a Roller that rolls with engine and logs each roll to logger.
//
// Precondition: engine and logger must be non-nil.
func NewLoggedRoller(engine *Engine, logger *zap.Logger) *Roller {
	if engine == nil {
		panic("dice: NewLoggedRoller called with nil Engine")
	}
	if logger == nil {
		panic("dice: NewLoggedRoller called with nil logger")
	}
	return &Roller{engine: engine, logger: logger}
}

// Engine returns the underlying Engine.
func (r *Roller) Engine() *Engine { return r.engine }

// Evaluate parses and executes a complex formula, logging the result.
//
// Postcondition: result.ID is non-empty on success; parse failures are logged
// and returned unchanged.
func (r *Roller) Evaluate(expr string, mode AdvantageMode, extraModifier int) (RollResult, error) {
	result, err := r.engine.Evaluate(expr, mode, extraModifier)
	if err != nil {
		r.logger.Debug("dice expression rejected", zap.String("expression", expr), zap.Error(err))
		return RollResult{}, err
	}
	return r.record(result, zap.Stringer("mode", mode)), nil
}

// EvaluateSimple parses and rolls a simple "NdX±M" formula, logging the result.
func (r *Roller) EvaluateSimple(expr string) (RollResult, error) {
	result, err := r.engine.EvaluateSimple(expr)
	if err != nil {
		r.logger.Debug("dice expression rejected", zap.String("expression", expr), zap.Error(err))
		return RollResult{}, err
	}
	return r.record(result), nil
}

// RollAdvantage rolls a standalone advantage or disadvantage d20. Normal
// rolls a single d20 through RollD20; AllRolls[1] is then zero.
func (r *Roller) RollAdvantage(mode AdvantageMode, modifier int) AdvantageRoll {
	var ar AdvantageRoll
	switch mode {
	case Advantage:
		ar = r.engine.RollWithAdvantage(modifier)
	case Disadvantage:
		ar = r.engine.RollWithDisadvantage(modifier)
	default:
		res := r.engine.RollD20(modifier)
		ar = AdvantageRoll{RollResult: res, Mode: Normal, AllRolls: [2]int{res.Rolls[0].Value, 0}, ChosenRoll: res.Rolls[0].Value}
	}
	ar.RollResult = r.record(ar.RollResult, zap.Int("chosen", ar.ChosenRoll))
	return ar
}

// RollAttack rolls an attack and logs the to-hit and damage values.
func (r *Roller) RollAttack(attackModifier int, damageDice string, damageModifier int, damageType string, rollDamage bool) AttackRoll {
	res := r.engine.RollAttack(attackModifier, damageDice, damageModifier, damageType, rollDamage)
	fields := []zap.Field{
		zap.String("roll_id", uuid.NewString()),
		zap.Int("d20", res.D20Roll),
		zap.Int("attack_modifier", res.AttackModifier),
		zap.Int("attack_total", res.AttackTotal),
		zap.Bool("critical", res.IsCritical),
		zap.Bool("fumble", res.IsFumble),
	}
	if res.Damage != nil {
		fields = append(fields,
			zap.String("damage_dice", damageDice),
			zap.Ints("damage_rolls", res.Damage.Rolls),
			zap.Int("damage_total", res.Damage.Total),
			zap.String("damage_type", res.Damage.DamageType),
		)
	}
	r.logger.Debug("attack roll", fields...)
	return res
}

// RollDeathSave rolls and logs a death saving throw.
func (r *Roller) RollDeathSave() DeathSave {
	res := r.engine.RollDeathSave()
	r.logger.Debug("death save",
		zap.String("roll_id", uuid.NewString()),
		zap.Int("roll", res.Roll),
		zap.Bool("success", res.IsSuccess),
		zap.Bool("critical", res.IsCritical),
		zap.Bool("fumble", res.IsFumble),
	)
	return res
}

// RollAbilityScore rolls and logs one 4d6 drop-lowest ability score.
func (r *Roller) RollAbilityScore() AbilityRoll {
	res := r.engine.RollAbilityScore()
	r.logger.Debug("ability score",
		zap.String("roll_id", uuid.NewString()),
		zap.Ints("rolls", res.AllRolls[:]),
		zap.Int("discarded", res.Discarded),
		zap.Int("total", res.Total),
	)
	return res
}

// RollAbilityScoreSet rolls and logs six ability scores.
func (r *Roller) RollAbilityScoreSet() [6]AbilityRoll {
	set := r.engine.RollAbilityScoreSet()
	totals := make([]int, len(set))
	for i, a := range set {
		totals[i] = a.Total
	}
	r.logger.Debug("ability scores",
		zap.String("roll_id", uuid.NewString()),
		zap.Ints("totals", totals),
	)
	return set
}

// RollHitDie rolls and logs a hit die.
func (r *Roller) RollHitDie(die DieType, conModifier int) HitDieRoll {
	res := r.engine.RollHitDie(die, conModifier)
	r.logger.Debug("hit die",
		zap.String("roll_id", uuid.NewString()),
		zap.Stringer("die", die),
		zap.Int("roll", res.Roll),
		zap.Int("modifier", res.Modifier),
		zap.Int("total", res.Total),
	)
	return res
}

func (r *Roller) record(result RollResult, extra ...zap.Field) RollResult {
	result.ID = uuid.NewString()
	fields := append([]zap.Field{
		zap.String("roll_id", result.ID),
		zap.String("expression", result.Expression),
		zap.Ints("dice", result.Values()),
		zap.Ints("kept", result.Kept()),
		zap.Int("modifier", result.Modifier),
		zap.Int("total", result.Total),
		zap.Bool("critical", result.IsCritical),
		zap.Bool("fumble", result.IsFumble),
	}, extra...)
	r.logger.Debug("dice roll", fields...)
	return result
}
