package dice

import "sort"

// AbilityRoll is the result of a 4d6 drop-lowest ability score roll.
type AbilityRoll struct {
	AllRolls  [4]int // in roll order
	Discarded int    // the single lowest value
	Kept      [3]int // ascending
	Total     int
}

// AdvantageRoll is a standalone two-d20 roll with its chosen die.
type AdvantageRoll struct {
	RollResult
	Mode       AdvantageMode
	AllRolls   [2]int
	ChosenRoll int
}

// DamageRoll is the damage half of an AttackRoll.
type DamageRoll struct {
	Rolls      []int
	Modifier   int
	Total      int
	DamageType string
}

// AttackRoll is a to-hit d20 with optional damage.
type AttackRoll struct {
	D20Roll        int
	AttackModifier int
	AttackTotal    int
	IsCritical     bool
	IsFumble       bool
	// Damage is nil when damage was not requested or the damage dice did not parse.
	Damage *DamageRoll
}

// DeathSave is a death saving throw. A fumble counts as two failures and a
// critical restores 1 HP; that bookkeeping belongs to the caller.
type DeathSave struct {
	Roll       int
	IsSuccess  bool
	IsFumble   bool
	IsCritical bool
}

// HitDieRoll is hit points recovered by spending one hit die.
type HitDieRoll struct {
	Roll     int
	Modifier int
	Total    int
}

// Roll rolls count dice of one type and adds modifier. Total is clamped to
// zero; crit and fumble are detected only for a single d20.
//
// Precondition: count >= 1.
// Postcondition: Total == max(0, Subtotal+modifier).
func (e *Engine) Roll(count int, die DieType, modifier int) RollResult {
	rolls := make([]DieRoll, count)
	subtotal := 0
	for i := range rolls {
		v := e.RollDie(die.Sides())
		rolls[i] = DieRoll{Sides: die.Sides(), Value: v}
		subtotal += v
	}
	single := count == 1 && die == D20
	return RollResult{
		Expression: SimpleFormula{Count: count, Die: die, Modifier: modifier}.String(),
		Rolls:      rolls,
		Modifier:   modifier,
		Subtotal:   subtotal,
		Total:      max(0, subtotal+modifier),
		IsCritical: single && rolls[0].Value == 20,
		IsFumble:   single && rolls[0].Value == 1,
		Timestamp:  e.timestamp(),
	}
}

// EvaluateSimple parses expr with ParseSimple and rolls it through Roll, so
// the total is clamped to zero.
//
// Postcondition: Returns a RollResult or an error wrapping ErrMalformed.
func (e *Engine) EvaluateSimple(expr string) (RollResult, error) {
	s, err := ParseSimple(expr)
	if err != nil {
		return RollResult{}, err
	}
	return e.Roll(s.Count, s.Die, s.Modifier), nil
}

// RollD20 rolls a single d20 plus modifier.
func (e *Engine) RollD20(modifier int) RollResult {
	return e.Roll(1, D20, modifier)
}

// RollInitiative rolls d20 + DEX modifier + any extra initiative bonus.
func (e *Engine) RollInitiative(dexModifier, bonus int) RollResult {
	return e.RollD20(dexModifier + bonus)
}

// RollAbilityScore rolls 4d6 and drops the lowest die. When several dice tie
// for lowest only one of them is dropped.
//
// Postcondition: 3 <= Total <= 18.
func (e *Engine) RollAbilityScore() AbilityRoll {
	var r AbilityRoll
	for i := range r.AllRolls {
		r.AllRolls[i] = e.RollDie(6)
	}
	sorted := append([]int(nil), r.AllRolls[:]...)
	sort.Ints(sorted)
	r.Discarded = sorted[0]
	copy(r.Kept[:], sorted[1:])
	for _, v := range r.Kept {
		r.Total += v
	}
	return r
}

// RollAbilityScoreSet rolls six independent ability scores.
func (e *Engine) RollAbilityScoreSet() [6]AbilityRoll {
	var set [6]AbilityRoll
	for i := range set {
		set[i] = e.RollAbilityScore()
	}
	return set
}

// RollWithAdvantage rolls two d20 and keeps the higher.
//
// Postcondition: Total == max(0, ChosenRoll+modifier).
func (e *Engine) RollWithAdvantage(modifier int) AdvantageRoll {
	return e.rollTwoD20(Advantage, modifier)
}

// RollWithDisadvantage rolls two d20 and keeps the lower.
//
// Postcondition: Total == max(0, ChosenRoll+modifier).
func (e *Engine) RollWithDisadvantage(modifier int) AdvantageRoll {
	return e.rollTwoD20(Disadvantage, modifier)
}

func (e *Engine) rollTwoD20(mode AdvantageMode, modifier int) AdvantageRoll {
	a, b := e.RollDie(20), e.RollDie(20)
	first, second := DieRoll{Sides: 20, Value: a}, DieRoll{Sides: 20, Value: b}

	chosen := a
	keep := "kh1"
	if mode == Advantage {
		if b > a {
			chosen = b
		}
	} else {
		keep = "kl1"
		if b < a {
			chosen = b
		}
	}
	if chosen == a {
		second.Discarded = true
	} else {
		first.Discarded = true
	}

	expression := "2d20" + keep
	if modifier != 0 {
		expression += FormatModifier(modifier)
	}
	return AdvantageRoll{
		RollResult: RollResult{
			Expression: expression + " (" + mode.String() + ")",
			Rolls:      []DieRoll{first, second},
			Modifier:   modifier,
			Subtotal:   chosen,
			Total:      max(0, chosen+modifier),
			IsCritical: chosen == 20,
			IsFumble:   chosen == 1,
			Timestamp:  e.timestamp(),
		},
		Mode:       mode,
		AllRolls:   [2]int{a, b},
		ChosenRoll: chosen,
	}
}

// RollAttack rolls a to-hit d20 and, when rollDamage is set and damageDice is
// a valid simple formula, the damage. A natural 20 doubles the number of
// damage dice but not the modifier. The modifier written in damageDice is
// ignored; damageModifier is the damage modifier.
//
// Postcondition: AttackTotal == D20Roll+attackModifier (unclamped);
// Damage.Total >= 0 when Damage is non-nil.
func (e *Engine) RollAttack(attackModifier int, damageDice string, damageModifier int, damageType string, rollDamage bool) AttackRoll {
	d20 := e.RollDie(20)
	r := AttackRoll{
		D20Roll:        d20,
		AttackModifier: attackModifier,
		AttackTotal:    d20 + attackModifier,
		IsCritical:     d20 == 20,
		IsFumble:       d20 == 1,
	}
	if !rollDamage {
		return r
	}
	parsed, err := ParseSimple(damageDice)
	if err != nil {
		return r
	}
	count := parsed.Count
	if r.IsCritical {
		count *= 2
	}
	rolls := e.RollDice(count, parsed.Die.Sides())
	sum := damageModifier
	for _, v := range rolls {
		sum += v
	}
	r.Damage = &DamageRoll{
		Rolls:      rolls,
		Modifier:   damageModifier,
		Total:      max(0, sum),
		DamageType: damageType,
	}
	return r
}

// RollDeathSave rolls a death saving throw: success on 10 or higher.
func (e *Engine) RollDeathSave() DeathSave {
	v := e.RollDie(20)
	return DeathSave{
		Roll:       v,
		IsSuccess:  v >= 10,
		IsFumble:   v == 1,
		IsCritical: v == 20,
	}
}

// RollHitDie rolls one hit die and adds the CON modifier.
//
// Precondition: die.Sides() > 0.
// Postcondition: Total == max(0, Roll+conModifier).
func (e *Engine) RollHitDie(die DieType, conModifier int) HitDieRoll {
	v := e.RollDie(die.Sides())
	return HitDieRoll{
		Roll:     v,
		Modifier: conModifier,
		Total:    max(0, v+conModifier),
	}
}
