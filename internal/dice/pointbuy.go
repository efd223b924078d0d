package dice

// StandardArray is the fixed alternative to rolling ability scores.
var StandardArray = [6]int{15, 14, 13, 12, 10, 8}

const (
	// PointBuyBudget is the number of points available for point-buy.
	PointBuyBudget = 27
	// PointBuyMin is the lowest score purchasable.
	PointBuyMin = 8
	// PointBuyMax is the highest score purchasable.
	PointBuyMax = 15
)

var pointBuyCosts = map[int]int{
	8: 0, 9: 1, 10: 2, 11: 3, 12: 4, 13: 5, 14: 7, 15: 9,
}

// PointBuyCost returns the cost of a single score, clamping it into
// [PointBuyMin, PointBuyMax] first.
func PointBuyCost(score int) int {
	return pointBuyCosts[min(PointBuyMax, max(PointBuyMin, score))]
}

// PointBuyRemaining returns the points left after buying scores. The result
// is negative when the budget is exceeded.
func PointBuyRemaining(scores []int) int {
	spent := 0
	for _, s := range scores {
		spent += PointBuyCost(s)
	}
	return PointBuyBudget - spent
}

// IsValidPointBuy reports whether scores is a legal point-buy: six scores in
// [PointBuyMin, PointBuyMax] within budget.
func IsValidPointBuy(scores []int) bool {
	if len(scores) != 6 {
		return false
	}
	for _, s := range scores {
		if s < PointBuyMin || s > PointBuyMax {
			return false
		}
	}
	return PointBuyRemaining(scores) >= 0
}

// AbilityModifier computes floor((score - 10) / 2).
func AbilityModifier(score int) int {
	diff := score - 10
	if diff < 0 {
		return (diff - 1) / 2
	}
	return diff / 2
}
