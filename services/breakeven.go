package services

// BreakEvenResult reports the revenue threshold at which a year stops losing
// money and the safety margin above it.
type BreakEvenResult struct {
	// Threshold is the minimum gross revenue covering all charges.
	Threshold float64
	// SafetyMargin is how far current revenue sits above the threshold,
	// as a fraction of revenue. Floored at zero.
	SafetyMargin float64
}

// BreakEven computes the break-even point for a year with the given gross
// revenue, fixed charges and variable charges. Variable charges are assumed
// proportional to revenue, so the threshold is fixed / (1 - variable/revenue).
// The second return value is false when the break-even point is undefined:
// no revenue, or a contribution margin too thin to ever cover fixed charges.
func BreakEven(revenue, fixedCharges, variableCharges float64) (BreakEvenResult, bool) {
	if revenue <= 0 {
		return BreakEvenResult{}, false
	}
	contributionMargin := 1 - variableCharges/revenue
	if contributionMargin <= 0.01 {
		return BreakEvenResult{}, false
	}

	threshold := fixedCharges / contributionMargin
	margin := (revenue - threshold) / revenue
	if margin < 0 {
		margin = 0
	}
	return BreakEvenResult{Threshold: threshold, SafetyMargin: margin}, true
}
