// Package services implements the pricing, quote aggregation and multi-year
// financial projection engine for the estimation calculator. Everything in
// this package is pure in-memory computation: functions take their inputs
// explicitly and return derived values without touching global state.
package services

// ComplexityLevel is one discrete pricing tier: a display name mapped to a
// normalized severity in [0, 1].
type ComplexityLevel struct {
	Name     string
	Severity float64
}

// ComplexityScale is an ordered list of pricing tiers. A valid scale contains
// at least one entry at severity 0.0 (cheapest) and one at 1.0 (most
// expensive).
type ComplexityScale []ComplexityLevel

// DefaultComplexityScale mirrors the five historical pricing tiers.
var DefaultComplexityScale = ComplexityScale{
	{Name: "Basic", Severity: 0.0},
	{Name: "Standard", Severity: 0.25},
	{Name: "Intermediate", Severity: 0.5},
	{Name: "Advanced", Severity: 0.75},
	{Name: "Expert", Severity: 1.0},
}

// Severity returns the normalized severity for a level name. Unknown levels
// fall back to the scale's median entry, so quotes saved against legacy or
// renamed tiers keep pricing at mid-range instead of failing.
func (s ComplexityScale) Severity(level string) float64 {
	for _, l := range s {
		if l.Name == level {
			return l.Severity
		}
	}
	return s[len(s)/2].Severity
}

// PriceForComplexity interpolates a unit price between the service's price
// bounds at the severity of the given complexity level.
func PriceForComplexity(def ServiceDefinition, scale ComplexityScale, level string) float64 {
	return def.PriceMin + (def.PriceMax-def.PriceMin)*scale.Severity(level)
}

// PriceForFactors interpolates a unit price from the normalized, unweighted
// mean of the service's variation factors. A factor missing from values takes
// its own default; supplied values are clamped to the factor bounds so the
// result always stays within [PriceMin, PriceMax]. A service with no factors
// prices at the neutral midpoint.
func PriceForFactors(def ServiceDefinition, values map[string]float64) float64 {
	if len(def.Factors) == 0 {
		return def.PriceMin + (def.PriceMax-def.PriceMin)*0.5
	}

	var sum float64
	for _, f := range def.Factors {
		v, ok := values[f.Name]
		if !ok {
			v = f.Default
		}
		v = clamp(v, f.ImpactMin, f.ImpactMax)
		sum += (v - f.ImpactMin) / (f.ImpactMax - f.ImpactMin)
	}
	mean := sum / float64(len(def.Factors))

	return def.PriceMin + (def.PriceMax-def.PriceMin)*mean
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
