package services

import (
	"fmt"
	"math"
)

// ProjectMix is one slice of a scenario's expected yearly business: Count
// projects averaging AverageRevenue each.
type ProjectMix struct {
	Label          string
	Count          int
	AverageRevenue float64
}

// Scenario is a named business hypothesis: growth assumptions, a revenue
// target and the mix of projects expected to reach it. Applying a scenario
// replaces hand-built quotes with synthesized ones matching the mix.
type Scenario struct {
	Name                string
	Description         string
	GrowthRate          float64
	ChargeInflation     float64
	TargetRevenue       float64
	InitialFixedCharges map[string]float64
	Mix                 []ProjectMix
}

// Policy converts the scenario's growth assumptions into a projection policy.
func (s Scenario) Policy() ProjectionPolicy {
	return ProjectionPolicy{
		GrowthRate:      s.GrowthRate,
		ChargeInflation: s.ChargeInflation,
	}
}

// Synthesize builds one quote per mix entry against the given service. Each
// line is priced at the complexity level closest to the mix's average project
// revenue, with quantity chosen so the line total approximates
// Count * AverageRevenue.
func (s Scenario) Synthesize(def ServiceDefinition, scale ComplexityScale) ([]*Quote, error) {
	quotes := make([]*Quote, 0, len(s.Mix))
	for _, m := range s.Mix {
		if m.Count < 1 {
			continue
		}
		level := nearestComplexity(def, scale, m.AverageRevenue)
		unit := PriceForComplexity(def, scale, level)

		perProject := 1
		if unit > 0 {
			perProject = int(math.Round(m.AverageRevenue / unit))
			if perProject < 1 {
				perProject = 1
			}
		}

		q := NewQuote(fmt.Sprintf("%s - %s", s.Name, m.Label), "", "")
		if err := q.AddServiceAtComplexity(def, scale, level, m.Count*perProject); err != nil {
			return nil, fmt.Errorf("synthesize %q: %w", m.Label, err)
		}
		quotes = append(quotes, q)
	}
	return quotes, nil
}

// nearestComplexity returns the scale level whose interpolated price is
// closest to the target revenue per project.
func nearestComplexity(def ServiceDefinition, scale ComplexityScale, target float64) string {
	best := ""
	bestDist := math.Inf(1)
	for _, lvl := range scale {
		price := PriceForComplexity(def, scale, lvl.Name)
		if d := math.Abs(price - target); d < bestDist {
			best = lvl.Name
			bestDist = d
		}
	}
	return best
}

// ScaleCharges returns a copy of base scaled so the categories sum to target.
// A base summing to zero cannot be scaled and is returned as a zeroed copy.
func ScaleCharges(base map[string]float64, target float64) map[string]float64 {
	var total float64
	for _, v := range base {
		total += v
	}
	out := make(map[string]float64, len(base))
	if total <= 0 {
		for cat := range base {
			out[cat] = 0
		}
		return out
	}
	factor := target / total
	for cat, v := range base {
		out[cat] = v * factor
	}
	return out
}

// DefaultFixedCharges is the baseline yearly cost structure for a two-founder
// consultancy with no employees.
func DefaultFixedCharges() map[string]float64 {
	return map[string]float64{
		"rent":      3000,
		"software":  1500,
		"travel":    2000,
		"equipment": 1000,
		"admin":     1500,
	}
}

// BuiltinScenarios returns the three stock hypotheses, from cautious to
// aggressive. Mixes are sized so each sums to the scenario's revenue target.
func BuiltinScenarios() []Scenario {
	return []Scenario{
		{
			Name:            "Conservative",
			Description:     "Slow ramp-up, mostly small engagements",
			GrowthRate:      0.08,
			ChargeInflation: 0.02,
			TargetRevenue:   160000,
			InitialFixedCharges: DefaultFixedCharges(),
			Mix: []ProjectMix{
				{Label: "Showcase sites", Count: 10, AverageRevenue: 4000},
				{Label: "Business tools", Count: 5, AverageRevenue: 12000},
				{Label: "Automation projects", Count: 4, AverageRevenue: 15000},
			},
		},
		{
			Name:            "Balanced",
			Description:     "Steady pipeline across project sizes",
			GrowthRate:      0.12,
			ChargeInflation: 0.025,
			TargetRevenue:   200000,
			InitialFixedCharges: ScaleCharges(DefaultFixedCharges(), 12000),
			Mix: []ProjectMix{
				{Label: "Showcase sites", Count: 10, AverageRevenue: 5000},
				{Label: "Business applications", Count: 6, AverageRevenue: 15000},
				{Label: "Automation projects", Count: 4, AverageRevenue: 15000},
			},
		},
		{
			Name:            "Ambitious",
			Description:     "Aggressive growth with larger platform work",
			GrowthRate:      0.18,
			ChargeInflation: 0.03,
			TargetRevenue:   280000,
			InitialFixedCharges: ScaleCharges(DefaultFixedCharges(), 16000),
			Mix: []ProjectMix{
				{Label: "Showcase sites", Count: 12, AverageRevenue: 5000},
				{Label: "Business applications", Count: 8, AverageRevenue: 15000},
				{Label: "Client platforms", Count: 4, AverageRevenue: 25000},
			},
		},
	}
}
