package services

import (
	"math"
	"testing"
)

func TestNearestComplexity(t *testing.T) {
	def := testService() // complexity prices 4000, 6000, 8000, 10000, 12000

	tests := []struct {
		name   string
		target float64
		expect string
	}{
		{"exact tier price", 8000, "Intermediate"},
		{"below range", 1000, "Basic"},
		{"above range", 24000, "Expert"},
		{"closer to advanced", 9800, "Advanced"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := nearestComplexity(def, DefaultComplexityScale, tt.target)
			if got != tt.expect {
				t.Errorf("nearestComplexity(%v) = %q, want %q", tt.target, got, tt.expect)
			}
		})
	}
}

func TestScenarioSynthesize(t *testing.T) {
	def := testService() // 4000..12000
	s := Scenario{
		Name: "Test",
		Mix: []ProjectMix{
			{Label: "Small projects", Count: 3, AverageRevenue: 8000},
			{Label: "Large projects", Count: 2, AverageRevenue: 24000},
			{Label: "Skipped", Count: 0, AverageRevenue: 5000},
		},
	}

	quotes, err := s.Synthesize(def, DefaultComplexityScale)
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}
	if len(quotes) != 2 {
		t.Fatalf("len(quotes) = %d, want 2 (zero-count mix skipped)", len(quotes))
	}

	// 8000 per project lands exactly on Intermediate: 3 projects, qty 3.
	small := quotes[0]
	if small.Lines[0].ComplexityLevel != "Intermediate" {
		t.Errorf("small mix level = %q, want Intermediate", small.Lines[0].ComplexityLevel)
	}
	if math.Abs(small.Subtotal()-24000) > 0.001 {
		t.Errorf("small mix subtotal = %v, want 24000", small.Subtotal())
	}

	// 24000 per project caps at Expert (12000), so each project takes qty 2.
	large := quotes[1]
	if large.Lines[0].ComplexityLevel != "Expert" {
		t.Errorf("large mix level = %q, want Expert", large.Lines[0].ComplexityLevel)
	}
	if large.Lines[0].Quantity != 4 {
		t.Errorf("large mix quantity = %d, want 4", large.Lines[0].Quantity)
	}
	if math.Abs(large.Subtotal()-48000) > 0.001 {
		t.Errorf("large mix subtotal = %v, want 48000", large.Subtotal())
	}
}

func TestBuiltinScenarios(t *testing.T) {
	scenarios := BuiltinScenarios()
	if len(scenarios) != 3 {
		t.Fatalf("len(BuiltinScenarios()) = %d, want 3", len(scenarios))
	}

	wantTargets := map[string]float64{
		"Conservative": 160000,
		"Balanced":     200000,
		"Ambitious":    280000,
	}

	for _, s := range scenarios {
		want, ok := wantTargets[s.Name]
		if !ok {
			t.Errorf("unexpected scenario %q", s.Name)
			continue
		}
		if s.TargetRevenue != want {
			t.Errorf("%s TargetRevenue = %v, want %v", s.Name, s.TargetRevenue, want)
		}

		// The project mix should account for the revenue target.
		var mixTotal float64
		for _, m := range s.Mix {
			mixTotal += float64(m.Count) * m.AverageRevenue
		}
		if math.Abs(mixTotal-s.TargetRevenue) > 0.001 {
			t.Errorf("%s mix total = %v, want %v", s.Name, mixTotal, s.TargetRevenue)
		}

		if s.GrowthRate <= 0 || s.GrowthRate > 1 {
			t.Errorf("%s GrowthRate = %v out of range", s.Name, s.GrowthRate)
		}
		if len(s.InitialFixedCharges) == 0 {
			t.Errorf("%s has no initial charges", s.Name)
		}
	}

	// Scenarios escalate from cautious to aggressive.
	if !(scenarios[0].GrowthRate < scenarios[1].GrowthRate && scenarios[1].GrowthRate < scenarios[2].GrowthRate) {
		t.Errorf("growth rates not strictly increasing: %v, %v, %v",
			scenarios[0].GrowthRate, scenarios[1].GrowthRate, scenarios[2].GrowthRate)
	}
}

func TestScenarioPolicy(t *testing.T) {
	s := Scenario{GrowthRate: 0.12, ChargeInflation: 0.025}
	p := s.Policy()
	if p.GrowthRate != 0.12 || p.ChargeInflation != 0.025 {
		t.Errorf("Policy() = %+v, want growth 0.12 and inflation 0.025", p)
	}
}

func TestScaleCharges(t *testing.T) {
	base := map[string]float64{"rent": 3000, "software": 1000}

	scaled := ScaleCharges(base, 8000)
	if math.Abs(scaled["rent"]-6000) > 0.001 {
		t.Errorf("scaled rent = %v, want 6000", scaled["rent"])
	}
	if math.Abs(scaled["software"]-2000) > 0.001 {
		t.Errorf("scaled software = %v, want 2000", scaled["software"])
	}

	// Source map untouched.
	if base["rent"] != 3000 {
		t.Errorf("ScaleCharges mutated its input: rent = %v", base["rent"])
	}

	zero := ScaleCharges(map[string]float64{"rent": 0}, 5000)
	if zero["rent"] != 0 {
		t.Errorf("scaling a zero base produced %v, want 0", zero["rent"])
	}
}
