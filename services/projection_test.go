package services

import (
	"errors"
	"math"
	"testing"
)

// baselineYear builds a year-1 baseline with one Expert-priced quote
// (12000 revenue, 1200 maintenance at the 10% floor) and 9000 of charges.
func baselineYear(t *testing.T) AnnualFinancials {
	t.Helper()
	q := NewQuote("baseline", "", "")
	if err := q.AddServiceAtComplexity(testService(), DefaultComplexityScale, "Expert", 1); err != nil {
		t.Fatal(err)
	}
	return AnnualFinancials{
		Quotes:       []*Quote{q},
		FixedCharges: DefaultFixedCharges(),
	}
}

func TestAnnualFinancialsDerivations(t *testing.T) {
	year := baselineYear(t)
	year.Year = 1

	checks := []struct {
		name   string
		got    float64
		expect float64
	}{
		{"ProjectRevenue", year.ProjectRevenue(), 12000},
		{"MaintenanceRevenue", year.MaintenanceRevenue(), 1200},
		{"GrossRevenue", year.GrossRevenue(), 13200},
		{"TotalFixedCharges", year.TotalFixedCharges(), 9000},
		{"GrossResult", year.GrossResult(), 4200},
		{"Tax", year.Tax(), 1050},
		{"NetResult", year.NetResult(), 3150},
	}
	for _, c := range checks {
		if math.Abs(c.got-c.expect) > 0.001 {
			t.Errorf("%s = %v, want %v", c.name, c.got, c.expect)
		}
	}

	wantMargin := 3150.0 / 13200.0
	if got := year.MarginRate(); math.Abs(got-wantMargin) > 0.0001 {
		t.Errorf("MarginRate() = %v, want %v", got, wantMargin)
	}
}

func TestAnnualFinancialsLossYear(t *testing.T) {
	year := AnnualFinancials{
		Year:         1,
		FixedCharges: map[string]float64{"rent": 5000},
	}

	if got := year.GrossResult(); got != -5000 {
		t.Errorf("GrossResult() = %v, want -5000", got)
	}
	if got := year.Tax(); got != 0 {
		t.Errorf("Tax() on a loss year = %v, want 0", got)
	}
	if got := year.NetResult(); got != -5000 {
		t.Errorf("NetResult() = %v, want -5000", got)
	}
	if got := year.MarginRate(); got != 0 {
		t.Errorf("MarginRate() with no revenue = %v, want 0", got)
	}
}

func TestBuildSeriesZeroRatesRoundTrip(t *testing.T) {
	year1 := baselineYear(t)

	series, err := BuildSeries(year1, 5, 0, 0)
	if err != nil {
		t.Fatalf("BuildSeries() error = %v", err)
	}
	if len(series.Years) != 5 {
		t.Fatalf("len(Years) = %d, want 5", len(series.Years))
	}

	first := series.Years[0]
	for _, yr := range series.Years {
		if math.Abs(yr.GrossRevenue()-first.GrossRevenue()) > 0.001 {
			t.Errorf("year %d GrossRevenue = %v, want %v", yr.Year, yr.GrossRevenue(), first.GrossRevenue())
		}
		if math.Abs(yr.TotalFixedCharges()-first.TotalFixedCharges()) > 0.001 {
			t.Errorf("year %d TotalFixedCharges = %v, want %v", yr.Year, yr.TotalFixedCharges(), first.TotalFixedCharges())
		}
		if math.Abs(yr.NetResult()-first.NetResult()) > 0.001 {
			t.Errorf("year %d NetResult = %v, want %v", yr.Year, yr.NetResult(), first.NetResult())
		}
	}
}

func TestBuildSeriesCompounding(t *testing.T) {
	year1 := baselineYear(t)

	series, err := BuildSeries(year1, 3, 0.10, 0.02)
	if err != nil {
		t.Fatalf("BuildSeries() error = %v", err)
	}

	// Year 1 is taken verbatim.
	if got := series.Years[0].GrossRevenue(); math.Abs(got-13200) > 0.001 {
		t.Errorf("year 1 GrossRevenue = %v, want 13200", got)
	}

	// Year 3: revenue compounds from the baseline, charges from year 1.
	wantRevenue := 13200 * math.Pow(1.10, 2)
	if got := series.Years[2].GrossRevenue(); math.Abs(got-wantRevenue) > 0.001 {
		t.Errorf("year 3 GrossRevenue = %v, want %v", got, wantRevenue)
	}
	wantCharges := 9000 * math.Pow(1.02, 2)
	if got := series.Years[2].TotalFixedCharges(); math.Abs(got-wantCharges) > 0.001 {
		t.Errorf("year 3 TotalFixedCharges = %v, want %v", got, wantCharges)
	}
}

func TestBuildSeriesValidation(t *testing.T) {
	year1 := baselineYear(t)

	tests := []struct {
		name      string
		numYears  int
		growth    float64
		inflation float64
		wantErr   error
	}{
		{"zero years", 0, 0.1, 0.02, ErrInvalidYearCount},
		{"negative years", -3, 0.1, 0.02, ErrInvalidYearCount},
		{"negative growth", 5, -0.1, 0.02, ErrRateOutOfRange},
		{"growth above one", 5, 1.5, 0.02, ErrRateOutOfRange},
		{"inflation above half", 5, 0.1, 0.6, ErrRateOutOfRange},
		{"negative inflation", 5, 0.1, -0.01, ErrRateOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildSeries(year1, tt.numYears, tt.growth, tt.inflation)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("BuildSeries() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestBuildSeriesSingleYear(t *testing.T) {
	year1 := baselineYear(t)
	year1.Year = 99
	year1.GrowthRate = 0.5 // should be reset on the baseline

	series, err := BuildSeries(year1, 1, 0.2, 0.03)
	if err != nil {
		t.Fatalf("BuildSeries() error = %v", err)
	}
	if len(series.Years) != 1 {
		t.Fatalf("len(Years) = %d, want 1", len(series.Years))
	}
	if series.Years[0].Year != 1 {
		t.Errorf("baseline Year = %d, want 1", series.Years[0].Year)
	}
	if series.Years[0].GrowthRate != 0 {
		t.Errorf("baseline GrowthRate = %v, want 0", series.Years[0].GrowthRate)
	}
}

func TestBuildSeriesWithPolicyOverrides(t *testing.T) {
	year1 := baselineYear(t)

	series, err := BuildSeriesWithPolicy(year1, 3, ProjectionPolicy{
		GrowthRate:      0.10,
		ChargeInflation: 0.05,
		InflationOverrides: map[string]float64{
			"rent": 0.02,
		},
	})
	if err != nil {
		t.Fatalf("BuildSeriesWithPolicy() error = %v", err)
	}

	year3 := series.Years[2]
	wantRent := 3000 * math.Pow(1.02, 2)
	if got := year3.FixedCharges["rent"]; math.Abs(got-wantRent) > 0.001 {
		t.Errorf("year 3 rent = %v, want %v (pinned override)", got, wantRent)
	}
	wantSoftware := 1500 * math.Pow(1.05, 2)
	if got := year3.FixedCharges["software"]; math.Abs(got-wantSoftware) > 0.001 {
		t.Errorf("year 3 software = %v, want %v (default inflation)", got, wantSoftware)
	}
}

func TestBuildSeriesWithPolicyInvalidOverride(t *testing.T) {
	year1 := baselineYear(t)

	_, err := BuildSeriesWithPolicy(year1, 3, ProjectionPolicy{
		InflationOverrides: map[string]float64{"rent": 0.9},
	})
	if !errors.Is(err, ErrRateOutOfRange) {
		t.Errorf("BuildSeriesWithPolicy() error = %v, want ErrRateOutOfRange", err)
	}
}

func TestRevenueThresholdStaffing(t *testing.T) {
	rule := RevenueThresholdStaffing{
		BaseRevenue:    100000,
		RevenuePerHire: 50000,
		CostPerHire:    45000,
	}

	tests := []struct {
		name    string
		revenue float64
		expect  float64
	}{
		{"below base", 80000, 0},
		{"at base", 100000, 0},
		{"one hire", 150000, 45000},
		{"just under two hires", 199999, 45000},
		{"two hires", 200000, 90000},
		{"zero revenue", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := rule.AnnualCost(tt.revenue)
			if got != tt.expect {
				t.Errorf("AnnualCost(%v) = %v, want %v", tt.revenue, got, tt.expect)
			}
		})
	}
}

func TestBuildSeriesWithStaffing(t *testing.T) {
	q := NewQuote("big year", "", "")
	def := ServiceDefinition{ID: "platform", Name: "Platform", PriceMin: 50000, PriceMax: 150000}
	if err := q.AddServiceAtComplexity(def, DefaultComplexityScale, "Expert", 1); err != nil {
		t.Fatal(err)
	}
	year1 := AnnualFinancials{
		Quotes:       []*Quote{q},
		FixedCharges: map[string]float64{"rent": 3000},
	}

	series, err := BuildSeriesWithPolicy(year1, 2, ProjectionPolicy{
		GrowthRate: 0.10,
		Staffing: RevenueThresholdStaffing{
			BaseRevenue:    100000,
			RevenuePerHire: 50000,
			CostPerHire:    45000,
		},
	})
	if err != nil {
		t.Fatalf("BuildSeriesWithPolicy() error = %v", err)
	}

	// Year 1 carries no staffing charge.
	if _, ok := series.Years[0].FixedCharges[ChargeCategoryStaffing]; ok {
		t.Error("baseline year has a staffing charge")
	}

	// Year 2 revenue 150000 * 1.10 = 165000: one hire past the base.
	year2 := series.Years[1]
	if got := year2.FixedCharges[ChargeCategoryStaffing]; got != 45000 {
		t.Errorf("year 2 staffing charge = %v, want 45000", got)
	}
}
