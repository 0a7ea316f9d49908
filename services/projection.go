package services

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidYearCount is returned when a projection is requested for
	// fewer than one year.
	ErrInvalidYearCount = errors.New("projection needs at least one year")
	// ErrRateOutOfRange is returned for growth or inflation rates outside
	// the supported range.
	ErrRateOutOfRange = errors.New("rate outside supported range")
)

// ChargeCategoryStaffing is the charge category a staffing rule writes into.
const ChargeCategoryStaffing = "staffing"

// AnnualFinancials is one projected year: the quotes booked that year, the
// fixed charges by category and the growth rate applicable from year 2
// onward. All financial figures are derived on access.
type AnnualFinancials struct {
	Year         int
	Quotes       []*Quote
	FixedCharges map[string]float64
	GrowthRate   float64
}

// ProjectRevenue sums the pre-tax subtotals of the year's quotes.
func (a AnnualFinancials) ProjectRevenue() float64 {
	var sum float64
	for _, q := range a.Quotes {
		sum += q.Subtotal()
	}
	return sum
}

// MaintenanceRevenue sums the annual maintenance fees of the year's quotes.
func (a AnnualFinancials) MaintenanceRevenue() float64 {
	var sum float64
	for _, q := range a.Quotes {
		sum += q.AnnualMaintenanceTotal()
	}
	return sum
}

// GrossRevenue is project plus maintenance revenue, compounded by the growth
// rate for years after the baseline.
func (a AnnualFinancials) GrossRevenue() float64 {
	base := a.ProjectRevenue() + a.MaintenanceRevenue()
	if a.Year > 1 {
		return base * math.Pow(1+a.GrowthRate, float64(a.Year-1))
	}
	return base
}

// TotalFixedCharges sums all charge categories.
func (a AnnualFinancials) TotalFixedCharges() float64 {
	var sum float64
	for _, amount := range a.FixedCharges {
		sum += amount
	}
	return sum
}

// GrossResult is gross revenue minus fixed charges, before tax.
func (a AnnualFinancials) GrossResult() float64 {
	return a.GrossRevenue() - a.TotalFixedCharges()
}

// Tax is the corporate tax on the gross result, floored at zero: a loss year
// pays no tax, and no carryforward or refund is modeled.
func (a AnnualFinancials) Tax() float64 {
	return math.Max(0, a.GrossResult()*CorporateTaxRate)
}

// NetResult is the gross result after tax.
func (a AnnualFinancials) NetResult() float64 {
	return a.GrossResult() - a.Tax()
}

// MarginRate is the net result as a fraction of gross revenue, 0 when there
// is no revenue.
func (a AnnualFinancials) MarginRate() float64 {
	rev := a.GrossRevenue()
	if rev <= 0 {
		return 0
	}
	return a.NetResult() / rev
}

// ProjectionSeries is a contiguous multi-year projection, year 1 first.
type ProjectionSeries struct {
	Scenario string
	Years    []AnnualFinancials
}

// StaffingRule derives an annual staffing charge from projected revenue. It
// replaces the headcount heuristics that used to be hard-coded per deployment
// variant with a single pluggable policy.
type StaffingRule interface {
	AnnualCost(grossRevenue float64) float64
}

// RevenueThresholdStaffing hires one employee for every RevenuePerHire of
// revenue beyond BaseRevenue, each costing CostPerHire per year.
type RevenueThresholdStaffing struct {
	BaseRevenue    float64
	RevenuePerHire float64
	CostPerHire    float64
}

// AnnualCost implements StaffingRule.
func (r RevenueThresholdStaffing) AnnualCost(grossRevenue float64) float64 {
	if r.RevenuePerHire <= 0 {
		return 0
	}
	hires := int((grossRevenue - r.BaseRevenue) / r.RevenuePerHire)
	if hires < 0 {
		hires = 0
	}
	return float64(hires) * r.CostPerHire
}

// ProjectionPolicy bundles the knobs applied to years 2..N. Revenue growth
// and charge inflation compound independently: operating costs do not scale
// linearly with booked revenue in a small consultancy, and keeping the two
// curves separate lets a stakeholder stress-test them independently.
type ProjectionPolicy struct {
	GrowthRate      float64
	ChargeInflation float64
	// InflationOverrides pins individual charge categories to their own
	// inflation rate (e.g. rent indexed at a fixed 2%). Categories not
	// listed compound at ChargeInflation.
	InflationOverrides map[string]float64
	// Staffing, when non-nil, adds a staffing charge category to years
	// 2..N sized from each year's projected revenue.
	Staffing StaffingRule
}

func (p ProjectionPolicy) validate() error {
	if p.GrowthRate < 0 || p.GrowthRate > 1 {
		return fmt.Errorf("%w: growth rate %v", ErrRateOutOfRange, p.GrowthRate)
	}
	if p.ChargeInflation < 0 || p.ChargeInflation > 0.5 {
		return fmt.Errorf("%w: charge inflation %v", ErrRateOutOfRange, p.ChargeInflation)
	}
	for cat, rate := range p.InflationOverrides {
		if rate < 0 || rate > 0.5 {
			return fmt.Errorf("%w: inflation override %v for category %q", ErrRateOutOfRange, rate, cat)
		}
	}
	return nil
}

// BuildSeries projects numYears of financials from the year-1 baseline under
// a uniform growth and charge-inflation policy.
func BuildSeries(year1 AnnualFinancials, numYears int, growthRate, chargeInflation float64) (ProjectionSeries, error) {
	return BuildSeriesWithPolicy(year1, numYears, ProjectionPolicy{
		GrowthRate:      growthRate,
		ChargeInflation: chargeInflation,
	})
}

// BuildSeriesWithPolicy projects numYears of financials from the year-1
// baseline. Year 1 is taken verbatim (no growth applied); each later year
// keeps the same quote set, compounds each charge category from its year-1
// amount, and compounds revenue through the growth rate baked into its
// AnnualFinancials.
func BuildSeriesWithPolicy(year1 AnnualFinancials, numYears int, p ProjectionPolicy) (ProjectionSeries, error) {
	if numYears < 1 {
		return ProjectionSeries{}, fmt.Errorf("%w: got %d", ErrInvalidYearCount, numYears)
	}
	if err := p.validate(); err != nil {
		return ProjectionSeries{}, err
	}

	year1.Year = 1
	year1.GrowthRate = 0

	series := ProjectionSeries{Years: make([]AnnualFinancials, 0, numYears)}
	series.Years = append(series.Years, year1)

	for y := 2; y <= numYears; y++ {
		charges := make(map[string]float64, len(year1.FixedCharges)+1)
		for cat, amount := range year1.FixedCharges {
			rate := p.ChargeInflation
			if r, ok := p.InflationOverrides[cat]; ok {
				rate = r
			}
			charges[cat] = amount * math.Pow(1+rate, float64(y-1))
		}

		yr := AnnualFinancials{
			Year:         y,
			Quotes:       year1.Quotes,
			FixedCharges: charges,
			GrowthRate:   p.GrowthRate,
		}
		if p.Staffing != nil {
			charges[ChargeCategoryStaffing] = p.Staffing.AnnualCost(yr.GrossRevenue())
		}
		series.Years = append(series.Years, yr)
	}

	return series, nil
}
