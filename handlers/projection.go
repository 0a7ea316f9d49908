package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"estimator/services"
)

// StaffingRequest configures the optional staffing rule of a projection.
type StaffingRequest struct {
	BaseRevenue    float64 `json:"base_revenue"`
	RevenuePerHire float64 `json:"revenue_per_hire"`
	CostPerHire    float64 `json:"cost_per_hire"`
}

// ProjectionRequest is the expected JSON body for building a projection.
// QuoteIDs empty means every non-template quote forms the year-1 baseline.
type ProjectionRequest struct {
	QuoteIDs            []string           `json:"quote_ids"`
	Years               int                `json:"years"`
	GrowthRate          float64            `json:"growth_rate"`
	ChargeInflation     float64            `json:"charge_inflation"`
	InflationOverrides  map[string]float64 `json:"inflation_overrides"`
	Staffing            *StaffingRequest   `json:"staffing"`
	VariableChargeRatio float64            `json:"variable_charge_ratio"`
	Founders            int                `json:"founders"`
}

// breakEvenBlock is the per-year break-even section of a projection response.
type breakEvenBlock struct {
	Defined      bool    `json:"defined"`
	Threshold    float64 `json:"threshold,omitempty"`
	SafetyMargin float64 `json:"safety_margin,omitempty"`
}

// dividendBlock is the per-year dividend section of a projection response.
type dividendBlock struct {
	CorporateTax     float64 `json:"corporate_tax"`
	DistributableNet float64 `json:"distributable_net"`
	DividendTax      float64 `json:"dividend_tax"`
	NetDividends     float64 `json:"net_dividends"`
	NetPerFounder    float64 `json:"net_per_founder"`
}

// projectionYearResponse is one projected year with its derived analysis.
type projectionYearResponse struct {
	Year                  int                `json:"year"`
	ProjectRevenue        float64            `json:"project_revenue"`
	MaintenanceRevenue    float64            `json:"maintenance_revenue"`
	GrossRevenue          float64            `json:"gross_revenue"`
	FixedCharges          map[string]float64 `json:"fixed_charges"`
	TotalFixedCharges     float64            `json:"total_fixed_charges"`
	GrossResult           float64            `json:"gross_result"`
	Tax                   float64            `json:"tax"`
	NetResult             float64            `json:"net_result"`
	MarginRate            float64            `json:"margin_rate"`
	BreakEven             breakEvenBlock     `json:"break_even"`
	Dividends             dividendBlock      `json:"dividends"`
	RemunerationAttained  bool               `json:"remuneration_attained"`
	RemunerationShortfall float64            `json:"remuneration_shortfall"`
}

// projectionResponse is a complete multi-year projection with analysis.
type projectionResponse struct {
	Scenario               string                   `json:"scenario,omitempty"`
	Years                  []projectionYearResponse `json:"years"`
	CumulativeNet          float64                  `json:"cumulative_net"`
	CumulativeNetFormatted string                   `json:"cumulative_net_formatted"`
}

// buildProjectionResponse derives the per-year analysis blocks from a series.
// variableChargeRatio approximates variable costs as a fraction of each
// year's gross revenue for break-even purposes.
func buildProjectionResponse(series services.ProjectionSeries, variableChargeRatio float64, founders int) projectionResponse {
	target := services.DefaultRemunerationTarget()
	if founders > 0 {
		target.Founders = founders
	}

	resp := projectionResponse{
		Scenario: series.Scenario,
		Years:    make([]projectionYearResponse, 0, len(series.Years)),
	}

	for _, yr := range series.Years {
		rev := yr.GrossRevenue()
		grossResult := yr.GrossResult()

		yearResp := projectionYearResponse{
			Year:               yr.Year,
			ProjectRevenue:     yr.ProjectRevenue(),
			MaintenanceRevenue: yr.MaintenanceRevenue(),
			GrossRevenue:       rev,
			FixedCharges:       yr.FixedCharges,
			TotalFixedCharges:  yr.TotalFixedCharges(),
			GrossResult:        grossResult,
			Tax:                yr.Tax(),
			NetResult:          yr.NetResult(),
			MarginRate:         yr.MarginRate(),
		}

		variable := rev * variableChargeRatio
		if be, ok := services.BreakEven(rev, yr.TotalFixedCharges(), variable); ok {
			yearResp.BreakEven = breakEvenBlock{
				Defined:      true,
				Threshold:    be.Threshold,
				SafetyMargin: be.SafetyMargin,
			}
		}

		div := services.ComputeDividendCapacity(grossResult, target.Founders)
		yearResp.Dividends = dividendBlock{
			CorporateTax:     div.CorporateTax,
			DistributableNet: div.DistributableNet,
			DividendTax:      div.DividendTax,
			NetDividends:     div.NetDividends,
			NetPerFounder:    div.NetPerFounder,
		}
		yearResp.RemunerationAttained = target.Attained(grossResult)
		yearResp.RemunerationShortfall = target.Shortfall(grossResult)

		resp.CumulativeNet += yearResp.NetResult
		resp.Years = append(resp.Years, yearResp)
	}

	resp.CumulativeNetFormatted = services.FormatEUR(resp.CumulativeNet)
	return resp
}

// loadBaselineQuotes loads the quotes forming a projection's year-1 baseline.
func loadBaselineQuotes(app *pocketbase.PocketBase, quoteIDs []string) ([]*services.Quote, error) {
	if len(quoteIDs) == 0 {
		recs, err := app.FindRecordsByFilter("quotes", "template = false", "-created", 0, 0, nil)
		if err != nil {
			return nil, err
		}
		for _, rec := range recs {
			quoteIDs = append(quoteIDs, rec.Id)
		}
	}

	quotes := make([]*services.Quote, 0, len(quoteIDs))
	for _, id := range quoteIDs {
		quote, _, err := loadQuote(app, id)
		if err != nil {
			return nil, err
		}
		quotes = append(quotes, quote)
	}
	return quotes, nil
}

// HandleProjection returns a handler that projects the selected quotes over
// multiple years and reports break-even and dividend analysis per year.
// POST /api/projection
func HandleProjection(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var req ProjectionRequest
		if err := e.BindBody(&req); err != nil {
			return e.String(http.StatusBadRequest, "Invalid request body")
		}
		if req.Years == 0 {
			req.Years = 5
		}

		quotes, err := loadBaselineQuotes(app, req.QuoteIDs)
		if err != nil {
			log.Printf("projection: load quotes: %v", err)
			return e.String(http.StatusNotFound, "Quote not found")
		}

		charges, dbOverrides, err := loadFixedCharges(app)
		if err != nil {
			log.Printf("projection: load charges: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to load charge categories")
		}

		overrides := dbOverrides
		if len(req.InflationOverrides) > 0 {
			if overrides == nil {
				overrides = map[string]float64{}
			}
			for cat, rate := range req.InflationOverrides {
				overrides[cat] = rate
			}
		}

		policy := services.ProjectionPolicy{
			GrowthRate:         req.GrowthRate,
			ChargeInflation:    req.ChargeInflation,
			InflationOverrides: overrides,
		}
		if req.Staffing != nil {
			policy.Staffing = services.RevenueThresholdStaffing{
				BaseRevenue:    req.Staffing.BaseRevenue,
				RevenuePerHire: req.Staffing.RevenuePerHire,
				CostPerHire:    req.Staffing.CostPerHire,
			}
		}

		year1 := services.AnnualFinancials{Quotes: quotes, FixedCharges: charges}
		series, err := services.BuildSeriesWithPolicy(year1, req.Years, policy)
		if err != nil {
			if errors.Is(err, services.ErrInvalidYearCount) || errors.Is(err, services.ErrRateOutOfRange) {
				return e.String(http.StatusBadRequest, err.Error())
			}
			log.Printf("projection: %v", err)
			return e.String(http.StatusInternalServerError, "Internal error")
		}

		return e.JSON(http.StatusOK, buildProjectionResponse(series, req.VariableChargeRatio, req.Founders))
	}
}
