package services

import (
	"math"
	"testing"
)

func TestBuildQuoteExport(t *testing.T) {
	q := NewQuote("Acme refresh", "Acme", "company")
	if err := q.AddServiceAtComplexity(testService(), DefaultComplexityScale, "Expert", 2); err != nil {
		t.Fatal(err)
	}
	if err := q.AddServiceWithFactors(testServiceNoMaintenance(), map[string]float64{"scope": 1}, 1); err != nil {
		t.Fatal(err)
	}

	data := BuildQuoteExport(q, "2026-01-15")

	if data.Title != "Acme refresh" || data.Client != "Acme" {
		t.Errorf("header = %q/%q", data.Title, data.Client)
	}
	if len(data.Rows) != 2 {
		t.Fatalf("len(Rows) = %d, want 2", len(data.Rows))
	}

	first := data.Rows[0]
	if first.Index != "1" || first.PricingMode != "Expert" || first.Qty != 2 {
		t.Errorf("row 1 = %+v", first)
	}
	if math.Abs(first.LineTotal-24000) > 0.001 {
		t.Errorf("row 1 LineTotal = %v, want 24000", first.LineTotal)
	}
	if math.Abs(first.Maintenance-2400) > 0.001 {
		t.Errorf("row 1 Maintenance = %v, want 2400", first.Maintenance)
	}

	second := data.Rows[1]
	if second.PricingMode != "custom factors" {
		t.Errorf("row 2 PricingMode = %q, want custom factors", second.PricingMode)
	}
	if second.Maintenance != 0 {
		t.Errorf("row 2 Maintenance = %v, want 0 for ineligible service", second.Maintenance)
	}

	if math.Abs(data.Subtotal-q.Subtotal()) > 0.001 {
		t.Errorf("Subtotal = %v, want %v", data.Subtotal, q.Subtotal())
	}
	if math.Abs(data.Total-q.Total()) > 0.001 {
		t.Errorf("Total = %v, want %v", data.Total, q.Total())
	}
}

func TestBuildProjectionExport(t *testing.T) {
	q := NewQuote("baseline", "", "")
	if err := q.AddServiceAtComplexity(testService(), DefaultComplexityScale, "Expert", 1); err != nil {
		t.Fatal(err)
	}
	year1 := AnnualFinancials{
		Quotes:       []*Quote{q},
		FixedCharges: map[string]float64{"rent": 3000},
	}
	series, err := BuildSeries(year1, 3, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	series.Scenario = "Conservative"

	data := BuildProjectionExport(series, "Outlook", "2026-01-15")

	if data.Scenario != "Conservative" || data.Title != "Outlook" {
		t.Errorf("header = %+v", data)
	}
	if len(data.Rows) != 3 {
		t.Fatalf("len(Rows) = %d, want 3", len(data.Rows))
	}
	for i, row := range data.Rows {
		if row.Year != i+1 {
			t.Errorf("row %d Year = %d, want %d", i, row.Year, i+1)
		}
	}

	wantTotal := series.Years[0].NetResult() * 3
	if math.Abs(data.TotalNetResult-wantTotal) > 0.001 {
		t.Errorf("TotalNetResult = %v, want %v", data.TotalNetResult, wantTotal)
	}
}
