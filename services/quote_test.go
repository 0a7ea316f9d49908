package services

import (
	"errors"
	"math"
	"testing"
)

func TestQuoteAddServiceAtComplexity(t *testing.T) {
	q := NewQuote("Site refresh", "Acme", "company")

	if err := q.AddServiceAtComplexity(testService(), DefaultComplexityScale, "Intermediate", 2); err != nil {
		t.Fatalf("AddServiceAtComplexity() error = %v", err)
	}

	if len(q.Lines) != 1 {
		t.Fatalf("len(Lines) = %d, want 1", len(q.Lines))
	}
	line := q.Lines[0]
	if line.UnitPrice != 8000 {
		t.Errorf("UnitPrice = %v, want 8000", line.UnitPrice)
	}
	if line.LineTotal() != 16000 {
		t.Errorf("LineTotal() = %v, want 16000", line.LineTotal())
	}
	if line.FactorValues != nil {
		t.Error("FactorValues should be nil for complexity pricing")
	}
}

func TestQuoteAddServiceInvalidQuantity(t *testing.T) {
	q := NewQuote("q", "", "")

	for _, qty := range []int{0, -1, -100} {
		err := q.AddServiceAtComplexity(testService(), DefaultComplexityScale, "Basic", qty)
		if !errors.Is(err, ErrInvalidQuantity) {
			t.Errorf("AddServiceAtComplexity(qty=%d) error = %v, want ErrInvalidQuantity", qty, err)
		}
		err = q.AddServiceWithFactors(testService(), nil, qty)
		if !errors.Is(err, ErrInvalidQuantity) {
			t.Errorf("AddServiceWithFactors(qty=%d) error = %v, want ErrInvalidQuantity", qty, err)
		}
	}
	if len(q.Lines) != 0 {
		t.Errorf("rejected adds left %d lines on the quote", len(q.Lines))
	}
}

func TestQuoteAddServiceWithFactors(t *testing.T) {
	q := NewQuote("q", "", "")

	// Only screens supplied; integrations should pick up its default of 2.
	err := q.AddServiceWithFactors(testService(), map[string]float64{"screens": 30}, 1)
	if err != nil {
		t.Fatalf("AddServiceWithFactors() error = %v", err)
	}

	line := q.Lines[0]
	if got := line.FactorValues["integrations"]; got != 2 {
		t.Errorf("omitted factor stored as %v, want default 2", got)
	}
	// screens 1.0, integrations 0.25, mean 0.625 -> 4000 + 8000*0.625.
	if math.Abs(line.UnitPrice-9000) > 0.001 {
		t.Errorf("UnitPrice = %v, want 9000", line.UnitPrice)
	}
}

func TestQuoteTaxMath(t *testing.T) {
	def := ServiceDefinition{
		ID:       "platform",
		Name:     "Client platform",
		PriceMin: 5000,
		PriceMax: 12500,
	}
	q := NewQuote("q", "", "")
	if err := q.AddServiceAtComplexity(def, DefaultComplexityScale, "Expert", 2); err != nil {
		t.Fatalf("AddServiceAtComplexity() error = %v", err)
	}

	if got := q.Subtotal(); math.Abs(got-25000) > 0.001 {
		t.Errorf("Subtotal() = %v, want 25000", got)
	}
	if got := q.Tax(); math.Abs(got-2125) > 0.001 {
		t.Errorf("Tax() = %v, want 2125", got)
	}
	if got := q.Total(); math.Abs(got-27125) > 0.001 {
		t.Errorf("Total() = %v, want 27125", got)
	}
}

func TestQuoteMaintenance(t *testing.T) {
	q := NewQuote("q", "", "")
	if err := q.AddServiceAtComplexity(testService(), DefaultComplexityScale, "Expert", 1); err != nil {
		t.Fatal(err)
	}
	if err := q.AddServiceAtComplexity(testServiceNoMaintenance(), DefaultComplexityScale, "Expert", 1); err != nil {
		t.Fatal(err)
	}

	// Only the eligible line contributes: 12000 * 0.10.
	if got := q.AnnualMaintenanceTotal(); math.Abs(got-1200) > 0.001 {
		t.Errorf("AnnualMaintenanceTotal() = %v, want 1200", got)
	}

	q.MaintenanceRate = MaintenanceRateMax
	if got := q.AnnualMaintenanceTotal(); math.Abs(got-1800) > 0.001 {
		t.Errorf("AnnualMaintenanceTotal() at max rate = %v, want 1800", got)
	}
}

func TestQuoteRemoveLine(t *testing.T) {
	q := NewQuote("q", "", "")
	for _, level := range []string{"Basic", "Intermediate", "Expert"} {
		if err := q.AddServiceAtComplexity(testService(), DefaultComplexityScale, level, 1); err != nil {
			t.Fatal(err)
		}
	}

	if err := q.RemoveLine(1); err != nil {
		t.Fatalf("RemoveLine(1) error = %v", err)
	}
	if len(q.Lines) != 2 {
		t.Fatalf("len(Lines) = %d, want 2", len(q.Lines))
	}
	if q.Lines[0].ComplexityLevel != "Basic" || q.Lines[1].ComplexityLevel != "Expert" {
		t.Errorf("remaining lines = [%s, %s], want [Basic, Expert]",
			q.Lines[0].ComplexityLevel, q.Lines[1].ComplexityLevel)
	}

	for _, idx := range []int{-1, 2, 100} {
		if err := q.RemoveLine(idx); !errors.Is(err, ErrLineOutOfRange) {
			t.Errorf("RemoveLine(%d) error = %v, want ErrLineOutOfRange", idx, err)
		}
	}
}

func TestQuoteSetComplexityReprices(t *testing.T) {
	q := NewQuote("q", "", "")
	err := q.AddServiceWithFactors(testService(), map[string]float64{"screens": 30, "integrations": 8}, 1)
	if err != nil {
		t.Fatal(err)
	}

	if err := q.SetComplexity(0, DefaultComplexityScale, "Basic"); err != nil {
		t.Fatalf("SetComplexity() error = %v", err)
	}

	line := q.Lines[0]
	if line.UnitPrice != 4000 {
		t.Errorf("UnitPrice after SetComplexity = %v, want 4000", line.UnitPrice)
	}
	if line.FactorValues != nil {
		t.Error("FactorValues should be cleared after switching to complexity pricing")
	}
	if line.ComplexityLevel != "Basic" {
		t.Errorf("ComplexityLevel = %q, want Basic", line.ComplexityLevel)
	}
}

func TestQuoteSetFactorsMergesAndReprices(t *testing.T) {
	q := NewQuote("q", "", "")
	err := q.AddServiceWithFactors(testService(), map[string]float64{"screens": 30, "integrations": 0}, 1)
	if err != nil {
		t.Fatal(err)
	}

	// Update only integrations; screens keeps its previous value of 30.
	if err := q.SetFactors(0, map[string]float64{"integrations": 8}); err != nil {
		t.Fatalf("SetFactors() error = %v", err)
	}

	line := q.Lines[0]
	if got := line.FactorValues["screens"]; got != 30 {
		t.Errorf("screens after partial update = %v, want 30", got)
	}
	if line.UnitPrice != 12000 {
		t.Errorf("UnitPrice = %v, want 12000", line.UnitPrice)
	}
	if line.ComplexityLevel != "" {
		t.Errorf("ComplexityLevel = %q, want empty after switching to factors", line.ComplexityLevel)
	}
}

func TestQuoteSetFactorsFromComplexityLine(t *testing.T) {
	q := NewQuote("q", "", "")
	if err := q.AddServiceAtComplexity(testService(), DefaultComplexityScale, "Expert", 1); err != nil {
		t.Fatal(err)
	}

	// Complexity line has no factor values; unspecified factors take defaults.
	if err := q.SetFactors(0, map[string]float64{"screens": 3}); err != nil {
		t.Fatalf("SetFactors() error = %v", err)
	}

	line := q.Lines[0]
	if got := line.FactorValues["integrations"]; got != 2 {
		t.Errorf("integrations = %v, want default 2", got)
	}
	if math.Abs(line.UnitPrice-5000) > 0.001 {
		t.Errorf("UnitPrice = %v, want 5000", line.UnitPrice)
	}
}

func TestQuoteDuplicate(t *testing.T) {
	q := NewQuote("Original", "Acme", "company")
	q.MaintenanceRate = 0.12
	err := q.AddServiceWithFactors(testService(), map[string]float64{"screens": 15, "integrations": 4}, 2)
	if err != nil {
		t.Fatal(err)
	}

	dup := q.Duplicate()

	if dup.ID == q.ID {
		t.Error("duplicate shares the source quote's ID")
	}
	if dup.Name != "Original (copy)" {
		t.Errorf("duplicate Name = %q, want %q", dup.Name, "Original (copy)")
	}
	if dup.MaintenanceRate != 0.12 {
		t.Errorf("duplicate MaintenanceRate = %v, want 0.12", dup.MaintenanceRate)
	}
	if dup.Subtotal() != q.Subtotal() {
		t.Errorf("duplicate Subtotal() = %v, want %v", dup.Subtotal(), q.Subtotal())
	}

	// Mutating the duplicate must not leak into the source.
	if err := dup.SetFactors(0, map[string]float64{"screens": 30, "integrations": 8}); err != nil {
		t.Fatal(err)
	}
	if got := q.Lines[0].FactorValues["screens"]; got != 15 {
		t.Errorf("source screens mutated to %v after editing duplicate", got)
	}
	if dup.Subtotal() == q.Subtotal() {
		t.Error("duplicate Subtotal unchanged after repricing its line")
	}
}

func TestQuoteEmptyTotals(t *testing.T) {
	q := NewQuote("empty", "", "")

	if q.Subtotal() != 0 || q.Tax() != 0 || q.Total() != 0 || q.AnnualMaintenanceTotal() != 0 {
		t.Errorf("empty quote totals = %v/%v/%v/%v, want all zero",
			q.Subtotal(), q.Tax(), q.Total(), q.AnnualMaintenanceTotal())
	}
}
