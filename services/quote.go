package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	// ErrInvalidQuantity is returned when a line is added with quantity < 1.
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	// ErrLineOutOfRange is returned for line operations at an invalid index.
	ErrLineOutOfRange = errors.New("line index out of range")
)

// QuoteLine is one selected service on a quote. UnitPrice is computed when
// the line is created or updated, never lazily: SetComplexity and SetFactors
// on the owning quote reprice the line in the same operation.
type QuoteLine struct {
	Service         ServiceDefinition
	ComplexityLevel string
	FactorValues    map[string]float64 // nil when priced by complexity level
	Quantity        int
	UnitPrice       float64
}

// LineTotal is the unit price times quantity.
func (l QuoteLine) LineTotal() float64 {
	return l.UnitPrice * float64(l.Quantity)
}

// AnnualMaintenance is the yearly support fee at the given rate. Services
// that are not maintenance eligible contribute nothing.
func (l QuoteLine) AnnualMaintenance(rate float64) float64 {
	if !l.Service.MaintenanceEligible {
		return 0
	}
	return l.LineTotal() * rate
}

// Quote is a client project estimate built from catalog services. Derived
// totals are recomputed from the current lines on every access so they can
// never go stale after a mutation.
type Quote struct {
	ID              string
	Name            string
	Client          string
	ClientType      string
	Lines           []QuoteLine
	MaintenanceRate float64
}

// NewQuote returns an empty quote with a fresh identity and the minimum
// maintenance rate.
func NewQuote(name, client, clientType string) *Quote {
	return &Quote{
		ID:              uuid.NewString(),
		Name:            name,
		Client:          client,
		ClientType:      clientType,
		MaintenanceRate: MaintenanceRateMin,
	}
}

// AddServiceAtComplexity appends a line priced by complexity level.
func (q *Quote) AddServiceAtComplexity(def ServiceDefinition, scale ComplexityScale, level string, quantity int) error {
	if quantity < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidQuantity, quantity)
	}
	q.Lines = append(q.Lines, QuoteLine{
		Service:         def,
		ComplexityLevel: level,
		Quantity:        quantity,
		UnitPrice:       PriceForComplexity(def, scale, level),
	})
	return nil
}

// AddServiceWithFactors appends a line priced by factor values. Factors
// omitted from values take their own default; the stored map always carries
// an entry for every factor the service defines.
func (q *Quote) AddServiceWithFactors(def ServiceDefinition, values map[string]float64, quantity int) error {
	if quantity < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidQuantity, quantity)
	}
	full := make(map[string]float64, len(def.Factors))
	for _, f := range def.Factors {
		if v, ok := values[f.Name]; ok {
			full[f.Name] = v
		} else {
			full[f.Name] = f.Default
		}
	}
	q.Lines = append(q.Lines, QuoteLine{
		Service:      def,
		FactorValues: full,
		Quantity:     quantity,
		UnitPrice:    PriceForFactors(def, full),
	})
	return nil
}

// RemoveLine deletes the line at index, preserving the order of the rest.
func (q *Quote) RemoveLine(index int) error {
	if index < 0 || index >= len(q.Lines) {
		return fmt.Errorf("%w: %d of %d", ErrLineOutOfRange, index, len(q.Lines))
	}
	q.Lines = append(q.Lines[:index], q.Lines[index+1:]...)
	return nil
}

// SetComplexity switches the line at index to complexity pricing and
// reprices it atomically.
func (q *Quote) SetComplexity(index int, scale ComplexityScale, level string) error {
	if index < 0 || index >= len(q.Lines) {
		return fmt.Errorf("%w: %d of %d", ErrLineOutOfRange, index, len(q.Lines))
	}
	l := &q.Lines[index]
	l.ComplexityLevel = level
	l.FactorValues = nil
	l.UnitPrice = PriceForComplexity(l.Service, scale, level)
	return nil
}

// SetFactors switches the line at index to factor pricing, merging values
// over the line's current factor values (or the factor defaults when the
// line was complexity-priced), and reprices it atomically.
func (q *Quote) SetFactors(index int, values map[string]float64) error {
	if index < 0 || index >= len(q.Lines) {
		return fmt.Errorf("%w: %d of %d", ErrLineOutOfRange, index, len(q.Lines))
	}
	l := &q.Lines[index]
	full := make(map[string]float64, len(l.Service.Factors))
	for _, f := range l.Service.Factors {
		if v, ok := values[f.Name]; ok {
			full[f.Name] = v
		} else if v, ok := l.FactorValues[f.Name]; ok {
			full[f.Name] = v
		} else {
			full[f.Name] = f.Default
		}
	}
	l.ComplexityLevel = ""
	l.FactorValues = full
	l.UnitPrice = PriceForFactors(l.Service, full)
	return nil
}

// Duplicate returns a snapshot copy of the quote under a new identity.
// Factor maps are deep-copied so mutating the duplicate never leaks into the
// source; unit prices are carried over verbatim, not recomputed.
func (q *Quote) Duplicate() *Quote {
	dup := &Quote{
		ID:              uuid.NewString(),
		Name:            q.Name + " (copy)",
		Client:          q.Client,
		ClientType:      q.ClientType,
		MaintenanceRate: q.MaintenanceRate,
	}
	dup.Lines = make([]QuoteLine, len(q.Lines))
	for i, l := range q.Lines {
		cp := l
		if l.FactorValues != nil {
			cp.FactorValues = make(map[string]float64, len(l.FactorValues))
			for k, v := range l.FactorValues {
				cp.FactorValues[k] = v
			}
		}
		dup.Lines[i] = cp
	}
	return dup
}

// Subtotal is the pre-tax sum of all line totals.
func (q *Quote) Subtotal() float64 {
	var sum float64
	for _, l := range q.Lines {
		sum += l.LineTotal()
	}
	return sum
}

// Tax is the VAT on the subtotal.
func (q *Quote) Tax() float64 {
	return q.Subtotal() * VATRate
}

// Total is the subtotal plus tax.
func (q *Quote) Total() float64 {
	return q.Subtotal() + q.Tax()
}

// AnnualMaintenanceTotal sums the yearly support fees of the maintenance
// eligible lines at the quote's maintenance rate.
func (q *Quote) AnnualMaintenanceTotal() float64 {
	var sum float64
	for _, l := range q.Lines {
		sum += l.AnnualMaintenance(q.MaintenanceRate)
	}
	return sum
}
