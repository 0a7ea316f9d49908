package services

import (
	"errors"
	"fmt"
)

// Financial constants shared across the engine. Rates are fractions, not
// percentages.
const (
	CorporateTaxRate   = 0.25  // corporate income tax on gross result
	VATRate            = 0.085 // overseas-department VAT applied to quotes
	MaintenanceRateMin = 0.10  // annual maintenance fee floor
	MaintenanceRateMax = 0.15  // annual maintenance fee ceiling
	DividendFlatTax    = 0.30  // flat tax on distributed dividends
)

// ErrUnknownService is returned when a catalog lookup misses.
var ErrUnknownService = errors.New("unknown service")

// VariationFactor is a bounded continuous input (volume, duration, scope)
// that shifts a service price between its minimum and maximum. ImpactMin must
// be strictly below ImpactMax.
type VariationFactor struct {
	Name        string
	Description string
	ImpactMin   float64
	ImpactMax   float64
	Default     float64
}

// ServiceDefinition is one catalog entry. Definitions are immutable reference
// data: they are validated once at catalog load and never mutated afterwards.
type ServiceDefinition struct {
	ID                  string
	Category            string
	Name                string
	Description         string
	Deliverable         string
	ClientValue         string
	PriceMin            float64
	PriceMax            float64
	Factors             []VariationFactor
	MaintenanceEligible bool
}

// Validate checks the price range and every factor's bounds. A factor with
// ImpactMin == ImpactMax would divide by zero during normalization, so
// degenerate bounds are rejected here rather than guarded at pricing time.
func (d ServiceDefinition) Validate() error {
	if d.ID == "" {
		return errors.New("service definition has no id")
	}
	if d.PriceMin < 0 {
		return fmt.Errorf("service %q: negative minimum price %v", d.ID, d.PriceMin)
	}
	if d.PriceMax < d.PriceMin {
		return fmt.Errorf("service %q: price range [%v, %v] is inverted", d.ID, d.PriceMin, d.PriceMax)
	}
	for _, f := range d.Factors {
		if f.Name == "" {
			return fmt.Errorf("service %q: factor has no name", d.ID)
		}
		if f.ImpactMin >= f.ImpactMax {
			return fmt.Errorf("service %q: factor %q has degenerate bounds [%v, %v]",
				d.ID, f.Name, f.ImpactMin, f.ImpactMax)
		}
	}
	return nil
}

// Catalog is a validated, read-only set of service definitions keyed by ID.
type Catalog struct {
	byID  map[string]ServiceDefinition
	order []string
}

// NewCatalog validates every definition and builds the catalog. The first
// invalid or duplicated definition aborts loading with no partial catalog.
func NewCatalog(defs []ServiceDefinition) (*Catalog, error) {
	c := &Catalog{byID: make(map[string]ServiceDefinition, len(defs))}
	for _, d := range defs {
		if err := d.Validate(); err != nil {
			return nil, err
		}
		if _, dup := c.byID[d.ID]; dup {
			return nil, fmt.Errorf("duplicate service id %q", d.ID)
		}
		c.byID[d.ID] = d
		c.order = append(c.order, d.ID)
	}
	return c, nil
}

// Lookup returns the definition for id, or ErrUnknownService.
func (c *Catalog) Lookup(id string) (ServiceDefinition, error) {
	d, ok := c.byID[id]
	if !ok {
		return ServiceDefinition{}, fmt.Errorf("%w: %q", ErrUnknownService, id)
	}
	return d, nil
}

// Services returns all definitions in load order.
func (c *Catalog) Services() []ServiceDefinition {
	out := make([]ServiceDefinition, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.byID[id])
	}
	return out
}

// Len reports the number of catalog entries.
func (c *Catalog) Len() int { return len(c.byID) }
