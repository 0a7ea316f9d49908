package handlers

import (
	"fmt"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"estimator/services"
)

// loadServiceDefinition builds a ServiceDefinition from a catalog_services
// record and its linked service_factors records, ordered by sort_order.
func loadServiceDefinition(app *pocketbase.PocketBase, rec *core.Record) (services.ServiceDefinition, error) {
	factorsCol, err := app.FindCollectionByNameOrId("service_factors")
	if err != nil {
		return services.ServiceDefinition{}, fmt.Errorf("collection not found: %w", err)
	}

	factorRecs, err := app.FindRecordsByFilter(factorsCol, "service = {:serviceId}", "sort_order", 0, 0,
		map[string]any{"serviceId": rec.Id})
	if err != nil {
		factorRecs = nil
	}

	factors := make([]services.VariationFactor, 0, len(factorRecs))
	for _, fr := range factorRecs {
		factors = append(factors, services.VariationFactor{
			Name:        fr.GetString("name"),
			Description: fr.GetString("description"),
			ImpactMin:   fr.GetFloat("impact_min"),
			ImpactMax:   fr.GetFloat("impact_max"),
			Default:     fr.GetFloat("default_value"),
		})
	}

	return services.ServiceDefinition{
		ID:                  rec.GetString("slug"),
		Category:            rec.GetString("category"),
		Name:                rec.GetString("name"),
		Description:         rec.GetString("description"),
		Deliverable:         rec.GetString("deliverable"),
		ClientValue:         rec.GetString("client_value"),
		PriceMin:            rec.GetFloat("price_min"),
		PriceMax:            rec.GetFloat("price_max"),
		Factors:             factors,
		MaintenanceEligible: rec.GetBool("maintenance_eligible"),
	}, nil
}

// loadCatalog reads every catalog service with its factors into a Catalog.
func loadCatalog(app *pocketbase.PocketBase) (*services.Catalog, error) {
	servicesCol, err := app.FindCollectionByNameOrId("catalog_services")
	if err != nil {
		return nil, fmt.Errorf("collection not found: %w", err)
	}

	recs, err := app.FindRecordsByFilter(servicesCol, "id != ''", "category,name", 0, 0, nil)
	if err != nil {
		return nil, fmt.Errorf("query catalog services: %w", err)
	}

	defs := make([]services.ServiceDefinition, 0, len(recs))
	for _, rec := range recs {
		def, err := loadServiceDefinition(app, rec)
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}

	return services.NewCatalog(defs)
}

// findServiceBySlug returns the catalog service record matching a slug.
func findServiceBySlug(app *pocketbase.PocketBase, slug string) (*core.Record, error) {
	recs, err := app.FindRecordsByFilter("catalog_services", "slug = {:slug}", "", 1, 0,
		map[string]any{"slug": slug})
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, fmt.Errorf("service %q: %w", slug, services.ErrUnknownService)
	}
	return recs[0], nil
}

// loadQuote rebuilds a Quote from its record and line records. The returned
// line record slice is parallel to quote.Lines, sorted by sort_order.
func loadQuote(app *pocketbase.PocketBase, quoteID string) (*services.Quote, []*core.Record, error) {
	quoteRec, err := app.FindRecordById("quotes", quoteID)
	if err != nil {
		return nil, nil, fmt.Errorf("quote not found: %w", err)
	}

	linesCol, err := app.FindCollectionByNameOrId("quote_lines")
	if err != nil {
		return nil, nil, fmt.Errorf("collection not found: %w", err)
	}

	lineRecs, err := app.FindRecordsByFilter(linesCol, "quote = {:quoteId}", "sort_order", 0, 0,
		map[string]any{"quoteId": quoteID})
	if err != nil {
		lineRecs = nil
	}

	quote := &services.Quote{
		ID:              quoteRec.Id,
		Name:            quoteRec.GetString("name"),
		Client:          quoteRec.GetString("client"),
		ClientType:      quoteRec.GetString("client_type"),
		MaintenanceRate: quoteRec.GetFloat("maintenance_rate"),
	}

	for _, lr := range lineRecs {
		serviceRec, err := app.FindRecordById("catalog_services", lr.GetString("service"))
		if err != nil {
			return nil, nil, fmt.Errorf("service for line %s: %w", lr.Id, err)
		}

		def, err := loadServiceDefinition(app, serviceRec)
		if err != nil {
			return nil, nil, err
		}

		var factorValues map[string]float64
		if raw := lr.GetString("factor_values"); raw != "" && raw != "null" {
			factorValues = map[string]float64{}
			if err := lr.UnmarshalJSONField("factor_values", &factorValues); err != nil {
				return nil, nil, fmt.Errorf("factor values for line %s: %w", lr.Id, err)
			}
			if len(factorValues) == 0 {
				factorValues = nil
			}
		}

		quote.Lines = append(quote.Lines, services.QuoteLine{
			Service:         def,
			ComplexityLevel: lr.GetString("complexity_level"),
			FactorValues:    factorValues,
			Quantity:        int(lr.GetFloat("quantity")),
			UnitPrice:       lr.GetFloat("unit_price"),
		})
	}

	return quote, lineRecs, nil
}

// loadFixedCharges reads charge_categories into the map form the projection
// engine expects, along with any per-category inflation overrides.
func loadFixedCharges(app *pocketbase.PocketBase) (map[string]float64, map[string]float64, error) {
	chargesCol, err := app.FindCollectionByNameOrId("charge_categories")
	if err != nil {
		return nil, nil, fmt.Errorf("collection not found: %w", err)
	}

	recs, err := app.FindRecordsByFilter(chargesCol, "id != ''", "slug", 0, 0, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("query charge categories: %w", err)
	}

	charges := make(map[string]float64, len(recs))
	overrides := map[string]float64{}
	for _, rec := range recs {
		slug := rec.GetString("slug")
		charges[slug] = rec.GetFloat("annual_amount")
		if ov := rec.GetFloat("inflation_override"); ov > 0 {
			overrides[slug] = ov
		}
	}
	if len(overrides) == 0 {
		overrides = nil
	}

	return charges, overrides, nil
}

// quoteLineResponse is the JSON shape of a single quote line.
type quoteLineResponse struct {
	ID              string             `json:"id"`
	Service         string             `json:"service"`
	ServiceName     string             `json:"service_name"`
	ComplexityLevel string             `json:"complexity_level,omitempty"`
	FactorValues    map[string]float64 `json:"factor_values,omitempty"`
	Quantity        int                `json:"quantity"`
	UnitPrice       float64            `json:"unit_price"`
	LineTotal       float64            `json:"line_total"`
}

// quoteResponse is the JSON shape of a complete quote with derived totals.
type quoteResponse struct {
	ID                string              `json:"id"`
	Name              string              `json:"name"`
	Client            string              `json:"client"`
	ClientType        string              `json:"client_type"`
	Template          bool                `json:"template"`
	MaintenanceRate   float64             `json:"maintenance_rate"`
	Lines             []quoteLineResponse `json:"lines"`
	Subtotal          float64             `json:"subtotal"`
	Tax               float64             `json:"tax"`
	Total             float64             `json:"total"`
	AnnualMaintenance float64             `json:"annual_maintenance"`
	SubtotalFormatted string              `json:"subtotal_formatted"`
	TotalFormatted    string              `json:"total_formatted"`
}

// buildQuoteResponse assembles the JSON view of a quote from the rebuilt
// domain object and its line records.
func buildQuoteResponse(quoteRec *core.Record, quote *services.Quote, lineRecs []*core.Record) quoteResponse {
	resp := quoteResponse{
		ID:                quote.ID,
		Name:              quote.Name,
		Client:            quote.Client,
		ClientType:        quote.ClientType,
		Template:          quoteRec.GetBool("template"),
		MaintenanceRate:   quote.MaintenanceRate,
		Lines:             make([]quoteLineResponse, 0, len(quote.Lines)),
		Subtotal:          quote.Subtotal(),
		Tax:               quote.Tax(),
		Total:             quote.Total(),
		AnnualMaintenance: quote.AnnualMaintenanceTotal(),
	}
	resp.SubtotalFormatted = services.FormatEUR(resp.Subtotal)
	resp.TotalFormatted = services.FormatEUR(resp.Total)

	for i, line := range quote.Lines {
		lineID := ""
		if i < len(lineRecs) {
			lineID = lineRecs[i].Id
		}
		resp.Lines = append(resp.Lines, quoteLineResponse{
			ID:              lineID,
			Service:         line.Service.ID,
			ServiceName:     line.Service.Name,
			ComplexityLevel: line.ComplexityLevel,
			FactorValues:    line.FactorValues,
			Quantity:        line.Quantity,
			UnitPrice:       line.UnitPrice,
			LineTotal:       line.LineTotal(),
		})
	}

	return resp
}

// nextLineSortOrder returns one past the highest sort_order among the lines.
func nextLineSortOrder(lineRecs []*core.Record) int {
	max := 0
	for _, lr := range lineRecs {
		if so := int(lr.GetFloat("sort_order")); so > max {
			max = so
		}
	}
	return max + 1
}
