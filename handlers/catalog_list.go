package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"estimator/services"
)

// catalogFactorResponse is the JSON shape of a pricing variation factor.
type catalogFactorResponse struct {
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	ImpactMin   float64 `json:"impact_min"`
	ImpactMax   float64 `json:"impact_max"`
	Default     float64 `json:"default"`
}

// catalogServiceResponse is the JSON shape of a catalog entry.
type catalogServiceResponse struct {
	Slug                string                  `json:"slug"`
	Category            string                  `json:"category"`
	Name                string                  `json:"name"`
	Description         string                  `json:"description,omitempty"`
	Deliverable         string                  `json:"deliverable,omitempty"`
	ClientValue         string                  `json:"client_value,omitempty"`
	PriceMin            float64                 `json:"price_min"`
	PriceMax            float64                 `json:"price_max"`
	MaintenanceEligible bool                    `json:"maintenance_eligible"`
	Factors             []catalogFactorResponse `json:"factors"`
	ComplexityPrices    map[string]float64      `json:"complexity_prices"`
}

// HandleCatalogList returns a handler serving the full service catalog with
// factors and the indicative price at each complexity level.
// GET /api/catalog
func HandleCatalogList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		catalog, err := loadCatalog(app)
		if err != nil {
			log.Printf("catalog_list: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to load catalog")
		}

		scale := services.DefaultComplexityScale
		resp := make([]catalogServiceResponse, 0, catalog.Len())
		for _, def := range catalog.Services() {
			entry := catalogServiceResponse{
				Slug:                def.ID,
				Category:            def.Category,
				Name:                def.Name,
				Description:         def.Description,
				Deliverable:         def.Deliverable,
				ClientValue:         def.ClientValue,
				PriceMin:            def.PriceMin,
				PriceMax:            def.PriceMax,
				MaintenanceEligible: def.MaintenanceEligible,
				Factors:             make([]catalogFactorResponse, 0, len(def.Factors)),
				ComplexityPrices:    make(map[string]float64, len(scale)),
			}

			for _, f := range def.Factors {
				entry.Factors = append(entry.Factors, catalogFactorResponse{
					Name:        f.Name,
					Description: f.Description,
					ImpactMin:   f.ImpactMin,
					ImpactMax:   f.ImpactMax,
					Default:     f.Default,
				})
			}

			for _, level := range scale {
				entry.ComplexityPrices[level.Name] = services.PriceForComplexity(def, scale, level.Name)
			}

			resp = append(resp, entry)
		}

		return e.JSON(http.StatusOK, resp)
	}
}
