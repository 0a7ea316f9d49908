package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"estimator/services"
)

// defaultScenarioService is the catalog entry scenario mixes are priced
// against when the request does not name one. Its price band spans the mix
// averages of all stock scenarios.
const defaultScenarioService = "web_maps"

// scenarioFromRecord rebuilds a Scenario from its stored record.
func scenarioFromRecord(rec *core.Record) (services.Scenario, error) {
	s := services.Scenario{
		Name:            rec.GetString("name"),
		Description:     rec.GetString("description"),
		GrowthRate:      rec.GetFloat("growth_rate"),
		ChargeInflation: rec.GetFloat("charge_inflation"),
		TargetRevenue:   rec.GetFloat("target_revenue"),
	}

	if raw := rec.GetString("initial_charges"); raw != "" && raw != "null" {
		s.InitialFixedCharges = map[string]float64{}
		if err := rec.UnmarshalJSONField("initial_charges", &s.InitialFixedCharges); err != nil {
			return services.Scenario{}, fmt.Errorf("initial charges for %s: %w", rec.Id, err)
		}
	}

	if raw := rec.GetString("project_mix"); raw != "" && raw != "null" {
		if err := rec.UnmarshalJSONField("project_mix", &s.Mix); err != nil {
			return services.Scenario{}, fmt.Errorf("project mix for %s: %w", rec.Id, err)
		}
	}

	return s, nil
}

// applyScenarioCharges replaces the stored charge structure with the
// scenario's initial charges, upserting by slug.
func applyScenarioCharges(app *pocketbase.PocketBase, scenario services.Scenario) error {
	if len(scenario.InitialFixedCharges) == 0 {
		return nil
	}

	chargesCol, err := app.FindCollectionByNameOrId("charge_categories")
	if err != nil {
		return fmt.Errorf("collection not found: %w", err)
	}

	for slug, amount := range scenario.InitialFixedCharges {
		var rec *core.Record
		existing, _ := app.FindRecordsByFilter(chargesCol, "slug = {:slug}", "", 1, 0,
			map[string]any{"slug": slug})
		if len(existing) > 0 {
			rec = existing[0]
		} else {
			rec = core.NewRecord(chargesCol)
			rec.Set("slug", slug)
			rec.Set("label", slug)
		}
		rec.Set("annual_amount", amount)
		if err := app.Save(rec); err != nil {
			return fmt.Errorf("save charge %q: %w", slug, err)
		}
	}
	return nil
}

// scenarioMixResponse is one mix entry in the scenario listing.
type scenarioMixResponse struct {
	Label          string  `json:"label"`
	Count          int     `json:"count"`
	AverageRevenue float64 `json:"average_revenue"`
}

// scenarioResponse is the JSON shape of a stored scenario.
type scenarioResponse struct {
	ID              string                `json:"id"`
	Name            string                `json:"name"`
	Description     string                `json:"description"`
	GrowthRate      float64               `json:"growth_rate"`
	ChargeInflation float64               `json:"charge_inflation"`
	TargetRevenue   float64               `json:"target_revenue"`
	InitialCharges  map[string]float64    `json:"initial_charges"`
	Mix             []scenarioMixResponse `json:"mix"`
}

// HandleScenarioList returns a handler listing all stored scenarios.
// GET /api/scenarios
func HandleScenarioList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		scenariosCol, err := app.FindCollectionByNameOrId("scenarios")
		if err != nil {
			log.Printf("scenario_list: %v", err)
			return e.String(http.StatusInternalServerError, "Internal error")
		}

		recs, err := app.FindRecordsByFilter(scenariosCol, "id != ''", "growth_rate", 0, 0, nil)
		if err != nil {
			log.Printf("scenario_list: query: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to list scenarios")
		}

		resp := make([]scenarioResponse, 0, len(recs))
		for _, rec := range recs {
			s, err := scenarioFromRecord(rec)
			if err != nil {
				log.Printf("scenario_list: %v", err)
				continue
			}
			entry := scenarioResponse{
				ID:              rec.Id,
				Name:            s.Name,
				Description:     s.Description,
				GrowthRate:      s.GrowthRate,
				ChargeInflation: s.ChargeInflation,
				TargetRevenue:   s.TargetRevenue,
				InitialCharges:  s.InitialFixedCharges,
				Mix:             make([]scenarioMixResponse, 0, len(s.Mix)),
			}
			for _, m := range s.Mix {
				entry.Mix = append(entry.Mix, scenarioMixResponse{
					Label:          m.Label,
					Count:          m.Count,
					AverageRevenue: m.AverageRevenue,
				})
			}
			resp = append(resp, entry)
		}

		return e.JSON(http.StatusOK, resp)
	}
}

// ScenarioProjectionRequest is the expected JSON body for projecting a
// scenario. Service selects the catalog entry the mix is priced against.
type ScenarioProjectionRequest struct {
	Years    int    `json:"years"`
	Service  string `json:"service"`
	Founders int    `json:"founders"`
}

// HandleScenarioProjection returns a handler that synthesizes quotes from a
// scenario's project mix and projects them over multiple years.
// POST /api/scenarios/{id}/projection
func HandleScenarioProjection(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		scenarioID := e.Request.PathValue("id")
		if scenarioID == "" {
			return e.String(http.StatusBadRequest, "Missing scenario ID")
		}

		var req ScenarioProjectionRequest
		if err := e.BindBody(&req); err != nil {
			return e.String(http.StatusBadRequest, "Invalid request body")
		}
		if req.Years == 0 {
			req.Years = 5
		}
		if req.Service == "" {
			req.Service = defaultScenarioService
		}

		rec, err := app.FindRecordById("scenarios", scenarioID)
		if err != nil {
			return e.String(http.StatusNotFound, "Scenario not found")
		}

		scenario, err := scenarioFromRecord(rec)
		if err != nil {
			log.Printf("scenario_projection: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to load scenario")
		}

		serviceRec, err := findServiceBySlug(app, req.Service)
		if err != nil {
			if errors.Is(err, services.ErrUnknownService) {
				return e.String(http.StatusNotFound, "Unknown service")
			}
			log.Printf("scenario_projection: %v", err)
			return e.String(http.StatusInternalServerError, "Internal error")
		}

		def, err := loadServiceDefinition(app, serviceRec)
		if err != nil {
			log.Printf("scenario_projection: %v", err)
			return e.String(http.StatusInternalServerError, "Internal error")
		}

		quotes, err := scenario.Synthesize(def, services.DefaultComplexityScale)
		if err != nil {
			log.Printf("scenario_projection: synthesize: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to synthesize scenario quotes")
		}

		year1 := services.AnnualFinancials{
			Quotes:       quotes,
			FixedCharges: scenario.InitialFixedCharges,
		}

		series, err := services.BuildSeriesWithPolicy(year1, req.Years, scenario.Policy())
		if err != nil {
			if errors.Is(err, services.ErrInvalidYearCount) || errors.Is(err, services.ErrRateOutOfRange) {
				return e.String(http.StatusBadRequest, err.Error())
			}
			log.Printf("scenario_projection: %v", err)
			return e.String(http.StatusInternalServerError, "Internal error")
		}
		series.Scenario = scenario.Name

		return e.JSON(http.StatusOK, buildProjectionResponse(series, 0, req.Founders))
	}
}

// HandleScenarioApply returns a handler that materializes a scenario's
// synthesized quotes as stored records so they can be refined by hand.
// POST /api/scenarios/{id}/apply
func HandleScenarioApply(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		scenarioID := e.Request.PathValue("id")
		if scenarioID == "" {
			return e.String(http.StatusBadRequest, "Missing scenario ID")
		}

		var req ScenarioProjectionRequest
		if err := e.BindBody(&req); err != nil {
			return e.String(http.StatusBadRequest, "Invalid request body")
		}
		if req.Service == "" {
			req.Service = defaultScenarioService
		}

		rec, err := app.FindRecordById("scenarios", scenarioID)
		if err != nil {
			return e.String(http.StatusNotFound, "Scenario not found")
		}

		scenario, err := scenarioFromRecord(rec)
		if err != nil {
			log.Printf("scenario_apply: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to load scenario")
		}

		serviceRec, err := findServiceBySlug(app, req.Service)
		if err != nil {
			if errors.Is(err, services.ErrUnknownService) {
				return e.String(http.StatusNotFound, "Unknown service")
			}
			log.Printf("scenario_apply: %v", err)
			return e.String(http.StatusInternalServerError, "Internal error")
		}

		def, err := loadServiceDefinition(app, serviceRec)
		if err != nil {
			log.Printf("scenario_apply: %v", err)
			return e.String(http.StatusInternalServerError, "Internal error")
		}

		quotes, err := scenario.Synthesize(def, services.DefaultComplexityScale)
		if err != nil {
			log.Printf("scenario_apply: synthesize: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to synthesize scenario quotes")
		}

		quotesCol, err := app.FindCollectionByNameOrId("quotes")
		if err != nil {
			log.Printf("scenario_apply: %v", err)
			return e.String(http.StatusInternalServerError, "Internal error")
		}
		linesCol, err := app.FindCollectionByNameOrId("quote_lines")
		if err != nil {
			log.Printf("scenario_apply: %v", err)
			return e.String(http.StatusInternalServerError, "Internal error")
		}

		created := make([]string, 0, len(quotes))
		for _, q := range quotes {
			quoteRec := core.NewRecord(quotesCol)
			quoteRec.Set("name", q.Name)
			quoteRec.Set("client", q.Client)
			quoteRec.Set("client_type", q.ClientType)
			quoteRec.Set("maintenance_rate", q.MaintenanceRate)
			quoteRec.Set("template", false)

			if err := app.Save(quoteRec); err != nil {
				log.Printf("scenario_apply: save quote %q: %v", q.Name, err)
				continue
			}

			for i, line := range q.Lines {
				lineRec := core.NewRecord(linesCol)
				lineRec.Set("quote", quoteRec.Id)
				lineRec.Set("service", serviceRec.Id)
				lineRec.Set("sort_order", i+1)
				lineRec.Set("complexity_level", line.ComplexityLevel)
				lineRec.Set("quantity", line.Quantity)
				lineRec.Set("unit_price", line.UnitPrice)

				if err := app.Save(lineRec); err != nil {
					log.Printf("scenario_apply: save line for %q: %v", q.Name, err)
				}
			}

			created = append(created, quoteRec.Id)
		}

		if err := applyScenarioCharges(app, scenario); err != nil {
			log.Printf("scenario_apply: charges: %v", err)
		}

		return e.JSON(http.StatusCreated, map[string]any{
			"scenario": scenario.Name,
			"quotes":   created,
		})
	}
}
