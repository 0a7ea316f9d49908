package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"estimator/services"
)

// QuoteCreateRequest is the expected JSON body for creating a quote.
type QuoteCreateRequest struct {
	Name            string  `json:"name"`
	Client          string  `json:"client"`
	ClientType      string  `json:"client_type"`
	MaintenanceRate float64 `json:"maintenance_rate"`
}

// HandleQuoteCreate returns a handler that creates an empty quote. The
// maintenance rate defaults to the minimum and is clamped into the supported
// band when supplied.
// POST /api/quotes
func HandleQuoteCreate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var req QuoteCreateRequest
		if err := e.BindBody(&req); err != nil {
			return e.String(http.StatusBadRequest, "Invalid request body")
		}

		req.Name = strings.TrimSpace(req.Name)
		if req.Name == "" {
			return e.String(http.StatusBadRequest, "Quote name is required")
		}

		rate := req.MaintenanceRate
		if rate == 0 {
			rate = services.MaintenanceRateMin
		}
		if rate < services.MaintenanceRateMin {
			rate = services.MaintenanceRateMin
		}
		if rate > services.MaintenanceRateMax {
			rate = services.MaintenanceRateMax
		}

		quotesCol, err := app.FindCollectionByNameOrId("quotes")
		if err != nil {
			log.Printf("quote_create: %v", err)
			return e.String(http.StatusInternalServerError, "Internal error")
		}

		rec := core.NewRecord(quotesCol)
		rec.Set("name", req.Name)
		rec.Set("client", strings.TrimSpace(req.Client))
		rec.Set("client_type", strings.TrimSpace(req.ClientType))
		rec.Set("maintenance_rate", rate)
		rec.Set("template", false)

		if err := app.Save(rec); err != nil {
			log.Printf("quote_create: save: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to create quote")
		}

		quote, lineRecs, err := loadQuote(app, rec.Id)
		if err != nil {
			log.Printf("quote_create: reload: %v", err)
			return e.String(http.StatusInternalServerError, "Internal error")
		}

		return e.JSON(http.StatusCreated, buildQuoteResponse(rec, quote, lineRecs))
	}
}

// QuoteUpdateRequest is the expected JSON body for updating quote metadata.
// Pointer fields distinguish "not sent" from zero values.
type QuoteUpdateRequest struct {
	Name            *string  `json:"name"`
	Client          *string  `json:"client"`
	ClientType      *string  `json:"client_type"`
	MaintenanceRate *float64 `json:"maintenance_rate"`
}

// HandleQuoteUpdate returns a handler that updates quote metadata. Line
// mutations go through the dedicated line endpoints.
// PATCH /api/quotes/{id}
func HandleQuoteUpdate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		quoteID := e.Request.PathValue("id")
		if quoteID == "" {
			return e.String(http.StatusBadRequest, "Missing quote ID")
		}

		rec, err := app.FindRecordById("quotes", quoteID)
		if err != nil {
			return e.String(http.StatusNotFound, "Quote not found")
		}

		var req QuoteUpdateRequest
		if err := e.BindBody(&req); err != nil {
			return e.String(http.StatusBadRequest, "Invalid request body")
		}

		if req.Name != nil {
			name := strings.TrimSpace(*req.Name)
			if name == "" {
				return e.String(http.StatusBadRequest, "Quote name cannot be empty")
			}
			rec.Set("name", name)
		}
		if req.Client != nil {
			rec.Set("client", strings.TrimSpace(*req.Client))
		}
		if req.ClientType != nil {
			rec.Set("client_type", strings.TrimSpace(*req.ClientType))
		}
		if req.MaintenanceRate != nil {
			rate := *req.MaintenanceRate
			if rate < services.MaintenanceRateMin || rate > services.MaintenanceRateMax {
				return e.String(http.StatusBadRequest, "Maintenance rate out of range")
			}
			rec.Set("maintenance_rate", rate)
		}

		if err := app.Save(rec); err != nil {
			log.Printf("quote_update: save %s: %v", quoteID, err)
			return e.String(http.StatusInternalServerError, "Failed to update quote")
		}

		quote, lineRecs, err := loadQuote(app, quoteID)
		if err != nil {
			log.Printf("quote_update: reload %s: %v", quoteID, err)
			return e.String(http.StatusInternalServerError, "Internal error")
		}

		return e.JSON(http.StatusOK, buildQuoteResponse(rec, quote, lineRecs))
	}
}

// HandleQuoteDelete returns a handler that deletes a quote. Its lines are
// removed by the cascade on the quote relation.
// DELETE /api/quotes/{id}
func HandleQuoteDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		quoteID := e.Request.PathValue("id")
		if quoteID == "" {
			return e.String(http.StatusBadRequest, "Missing quote ID")
		}

		rec, err := app.FindRecordById("quotes", quoteID)
		if err != nil {
			return e.String(http.StatusNotFound, "Quote not found")
		}

		if err := app.Delete(rec); err != nil {
			log.Printf("quote_delete: %s: %v", quoteID, err)
			return e.String(http.StatusInternalServerError, "Failed to delete quote")
		}

		return e.JSON(http.StatusOK, map[string]any{"deleted": quoteID})
	}
}
