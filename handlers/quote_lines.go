package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"estimator/services"
)

// LineAddRequest is the expected JSON body for adding a quote line. Exactly
// one pricing mode applies: factor_values when present, complexity_level
// otherwise.
type LineAddRequest struct {
	Service         string             `json:"service"`
	ComplexityLevel string             `json:"complexity_level"`
	FactorValues    map[string]float64 `json:"factor_values"`
	Quantity        int                `json:"quantity"`
}

// LineFactorsRequest is the expected JSON body for switching a line to
// factor pricing.
type LineFactorsRequest struct {
	FactorValues map[string]float64 `json:"factor_values"`
}

// LineComplexityRequest is the expected JSON body for switching a line to
// complexity pricing.
type LineComplexityRequest struct {
	ComplexityLevel string `json:"complexity_level"`
}

// findLineIndex locates a line record by ID inside the ordered slice loadQuote
// returned, so record-addressed endpoints can drive the index-addressed quote
// operations.
func findLineIndex(lineRecs []*core.Record, lineID string) int {
	for i, lr := range lineRecs {
		if lr.Id == lineID {
			return i
		}
	}
	return -1
}

// persistLine writes the priced state of quote.Lines[index] back to its record.
func persistLine(app *pocketbase.PocketBase, rec *core.Record, line services.QuoteLine) error {
	rec.Set("complexity_level", line.ComplexityLevel)
	if line.FactorValues != nil {
		rec.Set("factor_values", line.FactorValues)
	} else {
		rec.Set("factor_values", nil)
	}
	rec.Set("quantity", line.Quantity)
	rec.Set("unit_price", line.UnitPrice)
	return app.Save(rec)
}

// HandleQuoteLineAdd returns a handler that appends a priced line to a quote.
// POST /api/quotes/{id}/lines
func HandleQuoteLineAdd(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		quoteID := e.Request.PathValue("id")
		if quoteID == "" {
			return e.String(http.StatusBadRequest, "Missing quote ID")
		}

		var req LineAddRequest
		if err := e.BindBody(&req); err != nil {
			return e.String(http.StatusBadRequest, "Invalid request body")
		}
		if req.Service == "" {
			return e.String(http.StatusBadRequest, "Service is required")
		}
		if req.Quantity == 0 {
			req.Quantity = 1
		}

		quoteRec, err := app.FindRecordById("quotes", quoteID)
		if err != nil {
			return e.String(http.StatusNotFound, "Quote not found")
		}

		serviceRec, err := findServiceBySlug(app, req.Service)
		if err != nil {
			if errors.Is(err, services.ErrUnknownService) {
				return e.String(http.StatusNotFound, "Unknown service")
			}
			log.Printf("line_add: %v", err)
			return e.String(http.StatusInternalServerError, "Internal error")
		}

		def, err := loadServiceDefinition(app, serviceRec)
		if err != nil {
			log.Printf("line_add: %v", err)
			return e.String(http.StatusInternalServerError, "Internal error")
		}

		quote, lineRecs, err := loadQuote(app, quoteID)
		if err != nil {
			log.Printf("line_add: load %s: %v", quoteID, err)
			return e.String(http.StatusInternalServerError, "Failed to load quote")
		}

		if req.FactorValues != nil {
			err = quote.AddServiceWithFactors(def, req.FactorValues, req.Quantity)
		} else {
			level := req.ComplexityLevel
			if level == "" {
				level = "Intermediate"
			}
			err = quote.AddServiceAtComplexity(def, services.DefaultComplexityScale, level, req.Quantity)
		}
		if err != nil {
			if errors.Is(err, services.ErrInvalidQuantity) {
				return e.String(http.StatusBadRequest, "Quantity must be at least 1")
			}
			log.Printf("line_add: %v", err)
			return e.String(http.StatusInternalServerError, "Internal error")
		}

		newLine := quote.Lines[len(quote.Lines)-1]

		linesCol, err := app.FindCollectionByNameOrId("quote_lines")
		if err != nil {
			log.Printf("line_add: %v", err)
			return e.String(http.StatusInternalServerError, "Internal error")
		}

		lineRec := core.NewRecord(linesCol)
		lineRec.Set("quote", quoteID)
		lineRec.Set("service", serviceRec.Id)
		lineRec.Set("sort_order", nextLineSortOrder(lineRecs))
		if err := persistLine(app, lineRec, newLine); err != nil {
			log.Printf("line_add: save: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to save line")
		}

		quote, lineRecs, err = loadQuote(app, quoteID)
		if err != nil {
			log.Printf("line_add: reload %s: %v", quoteID, err)
			return e.String(http.StatusInternalServerError, "Internal error")
		}

		return e.JSON(http.StatusCreated, buildQuoteResponse(quoteRec, quote, lineRecs))
	}
}

// HandleQuoteLineRemove returns a handler that deletes a line from a quote.
// DELETE /api/quotes/{id}/lines/{lineId}
func HandleQuoteLineRemove(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		quoteID := e.Request.PathValue("id")
		lineID := e.Request.PathValue("lineId")
		if quoteID == "" || lineID == "" {
			return e.String(http.StatusBadRequest, "Missing required parameters")
		}

		lineRec, err := app.FindRecordById("quote_lines", lineID)
		if err != nil {
			return e.String(http.StatusNotFound, "Line not found")
		}
		if lineRec.GetString("quote") != quoteID {
			return e.String(http.StatusForbidden, "Line does not belong to this quote")
		}

		if err := app.Delete(lineRec); err != nil {
			log.Printf("line_remove: %s: %v", lineID, err)
			return e.String(http.StatusInternalServerError, "Failed to delete line")
		}

		quoteRec, err := app.FindRecordById("quotes", quoteID)
		if err != nil {
			return e.String(http.StatusNotFound, "Quote not found")
		}

		quote, lineRecs, err := loadQuote(app, quoteID)
		if err != nil {
			log.Printf("line_remove: reload %s: %v", quoteID, err)
			return e.String(http.StatusInternalServerError, "Internal error")
		}

		return e.JSON(http.StatusOK, buildQuoteResponse(quoteRec, quote, lineRecs))
	}
}

// HandleQuoteLineComplexity returns a handler that switches a line to
// complexity pricing, repricing it in the same operation.
// PUT /api/quotes/{id}/lines/{lineId}/complexity
func HandleQuoteLineComplexity(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		quoteID := e.Request.PathValue("id")
		lineID := e.Request.PathValue("lineId")
		if quoteID == "" || lineID == "" {
			return e.String(http.StatusBadRequest, "Missing required parameters")
		}

		var req LineComplexityRequest
		if err := e.BindBody(&req); err != nil {
			return e.String(http.StatusBadRequest, "Invalid request body")
		}
		if req.ComplexityLevel == "" {
			return e.String(http.StatusBadRequest, "Complexity level is required")
		}

		quoteRec, err := app.FindRecordById("quotes", quoteID)
		if err != nil {
			return e.String(http.StatusNotFound, "Quote not found")
		}

		quote, lineRecs, err := loadQuote(app, quoteID)
		if err != nil {
			log.Printf("line_complexity: load %s: %v", quoteID, err)
			return e.String(http.StatusInternalServerError, "Failed to load quote")
		}

		idx := findLineIndex(lineRecs, lineID)
		if idx < 0 {
			return e.String(http.StatusNotFound, "Line not found")
		}

		if err := quote.SetComplexity(idx, services.DefaultComplexityScale, req.ComplexityLevel); err != nil {
			log.Printf("line_complexity: %v", err)
			return e.String(http.StatusInternalServerError, "Internal error")
		}

		if err := persistLine(app, lineRecs[idx], quote.Lines[idx]); err != nil {
			log.Printf("line_complexity: save: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to save line")
		}

		return e.JSON(http.StatusOK, buildQuoteResponse(quoteRec, quote, lineRecs))
	}
}

// HandleQuoteLineFactors returns a handler that switches a line to factor
// pricing. Supplied values merge over the line's current ones so a partial
// update keeps the rest.
// PUT /api/quotes/{id}/lines/{lineId}/factors
func HandleQuoteLineFactors(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		quoteID := e.Request.PathValue("id")
		lineID := e.Request.PathValue("lineId")
		if quoteID == "" || lineID == "" {
			return e.String(http.StatusBadRequest, "Missing required parameters")
		}

		var req LineFactorsRequest
		if err := e.BindBody(&req); err != nil {
			return e.String(http.StatusBadRequest, "Invalid request body")
		}

		quoteRec, err := app.FindRecordById("quotes", quoteID)
		if err != nil {
			return e.String(http.StatusNotFound, "Quote not found")
		}

		quote, lineRecs, err := loadQuote(app, quoteID)
		if err != nil {
			log.Printf("line_factors: load %s: %v", quoteID, err)
			return e.String(http.StatusInternalServerError, "Failed to load quote")
		}

		idx := findLineIndex(lineRecs, lineID)
		if idx < 0 {
			return e.String(http.StatusNotFound, "Line not found")
		}

		if err := quote.SetFactors(idx, req.FactorValues); err != nil {
			log.Printf("line_factors: %v", err)
			return e.String(http.StatusInternalServerError, "Internal error")
		}

		if err := persistLine(app, lineRecs[idx], quote.Lines[idx]); err != nil {
			log.Printf("line_factors: save: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to save line")
		}

		return e.JSON(http.StatusOK, buildQuoteResponse(quoteRec, quote, lineRecs))
	}
}
