package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"estimator/services"
)

// quoteSummary is one row of the quote listing.
type quoteSummary struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	Client            string  `json:"client"`
	ClientType        string  `json:"client_type"`
	Template          bool    `json:"template"`
	LineCount         int     `json:"line_count"`
	Subtotal          float64 `json:"subtotal"`
	Total             float64 `json:"total"`
	AnnualMaintenance float64 `json:"annual_maintenance"`
	TotalFormatted    string  `json:"total_formatted"`
}

// HandleQuoteList returns a handler listing all quotes with derived totals.
// Templates sort before regular quotes within the name ordering PocketBase
// gives us, so the response carries the template flag instead.
// GET /api/quotes
func HandleQuoteList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		quotesCol, err := app.FindCollectionByNameOrId("quotes")
		if err != nil {
			log.Printf("quote_list: %v", err)
			return e.String(http.StatusInternalServerError, "Internal error")
		}

		recs, err := app.FindRecordsByFilter(quotesCol, "id != ''", "-created", 0, 0, nil)
		if err != nil {
			log.Printf("quote_list: query: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to list quotes")
		}

		resp := make([]quoteSummary, 0, len(recs))
		for _, rec := range recs {
			quote, _, err := loadQuote(app, rec.Id)
			if err != nil {
				log.Printf("quote_list: load %s: %v", rec.Id, err)
				continue
			}
			resp = append(resp, quoteSummary{
				ID:                rec.Id,
				Name:              quote.Name,
				Client:            quote.Client,
				ClientType:        quote.ClientType,
				Template:          rec.GetBool("template"),
				LineCount:         len(quote.Lines),
				Subtotal:          quote.Subtotal(),
				Total:             quote.Total(),
				AnnualMaintenance: quote.AnnualMaintenanceTotal(),
				TotalFormatted:    services.FormatEUR(quote.Total()),
			})
		}

		return e.JSON(http.StatusOK, resp)
	}
}

// HandleQuoteView returns a handler serving one quote with all lines and
// derived totals.
// GET /api/quotes/{id}
func HandleQuoteView(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		quoteID := e.Request.PathValue("id")
		if quoteID == "" {
			return e.String(http.StatusBadRequest, "Missing quote ID")
		}

		quoteRec, err := app.FindRecordById("quotes", quoteID)
		if err != nil {
			return e.String(http.StatusNotFound, "Quote not found")
		}

		quote, lineRecs, err := loadQuote(app, quoteID)
		if err != nil {
			log.Printf("quote_view: load %s: %v", quoteID, err)
			return e.String(http.StatusInternalServerError, "Failed to load quote")
		}

		return e.JSON(http.StatusOK, buildQuoteResponse(quoteRec, quote, lineRecs))
	}
}
