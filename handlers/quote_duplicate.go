package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// HandleQuoteDuplicate returns a handler that copies a quote and all its
// lines under a new name. Unit prices carry over verbatim so a duplicate of
// an old quote keeps its historical pricing even if the catalog moved.
// Duplicating a template is how a working quote is started from one.
// POST /api/quotes/{id}/duplicate
func HandleQuoteDuplicate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		quoteID := e.Request.PathValue("id")
		if quoteID == "" {
			return e.String(http.StatusBadRequest, "Missing quote ID")
		}

		srcRec, err := app.FindRecordById("quotes", quoteID)
		if err != nil {
			return e.String(http.StatusNotFound, "Quote not found")
		}

		linesCol, err := app.FindCollectionByNameOrId("quote_lines")
		if err != nil {
			log.Printf("quote_duplicate: %v", err)
			return e.String(http.StatusInternalServerError, "Internal error")
		}

		srcLines, err := app.FindRecordsByFilter(linesCol, "quote = {:quoteId}", "sort_order", 0, 0,
			map[string]any{"quoteId": quoteID})
		if err != nil {
			srcLines = nil
		}

		quotesCol, err := app.FindCollectionByNameOrId("quotes")
		if err != nil {
			log.Printf("quote_duplicate: %v", err)
			return e.String(http.StatusInternalServerError, "Internal error")
		}

		dupRec := core.NewRecord(quotesCol)
		dupRec.Set("name", srcRec.GetString("name")+" (copy)")
		dupRec.Set("client", srcRec.GetString("client"))
		dupRec.Set("client_type", srcRec.GetString("client_type"))
		dupRec.Set("maintenance_rate", srcRec.GetFloat("maintenance_rate"))
		dupRec.Set("template", false)

		if err := app.Save(dupRec); err != nil {
			log.Printf("quote_duplicate: save quote: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to duplicate quote")
		}

		for _, src := range srcLines {
			lineRec := core.NewRecord(linesCol)
			lineRec.Set("quote", dupRec.Id)
			lineRec.Set("service", src.GetString("service"))
			lineRec.Set("sort_order", src.GetFloat("sort_order"))
			lineRec.Set("complexity_level", src.GetString("complexity_level"))
			lineRec.Set("factor_values", src.Get("factor_values"))
			lineRec.Set("quantity", src.GetFloat("quantity"))
			lineRec.Set("unit_price", src.GetFloat("unit_price"))

			if err := app.Save(lineRec); err != nil {
				log.Printf("quote_duplicate: save line %s: %v", src.Id, err)
			}
		}

		quote, lineRecs, err := loadQuote(app, dupRec.Id)
		if err != nil {
			log.Printf("quote_duplicate: reload: %v", err)
			return e.String(http.StatusInternalServerError, "Internal error")
		}

		return e.JSON(http.StatusCreated, buildQuoteResponse(dupRec, quote, lineRecs))
	}
}
