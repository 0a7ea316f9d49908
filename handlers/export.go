package handlers

import (
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"estimator/services"
)

// sanitizeFilename removes characters that are unsafe for filenames.
func sanitizeFilename(s string) string {
	s = strings.ReplaceAll(s, " ", "-")
	s = strings.ReplaceAll(s, "/", "-")
	s = strings.ReplaceAll(s, "\\", "-")
	s = strings.ReplaceAll(s, ":", "-")
	return s
}

// buildQuoteExportData fetches a quote and flattens it for export.
func buildQuoteExportData(app *pocketbase.PocketBase, quoteID string) (services.QuoteExport, error) {
	quoteRec, err := app.FindRecordById("quotes", quoteID)
	if err != nil {
		return services.QuoteExport{}, fmt.Errorf("quote not found: %w", err)
	}

	quote, _, err := loadQuote(app, quoteID)
	if err != nil {
		return services.QuoteExport{}, err
	}

	createdDate := "-"
	if dt := quoteRec.GetDateTime("created"); !dt.IsZero() {
		createdDate = dt.Time().Format("02 Jan 2006")
	}

	return services.BuildQuoteExport(quote, createdDate), nil
}

// writeDownload sends bytes as a file attachment.
func writeDownload(e *core.RequestEvent, contentType, filename string, body []byte) error {
	e.Response.Header().Set("Content-Type", contentType)
	e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	e.Response.Write(body)
	return nil
}

// HandleQuoteExportExcel returns a handler that generates and downloads an
// Excel workbook for a quote.
// GET /api/quotes/{id}/export/excel
func HandleQuoteExportExcel(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		quoteID := e.Request.PathValue("id")
		if quoteID == "" {
			return e.String(http.StatusBadRequest, "Missing quote ID")
		}

		data, err := buildQuoteExportData(app, quoteID)
		if err != nil {
			log.Printf("quote_export_excel: %v", err)
			return e.String(http.StatusNotFound, "Quote not found")
		}

		xlsxBytes, err := services.GenerateQuoteExcel(data)
		if err != nil {
			log.Printf("quote_export_excel: failed to generate: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to generate Excel file")
		}

		filename := fmt.Sprintf("Quote_%s_%d.xlsx", sanitizeFilename(data.Title), time.Now().Year())
		return writeDownload(e, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", filename, xlsxBytes)
	}
}

// HandleQuoteExportPDF returns a handler that generates and downloads a PDF
// document for a quote.
// GET /api/quotes/{id}/export/pdf
func HandleQuoteExportPDF(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		quoteID := e.Request.PathValue("id")
		if quoteID == "" {
			return e.String(http.StatusBadRequest, "Missing quote ID")
		}

		data, err := buildQuoteExportData(app, quoteID)
		if err != nil {
			log.Printf("quote_export_pdf: %v", err)
			return e.String(http.StatusNotFound, "Quote not found")
		}

		pdfBytes, err := services.GenerateQuotePDF(data)
		if err != nil {
			log.Printf("quote_export_pdf: failed to generate: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to generate PDF file")
		}

		filename := fmt.Sprintf("Quote_%s_%d.pdf", sanitizeFilename(data.Title), time.Now().Year())
		return writeDownload(e, "application/pdf", filename, pdfBytes)
	}
}

// buildProjectionSeries assembles a projection from query parameters: years,
// growth and inflation, with every non-template quote as the baseline.
func buildProjectionSeries(app *pocketbase.PocketBase, e *core.RequestEvent) (services.ProjectionSeries, error) {
	years := 5
	if v := e.Request.URL.Query().Get("years"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			years = n
		}
	}
	growth, _ := strconv.ParseFloat(e.Request.URL.Query().Get("growth"), 64)
	inflation, _ := strconv.ParseFloat(e.Request.URL.Query().Get("inflation"), 64)

	quotes, err := loadBaselineQuotes(app, nil)
	if err != nil {
		return services.ProjectionSeries{}, err
	}

	charges, overrides, err := loadFixedCharges(app)
	if err != nil {
		return services.ProjectionSeries{}, err
	}

	year1 := services.AnnualFinancials{Quotes: quotes, FixedCharges: charges}
	return services.BuildSeriesWithPolicy(year1, years, services.ProjectionPolicy{
		GrowthRate:         growth,
		ChargeInflation:    inflation,
		InflationOverrides: overrides,
	})
}

// HandleProjectionExportExcel returns a handler that generates and downloads
// an Excel workbook for a multi-year projection.
// GET /api/projection/export/excel?years=5&growth=0.1&inflation=0.02
func HandleProjectionExportExcel(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		series, err := buildProjectionSeries(app, e)
		if err != nil {
			log.Printf("projection_export_excel: %v", err)
			return e.String(http.StatusBadRequest, "Failed to build projection")
		}

		data := services.BuildProjectionExport(series, "Financial Projection", time.Now().Format("02 Jan 2006"))
		xlsxBytes, err := services.GenerateProjectionExcel(data)
		if err != nil {
			log.Printf("projection_export_excel: failed to generate: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to generate Excel file")
		}

		filename := fmt.Sprintf("Projection_%d.xlsx", time.Now().Year())
		return writeDownload(e, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", filename, xlsxBytes)
	}
}

// HandleProjectionExportPDF returns a handler that generates and downloads a
// PDF document for a multi-year projection.
// GET /api/projection/export/pdf?years=5&growth=0.1&inflation=0.02
func HandleProjectionExportPDF(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		series, err := buildProjectionSeries(app, e)
		if err != nil {
			log.Printf("projection_export_pdf: %v", err)
			return e.String(http.StatusBadRequest, "Failed to build projection")
		}

		data := services.BuildProjectionExport(series, "Financial Projection", time.Now().Format("02 Jan 2006"))
		pdfBytes, err := services.GenerateProjectionPDF(data)
		if err != nil {
			log.Printf("projection_export_pdf: failed to generate: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to generate PDF file")
		}

		filename := fmt.Sprintf("Projection_%d.pdf", time.Now().Year())
		return writeDownload(e, "application/pdf", filename, pdfBytes)
	}
}
