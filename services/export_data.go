package services

import "fmt"

// QuoteExportRow represents a single quote line in an export.
type QuoteExportRow struct {
	Index       string
	Service     string
	Category    string
	PricingMode string // complexity level name or "custom factors"
	Qty         int
	UnitPrice   float64
	LineTotal   float64
	Maintenance float64
}

// QuoteExport holds all data needed to export one quote.
type QuoteExport struct {
	Title             string
	Client            string
	ClientType        string
	CreatedDate       string
	Rows              []QuoteExportRow
	Subtotal          float64
	Tax               float64
	Total             float64
	AnnualMaintenance float64
	MaintenanceRate   float64
}

// BuildQuoteExport flattens a quote into export rows plus totals.
func BuildQuoteExport(q *Quote, createdDate string) QuoteExport {
	data := QuoteExport{
		Title:           q.Name,
		Client:          q.Client,
		ClientType:      q.ClientType,
		CreatedDate:     createdDate,
		MaintenanceRate: q.MaintenanceRate,
	}

	for i, line := range q.Lines {
		mode := line.ComplexityLevel
		if line.FactorValues != nil {
			mode = "custom factors"
		}
		data.Rows = append(data.Rows, QuoteExportRow{
			Index:       fmt.Sprintf("%d", i+1),
			Service:     line.Service.Name,
			Category:    line.Service.Category,
			PricingMode: mode,
			Qty:         line.Quantity,
			UnitPrice:   line.UnitPrice,
			LineTotal:   line.LineTotal(),
			Maintenance: line.AnnualMaintenance(q.MaintenanceRate),
		})
	}

	data.Subtotal = q.Subtotal()
	data.Tax = q.Tax()
	data.Total = q.Total()
	data.AnnualMaintenance = q.AnnualMaintenanceTotal()
	return data
}

// ProjectionExportRow represents one projected year in an export.
type ProjectionExportRow struct {
	Year               int
	ProjectRevenue     float64
	MaintenanceRevenue float64
	GrossRevenue       float64
	FixedCharges       float64
	GrossResult        float64
	Tax                float64
	NetResult          float64
	MarginRate         float64
}

// ProjectionExport holds all data needed to export a multi-year projection.
type ProjectionExport struct {
	Title          string
	Scenario       string
	CreatedDate    string
	Rows           []ProjectionExportRow
	TotalNetResult float64
}

// BuildProjectionExport flattens a projection series into export rows.
func BuildProjectionExport(series ProjectionSeries, title, createdDate string) ProjectionExport {
	data := ProjectionExport{
		Title:       title,
		Scenario:    series.Scenario,
		CreatedDate: createdDate,
	}

	for _, yr := range series.Years {
		row := ProjectionExportRow{
			Year:               yr.Year,
			ProjectRevenue:     yr.ProjectRevenue(),
			MaintenanceRevenue: yr.MaintenanceRevenue(),
			GrossRevenue:       yr.GrossRevenue(),
			FixedCharges:       yr.TotalFixedCharges(),
			GrossResult:        yr.GrossResult(),
			Tax:                yr.Tax(),
			NetResult:          yr.NetResult(),
			MarginRate:         yr.MarginRate(),
		}
		data.Rows = append(data.Rows, row)
		data.TotalNetResult += row.NetResult
	}
	return data
}
