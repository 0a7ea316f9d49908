package services

import (
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/core/entity"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// GenerateQuotePDF creates a PDF document from quote export data using
// maroto/v2. It returns the raw PDF bytes or an error.
func GenerateQuotePDF(data QuoteExport) ([]byte, error) {
	m := maroto.New(newPDFConfig(orientation.Vertical))

	addPDFHeader(m, data.Title, clientLine(data), data.CreatedDate)
	addQuoteTableHeader(m)
	for _, r := range data.Rows {
		addQuoteTableRow(m, r)
	}
	addQuoteSummary(m, data)
	addPDFFooter(m, data.CreatedDate)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	return doc.GetBytes(), nil
}

// GenerateProjectionPDF creates a PDF document from projection export data
// using maroto/v2. It returns the raw PDF bytes or an error.
func GenerateProjectionPDF(data ProjectionExport) ([]byte, error) {
	m := maroto.New(newPDFConfig(orientation.Horizontal))

	subtitle := ""
	if data.Scenario != "" {
		subtitle = "Scenario: " + data.Scenario
	}
	addPDFHeader(m, data.Title, subtitle, data.CreatedDate)
	addProjectionTableHeader(m)
	for _, r := range data.Rows {
		addProjectionTableRow(m, r)
	}
	addProjectionSummary(m, data)
	addPDFFooter(m, data.CreatedDate)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	return doc.GetBytes(), nil
}

func newPDFConfig(o orientation.Type) *entity.Config {
	return config.NewBuilder().
		WithOrientation(o).
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).
		WithTopMargin(10).
		WithRightMargin(10).
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
			Size:    7,
			Color:   &props.Color{Red: 120, Green: 120, Blue: 120},
		}).
		Build()
}

func clientLine(data QuoteExport) string {
	if data.Client == "" {
		return ""
	}
	if data.ClientType != "" {
		return fmt.Sprintf("Client: %s (%s)", data.Client, data.ClientType)
	}
	return "Client: " + data.Client
}

// addPDFHeader adds the title, subtitle, and date to the PDF.
func addPDFHeader(m core.Maroto, title, subtitle, date string) {
	// Title row
	m.AddRows(
		row.New(12).Add(
			col.New(12).Add(
				text.New(title, props.Text{
					Size:  16,
					Style: fontstyle.Bold,
					Align: align.Center,
				}),
			),
		),
	)

	// Subtitle and date row
	m.AddRows(
		row.New(8).Add(
			col.New(6).Add(
				text.New(subtitle, props.Text{
					Size:  9,
					Align: align.Left,
					Color: &props.Color{Red: 80, Green: 80, Blue: 80},
				}),
			),
			col.New(6).Add(
				text.New(fmt.Sprintf("Date: %s", date), props.Text{
					Size:  9,
					Align: align.Right,
					Color: &props.Color{Red: 80, Green: 80, Blue: 80},
				}),
			),
		),
	)

	// Spacer
	m.AddRows(row.New(4))
}

func pdfHeaderTextProps() (props.Text, *props.Cell) {
	headerBg := &props.Color{Red: 33, Green: 37, Blue: 41}
	headerText := props.Text{
		Size:  8,
		Style: fontstyle.Bold,
		Align: align.Center,
		Color: &props.Color{Red: 255, Green: 255, Blue: 255},
	}
	return headerText, &props.Cell{BackgroundColor: headerBg}
}

// addQuoteTableHeader adds the column header row for the quote table.
func addQuoteTableHeader(m core.Maroto) {
	headerText, headerCell := pdfHeaderTextProps()
	headerTextLeft := headerText
	headerTextLeft.Align = align.Left

	m.AddRows(
		row.New(8).Add(
			col.New(1).Add(
				text.New("#", headerText),
			).WithStyle(headerCell),
			col.New(4).Add(
				text.New("Service", headerTextLeft),
			).WithStyle(headerCell),
			col.New(2).Add(
				text.New("Pricing", headerText),
			).WithStyle(headerCell),
			col.New(1).Add(
				text.New("Qty", headerText),
			).WithStyle(headerCell),
			col.New(2).Add(
				text.New("Unit Price", headerText),
			).WithStyle(headerCell),
			col.New(2).Add(
				text.New("Line Total", headerText),
			).WithStyle(headerCell),
		),
	)
}

// addQuoteTableRow adds a single quote line to the table.
func addQuoteTableRow(m core.Maroto, r QuoteExportRow) {
	baseText := props.Text{
		Size:  8,
		Align: align.Center,
	}
	leftText := baseText
	leftText.Align = align.Left
	rightText := baseText
	rightText.Align = align.Right

	m.AddRows(
		row.New(7).Add(
			col.New(1).Add(text.New(r.Index, baseText)),
			col.New(4).Add(text.New(r.Service, leftText)),
			col.New(2).Add(text.New(r.PricingMode, baseText)),
			col.New(1).Add(text.New(fmt.Sprintf("%d", r.Qty), rightText)),
			col.New(2).Add(text.New(FormatEUR(r.UnitPrice), rightText)),
			col.New(2).Add(text.New(FormatEUR(r.LineTotal), rightText)),
		),
	)
}

// addQuoteSummary adds the totals section at the bottom of the quote PDF.
func addQuoteSummary(m core.Maroto, data QuoteExport) {
	// Spacer before summary
	m.AddRows(row.New(6))

	summaries := []struct {
		label string
		value float64
	}{
		{"Subtotal", data.Subtotal},
		{fmt.Sprintf("VAT (%s)", FormatPercent(VATRate)), data.Tax},
		{"Total", data.Total},
		{fmt.Sprintf("Annual Maintenance (%s)", FormatPercent(data.MaintenanceRate)), data.AnnualMaintenance},
	}
	for _, s := range summaries {
		addSummaryRow(m, s.label, s.value)
	}
}

// addProjectionTableHeader adds the column header row for the projection table.
func addProjectionTableHeader(m core.Maroto) {
	headerText, headerCell := pdfHeaderTextProps()

	labels := []string{"Year", "Project Rev.", "Maintenance", "Gross Rev.", "Charges", "Gross Result", "Tax", "Net Result"}
	widths := []int{1, 2, 2, 2, 1, 2, 1, 1}

	cols := make([]core.Col, 0, len(labels))
	for i, label := range labels {
		cols = append(cols, col.New(widths[i]).Add(
			text.New(label, headerText),
		).WithStyle(headerCell))
	}
	m.AddRows(row.New(8).Add(cols...))
}

// addProjectionTableRow adds a single projected year to the table.
func addProjectionTableRow(m core.Maroto, r ProjectionExportRow) {
	baseText := props.Text{
		Size:  8,
		Align: align.Center,
	}
	rightText := baseText
	rightText.Align = align.Right

	m.AddRows(
		row.New(7).Add(
			col.New(1).Add(text.New(fmt.Sprintf("%d", r.Year), baseText)),
			col.New(2).Add(text.New(FormatEUR(r.ProjectRevenue), rightText)),
			col.New(2).Add(text.New(FormatEUR(r.MaintenanceRevenue), rightText)),
			col.New(2).Add(text.New(FormatEUR(r.GrossRevenue), rightText)),
			col.New(1).Add(text.New(FormatEUR(r.FixedCharges), rightText)),
			col.New(2).Add(text.New(FormatEUR(r.GrossResult), rightText)),
			col.New(1).Add(text.New(FormatEUR(r.Tax), rightText)),
			col.New(1).Add(text.New(FormatEUR(r.NetResult), rightText)),
		),
	)
}

// addProjectionSummary adds the cumulative net result at the bottom.
func addProjectionSummary(m core.Maroto, data ProjectionExport) {
	m.AddRows(row.New(6))
	addSummaryRow(m, "Cumulative Net Result", data.TotalNetResult)
}

func addSummaryRow(m core.Maroto, label string, value float64) {
	summaryBg := &props.Color{Red: 240, Green: 240, Blue: 240}
	summaryCell := &props.Cell{BackgroundColor: summaryBg}

	style := props.Text{
		Size:  9,
		Style: fontstyle.Bold,
		Align: align.Right,
	}

	m.AddRows(
		row.New(8).Add(
			col.New(8).Add(
				text.New(label, style),
			).WithStyle(summaryCell),
			col.New(4).Add(
				text.New(FormatEUR(value), style),
			).WithStyle(summaryCell),
		),
	)
}

// addPDFFooter adds the generated-date line at the bottom.
func addPDFFooter(m core.Maroto, date string) {
	m.AddRows(row.New(6))
	m.AddRows(
		row.New(6).Add(
			col.New(12).Add(
				text.New(
					fmt.Sprintf("Generated on %s", date),
					props.Text{
						Size:  7,
						Align: align.Left,
						Color: &props.Color{Red: 140, Green: 140, Blue: 140},
					},
				),
			),
		),
	)
}
