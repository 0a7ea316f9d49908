package services

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// GenerateQuoteExcel creates an Excel file from the given QuoteExport and
// returns the file contents as a byte slice.
func GenerateQuoteExcel(data QuoteExport) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	// Determine sheet name (max 31 chars).
	sheetName := data.Title
	if len(sheetName) > 31 {
		sheetName = sheetName[:31]
	}
	if sheetName == "" {
		sheetName = "Quote"
	}

	// Rename default sheet.
	defaultSheet := f.GetSheetName(0)
	if err := f.SetSheetName(defaultSheet, sheetName); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}

	// Column references (A through H).
	columns := []string{"A", "B", "C", "D", "E", "F", "G", "H"}
	lastCol := columns[len(columns)-1] // "H"

	// Set column widths.
	widths := []float64{6, 36, 18, 16, 8, 16, 16, 16}
	for i, col := range columns {
		if err := f.SetColWidth(sheetName, col, col, widths[i]); err != nil {
			return nil, fmt.Errorf("set col width %s: %w", col, err)
		}
	}

	styles, err := newExcelStyles(f)
	if err != nil {
		return nil, err
	}

	// ── Header Rows (1-3) ───────────────────────────────────────────────

	// Row 1: Title merged across all columns.
	if err := f.MergeCell(sheetName, "A1", lastCol+"1"); err != nil {
		return nil, fmt.Errorf("merge title: %w", err)
	}
	f.SetCellValue(sheetName, "A1", sanitizeExcelCell(data.Title))
	f.SetCellStyle(sheetName, "A1", lastCol+"1", styles.title)

	// Row 2: Client (if present).
	if data.Client != "" {
		if err := f.MergeCell(sheetName, "A2", lastCol+"2"); err != nil {
			return nil, fmt.Errorf("merge client: %w", err)
		}
		client := data.Client
		if data.ClientType != "" {
			client += " (" + data.ClientType + ")"
		}
		f.SetCellValue(sheetName, "A2", "Client: "+sanitizeExcelCell(client))
		f.SetCellStyle(sheetName, "A2", lastCol+"2", styles.subtitle)
	}

	// Row 3: Date.
	if err := f.MergeCell(sheetName, "A3", lastCol+"3"); err != nil {
		return nil, fmt.Errorf("merge date: %w", err)
	}
	f.SetCellValue(sheetName, "A3", "Date: "+data.CreatedDate)
	f.SetCellStyle(sheetName, "A3", lastCol+"3", styles.subtitle)

	// ── Row 5: Column Headers ───────────────────────────────────────────

	headers := []string{"#", "Service", "Category", "Pricing", "Qty", "Unit Price", "Line Total", "Maintenance/yr"}
	for i, h := range headers {
		cell := fmt.Sprintf("%s5", columns[i])
		f.SetCellValue(sheetName, cell, h)
	}
	f.SetCellStyle(sheetName, "A5", lastCol+"5", styles.header)

	// ── Data Rows (starting row 6) ──────────────────────────────────────

	row := 6
	for _, r := range data.Rows {
		rowStr := fmt.Sprintf("%d", row)

		f.SetCellValue(sheetName, "A"+rowStr, r.Index)
		f.SetCellValue(sheetName, "B"+rowStr, sanitizeExcelCell(r.Service))
		f.SetCellValue(sheetName, "C"+rowStr, sanitizeExcelCell(r.Category))
		f.SetCellValue(sheetName, "D"+rowStr, sanitizeExcelCell(r.PricingMode))
		f.SetCellValue(sheetName, "E"+rowStr, r.Qty)
		f.SetCellValue(sheetName, "F"+rowStr, FormatEUR(r.UnitPrice))
		f.SetCellValue(sheetName, "G"+rowStr, FormatEUR(r.LineTotal))
		f.SetCellValue(sheetName, "H"+rowStr, FormatEUR(r.Maintenance))

		f.SetCellStyle(sheetName, "A"+rowStr, lastCol+rowStr, styles.item)
		row++
	}

	// ── Summary Rows ────────────────────────────────────────────────────

	// Skip a blank row.
	row++

	summaries := []struct {
		label string
		value string
	}{
		{"Subtotal:", FormatEUR(data.Subtotal)},
		{fmt.Sprintf("VAT (%s):", FormatPercent(VATRate)), FormatEUR(data.Tax)},
		{"Total:", FormatEUR(data.Total)},
		{fmt.Sprintf("Annual Maintenance (%s):", FormatPercent(data.MaintenanceRate)), FormatEUR(data.AnnualMaintenance)},
	}
	for _, s := range summaries {
		rowStr := fmt.Sprintf("%d", row)
		f.SetCellValue(sheetName, "F"+rowStr, s.label)
		f.SetCellStyle(sheetName, "F"+rowStr, "F"+rowStr, styles.summaryLabel)
		f.SetCellValue(sheetName, "G"+rowStr, s.value)
		f.SetCellStyle(sheetName, "G"+rowStr, "G"+rowStr, styles.summaryValue)
		row++
	}

	// ── Write to buffer ─────────────────────────────────────────────────

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}

	return buf.Bytes(), nil
}

// GenerateProjectionExcel creates an Excel file from the given
// ProjectionExport and returns the file contents as a byte slice.
func GenerateProjectionExcel(data ProjectionExport) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Projection"
	defaultSheet := f.GetSheetName(0)
	if err := f.SetSheetName(defaultSheet, sheetName); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}

	columns := []string{"A", "B", "C", "D", "E", "F", "G", "H", "I"}
	lastCol := columns[len(columns)-1]

	widths := []float64{8, 16, 16, 16, 16, 16, 14, 16, 10}
	for i, col := range columns {
		if err := f.SetColWidth(sheetName, col, col, widths[i]); err != nil {
			return nil, fmt.Errorf("set col width %s: %w", col, err)
		}
	}

	styles, err := newExcelStyles(f)
	if err != nil {
		return nil, err
	}

	if err := f.MergeCell(sheetName, "A1", lastCol+"1"); err != nil {
		return nil, fmt.Errorf("merge title: %w", err)
	}
	f.SetCellValue(sheetName, "A1", sanitizeExcelCell(data.Title))
	f.SetCellStyle(sheetName, "A1", lastCol+"1", styles.title)

	if data.Scenario != "" {
		if err := f.MergeCell(sheetName, "A2", lastCol+"2"); err != nil {
			return nil, fmt.Errorf("merge scenario: %w", err)
		}
		f.SetCellValue(sheetName, "A2", "Scenario: "+sanitizeExcelCell(data.Scenario))
		f.SetCellStyle(sheetName, "A2", lastCol+"2", styles.subtitle)
	}

	if err := f.MergeCell(sheetName, "A3", lastCol+"3"); err != nil {
		return nil, fmt.Errorf("merge date: %w", err)
	}
	f.SetCellValue(sheetName, "A3", "Date: "+data.CreatedDate)
	f.SetCellStyle(sheetName, "A3", lastCol+"3", styles.subtitle)

	headers := []string{"Year", "Project Rev.", "Maintenance", "Gross Rev.", "Fixed Charges", "Gross Result", "Tax", "Net Result", "Margin"}
	for i, h := range headers {
		cell := fmt.Sprintf("%s5", columns[i])
		f.SetCellValue(sheetName, cell, h)
	}
	f.SetCellStyle(sheetName, "A5", lastCol+"5", styles.header)

	row := 6
	for _, r := range data.Rows {
		rowStr := fmt.Sprintf("%d", row)

		f.SetCellValue(sheetName, "A"+rowStr, r.Year)
		f.SetCellValue(sheetName, "B"+rowStr, FormatEUR(r.ProjectRevenue))
		f.SetCellValue(sheetName, "C"+rowStr, FormatEUR(r.MaintenanceRevenue))
		f.SetCellValue(sheetName, "D"+rowStr, FormatEUR(r.GrossRevenue))
		f.SetCellValue(sheetName, "E"+rowStr, FormatEUR(r.FixedCharges))
		f.SetCellValue(sheetName, "F"+rowStr, FormatEUR(r.GrossResult))
		f.SetCellValue(sheetName, "G"+rowStr, FormatEUR(r.Tax))
		f.SetCellValue(sheetName, "H"+rowStr, FormatEUR(r.NetResult))
		f.SetCellValue(sheetName, "I"+rowStr, FormatPercent(r.MarginRate))

		f.SetCellStyle(sheetName, "A"+rowStr, lastCol+rowStr, styles.item)
		row++
	}

	row++
	rowStr := fmt.Sprintf("%d", row)
	f.SetCellValue(sheetName, "G"+rowStr, "Cumulative Net:")
	f.SetCellStyle(sheetName, "G"+rowStr, "G"+rowStr, styles.summaryLabel)
	f.SetCellValue(sheetName, "H"+rowStr, FormatEUR(data.TotalNetResult))
	f.SetCellStyle(sheetName, "H"+rowStr, "H"+rowStr, styles.summaryValue)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}

	return buf.Bytes(), nil
}

type excelStyles struct {
	title        int
	subtitle     int
	header       int
	item         int
	summaryLabel int
	summaryValue int
}

func newExcelStyles(f *excelize.File) (excelStyles, error) {
	var s excelStyles
	var err error

	// Title style: bold, 16pt.
	s.title, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold: true,
			Size: 16,
		},
	})
	if err != nil {
		return s, fmt.Errorf("create title style: %w", err)
	}

	// Subtitle style (client, scenario, date).
	s.subtitle, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Size: 11,
		},
	})
	if err != nil {
		return s, fmt.Errorf("create subtitle style: %w", err)
	}

	// Column header style: bold, white text, charcoal background, centered.
	s.header, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold:  true,
			Color: "#FFFFFF",
			Size:  11,
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#333333"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
		Border: thinBorders(),
	})
	if err != nil {
		return s, fmt.Errorf("create header style: %w", err)
	}

	// Data row style: normal with borders.
	s.item, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Size: 10,
		},
		Border: thinBorders(),
	})
	if err != nil {
		return s, fmt.Errorf("create item style: %w", err)
	}

	// Summary label style: bold, right-aligned.
	s.summaryLabel, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold: true,
			Size: 11,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "right",
		},
	})
	if err != nil {
		return s, fmt.Errorf("create summary label style: %w", err)
	}

	// Summary value style: bold.
	s.summaryValue, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold: true,
			Size: 11,
		},
	})
	if err != nil {
		return s, fmt.Errorf("create summary value style: %w", err)
	}

	return s, nil
}

// sanitizeExcelCell prevents formula injection by prefixing dangerous leading
// characters with a single quote. Excel interprets cells starting with =, +, -,
// @, \t or \r as formulas, which can be abused for code execution or data theft.
func sanitizeExcelCell(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r', '|':
		return "'" + s
	}
	return s
}

// thinBorders returns a slice of excelize.Border for thin borders on all four sides.
func thinBorders() []excelize.Border {
	sides := []string{"left", "top", "bottom", "right"}
	borders := make([]excelize.Border, len(sides))
	for i, side := range sides {
		borders[i] = excelize.Border{
			Type:  side,
			Color: "#000000",
			Style: 1, // thin
		}
	}
	return borders
}
