package services

import (
	"fmt"
	"strings"
)

// FormatEUR formats a float64 amount into euro notation with thousands
// separators (e.g., 1,234,567.89 €). The result always includes exactly
// 2 decimal places.
func FormatEUR(amount float64) string {
	negative := false
	if amount < 0 {
		negative = true
		amount = -amount
	}

	// Format with 2 decimal places.
	raw := fmt.Sprintf("%.2f", amount)

	// Split into integer and decimal parts.
	parts := strings.SplitN(raw, ".", 2)
	intPart := parts[0]
	decPart := parts[1]

	formatted := applyThousandsGrouping(intPart)

	result := formatted + "." + decPart + " €"
	if negative {
		result = "-" + result
	}
	return result
}

// FormatPercent renders a fraction as a percentage with one decimal place,
// e.g. 0.085 -> "8.5%".
func FormatPercent(fraction float64) string {
	return fmt.Sprintf("%.1f%%", fraction*100)
}

// applyThousandsGrouping inserts commas into an integer string every 3
// digits from the right.
func applyThousandsGrouping(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}

	result := s[n-3:]
	remaining := s[:n-3]

	for len(remaining) > 3 {
		result = remaining[len(remaining)-3:] + "," + result
		remaining = remaining[:len(remaining)-3]
	}
	if len(remaining) > 0 {
		result = remaining + "," + result
	}

	return result
}
