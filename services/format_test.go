package services

import "testing"

func TestFormatEUR_Values(t *testing.T) {
	tests := []struct {
		name   string
		input  float64
		expect string
	}{
		{"zero", 0, "0.00 €"},
		{"small", 42.5, "42.50 €"},
		{"hundreds", 999.99, "999.99 €"},
		{"thousands", 1234.56, "1,234.56 €"},
		{"tens of thousands", 25000, "25,000.00 €"},
		{"hundreds of thousands", 137142.86, "137,142.86 €"},
		{"millions", 1234567.89, "1,234,567.89 €"},
		{"negative", -2125, "-2,125.00 €"},
		{"rounds to two decimals", 0.005, "0.01 €"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatEUR(tt.input)
			if got != tt.expect {
				t.Errorf("FormatEUR(%v) = %q, want %q", tt.input, got, tt.expect)
			}
		})
	}
}

func TestFormatPercent(t *testing.T) {
	tests := []struct {
		name   string
		input  float64
		expect string
	}{
		{"zero", 0, "0.0%"},
		{"vat rate", 0.085, "8.5%"},
		{"corporate tax", 0.25, "25.0%"},
		{"whole", 1, "100.0%"},
		{"negative margin", -0.125, "-12.5%"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatPercent(tt.input)
			if got != tt.expect {
				t.Errorf("FormatPercent(%v) = %q, want %q", tt.input, got, tt.expect)
			}
		})
	}
}
