package services

import "bytes"

// bytesReader wraps a byte slice in a bytes.Reader for use with excelize.OpenReader.
func bytesReader(b []byte) *bytes.Reader {
	return bytes.NewReader(b)
}

// testService returns a maintenance-eligible service priced 4000-12000 with
// two variation factors, used as the shared fixture across pricing, quote and
// scenario tests.
func testService() ServiceDefinition {
	return ServiceDefinition{
		ID:          "webapp",
		Category:    "development",
		Name:        "Business web application",
		Description: "Custom web application with authentication and data management",
		Deliverable: "Deployed application with documentation",
		ClientValue: "Replaces spreadsheet workflows",
		PriceMin:    4000,
		PriceMax:    12000,
		Factors: []VariationFactor{
			{Name: "screens", Description: "Number of screens", ImpactMin: 3, ImpactMax: 30, Default: 10},
			{Name: "integrations", Description: "External integrations", ImpactMin: 0, ImpactMax: 8, Default: 2},
		},
		MaintenanceEligible: true,
	}
}

// testServiceNoMaintenance returns a one-off service with a single factor and
// no recurring maintenance.
func testServiceNoMaintenance() ServiceDefinition {
	return ServiceDefinition{
		ID:       "audit",
		Category: "consulting",
		Name:     "Technical audit",
		PriceMin: 1500,
		PriceMax: 5000,
		Factors: []VariationFactor{
			{Name: "scope", Description: "Systems in scope", ImpactMin: 1, ImpactMax: 10, Default: 3},
		},
		MaintenanceEligible: false,
	}
}

func testCatalog() *Catalog {
	c, err := NewCatalog([]ServiceDefinition{testService(), testServiceNoMaintenance()})
	if err != nil {
		panic(err)
	}
	return c
}
