package collections_test

import (
	"math"
	"testing"

	"estimator/collections"
	"estimator/testhelpers"
)

func TestSeed_CreatesData(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	if err := collections.Seed(app); err != nil {
		t.Fatalf("Seed() error: %v", err)
	}

	// Verify the full catalog was created
	servicesCol, _ := app.FindCollectionByNameOrId("catalog_services")
	catalog, err := app.FindAllRecords(servicesCol)
	if err != nil {
		t.Fatalf("query catalog_services error: %v", err)
	}
	if len(catalog) != 13 {
		t.Fatalf("expected 13 catalog services, got %d", len(catalog))
	}

	// Each service carries 3 variation factors
	factorsCol, _ := app.FindCollectionByNameOrId("service_factors")
	factors, _ := app.FindAllRecords(factorsCol)
	if len(factors) != 39 {
		t.Errorf("expected 39 service factors, got %d", len(factors))
	}

	// Default charge categories
	chargesCol, _ := app.FindCollectionByNameOrId("charge_categories")
	charges, _ := app.FindAllRecords(chargesCol)
	if len(charges) != 5 {
		t.Errorf("expected 5 charge categories, got %d", len(charges))
	}

	// Stock scenarios
	scenariosCol, _ := app.FindCollectionByNameOrId("scenarios")
	scenarios, _ := app.FindAllRecords(scenariosCol)
	if len(scenarios) != 3 {
		t.Errorf("expected 3 scenarios, got %d", len(scenarios))
	}

	// Template quotes with their lines
	quotesCol, _ := app.FindCollectionByNameOrId("quotes")
	quotes, _ := app.FindAllRecords(quotesCol)
	if len(quotes) != 5 {
		t.Errorf("expected 5 template quotes, got %d", len(quotes))
	}
	linesCol, _ := app.FindCollectionByNameOrId("quote_lines")
	lines, _ := app.FindAllRecords(linesCol)
	if len(lines) != 24 {
		t.Errorf("expected 24 quote lines, got %d", len(lines))
	}
}

func TestSeed_Idempotent(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	if err := collections.Seed(app); err != nil {
		t.Fatalf("first Seed() error: %v", err)
	}
	if err := collections.Seed(app); err != nil {
		t.Fatalf("second Seed() error: %v", err)
	}

	servicesCol, _ := app.FindCollectionByNameOrId("catalog_services")
	catalog, _ := app.FindAllRecords(servicesCol)
	if len(catalog) != 13 {
		t.Errorf("expected 13 catalog services after idempotent seed, got %d", len(catalog))
	}

	quotesCol, _ := app.FindCollectionByNameOrId("quotes")
	quotes, _ := app.FindAllRecords(quotesCol)
	if len(quotes) != 5 {
		t.Errorf("expected 5 quotes after idempotent seed, got %d", len(quotes))
	}
}

func TestSeed_ServiceDetails(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	if err := collections.Seed(app); err != nil {
		t.Fatalf("Seed() error: %v", err)
	}

	servicesCol, _ := app.FindCollectionByNameOrId("catalog_services")
	records, _ := app.FindRecordsByFilter(
		servicesCol,
		"slug = {:s}",
		"", 1, 0,
		map[string]any{"s": "pipeline_automation"},
	)
	if len(records) == 0 {
		t.Fatal("pipeline_automation service not found")
	}

	svc := records[0]
	if svc.GetFloat("price_min") != 6000 {
		t.Errorf("price_min = %v, want 6000", svc.GetFloat("price_min"))
	}
	if svc.GetFloat("price_max") != 20000 {
		t.Errorf("price_max = %v, want 20000", svc.GetFloat("price_max"))
	}
	if !svc.GetBool("maintenance_eligible") {
		t.Error("pipeline_automation should be maintenance eligible")
	}

	factorsCol, _ := app.FindCollectionByNameOrId("service_factors")
	factors, _ := app.FindRecordsByFilter(
		factorsCol,
		"service = {:id}",
		"sort_order", 0, 0,
		map[string]any{"id": svc.Id},
	)
	if len(factors) != 3 {
		t.Fatalf("expected 3 factors on pipeline_automation, got %d", len(factors))
	}
	if factors[0].GetString("name") != "sources" {
		t.Errorf("first factor = %q, want sources", factors[0].GetString("name"))
	}
}

func TestSeed_TemplateQuotePricing(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	if err := collections.Seed(app); err != nil {
		t.Fatalf("Seed() error: %v", err)
	}

	quotesCol, _ := app.FindCollectionByNameOrId("quotes")
	quotes, _ := app.FindRecordsByFilter(
		quotesCol,
		"name = {:n}",
		"", 1, 0,
		map[string]any{"n": "Nonprofit - Participatory mangrove mapping"},
	)
	if len(quotes) == 0 {
		t.Fatal("nonprofit template quote not found")
	}
	q := quotes[0]
	if !q.GetBool("template") {
		t.Error("seeded quote should be flagged as template")
	}
	if q.GetFloat("maintenance_rate") != 0.10 {
		t.Errorf("maintenance_rate = %v, want 0.10", q.GetFloat("maintenance_rate"))
	}

	linesCol, _ := app.FindCollectionByNameOrId("quote_lines")
	lines, _ := app.FindRecordsByFilter(
		linesCol,
		"quote = {:id}",
		"sort_order", 0, 0,
		map[string]any{"id": q.Id},
	)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines on nonprofit quote, got %d", len(lines))
	}

	// Every seeded line is priced within its service's band.
	servicesCol, _ := app.FindCollectionByNameOrId("catalog_services")
	for _, line := range lines {
		svc, err := app.FindRecordById(servicesCol.Name, line.GetString("service"))
		if err != nil {
			t.Fatalf("line references missing service: %v", err)
		}
		price := line.GetFloat("unit_price")
		lo, hi := svc.GetFloat("price_min"), svc.GetFloat("price_max")
		if price < lo-0.001 || price > hi+0.001 {
			t.Errorf("line on %q priced %v outside [%v, %v]", svc.GetString("slug"), price, lo, hi)
		}
		if math.IsNaN(price) {
			t.Errorf("line on %q has NaN price", svc.GetString("slug"))
		}
	}
}

func TestSeed_SkipsWhenDataExists(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	// Create a catalog record first (not via Seed)
	testhelpers.CreateTestCatalogService(t, app, "pre_existing", 1000, 2000)

	// Seed should skip because the catalog is not empty
	if err := collections.Seed(app); err != nil {
		t.Fatalf("Seed() error: %v", err)
	}

	servicesCol, _ := app.FindCollectionByNameOrId("catalog_services")
	catalog, _ := app.FindAllRecords(servicesCol)
	if len(catalog) != 1 {
		t.Errorf("expected 1 service (pre-existing only), got %d", len(catalog))
	}
	if catalog[0].GetString("slug") != "pre_existing" {
		t.Errorf("expected pre-existing service, got %q", catalog[0].GetString("slug"))
	}
}
