// Package testhelpers provides utilities for testing PocketBase-based applications.
package testhelpers

import (
	"strings"
	"testing"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"estimator/collections"
	"estimator/services"
)

// NewTestApp creates a PocketBase instance backed by a temporary directory.
// It bootstraps the app and runs collections.Setup to create all tables.
// The temporary directory is cleaned up automatically when the test finishes.
func NewTestApp(t *testing.T) *pocketbase.PocketBase {
	t.Helper()

	tmpDir := t.TempDir()
	app := pocketbase.NewWithConfig(pocketbase.Config{
		DefaultDataDir: tmpDir,
	})

	if err := app.Bootstrap(); err != nil {
		t.Fatalf("failed to bootstrap test app: %v", err)
	}

	collections.Setup(app)

	return app
}

// CreateTestCatalogService creates a catalog service record and returns it.
func CreateTestCatalogService(t *testing.T, app *pocketbase.PocketBase, slug string, priceMin, priceMax float64) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("catalog_services")
	if err != nil {
		t.Fatalf("failed to find catalog_services collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("slug", slug)
	record.Set("category", "Test category")
	record.Set("name", "Test service "+slug)
	record.Set("price_min", priceMin)
	record.Set("price_max", priceMax)
	record.Set("maintenance_eligible", true)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test catalog service: %v", err)
	}

	return record
}

// CreateTestServiceFactor creates a variation factor linked to a service.
func CreateTestServiceFactor(t *testing.T, app *pocketbase.PocketBase, serviceID, name string, min, max, def float64) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("service_factors")
	if err != nil {
		t.Fatalf("failed to find service_factors collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("service", serviceID)
	record.Set("sort_order", 1)
	record.Set("name", name)
	record.Set("impact_min", min)
	record.Set("impact_max", max)
	record.Set("default_value", def)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test service factor: %v", err)
	}

	return record
}

// CreateTestQuote creates a quote record with the given name and returns it.
func CreateTestQuote(t *testing.T, app *pocketbase.PocketBase, name string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("quotes")
	if err != nil {
		t.Fatalf("failed to find quotes collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("name", name)
	record.Set("client", "Test Client")
	record.Set("client_type", "municipality")
	record.Set("maintenance_rate", services.MaintenanceRateMin)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test quote: %v", err)
	}

	return record
}

// CreateTestQuoteLine creates a quote line priced at the given unit price.
func CreateTestQuoteLine(t *testing.T, app *pocketbase.PocketBase, quoteID, serviceID string, sortOrder, quantity int, unitPrice float64) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("quote_lines")
	if err != nil {
		t.Fatalf("failed to find quote_lines collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("quote", quoteID)
	record.Set("service", serviceID)
	record.Set("sort_order", sortOrder)
	record.Set("complexity_level", "Intermediate")
	record.Set("quantity", quantity)
	record.Set("unit_price", unitPrice)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test quote line: %v", err)
	}

	return record
}

// CreateTestChargeCategory creates a charge category record.
func CreateTestChargeCategory(t *testing.T, app *pocketbase.PocketBase, slug string, amount float64) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("charge_categories")
	if err != nil {
		t.Fatalf("failed to find charge_categories collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("slug", slug)
	record.Set("label", "Test charge "+slug)
	record.Set("annual_amount", amount)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test charge category: %v", err)
	}

	return record
}

// CreateTestScenario creates a scenario record with the given growth rate.
func CreateTestScenario(t *testing.T, app *pocketbase.PocketBase, name string, growthRate float64) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("scenarios")
	if err != nil {
		t.Fatalf("failed to find scenarios collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("name", name)
	record.Set("description", "Test scenario")
	record.Set("growth_rate", growthRate)
	record.Set("charge_inflation", 0.02)
	record.Set("target_revenue", 160000.0)
	record.Set("initial_charges", map[string]float64{"rent": 3000, "software": 1500})
	record.Set("project_mix", []services.ProjectMix{
		{Label: "Small projects", Count: 4, AverageRevenue: 10000},
	})

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test scenario: %v", err)
	}

	return record
}

// AssertBodyContains checks that body contains all specified fragments.
func AssertBodyContains(t *testing.T, body string, fragments ...string) {
	t.Helper()

	for _, frag := range fragments {
		if !strings.Contains(body, frag) {
			t.Errorf("expected body to contain %q, but it was not found\nbody (first 500 chars): %s",
				frag, truncate(body, 500))
		}
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
