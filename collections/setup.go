package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// Setup programmatically creates/ensures the catalog_services, service_factors,
// quotes, quote_lines, charge_categories and scenarios collections exist.
func Setup(app *pocketbase.PocketBase) {
	catalogServices := ensureCollection(app, "catalog_services", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "slug", Required: true})
		c.Fields.Add(&core.TextField{Name: "category", Required: true})
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.TextField{Name: "description", Required: false})
		c.Fields.Add(&core.TextField{Name: "deliverable", Required: false})
		c.Fields.Add(&core.TextField{Name: "client_value", Required: false})
		c.Fields.Add(&core.NumberField{Name: "price_min", Required: true})
		c.Fields.Add(&core.NumberField{Name: "price_max", Required: true})
		c.Fields.Add(&core.BoolField{Name: "maintenance_eligible"})
	})

	ensureCollection(app, "service_factors", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "service",
			Required:      true,
			CollectionId:  catalogServices.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.NumberField{Name: "sort_order", Required: true})
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.TextField{Name: "description", Required: false})
		c.Fields.Add(&core.NumberField{Name: "impact_min", Required: false})
		c.Fields.Add(&core.NumberField{Name: "impact_max", Required: true})
		c.Fields.Add(&core.NumberField{Name: "default_value", Required: false})
	})

	quotes := ensureCollection(app, "quotes", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.TextField{Name: "client", Required: false})
		c.Fields.Add(&core.TextField{Name: "client_type", Required: false})
		c.Fields.Add(&core.NumberField{Name: "maintenance_rate", Required: true})
		c.Fields.Add(&core.BoolField{Name: "template"})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})

	ensureCollection(app, "quote_lines", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "quote",
			Required:      true,
			CollectionId:  quotes.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.RelationField{
			Name:          "service",
			Required:      true,
			CollectionId:  catalogServices.Id,
			CascadeDelete: false,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.NumberField{Name: "sort_order", Required: true})
		c.Fields.Add(&core.TextField{Name: "complexity_level", Required: false})
		c.Fields.Add(&core.JSONField{Name: "factor_values", Required: false})
		c.Fields.Add(&core.NumberField{Name: "quantity", Required: true})
		c.Fields.Add(&core.NumberField{Name: "unit_price", Required: false})
	})

	ensureCollection(app, "charge_categories", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "slug", Required: true})
		c.Fields.Add(&core.TextField{Name: "label", Required: true})
		c.Fields.Add(&core.NumberField{Name: "annual_amount", Required: false})
		c.Fields.Add(&core.NumberField{Name: "inflation_override", Required: false})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})

	ensureCollection(app, "scenarios", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.TextField{Name: "description", Required: false})
		c.Fields.Add(&core.NumberField{Name: "growth_rate", Required: false})
		c.Fields.Add(&core.NumberField{Name: "charge_inflation", Required: false})
		c.Fields.Add(&core.NumberField{Name: "target_revenue", Required: false})
		c.Fields.Add(&core.JSONField{Name: "initial_charges", Required: false})
		c.Fields.Add(&core.JSONField{Name: "project_mix", Required: false})
	})
}

// ensureCollection checks if a collection already exists by name. If it does,
// the existing collection is returned. Otherwise a new base collection is
// created, the addFields callback is invoked to populate its fields, and the
// collection is saved.
func ensureCollection(app *pocketbase.PocketBase, name string, addFields func(*core.Collection)) *core.Collection {
	existing, err := app.FindCollectionByNameOrId(name)
	if err == nil && existing != nil {
		log.Printf("Collection %q already exists, skipping creation.\n", name)
		return existing
	}

	collection := core.NewBaseCollection(name)
	addFields(collection)

	if err := app.Save(collection); err != nil {
		log.Fatalf("Failed to create collection %q: %v", name, err)
	}

	fmt.Printf("Created collection %q (id=%s)\n", name, collection.Id)
	return collection
}
