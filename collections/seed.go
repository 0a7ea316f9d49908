package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"estimator/services"
)

// ── Definition structs ───────────────────────────────────────────────────

type factorDef struct {
	name         string
	description  string
	impactMin    float64
	impactMax    float64
	defaultValue float64
}

type serviceDef struct {
	slug                string
	category            string
	name                string
	description         string
	deliverable         string
	clientValue         string
	priceMin            float64
	priceMax            float64
	maintenanceEligible bool
	factors             []factorDef
}

type chargeDef struct {
	slug   string
	label  string
	amount float64
}

type quoteLineDef struct {
	serviceSlug     string
	complexityLevel string             // used when factorValues is nil
	factorValues    map[string]float64 // factor pricing when non-nil
	quantity        int
}

type quoteDef struct {
	name       string
	client     string
	clientType string
	lines      []quoteLineDef
}

// definition converts a seed entry into the engine's service definition so
// seeded quote lines are priced with the same code the handlers use.
func (d serviceDef) definition() services.ServiceDefinition {
	def := services.ServiceDefinition{
		ID:                  d.slug,
		Category:            d.category,
		Name:                d.name,
		Description:         d.description,
		Deliverable:         d.deliverable,
		ClientValue:         d.clientValue,
		PriceMin:            d.priceMin,
		PriceMax:            d.priceMax,
		MaintenanceEligible: d.maintenanceEligible,
	}
	for _, f := range d.factors {
		def.Factors = append(def.Factors, services.VariationFactor{
			Name:        f.name,
			Description: f.description,
			ImpactMin:   f.impactMin,
			ImpactMax:   f.impactMax,
			Default:     f.defaultValue,
		})
	}
	return def
}

// seedServices is the full consultancy catalog: audits, data engineering,
// spatial analysis, remote sensing, cartography tooling and training.
func seedServices() []serviceDef {
	return []serviceDef{
		{
			slug:        "spatial_intelligence_audit",
			category:    "Audit",
			name:        "Spatial intelligence audit",
			description: "Full diagnosis of the geospatial information system",
			deliverable: "360 report: data diagnosis, analytical needs and value levers",
			clientValue: "Complete view of strengths and weaknesses, strategic alignment, targeted recommendations",
			priceMin:    4000,
			priceMax:    12000,
			factors: []factorDef{
				{"interview_hours", "Hours of stakeholder interviews", 2, 12, 5},
				{"stakeholders", "Number of people interviewed", 2, 10, 4},
				{"strategic_axes", "Number of strategic axes analyzed", 1, 5, 2},
			},
		},
		{
			slug:        "data_foundation_design",
			category:    "Spatial data engineering and governance",
			name:        "Shared spatial data foundation design",
			description: "Architecture and structuring of spatial data",
			deliverable: "Data registry covering structured and unstructured data",
			clientValue: "Centralized, simplified data, GDPR compliance, better collaboration",
			priceMin:    4000,
			priceMax:    12000,
			factors: []factorDef{
				{"databases", "Number of databases to integrate", 1, 10, 3},
				{"format_diversity", "Complexity of the formats involved", 1, 5, 2},
				{"existing_catalog", "Absence (0) or presence (1) of a data catalog", 0, 1, 0},
			},
		},
		{
			slug:        "data_cleaning_migration",
			category:    "Spatial data engineering and governance",
			name:        "Data cleaning, harmonization and migration",
			description: "Improving the quality of existing data",
			deliverable: "Cleaned, homogeneous, documented database",
			clientValue: "Increased data reliability, streamlined processes",
			priceMin:    4000,
			priceMax:    10000,
			factors: []factorDef{
				{"volume_gb", "Data volume in GB", 1, 100, 10},
				{"datasets", "Number of datasets", 1, 20, 5},
				{"unstructured_data", "Presence (1) or absence (0) of unstructured data", 0, 1, 0},
			},
		},
		{
			slug:                "pipeline_automation",
			category:            "Spatial data engineering and governance",
			name:                "Data flow automation (ETL, API)",
			description:         "Automated data pipelines",
			deliverable:         "Service deployed to cloud or on-premise for automation",
			clientValue:         "Data available for business use and analytical exploitation",
			priceMin:            6000,
			priceMax:            20000,
			maintenanceEligible: true,
			factors: []factorDef{
				{"sources", "Number of sources to synchronize", 1, 10, 3},
				{"update_frequency", "Daily (1) vs monthly (0)", 0, 1, 0.5},
				{"destinations", "Number of target systems", 1, 5, 2},
			},
		},
		{
			slug:        "exploratory_analysis",
			category:    "Data science and spatial analysis",
			name:        "Exploratory statistical analysis",
			description: "Statistical exploration of the data",
			deliverable: "Detailed exploratory statistics report",
			clientValue: "Distributions and trends identified, data validated",
			priceMin:    2000,
			priceMax:    5000,
			factors: []factorDef{
				{"variables", "Number of variables analyzed", 5, 50, 20},
				{"granularity", "Municipality (1) vs district (2) vs address (3)", 1, 3, 2},
				{"preprocessing", "Required reprocessing effort", 0, 1, 0.5},
			},
		},
		{
			slug:        "advanced_modeling",
			category:    "Data science and spatial analysis",
			name:        "Advanced modeling",
			description: "Machine learning, time series, clustering",
			deliverable: "Predictive models, prospective maps",
			clientValue: "Effective anticipation, resource optimization, reduced uncertainty",
			priceMin:    5000,
			priceMax:    15000,
			factors: []factorDef{
				{"model_complexity", "Simple (1) vs complex (3)", 1, 3, 2},
				{"sample_size", "Sample size in thousands of rows", 1, 100, 10},
				{"model_scenarios", "Number of model variants", 1, 5, 2},
			},
		},
		{
			slug:        "spatial_analysis",
			category:    "Data science and spatial analysis",
			name:        "Spatial analysis",
			description: "Analysis of the geographic dimension",
			deliverable: "Analysis report and spatialized datasets",
			clientValue: "Understanding of the territory's spatial dynamics",
			priceMin:    5000,
			priceMax:    15000,
			factors: []factorDef{
				{"territory_extent", "Municipality (1) vs region (3)", 1, 3, 2},
				{"layers", "Number of spatial layers", 1, 10, 3},
				{"mobility_analysis", "With (1) or without (0) mobility analysis", 0, 1, 0},
			},
		},
		{
			slug:        "field_data_collection",
			category:    "Data collection and remote sensing",
			name:        "Field data collection",
			description: "On-site data gathering campaigns",
			deliverable: "Collection tooling, participatory mapping workshops",
			clientValue: "Real, reliable field values for territorial analysis",
			priceMin:    8000,
			priceMax:    25000,
			factors: []factorDef{
				{"area_km2", "Surveyed area in square kilometers", 1, 100, 10},
				{"collection_points", "Points to collect", 10, 500, 100},
				{"method", "Paper (0) vs mobile (0.5) vs drone (1)", 0, 1, 0.5},
			},
		},
		{
			slug:        "satellite_classification",
			category:    "Data collection and remote sensing",
			name:        "Satellite image classification",
			description: "Processing and classification of imagery",
			deliverable: "Classification maps, surface area analysis",
			clientValue: "Monitoring and impact evaluation of projects",
			priceMin:    5000,
			priceMax:    12000,
			factors: []factorDef{
				{"images", "Number of images processed", 1, 50, 10},
				{"resolution", "10m (0) vs 50cm (1)", 0, 1, 0.5},
				{"classes", "Number of classes to discriminate", 2, 10, 4},
			},
		},
		{
			slug:        "print_cartography",
			category:    "Cartography and business tooling",
			name:        "Print cartography",
			description: "Map production for publishing",
			deliverable: "Graphic charter, atlases, map sheets",
			clientValue: "Graphic identity and distribution fit for the target audience",
			priceMin:    3000,
			priceMax:    10000,
			factors: []factorDef{
				{"maps", "Number of final maps", 1, 20, 5},
				{"formats", "Number of distinct output formats", 1, 5, 2},
				{"customization", "Standard (0) vs bespoke (1)", 0, 1, 0.5},
			},
		},
		{
			slug:                "web_maps",
			category:            "Cartography and business tooling",
			name:                "Interactive web maps",
			description:         "Web mapping development",
			deliverable:         "Responsive, interactive web maps",
			clientValue:         "Easy public access, external showcasing of the data",
			priceMin:            5000,
			priceMax:            20000,
			maintenanceEligible: true,
			factors: []factorDef{
				{"layers", "Interactive layers", 1, 20, 5},
				{"dynamic_filters", "Presence (1) or absence (0) of dynamic filters", 0, 1, 1},
				{"live_database", "Live (1) or static (0) database connection", 0, 1, 0},
			},
		},
		{
			slug:                "dashboards",
			category:            "Cartography and business tooling",
			name:                "Dynamic dashboards",
			description:         "Interactive dashboard development",
			deliverable:         "Customized interactive dashboards",
			clientValue:         "Day-to-day decision support, increased efficiency",
			priceMin:            5000,
			priceMax:            20000,
			maintenanceEligible: true,
			factors: []factorDef{
				{"indicators", "Number of indicators", 5, 50, 10},
				{"refresh_frequency", "Real time (1) vs weekly (0)", 0, 1, 0.5},
				{"sources", "Diversity of the sources", 1, 10, 3},
			},
		},
		{
			slug:        "training",
			category:    "Client services",
			name:        "Training and knowledge transfer",
			description: "Training sessions on tools and methods",
			deliverable: "Training sessions, business documentation",
			clientValue: "Stronger team autonomy, reduced support costs",
			priceMin:    1200,
			priceMax:    2000,
			factors: []factorDef{
				{"participants", "Number of participants", 1, 20, 5},
				{"custom_materials", "With (1) or without (0) customized materials", 0, 1, 1},
				{"practical_exercises", "With (1) or without (0) hands-on exercises", 0, 1, 1},
			},
		},
	}
}

// seedCharges is the baseline yearly cost structure.
func seedCharges() []chargeDef {
	return []chargeDef{
		{"rent", "Office rent and utilities", 3000},
		{"software", "Software licenses and hosting", 1500},
		{"travel", "Travel and client visits", 2000},
		{"equipment", "Hardware and equipment", 1000},
		{"admin", "Accounting, insurance and admin", 1500},
	}
}

// seedQuoteTemplates are ready-made estimates modeled on typical clients,
// from a small rural municipality up to a regional authority.
func seedQuoteTemplates() []quoteDef {
	return []quoteDef{
		{
			name:       "Intercommunality - Land planning and property management",
			client:     "Typical intercommunality",
			clientType: "intercommunality",
			lines: []quoteLineDef{
				{serviceSlug: "spatial_intelligence_audit", quantity: 1,
					factorValues: map[string]float64{"interview_hours": 6, "stakeholders": 6, "strategic_axes": 4}},
				{serviceSlug: "data_foundation_design", quantity: 1,
					factorValues: map[string]float64{"databases": 7, "format_diversity": 4, "existing_catalog": 0}},
				{serviceSlug: "data_cleaning_migration", quantity: 1,
					factorValues: map[string]float64{"volume_gb": 50, "datasets": 10, "unstructured_data": 1}},
				{serviceSlug: "pipeline_automation", quantity: 1,
					factorValues: map[string]float64{"sources": 5, "update_frequency": 0.5, "destinations": 3}},
				{serviceSlug: "dashboards", quantity: 1,
					factorValues: map[string]float64{"indicators": 15, "refresh_frequency": 0.5, "sources": 4}},
				{serviceSlug: "training", complexityLevel: "Advanced", quantity: 3},
			},
		},
		{
			name:       "Rural town - Housing vacancy diagnosis",
			client:     "Small rural municipality",
			clientType: "municipality",
			lines: []quoteLineDef{
				{serviceSlug: "spatial_intelligence_audit", quantity: 1,
					factorValues: map[string]float64{"interview_hours": 3, "stakeholders": 3, "strategic_axes": 2}},
				{serviceSlug: "exploratory_analysis", quantity: 1,
					factorValues: map[string]float64{"variables": 15, "granularity": 2, "preprocessing": 0.5}},
				{serviceSlug: "spatial_analysis", quantity: 1,
					factorValues: map[string]float64{"territory_extent": 1, "layers": 4, "mobility_analysis": 0}},
				{serviceSlug: "print_cartography", quantity: 1,
					factorValues: map[string]float64{"maps": 4, "formats": 1, "customization": 0}},
			},
		},
		{
			name:       "Developer - Market analysis for 300 homes",
			client:     "Property developer",
			clientType: "private developer",
			lines: []quoteLineDef{
				{serviceSlug: "spatial_intelligence_audit", quantity: 1,
					factorValues: map[string]float64{"interview_hours": 2, "stakeholders": 2, "strategic_axes": 1}},
				{serviceSlug: "advanced_modeling", quantity: 1,
					factorValues: map[string]float64{"model_complexity": 2.5, "sample_size": 12, "model_scenarios": 2}},
				{serviceSlug: "spatial_analysis", quantity: 1,
					factorValues: map[string]float64{"territory_extent": 2, "layers": 5, "mobility_analysis": 1}},
				{serviceSlug: "dashboards", quantity: 1,
					factorValues: map[string]float64{"indicators": 8, "refresh_frequency": 0, "sources": 2}},
			},
		},
		{
			name:       "Regional authority - Spatial observation system",
			client:     "Regional authority",
			clientType: "regional authority",
			lines: []quoteLineDef{
				{serviceSlug: "spatial_intelligence_audit", quantity: 1,
					factorValues: map[string]float64{"interview_hours": 8, "stakeholders": 8, "strategic_axes": 4}},
				{serviceSlug: "data_foundation_design", quantity: 1,
					factorValues: map[string]float64{"databases": 6, "format_diversity": 4, "existing_catalog": 0}},
				{serviceSlug: "data_cleaning_migration", quantity: 1,
					factorValues: map[string]float64{"volume_gb": 80, "datasets": 12, "unstructured_data": 1}},
				{serviceSlug: "print_cartography", quantity: 1,
					factorValues: map[string]float64{"maps": 30, "formats": 2, "customization": 1}},
				{serviceSlug: "web_maps", quantity: 1,
					factorValues: map[string]float64{"layers": 8, "dynamic_filters": 1, "live_database": 0}},
				{serviceSlug: "dashboards", quantity: 1,
					factorValues: map[string]float64{"indicators": 20, "refresh_frequency": 0.5, "sources": 5}},
				{serviceSlug: "training", complexityLevel: "Intermediate", quantity: 3},
			},
		},
		{
			name:       "Nonprofit - Participatory mangrove mapping",
			client:     "Conservation nonprofit",
			clientType: "nonprofit",
			lines: []quoteLineDef{
				{serviceSlug: "field_data_collection", quantity: 1,
					factorValues: map[string]float64{"area_km2": 5, "collection_points": 50, "method": 0.5}},
				{serviceSlug: "print_cartography", quantity: 1,
					factorValues: map[string]float64{"maps": 3, "formats": 1, "customization": 0}},
				{serviceSlug: "training", quantity: 1,
					factorValues: map[string]float64{"participants": 10, "custom_materials": 0, "practical_exercises": 1}},
			},
		},
	}
}

// Seed populates the catalog, default charge categories, stock scenarios and
// template quotes. It is safe to call on every startup because it returns
// early if any catalog services already exist.
func Seed(app *pocketbase.PocketBase) error {
	// ── idempotency: skip if the catalog is already populated ────────
	servicesCol, err := app.FindCollectionByNameOrId("catalog_services")
	if err != nil {
		return fmt.Errorf("seed: could not find catalog_services collection: %w", err)
	}
	existing, err := app.FindAllRecords(servicesCol)
	if err != nil {
		return fmt.Errorf("seed: could not query catalog_services: %w", err)
	}
	if len(existing) > 0 {
		return nil // already seeded
	}

	log.Println("seed: catalog is empty – inserting seed data …")

	factorsCol, err := app.FindCollectionByNameOrId("service_factors")
	if err != nil {
		return fmt.Errorf("seed: could not find service_factors collection: %w", err)
	}
	quotesCol, err := app.FindCollectionByNameOrId("quotes")
	if err != nil {
		return fmt.Errorf("seed: could not find quotes collection: %w", err)
	}
	linesCol, err := app.FindCollectionByNameOrId("quote_lines")
	if err != nil {
		return fmt.Errorf("seed: could not find quote_lines collection: %w", err)
	}
	chargesCol, err := app.FindCollectionByNameOrId("charge_categories")
	if err != nil {
		return fmt.Errorf("seed: could not find charge_categories collection: %w", err)
	}
	scenariosCol, err := app.FindCollectionByNameOrId("scenarios")
	if err != nil {
		return fmt.Errorf("seed: could not find scenarios collection: %w", err)
	}

	// ── catalog services with their variation factors ────────────────
	defs := make(map[string]services.ServiceDefinition)
	recordIDs := make(map[string]string)

	for _, sd := range seedServices() {
		r := core.NewRecord(servicesCol)
		r.Set("slug", sd.slug)
		r.Set("category", sd.category)
		r.Set("name", sd.name)
		r.Set("description", sd.description)
		r.Set("deliverable", sd.deliverable)
		r.Set("client_value", sd.clientValue)
		r.Set("price_min", sd.priceMin)
		r.Set("price_max", sd.priceMax)
		r.Set("maintenance_eligible", sd.maintenanceEligible)
		if err := app.Save(r); err != nil {
			return fmt.Errorf("seed: save catalog service %q: %w", sd.slug, err)
		}

		for i, f := range sd.factors {
			fr := core.NewRecord(factorsCol)
			fr.Set("service", r.Id)
			fr.Set("sort_order", i+1)
			fr.Set("name", f.name)
			fr.Set("description", f.description)
			fr.Set("impact_min", f.impactMin)
			fr.Set("impact_max", f.impactMax)
			fr.Set("default_value", f.defaultValue)
			if err := app.Save(fr); err != nil {
				return fmt.Errorf("seed: save factor %q of %q: %w", f.name, sd.slug, err)
			}
		}

		defs[sd.slug] = sd.definition()
		recordIDs[sd.slug] = r.Id
	}

	// ── default charge categories ────────────────────────────────────
	for _, cd := range seedCharges() {
		r := core.NewRecord(chargesCol)
		r.Set("slug", cd.slug)
		r.Set("label", cd.label)
		r.Set("annual_amount", cd.amount)
		if err := app.Save(r); err != nil {
			return fmt.Errorf("seed: save charge category %q: %w", cd.slug, err)
		}
	}

	// ── stock scenarios ──────────────────────────────────────────────
	for _, s := range services.BuiltinScenarios() {
		r := core.NewRecord(scenariosCol)
		r.Set("name", s.Name)
		r.Set("description", s.Description)
		r.Set("growth_rate", s.GrowthRate)
		r.Set("charge_inflation", s.ChargeInflation)
		r.Set("target_revenue", s.TargetRevenue)
		r.Set("initial_charges", s.InitialFixedCharges)
		r.Set("project_mix", s.Mix)
		if err := app.Save(r); err != nil {
			return fmt.Errorf("seed: save scenario %q: %w", s.Name, err)
		}
	}

	// ── template quotes ──────────────────────────────────────────────
	for _, qd := range seedQuoteTemplates() {
		qr := core.NewRecord(quotesCol)
		qr.Set("name", qd.name)
		qr.Set("client", qd.client)
		qr.Set("client_type", qd.clientType)
		qr.Set("maintenance_rate", services.MaintenanceRateMin)
		qr.Set("template", true)
		if err := app.Save(qr); err != nil {
			return fmt.Errorf("seed: save quote %q: %w", qd.name, err)
		}

		for i, line := range qd.lines {
			def, ok := defs[line.serviceSlug]
			if !ok {
				return fmt.Errorf("seed: quote %q references unknown service %q", qd.name, line.serviceSlug)
			}

			lr := core.NewRecord(linesCol)
			lr.Set("quote", qr.Id)
			lr.Set("service", recordIDs[line.serviceSlug])
			lr.Set("sort_order", i+1)
			lr.Set("quantity", line.quantity)
			if line.factorValues != nil {
				lr.Set("factor_values", line.factorValues)
				lr.Set("unit_price", services.PriceForFactors(def, line.factorValues))
			} else {
				lr.Set("complexity_level", line.complexityLevel)
				lr.Set("unit_price", services.PriceForComplexity(def, services.DefaultComplexityScale, line.complexityLevel))
			}
			if err := app.Save(lr); err != nil {
				return fmt.Errorf("seed: save line %d of %q: %w", i+1, qd.name, err)
			}
		}
	}

	log.Println("seed: done.")
	return nil
}
