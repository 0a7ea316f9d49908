package main

import (
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"estimator/collections"
	"estimator/handlers"
)

func main() {
	app := pocketbase.New()

	// Create collections and seed data on startup
	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		collections.Setup(app)
		if err := collections.Seed(app); err != nil {
			log.Printf("Warning: seed data failed: %v", err)
		}
		if err := collections.MigrateMaintenanceRates(app); err != nil {
			log.Printf("Warning: maintenance rate migration failed: %v", err)
		}
		return se.Next()
	})

	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		// ── Catalog ──────────────────────────────────────────────
		se.Router.GET("/api/catalog", handlers.HandleCatalogList(app))

		// ── Quote CRUD ───────────────────────────────────────────
		se.Router.GET("/api/quotes", handlers.HandleQuoteList(app))
		se.Router.POST("/api/quotes", handlers.HandleQuoteCreate(app))
		se.Router.GET("/api/quotes/{id}", handlers.HandleQuoteView(app))
		se.Router.PATCH("/api/quotes/{id}", handlers.HandleQuoteUpdate(app))
		se.Router.DELETE("/api/quotes/{id}", handlers.HandleQuoteDelete(app))
		se.Router.POST("/api/quotes/{id}/duplicate", handlers.HandleQuoteDuplicate(app))

		// ── Quote lines ──────────────────────────────────────────
		se.Router.POST("/api/quotes/{id}/lines", handlers.HandleQuoteLineAdd(app))
		se.Router.DELETE("/api/quotes/{id}/lines/{lineId}", handlers.HandleQuoteLineRemove(app))
		se.Router.PUT("/api/quotes/{id}/lines/{lineId}/complexity", handlers.HandleQuoteLineComplexity(app))
		se.Router.PUT("/api/quotes/{id}/lines/{lineId}/factors", handlers.HandleQuoteLineFactors(app))

		// ── Quote export ─────────────────────────────────────────
		se.Router.GET("/api/quotes/{id}/export/excel", handlers.HandleQuoteExportExcel(app))
		se.Router.GET("/api/quotes/{id}/export/pdf", handlers.HandleQuoteExportPDF(app))

		// ── Projection ───────────────────────────────────────────
		se.Router.POST("/api/projection", handlers.HandleProjection(app))
		se.Router.GET("/api/projection/export/excel", handlers.HandleProjectionExportExcel(app))
		se.Router.GET("/api/projection/export/pdf", handlers.HandleProjectionExportPDF(app))

		// ── Scenarios ────────────────────────────────────────────
		se.Router.GET("/api/scenarios", handlers.HandleScenarioList(app))
		se.Router.POST("/api/scenarios/{id}/projection", handlers.HandleScenarioProjection(app))
		se.Router.POST("/api/scenarios/{id}/apply", handlers.HandleScenarioApply(app))

		// ── Charge categories ────────────────────────────────────
		se.Router.GET("/api/charges", handlers.HandleChargeList(app))
		se.Router.POST("/api/charges", handlers.HandleChargeUpsert(app))
		se.Router.DELETE("/api/charges/{id}", handlers.HandleChargeDelete(app))

		return se.Next()
	})

	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}
