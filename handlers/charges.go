package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"estimator/services"
)

// chargeResponse is the JSON shape of one charge category.
type chargeResponse struct {
	ID                string  `json:"id"`
	Slug              string  `json:"slug"`
	Label             string  `json:"label"`
	AnnualAmount      float64 `json:"annual_amount"`
	InflationOverride float64 `json:"inflation_override,omitempty"`
	AmountFormatted   string  `json:"amount_formatted"`
}

// ChargeUpsertRequest is the expected JSON body for creating or updating a
// charge category.
type ChargeUpsertRequest struct {
	Slug              string  `json:"slug"`
	Label             string  `json:"label"`
	AnnualAmount      float64 `json:"annual_amount"`
	InflationOverride float64 `json:"inflation_override"`
}

func chargeToResponse(rec *core.Record) chargeResponse {
	return chargeResponse{
		ID:                rec.Id,
		Slug:              rec.GetString("slug"),
		Label:             rec.GetString("label"),
		AnnualAmount:      rec.GetFloat("annual_amount"),
		InflationOverride: rec.GetFloat("inflation_override"),
		AmountFormatted:   services.FormatEUR(rec.GetFloat("annual_amount")),
	}
}

// HandleChargeList returns a handler listing all charge categories with the
// total annual cost structure.
// GET /api/charges
func HandleChargeList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		chargesCol, err := app.FindCollectionByNameOrId("charge_categories")
		if err != nil {
			log.Printf("charge_list: %v", err)
			return e.String(http.StatusInternalServerError, "Internal error")
		}

		recs, err := app.FindRecordsByFilter(chargesCol, "id != ''", "slug", 0, 0, nil)
		if err != nil {
			log.Printf("charge_list: query: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to list charges")
		}

		var total float64
		charges := make([]chargeResponse, 0, len(recs))
		for _, rec := range recs {
			charges = append(charges, chargeToResponse(rec))
			total += rec.GetFloat("annual_amount")
		}

		return e.JSON(http.StatusOK, map[string]any{
			"charges":         charges,
			"total":           total,
			"total_formatted": services.FormatEUR(total),
		})
	}
}

// HandleChargeUpsert returns a handler that creates a charge category or
// updates the one matching the slug.
// POST /api/charges
func HandleChargeUpsert(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var req ChargeUpsertRequest
		if err := e.BindBody(&req); err != nil {
			return e.String(http.StatusBadRequest, "Invalid request body")
		}

		req.Slug = strings.TrimSpace(req.Slug)
		if req.Slug == "" {
			return e.String(http.StatusBadRequest, "Charge slug is required")
		}
		if req.AnnualAmount < 0 {
			return e.String(http.StatusBadRequest, "Annual amount cannot be negative")
		}
		if req.InflationOverride < 0 || req.InflationOverride > 0.5 {
			return e.String(http.StatusBadRequest, "Inflation override out of range")
		}

		chargesCol, err := app.FindCollectionByNameOrId("charge_categories")
		if err != nil {
			log.Printf("charge_upsert: %v", err)
			return e.String(http.StatusInternalServerError, "Internal error")
		}

		var rec *core.Record
		status := http.StatusOK
		existing, _ := app.FindRecordsByFilter(chargesCol, "slug = {:slug}", "", 1, 0,
			map[string]any{"slug": req.Slug})
		if len(existing) > 0 {
			rec = existing[0]
		} else {
			rec = core.NewRecord(chargesCol)
			rec.Set("slug", req.Slug)
			status = http.StatusCreated
		}

		label := strings.TrimSpace(req.Label)
		if label == "" {
			label = req.Slug
		}
		rec.Set("label", label)
		rec.Set("annual_amount", req.AnnualAmount)
		rec.Set("inflation_override", req.InflationOverride)

		if err := app.Save(rec); err != nil {
			log.Printf("charge_upsert: save %q: %v", req.Slug, err)
			return e.String(http.StatusInternalServerError, "Failed to save charge")
		}

		return e.JSON(status, chargeToResponse(rec))
	}
}

// HandleChargeDelete returns a handler that removes a charge category.
// DELETE /api/charges/{id}
func HandleChargeDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		chargeID := e.Request.PathValue("id")
		if chargeID == "" {
			return e.String(http.StatusBadRequest, "Missing charge ID")
		}

		rec, err := app.FindRecordById("charge_categories", chargeID)
		if err != nil {
			return e.String(http.StatusNotFound, "Charge not found")
		}

		if err := app.Delete(rec); err != nil {
			log.Printf("charge_delete: %s: %v", chargeID, err)
			return e.String(http.StatusInternalServerError, "Failed to delete charge")
		}

		return e.JSON(http.StatusOK, map[string]any{"deleted": chargeID})
	}
}
