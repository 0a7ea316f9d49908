package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"

	"estimator/services"
)

// MigrateMaintenanceRates clamps every quote's maintenance_rate into the
// supported band. Quotes imported from earlier versions stored the rate as a
// free number, so out-of-band or missing rates are normalized here once.
// Safe to call on every startup -- returns early if nothing to fix.
func MigrateMaintenanceRates(app *pocketbase.PocketBase) error {
	quotesCol, err := app.FindCollectionByNameOrId("quotes")
	if err != nil {
		return fmt.Errorf("migrate: could not find quotes collection: %w", err)
	}

	quotes, err := app.FindAllRecords(quotesCol)
	if err != nil {
		return fmt.Errorf("migrate: could not query quotes: %w", err)
	}

	fixed := 0
	for _, q := range quotes {
		rate := q.GetFloat("maintenance_rate")
		clamped := rate
		if clamped < services.MaintenanceRateMin {
			clamped = services.MaintenanceRateMin
		}
		if clamped > services.MaintenanceRateMax {
			clamped = services.MaintenanceRateMax
		}
		if clamped == rate {
			continue
		}

		q.Set("maintenance_rate", clamped)
		if err := app.Save(q); err != nil {
			log.Printf("migrate: failed to fix maintenance rate on quote %s: %v\n", q.Id, err)
			continue
		}
		fixed++
	}

	if fixed > 0 {
		log.Printf("migrate: normalized maintenance rate on %d quote(s).\n", fixed)
	}
	return nil
}
