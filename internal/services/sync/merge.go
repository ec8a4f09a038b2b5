package sync

import (
	"github.com/google/uuid"

	"github.com/zenithfin/zenith/internal/models"
)

// mergeHoldings replaces every holding tagged with the given broker by the
// freshly synced set, leaving manual entries (empty broker ID) and all other
// brokers' holdings untouched. Synced holdings get new IDs on every sync;
// identity across syncs is not tracked because the broker remains the source
// of truth for its own slice of the portfolio.
func mergeHoldings(existing []models.Holding, broker models.BrokerID, synced []models.Holding) []models.Holding {
	merged := make([]models.Holding, 0, len(existing)+len(synced))
	for _, h := range existing {
		if h.BrokerID == broker {
			continue
		}
		merged = append(merged, h)
	}

	for _, h := range synced {
		h.ID = uuid.NewString()
		h.BrokerID = broker
		merged = append(merged, h)
	}

	return merged
}
