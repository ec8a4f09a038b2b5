// Package portfolio manages investment holdings: manual entries, aggregate
// valuation, and allocation rendering. Broker-synced holdings enter through
// the sync service; this package never mutates them beyond deletion.
package portfolio

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/zenithfin/zenith/internal/common"
	"github.com/zenithfin/zenith/internal/interfaces"
	"github.com/zenithfin/zenith/internal/models"
)

// manualKey groups holdings without a broker in the allocation breakdown.
const manualKey = "manual"

// Service implements the portfolio service over the data store.
type Service struct {
	store  interfaces.DataStore
	logger *common.Logger
}

// NewService creates a portfolio service
func NewService(store interfaces.DataStore, logger *common.Logger) *Service {
	return &Service{
		store:  store,
		logger: logger,
	}
}

// ListHoldings returns every holding, synced and manual.
func (s *Service) ListHoldings(ctx context.Context, userID string) ([]models.Holding, error) {
	data, err := s.loadData(ctx, userID)
	if err != nil {
		return nil, err
	}
	return data.Holdings, nil
}

// AddHolding records a manual holding. The broker ID is cleared so a manual
// entry can never be swept away by a broker sync, and per-unit valuation is
// assumed unless the caller asked for total mode.
func (s *Service) AddHolding(ctx context.Context, userID string, h models.Holding) (*models.Holding, error) {
	if strings.TrimSpace(h.Name) == "" {
		return nil, fmt.Errorf("holding name is required")
	}
	if h.Quantity <= 0 {
		return nil, fmt.Errorf("holding quantity must be positive")
	}

	h.ID = uuid.NewString()
	h.BrokerID = ""
	if h.Type == "" {
		h.Type = models.InstrumentStock
	}
	if h.Mode == "" {
		h.Mode = models.ValuationPerUnit
	}

	err := s.store.Update(ctx, userID, func(data *models.AppData) error {
		data.Holdings = append(data.Holdings, h)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to persist holding: %w", err)
	}

	s.logger.Info().Str("holding", h.Name).Msg("Manual holding added")
	return &h, nil
}

// DeleteHolding removes a holding by ID, manual or synced.
func (s *Service) DeleteHolding(ctx context.Context, userID, holdingID string) error {
	return s.store.Update(ctx, userID, func(data *models.AppData) error {
		kept := data.Holdings[:0]
		found := false
		for _, h := range data.Holdings {
			if h.ID == holdingID {
				found = true
				continue
			}
			kept = append(kept, h)
		}
		if !found {
			return fmt.Errorf("holding not found: %s", holdingID)
		}
		data.Holdings = kept
		return nil
	})
}

// Summary aggregates invested and current value across all holdings with a
// per-source breakdown.
func (s *Service) Summary(ctx context.Context, userID string) (*interfaces.PortfolioSummary, error) {
	data, err := s.loadData(ctx, userID)
	if err != nil {
		return nil, err
	}

	summary := &interfaces.PortfolioSummary{
		Holdings: len(data.Holdings),
		ByBroker: map[string]interfaces.BrokerAllocation{},
	}

	for _, h := range data.Holdings {
		invested := h.InvestedValue()
		current := h.CurrentValue()
		summary.Invested += invested
		summary.CurrentValue += current

		key := string(h.BrokerID)
		if h.IsManual() {
			key = manualKey
		}
		alloc := summary.ByBroker[key]
		alloc.Holdings++
		alloc.CurrentValue += current
		summary.ByBroker[key] = alloc
	}

	summary.GainLoss = summary.CurrentValue - summary.Invested
	if summary.Invested > 0 {
		summary.GainLossPct = summary.GainLoss / summary.Invested * 100
	}

	return summary, nil
}

// AllocationChart renders the portfolio's current-value allocation by
// instrument type as a PNG donut.
func (s *Service) AllocationChart(ctx context.Context, userID string) ([]byte, error) {
	data, err := s.loadData(ctx, userID)
	if err != nil {
		return nil, err
	}
	return RenderAllocationChart(data.Holdings)
}

func (s *Service) loadData(ctx context.Context, userID string) (*models.AppData, error) {
	data, err := s.store.LoadData(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user data: %w", err)
	}
	if data == nil {
		data = models.NewAppData()
	}
	return data, nil
}

var _ interfaces.PortfolioService = (*Service)(nil)
