// Package clients wires broker API clients behind a common factory.
package clients

import (
	"fmt"

	"github.com/zenithfin/zenith/internal/clients/angelone"
	"github.com/zenithfin/zenith/internal/clients/fyers"
	"github.com/zenithfin/zenith/internal/clients/simulated"
	"github.com/zenithfin/zenith/internal/clients/upstox"
	"github.com/zenithfin/zenith/internal/common"
	"github.com/zenithfin/zenith/internal/interfaces"
	"github.com/zenithfin/zenith/internal/models"
)

// Factory creates broker clients from configuration. When UseSimulated is
// set every broker ID resolves to the in-process simulated client, so the
// rest of the stack runs unchanged without live broker accounts.
type Factory struct {
	config *common.Config
	logger *common.Logger
}

// NewFactory creates a broker client factory
func NewFactory(config *common.Config, logger *common.Logger) *Factory {
	return &Factory{
		config: config,
		logger: logger,
	}
}

// Create returns the client for the given broker ID.
func (f *Factory) Create(brokerID models.BrokerID) (interfaces.BrokerClient, error) {
	if f.config.Clients.UseSimulated {
		f.logger.Debug().Str("broker", string(brokerID)).Msg("Using simulated broker client")
		return simulated.NewClient(brokerID), nil
	}

	switch brokerID {
	case models.BrokerUpstox:
		cfg := f.config.Clients.Upstox
		return upstox.NewClient(
			upstox.WithBaseURL(cfg.BaseURL),
			upstox.WithLogger(f.logger),
			upstox.WithRateLimit(rateOrDefault(cfg.RateLimit, upstox.DefaultRateLimit)),
			upstox.WithTimeout(cfg.GetTimeout()),
		), nil

	case models.BrokerAngelOne:
		cfg := f.config.Clients.AngelOne
		return angelone.NewClient(
			angelone.WithBaseURL(cfg.BaseURL),
			angelone.WithLogger(f.logger),
			angelone.WithRateLimit(rateOrDefault(cfg.RateLimit, angelone.DefaultRateLimit)),
			angelone.WithTimeout(cfg.GetTimeout()),
		), nil

	case models.BrokerFyers:
		cfg := f.config.Clients.Fyers
		return fyers.NewClient(
			fyers.WithBaseURL(cfg.BaseURL),
			fyers.WithLogger(f.logger),
			fyers.WithRateLimit(rateOrDefault(cfg.RateLimit, fyers.DefaultRateLimit)),
			fyers.WithTimeout(cfg.GetTimeout()),
		), nil
	}

	return nil, fmt.Errorf("unsupported broker: %s", brokerID)
}

func rateOrDefault(configured, fallback int) int {
	if configured > 0 {
		return configured
	}
	return fallback
}

var _ interfaces.BrokerClientFactory = (*Factory)(nil)
