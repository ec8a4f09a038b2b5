// Package simulated provides an in-process broker used for local development
// and tests. It accepts any credentials and serves a fixed demo portfolio.
package simulated

import (
	"context"
	"time"

	"github.com/zenithfin/zenith/internal/interfaces"
	"github.com/zenithfin/zenith/internal/models"
)

// Client is a stand-in broker that never leaves the process.
type Client struct {
	broker   models.BrokerID
	holdings []models.RawHoldingRecord
	authErr  error
	fetchErr error
}

// ClientOption configures the simulated client
type ClientOption func(*Client)

// WithHoldings replaces the demo portfolio served by FetchHoldings.
func WithHoldings(records []models.RawHoldingRecord) ClientOption {
	return func(c *Client) {
		c.holdings = records
	}
}

// WithAuthErr makes every authentication attempt fail with err.
func WithAuthErr(err error) ClientOption {
	return func(c *Client) {
		c.authErr = err
	}
}

// WithFetchErr makes every holdings fetch fail with err.
func WithFetchErr(err error) ClientOption {
	return func(c *Client) {
		c.fetchErr = err
	}
}

// NewClient creates a simulated client posing as the given broker.
func NewClient(broker models.BrokerID, opts ...ClientOption) *Client {
	c := &Client{
		broker:   broker,
		holdings: DemoHoldings(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// DemoHoldings returns the fixed demo portfolio: one stock, one ETF, and one
// mutual fund, enough to exercise every instrument-type path downstream.
func DemoHoldings() []models.RawHoldingRecord {
	return []models.RawHoldingRecord{
		{
			"tradingsymbol":   "RELIANCE",
			"instrument_type": "Stock",
			"quantity":        10.0,
			"average_price":   2450.50,
			"last_price":      2500.00,
		},
		{
			"tradingsymbol":   "NIFTYBEES",
			"instrument_type": "ETF",
			"quantity":        50.0,
			"average_price":   220.00,
			"last_price":      225.50,
		},
		{
			"tradingsymbol":   "AXISGROWTH",
			"instrument_type": "MutualFund",
			"quantity":        100.0,
			"average_price":   45.30,
			"last_price":      48.75,
		},
	}
}

// Broker identifies which real broker this client is standing in for.
func (c *Client) Broker() models.BrokerID {
	return c.broker
}

// Authenticate accepts any credentials.
func (c *Client) Authenticate(ctx context.Context, clientID, clientSecret string) (*models.AuthSession, error) {
	if c.authErr != nil {
		return nil, c.authErr
	}
	return c.session(), nil
}

// AuthenticateWithToken accepts any token.
func (c *Client) AuthenticateWithToken(ctx context.Context, token string) (*models.AuthSession, error) {
	if c.authErr != nil {
		return nil, c.authErr
	}
	return c.session(), nil
}

// FetchHoldings serves the configured portfolio.
func (c *Client) FetchHoldings(ctx context.Context, accessToken string) ([]models.RawHoldingRecord, error) {
	if c.fetchErr != nil {
		return nil, c.fetchErr
	}
	return c.holdings, nil
}

func (c *Client) session() *models.AuthSession {
	return &models.AuthSession{
		AccessToken:  "simulated-" + string(c.broker) + "-token",
		RefreshToken: "simulated-" + string(c.broker) + "-refresh",
		ExpiresAt:    time.Now().Add(24 * time.Hour),
	}
}

var _ interfaces.BrokerClient = (*Client)(nil)
