// Package fyers provides a client for the Fyers trading API
// API docs: https://myapi.fyers.in/docs
package fyers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/zenithfin/zenith/internal/common"
	"github.com/zenithfin/zenith/internal/interfaces"
	"github.com/zenithfin/zenith/internal/models"
)

const (
	DefaultBaseURL   = "https://api.fyers.in/api/v2"
	DefaultTimeout   = 30 * time.Second
	DefaultRateLimit = 3 // requests per second

	directTokenTTL = 24 * time.Hour
)

// Client implements the BrokerClient interface for Fyers. Fyers tokens are
// valid until end of trading day; there is no refresh grant, so an expired
// token always requires a fresh auth-code exchange.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *common.Logger
	limiter    *rate.Limiter
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets the rate limit
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new Fyers client
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:  common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Broker identifies this client.
func (c *Client) Broker() models.BrokerID {
	return models.BrokerFyers
}

type validateResponse struct {
	S           string `json:"s"`
	Message     string `json:"message"`
	AccessToken string `json:"access_token"`
}

// Authenticate validates an auth code obtained from the Fyers login redirect.
// clientID carries the appId hash and clientSecret the auth code.
func (c *Client) Authenticate(ctx context.Context, clientID, clientSecret string) (*models.AuthSession, error) {
	payload := map[string]string{
		"grant_type": "authorization_code",
		"appIdHash":  clientID,
		"code":       clientSecret,
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &models.AuthenticationError{Broker: models.BrokerFyers, Reason: err.Error(), Err: err}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &models.AuthenticationError{Broker: models.BrokerFyers, Reason: "failed to encode request", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/validate-authcode", bytes.NewReader(body))
	if err != nil {
		return nil, &models.AuthenticationError{Broker: models.BrokerFyers, Reason: "failed to create request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &models.AuthenticationError{Broker: models.BrokerFyers, Reason: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)
	var validate validateResponse
	if len(data) > 0 {
		json.Unmarshal(data, &validate)
	}

	if resp.StatusCode != http.StatusOK || validate.AccessToken == "" {
		reason := validate.Message
		if reason == "" {
			reason = fmt.Sprintf("auth code validation returned status %d", resp.StatusCode)
		}
		return nil, &models.AuthenticationError{
			Broker:   models.BrokerFyers,
			Reason:   reason,
			Rejected: resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusBadRequest || validate.S == "error",
		}
	}

	return &models.AuthSession{
		AccessToken: validate.AccessToken,
		ExpiresAt:   endOfDay(time.Now()),
	}, nil
}

// AuthenticateWithToken wraps an externally obtained Fyers access token.
func (c *Client) AuthenticateWithToken(ctx context.Context, token string) (*models.AuthSession, error) {
	if token == "" {
		return nil, &models.AuthenticationError{Broker: models.BrokerFyers, Reason: "empty access token"}
	}
	c.logger.Debug().Msg("Using provided Fyers access token directly")
	return &models.AuthSession{
		AccessToken: token,
		ExpiresAt:   time.Now().Add(directTokenTTL),
	}, nil
}

type holdingsResponse struct {
	S        string                    `json:"s"`
	Message  string                    `json:"message"`
	Holdings []models.RawHoldingRecord `json:"holdings"`
}

// FetchHoldings retrieves the demat holdings for the authenticated user.
// Fyers expects the bare token in the Authorization header, no Bearer prefix.
func (c *Client) FetchHoldings(ctx context.Context, accessToken string) ([]models.RawHoldingRecord, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &models.FetchError{Broker: models.BrokerFyers, Reason: err.Error(), Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/holdings", nil)
	if err != nil {
		return nil, &models.FetchError{Broker: models.BrokerFyers, Reason: "failed to create request", Err: err}
	}
	req.Header.Set("Authorization", accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &models.FetchError{Broker: models.BrokerFyers, Reason: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, &models.FetchError{
			Broker:      models.BrokerFyers,
			Reason:      fmt.Sprintf("holdings request returned status %d", resp.StatusCode),
			AuthExpired: true,
		}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &models.FetchError{
			Broker: models.BrokerFyers,
			Reason: fmt.Sprintf("holdings request returned status %d", resp.StatusCode),
		}
	}

	var holdings holdingsResponse
	if err := json.NewDecoder(resp.Body).Decode(&holdings); err != nil {
		return nil, &models.FetchError{Broker: models.BrokerFyers, Reason: "failed to decode holdings response", Err: err}
	}
	if holdings.S == "error" {
		reason := holdings.Message
		if reason == "" {
			reason = "holdings request rejected"
		}
		return nil, &models.FetchError{Broker: models.BrokerFyers, Reason: reason}
	}

	c.logger.Debug().Int("holdings", len(holdings.Holdings)).Msg("Fyers holdings fetched")
	return holdings.Holdings, nil
}

// endOfDay returns midnight after t in local time, the nominal expiry of a
// Fyers trading-day token.
func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, 0, t.Location())
}

var _ interfaces.BrokerClient = (*Client)(nil)
