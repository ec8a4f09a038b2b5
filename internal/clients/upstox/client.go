// Package upstox provides a client for the Upstox API
// API docs: https://upstox.com/developer/api-documentation
package upstox

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
	DefaultBaseURL   = "https://api.upstox.com/v2"
	DefaultTimeout   = 30 * time.Second
	DefaultRateLimit = 5 // requests per second

	// directTokenTTL is the assumed lifetime of a manually supplied token.
	directTokenTTL = 24 * time.Hour
)

// Client implements the BrokerClient interface for Upstox.
type Client struct {
	baseURL     string
	redirectURI string
	httpClient  *http.Client
	logger      *common.Logger
	limiter     *rate.Limiter
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithRedirectURI sets the OAuth redirect URI sent during token exchange
func WithRedirectURI(uri string) ClientOption {
	return func(c *Client) {
		c.redirectURI = uri
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

// NewClient creates a new Upstox client
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
	return models.BrokerUpstox
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	Message      string `json:"message"`
	Errors       []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

func (r *tokenResponse) errorMessage() string {
	if r.Message != "" {
		return r.Message
	}
	if len(r.Errors) > 0 {
		return r.Errors[0].Message
	}
	return ""
}

// Authenticate exchanges credentials for an access token via the OAuth2
// authorization-code grant. The secret field carries the authorization code
// obtained from the Upstox login redirect.
func (c *Client) Authenticate(ctx context.Context, clientID, clientSecret string) (*models.AuthSession, error) {
	payload := map[string]string{
		"code":          clientSecret,
		"client_id":     clientID,
		"client_secret": clientSecret,
		"redirect_uri":  c.redirectURI,
		"grant_type":    "authorization_code",
	}

	var resp tokenResponse
	status, err := c.postJSON(ctx, "/login/authorization/token", payload, &resp)
	if err != nil {
		return nil, &models.AuthenticationError{Broker: models.BrokerUpstox, Reason: err.Error(), Err: err}
	}
	if status != http.StatusOK {
		reason := resp.errorMessage()
		if reason == "" {
			reason = fmt.Sprintf("token exchange returned status %d", status)
		}
		return nil, &models.AuthenticationError{
			Broker:   models.BrokerUpstox,
			Reason:   reason,
			Rejected: status == http.StatusUnauthorized || status == http.StatusBadRequest || status == http.StatusForbidden,
		}
	}
	if resp.AccessToken == "" {
		return nil, &models.AuthenticationError{Broker: models.BrokerUpstox, Reason: "empty access token in response"}
	}

	return &models.AuthSession{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		ExpiresAt:    time.Now().Add(time.Duration(resp.ExpiresIn) * time.Second),
	}, nil
}

// AuthenticateWithToken wraps a pre-obtained access token in a session.
// Users who completed the OAuth flow in the Upstox developer console can
// supply the resulting token directly.
func (c *Client) AuthenticateWithToken(ctx context.Context, token string) (*models.AuthSession, error) {
	if token == "" {
		return nil, &models.AuthenticationError{Broker: models.BrokerUpstox, Reason: "empty access token"}
	}
	c.logger.Debug().Msg("Using provided Upstox access token directly")
	return &models.AuthSession{
		AccessToken: token,
		ExpiresAt:   time.Now().Add(directTokenTTL),
	}, nil
}

// RefreshAccessToken exchanges a refresh token for a new session.
func (c *Client) RefreshAccessToken(ctx context.Context, refreshToken string) (*models.AuthSession, error) {
	payload := map[string]string{
		"refresh_token": refreshToken,
		"grant_type":    "refresh_token",
	}

	var resp tokenResponse
	status, err := c.postJSON(ctx, "/login/authorization/token", payload, &resp)
	if err != nil {
		return nil, &models.RefreshError{Broker: models.BrokerUpstox, Reason: err.Error(), Err: err}
	}
	if status != http.StatusOK || resp.AccessToken == "" {
		reason := resp.errorMessage()
		if reason == "" {
			reason = fmt.Sprintf("refresh returned status %d", status)
		}
		return nil, &models.RefreshError{Broker: models.BrokerUpstox, Reason: reason}
	}

	return &models.AuthSession{
		AccessToken:  resp.AccessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    time.Now().Add(time.Duration(resp.ExpiresIn) * time.Second),
	}, nil
}

// holdingsEndpoints are queried in order; records from earlier endpoints win
// on duplicate symbols. Long-term holdings, intraday/delivery positions, and
// the unified holdings endpoint overlap for accounts with same-day trades.
var holdingsEndpoints = []string{
	"/portfolio/long-term-holdings",
	"/portfolio/short-term-positions",
	"/portfolio/holdings",
}

type holdingsResponse struct {
	Data []models.RawHoldingRecord `json:"data"`
}

// FetchHoldings queries all position endpoints and returns a deduplicated
// union keyed by instrument symbol, first-seen wins. Individual endpoint
// failures are tolerated as long as at least one endpoint responds; an
// auth rejection on every endpoint surfaces as an auth-expired FetchError.
func (c *Client) FetchHoldings(ctx context.Context, accessToken string) ([]models.RawHoldingRecord, error) {
	var (
		all         []models.RawHoldingRecord
		seen        = map[string]bool{}
		okEndpoints int
		lastErr     error
		authErrs    int
	)

	for _, endpoint := range holdingsEndpoints {
		var resp holdingsResponse
		status, err := c.getJSON(ctx, endpoint, accessToken, &resp)
		if err != nil {
			c.logger.Debug().Err(err).Str("endpoint", endpoint).Msg("Upstox endpoint unavailable")
			lastErr = err
			continue
		}
		if status == http.StatusUnauthorized || status == http.StatusForbidden {
			authErrs++
			lastErr = fmt.Errorf("endpoint %s returned status %d", endpoint, status)
			continue
		}
		if status != http.StatusOK {
			lastErr = fmt.Errorf("endpoint %s returned status %d", endpoint, status)
			continue
		}

		okEndpoints++
		for _, rec := range resp.Data {
			if endpoint == "/portfolio/short-term-positions" && recordQuantity(rec) <= 0 {
				continue // closed or short intraday positions
			}
			sym := symbolOf(rec)
			if sym != "" && seen[sym] {
				continue
			}
			if sym != "" {
				seen[sym] = true
			}
			all = append(all, rec)
		}
	}

	if okEndpoints == 0 {
		reason := "all holdings endpoints failed"
		if lastErr != nil {
			reason = lastErr.Error()
		}
		return nil, &models.FetchError{
			Broker:      models.BrokerUpstox,
			Reason:      reason,
			AuthExpired: authErrs > 0,
			Err:         lastErr,
		}
	}

	c.logger.Debug().Int("holdings", len(all)).Int("endpoints", okEndpoints).Msg("Upstox holdings fetched")
	return all, nil
}

// symbolOf extracts the instrument symbol used as the dedup key.
func symbolOf(rec models.RawHoldingRecord) string {
	for _, key := range []string{"tradingsymbol", "trading_symbol", "company_name", "instrument_token"} {
		if v, ok := rec[key].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

// recordQuantity reads the position quantity, falling back to buy_quantity.
func recordQuantity(rec models.RawHoldingRecord) float64 {
	for _, key := range []string{"quantity", "buy_quantity"} {
		switch v := rec[key].(type) {
		case float64:
			return v
		case string:
			var f float64
			if _, err := fmt.Sscanf(v, "%g", &f); err == nil {
				return f
			}
		}
	}
	return 0
}

func (c *Client) postJSON(ctx context.Context, path string, payload any, result any) (int, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return 0, fmt.Errorf("rate limit wait: %w", err)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return 0, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)
	if len(data) > 0 {
		json.Unmarshal(data, result) // body may be an error envelope on non-200
	}
	return resp.StatusCode, nil
}

func (c *Client) getJSON(ctx context.Context, path, accessToken string, result any) (int, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return 0, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return resp.StatusCode, fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return resp.StatusCode, nil
}

// Ensure Client implements the broker contracts
var (
	_ interfaces.BrokerClient   = (*Client)(nil)
	_ interfaces.TokenRefresher = (*Client)(nil)
)
