// Package angelone provides a client for the AngelOne SmartAPI
// API docs: https://smartapi.angelbroking.com/docs
package angelone

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
	DefaultBaseURL   = "https://apiconnect.angelbroking.com"
	DefaultTimeout   = 30 * time.Second
	DefaultRateLimit = 3 // requests per second

	directTokenTTL = 24 * time.Hour
)

// Client implements the BrokerClient interface for AngelOne. The SmartAPI
// issues JWTs from the loginByPassword flow; it exposes a token-renewal
// endpoint but we treat a failed fetch as requiring full re-login, matching
// how the web dashboard behaves.
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

// NewClient creates a new AngelOne client
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
	return models.BrokerAngelOne
}

type loginResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		JWTToken     string `json:"jwtToken"`
		RefreshToken string `json:"refreshToken"`
	} `json:"data"`
}

// Authenticate logs in with the client code and password (or TOTP-derived
// PIN) and returns the issued JWT session.
func (c *Client) Authenticate(ctx context.Context, clientID, clientSecret string) (*models.AuthSession, error) {
	payload := map[string]string{
		"clientcode": clientID,
		"password":   clientSecret,
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &models.AuthenticationError{Broker: models.BrokerAngelOne, Reason: err.Error(), Err: err}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &models.AuthenticationError{Broker: models.BrokerAngelOne, Reason: "failed to encode login request", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/rest/auth/angelbroking/user/v1/loginByPassword", bytes.NewReader(body))
	if err != nil {
		return nil, &models.AuthenticationError{Broker: models.BrokerAngelOne, Reason: "failed to create request", Err: err}
	}
	c.setCommonHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &models.AuthenticationError{Broker: models.BrokerAngelOne, Reason: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)
	var login loginResponse
	if len(data) > 0 {
		json.Unmarshal(data, &login)
	}

	if resp.StatusCode != http.StatusOK || !login.Status || login.Data.JWTToken == "" {
		reason := login.Message
		if reason == "" {
			reason = fmt.Sprintf("login returned status %d", resp.StatusCode)
		}
		return nil, &models.AuthenticationError{
			Broker:   models.BrokerAngelOne,
			Reason:   reason,
			Rejected: resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden,
		}
	}

	return &models.AuthSession{
		AccessToken:  login.Data.JWTToken,
		RefreshToken: login.Data.RefreshToken,
		ExpiresAt:    time.Now().Add(directTokenTTL),
	}, nil
}

// AuthenticateWithToken wraps an externally obtained SmartAPI JWT.
func (c *Client) AuthenticateWithToken(ctx context.Context, token string) (*models.AuthSession, error) {
	if token == "" {
		return nil, &models.AuthenticationError{Broker: models.BrokerAngelOne, Reason: "empty access token"}
	}
	c.logger.Debug().Msg("Using provided AngelOne JWT directly")
	return &models.AuthSession{
		AccessToken: token,
		ExpiresAt:   time.Now().Add(directTokenTTL),
	}, nil
}

type holdingsResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		Holdings []models.RawHoldingRecord `json:"holdings"`
	} `json:"data"`
}

// FetchHoldings retrieves the portfolio holdings for the authenticated user.
func (c *Client) FetchHoldings(ctx context.Context, accessToken string) ([]models.RawHoldingRecord, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &models.FetchError{Broker: models.BrokerAngelOne, Reason: err.Error(), Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/rest/secure/angelbroking/portfolio/v1/getHolding", nil)
	if err != nil {
		return nil, &models.FetchError{Broker: models.BrokerAngelOne, Reason: "failed to create request", Err: err}
	}
	c.setCommonHeaders(req)
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &models.FetchError{Broker: models.BrokerAngelOne, Reason: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, &models.FetchError{
			Broker:      models.BrokerAngelOne,
			Reason:      fmt.Sprintf("holdings request returned status %d", resp.StatusCode),
			AuthExpired: true,
		}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &models.FetchError{
			Broker: models.BrokerAngelOne,
			Reason: fmt.Sprintf("holdings request returned status %d", resp.StatusCode),
		}
	}

	var holdings holdingsResponse
	if err := json.NewDecoder(resp.Body).Decode(&holdings); err != nil {
		return nil, &models.FetchError{Broker: models.BrokerAngelOne, Reason: "failed to decode holdings response", Err: err}
	}
	if !holdings.Status {
		reason := holdings.Message
		if reason == "" {
			reason = "holdings request rejected"
		}
		return nil, &models.FetchError{Broker: models.BrokerAngelOne, Reason: reason}
	}

	c.logger.Debug().Int("holdings", len(holdings.Data.Holdings)).Msg("AngelOne holdings fetched")
	return holdings.Data.Holdings, nil
}

// setCommonHeaders applies the SmartAPI identification headers required on
// every request.
func (c *Client) setCommonHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-UserType", "USER")
	req.Header.Set("X-SourceID", "WEB")
}

var _ interfaces.BrokerClient = (*Client)(nil)
