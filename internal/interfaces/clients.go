// Package interfaces defines service contracts for Zenith
package interfaces

import (
	"context"

	"github.com/zenithfin/zenith/internal/models"
)

// BrokerClient is the capability set shared by every brokerage integration.
// Implementations are stateless with respect to the portfolio: they perform
// network calls and return data, persisting nothing themselves.
type BrokerClient interface {
	// Broker identifies which brokerage this client talks to.
	Broker() models.BrokerID

	// Authenticate exchanges developer credentials for an access token.
	// Both clientID and clientSecret must be non-empty; validating that is
	// the caller's concern. Fails with *models.AuthenticationError.
	Authenticate(ctx context.Context, clientID, clientSecret string) (*models.AuthSession, error)

	// AuthenticateWithToken accepts a pre-obtained long-lived access token
	// from a manually completed OAuth flow and wraps it in a session. This
	// is the explicit alternate input mode for users who already hold a
	// token; no network call is made.
	AuthenticateWithToken(ctx context.Context, token string) (*models.AuthSession, error)

	// FetchHoldings retrieves the account's holdings using a previously
	// obtained access token. The token may be stale — this call doubles as
	// the token validity check. Zero holdings is a valid, successful
	// result. Fails with *models.FetchError.
	FetchHoldings(ctx context.Context, accessToken string) ([]models.RawHoldingRecord, error)
}

// TokenRefresher is the optional refresh capability. Not every broker
// supports it; callers must fall back to a full Authenticate when the
// refresh fails or the capability is absent.
type TokenRefresher interface {
	// RefreshAccessToken exchanges a refresh token for a new session.
	// Fails with *models.RefreshError.
	RefreshAccessToken(ctx context.Context, refreshToken string) (*models.AuthSession, error)
}

// BrokerClientFactory constructs the client for a broker, real or simulated.
type BrokerClientFactory interface {
	Create(brokerID models.BrokerID) (BrokerClient, error)
}

// AssistantClient provides access to the generative AI backend.
type AssistantClient interface {
	// GenerateContent generates a reply from a prompt.
	GenerateContent(ctx context.Context, prompt string) (string, error)
}
