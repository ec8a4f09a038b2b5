package models

import (
	"fmt"
	"time"
)

// BrokerID identifies a supported brokerage.
type BrokerID string

const (
	BrokerUpstox   BrokerID = "upstox"
	BrokerAngelOne BrokerID = "angelone"
	BrokerFyers    BrokerID = "fyers"
)

// AllBrokers lists the fixed set of supported brokers, in display order.
var AllBrokers = []BrokerID{BrokerUpstox, BrokerAngelOne, BrokerFyers}

// ParseBrokerID validates a broker identifier string.
func ParseBrokerID(s string) (BrokerID, error) {
	switch BrokerID(s) {
	case BrokerUpstox, BrokerAngelOne, BrokerFyers:
		return BrokerID(s), nil
	}
	return "", fmt.Errorf("unknown broker: %q", s)
}

// DisplayName returns the user-facing broker name.
func (b BrokerID) DisplayName() string {
	switch b {
	case BrokerUpstox:
		return "Upstox"
	case BrokerAngelOne:
		return "AngelOne"
	case BrokerFyers:
		return "Fyers"
	}
	return string(b)
}

// AccessTokenKey returns the credential-store key for the broker's access token.
func (b BrokerID) AccessTokenKey() string {
	return string(b) + "-access-token"
}

// RefreshTokenKey returns the credential-store key for the broker's refresh token.
func (b BrokerID) RefreshTokenKey() string {
	return string(b) + "-refresh-token"
}

// BrokerConnection is a configured brokerage relationship. One record exists
// per supported broker; records are toggled by connect/disconnect, never
// deleted. IsConnected is a cached flag — it means credentials were accepted
// at connect time, not that the next sync is guaranteed to authenticate.
type BrokerConnection struct {
	ID           BrokerID `json:"id"`
	Name         string   `json:"name"`
	ClientID     string   `json:"clientId"`
	ClientSecret string   `json:"clientSecret"`
	IsConnected  bool     `json:"isConnected"`
}

// DefaultBrokerConnections returns the fixed set of broker records with
// empty credentials, as created at onboarding.
func DefaultBrokerConnections() []BrokerConnection {
	conns := make([]BrokerConnection, len(AllBrokers))
	for i, id := range AllBrokers {
		conns[i] = BrokerConnection{ID: id, Name: id.DisplayName()}
	}
	return conns
}

// AuthSession is the ephemeral result of a broker authentication. It is held
// in the credential store, never in the main data blob.
type AuthSession struct {
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken,omitempty"`
	ExpiresAt    time.Time `json:"expiresAt,omitempty"`
}

// RawHoldingRecord is a holdings payload record in a brokerage's native
// shape. Field names vary per broker and are inconsistently present, so the
// record stays schemaless until normalization.
type RawHoldingRecord map[string]any

// BrokerSyncResult is the per-broker outcome of a sync run.
type BrokerSyncResult struct {
	Broker   BrokerID `json:"broker"`
	Synced   int      `json:"synced"`
	Error    string   `json:"error,omitempty"`
	Skipped  bool     `json:"skipped,omitempty"`
	Duration string   `json:"duration,omitempty"`
}

// OK reports whether the broker's sync completed without error.
func (r *BrokerSyncResult) OK() bool {
	return r.Error == "" && !r.Skipped
}

// SyncReport aggregates the outcome of a multi-broker sync.
type SyncReport struct {
	TotalSynced int                `json:"totalSynced"`
	Results     []BrokerSyncResult `json:"results"`
	StartedAt   time.Time          `json:"startedAt"`
	FinishedAt  time.Time          `json:"finishedAt"`
}

// Message returns the user-facing summary line for the report.
func (r *SyncReport) Message() string {
	failures := 0
	for _, res := range r.Results {
		if !res.OK() && !res.Skipped {
			failures++
		}
	}
	if failures == 0 {
		return fmt.Sprintf("Successfully synced %d holdings", r.TotalSynced)
	}
	return fmt.Sprintf("Synced %d holdings; %d broker(s) failed", r.TotalSynced, failures)
}
