// Package sync orchestrates holdings synchronization across connected
// brokers: authenticate, fetch, normalize, and merge into the user's data.
package sync

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/zenithfin/zenith/internal/common"
	"github.com/zenithfin/zenith/internal/interfaces"
	"github.com/zenithfin/zenith/internal/models"
	"github.com/zenithfin/zenith/internal/storage/credstore"
)

// directTokenThreshold is the length above which a connect secret is treated
// as a pre-issued access token rather than a password or auth code. Broker
// tokens are long opaque blobs or JWTs; passwords and auth codes are short.
const directTokenThreshold = 100

// Service coordinates broker synchronization. Every write to the portfolio
// goes through the data store's Update, which serializes read-merge-write
// cycles against every other writer of the blob.
type Service struct {
	factory     interfaces.BrokerClientFactory
	store       interfaces.DataStore
	credentials interfaces.CredentialStore
	logger      *common.Logger
}

// NewService creates a sync service
func NewService(factory interfaces.BrokerClientFactory, store interfaces.DataStore, credentials interfaces.CredentialStore, logger *common.Logger) *Service {
	return &Service{
		factory:     factory,
		store:       store,
		credentials: credentials,
		logger:      logger,
	}
}

// SyncAll synchronizes holdings from every connected broker. Brokers are
// processed sequentially; one broker failing never aborts the others, and a
// failed broker's previously synced holdings are left in place.
func (s *Service) SyncAll(ctx context.Context, userID string) (*models.SyncReport, error) {
	report := &models.SyncReport{StartedAt: time.Now()}

	data, err := s.loadData(ctx, userID)
	if err != nil {
		return nil, err
	}

	connected := data.ConnectedBrokers()
	if len(connected) == 0 {
		s.logger.Info().Str("user", userID).Msg("No connected brokers to sync")
		return nil, models.ErrNoBrokersConnected
	}

	for _, conn := range connected {
		result := s.syncBroker(ctx, userID, conn)
		report.Results = append(report.Results, result)
		if result.OK() {
			report.TotalSynced += result.Synced
		}
	}

	report.FinishedAt = time.Now()
	s.logger.Info().
		Str("user", userID).
		Int("total", report.TotalSynced).
		Int("brokers", len(connected)).
		Dur("duration", report.FinishedAt.Sub(report.StartedAt)).
		Msg("Sync completed")

	return report, nil
}

// syncBroker runs the fetch-normalize-merge cycle for one broker. Errors are
// captured in the result rather than returned so the caller can keep going.
func (s *Service) syncBroker(ctx context.Context, userID string, conn models.BrokerConnection) (result models.BrokerSyncResult) {
	started := time.Now()
	brokerID := conn.ID
	result.Broker = brokerID
	defer func() { result.Duration = time.Since(started).Round(time.Millisecond).String() }()

	client, err := s.factory.Create(brokerID)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	records, err := s.fetchWithRecovery(ctx, client, conn)
	if err != nil {
		s.logger.Warn().Err(err).Str("broker", string(brokerID)).Msg("Broker sync failed")
		result.Error = err.Error()
		return result
	}

	holdings := NormalizeAll(brokerID, records)

	if err := s.mergeAndPersist(ctx, userID, brokerID, holdings); err != nil {
		result.Error = err.Error()
		return result
	}

	result.Synced = len(holdings)
	s.logger.Info().Str("broker", string(brokerID)).Int("holdings", len(holdings)).Msg("Broker synced")
	return result
}

// fetchWithRecovery fetches holdings, recovering once from an expired token:
// first via the broker's refresh grant when it has one and a refresh token is
// stored, otherwise via full re-authentication with the saved credentials.
func (s *Service) fetchWithRecovery(ctx context.Context, client interfaces.BrokerClient, conn models.BrokerConnection) ([]models.RawHoldingRecord, error) {
	brokerID := client.Broker()

	token, err := s.credentials.Get(brokerID.AccessTokenKey())
	if err != nil && !errors.Is(err, credstore.ErrNotFound) {
		return nil, fmt.Errorf("failed to read stored token: %w", err)
	}

	if token != "" {
		records, err := client.FetchHoldings(ctx, token)
		if err == nil {
			return records, nil
		}

		var fetchErr *models.FetchError
		if !errors.As(err, &fetchErr) || !fetchErr.AuthExpired {
			return nil, err
		}
		s.logger.Debug().Str("broker", string(brokerID)).Msg("Stored token expired, attempting recovery")
	}

	session, err := s.renewSession(ctx, client, conn)
	if err != nil {
		return nil, err
	}
	s.storeSession(brokerID, session)

	return client.FetchHoldings(ctx, session.AccessToken)
}

// renewSession obtains a fresh session, preferring the refresh grant over a
// full credential login.
func (s *Service) renewSession(ctx context.Context, client interfaces.BrokerClient, conn models.BrokerConnection) (*models.AuthSession, error) {
	brokerID := client.Broker()

	if refresher, ok := client.(interfaces.TokenRefresher); ok {
		refreshToken, err := s.credentials.Get(brokerID.RefreshTokenKey())
		if err == nil && refreshToken != "" {
			session, err := refresher.RefreshAccessToken(ctx, refreshToken)
			if err == nil {
				s.logger.Debug().Str("broker", string(brokerID)).Msg("Session refreshed")
				return session, nil
			}
			s.logger.Debug().Err(err).Str("broker", string(brokerID)).Msg("Token refresh failed, falling back to re-authentication")
		}
	}

	if conn.ClientID == "" || conn.ClientSecret == "" {
		return nil, &models.CredentialError{Broker: brokerID, Reason: "no stored credentials to re-authenticate with"}
	}

	return client.Authenticate(ctx, conn.ClientID, conn.ClientSecret)
}

// storeSession persists session tokens, logging rather than failing on
// credential store errors so a keyring hiccup does not discard a valid sync.
func (s *Service) storeSession(brokerID models.BrokerID, session *models.AuthSession) {
	if err := s.credentials.Set(brokerID.AccessTokenKey(), session.AccessToken); err != nil {
		s.logger.Warn().Err(err).Str("broker", string(brokerID)).Msg("Failed to store access token")
	}
	if session.RefreshToken != "" {
		if err := s.credentials.Set(brokerID.RefreshTokenKey(), session.RefreshToken); err != nil {
			s.logger.Warn().Err(err).Str("broker", string(brokerID)).Msg("Failed to store refresh token")
		}
	}
}

// mergeAndPersist replaces the broker's slice of the portfolio. The store's
// Update re-reads the data inside its critical section, so the merge always
// applies to the latest persisted state and cannot clobber a concurrent
// manual edit.
func (s *Service) mergeAndPersist(ctx context.Context, userID string, brokerID models.BrokerID, holdings []models.Holding) error {
	err := s.store.Update(ctx, userID, func(data *models.AppData) error {
		data.Holdings = mergeHoldings(data.Holdings, brokerID, holdings)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to persist synced holdings: %w", err)
	}
	return nil
}

// Connect validates and stores broker credentials, establishing a session to
// prove they work before marking the broker connected. A secret that is a
// well-formed JWT or an unusually long opaque string is treated as a
// pre-issued access token and used directly.
func (s *Service) Connect(ctx context.Context, userID string, brokerID models.BrokerID, clientID, clientSecret string) error {
	if strings.TrimSpace(clientID) == "" {
		return &models.CredentialError{Broker: brokerID, Reason: "client ID is required"}
	}
	if strings.TrimSpace(clientSecret) == "" {
		return &models.CredentialError{Broker: brokerID, Reason: "client secret is required"}
	}

	client, err := s.factory.Create(brokerID)
	if err != nil {
		return err
	}

	var session *models.AuthSession
	if looksLikeAccessToken(clientSecret) {
		session, err = client.AuthenticateWithToken(ctx, clientSecret)
	} else {
		session, err = client.Authenticate(ctx, clientID, clientSecret)
	}
	if err != nil {
		return err
	}

	s.storeSession(brokerID, session)

	err = s.store.Update(ctx, userID, func(data *models.AppData) error {
		conn := data.Broker(brokerID)
		if conn == nil {
			return fmt.Errorf("unknown broker connection: %s", brokerID)
		}
		conn.ClientID = clientID
		conn.ClientSecret = clientSecret
		conn.IsConnected = true
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info().Str("broker", string(brokerID)).Msg("Broker connected")
	return nil
}

// Disconnect removes stored tokens and marks the broker disconnected.
// Previously synced holdings stay in the portfolio until the next sync or a
// manual delete.
func (s *Service) Disconnect(ctx context.Context, userID string, brokerID models.BrokerID) error {
	if err := s.credentials.Delete(brokerID.AccessTokenKey()); err != nil && !errors.Is(err, credstore.ErrNotFound) {
		s.logger.Warn().Err(err).Str("broker", string(brokerID)).Msg("Failed to delete access token")
	}
	if err := s.credentials.Delete(brokerID.RefreshTokenKey()); err != nil && !errors.Is(err, credstore.ErrNotFound) {
		s.logger.Warn().Err(err).Str("broker", string(brokerID)).Msg("Failed to delete refresh token")
	}

	err := s.store.Update(ctx, userID, func(data *models.AppData) error {
		conn := data.Broker(brokerID)
		if conn == nil {
			return fmt.Errorf("unknown broker connection: %s", brokerID)
		}
		conn.ClientID = ""
		conn.ClientSecret = ""
		conn.IsConnected = false
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info().Str("broker", string(brokerID)).Msg("Broker disconnected")
	return nil
}

// loadData reads the user's data, starting a fresh document when none exists.
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

// looksLikeAccessToken reports whether a connect secret is a pre-issued
// token: either a parseable JWT or longer than any plausible password.
func looksLikeAccessToken(secret string) bool {
	if len(secret) > directTokenThreshold {
		return true
	}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(secret, jwt.MapClaims{}); err == nil {
		return true
	}
	return false
}

var _ interfaces.SyncService = (*Service)(nil)
