// Package interfaces defines service contracts for Zenith
package interfaces

import (
	"context"

	"github.com/zenithfin/zenith/internal/models"
)

// DataStore persists the per-user data blob. Implementations must tolerate
// an unavailable backend: LoadData returns (nil, nil) when no data exists
// rather than failing the caller.
type DataStore interface {
	// Initialize prepares the backing store (directories, schema).
	Initialize() error

	// LoadData retrieves the data blob for a user, or (nil, nil) if absent.
	LoadData(ctx context.Context, userID string) (*models.AppData, error)

	// SaveData persists the data blob for a user.
	SaveData(ctx context.Context, userID string, data *models.AppData) error

	// Update applies mutate to the user's data and persists the result,
	// serialized against every other Update on the store. All
	// read-modify-write cycles of the blob must go through here; a bare
	// LoadData/SaveData pair can lose a concurrent writer's changes.
	Update(ctx context.Context, userID string, mutate func(*models.AppData) error) error
}

// CredentialStore holds broker tokens and secrets outside the main data
// blob. Keys follow the "{brokerID}-access-token" / "{brokerID}-refresh-token"
// convention (see models.BrokerID key helpers). No expiry is enforced —
// callers treat any stored token as "try it and see".
type CredentialStore interface {
	Get(key string) (string, error) // returns credstore.ErrNotFound when absent
	Set(key, value string) error
	Delete(key string) error
}

// StorageManager coordinates the data store and credential store.
type StorageManager interface {
	DataStore() DataStore
	Credentials() CredentialStore
	Close() error
}
