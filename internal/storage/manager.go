// Package storage provides file-based JSON persistence for Zenith
package storage

import (
	"fmt"

	"github.com/zenithfin/zenith/internal/common"
	"github.com/zenithfin/zenith/internal/interfaces"
	"github.com/zenithfin/zenith/internal/storage/credstore"
)

// Manager implements interfaces.StorageManager over the file data store and
// the configured credential store backend.
type Manager struct {
	data   *FileDataStore
	creds  interfaces.CredentialStore
	logger *common.Logger
}

// NewManager creates a StorageManager from config.
func NewManager(logger *common.Logger, cfg *common.Config) (*Manager, error) {
	data := NewFileDataStore(logger, cfg.Storage.Path, cfg.Storage.Versions)
	if err := data.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize data store: %w", err)
	}

	var creds interfaces.CredentialStore
	switch cfg.Storage.Credentials {
	case "keyring":
		creds = credstore.NewKeyringStore()
	default:
		fileCreds, err := credstore.NewFileStore(cfg.Storage.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize credential store: %w", err)
		}
		creds = fileCreds
	}

	logger.Info().
		Str("path", cfg.Storage.Path).
		Str("credentials", cfg.Storage.Credentials).
		Msg("Storage manager initialized")

	return &Manager{
		data:   data,
		creds:  creds,
		logger: logger,
	}, nil
}

func (m *Manager) DataStore() interfaces.DataStore {
	return m.data
}

func (m *Manager) Credentials() interfaces.CredentialStore {
	return m.creds
}

func (m *Manager) Close() error {
	return nil
}
