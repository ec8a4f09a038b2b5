// Package app wires configuration, storage, clients, and services into the
// shared core used by cmd/zenith-server.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/zenithfin/zenith/internal/clients"
	"github.com/zenithfin/zenith/internal/clients/gemini"
	"github.com/zenithfin/zenith/internal/common"
	"github.com/zenithfin/zenith/internal/interfaces"
	"github.com/zenithfin/zenith/internal/services/assistant"
	"github.com/zenithfin/zenith/internal/services/finance"
	"github.com/zenithfin/zenith/internal/services/portfolio"
	"github.com/zenithfin/zenith/internal/services/sync"
	"github.com/zenithfin/zenith/internal/storage"
)

// App holds all initialized services and clients.
type App struct {
	Config           *common.Config
	Logger           *common.Logger
	Storage          interfaces.StorageManager
	BrokerFactory    interfaces.BrokerClientFactory
	AssistantClient  interfaces.AssistantClient
	SyncService      interfaces.SyncService
	PortfolioService interfaces.PortfolioService
	FinanceService   interfaces.FinanceService
	AssistantService interfaces.AssistantService
	StartupTime      time.Time
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp initializes storage, clients, and services. configPath may be
// empty, in which case ZENITH_CONFIG, then the binary directory, then the
// development default are consulted.
func NewApp(configPath string) (*App, error) {
	binDir := getBinaryDir()

	if configPath == "" {
		configPath = os.Getenv("ZENITH_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(binDir, "zenith.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/zenith.toml" // fallback for development
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Resolve relative storage path to binary directory
	if config.Storage.Path != "" && !filepath.IsAbs(config.Storage.Path) {
		config.Storage.Path = filepath.Join(binDir, config.Storage.Path)
	}

	logger := common.NewLoggerFromConfig(config.Logging)

	return NewAppWithDeps(config, logger)
}

// NewAppWithDeps builds the app from pre-constructed config and logger.
// Split out so tests can inject both without touching the filesystem search
// paths.
func NewAppWithDeps(config *common.Config, logger *common.Logger) (*App, error) {
	storageManager, err := storage.NewManager(logger, config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	factory := clients.NewFactory(config, logger)

	var assistantClient interfaces.AssistantClient
	if config.Clients.Gemini.APIKey != "" {
		client, err := gemini.NewClient(context.Background(), config.Clients.Gemini.APIKey,
			gemini.WithModel(config.Clients.Gemini.Model),
			gemini.WithLogger(logger),
		)
		if err != nil {
			logger.Warn().Err(err).Msg("Gemini client unavailable, assistant disabled")
		} else {
			assistantClient = client
		}
	} else {
		logger.Info().Msg("No Gemini API key configured, assistant disabled")
	}

	dataStore := storageManager.DataStore()
	credentials := storageManager.Credentials()

	a := &App{
		Config:           config,
		Logger:           logger,
		Storage:          storageManager,
		BrokerFactory:    factory,
		AssistantClient:  assistantClient,
		SyncService:      sync.NewService(factory, dataStore, credentials, logger),
		PortfolioService: portfolio.NewService(dataStore, logger),
		FinanceService:   finance.NewService(dataStore, logger),
		AssistantService: assistant.NewService(assistantClient, dataStore, logger),
		StartupTime:      time.Now(),
	}

	logger.Info().
		Str("version", common.GetVersion()).
		Str("environment", config.Environment).
		Bool("simulated_brokers", config.Clients.UseSimulated).
		Msg("Zenith initialized")

	return a, nil
}

// Close releases app resources.
func (a *App) Close() error {
	if a.Storage != nil {
		return a.Storage.Close()
	}
	return nil
}
