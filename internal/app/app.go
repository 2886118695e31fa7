// Package app wires configuration, logging, storage, and the ledger services
// into a single shared core used by cmd/finvoice-server and tests.
package app

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ujjwalpatil07/FinVoice/internal/common"
	"github.com/ujjwalpatil07/FinVoice/internal/interfaces"
	"github.com/ujjwalpatil07/FinVoice/internal/services/analytics"
	"github.com/ujjwalpatil07/FinVoice/internal/services/budget"
	"github.com/ujjwalpatil07/FinVoice/internal/services/goal"
	"github.com/ujjwalpatil07/FinVoice/internal/services/ledger"
	surreal "github.com/ujjwalpatil07/FinVoice/internal/storage/surrealdb"
)

// App holds all initialized services and storage.
type App struct {
	Config           *common.Config
	Logger           *common.Logger
	Storage          interfaces.StorageManager
	LedgerService    interfaces.LedgerService
	GoalService      interfaces.GoalService
	BudgetService    interfaces.BudgetService
	AnalyticsService interfaces.AnalyticsService
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

// NewApp initializes configuration, logging, storage, and services.
// configPath may be empty, in which case the default resolution logic is used.
func NewApp(configPath string) (*App, error) {
	startupStart := time.Now()

	// Check provided path, FINVOICE_CONFIG, then binary dir, then fallback
	if configPath == "" {
		configPath = os.Getenv("FINVOICE_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(getBinaryDir(), "finvoice.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/finvoice.toml" // fallback for development
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := common.NewLoggerFromConfig(config.Logging)

	storageManager, err := surreal.NewManager(logger, config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	a := &App{
		Config:           config,
		Logger:           logger,
		Storage:          storageManager,
		LedgerService:    ledger.NewService(storageManager, config.Currency, logger),
		GoalService:      goal.NewService(storageManager, logger),
		BudgetService:    budget.NewService(storageManager, logger),
		AnalyticsService: analytics.NewService(storageManager, logger),
		StartupTime:      startupStart,
	}

	logger.Info().Dur("startup", time.Since(startupStart)).Msg("App initialized")

	return a, nil
}

// NewAppWithStorage builds an App on an existing storage manager. Used by
// tests that substitute an in-memory store.
func NewAppWithStorage(config *common.Config, logger *common.Logger, storage interfaces.StorageManager) *App {
	return &App{
		Config:           config,
		Logger:           logger,
		Storage:          storage,
		LedgerService:    ledger.NewService(storage, config.Currency, logger),
		GoalService:      goal.NewService(storage, logger),
		BudgetService:    budget.NewService(storage, logger),
		AnalyticsService: analytics.NewService(storage, logger),
		StartupTime:      time.Now(),
	}
}

// Close releases all resources held by the App.
func (a *App) Close() {
	if a.Storage != nil {
		a.Storage.Close()
		a.Storage = nil
	}
}
