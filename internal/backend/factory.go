package backend

import (
	"context"
	"fmt"

	"fintrack/internal/core"
	"fintrack/internal/ledger/memory"
	applog "fintrack/internal/log"
	"fintrack/internal/storage"
)

// DefaultFactory implements the Factory interface.
type DefaultFactory struct {
	reg    core.Registry
	logger *applog.Logger
}

// NewFactory creates a backend factory for the given field registry.
func NewFactory(reg core.Registry, logger *applog.Logger) Factory {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	return &DefaultFactory{reg: reg, logger: logger.WithComponent(applog.ComponentBackend)}
}

func (f *DefaultFactory) CreateBackend(_ context.Context, config Config) (*Result, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case SQLiteBackend:
		return f.createSQLiteBackend(config)
	case MemoryBackend:
		return f.createMemoryBackend(config)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *DefaultFactory) createSQLiteBackend(config Config) (*Result, error) {
	repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("initialize SQLite repository: %w", err)
	}

	f.logger.Info("Initialized SQLite backend", "db_path", config.SQLiteDBPath)

	return &Result{
		Backend: repo,
		Cleanup: repo.Close,
	}, nil
}

func (f *DefaultFactory) createMemoryBackend(config Config) (*Result, error) {
	dataDir := config.DataDirectory
	if dataDir == "" {
		dataDir = "data"
	}

	store := memory.NewFromFiles(f.reg, dataDir)

	f.logger.Info("Initialized memory backend", "data_directory", dataDir)

	return &Result{
		Backend: store,
		Cleanup: nil,
	}, nil
}
