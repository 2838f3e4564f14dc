package backend

import (
	"context"
	"fmt"

	"purchases/internal/amqp"
	"purchases/internal/cache"
	"purchases/internal/core"
	"purchases/internal/log"
	"purchases/internal/sources"
	"purchases/internal/sources/file"
	"purchases/internal/sources/google"
	"purchases/internal/storage"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *log.Logger
}

func NewFactory(logger *log.Logger) Factory {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &DefaultFactory{
		logger: logger.WithComponent(log.ComponentBackend),
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var (
		result *BackendResult
		err    error
	)
	switch config.Type {
	case FileBackend:
		result, err = f.createFileBackend(config)
	case SQLiteBackend:
		result, err = f.createSQLiteBackend(config)
	case SheetsBackend:
		result, err = f.createSheetsBackend(ctx, config)
	case AMQPBackend:
		result, err = f.createAMQPBackend(config)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s: %w", config.Type, core.ErrInvalidArgument)
	}
	if err != nil {
		return nil, err
	}

	if config.CacheTTL > 0 {
		f.withCache(result, config)
	}

	return result, nil
}

// withCache wraps every loader in a shared source cache and logs its
// counters when the backend is closed.
func (f *DefaultFactory) withCache(result *BackendResult, config Config) {
	c := cache.NewLRUCache[[]core.PurchaseRecord](config.CacheSize, config.CacheTTL)
	for i, l := range result.Loaders {
		result.Loaders[i] = sources.Cached(l, c)
	}

	logger := f.logger.WithComponent(log.ComponentCache)
	logger.Debug("Source cache enabled", "ttl", config.CacheTTL, "size", config.CacheSize)

	cleanup := result.Cleanup
	result.Cleanup = func() error {
		stats := c.Stats()
		logger.Debug("Source cache stats", "hits", stats.Hits, "misses", stats.Misses, "entries", stats.Size)
		if cleanup != nil {
			return cleanup()
		}
		return nil
	}
}

func (f *DefaultFactory) createFileBackend(config Config) (*BackendResult, error) {
	loaders, err := file.Expand(config.Files)
	if err != nil {
		return nil, err
	}
	if len(loaders) == 0 {
		return nil, fmt.Errorf("no .json or .yaml files found in %v: %w", config.Files, core.ErrInvalidArgument)
	}

	f.logger.Info("Initialized file backend", log.FieldBackend, FileBackend, log.FieldSources, len(loaders))

	return &BackendResult{Loaders: loaders}, nil
}

func (f *DefaultFactory) createSQLiteBackend(config Config) (*BackendResult, error) {
	repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath, f.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}

	f.logger.Info("Initialized SQLite backend", log.FieldBackend, SQLiteBackend, "db_path", config.SQLiteDBPath)

	return &BackendResult{
		Loaders: []sources.Loader{repo},
		Cleanup: repo.Close,
	}, nil
}

func (f *DefaultFactory) createSheetsBackend(ctx context.Context, config Config) (*BackendResult, error) {
	loader, err := google.New(ctx, config.GoogleSpreadsheetID, config.GoogleSheetRange, f.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Google Sheets client: %w", err)
	}

	f.logger.Info("Initialized Google Sheets backend", log.FieldBackend, SheetsBackend, log.FieldSource, loader.Name())

	return &BackendResult{Loaders: []sources.Loader{loader}}, nil
}

func (f *DefaultFactory) createAMQPBackend(config Config) (*BackendResult, error) {
	client, err := amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue, f.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize AMQP client: %w", err)
	}

	f.logger.Info("Initialized AMQP backend",
		log.FieldBackend, AMQPBackend,
		"exchange", config.AMQPExchange,
		"queue", config.AMQPQueue)

	return &BackendResult{
		Loaders: []sources.Loader{client.Loader()},
		Cleanup: client.Close,
	}, nil
}
