package backend

import (
	"fmt"

	"purchases/internal/config"
	"purchases/internal/core"
)

// FromAppConfig converts the application config to backend config. Files
// named on the command line select the file backend whatever SOURCE_BACKEND
// says; without them the file backend reads DATA_FILES.
func FromAppConfig(appConfig *config.Config, files []string) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil: %w", core.ErrInvalidArgument)
	}

	backendType := BackendType(appConfig.SourceBackend)
	if !backendType.IsValid() {
		return Config{}, fmt.Errorf("invalid backend type in config: %s: %w", appConfig.SourceBackend, core.ErrInvalidArgument)
	}

	if len(files) > 0 {
		backendType = FileBackend
	} else {
		files = appConfig.DataFiles
	}

	return Config{
		Type:  backendType,
		Files: files,

		SQLiteDBPath: appConfig.SQLiteDBPath,

		AMQPURL:      appConfig.AMQPURL,
		AMQPExchange: appConfig.AMQPExchange,
		AMQPQueue:    appConfig.AMQPQueue,

		GoogleSpreadsheetID: appConfig.GoogleSpreadsheetID,
		GoogleSheetRange:    appConfig.GoogleSheetRange,

		CacheTTL:  appConfig.SourceCacheTTL,
		CacheSize: appConfig.SourceCacheSize,
	}, nil
}

// Validate validates the backend configuration
func (c Config) Validate() error {
	if !c.Type.IsValid() {
		return fmt.Errorf("invalid backend type %q, must be one of %v: %w", c.Type, GetBackendTypes(), core.ErrInvalidArgument)
	}

	switch c.Type {
	case FileBackend:
		if len(c.Files) == 0 {
			return fmt.Errorf("no input files given for file backend: %w", core.ErrInvalidArgument)
		}
	case SQLiteBackend:
		if c.SQLiteDBPath == "" {
			return fmt.Errorf("SQLite database path is required for sqlite backend: %w", core.ErrInvalidArgument)
		}
	case SheetsBackend:
		if c.GoogleSpreadsheetID == "" {
			return fmt.Errorf("Google Spreadsheet ID is required for sheets backend: %w", core.ErrInvalidArgument)
		}
	case AMQPBackend:
		if c.AMQPURL == "" || c.AMQPQueue == "" {
			return fmt.Errorf("AMQP URL and queue are required for amqp backend: %w", core.ErrInvalidArgument)
		}
	}

	return nil
}

// GetBackendTypes returns all valid backend types
func GetBackendTypes() []BackendType {
	return []BackendType{FileBackend, SQLiteBackend, SheetsBackend, AMQPBackend}
}
