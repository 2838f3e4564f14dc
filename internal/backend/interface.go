package backend

import (
	"context"
	"time"

	"purchases/internal/sources"
)

// CleanupFunc releases resources held by a backend
type CleanupFunc func() error

// BackendResult contains the configured loaders and an optional cleanup function
type BackendResult struct {
	Loaders []sources.Loader
	Cleanup CleanupFunc
}

// Close runs the cleanup function, if any.
func (r *BackendResult) Close() error {
	if r == nil || r.Cleanup == nil {
		return nil
	}
	return r.Cleanup()
}

// Factory creates source loaders based on configuration
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds configuration for backend creation
type Config struct {
	Type BackendType

	// File specific
	Files []string

	// SQLite specific
	SQLiteDBPath string

	// AMQP specific
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Google Sheets specific
	GoogleSpreadsheetID string
	GoogleSheetRange    string

	// Source cache; a zero TTL disables caching
	CacheTTL  time.Duration
	CacheSize int
}

// BackendType represents the type of backend
type BackendType string

const (
	FileBackend   BackendType = "file"
	SQLiteBackend BackendType = "sqlite"
	SheetsBackend BackendType = "sheets"
	AMQPBackend   BackendType = "amqp"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case FileBackend, SQLiteBackend, SheetsBackend, AMQPBackend:
		return true
	default:
		return false
	}
}
