package backend

import (
	"context"
	"time"

	"costs/internal/currency"
	"costs/internal/services"
	"costs/internal/storage"
)

// Store is a cost store that can report its health.
type Store interface {
	storage.Store
	Ping(ctx context.Context) error
}

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// BackendResult holds the wired service and the parts it was built from.
type BackendResult struct {
	Service *services.CostService
	Store   Store
	Rates   currency.Source
	Cleanup CleanupFunc
}

// Ready reports whether the store answers.
func (r *BackendResult) Ready(ctx context.Context) error {
	return r.Store.Ping(ctx)
}

// Factory creates backends based on configuration
type Factory interface {
	// CreateBackend creates a backend instance based on the provided config
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
	// OpenStore opens only the cost store
	OpenStore(ctx context.Context, config Config) (Store, error)
}

// Config holds configuration for backend creation
type Config struct {
	// Backend type
	Type BackendType

	// SQLite specific
	SQLiteDBPath string

	// Postgres specific
	PostgresDSN string

	// Exchange rates
	RatesURL      string
	RatesTimeout  time.Duration
	RatesCacheTTL time.Duration
	RatesStrict   bool

	// Optional cost-added events
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
}

// BackendType represents the type of backend
type BackendType string

const (
	SQLiteBackend   BackendType = "sqlite"
	PostgresBackend BackendType = "postgres"
	MemoryBackend   BackendType = "memory"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case SQLiteBackend, PostgresBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
