package backend

import (
	"context"
	"fmt"
	"log/slog"

	"costs/internal/amqp"
	"costs/internal/currency"
	applog "costs/internal/log"
	"costs/internal/services"
	"costs/internal/storage"
	"costs/internal/storage/memory"
	"costs/internal/storage/postgres"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{
		logger: applog.WithComponent(logger, applog.ComponentApp),
	}
}

// CreateBackend opens the store, builds the rate source chain and, when an
// AMQP URL is configured, the event publisher.
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	store, err := f.OpenStore(ctx, config)
	if err != nil {
		return nil, err
	}

	rates := f.createRateSource(config)

	var opts []services.Option
	if config.AMQPURL != "" {
		client, err := amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue)
		if err != nil {
			f.logger.Warn("Failed to initialize AMQP client, continuing without events", applog.FieldError, err)
		} else {
			f.logger.Info("Initialized AMQP client",
				"exchange", config.AMQPExchange,
				"queue", config.AMQPQueue)
			opts = append(opts, services.WithPublisher(client))
		}
	}

	svc := services.NewCostService(store, rates, opts...)
	return &BackendResult{
		Service: svc,
		Store:   store,
		Rates:   rates,
		Cleanup: svc.Close,
	}, nil
}

// OpenStore opens only the cost store selected by config.
func (f *DefaultFactory) OpenStore(ctx context.Context, config Config) (Store, error) {
	switch config.Type {
	case SQLiteBackend:
		repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
		}
		f.logger.Info("Initialized SQLite backend", "db_path", config.SQLiteDBPath)
		return repo, nil
	case PostgresBackend:
		repo, err := postgres.New(ctx, config.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Postgres repository: %w", err)
		}
		f.logger.Info("Initialized Postgres backend")
		return repo, nil
	case MemoryBackend:
		f.logger.Info("Initialized memory backend")
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

// createRateSource wraps the HTTP client with the optional cache and, unless
// strict mode is on, the built-in fallback table.
func (f *DefaultFactory) createRateSource(config Config) currency.Source {
	client := currency.NewClient(config.RatesURL, config.RatesTimeout)
	var src currency.Source = client
	if config.RatesCacheTTL > 0 {
		src = currency.WithCache(src, config.RatesCacheTTL)
	}
	if !config.RatesStrict {
		src = currency.WithFallback(src)
	}
	f.logger.Info("Configured exchange rate source",
		"url", client.URL(),
		"cache_ttl", config.RatesCacheTTL,
		"strict", config.RatesStrict)
	return src
}
