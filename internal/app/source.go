package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/rucheng-dialect/internal/adapter/asset/fileasset"
	"github.com/heartmarshall/rucheng-dialect/internal/adapter/asset/httpasset"
	"github.com/heartmarshall/rucheng-dialect/internal/adapter/postgres"
	"github.com/heartmarshall/rucheng-dialect/internal/config"
)

// Fetcher acquires the raw dictionary payload.
type Fetcher interface {
	Fetch(ctx context.Context) ([]byte, error)
}

// Source is the configured dictionary source. Pool is non-nil only for the
// postgres source and is closed by Close.
type Source struct {
	Fetcher Fetcher
	Pool    *pgxpool.Pool
}

// Close releases the database pool, if any.
func (s *Source) Close() {
	if s.Pool != nil {
		s.Pool.Close()
	}
}

// OpenSource builds the dictionary source selected by cfg.Dictionary.Source.
func OpenSource(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Source, error) {
	switch cfg.Dictionary.Source {
	case config.SourceHTTP:
		return &Source{Fetcher: httpasset.NewSource(cfg.Dictionary.URL, cfg.Dictionary.FetchTimeout, logger)}, nil

	case config.SourceFile:
		return &Source{Fetcher: withTimeout(fileasset.NewSource(cfg.Dictionary.Path, logger), cfg.Dictionary.FetchTimeout)}, nil

	case config.SourcePostgres:
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("app: open source: %w", err)
		}
		if cfg.Database.AutoMigrate {
			if err := postgres.MigratePool(ctx, pool, logger); err != nil {
				pool.Close()
				return nil, fmt.Errorf("app: migrate: %w", err)
			}
		}
		repo := postgres.NewDictionaryRepo(pool, logger)
		return &Source{Fetcher: withTimeout(repo, cfg.Dictionary.FetchTimeout), Pool: pool}, nil

	default:
		return nil, fmt.Errorf("app: unknown dictionary source %q", cfg.Dictionary.Source)
	}
}

type timeoutFetcher struct {
	next    Fetcher
	timeout time.Duration
}

func withTimeout(next Fetcher, timeout time.Duration) Fetcher {
	if timeout <= 0 {
		return next
	}
	return &timeoutFetcher{next: next, timeout: timeout}
}

func (f *timeoutFetcher) Fetch(ctx context.Context) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()
	return f.next.Fetch(ctx)
}
