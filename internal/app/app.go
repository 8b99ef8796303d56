package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"

	"github.com/heartmarshall/rucheng-dialect/internal/audio"
	"github.com/heartmarshall/rucheng-dialect/internal/config"
	"github.com/heartmarshall/rucheng-dialect/internal/dictionary"
	"github.com/heartmarshall/rucheng-dialect/internal/lifecycle"
	"github.com/heartmarshall/rucheng-dialect/internal/metrics"
	"github.com/heartmarshall/rucheng-dialect/internal/search"
	"github.com/heartmarshall/rucheng-dialect/internal/transport/rest"
)

// Service is the assembled dictionary service: one store, one lifecycle,
// one search engine and the HTTP handler serving them.
type Service struct {
	Store     *dictionary.Store
	Lifecycle *lifecycle.Lifecycle
	Engine    *search.Engine
	Prober    *audio.Prober
	Metrics   *metrics.Metrics
	Handler   http.Handler

	source *Source
}

// NewService wires every component from cfg. The dictionary is not loaded
// until Lifecycle.Initialize or Lifecycle.Load is called.
func NewService(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Service, error) {
	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New(cfg.Metrics.Namespace)
	}

	src, err := OpenSource(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	store := dictionary.NewStore()
	banner := rest.NewLoadErrorBanner()
	lc := lifecycle.New(logger, store, src.Fetcher, banner, m)
	engine := search.NewEngine(logger, store, lc, m)
	prober := audio.NewProber(cfg.Audio, logger, m)

	var db interface {
		Ping(ctx context.Context) error
	}
	if src.Pool != nil {
		db = src.Pool
	}

	var metricsHandler http.Handler
	if m != nil {
		metricsHandler = m.Handler()
	}

	handler := rest.NewRouter(rest.RouterDeps{
		Logger:           logger,
		CORS:             cfg.CORS,
		Search:           rest.NewSearchHandler(engine),
		Stats:            rest.NewStatsHandler(lc, banner),
		Audio:            rest.NewAudioHandler(),
		Health:           rest.NewHealthHandler(lc, db, BuildVersion()),
		Prober:           prober,
		AudioConcurrency: cfg.Audio.MaxConcurrency,
		Metrics:          metricsHandler,
		StaticDir:        cfg.Server.StaticDir,
	})

	return &Service{
		Store:     store,
		Lifecycle: lc,
		Engine:    engine,
		Prober:    prober,
		Metrics:   m,
		Handler:   handler,
		source:    src,
	}, nil
}

// Close releases resources held by the dictionary source.
func (s *Service) Close() {
	s.source.Close()
}

// Run is the application entry point. It loads configuration, initializes
// the logger, starts loading the dictionary in the background and serves
// HTTP until ctx is cancelled.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
		slog.String("dictionary_source", cfg.Dictionary.Source),
	)

	svc, err := NewService(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer svc.Close()

	svc.Lifecycle.Initialize(ctx)

	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      svc.Handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down", slog.Duration("timeout", cfg.Server.ShutdownTimeout))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}

	logger.Info("server stopped")
	return nil
}
