// Package lifecycle drives the one-shot acquisition of the dictionary asset:
// fetch, parse into the store, flip the readiness gate and notify observers.
// A load either completes or fails; there is no retry and no abort.
package lifecycle

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/heartmarshall/rucheng-dialect/internal/domain"
	"github.com/heartmarshall/rucheng-dialect/internal/metrics"
)

// ErrAlreadyInitialized is returned by Load when a load cycle was already
// started for this Lifecycle.
var ErrAlreadyInitialized = errors.New("lifecycle: already initialized")

type dictionaryLoader interface {
	Load(payload []byte) error
	Size() int
}

type assetFetcher interface {
	Fetch(ctx context.Context) ([]byte, error)
}

// FallbackPresenter shows the user-visible load failure notice.
type FallbackPresenter interface {
	ShowLoadError(reason string)
}

type loadRecorder interface {
	ObserveLoad(err error, keys int, d time.Duration)
}

// Lifecycle owns the readiness state of one dictionary session.
type Lifecycle struct {
	log       *slog.Logger
	store     dictionaryLoader
	fetcher   assetFetcher
	presenter FallbackPresenter
	metrics   loadRecorder

	mu            sync.RWMutex
	state         domain.ReadinessState
	reason        string
	totalChars    int
	readyHandlers []func(domain.DataLoaded)
	errorHandlers []func(domain.DataLoadError)

	done chan struct{}
}

// New creates a Lifecycle in the Uninitialized state. presenter and rec may be nil.
func New(
	logger *slog.Logger,
	store dictionaryLoader,
	fetcher assetFetcher,
	presenter FallbackPresenter,
	rec loadRecorder,
) *Lifecycle {
	if rec == nil {
		rec = (*metrics.Metrics)(nil)
	}
	return &Lifecycle{
		log:       logger.With("service", "lifecycle"),
		store:     store,
		fetcher:   fetcher,
		presenter: presenter,
		metrics:   rec,
		done:      make(chan struct{}),
	}
}

// OnReady registers a handler for the DataLoaded notification. Handlers
// registered after the notification fired are not called.
func (l *Lifecycle) OnReady(h func(domain.DataLoaded)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.readyHandlers = append(l.readyHandlers, h)
}

// OnError registers a handler for the DataLoadError notification. Handlers
// registered after the notification fired are not called.
func (l *Lifecycle) OnError(h func(domain.DataLoadError)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errorHandlers = append(l.errorHandlers, h)
}

// Initialize starts the load on its own goroutine and returns immediately.
// Completion is observed through OnReady/OnError or Done. Only the first
// call (of Initialize or Load) starts a load; later calls are ignored.
func (l *Lifecycle) Initialize(ctx context.Context) {
	if !l.begin() {
		l.log.WarnContext(ctx, "initialize ignored: load already started",
			slog.String("state", l.State().State.String()),
		)
		return
	}
	go func() { _ = l.run(ctx) }()
}

// Load runs the load synchronously and returns its error, if any. The
// outcome is also published to observers exactly as with Initialize.
func (l *Lifecycle) Load(ctx context.Context) error {
	if !l.begin() {
		return ErrAlreadyInitialized
	}
	return l.run(ctx)
}

// Done is closed once the load settles, either Ready or Failed.
func (l *Lifecycle) Done() <-chan struct{} {
	return l.done
}

// State returns the current readiness snapshot.
func (l *Lifecycle) State() domain.Readiness {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return domain.Readiness{State: l.state, Reason: l.reason}
}

// Ready reports whether the dictionary is fully loaded.
func (l *Lifecycle) Ready() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state == domain.StateReady
}

// Stats returns the character count of the loaded dictionary. Both counts are
// zero unless the state is Ready.
func (l *Lifecycle) Stats() domain.DataLoaded {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return domain.DataLoaded{TotalChars: l.totalChars, DataCount: l.totalChars}
}

func (l *Lifecycle) begin() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state != domain.StateUninitialized {
		return false
	}
	l.state = domain.StateLoading
	return true
}

func (l *Lifecycle) run(ctx context.Context) error {
	defer close(l.done)
	start := time.Now()

	l.log.InfoContext(ctx, "loading dictionary")

	payload, err := l.fetcher.Fetch(ctx)
	if err == nil {
		err = l.store.Load(payload)
	}
	if err != nil {
		l.metrics.ObserveLoad(err, 0, time.Since(start))
		l.fail(ctx, err)
		return err
	}

	// Recomputed from the store on every load, never tracked incrementally.
	size := l.store.Size()
	l.metrics.ObserveLoad(nil, size, time.Since(start))

	l.mu.Lock()
	l.state = domain.StateReady
	l.reason = ""
	l.totalChars = size
	handlers := append([]func(domain.DataLoaded){}, l.readyHandlers...)
	l.mu.Unlock()

	l.log.InfoContext(ctx, "dictionary loaded",
		slog.Int("total_chars", size),
		slog.Duration("duration", time.Since(start)),
	)

	evt := domain.DataLoaded{TotalChars: size, DataCount: size}
	for _, h := range handlers {
		h(evt)
	}
	return nil
}

func (l *Lifecycle) fail(ctx context.Context, err error) {
	reason := err.Error()

	l.mu.Lock()
	l.state = domain.StateFailed
	l.reason = reason
	l.totalChars = 0
	handlers := append([]func(domain.DataLoadError){}, l.errorHandlers...)
	l.mu.Unlock()

	l.log.ErrorContext(ctx, "dictionary load failed",
		slog.String("error", reason),
		slog.Bool("transport", errors.Is(err, domain.ErrTransport)),
		slog.Bool("malformed", errors.Is(err, domain.ErrMalformedDictionary)),
	)

	evt := domain.DataLoadError{Error: reason}
	for _, h := range handlers {
		h(evt)
	}

	if l.presenter != nil {
		l.presenter.ShowLoadError(reason)
	}
}
