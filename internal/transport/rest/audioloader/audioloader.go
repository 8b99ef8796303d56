// Package audioloader batches the audio availability probes of one request.
// Loaders are created per request and never cache across requests: every
// request re-probes, which keeps a newly uploaded recording visible at once.
package audioloader

import (
	"context"
	"net/http"
	"time"

	"github.com/graph-gophers/dataloader/v7"
	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/rucheng-dialect/internal/audio"
)

const (
	maxBatch = 100
	wait     = 2 * time.Millisecond
)

// Prober checks a single phonetic key.
type Prober interface {
	Probe(ctx context.Context, phoneticKey string) audio.Result
}

// Loader wraps a batched dataloader keyed by phonetic key.
type Loader struct {
	loader *dataloader.Loader[string, audio.Result]
}

// New creates a Loader. At most limit probes run at the same time; a
// non-positive limit means unbounded.
func New(p Prober, limit int) *Loader {
	return &Loader{
		loader: dataloader.NewBatchedLoader(
			newProbeBatchFn(p, limit),
			dataloader.WithWait[string, audio.Result](wait),
			dataloader.WithBatchCapacity[string, audio.Result](maxBatch),
			dataloader.WithCache[string, audio.Result](&dataloader.NoCache[string, audio.Result]{}),
		),
	}
}

// Probe schedules a single key and waits for its batch.
func (l *Loader) Probe(ctx context.Context, key string) audio.Result {
	res, err := l.loader.Load(ctx, key)()
	if err != nil {
		return audio.Result{}
	}
	return res
}

// ProbeMany probes keys and returns results keyed by phonetic key.
// Duplicate keys are probed once.
func (l *Loader) ProbeMany(ctx context.Context, keys []string) map[string]audio.Result {
	unique := make([]string, 0, len(keys))
	seen := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		unique = append(unique, k)
	}

	out := make(map[string]audio.Result, len(unique))
	if len(unique) == 0 {
		return out
	}

	results, errs := l.loader.LoadMany(ctx, unique)()
	for i, k := range unique {
		if i < len(errs) && errs[i] != nil {
			out[k] = audio.Result{}
			continue
		}
		out[k] = results[i]
	}
	return out
}

// newProbeBatchFn fans the batch out over an errgroup. Probes never fail, so
// the group only bounds concurrency and waits.
func newProbeBatchFn(p Prober, limit int) dataloader.BatchFunc[string, audio.Result] {
	return func(ctx context.Context, keys []string) []*dataloader.Result[audio.Result] {
		results := make([]*dataloader.Result[audio.Result], len(keys))

		g, gctx := errgroup.WithContext(ctx)
		if limit > 0 {
			g.SetLimit(limit)
		}
		for i, key := range keys {
			g.Go(func() error {
				results[i] = &dataloader.Result[audio.Result]{Data: p.Probe(gctx, key)}
				return nil
			})
		}
		_ = g.Wait()

		return results
	}
}

// ---------------------------------------------------------------------------
// Context helpers
// ---------------------------------------------------------------------------

type contextKey string

const loaderKey contextKey = "audioloader"

// WithLoader stores a Loader in the context.
func WithLoader(ctx context.Context, l *Loader) context.Context {
	return context.WithValue(ctx, loaderKey, l)
}

// FromContext retrieves the Loader from the context.
// Panics if the loader is not present (indicates middleware misconfiguration).
func FromContext(ctx context.Context) *Loader {
	l, ok := ctx.Value(loaderKey).(*Loader)
	if !ok || l == nil {
		panic("audioloader: loader not found in context, is middleware configured?")
	}
	return l
}

// Middleware creates an HTTP middleware that instantiates a per-request
// Loader and stores it in the request context.
func Middleware(p Prober, limit int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := WithLoader(r.Context(), New(p, limit))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
