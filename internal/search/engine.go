package search

import (
	"context"
	"iter"
	"log/slog"
	"strings"
	"time"

	"github.com/heartmarshall/rucheng-dialect/internal/domain"
	"github.com/heartmarshall/rucheng-dialect/internal/metrics"
)

type dictionary interface {
	Get(key string) (domain.Records, bool)
	Entries() iter.Seq2[string, domain.Records]
	Size() int
}

type readinessGate interface {
	Ready() bool
}

type searchRecorder interface {
	ObserveSearch(outcome string, matches int, d time.Duration)
}

// Engine answers character and word lookups against the loaded dictionary.
type Engine struct {
	log     *slog.Logger
	dict    dictionary
	gate    readinessGate
	metrics searchRecorder
}

// NewEngine creates a search Engine. Queries are answered only once gate
// reports ready.
func NewEngine(logger *slog.Logger, dict dictionary, gate readinessGate, rec searchRecorder) *Engine {
	if rec == nil {
		rec = (*metrics.Metrics)(nil)
	}
	return &Engine{
		log:     logger.With("service", "search"),
		dict:    dict,
		gate:    gate,
		metrics: rec,
	}
}

// Search splits input into characters and, for each one in order, collects
// the exact entry for that character followed by every longer key that
// contains it. A key already in the result is never replaced.
//
// A dictionary that is not ready yet, an empty dictionary and an empty input
// all yield an empty result; none of them is an error.
func (e *Engine) Search(ctx context.Context, input string) *domain.SearchResult {
	start := time.Now()
	result := domain.NewSearchResult()

	if !e.gate.Ready() {
		e.log.WarnContext(ctx, "search rejected: dictionary not ready", slog.String("input", input))
		e.metrics.ObserveSearch(metrics.OutcomeNotReady, 0, time.Since(start))
		return result
	}

	if e.dict.Size() == 0 {
		e.log.WarnContext(ctx, "search against empty dictionary", slog.String("input", input))
		e.metrics.ObserveSearch(metrics.OutcomeEmpty, 0, time.Since(start))
		return result
	}

	for _, r := range input {
		c := string(r)

		if recs, ok := e.dict.Get(c); ok {
			result.Add(c, recs)
		}

		for word, recs := range e.dict.Entries() {
			if word != c && strings.Contains(word, c) {
				result.Add(word, recs)
			}
		}
	}

	outcome := metrics.OutcomeHit
	if result.Len() == 0 {
		outcome = metrics.OutcomeEmpty
	}
	e.metrics.ObserveSearch(outcome, result.Len(), time.Since(start))

	e.log.DebugContext(ctx, "search done",
		slog.String("input", input),
		slog.Int("matches", result.Len()),
	)

	return result
}

// APIResponse mirrors the response of the former server-side search API.
type APIResponse struct {
	Character    string               `json:"character"`
	Results      *domain.SearchResult `json:"results"`
	TotalMatches int                  `json:"total_matches"`
}

// APISearch runs Search and wraps the result in the legacy API shape.
func (e *Engine) APISearch(ctx context.Context, character string) APIResponse {
	results := e.Search(ctx, character)
	return APIResponse{
		Character:    character,
		Results:      results,
		TotalMatches: results.Len(),
	}
}
