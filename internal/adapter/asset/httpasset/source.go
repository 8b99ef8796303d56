// Package httpasset fetches the dictionary asset over HTTP.
package httpasset

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/heartmarshall/rucheng-dialect/internal/domain"
)

// Source downloads the dictionary JSON from a fixed URL. It never retries:
// a failed load is final for the session.
type Source struct {
	url        string
	httpClient *http.Client
	log        *slog.Logger
}

// NewSource creates a Source for url with the given request timeout.
func NewSource(url string, timeout time.Duration, logger *slog.Logger) *Source {
	return &Source{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
		log:        logger.With("adapter", "httpasset"),
	}
}

// Fetch returns the raw response body. Network failures and non-2xx statuses
// are reported as *domain.TransportError.
func (s *Source) Fetch(ctx context.Context) ([]byte, error) {
	s.log.DebugContext(ctx, "httpasset request", slog.String("url", s.url))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, domain.NewTransportError(s.url, fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.log.ErrorContext(ctx, "httpasset request failed", slog.String("url", s.url), slog.String("error", err.Error()))
		return nil, domain.NewTransportError(s.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		s.log.ErrorContext(ctx, "httpasset unexpected status", slog.String("url", s.url), slog.Int("status", resp.StatusCode))
		return nil, domain.NewStatusError(s.url, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, domain.NewTransportError(s.url, fmt.Errorf("read body: %w", err))
	}

	s.log.DebugContext(ctx, "httpasset response",
		slog.String("url", s.url),
		slog.Int("status", resp.StatusCode),
		slog.Int("bytes", len(body)),
	)

	return body, nil
}
