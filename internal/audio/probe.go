// Package audio checks whether a recorded pronunciation exists for a
// phonetic key. A probe never fails: an absent file and an unreachable
// server both mean "no audio".
package audio

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/heartmarshall/rucheng-dialect/internal/config"
	"github.com/heartmarshall/rucheng-dialect/internal/metrics"
)

// Result is the outcome of a probe. Filename is set only when Exists is true.
type Result struct {
	Exists   bool   `json:"exists"`
	Filename string `json:"filename,omitempty"`
}

type probeRecorder interface {
	ObserveProbe(exists bool)
}

// Prober issues HEAD requests against {base_url}/{phoneticKey}{ext}.
type Prober struct {
	baseURL    string
	extensions []string
	httpClient *http.Client
	log        *slog.Logger
	metrics    probeRecorder
}

// NewProber creates a Prober from the audio configuration. rec may be nil.
func NewProber(cfg config.AudioConfig, logger *slog.Logger, rec probeRecorder) *Prober {
	if rec == nil {
		rec = (*metrics.Metrics)(nil)
	}
	exts := cfg.Extensions
	if len(exts) == 0 {
		exts = []string{".m4a"}
	}
	return &Prober{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		extensions: exts,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        logger.With("adapter", "audio"),
		metrics:    rec,
	}
}

// Probe checks each configured extension in order and returns the first one
// that answers with a success status. Nothing is cached between calls.
func (p *Prober) Probe(ctx context.Context, phoneticKey string) Result {
	if phoneticKey == "" {
		return Result{}
	}

	for _, ext := range p.extensions {
		filename := phoneticKey + ext
		if p.head(ctx, p.baseURL+"/"+url.PathEscape(filename)) {
			p.metrics.ObserveProbe(true)
			return Result{Exists: true, Filename: filename}
		}
	}

	p.metrics.ObserveProbe(false)
	return Result{}
}

func (p *Prober) head(ctx context.Context, target string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, target, nil)
	if err != nil {
		p.log.DebugContext(ctx, "audio probe: create request", slog.String("url", target), slog.String("error", err.Error()))
		return false
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		p.log.DebugContext(ctx, "audio probe failed", slog.String("url", target), slog.String("error", err.Error()))
		return false
	}
	resp.Body.Close()

	return resp.StatusCode >= 200 && resp.StatusCode < 300
}
