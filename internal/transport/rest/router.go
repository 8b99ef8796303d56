package rest

import (
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/heartmarshall/rucheng-dialect/internal/config"
	"github.com/heartmarshall/rucheng-dialect/internal/transport/middleware"
	"github.com/heartmarshall/rucheng-dialect/internal/transport/rest/audioloader"
)

// RouterDeps groups everything the HTTP router serves.
type RouterDeps struct {
	Logger  *slog.Logger
	CORS    config.CORSConfig
	Search  *SearchHandler
	Stats   *StatsHandler
	Audio   *AudioHandler
	Health  *HealthHandler
	Prober  audioloader.Prober
	// AudioConcurrency bounds parallel probes within one /api/audio request.
	AudioConcurrency int
	// Metrics is mounted at /metrics when non-nil.
	Metrics http.Handler
	// StaticDir is the site root when non-empty: pages such as index.html
	// and results.html at /, assets under /static/ and /data/.
	StaticDir string
}

// NewRouter builds the HTTP handler: routes wrapped in
// Recovery, RequestID, Logger and CORS, outermost first.
func NewRouter(d RouterDeps) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/search", d.Search.Search)
	mux.HandleFunc("GET /api/stats", d.Stats.Stats)
	mux.Handle("GET /api/audio",
		audioloader.Middleware(d.Prober, d.AudioConcurrency)(http.HandlerFunc(d.Audio.Audio)))

	mux.HandleFunc("GET /live", d.Health.Live)
	mux.HandleFunc("GET /ready", d.Health.Ready)
	mux.HandleFunc("GET /health", d.Health.Health)

	if d.Metrics != nil {
		mux.Handle("GET /metrics", d.Metrics)
	}

	if d.StaticDir != "" {
		mux.Handle("GET /static/", http.StripPrefix("/static/",
			http.FileServer(http.Dir(filepath.Join(d.StaticDir, "static")))))
		mux.Handle("GET /data/", http.StripPrefix("/data/",
			http.FileServer(http.Dir(filepath.Join(d.StaticDir, "data")))))
		// Catch-all for the pages; the /api and health patterns above are
		// more specific and win.
		mux.Handle("GET /", http.FileServer(http.Dir(d.StaticDir)))
	}

	return middleware.Chain(
		middleware.Recovery(d.Logger),
		middleware.RequestID(),
		middleware.Logger(d.Logger),
		middleware.CORS(d.CORS),
	)(mux)
}
