package rest

import (
	"net/http"
	"sync"

	"github.com/heartmarshall/rucheng-dialect/internal/domain"
)

// LoadFailedBanner is the user-facing notice shown when the dictionary could
// not be loaded.
const LoadFailedBanner = "数据加载失败! 无法加载方言数据，请刷新页面重试。"

// LoadErrorBanner holds the fallback notice for a failed dictionary load.
// It satisfies lifecycle.FallbackPresenter.
type LoadErrorBanner struct {
	mu      sync.RWMutex
	message string
}

// NewLoadErrorBanner creates an empty banner.
func NewLoadErrorBanner() *LoadErrorBanner {
	return &LoadErrorBanner{}
}

// ShowLoadError records the failure so /api/stats reports the banner. The
// reason itself is reported separately from the lifecycle state.
func (b *LoadErrorBanner) ShowLoadError(string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.message = LoadFailedBanner
}

// Message returns the banner text, or "" when no failure was shown.
func (b *LoadErrorBanner) Message() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.message
}

type statsSource interface {
	State() domain.Readiness
	Stats() domain.DataLoaded
}

// StatsResponse is the JSON response for /api/stats.
type StatsResponse struct {
	State      string `json:"state"`
	TotalChars int    `json:"totalChars"`
	DataCount  int    `json:"dataCount"`
	Error      string `json:"error,omitempty"`
	Banner     string `json:"banner,omitempty"`
}

// StatsHandler serves GET /api/stats.
type StatsHandler struct {
	source statsSource
	banner *LoadErrorBanner
}

// NewStatsHandler creates a StatsHandler. banner may be nil.
func NewStatsHandler(source statsSource, banner *LoadErrorBanner) *StatsHandler {
	return &StatsHandler{source: source, banner: banner}
}

// Stats reports the load state and dictionary size.
func (h *StatsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	st := h.source.State()
	counts := h.source.Stats()

	resp := StatsResponse{
		State:      st.State.String(),
		TotalChars: counts.TotalChars,
		DataCount:  counts.DataCount,
		Error:      st.Reason,
	}
	if h.banner != nil {
		resp.Banner = h.banner.Message()
	}

	writeJSON(w, http.StatusOK, resp)
}
