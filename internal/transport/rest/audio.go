package rest

import (
	"net/http"
	"strings"

	"github.com/heartmarshall/rucheng-dialect/internal/transport/rest/audioloader"
)

// AudioHandler serves GET /api/audio. It must run behind audioloader.Middleware.
type AudioHandler struct{}

// NewAudioHandler creates an AudioHandler.
func NewAudioHandler() *AudioHandler {
	return &AudioHandler{}
}

// Audio probes every ?phonetic= value and returns a map keyed by phonetic key.
func (h *AudioHandler) Audio(w http.ResponseWriter, r *http.Request) {
	var keys []string
	for _, v := range r.URL.Query()["phonetic"] {
		if v = strings.TrimSpace(v); v != "" {
			keys = append(keys, v)
		}
	}
	if len(keys) == 0 {
		writeError(w, http.StatusBadRequest, "phonetic is required")
		return
	}

	loader := audioloader.FromContext(r.Context())
	writeJSON(w, http.StatusOK, loader.ProbeMany(r.Context(), keys))
}
