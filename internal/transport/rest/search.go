package rest

import (
	"context"
	"net/http"
	"strings"

	"github.com/heartmarshall/rucheng-dialect/internal/domain"
	"github.com/heartmarshall/rucheng-dialect/internal/search"
)

// EmptyInputMessage is shown when a search is submitted without characters.
const EmptyInputMessage = "请输入要搜索的汉字"

type searcher interface {
	APISearch(ctx context.Context, character string) search.APIResponse
}

// SearchHandler serves GET /api/search.
type SearchHandler struct {
	engine searcher
}

// NewSearchHandler creates a SearchHandler.
func NewSearchHandler(engine searcher) *SearchHandler {
	return &SearchHandler{engine: engine}
}

// Search answers ?character=... with the lookup result. A dictionary that is
// not loaded yet still yields 200 with empty results.
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	input, err := parseCharacter(r.URL.Query().Get("character"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, h.engine.APISearch(r.Context(), input))
}

func parseCharacter(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", domain.NewValidationError("character", EmptyInputMessage)
	}
	return s, nil
}
