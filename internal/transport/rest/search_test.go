package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/rucheng-dialect/internal/domain"
	"github.com/heartmarshall/rucheng-dialect/internal/search"
)

type searcherMock struct {
	APISearchFunc func(ctx context.Context, character string) search.APIResponse
	calls         []string
}

func (m *searcherMock) APISearch(ctx context.Context, character string) search.APIResponse {
	m.calls = append(m.calls, character)
	return m.APISearchFunc(ctx, character)
}

func TestSearch_OK(t *testing.T) {
	t.Parallel()

	mock := &searcherMock{APISearchFunc: func(_ context.Context, character string) search.APIResponse {
		res := domain.NewSearchResult()
		res.Add("汝", domain.Records{json.RawMessage(`{"phonetic":"ru35"}`)})
		return search.APIResponse{Character: character, Results: res, TotalMatches: res.Len()}
	}}
	h := NewSearchHandler(mock)

	rec := httptest.NewRecorder()
	h.Search(rec, httptest.NewRequest(http.MethodGet, "/api/search?character=%20%E6%B1%9D%20", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"汝"}, mock.calls, "input is trimmed before searching")
	assert.JSONEq(t,
		`{"character":"汝","results":{"汝":[{"phonetic":"ru35"}]},"total_matches":1}`,
		rec.Body.String())
}

func TestSearch_BlankInput(t *testing.T) {
	t.Parallel()

	for _, target := range []string{"/api/search", "/api/search?character=", "/api/search?character=%20%20"} {
		t.Run(target, func(t *testing.T) {
			t.Parallel()

			mock := &searcherMock{APISearchFunc: func(context.Context, string) search.APIResponse {
				t.Error("engine should not be called")
				return search.APIResponse{}
			}}

			rec := httptest.NewRecorder()
			NewSearchHandler(mock).Search(rec, httptest.NewRequest(http.MethodGet, target, nil))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.JSONEq(t, `{"error":"请输入要搜索的汉字"}`, rec.Body.String())
		})
	}
}

func TestWriteDomainError(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	writeDomainError(rec, domain.ErrTransport)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal error"}`, rec.Body.String())
}
