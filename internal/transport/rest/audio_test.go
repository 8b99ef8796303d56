package rest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/rucheng-dialect/internal/audio"
	"github.com/heartmarshall/rucheng-dialect/internal/transport/rest/audioloader"
)

func TestAudio_SkipsBlankAndDuplicateKeys(t *testing.T) {
	t.Parallel()

	var (
		mu     sync.Mutex
		probed []string
	)
	p := &proberMock{ProbeFunc: func(_ context.Context, key string) audio.Result {
		mu.Lock()
		probed = append(probed, key)
		mu.Unlock()
		return audio.Result{}
	}}

	req := httptest.NewRequest(http.MethodGet, "/api/audio?phonetic=ru35&phonetic=%20&phonetic=ru35", nil)
	req = req.WithContext(audioloader.WithLoader(req.Context(), audioloader.New(p, 2)))
	rec := httptest.NewRecorder()

	NewAudioHandler().Audio(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ru35":{"exists":false}}`, rec.Body.String())
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"ru35"}, probed)
}

func TestAudio_OnlyBlankKeys(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/api/audio?phonetic=", nil)
	rec := httptest.NewRecorder()

	NewAudioHandler().Audio(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"phonetic is required"}`, rec.Body.String())
}
