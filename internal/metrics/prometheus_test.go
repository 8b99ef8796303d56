package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_ObserveSearch(t *testing.T) {
	t.Parallel()

	m := New("test")
	m.ObserveSearch(OutcomeHit, 3, time.Millisecond)
	m.ObserveSearch(OutcomeHit, 1, time.Millisecond)
	m.ObserveSearch(OutcomeNotReady, 0, 0)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.SearchesTotal.WithLabelValues(OutcomeHit)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SearchesTotal.WithLabelValues(OutcomeNotReady)))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.SearchesTotal.WithLabelValues(OutcomeEmpty)))
}

func TestMetrics_ObserveLoad(t *testing.T) {
	t.Parallel()

	m := New("test")
	m.ObserveLoad(nil, 42, time.Second)
	m.ObserveLoad(errors.New("boom"), 0, time.Second)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.LoadsTotal.WithLabelValues("ready")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.LoadsTotal.WithLabelValues("failed")))
	assert.Equal(t, 42.0, testutil.ToFloat64(m.DictionaryKeys))
}

func TestMetrics_ObserveProbe(t *testing.T) {
	t.Parallel()

	m := New("test")
	m.ObserveProbe(true)
	m.ObserveProbe(false)
	m.ObserveProbe(false)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.AudioProbesTotal.WithLabelValues("true")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.AudioProbesTotal.WithLabelValues("false")))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	t.Parallel()

	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveSearch(OutcomeHit, 1, time.Millisecond)
		m.ObserveLoad(nil, 1, time.Millisecond)
		m.ObserveProbe(true)
	})
	assert.Nil(t, m.Registry())

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMetrics_Handler(t *testing.T) {
	t.Parallel()

	m := New("rucheng")
	m.ObserveSearch(OutcomeHit, 2, time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `rucheng_search_requests_total{outcome="hit"} 1`), body)
	assert.Contains(t, body, "go_goroutines")
}
