package observability

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/C-1995-O1-HALE-POPP/ris-system/application/commands/bus"
)

var _ bus.Metrics = (*Collector)(nil)

func TestCollector_BusMetrics(t *testing.T) {
	c := NewCollector("ris")

	c.Increment("command_count", "CreateCharacterCommand")
	c.Increment("command_count", "CreateCharacterCommand")
	c.StartTimer("command_duration", "CreateCharacterCommand").Stop()

	assert.Equal(t, 2.0, testutil.ToFloat64(c.BusEvents.WithLabelValues("command_count", "CreateCharacterCommand")))
	assert.Equal(t, 1, testutil.CollectAndCount(c.BusDuration))
}

func TestCollector_BackendCalls(t *testing.T) {
	c := NewCollector("ris")

	c.RecordBackendCall("send_message", nil)
	c.RecordBackendCall("send_message", errors.New("down"))
	c.SetBreakerState("backend", 2)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.BackendCalls.WithLabelValues("send_message", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.BackendCalls.WithLabelValues("send_message", "error")))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.BreakerState.WithLabelValues("backend")))
}

func TestCollector_HTTPMiddlewareAndHandler(t *testing.T) {
	// Arrange
	c := NewCollector("ris")
	r := chi.NewRouter()
	r.Use(c.HTTPMiddleware)
	r.Get("/characters/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	r.Handle("/metrics", c.Handler())

	// Act
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/characters/char_1", nil))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	// Assert
	assert.Equal(t, 1.0, testutil.ToFloat64(c.HTTPRequests.WithLabelValues("GET", "/characters/{id}", "404")))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "ris_http_requests_total"))
}
