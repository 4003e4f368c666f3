package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/event"
)

func TestMiddleware_CountsByRouteTemplate(t *testing.T) {
	m := New("test", prometheus.NewRegistry())

	router := mux.NewRouter()
	router.HandleFunc("/api/projets/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}).Methods(http.MethodGet)
	h := m.Middleware(router)(router)

	for i := 0; i < 3; i++ {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/projets/abc", nil))
	}

	assert.Equal(t, 3.0, testutil.ToFloat64(m.RequestCounter.WithLabelValues("GET", "/api/projets/{id}", "404")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.RequestsInFlight.WithLabelValues("GET")))
}

func TestMiddleware_CountsUnmatchedRoutes(t *testing.T) {
	m := New("test", prometheus.NewRegistry())

	router := mux.NewRouter()
	router.HandleFunc("/api/projets/{id}", func(w http.ResponseWriter, r *http.Request) {}).Methods(http.MethodGet)
	h := m.Middleware(router)(router)

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/inconnu", nil))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodDelete, "/api/projets/abc", nil))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestCounter.WithLabelValues("GET", "unmatched", "404")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestCounter.WithLabelValues("DELETE", "unmatched", "405")))
}

func TestPoolMonitor(t *testing.T) {
	m := New("test", nil)
	pm := m.PoolMonitor()

	pm.Event(&event.PoolEvent{Type: event.ConnectionCreated})
	pm.Event(&event.PoolEvent{Type: event.ConnectionCreated})
	pm.Event(&event.PoolEvent{Type: event.GetSucceeded})
	pm.Event(&event.PoolEvent{Type: event.ConnectionClosed})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.DBConnPoolStats.WithLabelValues("open")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DBConnPoolStats.WithLabelValues("in_use")))
}

func TestHandler_ExposesCollectors(t *testing.T) {
	m := New("test", nil)
	m.RequestCounter.WithLabelValues("GET", "/health", "200").Inc()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "gestion_test_requests_total"))
}
