// Package metrics holds the prometheus collectors of the service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.mongodb.org/mongo-driver/event"
)

type Metrics struct {
	RequestCounter   *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	RequestsInFlight *prometheus.GaugeVec
	DBConnPoolStats  *prometheus.GaugeVec

	gatherer prometheus.Gatherer
}

// New registers the collectors on reg. A nil reg uses a fresh registry.
func New(serviceName string, reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	factory := promauto.With(reg)

	return &Metrics{
		RequestCounter: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "gestion",
				Subsystem: serviceName,
				Name:      "requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "gestion",
				Subsystem: serviceName,
				Name:      "request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		RequestsInFlight: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "gestion",
				Subsystem: serviceName,
				Name:      "requests_in_flight",
				Help:      "Number of requests currently being processed",
			},
			[]string{"method"},
		),
		DBConnPoolStats: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "gestion",
				Subsystem: serviceName,
				Name:      "db_connection_pool",
				Help:      "Mongo connection pool statistics",
			},
			[]string{"stat"}, // open, in_use
		),
		gatherer: reg,
	}
}

// Handler exposes the registry for scraping.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// Middleware records count, duration and in-flight requests per route
// template. It wraps routes from the outside so 404 and 405 answers are
// counted too, under the "unmatched" route.
func (m *Metrics) Middleware(routes *mux.Router) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			route := routeTemplate(routes, r)

			m.RequestsInFlight.WithLabelValues(r.Method).Inc()
			defer m.RequestsInFlight.WithLabelValues(r.Method).Dec()

			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			m.RequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
			m.RequestCounter.WithLabelValues(r.Method, route, strconv.Itoa(rec.status)).Inc()
		})
	}
}

func routeTemplate(routes *mux.Router, r *http.Request) string {
	var match mux.RouteMatch
	if routes == nil || !routes.Match(r, &match) || match.MatchErr != nil || match.Route == nil {
		return "unmatched"
	}
	tpl, err := match.Route.GetPathTemplate()
	if err != nil {
		return "unmatched"
	}
	return tpl
}

// PoolMonitor feeds the connection pool gauge from driver pool events.
func (m *Metrics) PoolMonitor() *event.PoolMonitor {
	return &event.PoolMonitor{
		Event: func(e *event.PoolEvent) {
			switch e.Type {
			case event.ConnectionCreated:
				m.DBConnPoolStats.WithLabelValues("open").Inc()
			case event.ConnectionClosed:
				m.DBConnPoolStats.WithLabelValues("open").Dec()
			case event.GetSucceeded:
				m.DBConnPoolStats.WithLabelValues("in_use").Inc()
			case event.ConnectionReturned:
				m.DBConnPoolStats.WithLabelValues("in_use").Dec()
			}
		},
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
