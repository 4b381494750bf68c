package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector exposes Prometheus metrics for inbound HTTP requests plus the
// recommendation pipeline's cache and collaborator activity.
type Collector struct {
	registry        *prometheus.Registry
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter
	collaborator    *prometheus.CounterVec
}

// NewCollector constructs a collector with default histograms/counters.
func NewCollector() (*Collector, error) {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "citysense",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "Latency distribution for inbound HTTP requests.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "citysense",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total number of inbound HTTP requests.",
	}, []string{"method", "path", "status"})

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "citysense",
		Subsystem: "recommendations",
		Name:      "cache_hits_total",
		Help:      "Daily recommendation loads served from cache.",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "citysense",
		Subsystem: "recommendations",
		Name:      "cache_misses_total",
		Help:      "Daily recommendation loads requiring a collaborator fetch.",
	})

	collaborator := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "citysense",
		Subsystem: "collaborator",
		Name:      "requests_total",
		Help:      "Outbound collaborator calls by operation and outcome.",
	}, []string{"op", "outcome"})

	for _, c := range []prometheus.Collector{requestDuration, requestTotal, cacheHits, cacheMisses, collaborator} {
		if err := registry.Register(c); err != nil {
			return nil, err
		}
	}

	return &Collector{
		registry:        registry,
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		cacheHits:       cacheHits,
		cacheMisses:     cacheMisses,
		collaborator:    collaborator,
	}, nil
}

// Handler returns an HTTP handler for exposing Prometheus metrics.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// CacheHit records a daily load served from cache.
func (c *Collector) CacheHit() { c.cacheHits.Inc() }

// CacheMiss records a daily load that needed a fresh fetch.
func (c *Collector) CacheMiss() { c.cacheMisses.Inc() }

// CollaboratorRequest records one outbound collaborator call.
func (c *Collector) CollaboratorRequest(op, outcome string) {
	c.collaborator.WithLabelValues(op, outcome).Inc()
}

// InstrumentHandler wraps the provided handler to record HTTP metrics.
func (c *Collector) InstrumentHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(rw.status)
		path := r.URL.Path

		c.requestTotal.WithLabelValues(r.Method, path, status).Inc()
		c.requestDuration.WithLabelValues(r.Method, path, status).Observe(duration)
	})
}

type responseWriter struct {
	http.ResponseWriter
	status int
}

func (w *responseWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
