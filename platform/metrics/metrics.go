// Package metrics holds the Prometheus collectors exported on /metrics.
// All recording methods are safe on a nil *Registry so callers can run
// without metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "propscout"

// Registry holds all Prometheus metrics for the service.
type Registry struct {
	reg *prometheus.Registry

	HTTPRequests   *prometheus.CounterVec
	HTTPDuration   *prometheus.HistogramVec
	Scores         *prometheus.CounterVec
	OverallScore   prometheus.Histogram
	BatchSize      prometheus.Histogram
	LabelLookups   *prometheus.CounterVec
	BreakerState   *prometheus.GaugeVec
	PersistFailure prometheus.Counter
}

// New creates a registry with process and Go runtime collectors plus the
// service metrics.
func New() *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),

		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "HTTP requests by method, route and status code",
			},
			[]string{"method", "route", "status"},
		),

		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency by method and route",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5},
			},
			[]string{"method", "route"},
		),

		Scores: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "scores_total",
				Help:      "Scored properties by city tier and rent segment",
			},
			[]string{"tier", "segment"},
		),

		OverallScore: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "overall_score",
				Help:      "Distribution of overall investment scores",
				Buckets:   prometheus.LinearBuckets(10, 10, 10),
			},
		),

		BatchSize: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "batch_size",
				Help:      "Number of properties per batch scoring request",
				Buckets:   []float64{1, 5, 10, 25, 50, 100},
			},
		),

		LabelLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "energylabel_lookups_total",
				Help:      "EP-Online energy label lookups by outcome",
			},
			[]string{"result"},
		),

		BreakerState: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "circuit_breaker_open",
				Help:      "1 when the named circuit breaker is open, 0 otherwise",
			},
			[]string{"name"},
		),

		PersistFailure: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "analysis_persist_failures_total",
				Help:      "Analyses that were scored but could not be stored",
			},
		),
	}

	r.reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.HTTPRequests,
		r.HTTPDuration,
		r.Scores,
		r.OverallScore,
		r.BatchSize,
		r.LabelLookups,
		r.BreakerState,
		r.PersistFailure,
	)

	return r
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}

// Gatherer exposes the underlying registry, mainly for tests.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.reg
}

// Middleware records request counts and latency per matched route.
func (r *Registry) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if r == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method
		r.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()
		r.HTTPDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}

// ObserveScore records one scoring outcome.
func (r *Registry) ObserveScore(tier string, regulated bool, overall int) {
	if r == nil {
		return
	}
	segment := "free_market"
	if regulated {
		segment = "regulated"
	}
	r.Scores.WithLabelValues(tier, segment).Inc()
	r.OverallScore.Observe(float64(overall))
}

// ObserveBatch records the size of a batch request.
func (r *Registry) ObserveBatch(size int) {
	if r == nil {
		return
	}
	r.BatchSize.Observe(float64(size))
}

// ObserveLabelLookup records an energy label lookup outcome
// ("hit", "miss", "not_found", "error").
func (r *Registry) ObserveLabelLookup(result string) {
	if r == nil {
		return
	}
	r.LabelLookups.WithLabelValues(result).Inc()
}

// SetBreakerState publishes a breaker transition.
func (r *Registry) SetBreakerState(name, state string) {
	if r == nil {
		return
	}
	open := 0.0
	if state == "open" {
		open = 1
	}
	r.BreakerState.WithLabelValues(name).Set(open)
}

// IncPersistFailure counts an analysis that could not be stored.
func (r *Registry) IncPersistFailure() {
	if r == nil {
		return
	}
	r.PersistFailure.Inc()
}
