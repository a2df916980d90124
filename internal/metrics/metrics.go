// Package metrics holds the Prometheus collectors for generation, storage and HTTP.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Generation outcomes.
const (
	OutcomeOK        = "ok"
	OutcomeTransport = "transport"
	OutcomeMalformed = "malformed"
)

// Collector owns a private registry. A nil *Collector is valid and records nothing.
type Collector struct {
	registry *prometheus.Registry

	Generations        *prometheus.CounterVec
	GenerationDuration prometheus.Histogram
	ShapesGenerated    prometheus.Counter
	ShapesDropped      prometheus.Counter
	CanvasesSaved      prometheus.Counter

	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
}

// NewCollector creates and registers all metrics under namespace.
func NewCollector(namespace string) *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		Generations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generations_total",
			Help:      "Prompt generations by outcome",
		}, []string{"outcome"}),
		GenerationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "generation_duration_seconds",
			Help:      "Time spent generating shapes for one prompt",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 40, 80},
		}),
		ShapesGenerated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "shapes_generated_total",
			Help:      "Shapes accepted from model output",
		}),
		ShapesDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "shapes_dropped_total",
			Help:      "Shapes dropped because their kind is not in the catalog",
		}),
		CanvasesSaved: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "canvases_saved_total",
			Help:      "Canvases persisted",
		}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	c.registry.MustRegister(
		c.Generations,
		c.GenerationDuration,
		c.ShapesGenerated,
		c.ShapesDropped,
		c.CanvasesSaved,
		c.HTTPRequests,
		c.HTTPDuration,
	)
	return c
}

// Registry returns the collector's registry.
func (c *Collector) Registry() *prometheus.Registry { return c.registry }

// Handler serves the registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// ObserveGeneration records one pipeline run.
func (c *Collector) ObserveGeneration(outcome string, d time.Duration, kept, dropped int) {
	if c == nil {
		return
	}
	c.Generations.WithLabelValues(outcome).Inc()
	c.GenerationDuration.Observe(d.Seconds())
	c.ShapesGenerated.Add(float64(kept))
	c.ShapesDropped.Add(float64(dropped))
}

// ObserveSave records one persisted canvas.
func (c *Collector) ObserveSave() {
	if c == nil {
		return
	}
	c.CanvasesSaved.Inc()
}

// ObserveHTTP records one served request.
func (c *Collector) ObserveHTTP(method, route, status string, d time.Duration) {
	if c == nil {
		return
	}
	c.HTTPRequests.WithLabelValues(method, route, status).Inc()
	c.HTTPDuration.WithLabelValues(method, route).Observe(d.Seconds())
}
