package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector agrupa las metricas del servicio en un registry propio.
type Collector struct {
	registry *prometheus.Registry

	Responses           *prometheus.CounterVec
	Fallbacks           *prometheus.CounterVec
	CrisisDetections    prometheus.Counter
	ModelLatency        *prometheus.HistogramVec
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// New crea el collector. namespace vacio usa "mindcare".
func New(namespace string) *Collector {
	if namespace == "" {
		namespace = "mindcare"
	}
	reg := prometheus.NewRegistry()

	c := &Collector{
		registry: reg,
		Responses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "responses_total",
			Help:      "Responses generated, by route and category",
		}, []string{"route", "category"}),
		Fallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rule_fallbacks_total",
			Help:      "Turns answered by the rule engine instead of the model, by reason",
		}, []string{"reason"}),
		CrisisDetections: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "crisis_detections_total",
			Help:      "Messages that triggered the crisis script",
		}),
		ModelLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "model_request_duration_seconds",
			Help:      "External model call latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"outcome"}),
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "path", "status_code"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path"}),
	}

	reg.MustRegister(
		c.Responses,
		c.Fallbacks,
		c.CrisisDetections,
		c.ModelLatency,
		c.HTTPRequestsTotal,
		c.HTTPRequestDuration,
	)
	return c
}

// Handler expone el registry en formato Prometheus.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

func (c *Collector) ObserveResponse(route, category string) {
	if category == "" {
		category = "none"
	}
	c.Responses.WithLabelValues(route, category).Inc()
}

func (c *Collector) ObserveFallback(reason string) {
	c.Fallbacks.WithLabelValues(reason).Inc()
}

func (c *Collector) ObserveCrisis() {
	c.CrisisDetections.Inc()
}

func (c *Collector) ObserveModelLatency(outcome string, d time.Duration) {
	c.ModelLatency.WithLabelValues(outcome).Observe(d.Seconds())
}

// RecordHTTPRequest registra una request HTTP.
func (c *Collector) RecordHTTPRequest(method, path string, statusCode int, d time.Duration) {
	c.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(statusCode)).Inc()
	c.HTTPRequestDuration.WithLabelValues(method, path).Observe(d.Seconds())
}
