// Package metrics exposes Prometheus collectors for the HTTP, gRPC and fraud paths.
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

const namespace = "fraudguard"

// Metrics holds every collector on a private registry so tests can build as many as they need.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	GRPCRequestsTotal   *prometheus.CounterVec

	TransactionsTotal *prometheus.CounterVec
	FraudDetected     *prometheus.CounterVec
	RiskScore         prometheus.Histogram
	AlertStatusTotal  *prometheus.CounterVec
	EventsPublished   *prometheus.CounterVec
	CacheRequests     *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total HTTP requests",
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		GRPCRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "grpc_requests_total",
			Help:      "Total gRPC requests",
		}, []string{"method", "code"}),
		TransactionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transactions_total",
			Help:      "Transactions processed, by direction and outcome",
		}, []string{"direction", "outcome"}),
		FraudDetected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fraud_rule_hits_total",
			Help:      "Fraud rule hits by rule id",
		}, []string{"rule"}),
		RiskScore: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "risk_score",
			Help:      "Risk score of flagged transactions",
			Buckets:   []float64{0.5, 0.6, 0.7, 0.8, 0.9, 1},
		}),
		AlertStatusTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "alert_status_changes_total",
			Help:      "Fraud alert status changes by new status",
		}, []string{"status"}),
		EventsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_published_total",
			Help:      "Bus events by topic and result",
		}, []string{"topic", "result"}),
		CacheRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_requests_total",
			Help:      "Analytics cache lookups by result",
		}, []string{"result"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.GRPCRequestsTotal,
		m.TransactionsTotal,
		m.FraudDetected,
		m.RiskScore,
		m.AlertStatusTotal,
		m.EventsPublished,
		m.CacheRequests,
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware records count and latency per matched route.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.HTTPRequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.HTTPRequestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// RecordTransaction counts a stored transaction and, when flagged, its rule hits and score.
func (m *Metrics) RecordTransaction(direction string, fraud bool, rules []string, score float64) {
	if m == nil {
		return
	}
	outcome := "clean"
	if fraud {
		outcome = "flagged"
		m.RiskScore.Observe(score)
	}
	m.TransactionsTotal.WithLabelValues(direction, outcome).Inc()
	for _, rule := range rules {
		m.FraudDetected.WithLabelValues(rule).Inc()
	}
}

func (m *Metrics) RecordRejected(direction string) {
	if m == nil {
		return
	}
	m.TransactionsTotal.WithLabelValues(direction, "rejected").Inc()
}

func (m *Metrics) RecordAlertStatus(status string) {
	if m == nil {
		return
	}
	m.AlertStatusTotal.WithLabelValues(status).Inc()
}

func (m *Metrics) RecordPublish(topic string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.EventsPublished.WithLabelValues(topic, result).Inc()
}

func (m *Metrics) RecordCache(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.CacheRequests.WithLabelValues("hit").Inc()
	} else {
		m.CacheRequests.WithLabelValues("miss").Inc()
	}
}

func (m *Metrics) RecordGRPC(method, code string) {
	if m == nil {
		return
	}
	m.GRPCRequestsTotal.WithLabelValues(method, code).Inc()
}
