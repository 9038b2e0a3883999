package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	OutcomeAnswer   = "answer"
	OutcomeEmpty    = "empty"
	OutcomeFallback = "fallback"
)

// Collector holds the client's Prometheus metrics on a private registry so
// several instances (tests, embedded clients) never collide.
type Collector struct {
	registry *prometheus.Registry

	MessagesSent        prometheus.Counter
	AIReplies           *prometheus.CounterVec
	AILatency           prometheus.Histogram
	PersistenceFailures *prometheus.CounterVec
	ConversationsTotal  prometheus.Gauge
}

func NewCollector(namespace string) *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		MessagesSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_sent_total",
			Help:      "Total number of user messages sent",
		}),
		AIReplies: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ai_replies_total",
			Help:      "AI replies appended, by outcome",
		}, []string{"outcome"}),
		AILatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "ai_request_duration_seconds",
			Help:      "AI service round trip in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
		PersistenceFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "persistence_failures_total",
			Help:      "Secure store reads and writes that failed",
		}, []string{"operation"}),
		ConversationsTotal: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "conversations",
			Help:      "Conversations currently held in memory",
		}),
	}

	registry.MustRegister(
		c.MessagesSent,
		c.AIReplies,
		c.AILatency,
		c.PersistenceFailures,
		c.ConversationsTotal,
	)
	return c
}

func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
