package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "roundrobin"

// Outcome labels for reconciliation counters.
const (
	OutcomeCompleted = "completed"
	OutcomeWalkover  = "walkover"
	OutcomeReverted  = "reverted"
	OutcomeSingle    = "single_match"
	OutcomeSkipped   = "skipped"
	OutcomeFailed    = "failed"
)

type Metrics struct {
	registry          *prometheus.Registry
	Reconciliations   *prometheus.CounterVec
	GamesApplied      prometheus.Counter
	GamesReverted     prometheus.Counter
	WebhookDeliveries *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Reconciliations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reconciliations_total",
			Help:      "Series result operations by outcome.",
		}, []string{"outcome"}),
		GamesApplied: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "games_applied_total",
			Help:      "Games whose result was credited to player counters.",
		}),
		GamesReverted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "games_reverted_total",
			Help:      "Games whose previously credited result was retracted.",
		}),
		WebhookDeliveries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "webhook_deliveries_total",
			Help:      "Series result webhook deliveries by result.",
		}, []string{"result"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.Reconciliations,
		m.GamesApplied,
		m.GamesReverted,
		m.WebhookDeliveries,
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
