package guard

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Decision outcomes recorded per guarded request.
const (
	decisionAllowed         = "allowed"
	decisionDenied          = "denied"
	decisionUnauthenticated = "unauthenticated"
)

// Metrics counts guard decisions per route and outcome.
type Metrics struct {
	decisions *prometheus.CounterVec
}

// NewMetrics creates and registers the guard's collectors on the given
// registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		decisions: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "accesskit_guard_decisions_total",
			Help: "Route guard decisions by route path and outcome.",
		}, []string{"route", "decision"}),
	}
}

func (m *Metrics) observe(route, decision string) {
	if m == nil {
		return
	}
	m.decisions.WithLabelValues(route, decision).Inc()
}
