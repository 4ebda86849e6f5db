// Package metrics exposes the engine's prometheus instruments.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
)

type Metrics struct {
	viewsRecorded   *prometheus.CounterVec
	accessDecisions *prometheus.CounterVec
	settlements     *prometheus.CounterVec
	initiations     *prometheus.CounterVec
}

func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		viewsRecorded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "huduma_views_recorded_total",
			Help: "Free provider views recorded, by whether the view was new today.",
		}, []string{"result"}),
		accessDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "huduma_access_decisions_total",
			Help: "Access decisions resolved, by outcome.",
		}, []string{"outcome"}),
		settlements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "huduma_payment_settlements_total",
			Help: "Payment sessions reaching a terminal status.",
		}, []string{"status"}),
		initiations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "huduma_payment_initiations_total",
			Help: "Payment initiation attempts, by result.",
		}, []string{"result"}),
	}

	for _, collector := range []prometheus.Collector{
		m.viewsRecorded,
		m.accessDecisions,
		m.settlements,
		m.initiations,
	} {
		if err := reg.Register(collector); err != nil {
			if already, ok := err.(prometheus.AlreadyRegisteredError); ok {
				_ = already
				continue
			}
			return nil, err
		}
	}
	return m, nil
}

// NewForTest returns metrics on a private registry.
func NewForTest() *Metrics {
	m, err := New(prometheus.NewRegistry())
	if err != nil {
		panic(err)
	}
	return m
}

func (m *Metrics) RecordView(isNew bool) {
	if m == nil {
		return
	}
	result := "repeat"
	if isNew {
		result = "new"
	}
	m.viewsRecorded.WithLabelValues(result).Inc()
}

func (m *Metrics) RecordAccessDecision(allowed bool) {
	if m == nil {
		return
	}
	outcome := "blocked"
	if allowed {
		outcome = "allowed"
	}
	m.accessDecisions.WithLabelValues(outcome).Inc()
}

func (m *Metrics) RecordSettlement(status string) {
	if m == nil {
		return
	}
	m.settlements.WithLabelValues(status).Inc()
}

func (m *Metrics) RecordInitiation(result string) {
	if m == nil {
		return
	}
	m.initiations.WithLabelValues(result).Inc()
}

var Module = fx.Module("metrics",
	fx.Provide(func() prometheus.Registerer { return prometheus.DefaultRegisterer }),
	fx.Provide(New),
)
