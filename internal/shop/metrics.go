package shop

import "github.com/prometheus/client_golang/prometheus"

type Metrics struct {
	SearchQueries *prometheus.CounterVec
	CartMutations *prometheus.CounterVec
}

func NewMetrics(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		SearchQueries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "search_queries_total",
				Help: "Search queries by outcome",
			},
			[]string{"result"},
		),
		CartMutations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cart_mutations_total",
				Help: "Cart add/remove requests by outcome",
			},
			[]string{"op", "outcome"},
		),
	}

	reg.MustRegister(m.SearchQueries, m.CartMutations)
	return m
}

func (m *Metrics) searched(matched bool) {
	if m == nil {
		return
	}
	result := "unmatched"
	if matched {
		result = "matched"
	}
	m.SearchQueries.WithLabelValues(result).Inc()
}

func (m *Metrics) mutated(op, outcome string) {
	if m == nil {
		return
	}
	m.CartMutations.WithLabelValues(op, outcome).Inc()
}
