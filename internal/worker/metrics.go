package worker

import (
	"github.com/prometheus/client_golang/prometheus"

	"buff_autoaccept/internal/domain/entity"
)

const metricsNamespace = "buff_autoaccept"

type Metrics struct {
	offers            *prometheus.CounterVec
	priceLookups      *prometheus.CounterVec
	iterations        *prometheus.CounterVec
	iterationDuration prometheus.Histogram
	ignoredOffers     prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		offers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "offers_total",
			Help:      "Offers processed, by outcome.",
		}, []string{"outcome"}),
		priceLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "price_lookups_total",
			Help:      "Lowest market price lookups, by source.",
		}, []string{"source"}),
		iterations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "iterations_total",
			Help:      "Reconciliation iterations, by result.",
		}, []string{"result"}),
		iterationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "iteration_duration_seconds",
			Help:      "Duration of one reconciliation iteration.",
			Buckets:   []float64{1, 5, 15, 30, 60, 120, 300},
		}),
		ignoredOffers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "ignored_offers",
			Help:      "Offers that will not be processed again in this run.",
		}),
	}

	reg.MustRegister(m.offers, m.priceLookups, m.iterations, m.iterationDuration, m.ignoredOffers)

	return m
}

func (m *Metrics) offer(outcome entity.Outcome) {
	m.offers.WithLabelValues(string(outcome)).Inc()
}

func (m *Metrics) priceLookup(d entity.Decision) {
	if d.LowPrice.IsZero() {
		return
	}

	source := "market"
	if d.CacheHit {
		source = "cache"
	}

	m.priceLookups.WithLabelValues(source).Inc()
}

func (m *Metrics) iteration(seconds float64, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}

	m.iterations.WithLabelValues(result).Inc()
	m.iterationDuration.Observe(seconds)
}
