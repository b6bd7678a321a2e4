package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PricingMetrics records quote computations and payment outcomes.
// A nil *PricingMetrics is valid and records nothing.
type PricingMetrics struct {
	quotes   *prometheus.CounterVec
	duration prometheus.Histogram
	clamped  prometheus.Counter
	payments *prometheus.CounterVec
}

func NewPricingMetrics(namespace string, reg prometheus.Registerer) *PricingMetrics {
	if reg == nil {
		return nil
	}

	quotes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "quotes_total",
		Help:      "Cart quotes computed, by selected discount kind.",
	}, []string{"outcome"})
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "quote_duration_seconds",
		Help:      "Duration of a full cart quote including catalog reads.",
		Buckets:   prometheus.DefBuckets,
	})
	clamped := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "clamped_prices_total",
		Help:      "Unit prices that went negative after a product discount and were clamped to zero.",
	})
	payments := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "payments_total",
		Help:      "Payment attempts by status.",
	}, []string{"status"})

	reg.MustRegister(quotes, duration, clamped, payments)

	return &PricingMetrics{
		quotes:   quotes,
		duration: duration,
		clamped:  clamped,
		payments: payments,
	}
}

func (m *PricingMetrics) ObserveQuote(outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.quotes.WithLabelValues(normalizeLabel(outcome)).Inc()
	m.duration.Observe(d.Seconds())
}

func (m *PricingMetrics) AddClamped(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.clamped.Add(float64(n))
}

func (m *PricingMetrics) IncPayment(status string) {
	if m == nil {
		return
	}
	m.payments.WithLabelValues(normalizeLabel(status)).Inc()
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
