package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels for checkout reconciliation.
const (
	OutcomeConfirmed = "confirmed"
	OutcomeReplayed  = "replayed"
	OutcomeFailed    = "failed"
	OutcomeAbandoned = "abandoned"
)

// Trigger labels identifying which path drove a confirmation.
const (
	TriggerCallback = "callback"
	TriggerWebhook  = "webhook"
)

// CheckoutMetrics records checkout begin/confirm outcomes and latency.
type CheckoutMetrics struct {
	begun    prometheus.Counter
	outcomes *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewCheckoutMetrics registers the checkout metrics on the provided registerer.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	begun := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "checkout_begun_total",
		Help: "Checkout sessions started.",
	})
	outcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_outcomes_total",
		Help: "Checkout reconciliation outcomes by trigger.",
	}, []string{"outcome", "trigger"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "checkout_confirm_duration_seconds",
		Help:    "Duration of payment confirmation in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"trigger"})
	reg.MustRegister(begun, outcomes, duration)
	return &CheckoutMetrics{
		begun:    begun,
		outcomes: outcomes,
		duration: duration,
	}
}

// IncBegun increments the started-checkout counter.
func (c *CheckoutMetrics) IncBegun() {
	if c == nil || c.begun == nil {
		return
	}
	c.begun.Inc()
}

// IncOutcome increments the outcome counter for the given trigger.
func (c *CheckoutMetrics) IncOutcome(outcome, trigger string) {
	if c == nil || c.outcomes == nil {
		return
	}
	c.outcomes.WithLabelValues(normalizeLabel(outcome), normalizeLabel(trigger)).Inc()
}

// ObserveConfirmDuration records confirmation latency for the given trigger.
func (c *CheckoutMetrics) ObserveConfirmDuration(trigger string, duration time.Duration) {
	if c == nil || c.duration == nil {
		return
	}
	c.duration.WithLabelValues(normalizeLabel(trigger)).Observe(duration.Seconds())
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
