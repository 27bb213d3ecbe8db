package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestCheckoutMetricsExportsCountersAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewCheckoutMetrics(reg)

	metrics.IncBegun()
	metrics.IncOutcome(OutcomeConfirmed, TriggerWebhook)
	metrics.IncOutcome(OutcomeReplayed, TriggerCallback)
	metrics.ObserveConfirmDuration(TriggerWebhook, 120*time.Millisecond)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "checkout_outcomes_total", "outcome", OutcomeConfirmed); err != nil {
		t.Fatalf("fetch confirmed: %v", err)
	} else if got != 1 {
		t.Fatalf("expected confirmed=1, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "checkout_outcomes_total", "outcome", OutcomeReplayed); err != nil {
		t.Fatalf("fetch replayed: %v", err)
	} else if got != 1 {
		t.Fatalf("expected replayed=1, got %f", got)
	}

	if got, err := fetchHistogramSum(mfs, "checkout_confirm_duration_seconds", "trigger", TriggerWebhook); err != nil {
		t.Fatalf("fetch duration: %v", err)
	} else if got <= 0 {
		t.Fatalf("expected duration sum > 0, got %f", got)
	}
}

func TestCheckoutMetricsNilSafe(t *testing.T) {
	var metrics *CheckoutMetrics
	metrics.IncBegun()
	metrics.IncOutcome(OutcomeFailed, TriggerCallback)
	metrics.ObserveConfirmDuration(TriggerCallback, time.Second)

	empty := NewCheckoutMetrics(nil)
	empty.IncBegun()
	empty.IncOutcome(OutcomeAbandoned, "")
}

func fetchCounterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing label %s=%s", name, label, value)
}

func fetchHistogramSum(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetHistogram().GetSampleSum(), nil
		}
	}
	return 0, fmt.Errorf("histogram %q missing label %s=%s", name, label, value)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabel(labels []*dto.LabelPair, name, value string) bool {
	for _, label := range labels {
		if label.GetName() == name && label.GetValue() == value {
			return true
		}
	}
	return false
}
