package obs

import (
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// EvaluationTotal counts discount evaluation outcomes per evaluator.
	EvaluationTotal *prometheus.CounterVec
	// EvaluationLatency records evaluation latency in milliseconds per evaluator.
	EvaluationLatency *prometheus.HistogramVec
	// SettingsCacheTotal counts settings cache lookups by result.
	SettingsCacheTotal *prometheus.CounterVec
	// SettingsUpdateTotal counts admin settings writes by outcome.
	SettingsUpdateTotal *prometheus.CounterVec
)

// MustRegisterDomainMetrics initialises and registers domain-specific Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		EvaluationTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "evaluation_total",
			Help:      "Count of discount evaluations by evaluator and whether a discount applied.",
		}, []string{"evaluator", "applied"})
		EvaluationLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "evaluation_duration_ms",
			Help:      "Latency of discount evaluations in milliseconds.",
			Buckets:   []float64{1, 2, 5, 10, 25, 50, 100, 250},
		}, []string{"evaluator"})
		SettingsCacheTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "settings_cache_total",
			Help:      "Count of settings cache lookups by result.",
		}, []string{"result"})
		SettingsUpdateTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "settings_update_total",
			Help:      "Count of admin settings updates by outcome.",
		}, []string{"result"})

		mustRegisterCollector(reg, EvaluationTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				EvaluationTotal = v
			}
		})
		mustRegisterCollector(reg, EvaluationLatency, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.HistogramVec); ok {
				EvaluationLatency = v
			}
		})
		mustRegisterCollector(reg, SettingsCacheTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				SettingsCacheTotal = v
			}
		})
		mustRegisterCollector(reg, SettingsUpdateTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				SettingsUpdateTotal = v
			}
		})
	})
}

// ObserveEvaluation records one evaluation outcome. Safe to call before
// MustRegisterDomainMetrics; it is a no-op until collectors exist.
func ObserveEvaluation(evaluator string, applied bool, d time.Duration) {
	if EvaluationTotal == nil || EvaluationLatency == nil {
		return
	}
	outcome := "false"
	if applied {
		outcome = "true"
	}
	EvaluationTotal.WithLabelValues(evaluator, outcome).Inc()
	EvaluationLatency.WithLabelValues(evaluator).Observe(DurationMillis(d))
}

// ObserveSettingsCache records one cache lookup result ("hit", "miss", "error").
func ObserveSettingsCache(result string) {
	if SettingsCacheTotal == nil {
		return
	}
	SettingsCacheTotal.WithLabelValues(result).Inc()
}

// ObserveSettingsUpdate records one admin settings write outcome.
func ObserveSettingsUpdate(result string) {
	if SettingsUpdateTotal == nil {
		return
	}
	SettingsUpdateTotal.WithLabelValues(result).Inc()
}

func mustRegisterCollector(reg prometheus.Registerer, collector prometheus.Collector, reuse func(prometheus.Collector)) {
	if err := reg.Register(collector); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if reuse != nil {
				reuse(are.ExistingCollector)
			}
			return
		}
		panic(fmt.Errorf("register domain metric: %w", err))
	}
}
