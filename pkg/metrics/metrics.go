// Package metrics は生成とエクスポートの Prometheus メトリクスを定義します。
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome ラベルの値
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

var (
	GenerationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vibe_generations_total",
			Help: "Total number of UI generation requests by outcome",
		},
		[]string{"outcome"},
	)

	GenerationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vibe_generation_duration_seconds",
			Help:    "Duration of generation service calls in seconds",
			Buckets: []float64{1, 2.5, 5, 10, 20, 40, 80, 160},
		},
		[]string{"outcome"},
	)

	GenerationsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "vibe_generations_active",
			Help: "Number of generation requests currently in flight",
		},
	)

	ExportsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "vibe_exports_total",
			Help: "Total number of project archives exported",
		},
	)

	RejectedActionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vibe_rejected_actions_total",
			Help: "User actions rejected by the state controller",
		},
		[]string{"reason"},
	)
)
