package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initScanMetrics() {
	r.LinesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "simtrace_lines_total",
			Help: "Input lines scanned, by analysis and outcome",
		},
		[]string{"analysis", "outcome"},
	)

	r.SeriesEmitted = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "simtrace_series_emitted_total",
			Help: "Aggregated series emitted",
		},
		[]string{"analysis"},
	)

	r.PointsEmitted = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "simtrace_points_emitted_total",
			Help: "Aggregated points emitted across all series",
		},
		[]string{"analysis"},
	)

	r.InputBytesRead = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "simtrace_input_bytes_total",
			Help: "Decompressed input bytes consumed",
		},
		[]string{"analysis"},
	)
}
