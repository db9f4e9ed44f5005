package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initAnalysisMetrics() {
	r.AnalysesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "simtrace_analyses_total",
			Help: "Analyses run, by analysis and status",
		},
		[]string{"analysis", "status"},
	)

	r.AnalysisDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "simtrace_analysis_duration_seconds",
			Help:    "Analysis duration in seconds",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 30, 120},
		},
		[]string{"analysis"},
	)
}

func (r *Registry) initTopologyMetrics() {
	r.TopologyNodes = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "simtrace_topology_nodes",
			Help: "Nodes in the last loaded topology",
		},
	)

	r.TopologyEdges = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "simtrace_topology_edges",
			Help: "Edge lines in the last loaded topology",
		},
	)

	r.Connectivity = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "simtrace_connectivity",
			Help: "Node connectivity of the last analysed topology",
		},
	)

	r.FlowComputations = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "simtrace_flow_computations_total",
			Help: "Max-flow computations run for node connectivity",
		},
	)

	r.ConnectivitySample = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "simtrace_connectivity_sampled",
			Help: "1 when the last connectivity value came from sampled pairs",
		},
	)
}
