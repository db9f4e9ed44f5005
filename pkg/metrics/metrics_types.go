package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Line outcomes used as the "outcome" label of LinesTotal.
const (
	LineRecord    = "record"
	LineBlank     = "blank"
	LineMalformed = "malformed"
)

// Analysis status labels.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Registry holds all metrics for the application
type Registry struct {
	// Scan Metrics
	LinesTotal     *prometheus.CounterVec
	SeriesEmitted  *prometheus.CounterVec
	PointsEmitted  *prometheus.CounterVec
	InputBytesRead *prometheus.CounterVec

	// Analysis Metrics
	AnalysesTotal    *prometheus.CounterVec
	AnalysisDuration *prometheus.HistogramVec

	// Topology Metrics
	TopologyNodes      prometheus.Gauge
	TopologyEdges      prometheus.Gauge
	Connectivity       prometheus.Gauge
	FlowComputations   prometheus.Counter
	ConnectivitySample prometheus.Gauge

	// Internal Prometheus registry
	registry *prometheus.Registry
}

var (
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the global metrics registry
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		registry: reg,
	}

	// Initialize all metrics
	r.initScanMetrics()
	r.initAnalysisMetrics()
	r.initTopologyMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}
