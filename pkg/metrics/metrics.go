package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// RecordLine counts one scanned input line
func (r *Registry) RecordLine(analysis, outcome string) {
	r.LinesTotal.WithLabelValues(analysis, outcome).Inc()
}

// RecordLines counts n lines with the same outcome
func (r *Registry) RecordLines(analysis, outcome string, n int) {
	r.LinesTotal.WithLabelValues(analysis, outcome).Add(float64(n))
}

// RecordEmitted counts series and points produced by an aggregation
func (r *Registry) RecordEmitted(analysis string, series, points int) {
	r.SeriesEmitted.WithLabelValues(analysis).Add(float64(series))
	r.PointsEmitted.WithLabelValues(analysis).Add(float64(points))
}

// RecordBytes counts decompressed input bytes
func (r *Registry) RecordBytes(analysis string, n int64) {
	r.InputBytesRead.WithLabelValues(analysis).Add(float64(n))
}

// RecordAnalysis records an analysis run with its duration
func (r *Registry) RecordAnalysis(analysis, status string, duration time.Duration) {
	r.AnalysesTotal.WithLabelValues(analysis, status).Inc()
	r.AnalysisDuration.WithLabelValues(analysis).Observe(duration.Seconds())
}

// UpdateTopologyMetrics updates topology and connectivity gauges
func (r *Registry) UpdateTopologyMetrics(nodes, edges, connectivity, flows int, sampled bool) {
	r.TopologyNodes.Set(float64(nodes))
	r.TopologyEdges.Set(float64(edges))
	r.Connectivity.Set(float64(connectivity))
	r.FlowComputations.Add(float64(flows))
	if sampled {
		r.ConnectivitySample.Set(1)
	} else {
		r.ConnectivitySample.Set(0)
	}
}

// WriteTextfile writes every metric in the text exposition format, for
// node_exporter's textfile collector or a later diff.
func (r *Registry) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics to %s: %w", path, err)
	}
	return nil
}
