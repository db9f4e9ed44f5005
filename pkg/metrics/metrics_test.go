package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var metric dto.Metric
	if err := c.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	return metric.Counter.GetValue()
}

func gaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	var metric dto.Metric
	if err := g.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	return metric.Gauge.GetValue()
}

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	if r == nil {
		t.Fatal("NewRegistry() returned nil")
	}

	// Verify all metrics are initialized
	if r.LinesTotal == nil {
		t.Error("LinesTotal not initialized")
	}
	if r.AnalysisDuration == nil {
		t.Error("AnalysisDuration not initialized")
	}
	if r.Connectivity == nil {
		t.Error("Connectivity not initialized")
	}
	if r.registry == nil {
		t.Error("Prometheus registry not initialized")
	}
}

func TestDefaultRegistry(t *testing.T) {
	// Should return the same instance
	r1 := DefaultRegistry()
	r2 := DefaultRegistry()

	if r1 != r2 {
		t.Error("DefaultRegistry() should return the same instance")
	}
}

func TestRecordLine(t *testing.T) {
	r := NewRegistry()

	r.RecordLine("failure", LineRecord)
	r.RecordLine("failure", LineRecord)
	r.RecordLine("failure", LineBlank)
	r.RecordLine("failure", LineMalformed)

	if v := counterValue(t, r.LinesTotal.WithLabelValues("failure", LineRecord)); v != 2 {
		t.Errorf("record lines = %v, want 2", v)
	}
	if v := counterValue(t, r.LinesTotal.WithLabelValues("failure", LineMalformed)); v != 1 {
		t.Errorf("malformed lines = %v, want 1", v)
	}
	if v := counterValue(t, r.LinesTotal.WithLabelValues("messages", LineRecord)); v != 0 {
		t.Errorf("other analysis = %v, want 0", v)
	}
}

func TestRecordEmitted(t *testing.T) {
	r := NewRegistry()

	r.RecordEmitted("pathtime", 2, 7)
	r.RecordEmitted("pathtime", 1, 3)

	if v := counterValue(t, r.SeriesEmitted.WithLabelValues("pathtime")); v != 3 {
		t.Errorf("series = %v, want 3", v)
	}
	if v := counterValue(t, r.PointsEmitted.WithLabelValues("pathtime")); v != 10 {
		t.Errorf("points = %v, want 10", v)
	}
}

func TestRecordAnalysis(t *testing.T) {
	r := NewRegistry()

	r.RecordAnalysis("messages", StatusSuccess, 100*time.Millisecond)
	r.RecordAnalysis("messages", StatusSuccess, 200*time.Millisecond)
	r.RecordAnalysis("messages", StatusError, 150*time.Millisecond)

	if v := counterValue(t, r.AnalysesTotal.WithLabelValues("messages", StatusSuccess)); v != 2 {
		t.Errorf("success = %v, want 2", v)
	}

	histogram, err := r.AnalysisDuration.GetMetricWithLabelValues("messages")
	if err != nil {
		t.Fatalf("Failed to get histogram: %v", err)
	}

	var metric dto.Metric
	if err := histogram.(prometheus.Histogram).Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}

	if metric.Histogram.GetSampleCount() != 3 {
		t.Errorf("Sample count = %v, want 3", metric.Histogram.GetSampleCount())
	}

	// Sum should be approximately 0.45 (0.1 + 0.2 + 0.15)
	sum := metric.Histogram.GetSampleSum()
	if sum < 0.44 || sum > 0.46 {
		t.Errorf("Sample sum = %v, want ~0.45", sum)
	}
}

func TestUpdateTopologyMetrics(t *testing.T) {
	r := NewRegistry()

	r.UpdateTopologyMetrics(10, 15, 3, 12, true)
	r.UpdateTopologyMetrics(3, 3, 2, 3, false)

	if v := gaugeValue(t, r.TopologyNodes); v != 3 {
		t.Errorf("nodes = %v, want 3", v)
	}
	if v := gaugeValue(t, r.Connectivity); v != 2 {
		t.Errorf("connectivity = %v, want 2", v)
	}
	if v := gaugeValue(t, r.ConnectivitySample); v != 0 {
		t.Errorf("sampled = %v, want 0", v)
	}
	if v := counterValue(t, r.FlowComputations); v != 15 {
		t.Errorf("flows = %v, want 15", v)
	}
}

func TestConcurrentMetricUpdates(t *testing.T) {
	r := NewRegistry()

	done := make(chan bool)
	for i := 0; i < 10; i++ {
		go func() {
			for j := 0; j < 100; j++ {
				r.RecordLine("topology", LineRecord)
			}
			done <- true
		}()
	}

	for i := 0; i < 10; i++ {
		<-done
	}

	// Should have 1000 total lines (10 goroutines * 100 lines)
	if v := counterValue(t, r.LinesTotal.WithLabelValues("topology", LineRecord)); v != 1000 {
		t.Errorf("Counter = %v, want 1000", v)
	}
}

func TestWriteTextfile(t *testing.T) {
	r := NewRegistry()
	r.RecordLine("failure", LineRecord)
	r.UpdateTopologyMetrics(3, 3, 2, 3, false)

	path := filepath.Join(t.TempDir(), "simtrace.prom")
	if err := r.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read textfile: %v", err)
	}
	text := string(data)

	if !strings.Contains(text, `simtrace_lines_total{analysis="failure",outcome="record"} 1`) {
		t.Errorf("lines counter missing from textfile:\n%s", text)
	}
	if !strings.Contains(text, "simtrace_connectivity 2") {
		t.Errorf("connectivity gauge missing from textfile:\n%s", text)
	}

	if err := r.WriteTextfile(filepath.Join(t.TempDir(), "missing", "x.prom")); err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestMetricNaming(t *testing.T) {
	r := NewRegistry()
	r.RecordLine("failure", LineRecord)
	promRegistry := r.GetPrometheusRegistry()

	metrics, err := promRegistry.Gather()
	if err != nil {
		t.Fatalf("Failed to gather metrics: %v", err)
	}

	// Verify all metrics have the simtrace_ prefix
	for _, m := range metrics {
		name := m.GetName()
		if !strings.HasPrefix(name, "simtrace_") {
			t.Errorf("Metric %s does not have simtrace_ prefix", name)
		}
	}
}
