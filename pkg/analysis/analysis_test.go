package analysis

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/simtrace/pkg/aggregate"
	"github.com/dd0wney/simtrace/pkg/config"
	"github.com/dd0wney/simtrace/pkg/logging"
	"github.com/dd0wney/simtrace/pkg/metrics"
	"github.com/dd0wney/simtrace/pkg/record"
	"github.com/dd0wney/simtrace/pkg/render"
	"github.com/dd0wney/simtrace/pkg/source"
)

func writeInput(t *testing.T, name string, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0o644))
	return path
}

func testOptions(buf *bytes.Buffer) Options {
	return Options{
		Logger:  logging.NewJSONLogger(buf, logging.DebugLevel),
		Metrics: metrics.NewRegistry(),
	}
}

func delivery(n, f, iter int, flood, routed record.Outcome) string {
	return record.DeliveryRecord{
		Run:       record.Run{N: n, F: f},
		Iteration: iter,
		Flood:     flood,
		Routed:    routed,
	}.Format()
}

func latency(n, f, path, fast int) string {
	return record.LatencyRecord{Run: record.Run{N: n, F: f}, Path: path, Fast: fast}.Format()
}

func TestFailures(t *testing.T) {
	path := writeInput(t, "failure.data",
		"n: 4, f: 1, c: 0, a: f",
		"n: 4, f: 1, c: 1, a: f",
		"n: 8, f: 1, c: 0, a: p",
		"",
	)

	var logs bytes.Buffer
	res, err := Failures(context.Background(), path, config.ChartOverride{}, testOptions(&logs))
	require.NoError(t, err)

	assert.Equal(t, ScanStats{Lines: 3, Records: 3, Bytes: res.Stats.Bytes}, res.Stats)
	assert.Positive(t, res.Stats.Bytes)
	require.Len(t, res.Chart.Panels, 1)

	panel := res.Chart.Panels[0]
	assert.Equal(t, "Amount of Nodes (n)", panel.XLabel)
	assert.Equal(t, "Faulty Nodes (f)", panel.YLabel)
	assert.Equal(t, []float64{1, 4, 8, 12, 16, 20}, panel.YTicks)

	require.Len(t, panel.Series, 4)
	assert.Equal(t, render.Series{Label: "Fast Algorithm", Kind: render.KindScatter, X: []float64{4, 4}, Y: []float64{1, 1}}, panel.Series[0])
	assert.Equal(t, render.Series{Label: "Fast Algorithm (mean f)", Kind: render.KindLine, X: []float64{4}, Y: []float64{1}}, panel.Series[1])
	assert.Equal(t, "Pathfind Algorithm", panel.Series[2].Label)
	assert.Equal(t, []float64{8}, panel.Series[2].X)

	assert.Contains(t, logs.String(), `"msg":"analysis finished"`)
}

func TestFailureGrouping(t *testing.T) {
	g, observe := FailureGrouping()
	for _, line := range []string{
		"n: 4, f: 1, c: 0, a: f",
		"n: 4, f: 1, c: 1, a: f",
		"n: 8, f: 1, c: 0, a: p",
	} {
		rec, err := record.ParseFault(line)
		require.NoError(t, err)
		observe(rec)
	}

	assert.Equal(t, []record.Algorithm{record.AlgorithmFast, record.AlgorithmPathfind}, g.Keys())
	assert.Equal(t, []float64{1, 1}, g.Samples(record.AlgorithmFast, 4))
	assert.Equal(t, []float64{1}, g.Samples(record.AlgorithmPathfind, 8))
	assert.Nil(t, g.Samples(record.AlgorithmFast, 8))
}

func TestScan_SkipsMalformed(t *testing.T) {
	path := writeInput(t, "pathtime.data",
		latency(4, 1, 12, 1),
		"",
		"[n: 4, f: 1, c: 0] p twelve | f 1",
		latency(8, 1, 30, 2),
	)

	var logs bytes.Buffer
	opts := testOptions(&logs)

	var got []record.LatencyRecord
	stats, err := Scan(context.Background(), NamePathTime, path, record.ParseLatency, opts, func(r record.LatencyRecord) {
		got = append(got, r)
	})
	require.NoError(t, err)

	assert.Equal(t, 4, stats.Lines)
	assert.Equal(t, 2, stats.Records)
	assert.Equal(t, 1, stats.Blank)
	assert.Equal(t, 1, stats.Malformed)
	assert.Len(t, got, 2)

	out := logs.String()
	assert.Contains(t, out, "skipping malformed line")
	assert.Contains(t, out, `"line":3`)
	assert.Contains(t, out, `"template":"`+record.LatencyFormat+`"`)
	assert.Equal(t, 1, strings.Count(out, "skipping malformed line"), "blank lines are not reported")
}

func TestScan_Strict(t *testing.T) {
	path := writeInput(t, "pathtime.data",
		latency(4, 1, 12, 1),
		"garbage",
		latency(8, 1, 30, 2),
	)

	var logs bytes.Buffer
	opts := testOptions(&logs)
	opts.Strict = true

	calls := 0
	stats, err := Scan(context.Background(), NamePathTime, path, record.ParseLatency, opts, func(record.LatencyRecord) { calls++ })
	require.Error(t, err)
	assert.ErrorIs(t, err, record.ErrMalformedRecord)
	assert.Contains(t, err.Error(), "line 2")
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, stats.Malformed)
}

func TestScan_OversizedLine(t *testing.T) {
	path := writeInput(t, "pathtime.data",
		latency(4, 1, 12, 1),
		"[n: 4, f: 1, c: 0] p "+strings.Repeat("9", source.MaxLineSize)+" | f 1",
		latency(8, 1, 30, 2),
	)

	var logs bytes.Buffer
	opts := testOptions(&logs)

	calls := 0
	stats, err := Scan(context.Background(), NamePathTime, path, record.ParseLatency, opts, func(record.LatencyRecord) { calls++ })
	require.NoError(t, err)
	assert.Equal(t, 2, calls, "the scan continues past the oversized line")
	assert.Equal(t, 3, stats.Lines)
	assert.Equal(t, 1, stats.Malformed)
	assert.Contains(t, logs.String(), `"line":2`)
	assert.Contains(t, logs.String(), "over the")

	opts.Strict = true
	_, err = Scan(context.Background(), NamePathTime, path, record.ParseLatency, opts, func(record.LatencyRecord) {})
	assert.ErrorIs(t, err, source.ErrLineTooLong)
}

func TestScan_TrailingNewline(t *testing.T) {
	path := writeInput(t, "pathtime.data", latency(4, 1, 12, 1), "", "")

	var logs bytes.Buffer
	stats, err := Scan(context.Background(), NamePathTime, path, record.ParseLatency, testOptions(&logs), func(record.LatencyRecord) {})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Records)
	assert.Equal(t, 1, stats.Blank)
	assert.Zero(t, stats.Malformed)
	assert.NotContains(t, logs.String(), "skipping")
}

func TestScan_Canceled(t *testing.T) {
	path := writeInput(t, "pathtime.data", latency(4, 1, 12, 1))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var logs bytes.Buffer
	_, err := Scan(ctx, NamePathTime, path, record.ParseLatency, testOptions(&logs), func(record.LatencyRecord) {})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEmptyInput(t *testing.T) {
	path := writeInput(t, "empty.data", "", "not a record", "")

	var logs bytes.Buffer
	opts := testOptions(&logs)
	ctx := context.Background()

	_, err := Failures(ctx, path, config.ChartOverride{}, opts)
	assert.ErrorIs(t, err, aggregate.ErrEmptyInput)

	_, err = Messages(ctx, path, MetricMessages, config.ChartOverride{}, opts)
	assert.ErrorIs(t, err, aggregate.ErrEmptyInput)

	_, err = PathTime(ctx, path, config.ChartOverride{}, opts)
	assert.ErrorIs(t, err, aggregate.ErrEmptyInput)

	assert.Contains(t, logs.String(), `"level":"ERROR"`)
}

func TestMessages(t *testing.T) {
	path := writeInput(t, "messages.data",
		delivery(6, 2, 0, record.Outcome{Delivered: 100, Messages: 10, Time: 5}, record.Outcome{Delivered: 100, Messages: 4, Time: 3}),
		delivery(6, 2, 1, record.Outcome{Delivered: 100, Messages: 20, Time: 5}, record.Outcome{Delivered: 90, Messages: 5, Time: 3}),
		delivery(6, 2, 2, record.Outcome{Delivered: 100, Messages: 30, Time: 5}, record.Outcome{Delivered: 80, Messages: 6, Time: 3}),
		delivery(4, 1, 0, record.Outcome{Delivered: 100, Messages: 7, Time: 2}, record.Outcome{Delivered: 100, Messages: 3, Time: 1}),
		"",
	)

	var logs bytes.Buffer
	res, err := Messages(context.Background(), path, MetricMessages, config.ChartOverride{}, testOptions(&logs))
	require.NoError(t, err)
	require.Len(t, res.Chart.Panels, 2)

	flood, routed := res.Chart.Panels[0], res.Chart.Panels[1]
	assert.Equal(t, "Flooding", flood.Title)
	assert.Equal(t, "Routing", routed.Title)
	assert.Equal(t, "Messages Per Broadcast (avg)", flood.YLabel)
	assert.Equal(t, []float64{1, 20, 40, 60, 80, 100, 120, 140, 160}, flood.YTicks)

	require.Len(t, flood.Series, 2)
	assert.Equal(t, "f=1", flood.Series[0].Label)
	assert.Equal(t, "f=2", flood.Series[1].Label)
	assert.Equal(t, []float64{6}, flood.Series[1].X)
	assert.Equal(t, []float64{20}, flood.Series[1].Y, "mean of 10, 20, 30")
	assert.Equal(t, []float64{5}, routed.Series[1].Y)

	res, err = Messages(context.Background(), path, MetricDelivery, config.ChartOverride{}, testOptions(&logs))
	require.NoError(t, err)
	assert.Equal(t, []float64{90}, res.Chart.Panels[1].Series[1].Y)
	assert.Equal(t, "Delivered (%)", res.Chart.Panels[1].YLabel)
}

func TestMessages_UnknownMetric(t *testing.T) {
	path := writeInput(t, "messages.data", "")

	var logs bytes.Buffer
	_, err := Messages(context.Background(), path, "hops", config.ChartOverride{}, testOptions(&logs))
	assert.ErrorContains(t, err, `unknown metric "hops"`)
}

func TestPathTime(t *testing.T) {
	path := writeInput(t, "pathtime.data",
		latency(4, 1, 12, 1),
		latency(4, 1, 13, 2),
		latency(8, 1, 40, 2),
		latency(4, 2, 20, 3),
	)

	var logs bytes.Buffer
	opts := testOptions(&logs)
	res, err := PathTime(context.Background(), path, config.ChartOverride{Title: "Route latency"}, opts)
	require.NoError(t, err)

	c := res.Chart
	assert.Equal(t, "Route latency", c.Title)
	assert.True(t, c.SharedY)
	require.Len(t, c.Panels, 2)

	fast, pathfind := c.Panels[0], c.Panels[1]
	assert.Equal(t, "Fast Algorithm", fast.Title)
	assert.Equal(t, "Pathfind Algorithm", pathfind.Title)
	assert.True(t, fast.LogY)
	assert.Equal(t, "Latency (ms)", pathfind.YLabel)

	// 1.5 rounds to even
	assert.Equal(t, render.Series{Label: "f=1", Kind: render.KindLine, X: []float64{4, 8}, Y: []float64{2, 2}}, fast.Series[0])
	// 12.5 rounds to even
	assert.Equal(t, []float64{12, 40}, pathfind.Series[0].Y)
	assert.Equal(t, 4, c.SeriesCount())
}

func TestApplyOverride(t *testing.T) {
	c := &render.Chart{Title: "a", Panels: []render.Panel{{XLabel: "x", YLabel: "y", XTicks: []float64{1}}}}

	applyOverride(c, config.ChartOverride{YLabel: "latency", YTicks: []float64{1, 10, 100}})

	assert.Equal(t, "a", c.Title)
	assert.Equal(t, "x", c.Panels[0].XLabel)
	assert.Equal(t, "latency", c.Panels[0].YLabel)
	assert.Equal(t, []float64{1}, c.Panels[0].XTicks)
	assert.Equal(t, []float64{1, 10, 100}, c.Panels[0].YTicks)
}
