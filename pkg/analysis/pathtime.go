package analysis

import (
	"context"
	"fmt"

	"github.com/dd0wney/simtrace/pkg/aggregate"
	"github.com/dd0wney/simtrace/pkg/config"
	"github.com/dd0wney/simtrace/pkg/record"
	"github.com/dd0wney/simtrace/pkg/render"
)

// LatencyFanout builds the fast and pathfind latency reductions, grouped by
// f then n.
func LatencyFanout() (*aggregate.Fanout[record.LatencyRecord, int], error) {
	byF := func(r record.LatencyRecord) int { return r.F }
	byN := func(r record.LatencyRecord) int { return r.N }

	return aggregate.NewFanout(
		aggregate.Reduction[record.LatencyRecord, int]{
			Name:  "fast",
			Key:   byF,
			N:     byN,
			Value: func(r record.LatencyRecord) float64 { return float64(r.Fast) },
		},
		aggregate.Reduction[record.LatencyRecord, int]{
			Name:  "path",
			Key:   byF,
			N:     byN,
			Value: func(r record.LatencyRecord) float64 { return float64(r.Path) },
		},
	)
}

// PathTime charts route computation latency of both algorithms on a shared
// log-scale y axis.
func PathTime(ctx context.Context, path string, override config.ChartOverride, opts Options) (res *ChartResult, err error) {
	tr := startTrack(NamePathTime, path, opts)
	defer func() { tr.done(err, resultFields(res)...) }()

	fanout, err := LatencyFanout()
	if err != nil {
		return nil, err
	}

	stats, err := Scan(ctx, NamePathTime, path, record.ParseLatency, opts, fanout.Observe)
	if err != nil {
		return nil, err
	}

	results, err := fanout.Results()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	titles := map[string]string{"fast": "Fast Algorithm", "path": "Pathfind Algorithm"}
	chart := &render.Chart{Kind: render.KindLine, SharedY: true}
	for _, named := range results {
		chart.Panels = append(chart.Panels, render.Panel{
			Title:  titles[named.Name],
			XLabel: "Node count (n)",
			YLabel: "Latency (ms)",
			LogY:   true,
			Series: lineSeries(named.Series),
		})
	}
	applyOverride(chart, override)
	emitted(NamePathTime, chart, opts)

	return &ChartResult{Name: NamePathTime, Chart: chart, Stats: stats}, nil
}
