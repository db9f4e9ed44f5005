package analysis

import (
	"context"
	"fmt"

	"github.com/dd0wney/simtrace/pkg/aggregate"
	"github.com/dd0wney/simtrace/pkg/config"
	"github.com/dd0wney/simtrace/pkg/logging"
	"github.com/dd0wney/simtrace/pkg/record"
	"github.com/dd0wney/simtrace/pkg/render"
)

// FailureGrouping folds fault records by algorithm, then node count, keeping
// the fault parameter as the sample.
func FailureGrouping() (*aggregate.Grouping[record.Algorithm], func(record.FaultRecord)) {
	g := aggregate.NewGrouping[record.Algorithm]()
	return g, func(r record.FaultRecord) {
		g.Add(r.Algorithm, r.N, float64(r.F))
	}
}

// Failures charts the fault parameter at which each algorithm failed: every
// raw (n, f) sample as a scatter, and the mean f per n as a line.
func Failures(ctx context.Context, path string, override config.ChartOverride, opts Options) (res *ChartResult, err error) {
	tr := startTrack(NameFailure, path, opts)
	defer func() { tr.done(err, resultFields(res)...) }()

	grouping, observe := FailureGrouping()
	stats, err := Scan(ctx, NameFailure, path, record.ParseFault, opts, observe)
	if err != nil {
		return nil, err
	}

	series, err := grouping.Series()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	panel := render.Panel{
		XLabel: "Amount of Nodes (n)",
		YLabel: "Faulty Nodes (f)",
		XTicks: nodeTicks,
		YTicks: nodeTicks,
	}
	for _, s := range series {
		raw := grouping.Scatter(s.Key)
		xs := make([]float64, len(raw))
		ys := make([]float64, len(raw))
		for i, sample := range raw {
			xs[i] = float64(sample.X)
			ys[i] = sample.Value
		}
		panel.Series = append(panel.Series, render.Series{
			Label: s.Key.Label(),
			Kind:  render.KindScatter,
			X:     xs,
			Y:     ys,
		})

		mx, my := s.XY()
		panel.Series = append(panel.Series, render.Series{
			Label: s.Key.Label() + " (mean f)",
			Kind:  render.KindLine,
			X:     mx,
			Y:     my,
		})
	}

	chart := &render.Chart{
		Title:  "Faulty nodes at broadcast failure",
		Kind:   render.KindScatter,
		Panels: []render.Panel{panel},
	}
	applyOverride(chart, override)
	emitted(NameFailure, chart, opts)

	return &ChartResult{Name: NameFailure, Chart: chart, Stats: stats}, nil
}

func resultFields(res *ChartResult) []logging.Field {
	if res == nil {
		return nil
	}
	return []logging.Field{
		logging.Int("records", res.Stats.Records),
		logging.Int("malformed", res.Stats.Malformed),
		logging.Int("series", res.Chart.SeriesCount()),
	}
}
