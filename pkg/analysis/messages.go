package analysis

import (
	"context"
	"fmt"

	"github.com/dd0wney/simtrace/pkg/aggregate"
	"github.com/dd0wney/simtrace/pkg/config"
	"github.com/dd0wney/simtrace/pkg/record"
	"github.com/dd0wney/simtrace/pkg/render"
)

// Outcome fields the messages chart can plot.
const (
	MetricMessages = "messages"
	MetricDelivery = "delivery"
	MetricTime     = "time"
)

type outcomeMetric struct {
	value  func(record.Outcome) float64
	ylabel string
	yticks []float64
}

var outcomeMetrics = map[string]outcomeMetric{
	MetricMessages: {
		value:  func(o record.Outcome) float64 { return float64(o.Messages) },
		ylabel: "Messages Per Broadcast (avg)",
		yticks: []float64{1, 20, 40, 60, 80, 100, 120, 140, 160},
	},
	MetricDelivery: {
		value:  func(o record.Outcome) float64 { return float64(o.Delivered) },
		ylabel: "Delivered (%)",
		yticks: []float64{0, 20, 40, 60, 80, 100},
	},
	MetricTime: {
		value:  func(o record.Outcome) float64 { return float64(o.Time) },
		ylabel: "Broadcast Time (avg)",
	},
}

// DeliveryFanout builds the flood and routed reductions of one outcome field,
// both grouped by f then n.
func DeliveryFanout(metric string) (*aggregate.Fanout[record.DeliveryRecord, int], error) {
	m, ok := outcomeMetrics[metric]
	if !ok {
		return nil, fmt.Errorf("unknown metric %q", metric)
	}
	byF := func(r record.DeliveryRecord) int { return r.F }
	byN := func(r record.DeliveryRecord) int { return r.N }

	return aggregate.NewFanout(
		aggregate.Reduction[record.DeliveryRecord, int]{
			Name:  "flood",
			Key:   byF,
			N:     byN,
			Value: func(r record.DeliveryRecord) float64 { return m.value(r.Flood) },
		},
		aggregate.Reduction[record.DeliveryRecord, int]{
			Name:  "routed",
			Key:   byF,
			N:     byN,
			Value: func(r record.DeliveryRecord) float64 { return m.value(r.Routed) },
		},
	)
}

// Messages charts one outcome field per broadcast strategy, one line per f,
// from a single pass over the log.
func Messages(ctx context.Context, path, metric string, override config.ChartOverride, opts Options) (res *ChartResult, err error) {
	tr := startTrack(NameMessages, path, opts)
	defer func() { tr.done(err, resultFields(res)...) }()

	fanout, err := DeliveryFanout(metric)
	if err != nil {
		return nil, err
	}
	m := outcomeMetrics[metric]

	stats, err := Scan(ctx, NameMessages, path, record.ParseDelivery, opts, fanout.Observe)
	if err != nil {
		return nil, err
	}

	results, err := fanout.Results()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	titles := map[string]string{"flood": "Flooding", "routed": "Routing"}
	chart := &render.Chart{Kind: render.KindLine}
	for _, named := range results {
		chart.Panels = append(chart.Panels, render.Panel{
			Title:  titles[named.Name],
			XLabel: "Node count (n)",
			YLabel: m.ylabel,
			XTicks: nodeTicks,
			YTicks: m.yticks,
			Series: lineSeries(named.Series),
		})
	}
	applyOverride(chart, override)
	emitted(NameMessages, chart, opts)

	return &ChartResult{Name: NameMessages, Chart: chart, Stats: stats}, nil
}
