// Package analysis wires parsing, aggregation and rendering into the
// pipelines behind each CLI subcommand.
package analysis

import (
	"fmt"

	"github.com/dd0wney/simtrace/pkg/aggregate"
	"github.com/dd0wney/simtrace/pkg/config"
	"github.com/dd0wney/simtrace/pkg/logging"
	"github.com/dd0wney/simtrace/pkg/metrics"
	"github.com/dd0wney/simtrace/pkg/render"
)

// Analysis names, used for metric labels, log fields and artifact names.
const (
	NameFailure  = "failure"
	NameMessages = "messages"
	NamePathTime = "pathtime"
	NameTopology = "topology"
	NameDebug    = "debug2top"
)

// Options is shared by every analysis.
type Options struct {
	// Strict aborts on the first malformed line instead of skipping it.
	Strict  bool
	Logger  logging.Logger
	Metrics *metrics.Registry
}

func (o Options) logger() logging.Logger {
	if o.Logger == nil {
		return logging.NewNopLogger()
	}
	return o.Logger
}

func (o Options) metrics() *metrics.Registry {
	if o.Metrics == nil {
		return metrics.DefaultRegistry()
	}
	return o.Metrics
}

// ChartResult is the output of a log analysis.
type ChartResult struct {
	Name  string
	Chart *render.Chart
	Stats ScanStats
}

var nodeTicks = []float64{1, 4, 8, 12, 16, 20}

// seriesLabel names a series by its fault parameter.
func seriesLabel(f int) string { return fmt.Sprintf("f=%d", f) }

// lineSeries converts reduced series into chart series.
func lineSeries(series []aggregate.Series[int]) []render.Series {
	out := make([]render.Series, len(series))
	for i, s := range series {
		xs, ys := s.XY()
		out[i] = render.Series{Label: seriesLabel(s.Key), Kind: render.KindLine, X: xs, Y: ys}
	}
	return out
}

// applyOverride replaces chart text and ticks with the configured values.
func applyOverride(c *render.Chart, o config.ChartOverride) {
	if o.Title != "" {
		c.Title = o.Title
	}
	for i := range c.Panels {
		p := &c.Panels[i]
		if o.XLabel != "" {
			p.XLabel = o.XLabel
		}
		if o.YLabel != "" {
			p.YLabel = o.YLabel
		}
		if len(o.XTicks) > 0 {
			p.XTicks = o.XTicks
		}
		if len(o.YTicks) > 0 {
			p.YTicks = o.YTicks
		}
	}
}

// track times an analysis and records its outcome in logs and metrics.
type track struct {
	name  string
	opts  Options
	timer *logging.TimedOperation
}

func startTrack(name, path string, opts Options) *track {
	return &track{
		name:  name,
		opts:  opts,
		timer: logging.StartTimer(opts.logger(), "analysis finished", logging.Analysis(name), logging.File(path)),
	}
}

func (t *track) done(err error, fields ...logging.Field) {
	status := metrics.StatusSuccess
	if err != nil {
		status = metrics.StatusError
		t.timer.EndError(err)
	} else {
		t.timer.End(fields...)
	}
	t.opts.metrics().RecordAnalysis(t.name, status, t.timer.Elapsed())
}

// emitted records series and point counts for a finished chart.
func emitted(name string, c *render.Chart, opts Options) {
	opts.metrics().RecordEmitted(name, c.SeriesCount(), c.Points())
}
