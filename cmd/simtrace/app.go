package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/dd0wney/simtrace/pkg/analysis"
	"github.com/dd0wney/simtrace/pkg/config"
	"github.com/dd0wney/simtrace/pkg/logging"
	"github.com/dd0wney/simtrace/pkg/metrics"
	"github.com/dd0wney/simtrace/pkg/render"
	"github.com/dd0wney/simtrace/pkg/visualization"
)

// app is the state shared by every subcommand of one invocation.
type app struct {
	// flags
	configPath string
	outDir     string
	logLevel   string
	logFormat  string
	strict     bool

	cfg     *config.Config
	runID   string
	logger  logging.Logger
	metrics *metrics.Registry

	stdout io.Writer
	stderr io.Writer
}

// setup loads the config, applies flag overrides and builds the logger.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("out") {
		cfg.Output.Dir = a.outDir
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = a.logLevel
	}
	if flags.Changed("log-format") {
		cfg.LogFormat = a.logFormat
	}
	if flags.Changed("strict") {
		cfg.Strict = a.strict
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	a.cfg = cfg
	a.runID = uuid.NewString()
	a.metrics = metrics.NewRegistry()
	a.logger = logging.New(a.stderr, logging.Format(cfg.LogFormat), logging.ParseLevel(cfg.LogLevel)).
		With(logging.RunID(a.runID), logging.Component("cli"))
	return nil
}

func (a *app) options() analysis.Options {
	return analysis.Options{
		Strict:  a.cfg.Strict,
		Logger:  a.logger,
		Metrics: a.metrics,
	}
}

// topologyOptions resolves the layout from the flag, the config and then
// commandDefault.
func (a *app) topologyOptions(layout, commandDefault string) analysis.TopologyOptions {
	l := a.cfg.Layout
	return analysis.TopologyOptions{
		Connectivity: a.connectivityOptions(),
		Layout:       a.cfg.LayoutKind(layout, commandDefault),
		LayoutConfig: visualization.LayoutConfig{
			Width:      l.Width,
			Height:     l.Height,
			Iterations: l.Iterations,
			Padding:    l.Padding,
			Seed:       l.Seed,
		},
	}
}

// finish writes the metrics textfile, if configured, whatever the outcome.
func (a *app) finish(runErr error) error {
	if a.cfg == nil || a.cfg.MetricsFile == "" {
		return runErr
	}
	if err := a.metrics.WriteTextfile(a.cfg.MetricsFile); err != nil {
		a.logger.Error("failed to write metrics", logging.Error(err))
		return errors.Join(runErr, err)
	}
	return runErr
}

// run wraps a subcommand body with setup and finish.
func (a *app) run(fn func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if err := a.setup(cmd); err != nil {
			return err
		}
		return a.finish(fn(cmd, args))
	}
}

// outputDir is --out / output.dir, or the input's own directory.
func (a *app) outputDir(input string) string {
	return a.cfg.OutputDir(filepath.Dir(input))
}

// writeChart prints the chart report and writes the configured artifacts.
func (a *app) writeChart(input string, res *analysis.ChartResult) error {
	fmt.Fprintln(a.stdout, render.ChartReport(res.Chart))

	paths, err := res.Chart.WriteFiles(a.outputDir(input), filepath.Base(input), a.cfg.Output.Formats)
	for _, p := range paths {
		a.logger.Info("wrote artifact", logging.Analysis(res.Name), logging.File(p))
	}
	return err
}

// writeScene writes the layout as <base>.scene.json when json output is on.
func (a *app) writeScene(dir, base string, scene *visualization.Scene) error {
	if !slices.Contains(a.cfg.Output.Formats, render.FormatJSON) {
		return nil
	}
	data, err := scene.ExportJSON()
	if err != nil {
		return fmt.Errorf("encode scene: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(dir, base+".scene.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	a.logger.Info("wrote artifact", logging.File(path))
	return nil
}

// writeJSON prints v as indented JSON on stdout.
func (a *app) writeJSON(v any) error {
	enc := json.NewEncoder(a.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
