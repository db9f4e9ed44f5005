package main

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dd0wney/simtrace/pkg/analysis"
	"github.com/dd0wney/simtrace/pkg/config"
	"github.com/dd0wney/simtrace/pkg/connectivity"
	"github.com/dd0wney/simtrace/pkg/render"
	"github.com/dd0wney/simtrace/pkg/validation"
)

var layoutKinds = []string{"circular", "force", "hierarchical"}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:           "simtrace",
		Short:         "Analyse broadcast simulation logs and network topologies",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.StringVarP(&a.configPath, "config", "c", "", "YAML config file")
	pf.StringVarP(&a.outDir, "out", "o", "", "artifact directory (default: next to the input)")
	pf.StringVar(&a.logLevel, "log-level", "info", "debug, info, warn or error")
	pf.StringVar(&a.logFormat, "log-format", "json", "json or text")
	pf.BoolVar(&a.strict, "strict", false, "abort on the first malformed line")

	root.AddCommand(
		newFailureCommand(a),
		newMessagesCommand(a),
		newPathTimeCommand(a),
		newTopologyCommand(a),
		newDebugTopologyCommand(a),
	)
	return root
}

func newFailureCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "failure <log>",
		Short: "Fault parameter at broadcast failure, per algorithm",
		Args:  cobra.ExactArgs(1),
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			res, err := analysis.Failures(cmd.Context(), args[0], a.cfg.Chart(config.ChartFailure), a.options())
			if err != nil {
				return err
			}
			return a.writeChart(args[0], res)
		}),
	}
}

func newMessagesCommand(a *app) *cobra.Command {
	var metric string

	cmd := &cobra.Command{
		Use:   "messages <log>",
		Short: "Flooding vs routing cost per broadcast, one line per f",
		Args:  cobra.ExactArgs(1),
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			m := validation.DefaultOr(metric, a.cfg.Messages.Metric)
			res, err := analysis.Messages(cmd.Context(), args[0], m, a.cfg.Chart(config.ChartMessages), a.options())
			if err != nil {
				return err
			}
			return a.writeChart(args[0], res)
		}),
	}
	cmd.Flags().StringVar(&metric, "metric", "", "messages, delivery or time (default from config)")
	return cmd
}

func newPathTimeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "pathtime <log>",
		Short: "Route computation latency of the fast and pathfind algorithms",
		Args:  cobra.ExactArgs(1),
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			res, err := analysis.PathTime(cmd.Context(), args[0], a.cfg.Chart(config.ChartPathTime), a.options())
			if err != nil {
				return err
			}
			return a.writeChart(args[0], res)
		}),
	}
}

type topologyFlags struct {
	layout   string
	maxPairs int
	seed     uint64
	asJSON   bool
}

func (f *topologyFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.layout, "layout", "", "circular, force or hierarchical (default from config)")
}

func (f *topologyFlags) validate() error {
	return validation.NewConfigValidator("flags").
		When(f.layout != "", func(cv *validation.ConfigValidator) {
			cv.OneOf("layout", f.layout, layoutKinds)
		}).
		NonNegative("max-pairs", f.maxPairs).
		Validate()
}

// connectivityOptions applies --max-pairs and --seed over the config.
func (a *app) connectivityOptions() connectivity.Options {
	return connectivity.Options{
		MaxPairs: a.cfg.Connectivity.MaxPairs,
		Seed:     a.cfg.Connectivity.Seed,
	}
}

func newTopologyCommand(a *app) *cobra.Command {
	var f topologyFlags

	cmd := &cobra.Command{
		Use:   "topology <edges>",
		Short: "Node connectivity of an undirected edge list",
		Args:  cobra.ExactArgs(1),
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			if err := f.validate(); err != nil {
				return err
			}
			topts := a.topologyOptions(f.layout, "force")
			if cmd.Flags().Changed("max-pairs") {
				topts.Connectivity.MaxPairs = f.maxPairs
			}
			if cmd.Flags().Changed("seed") {
				topts.Connectivity.Seed = f.seed
			}

			res, err := analysis.Topology(cmd.Context(), args[0], topts, a.options())
			if err != nil {
				return err
			}

			if f.asJSON {
				if err := a.writeJSON(res.Connectivity); err != nil {
					return err
				}
			} else {
				fmt.Fprintln(a.stdout, render.ConnectivityReport(*res.Connectivity))
			}
			return a.writeScene(a.outputDir(args[0]), filepath.Base(args[0]), res.Scene)
		}),
	}
	f.register(cmd)
	cmd.Flags().IntVar(&f.maxPairs, "max-pairs", 0, "cap max-flow computations (0 = every candidate pair)")
	cmd.Flags().Uint64Var(&f.seed, "seed", 0, "pair sampling seed")
	cmd.Flags().BoolVar(&f.asJSON, "json", false, "print the connectivity result as JSON")
	return cmd
}

func newDebugTopologyCommand(a *app) *cobra.Command {
	var f topologyFlags

	cmd := &cobra.Command{
		Use:   "debug2top <dump|file>",
		Short: `Convert a route table dump like "{1: {2, 3}, 2: {}}" into edge lines`,
		Args:  cobra.ExactArgs(1),
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			if err := f.validate(); err != nil {
				return err
			}
			res, err := analysis.DebugTopology(cmd.Context(), args[0], a.topologyOptions(f.layout, "hierarchical"), a.options())
			if err != nil {
				return err
			}
			if err := res.Graph.WriteEdges(a.stdout); err != nil {
				return err
			}
			if !analysis.IsInlineDump(args[0]) {
				return a.writeScene(a.outputDir(args[0]), filepath.Base(args[0]), res.Scene)
			}
			if a.cfg.Output.Dir == "" {
				// an inline dump has no directory to write next to
				return nil
			}
			return a.writeScene(a.cfg.Output.Dir, "debug2top", res.Scene)
		}),
	}
	f.register(cmd)
	return cmd
}
