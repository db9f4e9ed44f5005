package analysis

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/dd0wney/simtrace/pkg/aggregate"
	"github.com/dd0wney/simtrace/pkg/algorithms"
	"github.com/dd0wney/simtrace/pkg/connectivity"
	"github.com/dd0wney/simtrace/pkg/logging"
	"github.com/dd0wney/simtrace/pkg/metrics"
	"github.com/dd0wney/simtrace/pkg/source"
	"github.com/dd0wney/simtrace/pkg/topology"
	"github.com/dd0wney/simtrace/pkg/visualization"
)

// TopologyOptions configures connectivity and layout for topology analyses.
type TopologyOptions struct {
	Connectivity connectivity.Options
	Layout       string
	LayoutConfig visualization.LayoutConfig
}

// TopologyResult is a loaded topology with its analysis.
type TopologyResult struct {
	Name  string
	Graph *topology.Graph
	// Connectivity is only computed for undirected topologies.
	Connectivity *connectivity.Result
	Scene        *visualization.Scene
	Malformed    int
	// Loops are routing cycles, only searched for in route table dumps.
	Loops     []algorithms.Cycle
	LoopStats algorithms.CycleStats
}

// Topology loads an undirected edge list, computes its node connectivity and
// lays it out.
func Topology(ctx context.Context, path string, topts TopologyOptions, opts Options) (res *TopologyResult, err error) {
	tr := startTrack(NameTopology, path, opts)
	defer func() { tr.done(err, topologyFields(res)...) }()

	log := opts.logger()
	reg := opts.metrics()
	malformed := 0

	g, err := topology.LoadFile(path, topology.LoadOptions{
		Kind:   topology.Undirected,
		Strict: opts.Strict,
		OnMalformed: func(e *topology.MalformedEdgeError) {
			malformed++
			reg.RecordLine(NameTopology, metrics.LineMalformed)
			log.Warn("skipping malformed edge",
				logging.Analysis(NameTopology),
				logging.File(path),
				logging.LineNo(e.LineNo),
				logging.Error(e.Err),
			)
		},
	})
	if err != nil {
		return nil, err
	}
	reg.RecordLines(NameTopology, metrics.LineRecord, g.EdgeCount())
	if g.EdgeCount() == 0 {
		return nil, fmt.Errorf("%s: %w", path, aggregate.ErrEmptyInput)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := connectivity.NodeConnectivity(g.Undirected(), topts.Connectivity)
	reg.UpdateTopologyMetrics(result.Nodes, g.EdgeCount(), result.Connectivity, result.PairsEvaluated, result.Sampled)

	scene, err := layout(g, topts)
	if err != nil {
		return nil, err
	}
	scene.WithConnectivity(result.Connectivity)

	return &TopologyResult{
		Name:         NameTopology,
		Graph:        g,
		Connectivity: &result,
		Scene:        scene,
		Malformed:    malformed,
	}, nil
}

// DebugTopology turns a route table dump, "{1: {2, 3}, 2: {}}", into a
// directed graph and lays it out. input is either the dump itself or a path
// to a file holding it.
func DebugTopology(ctx context.Context, input string, topts TopologyOptions, opts Options) (res *TopologyResult, err error) {
	name := input
	if IsInlineDump(input) {
		name = "<inline>"
	}
	tr := startTrack(NameDebug, name, opts)
	defer func() { tr.done(err, topologyFields(res)...) }()

	dump := input
	if !IsInlineDump(input) {
		if dump, err = readAll(input); err != nil {
			return nil, err
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	g, err := topology.ParseAdjacencyDump(dump)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	opts.metrics().RecordLines(NameDebug, metrics.LineRecord, g.EdgeCount())

	scene, err := layout(g, topts)
	if err != nil {
		return nil, err
	}
	res = &TopologyResult{Name: NameDebug, Graph: g, Scene: scene}
	res.Loops = algorithms.DetectCycles(g)
	res.LoopStats = algorithms.AnalyzeCycles(res.Loops)
	if len(res.Loops) > 0 {
		opts.logger().Warn("route table has loops",
			logging.Analysis(NameDebug),
			logging.Count(len(res.Loops)),
			logging.Int("shortest", res.LoopStats.ShortestCycle),
			logging.Any("first", res.Loops[0]),
		)
	}
	return res, nil
}

// IsInlineDump reports whether input is a dump rather than a file path.
func IsInlineDump(input string) bool {
	return strings.HasPrefix(strings.TrimSpace(input), "{")
}

func readAll(path string) (string, error) {
	rc, err := source.Open(path)
	if err != nil {
		return "", err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}

func layout(g *topology.Graph, topts TopologyOptions) (*visualization.Scene, error) {
	cfg := topts.LayoutConfig
	return visualization.BuildScene(g, topts.Layout, &cfg)
}

func topologyFields(res *TopologyResult) []logging.Field {
	if res == nil {
		return nil
	}
	fields := []logging.Field{
		logging.Int("nodes", res.Graph.NodeCount()),
		logging.Int("edges", res.Graph.EdgeCount()),
	}
	if res.Connectivity != nil {
		fields = append(fields, logging.Int("connectivity", res.Connectivity.Connectivity))
	}
	return fields
}
