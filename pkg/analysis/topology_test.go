package analysis

import (
	"bytes"
	"context"
	"testing"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/simtrace/pkg/aggregate"
	"github.com/dd0wney/simtrace/pkg/algorithms"
	"github.com/dd0wney/simtrace/pkg/connectivity"
	"github.com/dd0wney/simtrace/pkg/topology"
	"github.com/dd0wney/simtrace/pkg/visualization"
)

func topologyOptions(layout string) TopologyOptions {
	return TopologyOptions{
		Layout:       layout,
		LayoutConfig: visualization.LayoutConfig{Width: 400, Height: 300, Padding: 20, Seed: 1},
	}
}

func TestTopology_Triangle(t *testing.T) {
	path := writeInput(t, "triangle.top", "1 2", "2 3", "3 1", "")

	var logs bytes.Buffer
	opts := testOptions(&logs)
	res, err := Topology(context.Background(), path, topologyOptions("circular"), opts)
	require.NoError(t, err)

	require.NotNil(t, res.Connectivity)
	assert.Equal(t, 2, res.Connectivity.Connectivity)
	assert.Equal(t, 3, res.Graph.NodeCount())
	assert.Zero(t, res.Malformed)

	require.NotNil(t, res.Scene.Connectivity)
	assert.Equal(t, 2, *res.Scene.Connectivity)
	assert.Len(t, res.Scene.Nodes, 3)
	assert.False(t, res.Scene.Directed)

	var m dto.Metric
	require.NoError(t, opts.Metrics.Connectivity.Write(&m))
	assert.Equal(t, 2.0, m.Gauge.GetValue())
}

func TestTopology_MalformedEdges(t *testing.T) {
	path := writeInput(t, "bowtie.top", "1 2", "2 3", "3 1", "3 4", "oops", "4 5", "5 3", "1 2 3")

	var logs bytes.Buffer
	res, err := Topology(context.Background(), path, topologyOptions("force"), testOptions(&logs))
	require.NoError(t, err)

	assert.Equal(t, 2, res.Malformed)
	assert.Equal(t, 1, res.Connectivity.Connectivity, "node 3 is a cut vertex")
	assert.Contains(t, logs.String(), "skipping malformed edge")
	assert.Contains(t, logs.String(), `"line":5`)
}

func TestTopology_Strict(t *testing.T) {
	path := writeInput(t, "bad.top", "1 2", "x y")

	var logs bytes.Buffer
	opts := testOptions(&logs)
	opts.Strict = true

	_, err := Topology(context.Background(), path, topologyOptions("force"), opts)
	assert.ErrorIs(t, err, topology.ErrMalformedEdge)
}

func TestTopology_Empty(t *testing.T) {
	path := writeInput(t, "empty.top", "", "")

	var logs bytes.Buffer
	_, err := Topology(context.Background(), path, topologyOptions("force"), testOptions(&logs))
	assert.ErrorIs(t, err, aggregate.ErrEmptyInput)
}

func TestTopology_Sampled(t *testing.T) {
	path := writeInput(t, "k5.top", "1 2", "1 3", "1 4", "1 5", "2 3", "2 4", "2 5", "3 4", "3 5", "4 5")

	topts := topologyOptions("circular")
	topts.Connectivity = connectivity.Options{MaxPairs: 1, Seed: 3}

	var logs bytes.Buffer
	res, err := Topology(context.Background(), path, topts, testOptions(&logs))
	require.NoError(t, err)
	assert.Equal(t, 4, res.Connectivity.Connectivity, "complete graphs have no candidate pairs to sample")
}

func TestDebugTopology_Inline(t *testing.T) {
	var logs bytes.Buffer
	res, err := DebugTopology(context.Background(), "{1: {2, 3}, 2: {}, 3: {1}}", topologyOptions("hierarchical"), testOptions(&logs))
	require.NoError(t, err)

	assert.Equal(t, []topology.Edge{{From: 1, To: 2}, {From: 1, To: 3}, {From: 3, To: 1}}, res.Graph.Edges)
	assert.Nil(t, res.Connectivity)
	assert.True(t, res.Scene.Directed)
	assert.Nil(t, res.Scene.Connectivity)
	assert.Equal(t, []algorithms.Cycle{{1, 3}}, res.Loops)
	assert.Contains(t, logs.String(), "route table has loops")

	var out bytes.Buffer
	require.NoError(t, res.Graph.WriteEdges(&out))
	assert.Equal(t, "1 2\n1 3\n3 1\n", out.String())
}

func TestDebugTopology_File(t *testing.T) {
	path := writeInput(t, "routes.txt", "{4: {5}, 5: {}}", "")

	var logs bytes.Buffer
	res, err := DebugTopology(context.Background(), path, topologyOptions("hierarchical"), testOptions(&logs))
	require.NoError(t, err)
	assert.Equal(t, []topology.Edge{{From: 4, To: 5}}, res.Graph.Edges)
	assert.Empty(t, res.Loops)

	_, err = DebugTopology(context.Background(), "{1: {2,", topologyOptions("hierarchical"), testOptions(&logs))
	assert.Error(t, err)
}
