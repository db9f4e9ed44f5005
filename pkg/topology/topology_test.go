package topology

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/simtrace/pkg/source"
)

func TestLoad_Triangle(t *testing.T) {
	g, err := Load(strings.NewReader("1 2\n2 3\n3 1\n"), LoadOptions{Strict: true})
	require.NoError(t, err)

	assert.Equal(t, Undirected, g.Kind)
	assert.Equal(t, []int64{1, 2, 3}, g.Nodes())
	assert.Equal(t, 3, g.EdgeCount())
	assert.Equal(t, Edge{From: 3, To: 1}, g.Edges[2])
}

func TestLoad_BlankLinesSkipped(t *testing.T) {
	g, err := Load(strings.NewReader("1 2\n\n  \n2\t3\n\n"), LoadOptions{Strict: true})
	require.NoError(t, err)
	assert.Equal(t, 2, g.EdgeCount())
}

func TestLoad_Malformed(t *testing.T) {
	input := "1 2\n1 2 3\nx 4\n4 5\n"

	_, err := Load(strings.NewReader(input), LoadOptions{Strict: true})
	require.True(t, errors.Is(err, ErrMalformedEdge))
	var merr *MalformedEdgeError
	require.True(t, errors.As(err, &merr))
	assert.Equal(t, 2, merr.LineNo)
	assert.Equal(t, "1 2 3", merr.Line)

	var skipped []int
	g, err := Load(strings.NewReader(input), LoadOptions{
		OnMalformed: func(e *MalformedEdgeError) { skipped = append(skipped, e.LineNo) },
	})
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3}, skipped)
	assert.Equal(t, []Edge{{1, 2}, {4, 5}}, g.Edges)
}

func TestLoad_OversizedLine(t *testing.T) {
	input := "1 2\n" + "3 " + strings.Repeat(" ", source.MaxLineSize) + "4\n2 3\n"

	var skipped []*MalformedEdgeError
	g, err := Load(strings.NewReader(input), LoadOptions{
		OnMalformed: func(e *MalformedEdgeError) { skipped = append(skipped, e) },
	})
	require.NoError(t, err)
	assert.Equal(t, []Edge{{1, 2}, {2, 3}}, g.Edges)
	require.Len(t, skipped, 1)
	assert.Equal(t, 2, skipped[0].LineNo)
	assert.ErrorIs(t, skipped[0], source.ErrLineTooLong)

	_, err = Load(strings.NewReader(input), LoadOptions{Strict: true})
	assert.ErrorIs(t, err, ErrMalformedEdge)
	assert.ErrorIs(t, err, source.ErrLineTooLong)
}

func TestParseEdge(t *testing.T) {
	tests := []struct {
		line    string
		want    Edge
		wantErr string
	}{
		{"1 2", Edge{1, 2}, ""},
		{"  -1   7 ", Edge{-1, 7}, ""},
		{"1", Edge{}, "got 1"},
		{"1 two", Edge{}, "second endpoint"},
		{"1.5 2", Edge{}, "first endpoint"},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := ParseEdge(tt.line)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGraph_DuplicatesAndSelfLoops(t *testing.T) {
	g := New(Undirected)
	g.AddEdge(1, 2)
	g.AddEdge(2, 1)
	g.AddEdge(1, 2)
	g.AddEdge(3, 3)

	assert.Equal(t, 4, g.EdgeCount(), "edge list keeps input verbatim")

	ug := g.Undirected()
	assert.Equal(t, 3, ug.Nodes().Len())
	assert.Equal(t, 1, ug.Edges().Len())
	assert.True(t, ug.HasEdgeBetween(1, 2))

	dg := g.Directed()
	assert.Equal(t, 2, dg.Edges().Len())
	assert.True(t, dg.HasEdgeFromTo(2, 1))
}

func TestWriteEdgesRoundTrip(t *testing.T) {
	g := New(Directed)
	g.AddEdge(1, 2)
	g.AddEdge(1, 3)

	var buf bytes.Buffer
	require.NoError(t, g.WriteEdges(&buf))
	assert.Equal(t, "1 2\n1 3\n", buf.String())

	back, err := Load(&buf, LoadOptions{Kind: Directed, Strict: true})
	require.NoError(t, err)
	assert.Equal(t, g.Edges, back.Edges)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "16-4-0.tpgy")
	require.NoError(t, os.WriteFile(path, []byte("0 1\n1 2\n"), 0o644))

	g, err := LoadFile(path, LoadOptions{Strict: true})
	require.NoError(t, err)
	assert.Equal(t, 3, g.NodeCount())

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing"), LoadOptions{})
	assert.Error(t, err)
}

func TestParseAdjacencyDump(t *testing.T) {
	g, err := ParseAdjacencyDump("{1: {2, 3}, 2: {}, 3: {1}}\n")
	require.NoError(t, err)

	assert.Equal(t, Directed, g.Kind)
	assert.Equal(t, []Edge{{1, 2}, {1, 3}, {3, 1}}, g.Edges)
	assert.Equal(t, []int64{1, 2, 3}, g.Nodes())

	empty, err := ParseAdjacencyDump("{}")
	require.NoError(t, err)
	assert.Zero(t, empty.EdgeCount())
}

func TestParseAdjacencyDump_Errors(t *testing.T) {
	for _, in := range []string{
		"",
		"1: {2}",
		"{1 {2}}",
		"{1: {2 3}}",
		"{1: {x}}",
		"{1: {2}} extra",
		"{1: {2}",
	} {
		t.Run(in, func(t *testing.T) {
			_, err := ParseAdjacencyDump(in)
			assert.Error(t, err)
		})
	}
}

func TestGraph_Successors(t *testing.T) {
	g := New(Directed)
	g.AddEdge(1, 3)
	g.AddEdge(1, 2)
	g.AddEdge(1, 3)
	g.AddEdge(2, 2)

	succ := g.Successors()
	assert.Equal(t, []int64{2, 3}, succ[1])
	assert.Equal(t, []int64{2}, succ[2])
	assert.NotContains(t, succ, int64(3))
}
