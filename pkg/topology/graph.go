package topology

import (
	"fmt"
	"io"
	"slices"

	"gonum.org/v1/gonum/graph/simple"
)

// Kind says how edges are interpreted.
type Kind int

const (
	// Undirected is used for connectivity analysis.
	Undirected Kind = iota
	// Directed is used for route/debug dumps, where a->b does not imply b->a.
	Directed
)

func (k Kind) String() string {
	if k == Directed {
		return "directed"
	}
	return "undirected"
}

// Edge is one input pair, kept as written.
type Edge struct {
	From int64 `json:"from"`
	To   int64 `json:"to"`
}

// Graph is an edge list with the node set derived from it. Duplicate and
// self-referencing edges are kept verbatim; conversion to gonum collapses them.
type Graph struct {
	Kind  Kind
	Edges []Edge
	nodes map[int64]struct{}
}

// New creates an empty graph.
func New(kind Kind) *Graph {
	return &Graph{Kind: kind, nodes: make(map[int64]struct{})}
}

// AddEdge appends an edge and registers both endpoints.
func (g *Graph) AddEdge(from, to int64) {
	g.Edges = append(g.Edges, Edge{From: from, To: to})
	g.nodes[from] = struct{}{}
	g.nodes[to] = struct{}{}
}

// Nodes returns node ids in ascending order.
func (g *Graph) Nodes() []int64 {
	ids := make([]int64, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func (g *Graph) NodeCount() int { return len(g.nodes) }
func (g *Graph) EdgeCount() int { return len(g.Edges) }

// Undirected builds a gonum undirected graph. Duplicate edges collapse and
// self loops only contribute their node.
func (g *Graph) Undirected() *simple.UndirectedGraph {
	ug := simple.NewUndirectedGraph()
	for _, id := range g.Nodes() {
		ug.AddNode(simple.Node(id))
	}
	for _, e := range g.Edges {
		if e.From == e.To {
			continue
		}
		ug.SetEdge(ug.NewEdge(simple.Node(e.From), simple.Node(e.To)))
	}
	return ug
}

// Directed builds a gonum directed graph with the same collapsing rules.
func (g *Graph) Directed() *simple.DirectedGraph {
	dg := simple.NewDirectedGraph()
	for _, id := range g.Nodes() {
		dg.AddNode(simple.Node(id))
	}
	for _, e := range g.Edges {
		if e.From == e.To {
			continue
		}
		dg.SetEdge(dg.NewEdge(simple.Node(e.From), simple.Node(e.To)))
	}
	return dg
}

// Successors maps each node with outgoing edges to its sorted, distinct
// targets. Self loops are kept.
func (g *Graph) Successors() map[int64][]int64 {
	out := make(map[int64][]int64)
	for _, e := range g.Edges {
		out[e.From] = append(out[e.From], e.To)
	}
	for id, targets := range out {
		slices.Sort(targets)
		out[id] = slices.Compact(targets)
	}
	return out
}

// WriteEdges writes one "from to" line per edge, the format Load reads.
func (g *Graph) WriteEdges(w io.Writer) error {
	for _, e := range g.Edges {
		if _, err := fmt.Fprintf(w, "%d %d\n", e.From, e.To); err != nil {
			return err
		}
	}
	return nil
}
