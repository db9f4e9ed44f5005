package connectivity

import (
	"math/rand/v2"
	"slices"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/topo"
)

// Options tunes the pair sampling.
type Options struct {
	// MaxPairs caps how many candidate pairs get a max-flow computation.
	// Zero evaluates every candidate pair.
	MaxPairs int
	// Seed makes sampling reproducible.
	Seed uint64
}

// Result is the connectivity value plus what went into it.
type Result struct {
	Connectivity   int   `json:"connectivity"`
	Nodes          int   `json:"nodes"`
	Edges          int   `json:"edges"`
	Components     int   `json:"components"`
	MinDegree      int   `json:"min_degree"`
	MinDegreeNode  int64 `json:"min_degree_node"`
	PairsTotal     int   `json:"pairs_total"`
	PairsEvaluated int   `json:"pairs_evaluated"`
	// Sampled is set when MaxPairs cut the candidate set; Connectivity is
	// then an upper bound.
	Sampled bool `json:"sampled"`
}

// splitGraph is the node-split flow network of an undirected graph: node i
// becomes in=2i and out=2i+1 joined by a unit arc, so a unit of flow uses
// each intermediate node at most once.
type splitGraph struct {
	ids   []int64
	index map[int64]int
	adj   [][]int
	net   *flowNetwork
}

func newSplitGraph(g graph.Undirected) *splitGraph {
	nodes := graph.NodesOf(g.Nodes())
	ids := make([]int64, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID()
	}
	slices.Sort(ids)

	sg := &splitGraph{
		ids:   ids,
		index: make(map[int64]int, len(ids)),
		adj:   make([][]int, len(ids)),
		net:   newFlowNetwork(2 * len(ids)),
	}
	for i, id := range ids {
		sg.index[id] = i
	}

	for i, id := range ids {
		sg.net.addArc(2*i, 2*i+1, 1)
		for _, nb := range graph.NodesOf(g.From(id)) {
			j := sg.index[nb.ID()]
			if j == i {
				continue
			}
			sg.adj[i] = append(sg.adj[i], j)
			// each undirected edge is visited from both ends, giving both arcs
			sg.net.addArc(2*i+1, 2*j, 1)
		}
		slices.Sort(sg.adj[i])
	}
	sg.net.seal()
	return sg
}

func (sg *splitGraph) adjacent(i, j int) bool {
	_, found := slices.BinarySearch(sg.adj[i], j)
	return found
}

// local is the number of internally node-disjoint paths between i and j,
// capped at limit. For adjacent nodes the direct edge counts as one path.
func (sg *splitGraph) local(i, j, limit int) int {
	sg.net.reset()
	return sg.net.maxFlow(2*i+1, 2*j, limit)
}

// LocalNodeConnectivity returns the number of internally node-disjoint paths
// between s and t, or 0 if either node is missing or s == t.
func LocalNodeConnectivity(g graph.Undirected, s, t int64) int {
	if s == t || g.Node(s) == nil || g.Node(t) == nil {
		return 0
	}
	sg := newSplitGraph(g)
	return sg.local(sg.index[s], sg.index[t], len(sg.ids))
}

// NodeConnectivity approximates the minimum number of nodes whose removal
// disconnects g or leaves a single node.
//
// The candidate pairs are those of Esfahanian and Hakimi: a minimum degree
// node v against each of its non-neighbours, plus every non-adjacent pair of
// v's neighbours. Each pair is a unit-capacity max-flow on the node-split
// graph, cut off at the best value found so far. With MaxPairs set, a
// seeded uniform sample of the candidates is evaluated instead.
//
// Graphs with fewer than two nodes and disconnected graphs report 0.
func NodeConnectivity(g graph.Undirected, opts Options) Result {
	res := Result{
		Nodes: len(graph.NodesOf(g.Nodes())),
		Edges: edgeCount(g),
	}
	if res.Nodes == 0 {
		return res
	}

	components := topo.ConnectedComponents(g)
	res.Components = len(components)
	if res.Nodes < 2 || res.Components > 1 {
		return res
	}

	sg := newSplitGraph(g)

	v := 0
	for i := range sg.ids {
		if len(sg.adj[i]) < len(sg.adj[v]) {
			v = i
		}
	}
	res.MinDegreeNode = sg.ids[v]
	res.MinDegree = len(sg.adj[v])
	k := res.MinDegree

	pairs := candidatePairs(sg, v)
	res.PairsTotal = len(pairs)
	if opts.MaxPairs > 0 && len(pairs) > opts.MaxPairs {
		rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15))
		rng.Shuffle(len(pairs), func(a, b int) { pairs[a], pairs[b] = pairs[b], pairs[a] })
		pairs = pairs[:opts.MaxPairs]
		res.Sampled = true
	}

	for _, p := range pairs {
		if k == 0 {
			break
		}
		k = min(k, sg.local(p[0], p[1], k))
		res.PairsEvaluated++
	}

	res.Connectivity = k
	return res
}

// edgeCount counts each undirected edge once, from its lower endpoint.
func edgeCount(g graph.Undirected) int {
	n := 0
	for nodes := g.Nodes(); nodes.Next(); {
		u := nodes.Node().ID()
		for from := g.From(u); from.Next(); {
			if u <= from.Node().ID() {
				n++
			}
		}
	}
	return n
}

func candidatePairs(sg *splitGraph, v int) [][2]int {
	var pairs [][2]int
	for w := range sg.ids {
		if w != v && !sg.adjacent(v, w) {
			pairs = append(pairs, [2]int{v, w})
		}
	}
	nbrs := sg.adj[v]
	for a := 0; a < len(nbrs); a++ {
		for b := a + 1; b < len(nbrs); b++ {
			if !sg.adjacent(nbrs[a], nbrs[b]) {
				pairs = append(pairs, [2]int{nbrs[a], nbrs[b]})
			}
		}
	}
	return pairs
}
