// Package algorithms holds graph checks that run on loaded topologies.
package algorithms

import (
	"github.com/dd0wney/simtrace/pkg/topology"
)

// Cycle represents a detected cycle as a sequence of node IDs
type Cycle []int64

const (
	white = iota // unvisited
	gray         // in the recursion stack
	black        // finished
)

// DetectCycles finds cycles in a directed graph using DFS with three-color
// marking. Each back edge yields one cycle, so the result is a cycle basis
// of the DFS forest rather than every elementary cycle. Nodes and successors
// are visited in ascending id order, making the output deterministic.
//
// Edge direction is taken as written, so undirected graphs report every edge
// as a two-node cycle.
func DetectCycles(g *topology.Graph) []Cycle {
	succ := g.Successors()
	color := make(map[int64]int, g.NodeCount())
	parent := make(map[int64]int64)
	cycles := make([]Cycle, 0)

	// DFS from each unvisited node to cover disconnected components
	for _, nodeID := range g.Nodes() {
		if color[nodeID] == white {
			dfsDetectCycle(succ, nodeID, color, parent, &cycles)
		}
	}

	return cycles
}

func dfsDetectCycle(
	succ map[int64][]int64,
	nodeID int64,
	color map[int64]int,
	parent map[int64]int64,
	cycles *[]Cycle,
) {
	color[nodeID] = gray

	for _, neighborID := range succ[nodeID] {
		if neighborID == nodeID {
			*cycles = append(*cycles, Cycle{nodeID})
			continue
		}

		switch color[neighborID] {
		case white:
			parent[neighborID] = nodeID
			dfsDetectCycle(succ, neighborID, color, parent, cycles)
		case gray:
			// back edge
			*cycles = append(*cycles, extractCycle(neighborID, nodeID, parent))
		}
	}

	color[nodeID] = black
}

// extractCycle walks parent pointers from end back to start, for a back
// edge end -> start.
func extractCycle(start, end int64, parent map[int64]int64) Cycle {
	cycle := Cycle{start}

	current := end
	for current != start {
		cycle = append(cycle, current)
		p, exists := parent[current]
		if !exists {
			break
		}
		current = p
	}

	return cycle
}

// CycleStats provides statistics about detected cycles
type CycleStats struct {
	TotalCycles   int     `json:"total_cycles"`
	ShortestCycle int     `json:"shortest_cycle"`
	LongestCycle  int     `json:"longest_cycle"`
	AverageLength float64 `json:"average_length"`
	SelfLoops     int     `json:"self_loops"`
}

// AnalyzeCycles computes statistics about detected cycles
func AnalyzeCycles(cycles []Cycle) CycleStats {
	if len(cycles) == 0 {
		return CycleStats{}
	}

	stats := CycleStats{
		TotalCycles:   len(cycles),
		ShortestCycle: len(cycles[0]),
		LongestCycle:  len(cycles[0]),
	}

	totalLength := 0
	for _, cycle := range cycles {
		length := len(cycle)
		totalLength += length

		if length == 1 {
			stats.SelfLoops++
		}
		stats.ShortestCycle = min(stats.ShortestCycle, length)
		stats.LongestCycle = max(stats.LongestCycle, length)
	}

	stats.AverageLength = float64(totalLength) / float64(len(cycles))
	return stats
}

// HasCycle reports whether g has any cycle, stopping at the first one.
func HasCycle(g *topology.Graph) bool {
	succ := g.Successors()
	color := make(map[int64]int, g.NodeCount())

	for _, nodeID := range g.Nodes() {
		if color[nodeID] == white && hasCycleDFS(succ, nodeID, color) {
			return true
		}
	}
	return false
}

func hasCycleDFS(succ map[int64][]int64, nodeID int64, color map[int64]int) bool {
	color[nodeID] = gray

	for _, neighborID := range succ[nodeID] {
		if neighborID == nodeID {
			return true
		}
		switch color[neighborID] {
		case white:
			if hasCycleDFS(succ, neighborID, color) {
				return true
			}
		case gray:
			return true
		}
	}

	color[nodeID] = black
	return false
}
