package visualization

import (
	"math"
	"slices"

	"github.com/dd0wney/simtrace/pkg/topology"
)

// normalizePositions scales positions to fit within bounds
func normalizePositions(positions map[int64]Position, width, height, padding float64) map[int64]Position {
	if len(positions) == 0 {
		return positions
	}

	minX, maxX := math.MaxFloat64, -math.MaxFloat64
	minY, maxY := math.MaxFloat64, -math.MaxFloat64

	for _, pos := range positions {
		minX = math.Min(minX, pos.X)
		maxX = math.Max(maxX, pos.X)
		minY = math.Min(minY, pos.Y)
		maxY = math.Max(maxY, pos.Y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX < 0.01 {
		rangeX = 1
	}
	if rangeY < 0.01 {
		rangeY = 1
	}

	targetWidth := width - 2*padding
	targetHeight := height - 2*padding

	normalized := make(map[int64]Position, len(positions))
	for nodeID, pos := range positions {
		normalized[nodeID] = Position{
			X: padding + ((pos.X-minX)/rangeX)*targetWidth,
			Y: padding + ((pos.Y-minY)/rangeY)*targetHeight,
		}
	}

	return normalized
}

// undirectedNeighbors ignores direction, duplicates and self loops. Each
// list is sorted so force sums always add up in the same order.
func undirectedNeighbors(g *topology.Graph) map[int64][]int64 {
	nb := make(map[int64][]int64)
	for _, e := range g.Edges {
		if e.From == e.To {
			continue
		}
		nb[e.From] = append(nb[e.From], e.To)
		nb[e.To] = append(nb[e.To], e.From)
	}
	for id, list := range nb {
		slices.Sort(list)
		nb[id] = slices.Compact(list)
	}
	return nb
}

// directedAdjacency returns successors without self loops, and in-degrees.
func directedAdjacency(g *topology.Graph) (map[int64][]int64, map[int64]int) {
	out := g.Successors()
	indegree := make(map[int64]int)
	for from, targets := range out {
		out[from] = slices.DeleteFunc(targets, func(to int64) bool { return to == from })
		for _, to := range out[from] {
			indegree[to]++
		}
	}
	return out, indegree
}
