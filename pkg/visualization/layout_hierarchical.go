package visualization

import (
	"github.com/dd0wney/simtrace/pkg/topology"
)

// HierarchicalLayout stacks nodes in BFS levels from the roots (nodes with no
// incoming edge). Intended for directed route dumps.
type HierarchicalLayout struct {
	config *LayoutConfig
}

// NewHierarchicalLayout creates a new hierarchical layout
func NewHierarchicalLayout(config *LayoutConfig) *HierarchicalLayout {
	if config.Padding == 0 {
		config.Padding = 50
	}
	return &HierarchicalLayout{config: config}
}

// ComputeLayout arranges nodes hierarchically
func (hl *HierarchicalLayout) ComputeLayout(g *topology.Graph) (map[int64]Position, error) {
	nodeIDs := g.Nodes()
	positions := make(map[int64]Position, len(nodeIDs))

	if len(nodeIDs) == 0 {
		return positions, nil
	}

	outgoing, indegree := directedAdjacency(g)

	roots := make([]int64, 0)
	for _, nodeID := range nodeIDs {
		if indegree[nodeID] == 0 {
			roots = append(roots, nodeID)
		}
	}
	if len(roots) == 0 {
		// every node sits on a cycle
		roots = []int64{nodeIDs[0]}
	}

	levels := make([][]int64, 0)
	visited := make(map[int64]bool, len(nodeIDs))
	for _, r := range roots {
		visited[r] = true
	}
	currentLevel := roots

	for len(currentLevel) > 0 {
		levels = append(levels, currentLevel)
		nextLevel := make([]int64, 0)
		for _, nodeID := range currentLevel {
			for _, next := range outgoing[nodeID] {
				if !visited[next] {
					visited[next] = true
					nextLevel = append(nextLevel, next)
				}
			}
		}
		currentLevel = nextLevel
	}

	// unreachable nodes go on the last level
	for _, nodeID := range nodeIDs {
		if !visited[nodeID] {
			levels[len(levels)-1] = append(levels[len(levels)-1], nodeID)
		}
	}

	levelHeight := (hl.config.Height - 2*hl.config.Padding) / float64(len(levels))
	levelWidth := hl.config.Width - 2*hl.config.Padding

	for levelIdx, level := range levels {
		y := hl.config.Padding + float64(levelIdx)*levelHeight + levelHeight/2
		spacing := levelWidth / float64(len(level)+1)
		for nodeIdx, nodeID := range level {
			positions[nodeID] = Position{X: hl.config.Padding + spacing*float64(nodeIdx+1), Y: y}
		}
	}

	return positions, nil
}
