package visualization

import (
	"github.com/dd0wney/simtrace/pkg/topology"
)

// Position represents a 2D coordinate
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// LayoutConfig configures layout parameters
type LayoutConfig struct {
	Width      float64 // Canvas width
	Height     float64 // Canvas height
	Iterations int     // Number of iterations for iterative algorithms
	Padding    float64 // Padding from edges
	Seed       uint64  // Initial placement seed for iterative algorithms
}

// Layout assigns a position to every node of a topology.
type Layout interface {
	ComputeLayout(g *topology.Graph) (map[int64]Position, error)
}

// NewLayout picks a layout by name: "circular", "force" or "hierarchical".
// Unknown names fall back to force-directed.
func NewLayout(kind string, config *LayoutConfig) Layout {
	switch kind {
	case "circular":
		return NewCircularLayout(config)
	case "hierarchical":
		return NewHierarchicalLayout(config)
	default:
		return NewForceDirectedLayout(config)
	}
}
