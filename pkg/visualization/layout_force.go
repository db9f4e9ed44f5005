package visualization

import (
	"math"
	"math/rand/v2"

	"github.com/dd0wney/simtrace/pkg/topology"
)

// ForceDirectedLayout is a Fruchterman-Reingold style layout. Edge direction
// is ignored.
type ForceDirectedLayout struct {
	config *LayoutConfig
}

// NewForceDirectedLayout creates a new force-directed layout
func NewForceDirectedLayout(config *LayoutConfig) *ForceDirectedLayout {
	if config.Iterations == 0 {
		config.Iterations = 50
	}
	if config.Padding == 0 {
		config.Padding = 50
	}
	return &ForceDirectedLayout{config: config}
}

// ComputeLayout computes positions using force-directed algorithm
func (fdl *ForceDirectedLayout) ComputeLayout(g *topology.Graph) (map[int64]Position, error) {
	nodeIDs := g.Nodes()
	cfg := fdl.config

	if len(nodeIDs) == 0 {
		return make(map[int64]Position), nil
	}
	if len(nodeIDs) == 1 {
		return map[int64]Position{
			nodeIDs[0]: {X: cfg.Width / 2, Y: cfg.Height / 2},
		}, nil
	}

	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed+1))
	positions := make(map[int64]Position, len(nodeIDs))
	for _, nodeID := range nodeIDs {
		positions[nodeID] = Position{
			X: rng.Float64()*(cfg.Width-2*cfg.Padding) + cfg.Padding,
			Y: rng.Float64()*(cfg.Height-2*cfg.Padding) + cfg.Padding,
		}
	}

	neighbors := undirectedNeighbors(g)

	k := math.Sqrt((cfg.Width * cfg.Height) / float64(len(nodeIDs))) // optimal distance
	temperature := cfg.Width / 10.0

	for iter := 0; iter < cfg.Iterations; iter++ {
		forces := make(map[int64]Position, len(nodeIDs))

		// repulsion between every pair
		for i, a := range nodeIDs {
			for _, b := range nodeIDs[i+1:] {
				dx := positions[a].X - positions[b].X
				dy := positions[a].Y - positions[b].Y
				dist := math.Max(math.Sqrt(dx*dx+dy*dy), 0.01)

				force := (k * k) / dist
				fx := (dx / dist) * force
				fy := (dy / dist) * force

				forces[a] = Position{X: forces[a].X + fx, Y: forces[a].Y + fy}
				forces[b] = Position{X: forces[b].X - fx, Y: forces[b].Y - fy}
			}
		}

		// attraction along edges
		for _, a := range nodeIDs {
			for _, b := range neighbors[a] {
				dx := positions[a].X - positions[b].X
				dy := positions[a].Y - positions[b].Y
				dist := math.Sqrt(dx*dx + dy*dy)
				if dist < 0.01 {
					continue
				}

				force := (dist * dist) / k
				forces[a] = Position{
					X: forces[a].X - (dx/dist)*force,
					Y: forces[a].Y - (dy/dist)*force,
				}
			}
		}

		cool := 1.0 - float64(iter)/float64(cfg.Iterations)
		for _, nodeID := range nodeIDs {
			fx, fy := forces[nodeID].X, forces[nodeID].Y
			force := math.Sqrt(fx*fx + fy*fy)
			if force > 0 {
				step := math.Min(force, temperature) * cool
				positions[nodeID] = Position{
					X: positions[nodeID].X + (fx/force)*step,
					Y: positions[nodeID].Y + (fy/force)*step,
				}
			}
		}

		temperature *= 0.95
	}

	return normalizePositions(positions, cfg.Width, cfg.Height, cfg.Padding), nil
}
