package visualization

import (
	"encoding/json"
	"fmt"

	"github.com/dd0wney/simtrace/pkg/topology"
)

// Scene is what an external graph renderer needs: positioned nodes, edges
// and the headline number to print next to them.
type Scene struct {
	Directed     bool            `json:"directed"`
	Layout       string          `json:"layout"`
	Connectivity *int            `json:"connectivity,omitempty"`
	Nodes        []SceneNode     `json:"nodes"`
	Edges        []topology.Edge `json:"edges"`
}

// SceneNode is a node with its position.
type SceneNode struct {
	ID int64   `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

// BuildScene lays out g with the named layout.
func BuildScene(g *topology.Graph, layoutKind string, config *LayoutConfig) (*Scene, error) {
	positions, err := NewLayout(layoutKind, config).ComputeLayout(g)
	if err != nil {
		return nil, fmt.Errorf("layout %s: %w", layoutKind, err)
	}

	scene := &Scene{
		Directed: g.Kind == topology.Directed,
		Layout:   layoutKind,
		Nodes:    make([]SceneNode, 0, g.NodeCount()),
		Edges:    append([]topology.Edge(nil), g.Edges...),
	}
	for _, id := range g.Nodes() {
		pos := positions[id]
		scene.Nodes = append(scene.Nodes, SceneNode{ID: id, X: pos.X, Y: pos.Y})
	}
	return scene, nil
}

// WithConnectivity records the analyzer's result on the scene.
func (s *Scene) WithConnectivity(k int) *Scene {
	s.Connectivity = &k
	return s
}

// ExportJSON exports the scene to JSON
func (s *Scene) ExportJSON() ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}
