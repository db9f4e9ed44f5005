// Package aggregate folds samples into a two-level grouping (series key, then
// node count) and reduces every group to a rounded mean.
package aggregate

import (
	"cmp"
	"errors"
	"math"
	"slices"

	"golang.org/x/exp/constraints"
	"gonum.org/v1/gonum/stat"
)

// ErrEmptyInput is returned when a scan produced no samples at all.
var ErrEmptyInput = errors.New("no records produced any group")

// Point is one reduced group: X is the node count, Y the rounded mean.
type Point struct {
	X int   `json:"x"`
	Y int64 `json:"y"`
}

// Sample is one raw (node count, value) observation.
type Sample struct {
	X     int     `json:"x"`
	Value float64 `json:"value"`
}

// Series is the reduced line for one outer key. Points are strictly
// ascending by X.
type Series[K cmp.Ordered] struct {
	Key    K       `json:"key"`
	Points []Point `json:"points"`
}

// XY splits the points into plot-ready coordinate slices.
func (s Series[K]) XY() (xs, ys []float64) {
	xs = make([]float64, len(s.Points))
	ys = make([]float64, len(s.Points))
	for i, p := range s.Points {
		xs[i] = float64(p.X)
		ys[i] = float64(p.Y)
	}
	return xs, ys
}

// Mean is round(sum/count) with halves rounded to even, the rounding the
// plotting scripts have always used. samples must be non-empty; Grouping
// never holds an empty group.
func Mean(samples []float64) int64 {
	return int64(math.RoundToEven(stat.Mean(samples, nil)))
}

// MeanOf converts integer samples and reduces them with Mean.
func MeanOf[T constraints.Integer](samples []T) int64 {
	fs := make([]float64, len(samples))
	for i, s := range samples {
		fs[i] = float64(s)
	}
	return Mean(fs)
}

// Grouping maps outer key -> node count -> samples. The zero value is not
// usable; call NewGrouping.
type Grouping[K cmp.Ordered] struct {
	groups  map[K]map[int][]float64
	samples int
}

// NewGrouping creates an empty grouping.
func NewGrouping[K cmp.Ordered]() *Grouping[K] {
	return &Grouping[K]{groups: make(map[K]map[int][]float64)}
}

// Add appends one sample. Inner and outer groups are created here, together
// with their first sample.
func (g *Grouping[K]) Add(key K, n int, value float64) {
	inner, ok := g.groups[key]
	if !ok {
		inner = make(map[int][]float64)
		g.groups[key] = inner
	}
	inner[n] = append(inner[n], value)
	g.samples++
}

// Len is the total number of samples added.
func (g *Grouping[K]) Len() int { return g.samples }

// Keys returns the outer keys in ascending order.
func (g *Grouping[K]) Keys() []K {
	keys := make([]K, 0, len(g.groups))
	for k := range g.groups {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Samples returns the raw samples for one (key, n) group, or nil.
func (g *Grouping[K]) Samples(key K, n int) []float64 {
	return g.groups[key][n]
}

// Series reduces every group. Outer keys come out sorted so output is
// reproducible; any order would be correct. Returns ErrEmptyInput when
// nothing was added.
func (g *Grouping[K]) Series() ([]Series[K], error) {
	if g.samples == 0 {
		return nil, ErrEmptyInput
	}

	out := make([]Series[K], 0, len(g.groups))
	for _, key := range g.Keys() {
		inner := g.groups[key]

		ns := make([]int, 0, len(inner))
		for n := range inner {
			ns = append(ns, n)
		}
		slices.Sort(ns)

		points := make([]Point, len(ns))
		for i, n := range ns {
			points[i] = Point{X: n, Y: Mean(inner[n])}
		}
		out = append(out, Series[K]{Key: key, Points: points})
	}
	return out, nil
}

// Scatter returns every raw sample of one outer key, ordered by X and then
// by arrival.
func (g *Grouping[K]) Scatter(key K) []Sample {
	inner := g.groups[key]
	ns := make([]int, 0, len(inner))
	for n := range inner {
		ns = append(ns, n)
	}
	slices.Sort(ns)

	var out []Sample
	for _, n := range ns {
		for _, v := range inner[n] {
			out = append(out, Sample{X: n, Value: v})
		}
	}
	return out
}
