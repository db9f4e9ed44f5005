package aggregate

import (
	"cmp"
	"fmt"
)

// Reduction describes one independent summary over a record stream: which
// series a record belongs to, its node count, and the sampled value.
type Reduction[R any, K cmp.Ordered] struct {
	Name  string
	Key   func(R) K
	N     func(R) int
	Value func(R) float64
}

// Fanout drives several reductions from a single pass over the records.
type Fanout[R any, K cmp.Ordered] struct {
	reductions []Reduction[R, K]
	groupings  []*Grouping[K]
	observed   int
}

// NewFanout creates a fanout. Reduction names must be unique.
func NewFanout[R any, K cmp.Ordered](reductions ...Reduction[R, K]) (*Fanout[R, K], error) {
	seen := make(map[string]bool, len(reductions))
	f := &Fanout[R, K]{reductions: reductions}
	for _, r := range reductions {
		if r.Key == nil || r.N == nil || r.Value == nil {
			return nil, fmt.Errorf("reduction %q: Key, N and Value are required", r.Name)
		}
		if seen[r.Name] {
			return nil, fmt.Errorf("duplicate reduction %q", r.Name)
		}
		seen[r.Name] = true
		f.groupings = append(f.groupings, NewGrouping[K]())
	}
	return f, nil
}

// Observe folds one record into every reduction.
func (f *Fanout[R, K]) Observe(rec R) {
	for i, r := range f.reductions {
		f.groupings[i].Add(r.Key(rec), r.N(rec), r.Value(rec))
	}
	f.observed++
}

// Observed is the number of records folded so far.
func (f *Fanout[R, K]) Observed() int { return f.observed }

// Grouping exposes the raw grouping behind a reduction.
func (f *Fanout[R, K]) Grouping(name string) (*Grouping[K], bool) {
	for i, r := range f.reductions {
		if r.Name == name {
			return f.groupings[i], true
		}
	}
	return nil, false
}

// Named is the reduced output of one reduction.
type Named[K cmp.Ordered] struct {
	Name   string
	Series []Series[K]
}

// Results reduces every grouping, in reduction order. ErrEmptyInput when no
// record was observed.
func (f *Fanout[R, K]) Results() ([]Named[K], error) {
	if f.observed == 0 {
		return nil, ErrEmptyInput
	}
	out := make([]Named[K], 0, len(f.reductions))
	for i, r := range f.reductions {
		series, err := f.groupings[i].Series()
		if err != nil {
			return nil, fmt.Errorf("reduction %q: %w", r.Name, err)
		}
		out = append(out, Named[K]{Name: r.Name, Series: series})
	}
	return out, nil
}
