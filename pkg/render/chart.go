// Package render turns analysis results into artifacts for external tools:
// chart descriptions (JSON, gnuplot) and short terminal reports.
package render

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
)

// Kind is how a series is drawn.
type Kind string

const (
	KindLine    Kind = "line"
	KindScatter Kind = "scatter"
)

// Series is one labelled set of points. Kind overrides the chart kind when set.
type Series struct {
	Label string    `json:"label"`
	Kind  Kind      `json:"kind,omitempty"`
	X     []float64 `json:"x"`
	Y     []float64 `json:"y"`
}

// Panel is one subplot.
type Panel struct {
	Title  string    `json:"title,omitempty"`
	XLabel string    `json:"x_label"`
	YLabel string    `json:"y_label"`
	XTicks []float64 `json:"x_ticks,omitempty"`
	YTicks []float64 `json:"y_ticks,omitempty"`
	LogY   bool      `json:"log_y,omitempty"`
	Series []Series  `json:"series"`
}

// Chart is a renderer-neutral figure: one or more panels stacked vertically.
type Chart struct {
	Title   string  `json:"title,omitempty"`
	Kind    Kind    `json:"kind"`
	SharedY bool    `json:"shared_y,omitempty"`
	Panels  []Panel `json:"panels"`
}

// Artifact formats understood by WriteFiles.
const (
	FormatJSON    = "json"
	FormatGnuplot = "gnuplot"
)

// ErrUnknownFormat is returned by WriteFiles for unsupported formats.
var ErrUnknownFormat = errors.New("unknown output format")

// kindOf resolves the effective kind of a series.
func (c *Chart) kindOf(s Series) Kind {
	if s.Kind != "" {
		return s.Kind
	}
	if c.Kind != "" {
		return c.Kind
	}
	return KindLine
}

// Points counts points across all panels.
func (c *Chart) Points() int {
	total := 0
	for _, p := range c.Panels {
		for _, s := range p.Series {
			total += len(s.X)
		}
	}
	return total
}

// SeriesCount counts series across all panels.
func (c *Chart) SeriesCount() int {
	total := 0
	for _, p := range c.Panels {
		total += len(p.Series)
	}
	return total
}

// yRange is the common y range used when SharedY is set. ok is false when
// there are no points.
func (c *Chart) yRange() (lo, hi float64, ok bool) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, p := range c.Panels {
		for _, s := range p.Series {
			for _, y := range s.Y {
				lo = math.Min(lo, y)
				hi = math.Max(hi, y)
			}
		}
	}
	return lo, hi, lo <= hi
}

// Validate checks that every series has matching x and y lengths.
func (c *Chart) Validate() error {
	for i, p := range c.Panels {
		for _, s := range p.Series {
			if len(s.X) != len(s.Y) {
				return fmt.Errorf("panel %d series %q: %d x values, %d y values", i, s.Label, len(s.X), len(s.Y))
			}
		}
	}
	return nil
}

// ExportJSON exports the chart to JSON
func (c *Chart) ExportJSON() ([]byte, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return json.MarshalIndent(c, "", "  ")
}

// WriteFiles writes dir/base.json and/or dir/base.gp (which renders to
// dir/base.svg) and returns the written paths.
func (c *Chart) WriteFiles(dir, base string, formats []string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	written := make([]string, 0, len(formats))
	for _, format := range formats {
		var path string
		var err error
		switch format {
		case FormatJSON:
			path = filepath.Join(dir, base+".json")
			err = writeJSON(path, c)
		case FormatGnuplot:
			path = filepath.Join(dir, base+".gp")
			err = writeGnuplot(path, c, base+".svg")
		default:
			return written, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
		}
		if err != nil {
			return written, err
		}
		written = append(written, path)
	}
	return written, nil
}

func writeJSON(path string, c *Chart) error {
	data, err := c.ExportJSON()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func writeGnuplot(path string, c *Chart, output string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := c.WriteGnuplot(f, output); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
