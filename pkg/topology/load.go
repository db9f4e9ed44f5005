package topology

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dd0wney/simtrace/pkg/record"
	"github.com/dd0wney/simtrace/pkg/source"
)

// ErrMalformedEdge matches every *MalformedEdgeError via errors.Is.
var ErrMalformedEdge = errors.New("malformed edge")

// MalformedEdgeError reports a topology line that is not exactly two
// integers.
type MalformedEdgeError struct {
	LineNo int
	Line   string
	Err    error
}

func (e *MalformedEdgeError) Error() string {
	return fmt.Sprintf("malformed edge at line %d: %v (line %q)", e.LineNo, e.Err, e.Line)
}

func (e *MalformedEdgeError) Unwrap() error { return e.Err }

func (e *MalformedEdgeError) Is(target error) bool { return target == ErrMalformedEdge }

// ParseEdge parses "a b" with any whitespace between the two integers.
func ParseEdge(line string) (Edge, error) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return Edge{}, fmt.Errorf("want 2 integer tokens, got %d", len(fields))
	}
	from, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return Edge{}, fmt.Errorf("first endpoint %q: %w", fields[0], err)
	}
	to, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return Edge{}, fmt.Errorf("second endpoint %q: %w", fields[1], err)
	}
	return Edge{From: from, To: to}, nil
}

// LoadOptions controls how Load treats bad lines.
type LoadOptions struct {
	Kind Kind
	// Strict aborts on the first malformed line. Otherwise malformed lines
	// are reported to OnMalformed and skipped.
	Strict      bool
	OnMalformed func(*MalformedEdgeError)
}

// Load reads an edge list. Blank lines are always skipped.
func Load(r io.Reader, opts LoadOptions) (*Graph, error) {
	g := New(opts.Kind)

	malformed := func(merr *MalformedEdgeError) error {
		if opts.Strict {
			return merr
		}
		if opts.OnMalformed != nil {
			opts.OnMalformed(merr)
		}
		return nil
	}

	err := source.Lines(r, func(lineNo int, line string) error {
		if record.IsBlank(line) {
			return nil
		}
		e, err := ParseEdge(line)
		if err != nil {
			return malformed(&MalformedEdgeError{LineNo: lineNo, Line: line, Err: err})
		}
		g.AddEdge(e.From, e.To)
		return nil
	}, func(lerr *source.LongLineError) error {
		return malformed(&MalformedEdgeError{LineNo: lerr.LineNo, Line: lerr.Prefix, Err: lerr})
	})
	if err != nil {
		return nil, err
	}
	return g, nil
}

// LoadFile opens path (optionally compressed) and loads it.
func LoadFile(path string, opts LoadOptions) (*Graph, error) {
	rc, err := source.Open(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	g, err := Load(rc, opts)
	if err != nil {
		return nil, fmt.Errorf("load topology %s: %w", path, err)
	}
	return g, nil
}
