package topology

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseAdjacencyDump reads the simulator's debug print of a route table,
// "{1: {2, 3}, 2: {}, 3: {1}}", into a directed graph with one edge per
// (key, member) pair. Keys with an empty set add no edges.
func ParseAdjacencyDump(s string) (*Graph, error) {
	p := &dumpParser{s: strings.TrimSpace(s)}
	g := New(Directed)

	if err := p.expect('{'); err != nil {
		return nil, err
	}
	for {
		p.skipSpace()
		if p.peek() == '}' {
			p.pos++
			break
		}

		from, err := p.integer()
		if err != nil {
			return nil, err
		}
		if err := p.expect(':'); err != nil {
			return nil, err
		}
		if err := p.expect('{'); err != nil {
			return nil, err
		}
		for {
			p.skipSpace()
			if p.peek() == '}' {
				p.pos++
				break
			}
			to, err := p.integer()
			if err != nil {
				return nil, err
			}
			g.AddEdge(from, to)
			if err := p.separator(); err != nil {
				return nil, err
			}
		}
		if err := p.separator(); err != nil {
			return nil, err
		}
	}

	p.skipSpace()
	if p.pos != len(p.s) {
		return nil, p.errorf("unexpected trailing input")
	}
	return g, nil
}

type dumpParser struct {
	s   string
	pos int
}

func (p *dumpParser) errorf(format string, args ...any) error {
	return fmt.Errorf("adjacency dump offset %d: %s", p.pos, fmt.Sprintf(format, args...))
}

func (p *dumpParser) peek() byte {
	if p.pos >= len(p.s) {
		return 0
	}
	return p.s[p.pos]
}

func (p *dumpParser) skipSpace() {
	for p.pos < len(p.s) && (p.s[p.pos] == ' ' || p.s[p.pos] == '\t' || p.s[p.pos] == '\n' || p.s[p.pos] == '\r') {
		p.pos++
	}
}

func (p *dumpParser) expect(c byte) error {
	p.skipSpace()
	if p.peek() != c {
		return p.errorf("expected %q", c)
	}
	p.pos++
	return nil
}

// separator consumes a ',' or leaves a closing '}' for the caller.
func (p *dumpParser) separator() error {
	p.skipSpace()
	switch p.peek() {
	case ',':
		p.pos++
		return nil
	case '}':
		return nil
	default:
		return p.errorf("expected ',' or '}'")
	}
}

func (p *dumpParser) integer() (int64, error) {
	p.skipSpace()
	start := p.pos
	if p.peek() == '-' {
		p.pos++
	}
	for p.pos < len(p.s) && p.s[p.pos] >= '0' && p.s[p.pos] <= '9' {
		p.pos++
	}
	v, err := strconv.ParseInt(p.s[start:p.pos], 10, 64)
	if err != nil {
		p.pos = start
		return 0, p.errorf("expected integer")
	}
	return v, nil
}
