package record

import (
	"fmt"

	"github.com/dd0wney/simtrace/pkg/validation"
)

// Line formats written by the simulator, one per reporting granularity.
const (
	FaultFormat    = "n: {int}, f: {int}, c: {int}, a: {char}"
	DeliveryFormat = "[n: {int}, f: {int}, c: {int}, i: {int}] f: d {int}%, m {int}, t: {int} | r: d {int}%, m {int}, t: {int}"
	LatencyFormat  = "[n: {int}, f: {int}, c: {int}] p {int} | f {int}"
)

var (
	FaultTemplate    = MustCompile(FaultFormat)
	DeliveryTemplate = MustCompile(DeliveryFormat)
	LatencyTemplate  = MustCompile(LatencyFormat)
)

// Run identifies the simulated configuration a sample came from.
type Run struct {
	// N is the node count.
	N int `validate:"gte=0"`
	// F is the fault-tolerance parameter.
	F int `validate:"gte=0"`
	// C is the topology/config identifier.
	C int `validate:"gte=0"`
}

// Algorithm is the route computation that failed in a fault sample.
type Algorithm string

const (
	AlgorithmFast     Algorithm = "f"
	AlgorithmPathfind Algorithm = "p"
)

// Label is the legend text used for the algorithm.
func (a Algorithm) Label() string {
	switch a {
	case AlgorithmFast:
		return "Fast Algorithm"
	case AlgorithmPathfind:
		return "Pathfind Algorithm"
	default:
		return string(a)
	}
}

// FaultRecord is one failed broadcast: the algorithm could not reach full
// delivery with F faulty nodes.
type FaultRecord struct {
	Run
	Algorithm Algorithm `validate:"oneof=f p"`
}

// Outcome is the result of one broadcast strategy.
type Outcome struct {
	Delivered int `validate:"gte=0,lte=100"`
	Messages  int `validate:"gte=0"`
	Time      int `validate:"gte=0"`
}

// DeliveryRecord pairs flood and routed outcomes for one iteration.
type DeliveryRecord struct {
	Run
	Iteration int `validate:"gte=0"`
	Flood     Outcome
	Routed    Outcome
}

// LatencyRecord is the route computation time, in milliseconds, of the
// pathfind and fast algorithms for one run.
type LatencyRecord struct {
	Run
	Path int `validate:"gte=0"`
	Fast int `validate:"gte=0"`
}

// ParseFault parses a line in FaultFormat.
func ParseFault(line string) (FaultRecord, error) {
	v, err := FaultTemplate.Match(line)
	if err != nil {
		return FaultRecord{}, err
	}
	rec := FaultRecord{
		Run:       runOf(v),
		Algorithm: Algorithm(string(v[3].Char)),
	}
	return checked(rec, FaultTemplate, line)
}

// Format renders the record in FaultFormat.
func (r FaultRecord) Format() string {
	var ch rune
	if len(r.Algorithm) > 0 {
		ch = []rune(string(r.Algorithm))[0]
	}
	return mustFormat(FaultTemplate, append(r.Run.values(), CharValue(ch))...)
}

// ParseDelivery parses a line in DeliveryFormat.
func ParseDelivery(line string) (DeliveryRecord, error) {
	v, err := DeliveryTemplate.Match(line)
	if err != nil {
		return DeliveryRecord{}, err
	}
	rec := DeliveryRecord{
		Run:       runOf(v),
		Iteration: int(v[3].Int),
		Flood:     Outcome{Delivered: int(v[4].Int), Messages: int(v[5].Int), Time: int(v[6].Int)},
		Routed:    Outcome{Delivered: int(v[7].Int), Messages: int(v[8].Int), Time: int(v[9].Int)},
	}
	return checked(rec, DeliveryTemplate, line)
}

// Format renders the record in DeliveryFormat.
func (r DeliveryRecord) Format() string {
	values := append(r.Run.values(), IntValue(int64(r.Iteration)))
	values = append(values, r.Flood.values()...)
	values = append(values, r.Routed.values()...)
	return mustFormat(DeliveryTemplate, values...)
}

// ParseLatency parses a line in LatencyFormat.
func ParseLatency(line string) (LatencyRecord, error) {
	v, err := LatencyTemplate.Match(line)
	if err != nil {
		return LatencyRecord{}, err
	}
	rec := LatencyRecord{
		Run:  runOf(v),
		Path: int(v[3].Int),
		Fast: int(v[4].Int),
	}
	return checked(rec, LatencyTemplate, line)
}

// Format renders the record in LatencyFormat.
func (r LatencyRecord) Format() string {
	return mustFormat(LatencyTemplate, append(r.Run.values(), IntValue(int64(r.Path)), IntValue(int64(r.Fast)))...)
}

func runOf(v []Value) Run {
	return Run{N: int(v[0].Int), F: int(v[1].Int), C: int(v[2].Int)}
}

func (r Run) values() []Value {
	return []Value{IntValue(int64(r.N)), IntValue(int64(r.F)), IntValue(int64(r.C))}
}

func (o Outcome) values() []Value {
	return []Value{IntValue(int64(o.Delivered)), IntValue(int64(o.Messages)), IntValue(int64(o.Time))}
}

// checked applies the field invariants; a record that converts but violates
// them is still malformed and is never returned.
func checked[R any](rec R, t *Template, line string) (R, error) {
	if err := validation.Struct(rec); err != nil {
		var zero R
		return zero, &MalformedRecordError{Line: line, Template: t.String(), Err: err}
	}
	return rec, nil
}

func mustFormat(t *Template, values ...Value) string {
	s, err := t.Format(values...)
	if err != nil {
		// arity is fixed per record type
		panic(fmt.Sprintf("record: %v", err))
	}
	return s
}

// Parser converts one line into a typed record.
type Parser[R any] func(line string) (R, error)
