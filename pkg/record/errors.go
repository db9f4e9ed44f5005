package record

import (
	"errors"
	"fmt"
)

// ErrMalformedRecord matches every *MalformedRecordError via errors.Is.
var ErrMalformedRecord = errors.New("malformed record")

// MalformedRecordError reports a line that did not match its template, either
// on a literal token or on a placeholder conversion.
type MalformedRecordError struct {
	Line     string
	Template string
	// LineNo is 1-based; zero when the line was parsed outside a file scan.
	LineNo int
	Err    error
}

func (e *MalformedRecordError) Error() string {
	if e.LineNo > 0 {
		return fmt.Sprintf("malformed record at line %d: %v (template %q, line %q)", e.LineNo, e.Err, e.Template, e.Line)
	}
	return fmt.Sprintf("malformed record: %v (template %q, line %q)", e.Err, e.Template, e.Line)
}

func (e *MalformedRecordError) Unwrap() error { return e.Err }

func (e *MalformedRecordError) Is(target error) bool {
	return target == ErrMalformedRecord
}
