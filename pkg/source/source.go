package source

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/gzip"
)

// MaxLineSize bounds a single input line. Simulation logs are short-lined;
// anything longer is reported as a LongLineError and skipped.
const MaxLineSize = 1 << 20

// longLinePrefix is how much of an oversized line a LongLineError keeps.
const longLinePrefix = 80

// ErrLineTooLong matches every *LongLineError via errors.Is.
var ErrLineTooLong = errors.New("line too long")

// LongLineError reports a line over MaxLineSize bytes.
type LongLineError struct {
	LineNo int
	Size   int
	// Prefix is the start of the line, for diagnostics.
	Prefix string
}

func (e *LongLineError) Error() string {
	return fmt.Sprintf("line %d is %d bytes, over the %d byte limit (starts %q)", e.LineNo, e.Size, MaxLineSize, e.Prefix)
}

func (e *LongLineError) Is(target error) bool { return target == ErrLineTooLong }

// Open opens an input file, decompressing by extension: ".gz" (gzip) and
// ".sz" (snappy framed stream). Anything else is read as plain text.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz":
		zr, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("open gzip input %s: %w", path, err)
		}
		return &stackedReader{Reader: zr, closers: []io.Closer{zr, f}}, nil
	case ".sz":
		return &stackedReader{Reader: snappy.NewReader(f), closers: []io.Closer{f}}, nil
	default:
		return f, nil
	}
}

// stackedReader closes a decompressor and the file beneath it.
type stackedReader struct {
	io.Reader
	closers []io.Closer
}

func (s *stackedReader) Close() error {
	var errs []error
	for _, c := range s.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Lines calls fn for every line of r with its 1-based number. Line
// terminators (including a trailing "\r") are stripped. A line over
// MaxLineSize is not passed to fn; it goes to onLong and the scan moves on to
// the next line. With a nil onLong the *LongLineError is returned instead.
// Iteration stops at the first error returned by fn or onLong, which is
// passed through unchanged.
func Lines(r io.Reader, fn func(lineNo int, line string) error, onLong func(*LongLineError) error) error {
	br := bufio.NewReaderSize(r, 64*1024)

	for lineNo := 1; ; lineNo++ {
		line, size, readErr := readLine(br)
		if readErr != nil && readErr != io.EOF {
			return fmt.Errorf("read line %d: %w", lineNo, readErr)
		}
		if readErr == io.EOF && size == 0 {
			return nil
		}

		var err error
		if size > MaxLineSize {
			lerr := &LongLineError{LineNo: lineNo, Size: size, Prefix: string(line[:min(len(line), longLinePrefix)])}
			if onLong == nil {
				return lerr
			}
			err = onLong(lerr)
		} else {
			err = fn(lineNo, strings.TrimSuffix(string(line), "\r"))
		}
		if err != nil {
			return err
		}
		if readErr == io.EOF {
			return nil
		}
	}
}

// readLine returns the next line without its "\n" and the line's full size.
// Only the first MaxLineSize bytes are kept; the rest is read and dropped.
func readLine(br *bufio.Reader) (line []byte, size int, err error) {
	for {
		frag, rerr := br.ReadSlice('\n')
		if rerr == nil {
			frag = frag[:len(frag)-1]
		}
		size += len(frag)
		if room := MaxLineSize - len(line); room > 0 {
			line = append(line, frag[:min(len(frag), room)]...)
		}
		if rerr != bufio.ErrBufferFull {
			return line, size, rerr
		}
	}
}

// ForEachLine opens path and runs Lines over it.
func ForEachLine(path string, fn func(lineNo int, line string) error, onLong func(*LongLineError) error) error {
	rc, err := Open(path)
	if err != nil {
		return err
	}
	defer rc.Close()
	return Lines(rc, fn, onLong)
}
