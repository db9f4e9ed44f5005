package analysis

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/dd0wney/simtrace/pkg/logging"
	"github.com/dd0wney/simtrace/pkg/metrics"
	"github.com/dd0wney/simtrace/pkg/record"
	"github.com/dd0wney/simtrace/pkg/source"
)

// ScanStats counts how the lines of one input were classified.
type ScanStats struct {
	Lines     int   `json:"lines"`
	Records   int   `json:"records"`
	Blank     int   `json:"blank"`
	Malformed int   `json:"malformed"`
	Bytes     int64 `json:"bytes"`
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

// Scan parses every line of path with parse and hands accepted records to
// fn. Blank lines are skipped silently. Malformed lines are logged, counted
// and skipped, or abort the scan when opts.Strict is set.
func Scan[R any](ctx context.Context, name, path string, parse record.Parser[R], opts Options, fn func(R)) (ScanStats, error) {
	var stats ScanStats
	log := opts.logger()
	reg := opts.metrics()

	rc, err := source.Open(path)
	if err != nil {
		return stats, err
	}
	defer rc.Close()

	// malformed counts a bad line and decides whether the scan goes on.
	malformed := func(lineNo int, err error, template string) error {
		stats.Malformed++
		reg.RecordLine(name, metrics.LineMalformed)
		if opts.Strict {
			return err
		}
		fields := []logging.Field{
			logging.Analysis(name),
			logging.File(path),
			logging.LineNo(lineNo),
			logging.Error(err),
		}
		if template != "" {
			fields = append(fields, logging.Template(template))
		}
		log.Warn("skipping malformed line", fields...)
		return nil
	}

	counter := &countingReader{r: rc}
	err = source.Lines(counter, func(lineNo int, line string) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		stats.Lines++

		if record.IsBlank(line) {
			stats.Blank++
			reg.RecordLine(name, metrics.LineBlank)
			return nil
		}

		rec, err := parse(line)
		if err != nil {
			var merr *record.MalformedRecordError
			if errors.As(err, &merr) {
				merr.LineNo = lineNo
				return malformed(lineNo, err, merr.Template)
			}
			return malformed(lineNo, err, "")
		}

		stats.Records++
		reg.RecordLine(name, metrics.LineRecord)
		fn(rec)
		return nil
	}, func(lerr *source.LongLineError) error {
		stats.Lines++
		return malformed(lerr.LineNo, lerr, "")
	})
	stats.Bytes = counter.n
	reg.RecordBytes(name, counter.n)

	if err != nil {
		return stats, fmt.Errorf("scan %s: %w", path, err)
	}

	log.Debug("scan complete",
		logging.Analysis(name),
		logging.File(path),
		logging.Int("lines", stats.Lines),
		logging.Int("records", stats.Records),
		logging.Int("malformed", stats.Malformed),
	)
	return stats, nil
}
