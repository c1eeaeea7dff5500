package catalog

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/ijalalfrz/flight-itinerary-search/internal/pkg/exception"
	"github.com/jszwec/csvutil"
)

// maxLineSize bounds one input line. Longer lines fail the read.
const maxLineSize = 1 << 20

// Diagnostic describes one rejected input record.
type Diagnostic struct {
	Line int
	Err  error
}

// ExitCode returns the process exit code associated with the rejection.
func (d Diagnostic) ExitCode() int {
	return exception.ExitStatus(d.Err, 0)
}

// Result is the outcome of one ingestion run.
type Result struct {
	Catalog     *Catalog
	Diagnostics []Diagnostic
}

// ExitCode reflects the last rejection only, 0 when every record was accepted.
func (r Result) ExitCode() int {
	if len(r.Diagnostics) == 0 {
		return 0
	}

	return r.Diagnostics[len(r.Diagnostics)-1].ExitCode()
}

type recordReader interface {
	csvutil.Reader
	Line() int
	Last() []string
}

// lineReader splits each physical input line on commas. Quotes carry no
// meaning, so a malformed line never spills into the next one.
type lineReader struct {
	scanner *bufio.Scanner
	line    int
	last    []string
}

func newLineReader(r io.Reader) *lineReader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	return &lineReader{scanner: scanner}
}

func (l *lineReader) Read() ([]string, error) {
	if !l.scanner.Scan() {
		l.last = nil
		if err := l.scanner.Err(); err != nil {
			return nil, err
		}

		return nil, io.EOF
	}

	l.line++
	l.last = strings.Split(l.scanner.Text(), ",")

	return l.last, nil
}

func (l *lineReader) Line() int { return l.line }

func (l *lineReader) Last() []string { return l.last }

type sliceReader struct {
	records [][]string
	pos     int
}

func (s *sliceReader) Read() ([]string, error) {
	if s.pos >= len(s.records) {
		return nil, io.EOF
	}

	record := s.records[s.pos]
	s.pos++

	return record, nil
}

func (s *sliceReader) Line() int { return s.pos }

func (s *sliceReader) Last() []string {
	if s.pos == 0 || s.pos > len(s.records) {
		return nil
	}

	return s.records[s.pos-1]
}

// Build reads comma separated flight records from r. Rejected records are
// reported as diagnostics and do not stop ingestion. The returned error is
// only set when r itself fails; the result then holds what was accepted.
func Build(ctx context.Context, r io.Reader) (Result, error) {
	return build(ctx, newLineReader(r))
}

// BuildRecords builds a catalog from records already split into fields.
// Line numbers in diagnostics are 1-based record positions.
func BuildRecords(ctx context.Context, records [][]string) Result {
	result, err := build(ctx, &sliceReader{records: records})
	if err != nil {
		slog.WarnContext(ctx, "unexpected error building catalog from records", slog.String("error", err.Error()))
	}

	return result
}

func build(ctx context.Context, r recordReader) (Result, error) {
	var (
		flights     []Flight
		diagnostics []Diagnostic
	)

	result := func() Result {
		return Result{Catalog: New(flights...), Diagnostics: diagnostics}
	}

	dec, err := csvutil.NewDecoder(r, Header...)
	if err != nil {
		return result(), ErrInputUnreadable.Wrap(err)
	}

	for {
		var flight Flight

		err := dec.Decode(&flight)
		if errors.Is(err, io.EOF) {
			break
		}

		if slices.Equal(r.Last(), Header) {
			continue
		}

		if err == nil && missingTimestamp(r.Last()) {
			err = errTimestamp
		}

		if err != nil {
			rejection, ok := classify(err)
			if !ok {
				slog.DebugContext(ctx, "failed to read flight records", slog.String("error", err.Error()))
				return result(), ErrInputUnreadable.Wrap(err)
			}

			slog.DebugContext(ctx, "flight record rejected",
				slog.Int("line", r.Line()),
				slog.String("error", rejection.Error()))

			diagnostics = append(diagnostics, Diagnostic{Line: r.Line(), Err: rejection})
			continue
		}

		flight.FlightNumber = strings.TrimSpace(flight.FlightNumber)
		flights = append(flights, flight)
	}

	slog.DebugContext(ctx, "catalog built",
		slog.Int("accepted", len(flights)),
		slog.Int("rejected", len(diagnostics)))

	return result(), nil
}

// missingTimestamp reports an empty departure or arrival field, which the
// decoder leaves as the zero time instead of rejecting.
func missingTimestamp(record []string) bool {
	return len(record) == len(Header) && (record[2] == "" || record[3] == "")
}

// classify maps a decoding error to its rejection kind. ok is false for
// errors that are not about a single record.
func classify(err error) (error, bool) {
	var decodeErr *csvutil.DecodeError

	switch {
	case errors.Is(err, csvutil.ErrFieldCount):
		return ErrMalformedRecord.Wrap(err), true
	case errors.Is(err, errTimestamp), errors.As(err, &decodeErr):
		return ErrInvalidTimestamp.Wrap(err), true
	}

	return fmt.Errorf("decode flight record: %w", err), false
}
