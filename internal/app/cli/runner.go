package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/ijalalfrz/flight-itinerary-search/internal/pkg/catalog"
	"github.com/ijalalfrz/flight-itinerary-search/internal/pkg/exception"
	"github.com/ijalalfrz/flight-itinerary-search/internal/pkg/itinerary"
	"github.com/spf13/pflag"
)

const usage = `Program searches for connections between flights with time for transfer (1-4 hours).
It accepts flight records in format:
source airport,destination airport,departure,arrival,flight number
Departure and arrival datetimes are in ISO 8601 format YYYY-MM-DDTHH:MM:SS
Example of flight record:
USM,HKT,2016-10-11T10:10:00,2016-10-11T11:10:00,PV511

Input is taken from stdin.
Program outputs itineraries of 2 or more connecting flights on stdout.
Each itinerary is on a new line, individual flights in an itinerary are terminated by ';'.
`

var ErrInvalidArgument = exception.ApplicationError{
	Message:    "wrong script arguments",
	StatusCode: http.StatusBadRequest,
	ExitCode:   1,
}

// Report aggregates everything that went wrong during one run.
type Report struct {
	Help          bool
	ArgumentError error
	Diagnostics   []catalog.Diagnostic
	ReadError     error
	Itineraries   int
}

// ExitCode returns the code of the last error kind encountered, 0 if none.
func (r Report) ExitCode() int {
	switch {
	case r.Help:
		return 0
	case r.ReadError != nil:
		return exception.ExitStatus(r.ReadError, catalog.ErrInputUnreadable.ExitCode)
	case len(r.Diagnostics) > 0:
		return r.Diagnostics[len(r.Diagnostics)-1].ExitCode()
	case r.ArgumentError != nil:
		return exception.ExitStatus(r.ArgumentError, ErrInvalidArgument.ExitCode)
	}

	return 0
}

// Runner reads flight records from Stdin and writes itineraries to Stdout.
// Diagnostics go to Stderr.
type Runner struct {
	Name   string
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Run executes one search. Bad arguments and bad records are reported and
// skipped, they never stop the run.
func (r *Runner) Run(ctx context.Context, args []string) Report {
	var report Report

	help, err := r.parseArgs(args)
	if err == nil && help {
		fmt.Fprint(r.Stdout, usage)
		report.Help = true

		return report
	}

	if err != nil {
		report.ArgumentError = err
		r.printDiagnostic(err, 0)
	}

	result, err := catalog.Build(ctx, r.Stdin)
	report.Diagnostics = result.Diagnostics

	for _, d := range result.Diagnostics {
		r.printDiagnostic(d.Err, d.Line)
	}

	if err != nil {
		report.ReadError = err
		r.printDiagnostic(err, 0)
	}

	out := bufio.NewWriter(r.Stdout)
	for it := range itinerary.NewEngine(result.Catalog).Search() {
		if err := itinerary.Format(out, it); err != nil {
			slog.ErrorContext(ctx, "failed to write itinerary", slog.String("error", err.Error()))
			break
		}

		report.Itineraries++
	}

	if err := out.Flush(); err != nil {
		slog.ErrorContext(ctx, "failed to flush output", slog.String("error", err.Error()))
	}

	slog.DebugContext(ctx, "search finished",
		slog.Int("flights", result.Catalog.Len()),
		slog.Int("itineraries", report.Itineraries),
		slog.Int("exit_code", report.ExitCode()))

	return report
}

func (r *Runner) parseArgs(args []string) (bool, error) {
	fs := pflag.NewFlagSet(r.Name, pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}
	// flags after the first positional argument are arguments, not flags
	fs.SetInterspersed(false)

	help := fs.BoolP("help", "h", false, "print usage and exit")

	if err := fs.Parse(args); err != nil {
		return false, ErrInvalidArgument.Wrap(err)
	}

	if *help {
		return true, nil
	}

	if fs.NArg() > 0 {
		return false, ErrInvalidArgument.Wrap(fmt.Errorf("unexpected argument %q", fs.Arg(0)))
	}

	return false, nil
}

func (r *Runner) printDiagnostic(err error, line int) {
	var msg string

	switch {
	case errors.Is(err, ErrInvalidArgument):
		msg = "Error: Wrong script arguments. -h or --help are only ones accepted."
	case errors.Is(err, catalog.ErrMalformedRecord):
		msg = fmt.Sprintf("Error: Not enough or too many columns on line %d. Line ignored.", line)
	case errors.Is(err, catalog.ErrInvalidTimestamp):
		msg = fmt.Sprintf("Error: DateTime format of arrival or departure is wrong on line %d. Line ignored.", line)
	default:
		msg = fmt.Sprintf("Error: Input cannot be read: %s.", err)
	}

	fmt.Fprintln(r.Stderr, msg)
}
