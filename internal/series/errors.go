package series

import (
	"errors"
	"fmt"
)

// Domain errors for parsing and rendering.
var (
	// ErrMissingFile indicates the input path does not exist.
	ErrMissingFile = errors.New("simplot: input file does not exist")

	// ErrMalformedRow indicates a row or field that cannot be parsed.
	ErrMalformedRow = errors.New("simplot: malformed row")

	// ErrNonFinite indicates a NaN or infinite sample.
	ErrNonFinite = errors.New("simplot: non-finite value")

	// ErrEmptyInput indicates an input without a header or any data.
	ErrEmptyInput = errors.New("simplot: empty input")

	// ErrUnknownSeries indicates a reference to a series the dataset lacks.
	ErrUnknownSeries = errors.New("simplot: unknown series")

	// ErrNoPanels indicates a render request with nothing to plot.
	ErrNoPanels = errors.New("simplot: no panels to plot")

	// ErrLengthMismatch indicates columns of different lengths where equal
	// lengths are required.
	ErrLengthMismatch = errors.New("simplot: series length mismatch")

	// ErrUnsupportedFormat indicates an output format the backend cannot write.
	ErrUnsupportedFormat = errors.New("simplot: unsupported output format")
)

// ParseError wraps an error with its position in the input.
type ParseError struct {
	Path    string
	Line    int
	Column  string
	Wrapped error
}

func (e *ParseError) Error() string {
	loc := e.Path
	if loc == "" {
		loc = "<input>"
	}
	if e.Line > 0 {
		loc = fmt.Sprintf("%s:%d", loc, e.Line)
	}
	if e.Column != "" {
		return fmt.Sprintf("%s: column %q: %v", loc, e.Column, e.Wrapped)
	}
	return fmt.Sprintf("%s: %v", loc, e.Wrapped)
}

func (e *ParseError) Unwrap() error {
	return e.Wrapped
}
