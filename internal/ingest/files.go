package ingest

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/san-kum/simplot/internal/series"
)

type Format string

const (
	FormatCSV Format = "csv"
	FormatLog Format = "log"
)

// DetectFormat picks the parser for a path by its extension.
func DetectFormat(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return FormatCSV
	}
	return FormatLog
}

func open(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %w", series.ErrMissingFile, err)
		}
		return nil, err
	}
	return f, nil
}

// Load reads path with the parser for format. CSV input comes back as a Log
// with only the Dataset set.
func Load(path string, format Format, opts LogOptions) (*Log, error) {
	switch format {
	case FormatCSV:
		ds, err := ReadCSV(path, opts.Logger)
		if err != nil {
			return nil, err
		}
		return &Log{Dataset: ds}, nil
	case FormatLog:
		return ReadLog(path, opts)
	default:
		return nil, fmt.Errorf("unknown input format %q", format)
	}
}

// parseValue parses one numeric field. NaN and infinities are rejected so that
// every parsed dataset can be drawn.
func parseValue(tok string) (float64, error) {
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", series.ErrMalformedRow, tok)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %w: %q", series.ErrMalformedRow, series.ErrNonFinite, tok)
	}
	return v, nil
}
