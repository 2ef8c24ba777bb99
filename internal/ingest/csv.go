package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/san-kum/simplot/internal/logging"
	"github.com/san-kum/simplot/internal/series"
)

// ReadCSV parses the file at path. The first column becomes the x axis.
func ReadCSV(path string, logger *slog.Logger) (*series.Dataset, error) {
	f, err := open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	ds, err := ParseCSV(f, logger)
	if err != nil {
		var pe *series.ParseError
		if errors.As(err, &pe) {
			pe.Path = path
		}
		return nil, err
	}
	return ds, nil
}

func ParseCSV(r io.Reader, logger *slog.Logger) (*series.Dataset, error) {
	logger = logging.OrDiscard(logger)

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, series.ErrEmptyInput
	}
	if err != nil {
		return nil, csvError(err)
	}

	seen := make(map[string]bool, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, &series.ParseError{Line: 1, Wrapped: fmt.Errorf("%w: empty column name at position %d", series.ErrMalformedRow, i+1)}
		}
		if seen[name] {
			return nil, &series.ParseError{Line: 1, Column: name, Wrapped: fmt.Errorf("%w: duplicate column name", series.ErrMalformedRow)}
		}
		seen[name] = true
		header[i] = name
	}

	columns := make([]series.Series, len(header))
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, csvError(err)
		}
		line, _ := cr.FieldPos(0)

		if len(record) != len(header) {
			return nil, &series.ParseError{
				Line:    line,
				Wrapped: fmt.Errorf("%w: expected %d fields, got %d", series.ErrMalformedRow, len(header), len(record)),
			}
		}

		for i, field := range record {
			v, err := parseValue(strings.TrimSpace(field))
			if err != nil {
				return nil, &series.ParseError{Line: line, Column: header[i], Wrapped: err}
			}
			columns[i] = append(columns[i], v)
		}
	}

	ds := series.NewDataset(header[0])
	for i, name := range header {
		col := columns[i]
		if col == nil {
			col = series.Series{}
		}
		ds.Add(name, col)
	}

	logger.Debug("parsed csv", "columns", len(header), "rows", ds.Len(header[0]))
	return ds, nil
}

func csvError(err error) error {
	pe := &series.ParseError{Wrapped: fmt.Errorf("%w: %v", series.ErrMalformedRow, err)}
	var ce *csv.ParseError
	if errors.As(err, &ce) {
		pe.Line = ce.Line
		pe.Wrapped = fmt.Errorf("%w: %v", series.ErrMalformedRow, ce.Err)
	}
	return pe
}

// WriteCSV writes the first block of every series as one column. All columns
// must have the same length.
func WriteCSV(w io.Writer, ds *series.Dataset) error {
	names := ds.Names()
	if len(names) == 0 {
		return series.ErrEmptyInput
	}

	rows := ds.Len(names[0])
	for _, name := range names[1:] {
		if n := ds.Len(name); n != rows {
			return fmt.Errorf("%w: %q has %d samples, %q has %d", series.ErrLengthMismatch, names[0], rows, name, n)
		}
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(names); err != nil {
		return err
	}

	row := make([]string, len(names))
	for i := 0; i < rows; i++ {
		for j, name := range names {
			row[j] = strconv.FormatFloat(ds.Column(name)[i], 'g', -1, 64)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
