package ingest

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/san-kum/simplot/internal/logging"
	"github.com/san-kum/simplot/internal/series"
)

// Recognised data tags, in the order they appear in the dataset.
const (
	TagTime     = "time"
	TagHeight   = "h"
	TagVelocity = "v"
)

var tags = []string{TagTime, TagHeight, TagVelocity}

const stepMarker = "fixed step size"

// maxLineBytes bounds a single log line; one tagged line carries a whole run.
const maxLineBytes = 64 << 20

var (
	rangeLine   = regexp.MustCompile(`^Simulation from (\S+) to (\S+) terminated successful`)
	counterLine = regexp.MustCompile(`^(steps|time events|state events|step events)\s*\.+\s*(\S+)\s*$`)
)

type LogOptions struct {
	// DropLastToken discards the final token of every tagged line whether or
	// not it is numeric. By default only a non-numeric final token is dropped.
	DropLastToken bool
	Logger        *slog.Logger
}

// RunSummary holds the end-of-run statistics a fixed-step simulator prints.
type RunSummary struct {
	Start       float64
	End         float64
	HasRange    bool
	Steps       int
	TimeEvents  int
	StateEvents int
	StepEvents  int
}

// Log is the result of parsing a simulator log.
type Log struct {
	Dataset         *series.Dataset
	StepSize        float64
	HasStepSize     bool
	TimeRegenerated bool
	Summary         RunSummary
}

func ReadLog(path string, opts LogOptions) (*Log, error) {
	f, err := open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	l, err := ParseLog(f, opts)
	if err != nil {
		var pe *series.ParseError
		if errors.As(err, &pe) {
			pe.Path = path
		}
		return nil, err
	}
	return l, nil
}

func ParseLog(r io.Reader, opts LogOptions) (*Log, error) {
	logger := logging.OrDiscard(opts.Logger)

	out := &Log{}
	blocks := make(map[string][]series.Series, len(tags))

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimRight(sc.Text(), " \t\r\n")
		trimmed := strings.TrimLeft(line, " \t")

		if strings.HasPrefix(trimmed, stepMarker) {
			step, err := parseStep(strings.TrimPrefix(trimmed, stepMarker))
			if err != nil {
				return nil, &series.ParseError{Line: lineNo, Column: stepMarker, Wrapped: err}
			}
			out.StepSize = step
			out.HasStepSize = true
			continue
		}

		if tag, rest, ok := splitTag(trimmed); ok {
			block, err := parseBlock(rest, opts.DropLastToken)
			if err != nil {
				return nil, &series.ParseError{Line: lineNo, Column: tag, Wrapped: err}
			}
			blocks[tag] = append(blocks[tag], block)
			logger.Log(context.Background(), logging.LevelTrace, "block", "tag", tag, "line", lineNo, "samples", len(block))
			continue
		}

		parseSummaryLine(trimmed, &out.Summary)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	if out.HasStepSize {
		out.TimeRegenerated = regenerateTime(blocks, out.StepSize, logger)
	}

	ds := series.NewDataset(TagTime)
	for _, tag := range tags {
		for _, b := range blocks[tag] {
			ds.Add(tag, b)
		}
	}
	if err := ds.Validate(); err != nil {
		return nil, err
	}
	out.Dataset = ds

	logger.Debug("parsed log",
		"time_blocks", len(blocks[TagTime]),
		"h_blocks", len(blocks[TagHeight]),
		"v_blocks", len(blocks[TagVelocity]),
		"step", out.StepSize,
	)
	return out, nil
}

func splitTag(line string) (tag, rest string, ok bool) {
	for _, t := range tags {
		if r, found := strings.CutPrefix(line, t+":"); found {
			return t, r, true
		}
	}
	return "", "", false
}

func parseBlock(rest string, dropLast bool) (series.Series, error) {
	tokens := strings.Fields(rest)
	if n := len(tokens); n > 0 {
		if dropLast {
			tokens = tokens[:n-1]
		} else if _, err := strconv.ParseFloat(tokens[n-1], 64); err != nil {
			tokens = tokens[:n-1]
		}
	}

	block := make(series.Series, len(tokens))
	for i, tok := range tokens {
		v, err := parseValue(tok)
		if err != nil {
			return nil, fmt.Errorf("token %d: %w", i+1, err)
		}
		block[i] = v
	}
	return block, nil
}

// parseStep reads the value after the step marker, skipping the dot leader
// the simulator prints before it.
func parseStep(rest string) (float64, error) {
	fields := strings.Fields(rest)
	if len(fields) == 0 || strings.Trim(fields[len(fields)-1], ".") == "" {
		return 0, fmt.Errorf("%w: step size marker has no value", series.ErrMalformedRow)
	}
	return parseValue(fields[len(fields)-1])
}

// regenerateTime replaces the recorded time blocks with step*index when the
// first block disagrees with the declared step size. The synthetic block is as
// long as the first h block.
func regenerateTime(blocks map[string][]series.Series, step float64, logger *slog.Logger) bool {
	times := blocks[TagTime]
	heights := blocks[TagHeight]

	n := 0
	if len(heights) > 0 {
		n = len(heights[0])
	}

	switch {
	case len(times) == 0:
		if n == 0 {
			return false
		}
		logger.Warn("no time values recorded; generating time axis from fixed step size",
			"step", step, "samples", n)

	default:
		first := times[0]
		recorded := first.Sum()
		expected := series.Synthetic(step, len(first)).Sum()
		if approxEqual(recorded, expected) {
			return false
		}
		if n == 0 {
			n = len(first)
		}
		logger.Warn("time values inconsistent with fixed step size; regenerating time axis",
			"step", step, "recorded_sum", recorded, "expected_sum", expected, "samples", n)
	}

	blocks[TagTime] = []series.Series{series.Synthetic(step, n)}
	return true
}

func approxEqual(a, b float64) bool {
	scale := math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
	return math.Abs(a-b) <= 1e-9*scale
}

func parseSummaryLine(line string, s *RunSummary) {
	if m := rangeLine.FindStringSubmatch(line); m != nil {
		start, err1 := strconv.ParseFloat(m[1], 64)
		end, err2 := strconv.ParseFloat(m[2], 64)
		if err1 == nil && err2 == nil {
			s.Start, s.End, s.HasRange = start, end, true
		}
		return
	}

	m := counterLine.FindStringSubmatch(line)
	if m == nil {
		return
	}
	n, err := strconv.Atoi(m[2])
	if err != nil {
		return
	}
	switch m[1] {
	case "steps":
		s.Steps = n
	case "time events":
		s.TimeEvents = n
	case "state events":
		s.StateEvents = n
	case "step events":
		s.StepEvents = n
	}
}
