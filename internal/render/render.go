package render

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/san-kum/simplot/internal/logging"
	"github.com/san-kum/simplot/internal/series"
)

const (
	BackendGonum   = "gonum"
	BackendGoChart = "gochart"
)

// DPI is the raster resolution used to convert inches to pixels.
const DPI = 96

type Options struct {
	Backend string
	// Width and Height of the whole figure in inches.
	Width  float64
	Height float64
	Logger *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.Backend == "" {
		o.Backend = BackendGonum
	}
	if o.Width <= 0 {
		o.Width = 10
	}
	if o.Height <= 0 {
		o.Height = 8
	}
	o.Logger = logging.OrDiscard(o.Logger)
	return o
}

// FormatOf returns the output format implied by the path extension.
func FormatOf(path string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if ext == "" {
		return "png"
	}
	return ext
}

// Render draws panels from ds and writes the figure to path, replacing any
// existing file.
func Render(ds *series.Dataset, panels []series.Panel, path string, opts Options) error {
	var buf bytes.Buffer
	if err := Encode(&buf, ds, panels, FormatOf(path), opts); err != nil {
		return err
	}
	if err := writeFile(path, buf.Bytes()); err != nil {
		return err
	}
	logging.OrDiscard(opts.Logger).Debug("wrote figure", "path", path, "bytes", buf.Len())
	return nil
}

// Encode draws panels from ds and writes the figure in the given format to w.
func Encode(w io.Writer, ds *series.Dataset, panels []series.Panel, format string, opts Options) error {
	opts = opts.withDefaults()

	data, xr, err := resolve(ds, panels, opts.Logger)
	if err != nil {
		return err
	}

	switch opts.Backend {
	case BackendGonum:
		return encodeGonum(w, data, xr, format, opts)
	case BackendGoChart:
		return encodeGoChart(w, data, xr, format, opts)
	default:
		return fmt.Errorf("render: unknown backend %q", opts.Backend)
	}
}

type line struct {
	xs, ys series.Series
}

type panelData struct {
	panel series.Panel
	lines []line
}

type axisRange struct {
	min, max float64
	ok       bool
}

func (r *axisRange) include(s series.Series) {
	lo, hi, ok := s.MinMax()
	if !ok {
		return
	}
	if !r.ok {
		r.min, r.max, r.ok = lo, hi, true
		return
	}
	r.min = min(r.min, lo)
	r.max = max(r.max, hi)
}

// padded widens a degenerate range so backends never see a zero span.
func (r axisRange) padded() (lo, hi float64) {
	if !r.ok {
		return 0, 1
	}
	if r.min == r.max {
		return r.min - 1, r.max + 1
	}
	return r.min, r.max
}

// resolve pairs block i of every series with block i of its x series, or the
// last x block when there are fewer, truncating each pair to the shorter one.
func resolve(ds *series.Dataset, panels []series.Panel, logger *slog.Logger) ([]panelData, axisRange, error) {
	var xr axisRange
	if len(panels) == 0 {
		return nil, xr, series.ErrNoPanels
	}

	data := make([]panelData, 0, len(panels))
	for _, p := range panels {
		xb := ds.Blocks(p.X)
		if len(xb) == 0 {
			return nil, xr, fmt.Errorf("%w: %q", series.ErrUnknownSeries, p.X)
		}
		yb := ds.Blocks(p.Series)
		if len(yb) == 0 {
			return nil, xr, fmt.Errorf("%w: %q", series.ErrUnknownSeries, p.Series)
		}

		pd := panelData{panel: p, lines: make([]line, 0, len(yb))}
		for i, ys := range yb {
			xs := xb[min(i, len(xb)-1)]
			n := min(len(xs), len(ys))
			if n != len(xs) || n != len(ys) {
				logger.Debug("truncating block to common length",
					"panel", p.Title(), "block", i+1, "x_len", len(xs), "y_len", len(ys))
			}
			ln := line{xs: xs[:n], ys: ys[:n]}
			if err := checkFinite(ln); err != nil {
				return nil, xr, fmt.Errorf("%s run %d: %w", p.Title(), i+1, err)
			}
			xr.include(ln.xs)
			pd.lines = append(pd.lines, ln)
		}
		data = append(data, pd)
	}
	return data, xr, nil
}

func checkFinite(ln line) error {
	for j := range ln.xs {
		for _, v := range [2]float64{ln.xs[j], ln.ys[j]} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("%w: sample %d is %v", series.ErrNonFinite, j+1, v)
			}
		}
	}
	return nil
}

func writeFile(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
