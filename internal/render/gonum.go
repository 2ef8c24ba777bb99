package render

import (
	"fmt"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/san-kum/simplot/internal/series"
)

func encodeGonum(w io.Writer, data []panelData, xr axisRange, format string, opts Options) error {
	c, err := draw.NewFormattedCanvas(vg.Length(opts.Width)*vg.Inch, vg.Length(opts.Height)*vg.Inch, format)
	if err != nil {
		return fmt.Errorf("%w: %q", series.ErrUnsupportedFormat, format)
	}

	plots := make([][]*plot.Plot, len(data))
	for i, pd := range data {
		p, err := gonumPanel(pd, i == len(data)-1)
		if err != nil {
			return fmt.Errorf("render %s: %w", pd.panel.Title(), err)
		}
		if xr.ok {
			p.X.Min, p.X.Max = xr.padded()
		}
		plots[i] = []*plot.Plot{p}
	}

	tiles := draw.Tiles{
		Rows:      len(plots),
		Cols:      1,
		PadTop:    vg.Points(6),
		PadBottom: vg.Points(6),
		PadLeft:   vg.Points(6),
		PadRight:  vg.Points(12),
		PadY:      vg.Points(10),
	}
	canvases := plot.Align(plots, tiles, draw.New(c))
	for i := range plots {
		plots[i][0].Draw(canvases[i][0])
	}

	_, err = c.WriteTo(w)
	return err
}

func gonumPanel(pd panelData, last bool) (*plot.Plot, error) {
	layers, err := gonumLayers(pd)
	if err != nil {
		return nil, err
	}

	p := plot.New()
	p.Title.Text = pd.panel.Title()
	p.Y.Label.Text = pd.panel.Series
	if last {
		p.X.Label.Text = pd.panel.X
	}
	p.Add(layers...)

	if len(pd.lines) > 1 {
		for i, l := range layers[1:] {
			p.Legend.Add(fmt.Sprintf("run %d", i+1), l.(*plotter.Line))
		}
	}
	p.Legend.Top = true
	return p, nil
}

// gonumLayers returns the grid followed by one line per block.
func gonumLayers(pd panelData) ([]plot.Plotter, error) {
	layers := make([]plot.Plotter, 0, len(pd.lines)+1)
	layers = append(layers, plotter.NewGrid())

	for i, ln := range pd.lines {
		pts := make(plotter.XYs, len(ln.xs))
		for j := range pts {
			pts[j].X = ln.xs[j]
			pts[j].Y = ln.ys[j]
		}

		l, err := plotter.NewLine(pts)
		if err != nil {
			return nil, err
		}
		l.Color = plotutil.Color(i)
		l.Width = vg.Points(1.2)
		layers = append(layers, l)
	}
	return layers, nil
}
