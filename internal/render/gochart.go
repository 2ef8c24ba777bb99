package render

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	xdraw "golang.org/x/image/draw"

	"github.com/san-kum/simplot/internal/series"
)

var gridStyle = chart.Style{
	StrokeColor: drawing.ColorFromHex("d8d8d8"),
	StrokeWidth: 1.0,
}

// encodeGoChart renders each panel as its own chart and stacks the results
// into one PNG.
func encodeGoChart(w io.Writer, data []panelData, xr axisRange, format string, opts Options) error {
	if format != "png" {
		return fmt.Errorf("%w: %q (gochart writes png only)", series.ErrUnsupportedFormat, format)
	}

	width := int(opts.Width*DPI + 0.5)
	panelHeight := int(opts.Height*DPI+0.5) / len(data)

	fig := image.NewRGBA(image.Rect(0, 0, width, panelHeight*len(data)))
	xdraw.Draw(fig, fig.Bounds(), image.White, image.Point{}, xdraw.Src)

	xMin, xMax := xr.padded()
	for i, pd := range data {
		graph := goChartPanel(pd, i == len(data)-1, width, panelHeight, xMin, xMax)

		var buf bytes.Buffer
		if err := graph.Render(chart.PNG, &buf); err != nil {
			return fmt.Errorf("render %s: %w", pd.panel.Title(), err)
		}
		img, err := png.Decode(&buf)
		if err != nil {
			return fmt.Errorf("render %s: %w", pd.panel.Title(), err)
		}

		dst := image.Rect(0, i*panelHeight, width, (i+1)*panelHeight)
		xdraw.Draw(fig, dst, img, img.Bounds().Min, xdraw.Over)
	}

	return png.Encode(w, fig)
}

// goChartPanel builds the chart for one panel. Ranges are always explicit so a
// panel whose blocks have no samples still draws as an empty grid.
func goChartPanel(pd panelData, last bool, width, height int, xMin, xMax float64) *chart.Chart {
	var yr axisRange
	seriesList := make([]chart.Series, 0, len(pd.lines))
	for i, ln := range pd.lines {
		yr.include(ln.ys)

		name := pd.panel.Series
		if len(pd.lines) > 1 {
			name = fmt.Sprintf("run %d", i+1)
		}
		seriesList = append(seriesList, chart.ContinuousSeries{
			Name:    name,
			XValues: ln.xs,
			YValues: ln.ys,
			Style: chart.Style{
				StrokeColor: chart.GetDefaultColor(i),
				StrokeWidth: 1.5,
			},
		})
	}

	yMin, yMax := yr.padded()
	graph := &chart.Chart{
		Title:  pd.panel.Title(),
		Width:  width,
		Height: height,
		Background: chart.Style{
			Padding: chart.Box{Top: 36, Left: 16, Right: 24, Bottom: 8},
		},
		XAxis: chart.XAxis{
			Range:          &chart.ContinuousRange{Min: xMin, Max: xMax},
			GridMajorStyle: gridStyle,
		},
		YAxis: chart.YAxis{
			Name:           pd.panel.Series,
			Range:          &chart.ContinuousRange{Min: yMin, Max: yMax},
			GridMajorStyle: gridStyle,
		},
		Series: seriesList,
	}
	if last {
		graph.XAxis.Name = pd.panel.X
	}
	if len(seriesList) > 1 {
		graph.Elements = []chart.Renderable{chart.Legend(graph)}
	}
	return graph
}
