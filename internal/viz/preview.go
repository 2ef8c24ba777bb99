package viz

import (
	"fmt"
	"io"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/simplot/internal/series"
)

const (
	previewHeight = 10
	previewWidth  = 80
)

// Preview prints one ASCII chart per panel. Blocks of the same series are
// overlaid in distinct colors.
func Preview(w io.Writer, ds *series.Dataset, panels []series.Panel) error {
	colors := []asciigraph.AnsiColor{
		asciigraph.Blue, asciigraph.Red, asciigraph.Green, asciigraph.Yellow, asciigraph.Magenta,
	}

	for _, p := range panels {
		blocks := ds.Blocks(p.Series)
		if len(blocks) == 0 {
			return fmt.Errorf("%w: %q", series.ErrUnknownSeries, p.Series)
		}

		data := make([][]float64, 0, len(blocks))
		for _, b := range blocks {
			if len(b) > 0 {
				data = append(data, b)
			}
		}
		if len(data) == 0 {
			fmt.Fprintf(w, "%s: no samples\n\n", p.Title())
			continue
		}

		seriesColors := make([]asciigraph.AnsiColor, len(data))
		for i := range seriesColors {
			seriesColors[i] = colors[i%len(colors)]
		}

		graph := asciigraph.PlotMany(data,
			asciigraph.Height(previewHeight),
			asciigraph.Width(previewWidth),
			asciigraph.Caption(p.Title()),
			asciigraph.SeriesColors(seriesColors...),
		)
		fmt.Fprintln(w, graph)
		fmt.Fprintln(w)
	}
	return nil
}
