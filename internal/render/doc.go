// Package render draws a [series.Dataset] as a figure of vertically stacked
// line plots and writes it to an image file.
//
// Every [series.Panel] becomes one subplot titled "<series> vs <x>" with the
// series name on the y axis and grid lines. All subplots share the x range and
// only the bottom one carries the x-axis label. A series with several blocks
// (independent runs) is drawn as several overlaid lines with a legend.
//
// Two backends are available:
//
//   - "gonum": gonum.org/v1/plot, writes png, jpg, tif, svg, pdf and eps
//   - "gochart": github.com/wcharczuk/go-chart/v2, writes png
//
// The figure is encoded in memory before anything touches the filesystem, and
// the output file is replaced atomically, so a failed render never leaves a
// partial image behind.
package render
