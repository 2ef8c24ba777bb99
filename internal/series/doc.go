// Package series provides the in-memory data model shared by the parsers and
// the renderer.
//
// A [Dataset] holds named numeric series in column order. Every name maps to
// one or more blocks: a CSV column is a single block, while a simulator log may
// repeat a tag once per run, giving several independent blocks for the same
// name. One series is designated as the x axis.
//
//   - [Series]: ordered float64 samples
//   - [Dataset]: named blocks plus the x-axis name
//   - [Panel]: one subplot, a series plotted against an x series
//
// A Dataset is built once per invocation and is not mutated after it has been
// handed to the renderer.
package series
