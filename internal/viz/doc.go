// Package viz provides terminal output for simplot: a styled report of what was
// parsed and written, and an optional ASCII preview of the panels.
//
//   - [Report]: lipgloss-styled summary of a parsed input
//   - [Preview]: one asciigraph plot per panel, all blocks overlaid
//
// Both write to an io.Writer and never read input; they are safe to call on
// any dataset the renderer accepts.
package viz
