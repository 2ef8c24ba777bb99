package viz

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/simplot/internal/ingest"
)

const sparkWidth = 24

// Report prints what was parsed from input and, when output is non-empty,
// where the figure went.
func Report(w io.Writer, input, output string, l *ingest.Log) {
	var rows []string
	row := func(label, value string) {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, MetricLabel.Render(label), MetricValue.Render(value)))
	}

	row("input", input)
	if output != "" {
		row("output", output)
	}
	row("x axis", l.Dataset.XAxis)
	rows = append(rows, HeaderStyle.Render("series"))

	for _, name := range l.Dataset.Names() {
		blocks := l.Dataset.Blocks(name)
		lengths := make([]string, len(blocks))
		for i, b := range blocks {
			lengths[i] = strconv.Itoa(len(b))
		}
		desc := fmt.Sprintf("%d block(s), samples %s", len(blocks), strings.Join(lengths, "/"))
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top,
			MetricLabel.Render(name),
			Subtle.Render(desc),
			"  ",
			Sparkline(l.Dataset.Column(name), sparkWidth),
		))
	}

	if l.HasStepSize {
		row("fixed step", strconv.FormatFloat(l.StepSize, 'g', -1, 64))
	}

	if s := l.Summary; s.HasRange {
		row("simulated", fmt.Sprintf("%g → %g", s.Start, s.End))
		row("steps", strconv.Itoa(s.Steps))
		row("events", fmt.Sprintf("time %d, state %d, step %d", s.TimeEvents, s.StateEvents, s.StepEvents))
	}

	fmt.Fprintln(w, TitleStyle.Render("simplot"))
	fmt.Fprintln(w, Panel.Render(strings.Join(rows, "\n")))

	if l.TimeRegenerated {
		fmt.Fprintln(w, WarningStyle.Render("! time axis regenerated from the fixed step size: recorded time values were inconsistent"))
	}
	if output != "" {
		fmt.Fprintln(w, SuccessStyle.Render("✓ figure written"))
	}
}
