package viz

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/san-kum/simplot/internal/ingest"
	"github.com/san-kum/simplot/internal/series"
)

func testLog(t *testing.T) *ingest.Log {
	t.Helper()
	input := strings.Join([]string{
		"  fixed step size 0.5",
		"time: 0 1 2 end",
		"h: 10 9 8 end",
		"v: 0 -1 -2 end",
		"h: 11 10 9 end",
		"Simulation from 0 to 1 terminated successful",
		"  steps ............ 2",
	}, "\n")
	l, err := ingest.ParseLog(strings.NewReader(input), ingest.LogOptions{})
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	return l
}

func TestReport(t *testing.T) {
	var buf bytes.Buffer
	Report(&buf, "run.log", "out.png", testLog(t))

	out := buf.String()
	for _, want := range []string{"run.log", "out.png", "fixed step", "0.5", "2 block(s)", "regenerated", "steps", "figure written"} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
}

func TestReport_NoOutput(t *testing.T) {
	ds, err := ingest.ParseCSV(strings.NewReader("t,h\n0,1\n1,2\n"), nil)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	Report(&buf, "out.csv", "", &ingest.Log{Dataset: ds})

	out := buf.String()
	if strings.Contains(out, "figure written") || strings.Contains(out, "fixed step") {
		t.Errorf("unexpected content for csv info report:\n%s", out)
	}
	if !strings.Contains(out, "out.csv") {
		t.Errorf("report missing input path:\n%s", out)
	}
}

func TestPreview(t *testing.T) {
	l := testLog(t)

	var buf bytes.Buffer
	if err := Preview(&buf, l.Dataset, l.Dataset.DefaultPanels()); err != nil {
		t.Fatalf("preview failed: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "h vs time") || !strings.Contains(out, "v vs time") {
		t.Errorf("expected captions for both panels:\n%s", out)
	}
}

func TestPreview_UnknownSeries(t *testing.T) {
	l := testLog(t)
	err := Preview(&bytes.Buffer{}, l.Dataset, []series.Panel{{Series: "x", X: "time"}})
	if !errors.Is(err, series.ErrUnknownSeries) {
		t.Errorf("expected ErrUnknownSeries, got %v", err)
	}
}

func TestSparkline(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		width  int
		runes  int
	}{
		{"empty", nil, 5, 5},
		{"zero width", []float64{1, 2}, 0, 0},
		{"short", []float64{1, 2, 3}, 10, 3},
		{"downsampled", make([]float64, 100), 10, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := stripANSI(Sparkline(tt.values, tt.width))
			if n := len([]rune(got)); n != tt.runes {
				t.Errorf("expected %d runes, got %d (%q)", tt.runes, n, got)
			}
		})
	}
}

func stripANSI(s string) string {
	var sb strings.Builder
	inEsc := false
	for _, r := range s {
		switch {
		case r == '\x1b':
			inEsc = true
		case inEsc && r == 'm':
			inEsc = false
		case !inEsc:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
