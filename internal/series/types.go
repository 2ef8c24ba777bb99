package series

import (
	"fmt"
	"math"
)

type Series []float64

func (s Series) Clone() Series {
	c := make(Series, len(s))
	copy(c, s)
	return c
}

func (s Series) Sum() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v
	}
	return sum
}

// MinMax returns the smallest and largest sample. ok is false for an empty series.
func (s Series) MinMax() (lo, hi float64, ok bool) {
	if len(s) == 0 {
		return 0, 0, false
	}
	lo, hi = s[0], s[0]
	for _, v := range s[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi, true
}

// Synthetic returns the arithmetic sequence step*0, step*1, ..., step*(n-1).
func Synthetic(step float64, n int) Series {
	if n <= 0 {
		return Series{}
	}
	s := make(Series, n)
	for i := range s {
		s[i] = step * float64(i)
	}
	return s
}

type Panel struct {
	Series string
	X      string
}

func (p Panel) Title() string {
	return fmt.Sprintf("%s vs %s", p.Series, p.X)
}

type Dataset struct {
	XAxis  string
	names  []string
	blocks map[string][]Series
}

func NewDataset(xAxis string) *Dataset {
	return &Dataset{
		XAxis:  xAxis,
		blocks: make(map[string][]Series),
	}
}

// Add appends one block to the named series, registering the name on first use.
func (d *Dataset) Add(name string, block Series) {
	if _, ok := d.blocks[name]; !ok {
		d.names = append(d.names, name)
	}
	d.blocks[name] = append(d.blocks[name], block)
}

// Replace swaps every block of the named series.
func (d *Dataset) Replace(name string, blocks []Series) {
	if _, ok := d.blocks[name]; !ok {
		d.names = append(d.names, name)
	}
	d.blocks[name] = blocks
}

func (d *Dataset) Has(name string) bool {
	_, ok := d.blocks[name]
	return ok
}

func (d *Dataset) Names() []string {
	out := make([]string, len(d.names))
	copy(out, d.names)
	return out
}

func (d *Dataset) Blocks(name string) []Series {
	return d.blocks[name]
}

// Column returns the first block of the named series, or nil.
func (d *Dataset) Column(name string) Series {
	b := d.blocks[name]
	if len(b) == 0 {
		return nil
	}
	return b[0]
}

// Len returns the length of the first block of the named series.
func (d *Dataset) Len(name string) int {
	return len(d.Column(name))
}

// DefaultPanels plots every non-x series against the x axis, in column order.
func (d *Dataset) DefaultPanels() []Panel {
	panels := make([]Panel, 0, len(d.names))
	for _, name := range d.names {
		if name == d.XAxis {
			continue
		}
		panels = append(panels, Panel{Series: name, X: d.XAxis})
	}
	return panels
}

// SelectPanels builds panels for the given names against x. An empty x means
// the dataset's x axis.
func (d *Dataset) SelectPanels(names []string, x string) ([]Panel, error) {
	if x == "" {
		x = d.XAxis
	}
	if !d.Has(x) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSeries, x)
	}
	panels := make([]Panel, 0, len(names))
	for _, name := range names {
		if !d.Has(name) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownSeries, name)
		}
		panels = append(panels, Panel{Series: name, X: x})
	}
	return panels, nil
}

func (d *Dataset) Validate() error {
	if len(d.names) == 0 {
		return ErrEmptyInput
	}
	if !d.Has(d.XAxis) {
		return fmt.Errorf("%w: x axis %q", ErrUnknownSeries, d.XAxis)
	}
	for _, name := range d.names {
		if len(d.blocks[name]) == 0 {
			return fmt.Errorf("%w: %q has no blocks", ErrEmptyInput, name)
		}
	}
	return nil
}
