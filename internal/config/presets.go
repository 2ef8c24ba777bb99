package config

import "sort"

// Presets holds figure sizes per input format. A log carries two panels (h and
// v), so its presets are shorter than the csv ones.
var Presets = map[string]map[string]*Config{
	"csv": {
		"default": {Width: 10, Height: 8},
		"wide":    {Width: 14, Height: 6},
		"tall":    {Width: 8, Height: 12},
		"compact": {Width: 6, Height: 5},
	},
	"log": {
		"default": {Width: 10, Height: 6},
		"wide":    {Width: 14, Height: 5},
		"compact": {Width: 6, Height: 4},
		"raster":  {Width: 10, Height: 6, Backend: "gochart"},
	},
}

func GetPreset(format, preset string) *Config {
	formatPresets, ok := Presets[format]
	if !ok {
		return nil
	}
	cfg, ok := formatPresets[preset]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets(format string) []string {
	formatPresets, ok := Presets[format]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(formatPresets))
	for name := range formatPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
