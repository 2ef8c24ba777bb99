package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/simplot/internal/config"
	"github.com/san-kum/simplot/internal/ingest"
	"github.com/san-kum/simplot/internal/logging"
	"github.com/san-kum/simplot/internal/render"
	"github.com/san-kum/simplot/internal/series"
	"github.com/san-kum/simplot/internal/viz"
)

var (
	configFile string
	logLevel   string

	output        string
	backend       string
	width         float64
	height        float64
	preset        string
	seriesNames   []string
	xAxis         string
	preview       bool
	dropLastToken bool
)

// main registers the simplot commands and exits with status 1 when a command fails.
func main() {
	rootCmd := &cobra.Command{
		Use:           "simplot",
		Short:         "plot simulation output as stacked line charts",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", config.DefaultLogLevel, "log level (warn, info, debug, trace)")

	csvCmd := &cobra.Command{
		Use:   "csv [file]",
		Short: "plot a csv file, first column on the x axis",
		Args:  cobra.MaximumNArgs(1),
		RunE:  plotFormat(ingest.FormatCSV),
	}

	logCmd := &cobra.Command{
		Use:   "log [file]",
		Short: "plot the time/h/v blocks of a simulator log",
		Args:  cobra.MaximumNArgs(1),
		RunE:  plotFormat(ingest.FormatLog),
	}

	plotCmd := &cobra.Command{
		Use:   "plot [file]",
		Short: "plot a file, choosing the parser by extension",
		Args:  cobra.MaximumNArgs(1),
		RunE:  plotFormat(""),
	}

	for _, cmd := range []*cobra.Command{csvCmd, logCmd, plotCmd} {
		cmd.Flags().StringVarP(&output, "out", "o", "", "output image (default: out.png next to the input)")
		cmd.Flags().StringVar(&backend, "backend", config.DefaultBackend, "renderer (gonum, gochart)")
		cmd.Flags().Float64Var(&width, "width", config.DefaultWidth, "figure width in inches")
		cmd.Flags().Float64Var(&height, "height", config.DefaultHeight, "figure height in inches")
		cmd.Flags().StringVar(&preset, "preset", "", "use a figure preset")
		cmd.Flags().StringSliceVar(&seriesNames, "series", nil, "series to plot, in order (default: all but x)")
		cmd.Flags().StringVar(&xAxis, "x", "", "x-axis series (default: first csv column or time)")
		cmd.Flags().BoolVar(&preview, "preview", false, "also print ascii charts to the terminal")
		cmd.Flags().BoolVar(&dropLastToken, "drop-last-token", false, "always drop the last token of log data lines")
	}

	infoCmd := &cobra.Command{
		Use:   "info [file]",
		Short: "parse a file and describe its series without plotting",
		Args:  cobra.MaximumNArgs(1),
		RunE:  showInfo,
	}
	infoCmd.Flags().BoolVar(&dropLastToken, "drop-last-token", false, "always drop the last token of log data lines")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [file]",
		Short: "parse a file and write its series as csv to stdout",
		Args:  cobra.MaximumNArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().BoolVar(&dropLastToken, "drop-last-token", false, "always drop the last token of log data lines")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list figure presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	rootCmd.AddCommand(csvCmd, logCmd, plotCmd, infoCmd, exportCSVCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// loadConfig merges defaults, the config file, a preset and explicitly set
// flags, in that order of precedence, and settles the input file and format.
func loadConfig(cmd *cobra.Command, args []string, forced ingest.Format) (*config.Config, ingest.Format, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, "", fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}
	if err := resolveInput(args, cfg); err != nil {
		return nil, "", err
	}

	format := forced
	switch {
	case format != "":
	case cfg.Format != "":
		format = ingest.Format(cfg.Format)
	default:
		format = ingest.DetectFormat(cfg.Input)
	}

	flags := cmd.Flags()

	p := cfg.Preset
	if flags.Changed("preset") {
		p = preset
	}
	if p != "" {
		pc := config.GetPreset(string(format), p)
		if pc == nil {
			return nil, "", fmt.Errorf("unknown preset %q for %s input (available: %s)",
				p, format, strings.Join(config.ListPresets(string(format)), ", "))
		}
		cfg.ApplyPreset(pc)
	}

	if flags.Changed("out") {
		cfg.Output = output
	}
	if flags.Changed("backend") {
		cfg.Backend = backend
	}
	if flags.Changed("width") {
		cfg.Width = width
	}
	if flags.Changed("height") {
		cfg.Height = height
	}
	if flags.Changed("series") {
		cfg.Series = seriesNames
	}
	if flags.Changed("x") {
		cfg.XAxis = xAxis
	}
	if flags.Changed("preview") {
		cfg.Preview = preview
	}
	if flags.Changed("drop-last-token") {
		cfg.DropLastToken = dropLastToken
	}
	if flags.Changed("log-level") || cfg.LogLevel == "" {
		cfg.LogLevel = logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}
	return cfg, format, nil
}

// resolveInput takes the input file from the command line, falling back to
// the config file's input.
func resolveInput(args []string, cfg *config.Config) error {
	if len(args) > 0 {
		cfg.Input = args[0]
	}
	if cfg.Input == "" {
		return errors.New("no input file: pass one or set input in the config file")
	}
	return nil
}

func plotFormat(forced ingest.Format) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, format, err := loadConfig(cmd, args, forced)
		if err != nil {
			return err
		}
		input := cfg.Input

		logger := logging.NewLogger(cfg.LogLevel, os.Stderr)
		parsed, err := ingest.Load(input, format, ingest.LogOptions{
			DropLastToken: cfg.DropLastToken,
			Logger:        logger,
		})
		if err != nil {
			return err
		}

		panels, err := selectPanels(parsed.Dataset, cfg)
		if err != nil {
			return err
		}

		out := cfg.OutputPath(input)
		opts := render.Options{
			Backend: cfg.Backend,
			Width:   cfg.Width,
			Height:  cfg.Height,
			Logger:  logger,
		}
		if err := render.Render(parsed.Dataset, panels, out, opts); err != nil {
			return err
		}
		logger.Info("figure written", "path", out, "panels", len(panels), "backend", cfg.Backend)

		viz.Report(os.Stdout, input, out, parsed)
		if cfg.Preview {
			return viz.Preview(os.Stdout, parsed.Dataset, panels)
		}
		return nil
	}
}

// selectPanels picks the configured series against the configured x axis.
// Without a series list every series except x is plotted.
func selectPanels(ds *series.Dataset, cfg *config.Config) ([]series.Panel, error) {
	if len(cfg.Series) > 0 {
		return ds.SelectPanels(cfg.Series, cfg.XAxis)
	}
	if cfg.XAxis == "" || cfg.XAxis == ds.XAxis {
		return ds.DefaultPanels(), nil
	}
	return ds.SelectPanels(nonX(ds.Names(), cfg.XAxis), cfg.XAxis)
}

func nonX(names []string, x string) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		if name != x {
			out = append(out, name)
		}
	}
	return out
}

func parseOnly(cmd *cobra.Command, args []string) (*config.Config, *ingest.Log, *slog.Logger, error) {
	cfg, format, err := loadConfig(cmd, args, "")
	if err != nil {
		return nil, nil, nil, err
	}
	logger := logging.NewLogger(cfg.LogLevel, os.Stderr)
	parsed, err := ingest.Load(cfg.Input, format, ingest.LogOptions{
		DropLastToken: cfg.DropLastToken,
		Logger:        logger,
	})
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, parsed, logger, nil
}

func showInfo(cmd *cobra.Command, args []string) error {
	cfg, parsed, _, err := parseOnly(cmd, args)
	if err != nil {
		return err
	}
	viz.Report(os.Stdout, cfg.Input, "", parsed)
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	_, parsed, logger, err := parseOnly(cmd, args)
	if err != nil {
		return err
	}
	for _, name := range parsed.Dataset.Names() {
		if n := len(parsed.Dataset.Blocks(name)); n > 1 {
			logger.Warn("exporting the first block only", "series", name, "blocks", n)
		}
	}
	return ingest.WriteCSV(os.Stdout, parsed.Dataset)
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "FORMAT\tPRESET\tWIDTH\tHEIGHT\tBACKEND")

	for _, format := range []ingest.Format{ingest.FormatCSV, ingest.FormatLog} {
		for _, name := range config.ListPresets(string(format)) {
			p := config.GetPreset(string(format), name)
			b := p.Backend
			if b == "" {
				b = config.DefaultBackend
			}
			fmt.Fprintf(w, "%s\t%s\t%.1fin\t%.1fin\t%s\n", format, name, p.Width, p.Height, b)
		}
	}

	return w.Flush()
}
