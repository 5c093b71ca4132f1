// Package main provides the CLI entry point for sheetdeck-go.
package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/ukaji3/sheetdeck-go/pkg/sheetdeck"
	"github.com/ukaji3/sheetdeck-go/pkg/sheetdeck/config"
	"github.com/ukaji3/sheetdeck-go/pkg/sheetdeck/deck"
	"github.com/ukaji3/sheetdeck-go/pkg/sheetdeck/format"
)

var (
	outputPath   string
	configPath   string
	templatePath string
	startSlide   int
	headerRow    int
	previewDir   string
	pretty       bool
	verbose      bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "sheetdeck",
		Short: "Turn spreadsheet sheets into chart slides",
		Long: `sheetdeck-go reads the sheets of an Excel workbook, finds the ones holding
numeric series, and writes one native chart slide per sheet into a PowerPoint deck.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: stdout, or <input>.pptx for build)")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Operator configuration file (YAML)")
	rootCmd.PersistentFlags().IntVar(&headerRow, "header-row", 0, "0-based row holding column labels")
	rootCmd.PersistentFlags().IntVar(&startSlide, "start-slide", 1, "Slide number of the first chart")
	rootCmd.PersistentFlags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Log debug messages")

	buildCmd := &cobra.Command{
		Use:   "build [input.xlsx]",
		Short: "Write a chart deck for a workbook",
		Args:  cobra.ExactArgs(1),
		RunE:  runBuild,
	}
	buildCmd.Flags().StringVar(&templatePath, "template", "", "Template presentation")
	buildCmd.Flags().StringVar(&previewDir, "preview-dir", "", "Directory for PNG previews of the charts")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [input.xlsx]",
		Short: "Print the analysis of every sheet as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  runAnalyze,
	}

	planCmd := &cobra.Command{
		Use:   "plan [input.xlsx]",
		Short: "Print the chart plan as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  runPlan,
	}

	inspectCmd := &cobra.Command{
		Use:   "inspect [deck.pptx]",
		Short: "Print the slides and charts of a presentation as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  runInspect,
	}

	rootCmd.AddCommand(buildCmd, analyzeCmd, planCmd, inspectCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runBuild(cmd *cobra.Command, args []string) error {
	inputPath := args[0]

	cfg, opts, err := setup(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("template") {
		opts.TemplatePath = templatePath
		if cfg != nil {
			cfg.Template = templatePath
		}
	}
	opts.PreviewDir = previewDir

	out := outputPath
	if out == "" {
		out = strings.TrimSuffix(inputPath, filepath.Ext(inputPath)) + ".pptx"
	}

	result, err := sheetdeck.Convert(inputPath, out, cfg, opts)
	if err != nil {
		return fmt.Errorf("build failed: %w", err)
	}

	for _, s := range result.Report.Slides {
		for _, r := range format.Unsupported(s.Results) {
			fmt.Fprintf(cmd.ErrOrStderr(), "slide %d: %s skipped: %s\n", s.Number, r.Kind, r.Reason)
		}
	}
	for _, p := range result.Previews {
		fmt.Fprintf(cmd.OutOrStdout(), "Preview written: %s\n", p)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Presentation created: %s\n", out)
	return nil
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	_, opts, err := setup(cmd)
	if err != nil {
		return err
	}

	wb, err := sheetdeck.AnalyzeFile(args[0], opts)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}
	return writeJSON(cmd, wb)
}

func runPlan(cmd *cobra.Command, args []string) error {
	cfg, opts, err := setup(cmd)
	if err != nil {
		return err
	}

	wb, err := sheetdeck.AnalyzeFile(args[0], opts)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}
	p, err := sheetdeck.BuildPlan(wb, cfg, opts)
	if err != nil {
		return fmt.Errorf("planning failed: %w", err)
	}
	return writeJSON(cmd, p)
}

func runInspect(cmd *cobra.Command, args []string) error {
	slides, err := deck.InspectFile(args[0])
	if err != nil {
		return fmt.Errorf("inspection failed: %w", err)
	}
	return writeJSON(cmd, slides)
}

// setup loads the configuration file and applies flags over it.
func setup(cmd *cobra.Command) (*config.File, sheetdeck.Options, error) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	opts := sheetdeck.DefaultOptions()
	opts.Logger = logger
	opts.StartSlide = startSlide
	opts.HeaderRow = headerRow

	var cfg *config.File
	if configPath != "" {
		f, err := config.Load(configPath)
		if err != nil {
			return nil, opts, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = f
		if cmd.Flags().Changed("start-slide") {
			cfg.StartSlide = startSlide
		}
		if cmd.Flags().Changed("header-row") {
			cfg.HeaderRow = &headerRow
		}
		if cfg.HeaderRow != nil {
			opts.HeaderRow = *cfg.HeaderRow
		}
		if cfg.Template != "" && !filepath.IsAbs(cfg.Template) {
			cfg.Template = filepath.Join(filepath.Dir(configPath), cfg.Template)
		}
	}
	return cfg, opts, nil
}

func writeJSON(cmd *cobra.Command, v any) error {
	var (
		data []byte
		err  error
	)
	if pretty {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return fmt.Errorf("serialization failed: %w", err)
	}

	if outputPath != "" {
		if err := os.WriteFile(outputPath, data, 0644); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
