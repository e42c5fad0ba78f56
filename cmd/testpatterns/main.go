package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/EricPacefactory/Station-Test-Patterns/internal/config"
)

var (
	dataDir string
	verbose bool

	// Pattern flags
	fps        float64
	width      int
	height     int
	lengthMins float64
	seconds    float64
	seed       int64
	noise      string
	blur       int
	blink      []float64
	configFile string
	preset     string

	// Output flags
	recordOn    bool
	codec       string
	output      string
	previewMode string
	realtime    bool
	timelapse   float64
	noTruth     bool

	// snapshot / timeline / plot
	snapAt    float64
	snapOut   string
	stepSecs  float64
	showEdges bool
	series    []string
)

// main registers the commands and exits with status 1 when one fails. With
// no subcommand it runs the default station pattern.
func main() {
	rootCmd := &cobra.Command{
		Use:   "testpatterns",
		Short: "procedural test video generator",
		Long: "Generates synthetic test videos (blinking text, noise, colour cycling,\n" +
			"scrolling bars, a moving dot) for validating realtime video capture and analysis.",
		Args:          cobra.MaximumNArgs(1),
		RunE:          runPattern,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", config.DefaultDataDir, "run store directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	addPatternFlags(rootCmd)
	addOutputFlags(rootCmd)

	runCmd := &cobra.Command{
		Use:   "run [pattern]",
		Short: "preview and/or record a pattern",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runPattern,
	}
	addPatternFlags(runCmd)
	addOutputFlags(runCmd)

	snapshotCmd := &cobra.Command{
		Use:   "snapshot [pattern]",
		Short: "write a single frame as PNG",
		Args:  cobra.MaximumNArgs(1),
		RunE:  snapshot,
	}
	addPatternFlags(snapshotCmd)
	snapshotCmd.Flags().Float64Var(&snapAt, "at", 0, "elapsed time of the frame in seconds")
	snapshotCmd.Flags().StringVarP(&snapOut, "output", "o", "snapshot.png", "output png path")

	timelineCmd := &cobra.Command{
		Use:   "timeline [pattern]",
		Short: "plot element states over time",
		Args:  cobra.MaximumNArgs(1),
		RunE:  timeline,
	}
	addPatternFlags(timelineCmd)
	timelineCmd.Flags().Float64Var(&stepSecs, "step", 0.25, "sample interval in seconds")
	timelineCmd.Flags().BoolVar(&showEdges, "edges", false, "list blink transitions instead of plotting")
	timelineCmd.Flags().StringSliceVar(&series, "series", nil, "only plot these elements")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "print run metadata as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot the ground truth of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringSliceVar(&series, "series", nil, "only plot these elements")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list configuration presets",
		RunE:  listPresets,
	}

	patternsCmd := &cobra.Command{
		Use:   "patterns",
		Short: "list available patterns",
		RunE:  listPatterns,
	}

	codecsCmd := &cobra.Command{
		Use:   "codecs",
		Short: "list recording codecs and containers",
		RunE:  listCodecs,
	}

	rootCmd.AddCommand(runCmd, snapshotCmd, timelineCmd, listCmd, showCmd, plotCmd, presetsCmd, patternsCmd, codecsCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addPatternFlags(cmd *cobra.Command) {
	def := config.DefaultConfig()
	cmd.Flags().Float64Var(&fps, "fps", def.FPS, "frame rate")
	cmd.Flags().IntVar(&width, "width", def.Width, "frame width")
	cmd.Flags().IntVar(&height, "height", def.Height, "frame height")
	cmd.Flags().Float64VarP(&lengthMins, "length-mins", "l", def.LengthMins, "video length in minutes")
	cmd.Flags().Float64Var(&seconds, "time", 0, "video length in seconds (overrides --length-mins)")
	cmd.Flags().Int64Var(&seed, "seed", 0, "noise seed (0 picks one from the clock)")
	cmd.Flags().StringVar(&noise, "noise", "", "noise kind: uniform, color, blurred, simplex")
	cmd.Flags().IntVar(&blur, "blur", 0, "box blur size for blurred noise")
	cmd.Flags().Float64SliceVar(&blink, "blink", def.BlinkPeriods, "blink periods in seconds")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
}

func addOutputFlags(cmd *cobra.Command) {
	def := config.DefaultConfig()
	cmd.Flags().BoolVarP(&recordOn, "record", "r", false, "enable video recording")
	cmd.Flags().StringVarP(&codec, "codec", "c", "", "recording codec (avc1, XVID, MJPG, FFV1)")
	cmd.Flags().StringVarP(&output, "output", "o", def.Record.Output, "output path (.mp4, .mkv, .avi, .gif, .png)")
	cmd.Flags().StringVar(&previewMode, "preview", def.Preview, "preview: auto, ffplay, terminal, none")
	cmd.Flags().BoolVar(&realtime, "realtime", def.Realtime, "pace frames at the frame rate while previewing")
	cmd.Flags().Float64Var(&timelapse, "timelapse", def.Record.Timelapse, "record one of every N frames")
	cmd.Flags().BoolVar(&noTruth, "no-truth", false, "do not store per-frame ground truth")
}

// loadConfig layers defaults, preset, config file and explicitly set flags,
// in that order.
func loadConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if len(args) > 0 {
		cfg.Pattern = args[0]
	}
	if flags.Changed("fps") {
		cfg.FPS = fps
	}
	if flags.Changed("width") {
		cfg.Width = width
	}
	if flags.Changed("height") {
		cfg.Height = height
	}
	if flags.Changed("length-mins") {
		cfg.LengthMins = lengthMins
		cfg.Seconds = 0
	}
	if flags.Changed("time") {
		cfg.Seconds = seconds
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("noise") {
		cfg.Noise = noise
	}
	if flags.Changed("blur") {
		cfg.Blur = blur
	}
	if flags.Changed("blink") {
		cfg.BlinkPeriods = blink
	}
	if flags.Lookup("record") != nil {
		if flags.Changed("record") {
			cfg.Record.Enabled = recordOn
		}
		if flags.Changed("codec") {
			cfg.Record.Codec = codec
		}
		if flags.Changed("output") {
			cfg.Record.Output = output
		}
		if flags.Changed("preview") {
			cfg.Preview = previewMode
		}
		if flags.Changed("realtime") {
			cfg.Realtime = realtime
		}
		if flags.Changed("timelapse") {
			cfg.Record.Timelapse = timelapse
		}
		if flags.Changed("no-truth") {
			cfg.SaveTruth = !noTruth
		}
	}
	if flags.Changed("data") {
		cfg.DataDir = dataDir
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
