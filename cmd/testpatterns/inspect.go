package main

import (
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/EricPacefactory/Station-Test-Patterns/internal/config"
	"github.com/EricPacefactory/Station-Test-Patterns/internal/pattern"
	"github.com/EricPacefactory/Station-Test-Patterns/internal/record"
	"github.com/EricPacefactory/Station-Test-Patterns/internal/storage"
	"github.com/EricPacefactory/Station-Test-Patterns/internal/viz"
)

func snapshot(cmd *cobra.Command, args []string) error {
	cfg, gen, pcfg, err := loadPattern(cmd, args)
	if err != nil {
		return err
	}
	if snapAt < 0 {
		return fmt.Errorf("%w: --at must not be negative", pattern.ErrInvalidConfig)
	}

	f := gen.Generate(snapAt, pcfg)
	if err := record.SavePNG(snapOut, f); err != nil {
		return err
	}
	fmt.Printf("%s @ %.3fs (seed %d) -> %s\n", cfg.Pattern, snapAt, pcfg.Seed, snapOut)
	for _, s := range f.Truth {
		fmt.Printf("  %s: %g\n", s.Name, s.Value)
	}
	return nil
}

func timeline(cmd *cobra.Command, args []string) error {
	cfg, gen, pcfg, err := loadPattern(cmd, args)
	if err != nil {
		return err
	}

	if showEdges {
		edges := viz.Edges(pcfg.Periods(), pcfg.Duration, stepSecs)
		fmt.Printf("blink edges: %s (%d)\n\n", cfg.Pattern, len(edges))
		for _, e := range edges {
			fmt.Println(e)
		}
		return nil
	}

	truths, times, err := viz.Sample(gen, pcfg, pcfg.Duration, stepSecs)
	if err != nil {
		return err
	}
	fmt.Printf("timeline: %s\n", cfg.Pattern)
	fmt.Printf("samples: %d every %gs (0 - %.1fs)\n\n", len(times), stepSecs, pcfg.Duration)
	fmt.Print(viz.PlotSeries(filterSeries(viz.SeriesFromTruth(truths)), 80, 6))
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	store := storage.New(dataDir)
	runs, err := store.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPATTERN\tTIMESTAMP\tSIZE\tFRAMES\tREASON\tOUTPUT")
	for _, r := range runs {
		out := r.Output
		if out == "" {
			out = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%dx%d\t%d\t%s\t%s\n",
			r.ID, r.Pattern, r.Timestamp.Format("2006-01-02 15:04:05"),
			r.Width, r.Height, r.Frames, r.Reason, out)
	}
	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	store := storage.New(dataDir)
	meta, err := store.Load(args[0])
	if err != nil {
		return fmt.Errorf("failed to load run: %w", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	store := storage.New(dataDir)

	meta, err := store.Load(runID)
	if err != nil {
		return fmt.Errorf("failed to load run: %w", err)
	}
	times, truths, err := store.LoadTruth(runID)
	if err != nil {
		return fmt.Errorf("failed to load ground truth: %w", err)
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("pattern: %s\n", meta.Pattern)
	fmt.Printf("frames: %d\n\n", len(times))
	if len(times) == 0 {
		return nil
	}
	fmt.Print(viz.PlotSeries(filterSeries(viz.SeriesFromTruth(truths)), 80, 6))
	return nil
}

// filterSeries keeps the series named by --series, or all of them.
func filterSeries(all []viz.Series) []viz.Series {
	if len(series) == 0 {
		return all
	}
	out := make([]viz.Series, 0, len(series))
	for _, s := range all {
		if slices.Contains(series, s.Name) {
			out = append(out, s)
		}
	}
	return out
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tPATTERN\tSIZE\tFPS\tLENGTH\tBLINK")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%s\t%dx%d\t%g\t%gs\t%v\n",
			name, p.Pattern, p.Width, p.Height, p.FPS, p.Duration(), p.BlinkPeriods)
	}
	return w.Flush()
}

func listPatterns(cmd *cobra.Command, args []string) error {
	for _, k := range pattern.Kinds() {
		fmt.Printf("  %-16s %s\n", k, pattern.Summary(k))
	}
	return nil
}

func listCodecs(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CODEC\tENCODER\tCONTAINERS")
	for _, c := range record.Codecs {
		fmt.Fprintf(w, "%s\t%s\t%s\n", c.FourCC, c.Encoder, strings.Join(c.Exts, ", "))
	}
	fmt.Fprintf(w, "-\tgif\t.gif (buffered in memory, at most %d frames at %dx%d)\n",
		record.GIFFrameLimit(config.DefaultWidth, config.DefaultHeight), config.DefaultWidth, config.DefaultHeight)
	fmt.Fprintln(w, "-\tpng\t.png (one file per frame)")
	return w.Flush()
}
