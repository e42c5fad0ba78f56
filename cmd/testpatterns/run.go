package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/EricPacefactory/Station-Test-Patterns/internal/config"
	"github.com/EricPacefactory/Station-Test-Patterns/internal/pattern"
	"github.com/EricPacefactory/Station-Test-Patterns/internal/preview"
	"github.com/EricPacefactory/Station-Test-Patterns/internal/record"
	"github.com/EricPacefactory/Station-Test-Patterns/internal/run"
	"github.com/EricPacefactory/Station-Test-Patterns/internal/storage"
	"github.com/EricPacefactory/Station-Test-Patterns/internal/viz"
)

func runPattern(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	mode, err := preview.ParseMode(cfg.Preview)
	if err != nil {
		return err
	}
	mode = preview.Resolve(mode)

	pcfg := cfg.PatternConfig()
	gen, err := pattern.New(pattern.Kind(cfg.Pattern), pcfg)
	if err != nil {
		return err
	}
	pcfg.Seed = gen.Seed()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := run.New(gen)
	meta := &storage.RunMetadata{
		Pattern:      cfg.Pattern,
		Seed:         pcfg.Seed,
		Width:        pcfg.Width,
		Height:       pcfg.Height,
		FPS:          pcfg.FPS,
		Duration:     pcfg.Duration,
		BlinkPeriods: pcfg.Periods(),
		Noise:        cfg.Noise,
		Preview:      string(mode),
	}

	var recorder record.Sink
	if cfg.Record.Enabled {
		target, err := record.Resolve(cfg.Record.Output, cfg.Record.Codec)
		if errors.Is(err, record.ErrBadCodec) {
			return fmt.Errorf("%w (see `testpatterns codecs`)", err)
		} else if err != nil {
			return err
		}
		planned := pcfg.TotalFrames()
		if cfg.Record.Timelapse > 1 {
			planned = int(math.Ceil(float64(planned) / cfg.Record.Timelapse))
		}
		if err := record.CheckLength(target, pcfg.Width, pcfg.Height, planned); err != nil {
			return err
		}
		recorder, err = record.Open(target, pcfg.Width, pcfg.Height, pcfg.FPS)
		if err != nil {
			return err
		}
		if cfg.Record.Timelapse > 1 {
			tl, err := record.NewTimelapse(recorder, cfg.Record.Timelapse)
			if err != nil {
				record.Discard(recorder)
				return err
			}
			recorder = tl
		}
		runner.AddSink(recorder)
		meta.Output = target.Path
		meta.Codec = target.Codec.FourCC
		meta.Timelapse = cfg.Record.Timelapse
		fmt.Printf("recording %s\n", target)
	}

	if mode != preview.ModeNone {
		sink, err := preview.Open(mode, preview.Options{
			Title:   cfg.Pattern,
			Width:   pcfg.Width,
			Height:  pcfg.Height,
			FPS:     pcfg.FPS,
			Periods: pcfg.Periods(),
			Total:   pcfg.TotalFrames(),
		})
		if err != nil {
			if recorder != nil {
				record.Discard(recorder)
			}
			return fmt.Errorf("failed to open preview: %w", err)
		}
		runner.AddSink(sink)
	}

	store := storage.New(cfg.DataDir)
	runID := ""
	var truth *storage.TruthWriter
	if err := store.Init(); err != nil {
		slog.Warn("run store unavailable", "dir", cfg.DataDir, "err", err)
	} else if runID, err = store.Create(meta); err != nil {
		slog.Warn("failed to create run", "err", err)
	} else if cfg.SaveTruth {
		if truth, err = store.TruthWriter(runID); err != nil {
			slog.Warn("failed to open ground truth", "run", runID, "err", err)
		} else {
			runner.AddObserver(truth)
		}
	}

	if mode != preview.ModeTerminal {
		runner.AddObserver(newProgress(pcfg.TotalFrames(), pcfg.Periods()))
	}

	fmt.Printf("running %s (%dx%d @ %g fps, %s)...\n",
		cfg.Pattern, pcfg.Width, pcfg.Height, pcfg.FPS, time.Duration(pcfg.Duration*float64(time.Second)))

	result, runErr := runner.Run(ctx, run.Config{
		Pattern:  pcfg,
		Realtime: cfg.Realtime && mode != preview.ModeNone,
	})
	if mode != preview.ModeTerminal {
		fmt.Fprintln(os.Stderr)
	}

	if truth != nil {
		if err := truth.Close(); err != nil {
			slog.Warn("failed to close ground truth", "run", runID, "err", err)
		}
	}
	if runID != "" && result != nil {
		meta.Frames = result.Frames
		meta.Reason = string(result.Reason)
		meta.Metrics = result.Metrics
		if err := store.Save(meta); err != nil {
			slog.Warn("failed to save run metadata", "run", runID, "err", err)
		}
	}
	if runErr != nil {
		return runErr
	}

	printSummary(runID, result)
	return nil
}

func printSummary(runID string, result *run.Result) {
	fmt.Printf("%s in %v\n", result.Reason, result.Elapsed.Round(time.Millisecond))
	if runID != "" {
		fmt.Printf("run id: %s\n", runID)
	}
	fmt.Printf("frames: %d\n", result.Frames)

	names := make([]string, 0, len(result.Metrics))
	for name := range result.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Println("\nmetrics:")
	for _, name := range names {
		fmt.Printf("  %s: %.3f\n", name, result.Metrics[name])
	}
}

// progress redraws a one-line bar on stderr, at most every 100ms.
type progress struct {
	total   int
	periods []float64
	last    time.Time
}

func newProgress(total int, periods []float64) *progress {
	return &progress{total: total, periods: periods}
}

func (p *progress) OnFrame(f *pattern.Frame) error {
	done := f.Index + 1
	if done < p.total && time.Since(p.last) < 100*time.Millisecond {
		return nil
	}
	p.last = time.Now()

	pct := float64(done) / float64(max(p.total, 1))
	var blinks strings.Builder
	for _, period := range p.periods {
		style := viz.BlinkOff
		if f.Truth.Bool(pattern.BlinkName(period)) {
			style = viz.BlinkOn
		}
		blinks.WriteString(" " + style.Render(pattern.PeriodLabel(period)))
	}
	fmt.Fprintf(os.Stderr, "\r%s %5.1f%%  %7.1fs %s", viz.ProgressBar(pct, 30), pct*100, f.Time, blinks.String())
	return nil
}

// loadPattern is the shared setup of the commands that render without sinks.
func loadPattern(cmd *cobra.Command, args []string) (*config.Config, pattern.Pattern, pattern.Config, error) {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return nil, nil, pattern.Config{}, err
	}
	pcfg := cfg.PatternConfig()
	gen, err := pattern.New(pattern.Kind(cfg.Pattern), pcfg)
	if err != nil {
		return nil, nil, pattern.Config{}, err
	}
	pcfg.Seed = gen.Seed()
	return cfg, gen, pcfg, nil
}
