package run

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/rcrowley/go-metrics"

	"github.com/EricPacefactory/Station-Test-Patterns/internal/pattern"
	"github.com/EricPacefactory/Station-Test-Patterns/internal/record"
)

// Runner drives a pattern generator through a fixed-step frame clock and
// hands every frame to its observers and sinks.
type Runner struct {
	gen       pattern.Pattern
	sinks     []record.Sink
	observers []Observer
	registry  metrics.Registry
}

func New(gen pattern.Pattern) *Runner {
	return &Runner{
		gen:       gen,
		sinks:     make([]record.Sink, 0),
		observers: make([]Observer, 0),
		registry:  metrics.NewRegistry(),
	}
}

func (r *Runner) AddSink(s record.Sink)     { r.sinks = append(r.sinks, s) }
func (r *Runner) AddObserver(o Observer)    { r.observers = append(r.observers, o) }
func (r *Runner) Registry() metrics.Registry { return r.registry }

// Run generates round(duration*fps) frames at t = k/fps. It returns early
// without error when ctx is cancelled or a sink reports record.ErrStopped;
// in both cases the sinks are closed normally and keep what they have.
// Any other failure aborts the run and the sinks discard their output.
// Sinks are released on every path.
func (r *Runner) Run(ctx context.Context, cfg Config) (res *Result, err error) {
	if err := r.validateConfig(cfg); err != nil {
		r.release(err)
		return nil, err
	}

	genTimer := metrics.GetOrRegisterTimer("generate", r.registry)
	writeTimer := metrics.GetOrRegisterTimer("write", r.registry)
	rate := metrics.GetOrRegisterMeter("frames", r.registry)
	defer r.registry.UnregisterAll()

	total := cfg.Pattern.TotalFrames()
	res = &Result{Reason: Completed, Metrics: make(map[string]float64)}
	start := time.Now()

	defer func() {
		res.Elapsed = time.Since(start)
		res.Metrics = collect(genTimer, writeTimer, rate)
		if rerr := r.release(err); rerr != nil && err == nil {
			err = rerr
		}
		if err != nil {
			res.Reason = Failed
		}
	}()

	var tick <-chan time.Time
	if cfg.Realtime {
		ticker := time.NewTicker(time.Duration(float64(time.Second) / cfg.Pattern.FPS))
		defer ticker.Stop()
		tick = ticker.C
	}

	for k := 0; k < total; k++ {
		if tick != nil && k > 0 {
			select {
			case <-ctx.Done():
			case <-tick:
			}
		}
		select {
		case <-ctx.Done():
			slog.Info("run cancelled", "frame", k, "of", total)
			res.Reason = Cancelled
			return res, nil
		default:
		}

		t := cfg.Pattern.FrameTime(k)
		began := time.Now()
		f := r.gen.Generate(t, cfg.Pattern)
		f.Index = k
		genTimer.UpdateSince(began)

		for _, obs := range r.observers {
			if err := obs.OnFrame(f); err != nil {
				return res, &pattern.FrameError{Index: k, Time: t, Wrapped: err}
			}
		}

		began = time.Now()
		for _, s := range r.sinks {
			if err := s.WriteFrame(f); err != nil {
				if errors.Is(err, record.ErrStopped) {
					slog.Info("preview closed", "frame", k, "of", total)
					res.Reason = Stopped
					return res, nil
				}
				return res, &pattern.FrameError{Index: k, Time: t, Wrapped: err}
			}
		}
		writeTimer.UpdateSince(began)
		rate.Mark(1)
		res.Frames++
	}

	return res, nil
}

func (r *Runner) validateConfig(cfg Config) error {
	if r.gen == nil {
		return fmt.Errorf("%w: no pattern", pattern.ErrInvalidConfig)
	}
	return cfg.Pattern.Validate()
}

// release closes every sink after a clean run and discards their output
// after a failed one.
func (r *Runner) release(runErr error) error {
	var errs []error
	for _, s := range r.sinks {
		if runErr != nil {
			errs = append(errs, record.Discard(s))
			continue
		}
		errs = append(errs, s.Close())
	}
	r.sinks = r.sinks[:0]
	return errors.Join(errs...)
}

func collect(gen, write metrics.Timer, rate metrics.Meter) map[string]float64 {
	ms := func(ns float64) float64 { return ns / float64(time.Millisecond) }
	return map[string]float64{
		"generate_mean_ms": ms(gen.Mean()),
		"generate_p95_ms":  ms(gen.Percentile(0.95)),
		"write_mean_ms":    ms(write.Mean()),
		"frames_per_sec":   rate.RateMean(),
	}
}
