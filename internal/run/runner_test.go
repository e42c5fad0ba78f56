package run

import (
	"context"
	"errors"
	"image/gif"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EricPacefactory/Station-Test-Patterns/internal/pattern"
	"github.com/EricPacefactory/Station-Test-Patterns/internal/preview"
	"github.com/EricPacefactory/Station-Test-Patterns/internal/record"
)

type fakeSink struct {
	frames  int
	failAt  int
	err     error
	closed  bool
	aborted bool
}

func (s *fakeSink) WriteFrame(f *pattern.Frame) error {
	if s.err != nil && f.Index == s.failAt {
		return s.err
	}
	s.frames++
	return nil
}

func (s *fakeSink) Close() error { s.closed = true; return nil }
func (s *fakeSink) Abort() error { s.aborted = true; return nil }

func smallConfig() Config {
	return Config{Pattern: pattern.Config{
		Width:        60,
		Height:       45,
		FPS:          10,
		Duration:     2,
		BlinkPeriods: []float64{1},
		Seed:         11,
	}}
}

func newRunner(t *testing.T, kind pattern.Kind, cfg Config) *Runner {
	t.Helper()
	gen, err := pattern.New(kind, cfg.Pattern)
	require.NoError(t, err)
	return New(gen)
}

func TestPreviewBlinkSequence(t *testing.T) {
	cfg := smallConfig()
	r := newRunner(t, pattern.BlinkBasic, cfg)
	sink := &preview.Null{}
	r.AddSink(sink)

	var visible []bool
	r.AddObserver(ObserverFunc(func(f *pattern.Frame) error {
		visible = append(visible, f.Truth.Bool(pattern.BlinkName(1)))
		return nil
	}))

	res, err := r.Run(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, Completed, res.Reason)
	assert.Equal(t, 20, res.Frames)
	assert.Equal(t, 20, sink.Frames)
	assert.Equal(t, 19, sink.Last.Index)

	require.Len(t, visible, 20)
	for k, v := range visible {
		want := k < 5 || (k >= 10 && k < 15)
		assert.Equal(t, want, v, "frame %d", k)
	}
}

func TestRecordGIF(t *testing.T) {
	cfg := smallConfig()
	path := filepath.Join(t.TempDir(), "out.gif")
	target, err := record.Resolve(path, "")
	require.NoError(t, err)
	sink, err := record.Open(target, cfg.Pattern.Width, cfg.Pattern.Height, cfg.Pattern.FPS)
	require.NoError(t, err)

	r := newRunner(t, pattern.CycleMosaic1, cfg)
	r.AddSink(sink)
	res, err := r.Run(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, 20, res.Frames)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	anim, err := gif.DecodeAll(f)
	require.NoError(t, err)
	assert.Len(t, anim.Image, 20)
	assert.Equal(t, 60, anim.Config.Width)
	assert.Equal(t, 45, anim.Config.Height)
}

func TestInvalidConfigFailsBeforeFirstFrame(t *testing.T) {
	cfg := smallConfig()
	r := newRunner(t, pattern.BlinkBasic, cfg)
	sink := &fakeSink{}
	r.AddSink(sink)

	called := false
	r.AddObserver(ObserverFunc(func(*pattern.Frame) error { called = true; return nil }))

	cfg.Pattern.Duration = 0
	_, err := r.Run(context.Background(), cfg)
	assert.ErrorIs(t, err, pattern.ErrInvalidConfig)
	assert.False(t, called)
	assert.Zero(t, sink.frames)
	assert.True(t, sink.aborted)
}

func TestStoppedSinkEndsRunCleanly(t *testing.T) {
	cfg := smallConfig()
	r := newRunner(t, pattern.BlinkBasic, cfg)
	sink := &fakeSink{failAt: 7, err: record.ErrStopped}
	r.AddSink(sink)

	res, err := r.Run(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, Stopped, res.Reason)
	assert.Equal(t, 7, res.Frames)
	assert.True(t, sink.closed)
	assert.False(t, sink.aborted)
}

func TestCancelEndsRunCleanly(t *testing.T) {
	cfg := smallConfig()
	r := newRunner(t, pattern.BlinkBasic, cfg)
	sink := &fakeSink{}
	r.AddSink(sink)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	r.AddObserver(ObserverFunc(func(f *pattern.Frame) error {
		if f.Index == 3 {
			cancel()
		}
		return nil
	}))

	res, err := r.Run(ctx, cfg)
	require.NoError(t, err)
	assert.Equal(t, Cancelled, res.Reason)
	assert.Equal(t, 4, res.Frames)
	assert.True(t, sink.closed)
}

func TestSinkErrorDiscardsOutput(t *testing.T) {
	cfg := smallConfig()
	path := filepath.Join(t.TempDir(), "out.gif")
	gifSink, err := record.NewGIF(path, cfg.Pattern.FPS)
	require.NoError(t, err)

	boom := errors.New("disk full")
	r := newRunner(t, pattern.BlinkBasic, cfg)
	r.AddSink(gifSink)
	r.AddSink(&fakeSink{failAt: 5, err: boom})

	res, err := r.Run(context.Background(), cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	var fe *pattern.FrameError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, 5, fe.Index)
	assert.Equal(t, Failed, res.Reason)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "aborted run must not leave an output file")
}

func TestObserverErrorAborts(t *testing.T) {
	cfg := smallConfig()
	r := newRunner(t, pattern.BlinkBasic, cfg)
	sink := &fakeSink{}
	r.AddSink(sink)
	r.AddObserver(ObserverFunc(func(f *pattern.Frame) error {
		if f.Index == 2 {
			return errors.New("truth file closed")
		}
		return nil
	}))

	_, err := r.Run(context.Background(), cfg)
	require.Error(t, err)
	assert.Equal(t, 2, sink.frames)
	assert.True(t, sink.aborted)
}

func TestMetricsReported(t *testing.T) {
	cfg := smallConfig()
	r := newRunner(t, pattern.BlinkBasic, cfg)
	r.AddSink(&fakeSink{})

	res, err := r.Run(context.Background(), cfg)
	require.NoError(t, err)
	for _, key := range []string{"generate_mean_ms", "generate_p95_ms", "write_mean_ms", "frames_per_sec"} {
		assert.Contains(t, res.Metrics, key)
	}
	assert.Greater(t, res.Metrics["generate_mean_ms"], 0.0)
}

func TestRealtimePacing(t *testing.T) {
	cfg := smallConfig()
	cfg.Pattern.FPS = 50
	cfg.Pattern.Duration = 0.1
	cfg.Realtime = true
	r := newRunner(t, pattern.BlinkBasic, cfg)
	r.AddSink(&fakeSink{})

	res, err := r.Run(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, 5, res.Frames)
	assert.GreaterOrEqual(t, res.Elapsed, 70*time.Millisecond)
}
