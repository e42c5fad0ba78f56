package preview

import (
	"image"
	"io"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EricPacefactory/Station-Test-Patterns/internal/pattern"
	"github.com/EricPacefactory/Station-Test-Patterns/internal/record"
)

func frame(k int) *pattern.Frame {
	return &pattern.Frame{Index: k, Time: float64(k) / 10, Image: image.NewRGBA(image.Rect(0, 0, 8, 6))}
}

func TestParseMode(t *testing.T) {
	for _, s := range []string{"auto", "FFPLAY", " terminal ", "none"} {
		_, err := ParseMode(s)
		assert.NoError(t, err, s)
	}
	_, err := ParseMode("window")
	assert.Error(t, err)
}

func TestResolveKeepsExplicitMode(t *testing.T) {
	assert.Equal(t, ModeTerminal, Resolve(ModeTerminal))
	assert.Equal(t, ModeNone, Resolve(ModeNone))
	assert.NotEqual(t, ModeAuto, Resolve(ModeAuto))
}

func TestNull(t *testing.T) {
	s, err := Open(ModeNone, Options{})
	require.NoError(t, err)
	n := s.(*Null)

	for k := 0; k < 5; k++ {
		require.NoError(t, n.WriteFrame(frame(k)))
	}
	assert.Equal(t, 5, n.Frames)
	assert.Equal(t, 4, n.Last.Index)

	require.NoError(t, n.Close())
	assert.ErrorIs(t, n.WriteFrame(frame(5)), record.ErrClosed)
}

func TestFFplayArgs(t *testing.T) {
	args := FFplayArgs("cycle_mosaic_1", 300, 345, 30)
	assert.Contains(t, args, "rgb24")
	assert.Contains(t, args, "300x345")
	assert.Contains(t, args, "-autoexit")
	assert.Contains(t, args, "cycle_mosaic_1")
}

func TestTerminalRunsHeadless(t *testing.T) {
	term := NewTerminal("test", []float64{1}, 3,
		tea.WithInput(nil), tea.WithOutput(io.Discard), tea.WithoutSignalHandler())

	for k := 0; k < 3; k++ {
		require.NoError(t, term.WriteFrame(frame(k)))
	}
	require.NoError(t, term.Close())
	assert.False(t, term.Stopped())
	assert.ErrorIs(t, term.WriteFrame(frame(3)), record.ErrStopped)
}
