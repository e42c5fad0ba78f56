package preview

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/EricPacefactory/Station-Test-Patterns/internal/pattern"
	"github.com/EricPacefactory/Station-Test-Patterns/internal/record"
	"github.com/EricPacefactory/Station-Test-Patterns/internal/viz"
)

// DefaultColumns caps the terminal preview width.
const DefaultColumns = 100

// Terminal shows frames in the terminal through a Bubble Tea program that
// runs in its own goroutine.
type Terminal struct {
	prog   *tea.Program
	total  int
	done   chan struct{}
	err    error
	quit   bool
	closed bool
}

// NewTerminal starts the preview program. opts are passed to Bubble Tea;
// the alternate screen is used unless overridden.
func NewTerminal(title string, periods []float64, total int, opts ...tea.ProgramOption) *Terminal {
	model := viz.NewPreviewModel(title, periods, DefaultColumns)
	opts = append([]tea.ProgramOption{tea.WithAltScreen()}, opts...)

	t := &Terminal{
		prog:  tea.NewProgram(model, opts...),
		total: total,
		done:  make(chan struct{}),
	}
	go func() {
		defer close(t.done)
		final, err := t.prog.Run()
		if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
			t.err = err
		}
		if m, ok := final.(viz.PreviewModel); ok {
			t.quit = m.Quit()
		}
	}()
	return t
}

func (t *Terminal) WriteFrame(f *pattern.Frame) error {
	select {
	case <-t.done:
		if t.err != nil {
			return t.err
		}
		return record.ErrStopped
	default:
	}
	t.prog.Send(viz.FrameMsg{Frame: f, Total: t.total})
	return nil
}

// Close asks the program to finish and waits for it to restore the terminal.
func (t *Terminal) Close() error {
	if t.closed {
		return nil
	}
	t.closed = true
	t.prog.Send(viz.DoneMsg{})
	t.prog.Quit()
	<-t.done
	return t.err
}

// Stopped reports whether the user quit the preview.
func (t *Terminal) Stopped() bool {
	select {
	case <-t.done:
		return t.quit
	default:
		return false
	}
}
