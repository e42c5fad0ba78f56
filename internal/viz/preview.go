package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/EricPacefactory/Station-Test-Patterns/internal/pattern"
)

// FrameMsg delivers a generated frame to the preview model.
type FrameMsg struct {
	Frame *pattern.Frame
	Total int
}

// DoneMsg tells the preview model the run has finished.
type DoneMsg struct{}

// PreviewModel shows frames as they are generated, with a status line of
// the blink labels and run progress.
type PreviewModel struct {
	title   string
	maxCols int
	periods []float64

	picture string
	index   int
	total   int
	t       float64
	truth   pattern.Truth
	done    bool
	quit    bool
}

// NewPreviewModel returns a model that renders frames into at most maxCols
// terminal columns.
func NewPreviewModel(title string, periods []float64, maxCols int) PreviewModel {
	return PreviewModel{title: title, periods: periods, maxCols: maxCols}
}

// Quit reports whether the user asked to stop.
func (m PreviewModel) Quit() bool { return m.quit }

// Frames is the number of frames shown so far.
func (m PreviewModel) Frames() int { return m.index }

func (m PreviewModel) Init() tea.Cmd { return nil }

func (m PreviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.quit = true
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		if msg.Width > 0 && (m.maxCols == 0 || msg.Width < m.maxCols) {
			m.maxCols = msg.Width
		}
	case FrameMsg:
		m.picture = HalfBlocks(msg.Frame.Image, m.maxCols)
		m.index = msg.Frame.Index + 1
		m.total = msg.Total
		m.t = msg.Frame.Time
		m.truth = msg.Frame.Truth
	case DoneMsg:
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

func (m PreviewModel) View() string {
	var sb strings.Builder
	sb.WriteString(Title.Render(m.title))
	sb.WriteString("  ")
	if m.done {
		sb.WriteString(StatusStopped.Render("done"))
	} else {
		sb.WriteString(StatusRunning.Render("live"))
	}
	sb.WriteString("\n")

	if m.picture != "" {
		sb.WriteString(m.picture)
		sb.WriteString("\n")
	}

	blinks := make([]string, 0, len(m.periods))
	for _, p := range m.periods {
		label := pattern.PeriodLabel(p)
		if m.truth.Bool(pattern.BlinkName(p)) {
			blinks = append(blinks, BlinkOn.Render(label))
		} else {
			blinks = append(blinks, BlinkOff.Render(label))
		}
	}
	sb.WriteString(strings.Join(blinks, " "))
	sb.WriteString("  ")
	sb.WriteString(Metric("t", fmt.Sprintf("%.2fs", m.t)))
	sb.WriteString("  ")
	sb.WriteString(Metric("frame", fmt.Sprintf("%d/%d", m.index, m.total)))
	if m.total > 0 {
		sb.WriteString("  ")
		sb.WriteString(ProgressBar(float64(m.index)/float64(m.total), 20))
	}
	sb.WriteString("\n")
	sb.WriteString(KeyHint.Render("q/esc: stop"))
	return sb.String()
}
