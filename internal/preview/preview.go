// Package preview shows generated frames live, either in an ffplay window
// or directly in the terminal.
package preview

import (
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/EricPacefactory/Station-Test-Patterns/internal/record"
)

// Mode selects the preview backend.
type Mode string

const (
	ModeAuto     Mode = "auto"
	ModeFFplay   Mode = "ffplay"
	ModeTerminal Mode = "terminal"
	ModeNone     Mode = "none"
)

// Modes lists the accepted --preview values.
var Modes = []Mode{ModeAuto, ModeFFplay, ModeTerminal, ModeNone}

// ParseMode converts a flag value into a Mode.
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Modes {
		if m == known {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown preview mode %q (want auto, ffplay, terminal or none)", s)
}

// Options describe the stream a preview will receive.
type Options struct {
	Title   string
	Width   int
	Height  int
	FPS     float64
	Periods []float64
	Total   int
}

// Resolve turns ModeAuto into a concrete backend: ffplay when it is on
// PATH, otherwise the terminal.
func Resolve(m Mode) Mode {
	if m != ModeAuto {
		return m
	}
	if _, err := exec.LookPath("ffplay"); err == nil {
		return ModeFFplay
	}
	return ModeTerminal
}

// Open starts the preview sink for mode.
func Open(m Mode, opts Options) (record.Sink, error) {
	m = Resolve(m)
	slog.Debug("opening preview", "mode", m)
	switch m {
	case ModeFFplay:
		return NewFFplay(opts.Title, opts.Width, opts.Height, opts.FPS)
	case ModeTerminal:
		return NewTerminal(opts.Title, opts.Periods, opts.Total), nil
	case ModeNone:
		return &Null{}, nil
	}
	return nil, fmt.Errorf("unknown preview mode %q", m)
}
