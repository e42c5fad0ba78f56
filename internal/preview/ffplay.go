package preview

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"syscall"

	"github.com/EricPacefactory/Station-Test-Patterns/internal/pattern"
	"github.com/EricPacefactory/Station-Test-Patterns/internal/record"
)

// FFplay shows frames in an ffplay window fed rgb24 on stdin.
type FFplay struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	buf    []byte
	closed bool
}

// FFplayArgs builds the ffplay command line for a raw rgb24 stream.
func FFplayArgs(title string, width, height int, fps float64) []string {
	args := []string{"-hide_banner", "-loglevel", "error"}
	args = append(args, record.RawVideoArgs(width, height, fps)...)
	return append(args,
		"-window_title", title,
		"-fflags", "nobuffer",
		"-flags", "low_delay",
		"-autoexit",
	)
}

// NewFFplay starts ffplay. Closing its window stops the run.
func NewFFplay(title string, width, height int, fps float64) (*FFplay, error) {
	bin, err := exec.LookPath("ffplay")
	if err != nil {
		return nil, fmt.Errorf("ffplay not found in PATH: %w", err)
	}

	cmd := exec.Command(bin, FFplayArgs(title, width, height, fps)...)
	record.Detach(cmd)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start ffplay: %w", err)
	}
	slog.Debug("ffplay started", "pid", cmd.Process.Pid)
	return &FFplay{cmd: cmd, stdin: stdin}, nil
}

func (p *FFplay) WriteFrame(f *pattern.Frame) error {
	if p.closed {
		return record.ErrStopped
	}
	p.buf = record.PackRGB24(f.Image, p.buf)
	if _, err := p.stdin.Write(p.buf); err != nil {
		if errors.Is(err, syscall.EPIPE) || errors.Is(err, io.ErrClosedPipe) {
			return record.ErrStopped
		}
		return fmt.Errorf("write to ffplay: %w", err)
	}
	return nil
}

// Close ends the stream and waits for the window to finish playing.
func (p *FFplay) Close() error {
	if p.closed {
		return nil
	}
	p.closed = true
	p.stdin.Close()
	// ffplay exits non-zero when its window is closed by the user.
	if err := p.cmd.Wait(); err != nil {
		slog.Debug("ffplay exited", "err", err)
	}
	return nil
}

// Abort closes the window without waiting for buffered frames.
func (p *FFplay) Abort() error {
	if p.closed {
		return nil
	}
	p.closed = true
	p.stdin.Close()
	p.cmd.Process.Kill()
	p.cmd.Wait()
	return nil
}
