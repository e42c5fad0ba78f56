package record

import (
	"fmt"
	"image/png"
	"os"
	"path/filepath"

	"github.com/EricPacefactory/Station-Test-Patterns/internal/pattern"
)

// PNGSequence writes every frame as dir/frame_000000.png. Each file is
// written to a temporary name first, so the directory only ever holds
// complete images.
type PNGSequence struct {
	dir     string
	written []string
	enc     png.Encoder
	closed  bool
}

func NewPNGSequence(dir string) (*PNGSequence, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotWritable, err)
	}
	if err := CheckWritable(filepath.Join(dir, "frame.png")); err != nil {
		return nil, err
	}
	return &PNGSequence{dir: dir, enc: png.Encoder{CompressionLevel: png.BestSpeed}}, nil
}

func (s *PNGSequence) Path() string { return s.dir }

// FramePath is the file frame k is written to.
func (s *PNGSequence) FramePath(k int) string {
	return filepath.Join(s.dir, fmt.Sprintf("frame_%06d.png", k))
}

func (s *PNGSequence) WriteFrame(f *pattern.Frame) error {
	if s.closed {
		return ErrClosed
	}
	path := s.FramePath(len(s.written))
	tmp := tempPath(path)
	out, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if err := s.enc.Encode(out, f.Image); err != nil {
		out.Close()
		os.Remove(tmp)
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := out.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	s.written = append(s.written, path)
	return nil
}

func (s *PNGSequence) Close() error {
	s.closed = true
	return nil
}

// Abort removes every frame written so far.
func (s *PNGSequence) Abort() error {
	s.closed = true
	var firstErr error
	for _, p := range s.written {
		if err := os.Remove(p); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	s.written = nil
	return firstErr
}

// SavePNG writes a single frame to path through a temporary file.
func SavePNG(path string, f *pattern.Frame) error {
	if err := CheckWritable(path); err != nil {
		return err
	}
	tmp := tempPath(path)
	out, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if err := png.Encode(out, f.Image); err != nil {
		out.Close()
		os.Remove(tmp)
		return err
	}
	if err := out.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return publish(tmp, path)
}
