package record

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/EricPacefactory/Station-Test-Patterns/internal/pattern"
)

// PackRGB24 writes img as tightly packed rgb24 into buf, growing it as
// needed, and returns the filled slice.
func PackRGB24(img *image.RGBA, buf []byte) []byte {
	b := img.Bounds()
	n := b.Dx() * b.Dy() * 3
	if cap(buf) < n {
		buf = make([]byte, n)
	}
	buf = buf[:n]
	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := img.PixOffset(b.Min.X, y)
		for x := 0; x < b.Dx(); x++ {
			s := row + x*4
			buf[i] = img.Pix[s]
			buf[i+1] = img.Pix[s+1]
			buf[i+2] = img.Pix[s+2]
			i += 3
		}
	}
	return buf
}

// RawVideoArgs are the ffmpeg/ffplay input options for rgb24 frames on stdin.
func RawVideoArgs(width, height int, fps float64) []string {
	return []string{
		"-f", "rawvideo",
		"-pixel_format", "rgb24",
		"-video_size", fmt.Sprintf("%dx%d", width, height),
		"-framerate", strconv.FormatFloat(fps, 'f', -1, 64),
		"-i", "-",
	}
}

// FFmpeg encodes frames by piping them into an ffmpeg process.
type FFmpeg struct {
	path   string
	tmp    string
	width  int
	height int
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stderr bytes.Buffer
	buf    []byte
	closed bool
}

// FFmpegArgs builds the command line that encodes rgb24 frames from stdin
// into out with codec c. Odd sizes are padded to even, which most
// encoders require.
func FFmpegArgs(c Codec, width, height int, fps float64, out string) []string {
	args := []string{"-hide_banner", "-loglevel", "error", "-y"}
	args = append(args, RawVideoArgs(width, height, fps)...)
	if width%2 != 0 || height%2 != 0 {
		args = append(args, "-vf", "pad=ceil(iw/2)*2:ceil(ih/2)*2")
	}
	args = append(args, "-c:v", c.Encoder)
	args = append(args, c.Args...)
	args = append(args, "-f", muxer(out), out)
	return args
}

// muxer names the container explicitly since the temporary file's
// extension does not identify it.
func muxer(path string) string {
	switch ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")); ext {
	case "mkv":
		return "matroska"
	case "":
		return "mp4"
	default:
		return ext
	}
}

// NewFFmpeg starts ffmpeg writing to a temporary file beside target.Path.
func NewFFmpeg(target Target, width, height int, fps float64) (*FFmpeg, error) {
	bin, err := exec.LookPath("ffmpeg")
	if err != nil {
		return nil, fmt.Errorf("ffmpeg not found in PATH: %w", err)
	}
	if err := CheckWritable(target.Path); err != nil {
		return nil, err
	}

	tmp := tempPath(target.Path)
	args := FFmpegArgs(target.Codec, width, height, fps, target.Path)
	args[len(args)-1] = tmp

	f := &FFmpeg{path: target.Path, tmp: tmp, width: width, height: height}
	f.cmd = exec.Command(bin, args...)
	f.cmd.Stderr = &f.stderr
	Detach(f.cmd)
	f.stdin, err = f.cmd.StdinPipe()
	if err != nil {
		return nil, err
	}
	if err := f.cmd.Start(); err != nil {
		return nil, fmt.Errorf("start ffmpeg: %w", err)
	}
	slog.Debug("ffmpeg started", "codec", target.Codec.FourCC, "args", args)
	return f, nil
}

func (f *FFmpeg) Path() string { return f.path }

func (f *FFmpeg) WriteFrame(fr *pattern.Frame) error {
	if f.closed {
		return ErrClosed
	}
	b := fr.Image.Bounds()
	if b.Dx() != f.width || b.Dy() != f.height {
		return fmt.Errorf("frame is %dx%d, encoder expects %dx%d", b.Dx(), b.Dy(), f.width, f.height)
	}
	f.buf = PackRGB24(fr.Image, f.buf)
	if _, err := f.stdin.Write(f.buf); err != nil {
		return fmt.Errorf("write to ffmpeg: %w%s", err, f.detail())
	}
	return nil
}

// Close finishes the stream, waits for ffmpeg and publishes the file.
func (f *FFmpeg) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true
	err := f.stdin.Close()
	if werr := f.cmd.Wait(); werr != nil {
		err = errors.Join(err, fmt.Errorf("ffmpeg: %w%s", werr, f.detail()))
	}
	if err != nil {
		os.Remove(f.tmp)
		return err
	}
	return publish(f.tmp, f.path)
}

// Abort kills ffmpeg and removes the partial file.
func (f *FFmpeg) Abort() error {
	if f.closed {
		return nil
	}
	f.closed = true
	f.stdin.Close()
	if f.cmd.Process != nil {
		f.cmd.Process.Kill()
	}
	f.cmd.Wait()
	if err := os.Remove(f.tmp); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (f *FFmpeg) detail() string {
	if f.stderr.Len() == 0 {
		return ""
	}
	return ": " + string(bytes.TrimSpace(f.stderr.Bytes()))
}
