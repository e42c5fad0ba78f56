package record

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

// minValidSize is the smallest output considered a real recording. Encoders
// given a codec/container pair they cannot handle tend to leave a stub file
// behind instead of failing.
const minValidSize = 500

// CheckWritable fails when the directory that will hold path cannot be
// created or written to. It is meant to run before the first frame.
func CheckWritable(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("%w: %v", ErrNotWritable, err)
	}
	f, err := os.CreateTemp(dir, ".testpatterns-check-*")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNotWritable, err)
	}
	name := f.Name()
	f.Close()
	return os.Remove(name)
}

// tempPath is a hidden sibling of path used while the output is written.
func tempPath(path string) string {
	dir, base := filepath.Split(path)
	return filepath.Join(dir, "."+base+".part")
}

// publish moves a finished temporary output into place and warns when the
// result is suspiciously small.
func publish(tmp, path string) error {
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("publish %s: %w", path, err)
	}
	warnIfSmall(path)
	return nil
}

func warnIfSmall(path string) {
	info, err := os.Stat(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			slog.Warn("cannot stat output", "path", path, "err", err)
		}
		return
	}
	if !info.IsDir() && info.Size() < minValidSize {
		slog.Warn("output is smaller than expected and may be corrupt; check the codec and file extension",
			"path", path, "bytes", info.Size())
	}
}
