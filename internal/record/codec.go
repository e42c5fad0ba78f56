package record

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"
)

// Format is the kind of output a Target produces.
type Format string

const (
	FormatVideo Format = "video"
	FormatGIF   Format = "gif"
	FormatPNG   Format = "png"
)

// Codec maps a fourcc name to the ffmpeg encoder that produces it.
type Codec struct {
	FourCC  string
	Encoder string
	// Exts are the containers the codec can be written to, preferred first.
	Exts []string
	Args []string
}

// Codecs are tried in order when no codec is requested.
var Codecs = []Codec{
	{FourCC: "avc1", Encoder: "libx264", Exts: []string{"mp4", "mkv"}, Args: []string{"-pix_fmt", "yuv420p", "-preset", "medium", "-crf", "18"}},
	{FourCC: "XVID", Encoder: "mpeg4", Exts: []string{"avi", "mkv"}, Args: []string{"-vtag", "xvid", "-pix_fmt", "yuv420p", "-q:v", "3"}},
	{FourCC: "MJPG", Encoder: "mjpeg", Exts: []string{"avi", "mkv"}, Args: []string{"-pix_fmt", "yuvj420p", "-q:v", "3"}},
	{FourCC: "FFV1", Encoder: "ffv1", Exts: []string{"mkv", "avi"}, Args: []string{"-pix_fmt", "bgr0", "-level", "3"}},
}

// videoExts is the container search order when the requested extension is
// missing or unknown.
var videoExts = []string{"mp4", "mkv", "avi"}

// LookupCodec finds a codec by fourcc, ignoring case.
func LookupCodec(name string) (Codec, error) {
	if len(name) != 4 {
		return Codec{}, fmt.Errorf("%w: must be 4 characters, got %q", ErrBadCodec, name)
	}
	for _, c := range Codecs {
		if strings.EqualFold(c.FourCC, name) {
			return c, nil
		}
	}
	return Codec{}, fmt.Errorf("%w: unsupported codec %q", ErrBadCodec, name)
}

// Target is a resolved output: where it goes and how it is encoded.
type Target struct {
	Path   string
	Format Format
	// Codec is set for FormatVideo only.
	Codec Codec
}

func (t Target) String() string {
	if t.Format == FormatVideo {
		return fmt.Sprintf("%s (%s)", t.Path, t.Codec.FourCC)
	}
	return fmt.Sprintf("%s (%s)", t.Path, t.Format)
}

// Resolve picks the output format for path. A .gif path writes a GIF and a
// .png path writes a numbered PNG per frame into a directory named after the
// path. Anything else is a video: with no codec the first codec that can be
// stored in the path's extension is chosen; with a codec, an extension the
// codec cannot live in is swapped for the codec's preferred one.
func Resolve(path, codec string) (Target, error) {
	if path == "" {
		return Target{}, fmt.Errorf("%w: empty output path", ErrNotWritable)
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	stem := strings.TrimSuffix(path, filepath.Ext(path))

	switch ext {
	case "gif":
		return Target{Path: path, Format: FormatGIF}, nil
	case "png":
		return Target{Path: stem, Format: FormatPNG}, nil
	}

	if codec != "" {
		c, err := LookupCodec(codec)
		if err != nil {
			return Target{}, err
		}
		if !slices.Contains(c.Exts, ext) {
			ext = c.Exts[0]
		}
		return Target{Path: stem + "." + ext, Format: FormatVideo, Codec: c}, nil
	}

	// Keep the requested extension when any codec can live in it.
	order := append([]string{ext}, videoExts...)
	for _, e := range order {
		for _, c := range Codecs {
			if slices.Contains(c.Exts, e) {
				return Target{Path: stem + "." + e, Format: FormatVideo, Codec: c}, nil
			}
		}
	}
	return Target{}, fmt.Errorf("%w: no codec for %q", ErrBadCodec, path)
}
