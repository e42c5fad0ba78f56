package record

import "fmt"

// Open builds the sink for target.
func Open(target Target, width, height int, fps float64) (Sink, error) {
	switch target.Format {
	case FormatVideo:
		return NewFFmpeg(target, width, height, fps)
	case FormatGIF:
		return NewGIF(target.Path, fps)
	case FormatPNG:
		return NewPNGSequence(target.Path)
	}
	return nil, fmt.Errorf("unknown output format %q", target.Format)
}
