package viz

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const upperHalf = "▀"

// CellSize returns the terminal grid a w x h image is drawn into when it may
// use at most maxCols columns. Each cell shows two vertically stacked pixels.
func CellSize(w, h, maxCols int) (cols, rows int) {
	if w <= 0 || h <= 0 {
		return 0, 0
	}
	cols = w
	if maxCols > 0 && cols > maxCols {
		cols = maxCols
	}
	// Terminal cells are roughly twice as tall as wide, and each cell
	// carries two pixels, so rows follow the image aspect directly.
	rows = (h*cols/w + 1) / 2
	if rows < 1 {
		rows = 1
	}
	return cols, rows
}

// HalfBlocks renders img as coloured upper-half-block characters, sampling
// it with nearest-neighbour scaling into at most maxCols columns.
func HalfBlocks(img *image.RGBA, maxCols int) string {
	b := img.Bounds()
	cols, rows := CellSize(b.Dx(), b.Dy(), maxCols)
	if cols == 0 {
		return ""
	}

	var sb strings.Builder
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			x := b.Min.X + c*b.Dx()/cols
			top := b.Min.Y + (2*r)*b.Dy()/(2*rows)
			bot := b.Min.Y + (2*r+1)*b.Dy()/(2*rows)
			cell := lipgloss.NewStyle().
				Foreground(hexOf(img.RGBAAt(x, top))).
				Background(hexOf(img.RGBAAt(x, bot)))
			sb.WriteString(cell.Render(upperHalf))
		}
		if r < rows-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func hexOf(c color.RGBA) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B))
}
