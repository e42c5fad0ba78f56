package pattern

import (
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
)

var (
	highContrast = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	lowContrast  = color.RGBA{R: 50, G: 50, B: 50, A: 255}
)

// Label placement inside its cell, as a fraction of the cell size.
const (
	labelX = 0.1
	labelY = 0.75
)

// typeface caches sized faces of the bold Go font.
type typeface struct {
	font  *truetype.Font
	faces map[int]font.Face
}

func newTypeface() (*typeface, error) {
	f, err := truetype.Parse(gobold.TTF)
	if err != nil {
		return nil, err
	}
	return &typeface{font: f, faces: make(map[int]font.Face)}, nil
}

// faceFor returns a face that fits a short label in a cell of the given size.
func (tf *typeface) faceFor(cell image.Rectangle) font.Face {
	size := int(math.Max(6, math.Min(float64(cell.Dy())*0.55, float64(cell.Dx())*0.3)))
	if f, ok := tf.faces[size]; ok {
		return f
	}
	f := truetype.NewFace(tf.font, &truetype.Options{
		Size:    float64(size),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	tf.faces[size] = f
	return f
}

// drawLabel renders text into cell, clipped to it.
func drawLabel(dc *gg.Context, cell image.Rectangle, text string, c color.Color, face font.Face) {
	dc.Push()
	defer dc.Pop()
	dc.DrawRectangle(float64(cell.Min.X), float64(cell.Min.Y), float64(cell.Dx()), float64(cell.Dy()))
	dc.Clip()
	dc.SetFontFace(face)
	dc.SetColor(c)
	x := float64(cell.Min.X) + labelX*float64(cell.Dx()-1)
	y := float64(cell.Min.Y) + labelY*float64(cell.Dy()-1)
	dc.DrawString(text, math.Round(x), math.Round(y))
	dc.ResetClip()
}

// drawDot renders a filled white circle.
func drawDot(dc *gg.Context, x, y, r float64) {
	dc.Push()
	defer dc.Pop()
	dc.DrawCircle(x, y, r)
	dc.SetRGB(1, 1, 1)
	dc.Fill()
}
