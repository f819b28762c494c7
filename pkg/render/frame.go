package render

import (
	"image"
	"image/color"
)

// Frame is a rendered color+opacity image. Pix holds RGBA quads in
// row-major order, each channel in [0,1].
type Frame struct {
	Width  int
	Height int
	Pix    []float64
}

// NewFrame allocates a transparent frame
func NewFrame(width, height int) *Frame {
	return &Frame{Width: width, Height: height, Pix: make([]float64, width*height*4)}
}

// At returns the RGBA quad at a pixel
func (f *Frame) At(x, y int) (r, g, b, a float64) {
	i := (y*f.Width + x) * 4
	return f.Pix[i], f.Pix[i+1], f.Pix[i+2], f.Pix[i+3]
}

func (f *Frame) set(x, y int, rgba [4]float64) {
	i := (y*f.Width + x) * 4
	f.Pix[i] = rgba[0]
	f.Pix[i+1] = rgba[1]
	f.Pix[i+2] = rgba[2]
	f.Pix[i+3] = rgba[3]
}

// ToImage converts the frame to an 8-bit NRGBA image
func (f *Frame) ToImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, f.Width, f.Height))
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			r, g, b, a := f.At(x, y)
			img.SetNRGBA(x, y, color.NRGBA{
				R: to8(r),
				G: to8(g),
				B: to8(b),
				A: to8(a),
			})
		}
	}
	return img
}

func to8(v float64) uint8 {
	v = clamp01(v)
	return uint8(v*255 + 0.5)
}
