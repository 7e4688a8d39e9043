package limg

import(
	"fmt"
	"image"
	"image/color"

	"github.com/mdouchement/hdr"
	"github.com/mdouchement/hdr/hdrcolor"
)

// A LinearImage is a decoded HDR source frame: a grid of linear RGB
// float values, normalized so 1.0 is the nominal sensor maximum but with
// no upper bound. It is built once by a decoder and never mutated by the
// pipeline. Implements image.Image and hdr.Image.
type LinearImage struct {
	width  int
	height int
	pix    []float64 // 3 floats per pixel, RGB
}

// A DegenerateImageError means the input had no pixels to process. The
// offending image is skipped; the batch carries on.
type DegenerateImageError struct {
	Width, Height int
}

func (e DegenerateImageError)Error() string {
	return fmt.Sprintf("degenerate image: %dx%d has no pixels", e.Width, e.Height)
}

func NewLinearImage(w, h int) (*LinearImage, error) {
	if w <= 0 || h <= 0 {
		return nil, DegenerateImageError{w, h}
	}
	return &LinearImage{
		width:  w,
		height: h,
		pix:    make([]float64, 3*w*h),
	}, nil
}

// Implement image.Image
func (li *LinearImage)ColorModel() color.Model { return hdrcolor.RGBModel }
func (li *LinearImage)Bounds() image.Rectangle { return image.Rect(0, 0, li.width, li.height) }
func (li *LinearImage)At(x, y int) color.Color { return li.HDRAt(x, y) }

// Implement hdr.Image
func (li *LinearImage)HDRAt(x, y int) hdrcolor.Color {
	r, g, b := li.RGBAt(x, y)
	return hdrcolor.RGB{R: r, G: g, B: b}
}
func (li *LinearImage)Size() int { return li.width * li.height }

func (li *LinearImage)RGBAt(x, y int) (float64, float64, float64) {
	i := 3 * (y*li.width + x)
	return li.pix[i], li.pix[i+1], li.pix[i+2]
}

func (li *LinearImage)SetRGB(x, y int, r, g, b float64) {
	i := 3 * (y*li.width + x)
	li.pix[i], li.pix[i+1], li.pix[i+2] = r, g, b
}

// FromImage converts any decoded image into a LinearImage, treating the
// 16-bit channel values as already-linear. This is the seam where an
// upstream raw decoder hands its output to the pipeline.
func FromImage(src image.Image) (*LinearImage, error) {
	b := src.Bounds()
	li, err := NewLinearImage(b.Dx(), b.Dy())
	if err != nil {
		return nil, err
	}

	if h, ok := src.(hdr.Image); ok {
		for y:=0; y<li.height; y++ {
			for x:=0; x<li.width; x++ {
				r, g, bb, _ := h.HDRAt(x+b.Min.X, y+b.Min.Y).HDRRGBA()
				li.SetRGB(x, y, nonNeg(r), nonNeg(g), nonNeg(bb))
			}
		}
		return li, nil
	}

	for y:=0; y<li.height; y++ {
		for x:=0; x<li.width; x++ {
			r, g, bb, _ := src.At(x+b.Min.X, y+b.Min.Y).RGBA()
			li.SetRGB(x, y,
				float64(r)/float64(0xFFFF),
				float64(g)/float64(0xFFFF),
				float64(bb)/float64(0xFFFF))
		}
	}
	return li, nil
}

func nonNeg(f float64) float64 {
	if f < 0.0 { return 0.0 }
	return f
}
