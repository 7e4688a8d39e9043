package limg

import(
	"github.com/hdrstudy/tonebatch/pkg/tmath"
)

// Rec.709 luma weights, the fixed decomposition basis for the pipeline.
const(
	LumaR = 0.2126
	LumaG = 0.7152
	LumaB = 0.0722

	// Epsilon is the luminance floor. Luminance is stored floored at this
	// value, so chroma ratios stay finite in near-black pixels and
	// Split/Recombine is an exact round trip.
	Epsilon = 1e-6
)

// A ChromaField holds per-pixel ratios of each channel to luminance.
// Multiplying by a (possibly adjusted) luminance restores linear RGB.
type ChromaField struct {
	R, G, B tmath.FloatGrid
}

// Split decomposes a linear image into a scalar luminance field and the
// chroma ratios needed to restore color afterwards. Pure function.
func Split(li *LinearImage) (tmath.FloatGrid, *ChromaField, error) {
	b := li.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return tmath.FloatGrid{}, nil, DegenerateImageError{b.Dx(), b.Dy()}
	}

	lum := tmath.NewFloatGrid(b.Dx(), b.Dy())
	chroma := &ChromaField{
		R: tmath.NewFloatGrid(b.Dx(), b.Dy()),
		G: tmath.NewFloatGrid(b.Dx(), b.Dy()),
		B: tmath.NewFloatGrid(b.Dx(), b.Dy()),
	}

	for y:=0; y<b.Dy(); y++ {
		for x:=0; x<b.Dx(); x++ {
			r, g, bb := li.RGBAt(x, y)
			l := LumaR*r + LumaG*g + LumaB*bb
			if l < Epsilon { l = Epsilon }

			lum.Set(x, y, l)
			chroma.R.Set(x, y, r/l)
			chroma.G.Set(x, y, g/l)
			chroma.B.Set(x, y, bb/l)
		}
	}

	return lum, chroma, nil
}

// Recombine multiplies the chroma ratios by the given luminance. It is the
// exact inverse of Split when the luminance is unmodified.
func Recombine(lum tmath.FloatGrid, chroma *ChromaField) *LinearImage {
	li, _ := NewLinearImage(lum.Dx(), lum.Dy())

	for y:=0; y<lum.Dy(); y++ {
		for x:=0; x<lum.Dx(); x++ {
			l := lum.Get(x, y)
			li.SetRGB(x, y,
				chroma.R.Get(x, y)*l,
				chroma.G.Get(x, y)*l,
				chroma.B.Get(x, y)*l)
		}
	}

	return li
}
