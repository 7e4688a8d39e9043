package tonemap

import(
	"math"

	"github.com/hdrstudy/tonebatch/pkg/tmath"
)

// A Decomposer splits log-luminance into a low-frequency base layer and a
// detail residual, using an edge-aware bilateral filter so that object
// boundaries survive into the base layer (a plain low-pass would halo once
// the base is compressed). Deterministic for identical inputs.
type Decomposer struct {
	SigmaSpace    float64   // spatial falloff, in pixels
	SigmaRange    float64   // intensity falloff, in ln-luminance units
	ExtraScales []float64   // additional spatial sigmas, averaged in to avoid single-scale ringing
	DownsampleMin int       // grids at least this wide and tall get filtered at half resolution
}

func NewDefaultDecomposer() Decomposer {
	return Decomposer{
		SigmaSpace:    16.0,
		SigmaRange:    0.4, // roughly half a stop
		ExtraScales:   []float64{8.0},
		DownsampleMin: 32,
	}
}

// Decompose takes floored linear luminance and returns (base, detail) in
// the natural-log domain. base+detail reconstructs log-luminance exactly,
// whatever the filter does.
func (d Decomposer)Decompose(lum tmath.FloatGrid) (tmath.FloatGrid, tmath.FloatGrid) {
	H := lum.Map(math.Log) // lum is floored at limg.Epsilon upstream

	base := d.baseAtScale(H, d.SigmaSpace)
	for _, sigma := range d.ExtraScales {
		b := d.baseAtScale(H, sigma)
		base = base.Add(&b)
	}
	n := float64(len(d.ExtraScales) + 1)
	base = base.Map(func(v float64) float64 { return v / n })

	detail := H.Sub(&base)
	return base, detail
}

// baseAtScale runs the bilateral filter at one spatial sigma. Large grids
// are filtered on a 2x downsample (with sigma halved to match) and
// upsampled back through a Gaussian smooth; the detail residual soaks up
// whatever the round trip loses.
func (d Decomposer)baseAtScale(H tmath.FloatGrid, sigma float64) tmath.FloatGrid {
	if H.Dx() >= d.DownsampleMin && H.Dy() >= d.DownsampleMin {
		small := H.DownSample()
		filtered := bilateral(small, sigma/2.0, d.SigmaRange)
		up := H.NewFromThis()
		filtered.UpSampleInto(&up)
		return up.GaussianBlur()
	}
	return bilateral(H, sigma, d.SigmaRange)
}

// bilateral weights each neighbour by spatial distance AND by intensity
// similarity, so contributions stop at strong luminance edges.
func bilateral(g tmath.FloatGrid, sigmaSpace, sigmaRange float64) tmath.FloatGrid {
	width := g.Dx()
	height := g.Dy()
	out := g.NewFromThis()

	radius := int(2.0*sigmaSpace + 0.5)
	if radius < 1 { radius = 1 }

	twoSigmaSpace2 := 2.0 * sigmaSpace * sigmaSpace
	twoSigmaRange2 := 2.0 * sigmaRange * sigmaRange

	// Spatial weights only depend on the offset, so build them once.
	spatial := make([][]float64, radius+1)
	for dy := 0; dy <= radius; dy++ {
		spatial[dy] = make([]float64, radius+1)
		for dx := 0; dx <= radius; dx++ {
			spatial[dy][dx] = math.Exp(-float64(dx*dx+dy*dy) / twoSigmaSpace2)
		}
	}

	for y:=0; y<height; y++ {
		for x:=0; x<width; x++ {
			center := g.Get(x, y)
			sum := 0.0
			wsum := 0.0

			y0, y1 := y-radius, y+radius
			x0, x1 := x-radius, x+radius
			if y0 < 0 { y0 = 0 }
			if x0 < 0 { x0 = 0 }
			if y1 > height-1 { y1 = height-1 }
			if x1 > width-1  { x1 = width-1 }

			for yy:=y0; yy<=y1; yy++ {
				dy := yy - y
				if dy < 0 { dy = -dy }
				for xx:=x0; xx<=x1; xx++ {
					dx := xx - x
					if dx < 0 { dx = -dx }

					v := g.Get(xx, yy)
					dv := v - center
					w := spatial[dy][dx] * math.Exp(-(dv*dv)/twoSigmaRange2)
					sum += w * v
					wsum += w
				}
			}

			out.Set(x, y, sum/wsum) // wsum >= weight of the center pixel itself
		}
	}

	return out
}
