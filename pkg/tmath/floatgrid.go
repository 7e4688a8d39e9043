package tmath

import(
	"fmt"
	"image"
	"image/color"
	"math"
	"sort"

	"github.com/fogleman/gg"
	"gonum.org/v1/gonum/stat"
)

// A FloatGrid is a single-channel grid of float64 values, the working
// representation for luminance and the log-domain layers derived from it.
type FloatGrid struct {
	stride int
	values []float64
}

func NewFloatGrid(w, h int) FloatGrid {
	return FloatGrid{
		stride: w,
		values: make([]float64, w*h),
	}
}

func (g1 *FloatGrid)NewFromThis() FloatGrid  { return NewFloatGrid(g1.Dx(), g1.Dy()) }
func (fg *FloatGrid)Set(x, y int, v float64) { fg.values[fg.stride*y + x] = v }
func (fg *FloatGrid)Get(x, y int) float64    { return fg.values[fg.stride*y + x] }
func (fg *FloatGrid)Dx() int                 { return fg.stride }
func (fg *FloatGrid)Dy() int                 { return len(fg.values) / fg.stride }

func (g1 *FloatGrid)Copy() FloatGrid {
	g2 := FloatGrid{stride: g1.stride, values: make([]float64, len(g1.values))}
	copy(g2.values, g1.values)
	return g2
}

// Map returns a new grid with `f` applied to every value.
func (g1 *FloatGrid)Map(f func(float64) float64) FloatGrid {
	g2 := g1.Copy()
	for i := range g2.values {
		g2.values[i] = f(g2.values[i])
	}
	return g2
}

// Add returns g1+g2, which must have identical dimensions.
func (g1 *FloatGrid)Add(g2 *FloatGrid) FloatGrid {
	g3 := g1.Copy()
	for i := range g3.values {
		g3.values[i] += g2.values[i]
	}
	return g3
}

// Sub returns g1-g2, which must have identical dimensions.
func (g1 *FloatGrid)Sub(g2 *FloatGrid) FloatGrid {
	g3 := g1.Copy()
	for i := range g3.values {
		g3.values[i] -= g2.values[i]
	}
	return g3
}

// Quantile returns the value at quantile p (0.0 -> 1.0) over all grid values.
func (fg *FloatGrid)Quantile(p float64) float64 {
	vals := make([]float64, len(fg.values))
	copy(vals, fg.values)
	sort.Float64s(vals)
	return stat.Quantile(p, stat.Empirical, vals, nil)
}

func (fg *FloatGrid)MinMax() (float64, float64) {
	min := math.MaxFloat64
	max := -1.0 * min

	for i := 0; i < len(fg.values); i++ {
		if fg.values[i] > max { max = fg.values[i] }
		if fg.values[i] < min { min = fg.values[i] }
	}
	return min, max
}

// GaussianBlur applies a separable [1 2 1]/4 kernel in each axis, with
// reflective handling at the borders.
func (g1 FloatGrid)GaussianBlur() FloatGrid {
	width := g1.Dx()
	height := g1.Dy()
	g2 := g1.NewFromThis()
	T := g1.NewFromThis()

	if width < 2 || height < 2 {
		return g1.Copy()
	}

	//--- X blur, build up in T
	for y:=0; y<height; y++ {
		for x:=1; x<width-1; x++ {
			t := 2.0*g1.Get(x,y)
			t += g1.Get(x-1,y)
			t += g1.Get(x+1,y)
			T.Set(x, y, t/4.0)
		}
		T.Set(0, y,       (3.0*g1.Get(0,      y) + g1.Get(1,      y)) / 4.0)
		T.Set(width-1, y, (3.0*g1.Get(width-1,y) + g1.Get(width-2,y)) / 4.0)
	}

	//--- Y blur, read from T and generate output
	for x:=0; x<width; x++ {
		for y:=1; y<height-1; y++ {
			t := 2.0*T.Get(x,y)
			t += T.Get(x,y-1)
			t += T.Get(x,y+1)
			g2.Set(x, y, t/4.0)
		}
		g2.Set(x, 0,        (3.0*T.Get(x,       0) + T.Get(x,       1)) / 4.0)
		g2.Set(x, height-1, (3.0*T.Get(x,height-1) + T.Get(x,height-2)) / 4.0)
	}

	return g2
}

// DownSample returns a grid of half the dimensions, each value the average
// of a 2x2 block in the original.
func (g1 *FloatGrid)DownSample() FloatGrid {
	width := g1.Dx() / 2
	height := g1.Dy() / 2
	g2 := NewFloatGrid(width, height)

	for y:=0; y<height; y++ {
		for x:=0; x<width; x++ {
			p := g1.Get(2*x,   2*y)
			p += g1.Get(2*x+1, 2*y)
			p += g1.Get(2*x,   2*y+1)
			p += g1.Get(2*x+1, 2*y+1)
			g2.Set(x, y, p/4.0)
		}
	}

	return g2
}

// UpSampleInto populates `B`, assumed to be ~2x the size of `A`, by copying
// each value of `A` into a 2x2 block of `B`. Callers usually follow up with
// a GaussianBlur to soften the blocks.
func (A *FloatGrid)UpSampleInto(B *FloatGrid) {
	awidth := A.Dx()
	aheight := A.Dy()
	width := B.Dx()
	height := B.Dy()

	for y:=0; y<height; y++ {
		for x:=0; x<width; x++ {
			ax := x/2
			ay := y/2
			if ax >= awidth  { ax = awidth-1 }
			if ay >= aheight { ay = aheight-1 }
			B.Set(x, y, A.Get(ax, ay))
		}
	}
}

func (fg *FloatGrid)Stats() string {
	min, max := fg.MinMax()
	return fmt.Sprintf("fg[%dx%d, vals{%f,%f}]", fg.Dx(), fg.Dy(), min, max)
}

// ToImg saves the grid as a labelled greyscale PNG, range-normalized and
// gamma scaled to look sane to human vision. Debugging only.
func (fg *FloatGrid)ToImg(title, filename string) {
	min, max := fg.MinMax()
	if max <= min {
		max = min + 1.0
	}

	img := image.NewRGBA64(image.Rectangle{Max: image.Point{fg.Dx(), fg.Dy()}})
	for x:=0; x<fg.Dx(); x++ {
		for y:=0; y<fg.Dy(); y++ {
			gray := LinearToSRGB((fg.Get(x,y) - min) / (max - min))
			col := color.RGBA64{uint16(gray * 65535.0), uint16(gray * 65535.0), uint16(gray * 65535.0), 0xFFFF}
			img.Set(x, y, col)
		}
	}

	dc := gg.NewContextForImage(img)
	dc.SetRGB(1, 1, 1)
	dc.DrawString(title, 50, 50)
	dc.SavePNG(filename)
}
