package tonemap

import(
	"fmt"
	"image"
	"log"
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/mdouchement/hdr/tmo"

	"github.com/hdrstudy/tonebatch/pkg/limg"
	"github.com/hdrstudy/tonebatch/pkg/tmath"
)

// BaseDetail is the full local tone-mapping pipeline for one (image,
// parameters) pair: split luminance from chroma, decompose log-luminance
// into base and detail, compress the base and boost the detail, then
// recombine, clip and encode to 8-bit sRGB. Every stage is a pure function
// of the inputs; an operator is used for exactly one run.
type BaseDetail struct {
	Params     ToneParameters
	Decomposer Decomposer

	DumpGrids  bool   // write greyscale PNGs of the intermediate grids
	DumpPrefix string

	Input  *limg.LinearImage
	Output image.Image
}

var _ tmo.ToneMappingOperator = (*BaseDetail)(nil)

func NewBaseDetail(img *limg.LinearImage, params ToneParameters) *BaseDetail {
	return &BaseDetail{
		Params:     params,
		Decomposer: NewDefaultDecomposer(),
		Input:      img,
	}
}

// Perform implements mdouchement/hdr/tmo:ToneMappingOperator. Errors are
// impossible for a well-formed LinearImage; they are logged and yield nil.
func (op *BaseDetail)Perform() image.Image {
	out, err := op.Run()
	if err != nil {
		log.Printf("tonemap (%s): %v", op.Params, err)
		return nil
	}
	return out
}

// Run executes the pipeline and returns the 8-bit output image.
func (op *BaseDetail)Run() (*image.RGBA, error) {
	if err := op.Params.Validate(); err != nil {
		return nil, err
	}

	lum, chroma, err := limg.Split(op.Input)
	if err != nil {
		return nil, err
	}

	// The minimal preset is the study's unprocessed control: a plain
	// linear scale to the display range, no curve, no detail work.
	if op.Params.IsMinimal() {
		_, maxLum := lum.MinMax()
		disp := lum.Map(func(v float64) float64 { return v / maxLum })
		op.Output = op.encode(disp, chroma)
		return op.Output.(*image.RGBA), nil
	}

	base, detail := op.Decomposer.Decompose(lum)
	op.maybeDumpGrid(&base, "base layer", "001-base")
	op.maybeDumpGrid(&detail, "detail layer", "002-detail")

	curve := NewToneCurve(&base, op.Params)
	cbase := curve.CompressBase(base)
	cdetail := curve.BoostDetail(detail)
	op.maybeDumpGrid(&cbase, "compressed base", "003-compressed-base")

	recon := Reconstruct(cbase, cdetail)

	// Land the white point on display 1.0. The knee keeps compressed base
	// values strictly below W, so base-layer luminance never clips; only
	// boosted detail can poke above, and the encode clip saturates that.
	scale := math.Exp(-curve.WhitePoint)
	disp := recon.Map(func(v float64) float64 { return v * scale })
	op.maybeDumpGrid(&disp, "display luminance", "004-display-luminance")

	op.Output = op.encode(disp, chroma)
	return op.Output.(*image.RGBA), nil
}

// encode recombines chroma with the adjusted luminance, clips to the
// display range (saturating - the one lossy step), applies the sRGB
// transfer and quantizes to 8 bits per channel.
func (op *BaseDetail)encode(lum tmath.FloatGrid, chroma *limg.ChromaField) *image.RGBA {
	li := limg.Recombine(lum, chroma)
	b := li.Bounds()
	out := image.NewRGBA(b)

	for y:=0; y<b.Dy(); y++ {
		for x:=0; x<b.Dx(); x++ {
			r, g, bb := li.RGBAt(x, y)
			c := colorful.LinearRgb(clip01(r), clip01(g), clip01(bb))
			r8, g8, b8 := c.Clamped().RGB255()
			i := out.PixOffset(x, y)
			out.Pix[i+0] = r8
			out.Pix[i+1] = g8
			out.Pix[i+2] = b8
			out.Pix[i+3] = 0xFF
		}
	}

	return out
}

func clip01(f float64) float64 {
	if f < 0.0 { return 0.0 }
	if f > 1.0 { return 1.0 }
	return f
}

func (op *BaseDetail)maybeDumpGrid(g *tmath.FloatGrid, comment, stem string) {
	if op.DumpGrids {
		g.ToImg(comment, fmt.Sprintf("%s%s.png", op.DumpPrefix, stem))
	}
}
