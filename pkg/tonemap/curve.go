package tonemap

import(
	"math"

	"github.com/hdrstudy/tonebatch/pkg/tmath"
)

// A ToneCurve is the log-domain mapping applied to the base layer, anchored
// on the statistics of the image it was built for. The curve:
//
//	u = b + stops*ln2                              (exposure push)
//	u <  m:  v = m - (m-u)/gamma                   (shadow lift)
//	u >= m:  v = m + H*(1 - exp(-(u-m)/H))         (soft-knee roll-off)
//
// where m is the base-layer median and H = W - m is the log headroom up to
// the pre-push white point W (its 99.5th percentile). Both pieces meet at
// v=m, so the curve is continuous and non-decreasing everywhere, and the
// highlight piece asymptotically approaches W without ever reaching it.
// Because W is measured before the exposure push, higher stops push more
// of the range into the knee, compressing highlights proportionally
// instead of letting them wash out.
type ToneCurve struct {
	Params     ToneParameters
	Midtone    float64 // m: the mid-tone anchor
	WhitePoint float64 // W: log-luminance that maps to display max
}

// NewToneCurve anchors a curve on the given base layer.
func NewToneCurve(base *tmath.FloatGrid, params ToneParameters) ToneCurve {
	m := base.Quantile(0.50)
	w := base.Quantile(0.995)
	if w <= m {
		w = m + math.Ln2 // degenerate spread (e.g. flat field); keep one stop of headroom
	}
	return ToneCurve{Params: params, Midtone: m, WhitePoint: w}
}

// MapValue maps one log-domain base value through the curve.
func (tc ToneCurve)MapValue(b float64) float64 {
	u := b + tc.Params.Stops*math.Ln2
	if u < tc.Midtone {
		return tc.Midtone - (tc.Midtone-u)/tc.Params.ShadowGamma
	}
	h := tc.WhitePoint - tc.Midtone
	return tc.Midtone + h*(1.0-math.Exp(-(u-tc.Midtone)/h))
}

// CompressBase applies the curve to a whole base layer. Pure and pointwise.
func (tc ToneCurve)CompressBase(base tmath.FloatGrid) tmath.FloatGrid {
	return base.Map(tc.MapValue)
}

// DetailGain is the multiplicative compensation for local contrast that
// base compression washes out: larger exposure pushes compress the base
// harder, so they earn more detail gain. Capped so sensor noise in the
// detail layer is not amplified into visible artifacts.
func (tc ToneCurve)DetailGain() float64 {
	g := 1.0 + tc.Params.Stops/4.0
	if g > 1.5 { g = 1.5 }
	if g < 1.0 { g = 1.0 }
	return g
}

// BoostDetail scales the detail layer by DetailGain. Pure and pointwise.
func (tc ToneCurve)BoostDetail(detail tmath.FloatGrid) tmath.FloatGrid {
	gain := tc.DetailGain()
	return detail.Map(func(v float64) float64 { return v * gain })
}

// Reconstruct exponentiates compressed base + boosted detail back out of
// the log domain into linear luminance.
func Reconstruct(base, detail tmath.FloatGrid) tmath.FloatGrid {
	sum := base.Add(&detail)
	return sum.Map(math.Exp)
}
