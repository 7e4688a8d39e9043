package tonemap

import(
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hdrstudy/tonebatch/pkg/tmath"
)

func testBase() tmath.FloatGrid {
	// a plausible base layer: log-luminances from deep shadow to a hot highlight
	g := tmath.NewFloatGrid(10, 10)
	for y:=0; y<10; y++ {
		for x:=0; x<10; x++ {
			g.Set(x, y, -8.0+0.12*float64(y*10+x))
		}
	}
	g.Set(9, 9, 4.0)
	return g
}

func TestValidateParameters(t *testing.T) {
	assert.NoError(t, ToneParameters{ShadowGamma: 1.0, Stops: 0.0}.Validate())
	assert.NoError(t, ToneParameters{ShadowGamma: 2.5, Stops: -1.0}.Validate())

	for _, bad := range []ToneParameters{
		{ShadowGamma: 0.0, Stops: 0.0},
		{ShadowGamma: -1.0, Stops: 1.0},
		{ShadowGamma: math.NaN(), Stops: 0.0},
		{ShadowGamma: 1.0, Stops: math.Inf(1)},
	} {
		err := bad.Validate()
		require.Error(t, err)
		assert.IsType(t, ConfigurationError{}, err)
	}
}

func TestDefaultPresetTable(t *testing.T) {
	presets := DefaultPresets()
	require.Len(t, presets, 6)
	require.NoError(t, ValidatePresets(presets))

	assert.True(t, presets[0].IsMinimal())
	for _, p := range presets[1:] {
		assert.False(t, p.IsMinimal())
	}

	// the published table
	assert.Equal(t, ToneParameters{1.15, 0.5}, presets[1].ToneParameters)
	assert.Equal(t, ToneParameters{2.0, 2.0}, presets[5].ToneParameters)
}

func TestValidatePresetsRejectsBadTable(t *testing.T) {
	assert.Error(t, ValidatePresets(nil))

	bad := DefaultPresets()
	bad[3].ShadowGamma = -2.0
	err := ValidatePresets(bad)
	require.Error(t, err)
	assert.IsType(t, ConfigurationError{}, err)
}

func TestCurveMonotoneAndBounded(t *testing.T) {
	base := testBase()

	for _, p := range DefaultPresets() {
		tc := NewToneCurve(&base, p.ToneParameters)

		last := math.Inf(-1)
		for b := -20.0; b <= 10.0; b += 0.005 {
			v := tc.MapValue(b)
			assert.True(t, v >= last, "%s: curve decreases at b=%f", p.Name, b)
			assert.Less(t, v, tc.WhitePoint, "%s: output reached the white point at b=%f", p.Name, b)
			last = v
		}
	}
}

func TestCurveContinuousAtMidtone(t *testing.T) {
	base := testBase()

	for _, p := range DefaultPresets() {
		tc := NewToneCurve(&base, p.ToneParameters)
		// the input whose pushed value lands exactly on the anchor
		b := tc.Midtone - p.Stops*math.Ln2

		below := tc.MapValue(b - 1e-9)
		above := tc.MapValue(b + 1e-9)
		assert.InDelta(t, tc.Midtone, below, 1e-8)
		assert.InDelta(t, tc.Midtone, above, 1e-8)
	}
}

func TestShadowLiftMonotoneInGamma(t *testing.T) {
	base := testBase()
	stops := 1.0

	gammas := []float64{1.0, 1.15, 1.25, 1.5, 1.75, 2.0}
	for _, b := range []float64{-12.0, -9.0, -7.0} { // all far below the midtone
		last := math.Inf(-1)
		for _, g := range gammas {
			tc := NewToneCurve(&base, ToneParameters{ShadowGamma: g, Stops: stops})
			v := tc.MapValue(b)
			assert.Greater(t, v, last, "gamma=%f did not lift b=%f", g, b)
			last = v
		}
	}
}

func TestDetailGainBounded(t *testing.T) {
	base := testBase()

	assert.Equal(t, 1.0, NewToneCurve(&base, ToneParameters{1.0, 0.0}).DetailGain())
	assert.InDelta(t, 1.125, NewToneCurve(&base, ToneParameters{1.15, 0.5}).DetailGain(), 1e-12)
	assert.InDelta(t, 1.5, NewToneCurve(&base, ToneParameters{2.0, 2.0}).DetailGain(), 1e-12)

	// never amplified past the cap, never below identity
	assert.Equal(t, 1.5, NewToneCurve(&base, ToneParameters{1.0, 10.0}).DetailGain())
	assert.Equal(t, 1.0, NewToneCurve(&base, ToneParameters{1.0, -3.0}).DetailGain())
}

func TestHigherStopsCompressHighlightsHarder(t *testing.T) {
	base := testBase()
	b := 3.5 // well above the midtone

	// The pushed input rises with stops, but the mapped output stays below
	// the white point and the *margin* from the uncompressed push grows.
	for _, p := range DefaultPresets()[1:] {
		tc := NewToneCurve(&base, p.ToneParameters)
		pushed := b + p.Stops*math.Ln2
		v := tc.MapValue(b)
		assert.Less(t, v, tc.WhitePoint)
		assert.Greater(t, pushed-v, p.Stops*math.Ln2*0.5,
			"%s: knee hardly compressed a hot highlight", p.Name)
	}
}

func TestReconstructExponentiates(t *testing.T) {
	base := tmath.NewFloatGrid(2, 1)
	detail := tmath.NewFloatGrid(2, 1)
	base.Set(0, 0, 0.0)
	base.Set(1, 0, 1.0)
	detail.Set(1, 0, 0.5)

	lum := Reconstruct(base, detail)
	assert.InDelta(t, 1.0, lum.Get(0, 0), 1e-12)
	assert.InDelta(t, math.Exp(1.5), lum.Get(1, 0), 1e-12)
}
