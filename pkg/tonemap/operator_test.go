package tonemap

import(
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hdrstudy/tonebatch/pkg/limg"
)

// studyScene is the synthetic capture from the acceptance checklist: a
// midtone field with one blown highlight and one deep shadow.
func studyScene(t *testing.T) *limg.LinearImage {
	li, err := limg.NewLinearImage(4, 4)
	require.NoError(t, err)

	for y:=0; y<4; y++ {
		for x:=0; x<4; x++ {
			li.SetRGB(x, y, 0.2, 0.2, 0.2)
		}
	}
	li.SetRGB(0, 0, 100.0, 100.0, 100.0) // far above display max
	li.SetRGB(3, 3, 0.002, 0.002, 0.002) // deep shadow
	return li
}

func encodedGray(t *testing.T, img *limg.LinearImage, params ToneParameters, x, y int) uint8 {
	op := NewBaseDetail(img, params)
	out, err := op.Run()
	require.NoError(t, err)

	i := out.PixOffset(x, y)
	r, g, b := out.Pix[i], out.Pix[i+1], out.Pix[i+2]
	assert.Equal(t, r, g)
	assert.Equal(t, g, b)
	return r
}

func TestMinimalPresetIsLinearControl(t *testing.T) {
	li := studyScene(t)
	minimal := DefaultPresets()[0].ToneParameters

	op := NewBaseDetail(li, minimal)
	out, err := op.Run()
	require.NoError(t, err)

	// brightest pixel lands exactly on display max
	i := out.PixOffset(0, 0)
	assert.Equal(t, uint8(0xFF), out.Pix[i])

	// a 0.2 midtone scaled by 1/100 is nearly black but nonzero
	mid := out.Pix[out.PixOffset(1, 1)]
	assert.Less(t, mid, uint8(40))
}

func TestShadowLiftBeatsMinimalPreset(t *testing.T) {
	li := studyScene(t)
	presets := DefaultPresets()

	control := encodedGray(t, li, presets[0].ToneParameters, 3, 3)
	lifted := encodedGray(t, li, presets[5].ToneParameters, 3, 3)

	assert.Greater(t, lifted, control, "preset 6 must lift the deep shadow above the control")
}

func TestHighlightIsCompressedNotClipped(t *testing.T) {
	li := studyScene(t)
	presets := DefaultPresets()

	seen := map[uint8]bool{}
	for _, p := range presets[1:] {
		hl := encodedGray(t, li, p.ToneParameters, 0, 0)

		// The raw linearly-scaled value (100.0 times 2^stops against a 1.0
		// ceiling) would pin at 255; the knee must land below that.
		assert.Less(t, hl, uint8(0xFF), "%s: highlight clipped to display max", p.Name)
		seen[hl] = true
	}

	// higher stops measurably change the highlight rather than clipping
	// identically across presets
	assert.Greater(t, len(seen), 1, "all presets encoded the highlight identically")
}

func TestRunRejectsBadParameters(t *testing.T) {
	li := studyScene(t)

	op := NewBaseDetail(li, ToneParameters{ShadowGamma: -1.0, Stops: 0.0})
	_, err := op.Run()
	require.Error(t, err)
	assert.IsType(t, ConfigurationError{}, err)
}

func TestOutputDimensionsAndOpacity(t *testing.T) {
	li, err := limg.NewLinearImage(5, 3)
	require.NoError(t, err)
	for y:=0; y<3; y++ {
		for x:=0; x<5; x++ {
			li.SetRGB(x, y, 0.1*float64(x+1), 0.2, 0.3)
		}
	}

	op := NewBaseDetail(li, DefaultPresets()[3].ToneParameters)
	out, err := op.Run()
	require.NoError(t, err)

	assert.Equal(t, 5, out.Bounds().Dx())
	assert.Equal(t, 3, out.Bounds().Dy())
	for y:=0; y<3; y++ {
		for x:=0; x<5; x++ {
			assert.Equal(t, uint8(0xFF), out.Pix[out.PixOffset(x, y)+3])
		}
	}
}
