package limg

import(
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLinearImageRejectsZeroArea(t *testing.T) {
	for _, dims := range [][2]int{{0, 4}, {4, 0}, {0, 0}, {-1, 4}} {
		_, err := NewLinearImage(dims[0], dims[1])
		require.Error(t, err)
		assert.IsType(t, DegenerateImageError{}, err)
	}
}

func TestLuminanceWeights(t *testing.T) {
	li, err := NewLinearImage(3, 1)
	require.NoError(t, err)
	li.SetRGB(0, 0, 1, 0, 0)
	li.SetRGB(1, 0, 0, 1, 0)
	li.SetRGB(2, 0, 0, 0, 1)

	lum, _, err := Split(li)
	require.NoError(t, err)

	assert.InDelta(t, 0.2126, lum.Get(0, 0), 1e-12)
	assert.InDelta(t, 0.7152, lum.Get(1, 0), 1e-12)
	assert.InDelta(t, 0.0722, lum.Get(2, 0), 1e-12)
}

func TestSplitRecombineRoundTrip(t *testing.T) {
	li, err := NewLinearImage(4, 3)
	require.NoError(t, err)

	// a mix of HDR values, a saturated primary, and a true black
	vals := [][3]float64{
		{0.5, 0.5, 0.5}, {12.0, 3.0, 0.25}, {1.0, 0.0, 0.0}, {0.0, 0.0, 0.0},
		{0.01, 0.02, 0.03}, {100.0, 100.0, 100.0}, {2.5, 0.1, 7.0}, {0.2, 0.2, 0.2},
		{0.0, 5.0, 0.0}, {1e-7, 1e-7, 1e-7}, {0.9, 0.4, 0.1}, {3.0, 3.0, 3.0},
	}
	for i, v := range vals {
		li.SetRGB(i%4, i/4, v[0], v[1], v[2])
	}

	lum, chroma, err := Split(li)
	require.NoError(t, err)

	back := Recombine(lum, chroma)
	for y:=0; y<3; y++ {
		for x:=0; x<4; x++ {
			r0, g0, b0 := li.RGBAt(x, y)
			r1, g1, b1 := back.RGBAt(x, y)
			assert.InDelta(t, r0, r1, 1e-9)
			assert.InDelta(t, g0, g1, 1e-9)
			assert.InDelta(t, b0, b1, 1e-9)
		}
	}
}

func TestLuminanceIsFloored(t *testing.T) {
	li, err := NewLinearImage(1, 1)
	require.NoError(t, err)
	li.SetRGB(0, 0, 0, 0, 0)

	lum, chroma, err := Split(li)
	require.NoError(t, err)

	assert.Equal(t, Epsilon, lum.Get(0, 0)) // safe to take log of
	assert.Equal(t, 0.0, chroma.R.Get(0, 0))
}

func TestFromImage16Bit(t *testing.T) {
	src := image.NewRGBA64(image.Rect(0, 0, 2, 1))
	src.SetRGBA64(0, 0, color.RGBA64{R: 0xFFFF, G: 0, B: 0, A: 0xFFFF})
	src.SetRGBA64(1, 0, color.RGBA64{R: 0x8000, G: 0x8000, B: 0x8000, A: 0xFFFF})

	li, err := FromImage(src)
	require.NoError(t, err)

	r, g, b := li.RGBAt(0, 0)
	assert.InDelta(t, 1.0, r, 1e-9)
	assert.Equal(t, 0.0, g)
	assert.Equal(t, 0.0, b)

	r, _, _ = li.RGBAt(1, 0)
	assert.InDelta(t, float64(0x8000)/float64(0xFFFF), r, 1e-9)
}

func TestFromImagePreservesHDRRange(t *testing.T) {
	li, err := NewLinearImage(1, 1)
	require.NoError(t, err)
	li.SetRGB(0, 0, 42.0, 1.0, 0.5)

	// LinearImage is itself an hdr.Image, so conversion keeps values >1.
	li2, err := FromImage(li)
	require.NoError(t, err)

	r, g, b := li2.RGBAt(0, 0)
	assert.Equal(t, 42.0, r)
	assert.Equal(t, 1.0, g)
	assert.Equal(t, 0.5, b)
}
