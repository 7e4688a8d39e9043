package tmath

import "math"

// https://www.sjbrown.co.uk/posts/gamma-correct-rendering/

// LinearToSRGB applies the standard sRGB transfer function to a linear
// channel value in [0,1].
func LinearToSRGB(f float64) float64 {
	if f <= 0.0031308 {
		return 12.92 * f
	}
	return 1.055*math.Pow(f, 1.0/2.4) - 0.055
}

// SRGBToLinear is the inverse transfer function.
func SRGBToLinear(f float64) float64 {
	if f <= 0.04045 {
		return f / 12.92
	}
	return math.Pow((f+0.055)/1.055, 2.4)
}
