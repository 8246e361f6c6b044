package core

import (
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// GammaEncode applies the linear-to-display gamma curve x^(1/gamma); ToRGB8
// uses it with gamma=2.2 for the final 8-bit write.
func GammaEncode(x, gamma float64) float64 {
	if x <= 0 {
		return 0
	}
	return math.Pow(x, 1.0/gamma)
}

// GammaDecode applies the inverse (display-to-linear) curve x^gamma. Texture
// loading does not use it; it linearizes with SRGBToLinear instead.
func GammaDecode(x, gamma float64) float64 {
	if x <= 0 {
		return 0
	}
	return math.Pow(x, gamma)
}

// GammaEncodeColor gamma-encodes each channel of a linear color.
func (v Vec3) GammaEncodeColor(gamma float64) Vec3 {
	return Vec3{GammaEncode(v.X, gamma), GammaEncode(v.Y, gamma), GammaEncode(v.Z, gamma)}
}

// GammaDecodeColor gamma-decodes each channel of a display-space color.
func (v Vec3) GammaDecodeColor(gamma float64) Vec3 {
	return Vec3{GammaDecode(v.X, gamma), GammaDecode(v.Y, gamma), GammaDecode(v.Z, gamma)}
}

// LinearToSRGB converts a linear radiance color to sRGB using go-colorful's
// standard sRGB transfer function (a closer approximation to real display
// response than the flat gamma=2.2 curve ToRGB8 applies).
func (v Vec3) LinearToSRGB() Vec3 {
	c := colorful.LinearRgb(math.Max(0, v.X), math.Max(0, v.Y), math.Max(0, v.Z))
	r, g, b := c.R, c.G, c.B
	return Vec3{r, g, b}
}

// SRGBToLinear converts an sRGB color (e.g. a texture sample) to linear
// radiance space using go-colorful's inverse transfer function.
func (v Vec3) SRGBToLinear() Vec3 {
	r, g, b := colorful.Color{R: v.X, G: v.Y, B: v.Z}.LinearRgb()
	return Vec3{r, g, b}
}

// ACESFilmic applies the Narkowicz ACES filmic tone-mapping fit,
// x*(2.51x+0.03) / (x*(2.43x+0.59)+0.14), to a single channel.
func ACESFilmic(x float64) float64 {
	return (x * (2.51*x + 0.03)) / (x*(2.43*x+0.59) + 0.14)
}

// ToneMap applies the ACES filmic fit per channel, then clamps to [0,1].
func (v Vec3) ToneMap() Vec3 {
	return Vec3{ACESFilmic(v.X), ACESFilmic(v.Y), ACESFilmic(v.Z)}.Clamp(0, 1)
}

// ToRGB8 tone-maps, gamma-encodes (gamma=2.2), and quantizes to 8-bit [0,255]
// with clamping — the final pixel write step of the renderer.
func (v Vec3) ToRGB8() (r, g, b uint8) {
	mapped := v.ToneMap().GammaEncodeColor(2.2).Clamp(0, 1)
	return uint8(255*mapped.X + 0.5), uint8(255*mapped.Y + 0.5), uint8(255*mapped.Z + 0.5)
}

// EquirectangularToUV maps a world-space direction to equirectangular (u,v)
// texture coordinates: u = 0.5 + atan2(z,x)/(2*pi), w = 0.5 + asin(y)/pi.
func EquirectangularToUV(dir Vec3) (u, w float64) {
	d := dir.Normalize()
	u = 0.5 + math.Atan2(d.Z, d.X)/(2*math.Pi)
	w = 0.5 + math.Asin(math.Max(-1, math.Min(1, d.Y)))/math.Pi
	return u, w
}

// EquirectangularToDir is the inverse mapping of EquirectangularToUV.
func EquirectangularToDir(u, w float64) Vec3 {
	phi := (u - 0.5) * 2 * math.Pi
	y := math.Sin((w - 0.5) * math.Pi)
	r := math.Sqrt(math.Max(0, 1-y*y))
	return Vec3{X: r * math.Cos(phi), Y: y, Z: r * math.Sin(phi)}
}
