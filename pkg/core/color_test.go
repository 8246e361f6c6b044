package core

import (
	"math"
	"testing"
)

func TestGammaRoundTrip(t *testing.T) {
	for _, x := range []float64{0, 0.1, 0.25, 0.5, 0.75, 1.0} {
		encoded := GammaEncode(x, 2.2)
		back := GammaDecode(encoded, 2.2)
		if math.Abs(back-x) > 1e-6 {
			t.Errorf("gamma round trip failed for %f: got %f", x, back)
		}
	}
}

func TestEquirectangularRoundTripCardinalAxes(t *testing.T) {
	axes := []Vec3{
		NewVec3(1, 0, 0),
		NewVec3(-1, 0, 0),
		NewVec3(0, 1, 0),
		NewVec3(0, -1, 0),
		NewVec3(0, 0, 1),
		NewVec3(0, 0, -1),
	}
	for _, axis := range axes {
		u, w := EquirectangularToUV(axis)
		back := EquirectangularToDir(u, w)
		if back.Subtract(axis).Length() > 1e-9 {
			t.Errorf("equirectangular round trip failed for %v: got %v (u=%f,w=%f)", axis, back, u, w)
		}
	}
}

func TestACESFilmicClampsToUnit(t *testing.T) {
	for _, x := range []float64{0, 1, 10, 1000} {
		mapped := ACESFilmic(x)
		if mapped < 0 {
			t.Errorf("ACES filmic should never go negative, got %f for input %f", mapped, x)
		}
	}
	v := NewVec3(5, 5, 5).ToneMap()
	if v.X > 1 || v.Y > 1 || v.Z > 1 {
		t.Errorf("ToneMap should clamp to [0,1], got %v", v)
	}
}

func TestToRGB8Black(t *testing.T) {
	r, g, b := (Vec3{}).ToRGB8()
	if r != 0 || g != 0 || b != 0 {
		t.Errorf("black should map to (0,0,0), got (%d,%d,%d)", r, g, b)
	}
}
