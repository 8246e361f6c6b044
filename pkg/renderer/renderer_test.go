package renderer

import (
	"math"
	"testing"

	"github.com/dusk-path/pathtracer/pkg/camera"
	"github.com/dusk-path/pathtracer/pkg/core"
	"github.com/dusk-path/pathtracer/pkg/geometry"
	"github.com/dusk-path/pathtracer/pkg/integrator"
	"github.com/dusk-path/pathtracer/pkg/material"
	"github.com/dusk-path/pathtracer/pkg/scene"
)

func simpleScene() *scene.Scene {
	s := scene.New()
	diffuse := s.AddMaterial(material.Material{Kind: material.Diffuse, Albedo: core.NewVec3(0.7, 0.7, 0.7)})
	light := s.AddMaterial(material.Material{Kind: material.Diffuse, Emission: core.NewVec3(10, 10, 10)})
	s.AddPrimitive(geometry.NewSpherePrimitive(core.NewVec3(0, -1001, -5), 1000, diffuse, 0))
	s.AddPrimitive(geometry.NewSpherePrimitive(core.NewVec3(0, 2, -5), 5, light, 0))
	s.BackgroundColor = core.NewVec3(0.1, 0.1, 0.15)
	s.ComputeBVH()
	return s
}

func TestPixelAccumulatorRunningMean(t *testing.T) {
	var acc PixelAccumulator
	acc.AddSample(core.NewVec3(1, 0, 0))
	acc.AddSample(core.NewVec3(0, 1, 0))
	if acc.TotalSamples != 2 {
		t.Fatalf("expected 2 samples recorded, got %d", acc.TotalSamples)
	}
	want := core.NewVec3(0.5, 0.5, 0)
	if math.Abs(acc.Mean.X-want.X) > 1e-9 || math.Abs(acc.Mean.Y-want.Y) > 1e-9 {
		t.Errorf("expected running mean %v, got %v", want, acc.Mean)
	}
}

func TestRenderBatchProducesFiniteOutput(t *testing.T) {
	s := simpleScene()
	cam := camera.New(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1), 16, 16, 50, 0, 0)
	tracer := &integrator.PathTracer{Scene: s, MaxDepth: 6}
	r := New(cam, tracer, Config{Width: 16, Height: 16, NumWorkers: 2}, nil)

	r.RenderBatch(4, 1)

	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			mean := r.Pixels[y][x].Mean
			if !mean.IsFinite() {
				t.Fatalf("pixel (%d,%d) has non-finite mean %v", x, y, mean)
			}
			if r.Pixels[y][x].TotalSamples != 4 {
				t.Fatalf("expected 4 accumulated samples, got %d", r.Pixels[y][x].TotalSamples)
			}
		}
	}
}

func TestRenderBatchAccumulatesAcrossCalls(t *testing.T) {
	s := simpleScene()
	cam := camera.New(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1), 8, 8, 50, 0, 0)
	tracer := &integrator.PathTracer{Scene: s, MaxDepth: 4}
	r := New(cam, tracer, Config{Width: 8, Height: 8, NumWorkers: 1}, nil)

	r.RenderBatch(2, 1)
	r.RenderBatch(3, 2)

	if r.Pixels[0][0].TotalSamples != 5 {
		t.Errorf("expected 5 total samples after two batches, got %d", r.Pixels[0][0].TotalSamples)
	}
}

func TestToImageProducesOpaquePixels(t *testing.T) {
	s := simpleScene()
	cam := camera.New(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1), 4, 4, 50, 0, 0)
	tracer := &integrator.PathTracer{Scene: s, MaxDepth: 3}
	r := New(cam, tracer, Config{Width: 4, Height: 4, NumWorkers: 1}, nil)
	r.RenderBatch(2, 7)

	img := r.ToImage()
	bounds := img.Bounds()
	if bounds.Dx() != 4 || bounds.Dy() != 4 {
		t.Fatalf("expected a 4x4 image, got %v", bounds)
	}
	_, _, _, a := img.At(0, 0).RGBA()
	if a>>8 != 255 {
		t.Errorf("expected fully opaque pixel, got alpha %d", a>>8)
	}
}

func TestSanitizeReplacesNonFinite(t *testing.T) {
	bad := core.NewVec3(math.NaN(), math.Inf(1), 1)
	got := sanitize(bad)
	if got != (core.Vec3{}) {
		t.Errorf("expected non-finite sample sanitized to black, got %v", got)
	}
	good := core.NewVec3(0.2, 0.3, 0.4)
	if sanitize(good) != good {
		t.Error("finite sample should pass through unchanged")
	}
}
