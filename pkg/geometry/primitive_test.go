package geometry

import (
	"math"
	"testing"

	"github.com/dusk-path/pathtracer/pkg/core"
)

func TestSphereHitNormalOnSurface(t *testing.T) {
	center := core.NewVec3(0, 0, -5)
	radius := 2.0
	sphere := NewSpherePrimitive(center, radius, 0, 1)

	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))
	hit, ok := sphere.Hit(ray, 0.001, 1000)
	if !ok {
		t.Fatal("expected a hit")
	}
	if hit.T <= 0 {
		t.Errorf("t should be positive, got %f", hit.T)
	}
	if math.Abs(hit.Normal.Length()-1) > 1e-9 {
		t.Errorf("normal should be unit length, got length %f", hit.Normal.Length())
	}
	dist := hit.Point.Subtract(center).Length()
	if math.Abs(dist-radius) > 1e-6*radius {
		t.Errorf("hit point should lie on the sphere surface: dist=%f radius=%f", dist, radius)
	}
}

func TestSphereZeroRadiusNoHit(t *testing.T) {
	sphere := NewSpherePrimitive(core.NewVec3(0, 0, -5), 0, 0, 1)
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))
	if _, ok := sphere.Hit(ray, 0.001, 1000); ok {
		t.Error("zero-radius sphere should never be hit")
	}
}

func TestSphereNegativeDiscriminantNoHit(t *testing.T) {
	sphere := NewSpherePrimitive(core.NewVec3(10, 10, 10), 1, 0, 1)
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))
	if _, ok := sphere.Hit(ray, 0.001, 1000); ok {
		t.Error("ray missing the sphere entirely should not hit")
	}
}

func TestSphereOriginOnSurfaceOutwardNoHit(t *testing.T) {
	center := core.NewVec3(0, 0, 0)
	radius := 1.0
	sphere := NewSpherePrimitive(center, radius, 0, 1)

	// Ray starting exactly on the surface, heading outward: blocked by the
	// shadow bias epsilon.
	origin := core.NewVec3(0, 0, radius)
	ray := core.NewRay(origin, core.NewVec3(0, 0, 1))
	if _, ok := sphere.Hit(ray, 0.001, 1000); ok {
		t.Error("ray leaving the surface outward should be blocked by the bias epsilon")
	}
}

func TestSphereInsideFlagOnExit(t *testing.T) {
	sphere := NewSpherePrimitive(core.NewVec3(0, 0, 0), 1, 0, 1)
	// Ray starting at the center, heading outward — it exits through the far
	// surface, so Inside should be true and the normal flipped to face it.
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1))
	hit, ok := sphere.Hit(ray, 0.001, 1000)
	if !ok {
		t.Fatal("expected a hit exiting the sphere")
	}
	if !hit.Inside {
		t.Error("expected Inside=true when the ray originates inside the sphere")
	}
	if hit.Normal.Dot(ray.Direction) >= 0 {
		t.Error("normal should be flipped to face the incoming ray")
	}
}

func TestTriangleHitBasic(t *testing.T) {
	tri := Triangle{
		V0: core.NewVec3(-1, -1, -5),
		V1: core.NewVec3(1, -1, -5),
		V2: core.NewVec3(0, 1, -5),
	}
	prim := NewTrianglePrimitive(tri, 0, 1)

	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))
	hit, ok := prim.Hit(ray, 0.001, 1000)
	if !ok {
		t.Fatal("expected ray through the triangle's centroid-ish region to hit")
	}
	if math.Abs(hit.Point.Z+5) > 1e-6 {
		t.Errorf("hit point should lie on the triangle's plane, got %v", hit.Point)
	}
}

func TestTriangleMissOutsideEdges(t *testing.T) {
	tri := Triangle{
		V0: core.NewVec3(-1, -1, -5),
		V1: core.NewVec3(1, -1, -5),
		V2: core.NewVec3(0, 1, -5),
	}
	prim := NewTrianglePrimitive(tri, 0, 1)

	ray := core.NewRay(core.NewVec3(5, 5, 0), core.NewVec3(0, 0, -1))
	if _, ok := prim.Hit(ray, 0.001, 1000); ok {
		t.Error("ray outside the triangle's footprint should miss")
	}
}

func TestTriangleParallelRayMisses(t *testing.T) {
	tri := Triangle{
		V0: core.NewVec3(-1, -1, -5),
		V1: core.NewVec3(1, -1, -5),
		V2: core.NewVec3(0, 1, -5),
	}
	prim := NewTrianglePrimitive(tri, 0, 1)

	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0))
	if _, ok := prim.Hit(ray, 0.001, 1000); ok {
		t.Error("ray parallel to the triangle's plane should miss")
	}
}

func TestTriangleInterpolatedNormalPrefersVertexNormals(t *testing.T) {
	tri := Triangle{
		V0:         core.NewVec3(-1, -1, -5),
		V1:         core.NewVec3(1, -1, -5),
		V2:         core.NewVec3(0, 1, -5),
		N0:         core.NewVec3(0, 0, 1),
		N1:         core.NewVec3(0, 0, 1),
		N2:         core.NewVec3(1, 0, 1).Normalize(),
		HasNormals: true,
	}
	prim := NewTrianglePrimitive(tri, 0, 1)

	ray := core.NewRay(core.NewVec3(-0.3, -0.3, 0), core.NewVec3(0, 0, -1))
	hit, ok := prim.Hit(ray, 0.001, 1000)
	if !ok {
		t.Fatal("expected a hit")
	}
	if hit.Normal.Equals(tri.FaceNormal()) {
		t.Error("expected an interpolated normal distinct from the flat face normal near vertex 2's influence")
	}
}

func TestTriangleAreaPositive(t *testing.T) {
	tri := Triangle{
		V0: core.NewVec3(0, 0, 0),
		V1: core.NewVec3(1, 0, 0),
		V2: core.NewVec3(0, 1, 0),
	}
	if math.Abs(tri.Area()-0.5) > 1e-9 {
		t.Errorf("expected area 0.5, got %f", tri.Area())
	}
}
