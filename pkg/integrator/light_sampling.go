package integrator

import (
	"math"
	"math/rand"

	"github.com/dusk-path/pathtracer/pkg/core"
	"github.com/dusk-path/pathtracer/pkg/geometry"
)

// samplePointOnLight draws a uniform point on the given light primitive,
// returning the point, the primitive's area (used to convert the uniform
// area pdf into a solid-angle contribution), and the light's outward normal
// at that point.
func samplePointOnLight(light geometry.Primitive, random *rand.Rand) (point core.Vec3, area float64, normal core.Vec3) {
	switch light.Kind {
	case geometry.PrimitiveSphere:
		s := light.Sphere
		p := core.UniformSampleSphere(s.Center, s.Radius, random)
		n := p.Subtract(s.Center).Multiply(1 / s.Radius)
		sphereArea := 4 * math.Pi * s.Radius * s.Radius
		return p, sphereArea, n

	case geometry.PrimitiveTriangle:
		tri := light.Triangle
		u, v, w := core.SampleTriangle(random)
		p := tri.PointAt(u, v, w)
		return p, tri.Area(), tri.FaceNormal()

	default:
		return core.Vec3{}, 0, core.NewVec3(0, 1, 0)
	}
}
