package integrator

import (
	"math"
	"math/rand"

	"github.com/dusk-path/pathtracer/pkg/core"
	"github.com/dusk-path/pathtracer/pkg/geometry"
	"github.com/dusk-path/pathtracer/pkg/material"
	"github.com/dusk-path/pathtracer/pkg/scene"
)

// shadowRayTMax bounds how far a shadow ray is allowed to travel past the
// sampled light point; large enough that any nearer occluder is found first.
const shadowRayTMax = 1e9

// paleBlue and white are the endpoints of the analytic sky gradient used as
// a background when no environment map and no constant background color are
// configured.
var (
	skyWhite    = core.NewVec3(1.0, 1.0, 1.0)
	skyPaleBlue = core.NewVec3(0.5, 0.7, 1.0)
)

// russianRouletteMinDepth is the bounce count after which Russian roulette
// may terminate a path.
const russianRouletteMinDepth = 3

// PathTracer recursively traces rays through a Scene, combining
// next-event estimation with BxDF sampling and Russian-roulette
// termination. One PathTracer is shared read-only by every worker
// goroutine; randomness comes from the caller-supplied *rand.Rand, which is
// thread-local.
type PathTracer struct {
	Scene    *scene.Scene
	MaxDepth int
	// UseSkyGradient selects the analytic sky gradient background when the
	// scene has neither an environment map nor a background color set.
	UseSkyGradient bool
}

// Trace computes the radiance arriving back along ray, implementing the
// spec's recursive trace(ray, depth, perfect_reflection) algorithm.
// perfectReflection records whether the previous bounce's material was a
// delta lobe, which licenses emission accumulation at depth > 0 without
// double-counting against the next-event estimator.
func (pt *PathTracer) Trace(ray core.Ray, depth int, perfectReflection bool, random *rand.Rand) core.Vec3 {
	if depth >= pt.MaxDepth {
		return core.Vec3{}
	}

	hit, ok := pt.Scene.BVH.HitDefault(ray)
	if !ok {
		return pt.background(ray)
	}
	core.RecordBounce()

	mat := pt.Scene.Material(hit.Material)
	albedo := mat.Albedo3(hit.UV, pt.Scene)

	rrWeight := 1.0
	if depth > russianRouletteMinDepth {
		survival := material.Luma(albedo)
		if random.Float64() > survival {
			return mat.Emission
		}
		rrWeight = 1.0 / survival
	}

	right, normal, forward := core.LocalToWorld(hit.Normal)
	wo := worldToLocal(ray.Direction.Negate(), right, normal, forward)

	sampled := material.Sample(mat, wo, hit.Inside, random)
	perfectlySpecular := mat.IsPerfectlySpecular()

	result := core.Vec3{}
	if depth == 0 || perfectReflection || perfectlySpecular {
		result = result.Add(mat.Emission)
	}

	if !perfectlySpecular && len(pt.Scene.Lights) > 0 {
		direct := pt.sampleDirectLight(hit, mat, albedo, wo, right, normal, forward, random)
		result = result.Add(direct)
	}

	wiWorld := localToWorld(sampled.Wi, right, normal, forward)
	nextRay := core.NewRay(hit.Point, wiWorld)
	incoming := pt.Trace(nextRay, depth+1, perfectlySpecular, random)

	bxdfValue := material.Eval(mat, wo, sampled.Wi, albedo)
	result = result.Add(bxdfValue.MultiplyVec(incoming).Multiply(rrWeight))

	return result
}

// background evaluates the miss shader: the environment map if present
// (equirectangular, reverse-gamma corrected), else a configured constant
// color, else the analytic sky gradient.
func (pt *PathTracer) background(ray core.Ray) core.Vec3 {
	if pt.Scene.Environment != nil {
		return pt.Scene.Environment.Sample(ray.Direction.Normalize())
	}
	if pt.UseSkyGradient && pt.Scene.BackgroundColor.IsZero() {
		t := 0.5 * (ray.Direction.Normalize().Y + 1)
		return skyWhite.Lerp(skyPaleBlue, t)
	}
	return pt.Scene.BackgroundColor
}

// sampleDirectLight implements the next-event estimator of §4.8: pick one
// light uniformly, sample a point on it, cast a shadow ray, and weight the
// BxDF by the light's solid-angle contribution.
func (pt *PathTracer) sampleDirectLight(hit geometry.Intersection, mat material.Material, albedo core.Vec3, wo, right, normal, forward core.Vec3, random *rand.Rand) core.Vec3 {
	light, lightPDF, ok := pt.Scene.RandomLight(random)
	if !ok {
		return core.Vec3{}
	}
	lightMat := pt.Scene.Material(light.Material)
	if !lightMat.HasEmission() {
		return core.Vec3{}
	}

	point, area, lightNormal := samplePointOnLight(light, random)

	toLight := point.Subtract(hit.Point)
	distance := toLight.Length()
	if distance < 1e-9 {
		return core.Vec3{}
	}
	direction := toLight.Multiply(1 / distance)

	// Cast the shadow ray through the whole scene and accept only if the
	// first thing it hits is the chosen light itself, distinct from the
	// originating surface.
	shadowRay := core.NewRay(hit.Point, direction)
	shadowHit, shadowOK := pt.Scene.BVH.Hit(shadowRay, 0.001, shadowRayTMax)
	if !shadowOK || shadowHit.PrimitiveID != light.ID || shadowHit.PrimitiveID == hit.PrimitiveID {
		return core.Vec3{}
	}

	wiLight := worldToLocal(direction, right, normal, forward)
	cosThetaSurface := wiLight.Y
	if cosThetaSurface <= 0 {
		return core.Vec3{}
	}

	cosThetaLight := math.Max(lightNormal.Dot(direction.Negate()), 0)
	if cosThetaLight <= 0 {
		return core.Vec3{}
	}

	bxdfValue := material.Eval(mat, wo, wiLight, albedo)
	contribution := lightMat.Emission.MultiplyVec(bxdfValue).
		Multiply(area * cosThetaLight / (distance * distance) / lightPDF)

	return contribution
}

// worldToLocal projects a world-space direction into the tangent frame
// {right, normal, forward} produced by core.LocalToWorld, where normal is Y.
func worldToLocal(dir, right, normal, forward core.Vec3) core.Vec3 {
	return core.NewVec3(dir.Dot(right), dir.Dot(normal), dir.Dot(forward))
}

// localToWorld reconstructs a world-space direction from local-frame
// coordinates and the same basis used by worldToLocal.
func localToWorld(local, right, normal, forward core.Vec3) core.Vec3 {
	return right.Multiply(local.X).Add(normal.Multiply(local.Y)).Add(forward.Multiply(local.Z))
}
