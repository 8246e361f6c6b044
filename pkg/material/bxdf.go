package material

import (
	"math"
	"math/rand"

	"github.com/dusk-path/pathtracer/pkg/core"
)

// Local-frame convention: Y is the shading normal. wo points toward the
// camera/previous vertex, wi points toward the next bounce/light. Both are
// unit vectors expressed in the tangent-local frame built by
// core.LocalToWorld.

// cosTheta extracts the cosine against the shading normal (the Y axis) of a
// local-frame direction.
func cosTheta(w core.Vec3) float64 { return w.Y }

func sameHemisphere(a, b core.Vec3) bool { return a.Y*b.Y > 0 }

// SampleResult carries the sampled direction and whether it came from a
// delta (perfectly specular) lobe; it carries no PDF (eval already folds the
// PDF-matching weighting into the returned BxDF value per the spec's
// sample/eval pairing requirement).
type SampleResult struct {
	Wi                core.Vec3
	PerfectlySpecular bool
}

// Sample draws a new outgoing direction wi in the local frame, given the
// incident direction wo and a source of randomness. inside is the
// intersection's inside flag (ray originated inside the primitive),
// consulted only by DIELECTRIC to invert the index-of-refraction ratio on
// entry vs. exit.
func Sample(mat Material, wo core.Vec3, inside bool, random *rand.Rand) SampleResult {
	switch mat.Kind {
	case Diffuse:
		wi := core.CosineWeightedSample(core.NewVec3(0, 1, 0), random)
		return SampleResult{Wi: wi}

	case Mirror:
		wi := mirrorReflect(wo)
		return SampleResult{Wi: wi, PerfectlySpecular: true}

	case Specular:
		wi := sampleMicrofacet(mat, wo, random)
		return SampleResult{Wi: wi, PerfectlySpecular: mat.IsPerfectlySpecular()}

	case Dielectric:
		wi := dielectricSample(mat.IOR, inside, wo, random)
		return SampleResult{Wi: wi, PerfectlySpecular: true}

	default:
		return SampleResult{Wi: core.NewVec3(0, 1, 0)}
	}
}

// Eval evaluates the BxDF value for a given (wo, wi) pair in the local
// frame, given the resolved surface albedo.
func Eval(mat Material, wo, wi, albedo core.Vec3) core.Vec3 {
	switch mat.Kind {
	case Diffuse:
		if !sameHemisphere(wo, wi) {
			return core.Vec3{}
		}
		// The cosine-weighted sample's cos(theta)/pi pdf exactly cancels the
		// Lambertian BRDF's 1/pi, so eval returns the cancelled result
		// (plain albedo) rather than a raw BRDF value.
		return albedo

	case Mirror:
		return albedo

	case Specular:
		return evalMicrofacet(mat, wo, wi, albedo)

	case Dielectric:
		return core.NewVec3(1, 1, 1)

	default:
		return core.Vec3{}
	}
}

func mirrorReflect(wo core.Vec3) core.Vec3 {
	n := core.NewVec3(0, 1, 0)
	// wo points toward the eye; the reflected direction about the normal.
	return n.Multiply(2 * wo.Dot(n)).Subtract(wo)
}

// evalMicrofacet implements the Cook-Torrance term: Fresnel-Schlick * GGX
// distribution * Smith geometry term, divided by 4(N.V)(N.L), added to a
// (1-F) * albedo/pi diffuse term weighted by (1-metallic). Non-same-hemisphere
// pairs evaluate to zero.
func evalMicrofacet(mat Material, wo, wi, albedo core.Vec3) core.Vec3 {
	n := core.NewVec3(0, 1, 0)
	nDotV := cosTheta(wo)
	nDotL := cosTheta(wi)
	if nDotV <= 0 || nDotL <= 0 {
		return core.Vec3{}
	}

	half := wo.Add(wi).Normalize()
	nDotH := math.Max(n.Dot(half), 0)
	vDotH := math.Max(wo.Dot(half), 0)

	alpha := math.Max(mat.Roughness*mat.Roughness, perfectlySpecularRoughness)
	d := ggxDistribution(nDotH, alpha)
	g := smithGeometry(nDotV, nDotL, alpha)

	r0 := math.Max(0.04, Luma(albedo)*mat.Metallic+0.04*(1-mat.Metallic))
	f := schlickFresnel(vDotH, r0)

	specularScalar := (f * d * g) / math.Max(4*nDotV*nDotL, 1e-4)
	specularColor := core.NewVec3(specularScalar, specularScalar, specularScalar)

	diffuse := albedo.Multiply((1 - f) * (1 - mat.Metallic) / math.Pi)

	return specularColor.Add(diffuse)
}

// ggxDistribution is the Trowbridge-Reitz (GGX) normal distribution
// function.
func ggxDistribution(nDotH, alpha float64) float64 {
	a2 := alpha * alpha
	denom := nDotH*nDotH*(a2-1) + 1
	return a2 / math.Max(math.Pi*denom*denom, 1e-9)
}

// smithGeometry is the Smith joint masking-shadowing term using the GGX
// (Schlick-GGX) approximation for each direction.
func smithGeometry(nDotV, nDotL, alpha float64) float64 {
	k := alpha * alpha / 2
	g1 := func(nDotX float64) float64 { return nDotX / (nDotX*(1-k) + k) }
	return g1(nDotV) * g1(nDotL)
}

// sampleMicrofacet importance-samples the GGX half-vector distribution and
// reflects wo about it to get wi. Falls back to a perfect mirror reflection
// when the material is below the perfectly-specular roughness threshold.
func sampleMicrofacet(mat Material, wo core.Vec3, random *rand.Rand) core.Vec3 {
	if mat.IsPerfectlySpecular() {
		return mirrorReflect(wo)
	}

	alpha := mat.Roughness * mat.Roughness
	xi1 := random.Float64()
	xi2 := random.Float64()

	cosThetaH := math.Sqrt((1 - xi1) / (1 + (alpha*alpha-1)*xi1))
	sinThetaH := math.Sqrt(math.Max(0, 1-cosThetaH*cosThetaH))
	phi := 2 * math.Pi * xi2

	localHalf := core.NewVec3(sinThetaH*math.Cos(phi), cosThetaH, sinThetaH*math.Sin(phi))

	wi := localHalf.Multiply(2 * wo.Dot(localHalf)).Subtract(wo)
	if wi.Y <= 0 {
		// Reflected below the hemisphere: fall back to cosine sampling so the
		// caller always gets a valid direction.
		return core.CosineWeightedSample(core.NewVec3(0, 1, 0), random)
	}
	return wi
}

// dielectricSample is the Fresnel-weighted reflect/refract decision,
// parameterized by whether the ray is currently inside the material
// (exiting) or outside (entering).
func dielectricSample(ior float64, inside bool, wo core.Vec3, random *rand.Rand) core.Vec3 {
	n := core.NewVec3(0, 1, 0)

	etaIncident, etaTransmitted := 1.0, ior
	if inside {
		etaIncident, etaTransmitted = ior, 1.0
	}
	eta := etaIncident / etaTransmitted

	cosI := math.Min(wo.Dot(n), 1.0)
	sin2T := eta * eta * math.Max(0, 1-cosI*cosI)

	if sin2T > 1.0 {
		// Total internal reflection.
		return mirrorReflect(wo)
	}

	cosT := math.Sqrt(1 - sin2T)
	r0 := schlickFresnel0(etaIncident, etaTransmitted)
	reflectance := schlickFresnel(cosI, r0)

	if random.Float64() < reflectance {
		return mirrorReflect(wo)
	}

	// Refract: wo points toward the eye, so the incident travel direction is
	// -wo in the usual Snell's law formulation. The resulting `refracted`
	// vector is already the transmitted travel direction (Y < 0, crossing
	// into the opposite hemisphere from wo) — return it as-is.
	incident := wo.Negate()
	refracted := incident.Multiply(eta).Add(n.Multiply(eta*cosI - cosT))
	return refracted
}
