package material

import (
	"math"

	"github.com/dusk-path/pathtracer/pkg/core"
)

// Kind tags the BxDF a Material dispatches to. Tagged variant over
// inheritance: dispatch in Sample/Eval is a switch on Kind, no vtables.
type Kind uint8

const (
	Diffuse Kind = iota
	Specular
	Mirror
	Dielectric
)

// perfectlySpecularRoughness is the threshold below which a SPECULAR
// (microfacet) material is treated as a delta-function lobe.
const perfectlySpecularRoughness = 1e-5

// Material is a fixed-layout record; Scene owns a pool of these and
// Primitives reference one by index.
type Material struct {
	Kind      Kind
	Albedo    core.Vec3
	Emission  core.Vec3
	IOR       float64
	Roughness float64
	Metallic  float64
	Texture   int32 // index into the scene's texture table, or -1 if none
}

// NoTexture marks a Material with no albedo texture.
const NoTexture = int32(-1)

// IsPerfectlySpecular reports whether this material's lobe is a delta
// function: MIRROR and DIELECTRIC always are; SPECULAR is once its
// roughness drops below perfectlySpecularRoughness.
func (m Material) IsPerfectlySpecular() bool {
	switch m.Kind {
	case Mirror, Dielectric:
		return true
	case Specular:
		return m.Roughness < perfectlySpecularRoughness
	default:
		return false
	}
}

// HasEmission reports whether any emission channel is non-zero, used by
// Scene.AddPrimitive to decide whether a primitive joins the light list.
func (m Material) HasEmission() bool {
	return m.Emission.X > 0 || m.Emission.Y > 0 || m.Emission.Z > 0
}

// TextureSampler resolves a (texture index, uv) pair to a texture color, already
// reverse-gamma-corrected (sRGB -> linear). Implemented by the scene's
// texture table; kept as an interface here so pkg/material has no dependency
// on image decoding.
type TextureSampler interface {
	Sample(textureIndex int32, uv core.Vec2) core.Vec3
}

// Albedo3 is the single point of albedo resolution (spec: Intersection::albedo()):
// the texture sample if the material has one, else the flat material albedo.
func (m Material) Albedo3(uv core.Vec2, textures TextureSampler) core.Vec3 {
	if m.Texture != NoTexture && textures != nil {
		return textures.Sample(m.Texture, uv)
	}
	return m.Albedo
}

// Luma computes the Rec.709 relative luminance used by Russian roulette.
func Luma(c core.Vec3) float64 {
	return 0.2126*c.X + 0.7152*c.Y + 0.0722*c.Z
}

// schlickFresnel0 is the normal-incidence reflectance for a dielectric
// interface with refractive indices n1 (incident side) and n2 (transmitted
// side).
func schlickFresnel0(n1, n2 float64) float64 {
	r0 := (n1 - n2) / (n1 + n2)
	return r0 * r0
}

// schlickFresnel evaluates Schlick's approximation to the Fresnel
// reflectance given the cosine of the angle of incidence and the
// normal-incidence reflectance r0.
func schlickFresnel(cosTheta, r0 float64) float64 {
	x := math.Max(0, 1-cosTheta)
	x2 := x * x
	return r0 + (1-r0)*x2*x2*x
}
