package scene

import (
	"math"
	"math/rand"

	"github.com/dusk-path/pathtracer/pkg/core"
	"github.com/dusk-path/pathtracer/pkg/geometry"
	"github.com/dusk-path/pathtracer/pkg/material"
)

// MaterialPoolCapacity is the minimum guaranteed capacity of the Scene's
// material pool.
const MaterialPoolCapacity = 256

// Texture is a decoded image sampled by UV, stored reverse-gamma-corrected
// (linear) so material.Albedo3 never has to re-decode sRGB per sample.
type Texture struct {
	Width, Height int
	// Pixels is linear-space RGB, row-major, width*height entries.
	Pixels []core.Vec3
}

// Sample performs bilinear-free nearest-neighbor lookup with wraparound UVs,
// matching the loader's texture convention.
func (tex *Texture) Sample(uv core.Vec2) core.Vec3 {
	if tex == nil || len(tex.Pixels) == 0 {
		return core.NewVec3(1, 1, 1)
	}
	u := uv.X - math.Floor(uv.X)
	v := uv.Y - math.Floor(uv.Y)
	x := int(u * float64(tex.Width))
	y := int(v * float64(tex.Height))
	if x >= tex.Width {
		x = tex.Width - 1
	}
	if y >= tex.Height {
		y = tex.Height - 1
	}
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	return tex.Pixels[y*tex.Width+x]
}

// Environment is an equirectangular HDR/LDR environment map used as the
// background when the ray misses every primitive.
type Environment struct {
	Width, Height int
	Pixels        []core.Vec3 // linear space
}

// Sample looks up the environment color for a world-space direction.
func (e *Environment) Sample(dir core.Vec3) core.Vec3 {
	if e == nil || len(e.Pixels) == 0 {
		return core.Vec3{}
	}
	u, w := core.EquirectangularToUV(dir)
	x := int(u * float64(e.Width))
	y := int(w * float64(e.Height))
	if x < 0 {
		x = 0
	}
	if x >= e.Width {
		x = e.Width - 1
	}
	if y < 0 {
		y = 0
	}
	if y >= e.Height {
		y = e.Height - 1
	}
	return e.Pixels[y*e.Width+x]
}

// Scene owns every piece of geometry, material, and acceleration data the
// integrator needs. All of it is read-only once ComputeBVH has run, so
// worker goroutines share it without locking.
type Scene struct {
	Primitives []geometry.Primitive
	Materials  []material.Material
	Textures   []*Texture
	Lights     []uint32 // primitive ids with non-zero emission

	BVH *geometry.BVH

	Environment     *Environment
	BackgroundColor core.Vec3 // used when there is no environment map

	nextID uint32
}

// New constructs an empty scene with a material pool pre-sized to
// MaterialPoolCapacity.
func New() *Scene {
	return &Scene{
		Materials: make([]material.Material, 0, MaterialPoolCapacity),
	}
}

// Sample implements material.TextureSampler, resolving a texture index to a
// color at the given UV.
func (s *Scene) Sample(textureIndex int32, uv core.Vec2) core.Vec3 {
	if textureIndex < 0 || int(textureIndex) >= len(s.Textures) {
		return core.NewVec3(1, 1, 1)
	}
	return s.Textures[textureIndex].Sample(uv)
}

// AddMaterial appends a material to the pool and returns its index.
func (s *Scene) AddMaterial(mat material.Material) int32 {
	s.Materials = append(s.Materials, mat)
	return int32(len(s.Materials) - 1)
}

// AddTexture appends a decoded texture and returns its index.
func (s *Scene) AddTexture(tex *Texture) int32 {
	s.Textures = append(s.Textures, tex)
	return int32(len(s.Textures) - 1)
}

// AddPrimitive assigns the primitive a monotonically increasing id, appends
// it to the primitive list, and records it in the light list if its
// material has any non-zero emission channel.
func (s *Scene) AddPrimitive(p geometry.Primitive) uint32 {
	id := s.nextID
	s.nextID++
	p.ID = id
	s.Primitives = append(s.Primitives, p)

	if int(p.Material) < len(s.Materials) && s.Materials[p.Material].HasEmission() {
		s.Lights = append(s.Lights, id)
	}
	return id
}

// ComputeBVH builds the acceleration structure in one shot over every
// primitive added so far. Call once after scene construction is complete.
func (s *Scene) ComputeBVH() {
	s.BVH = geometry.NewBVH(s.Primitives)
}

// RandomLight returns a uniformly chosen light primitive and its uniform
// selection PDF (1/N_L), or ok=false if the scene has no lights.
func (s *Scene) RandomLight(random *rand.Rand) (geometry.Primitive, float64, bool) {
	if len(s.Lights) == 0 {
		return geometry.Primitive{}, 0, false
	}
	id := s.Lights[random.Intn(len(s.Lights))]
	// AddPrimitive assigns ids sequentially starting at zero, so a light's id
	// is also its index into the original (pre-BVH-reorder) primitive list.
	return s.Primitives[id], 1.0 / float64(len(s.Lights)), true
}

// Material returns the resolved material for a primitive's material index.
func (s *Scene) Material(index int32) material.Material {
	return s.Materials[index]
}
