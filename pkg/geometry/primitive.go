package geometry

import (
	"math"

	"github.com/dusk-path/pathtracer/pkg/core"
)

// Sphere is defined by its center and radius.
type Sphere struct {
	Center core.Vec3
	Radius float64
}

// Triangle is defined by three vertex positions, per-vertex normals (zero if
// the source mesh lacked them), and per-vertex UVs (zero if absent).
type Triangle struct {
	V0, V1, V2    core.Vec3
	N0, N1, N2    core.Vec3
	UV0, UV1, UV2 core.Vec2
	HasNormals    bool
}

// PrimitiveKind tags which shape payload a Primitive carries.
type PrimitiveKind uint8

const (
	PrimitiveSphere PrimitiveKind = iota
	PrimitiveTriangle
)

// Primitive is a tagged sum type over the two supported shapes: a kind tag,
// one shape payload (the other is zero-valued), a material index into the
// scene's material pool, a precomputed AABB, and a stable id. Dispatch in
// Hit/BoundingBox is a switch on Kind — no interfaces, no vtables.
type Primitive struct {
	Kind     PrimitiveKind
	Sphere   Sphere
	Triangle Triangle
	Material int32
	Bounds   AABB
	ID       uint32
}

// NewSpherePrimitive builds a sphere Primitive, precomputing its AABB.
func NewSpherePrimitive(center core.Vec3, radius float64, material int32, id uint32) Primitive {
	r := core.NewVec3(radius, radius, radius)
	return Primitive{
		Kind:     PrimitiveSphere,
		Sphere:   Sphere{Center: center, Radius: radius},
		Material: material,
		Bounds:   NewAABB(center.Subtract(r), center.Add(r)),
		ID:       id,
	}
}

// NewTrianglePrimitive builds a triangle Primitive, precomputing its AABB.
func NewTrianglePrimitive(tri Triangle, material int32, id uint32) Primitive {
	return Primitive{
		Kind:     PrimitiveTriangle,
		Triangle: tri,
		Material: material,
		Bounds:   NewAABBFromPoints(tri.V0, tri.V1, tri.V2),
		ID:       id,
	}
}

// BoundingBox returns the primitive's precomputed AABB.
func (p *Primitive) BoundingBox() AABB {
	return p.Bounds
}

// Intersection describes a ray/primitive hit.
type Intersection struct {
	T           float64
	Point       core.Vec3
	Normal      core.Vec3 // unit length, flipped to face the incoming ray
	UV          core.Vec2
	Material    int32
	PrimitiveID uint32
	Inside      bool // true iff the ray originated inside the primitive (sphere interiors)
}

// shadowBias is the global epsilon used to gate intersection roots (self
// intersection avoidance). BVH traversal applies its own, larger default
// bias (traversalTMin in bvh.go).
const shadowBias = 0.001

// Hit tests the ray against this primitive within the parametric interval
// (tMin, tMax), dispatching on Kind.
func (p *Primitive) Hit(ray core.Ray, tMin, tMax float64) (Intersection, bool) {
	core.RecordIntersectionTest()

	switch p.Kind {
	case PrimitiveSphere:
		return hitSphere(p.Sphere, ray, tMin, tMax, p.Material, p.ID)
	case PrimitiveTriangle:
		return hitTriangle(p.Triangle, ray, tMin, tMax, p.Material, p.ID)
	default:
		return Intersection{}, false
	}
}

// hitSphere implements the quadratic sphere test of spec §4.3: take the
// smaller root strictly inside (0.001, inf); if it falls outside the
// requested interval, fall back to the larger root.
func hitSphere(s Sphere, ray core.Ray, tMin, tMax float64, material int32, id uint32) (Intersection, bool) {
	oc := ray.Origin.Subtract(s.Center)
	a := ray.Direction.Dot(ray.Direction)
	h := ray.Direction.Dot(s.Center.Subtract(ray.Origin))
	c := oc.Dot(oc) - s.Radius*s.Radius

	discriminant := h*h - a*c
	if discriminant < 0 || s.Radius <= 0 {
		return Intersection{}, false
	}
	sqrtD := math.Sqrt(discriminant)

	lo := math.Max(tMin, shadowBias)
	root := (h - sqrtD) / a
	if root <= lo || root >= tMax {
		root = (h + sqrtD) / a
		if root <= lo || root >= tMax {
			return Intersection{}, false
		}
	}

	point := ray.At(root)
	outwardNormal := point.Subtract(s.Center).Multiply(1.0 / s.Radius)

	hit := Intersection{
		T:           root,
		Point:       point,
		UV:          sphereUV(outwardNormal),
		Material:    material,
		PrimitiveID: id,
	}

	// If the ray direction is in the same hemisphere as the outward normal,
	// the ray is exiting a sphere interior: flip the normal to face the ray
	// and mark Inside = true (ray started inside the sphere).
	if ray.Direction.Dot(outwardNormal) > 0 {
		hit.Normal = outwardNormal.Negate()
		hit.Inside = true
	} else {
		hit.Normal = outwardNormal
		hit.Inside = false
	}

	return hit, true
}

// sphereUV computes latitude/longitude UVs from a point on the unit sphere.
func sphereUV(outwardNormal core.Vec3) core.Vec2 {
	theta := math.Acos(-outwardNormal.Y)
	phi := math.Atan2(-outwardNormal.Z, outwardNormal.X) + math.Pi
	return core.NewVec2(phi/(2*math.Pi), theta/math.Pi)
}

// hitTriangle implements the geometric ray/triangle test of spec §4.3: plane
// intersection via the face normal, followed by three edge sign tests.
func hitTriangle(tri Triangle, ray core.Ray, tMin, tMax float64, material int32, id uint32) (Intersection, bool) {
	edge1 := tri.V1.Subtract(tri.V0)
	edge2 := tri.V2.Subtract(tri.V0)
	faceNormal := edge1.Cross(edge2)

	denom := faceNormal.Dot(ray.Direction)
	if math.Abs(denom) < shadowBias {
		return Intersection{}, false
	}

	t := faceNormal.Dot(tri.V0.Subtract(ray.Origin)) / denom
	lo := math.Max(tMin, shadowBias)
	if t <= lo || t >= tMax {
		return Intersection{}, false
	}

	point := ray.At(t)

	e0 := tri.V1.Subtract(tri.V0)
	e1 := tri.V2.Subtract(tri.V1)
	e2 := tri.V0.Subtract(tri.V2)
	c0 := point.Subtract(tri.V0)
	c1 := point.Subtract(tri.V1)
	c2 := point.Subtract(tri.V2)

	if faceNormal.Dot(e0.Cross(c0)) < 0 ||
		faceNormal.Dot(e1.Cross(c1)) < 0 ||
		faceNormal.Dot(e2.Cross(c2)) < 0 {
		return Intersection{}, false
	}

	// Barycentric weights via the standard sub-triangle-area ratios.
	areaSq := faceNormal.LengthSquared()
	w0 := faceNormal.Dot(e1.Cross(c1)) / areaSq // weight of V0, opposite edge (V1,V2)
	w1 := faceNormal.Dot(e2.Cross(c2)) / areaSq // weight of V1, opposite edge (V2,V0)
	w2 := 1 - w0 - w1

	normal := faceNormal.Normalize()
	if tri.HasNormals {
		interpolated := tri.N0.Multiply(w0).Add(tri.N1.Multiply(w1)).Add(tri.N2.Multiply(w2))
		if !interpolated.IsZero() {
			normal = interpolated.Normalize()
		}
	}

	uv := tri.UV0.Multiply(w0).Add(tri.UV1.Multiply(w1)).Add(tri.UV2.Multiply(w2))

	hit := Intersection{
		T:           t,
		Point:       point,
		UV:          uv,
		Material:    material,
		PrimitiveID: id,
	}

	if ray.Direction.Dot(normal) < 0 {
		hit.Normal = normal
		hit.Inside = false
	} else {
		hit.Normal = normal.Negate()
		hit.Inside = true
	}

	return hit, true
}

// Area returns the triangle's surface area, used by next-event estimation
// to convert a uniform-area PDF into a solid-angle contribution.
func (t Triangle) Area() float64 {
	return t.V1.Subtract(t.V0).Cross(t.V2.Subtract(t.V0)).Length() * 0.5
}

// FaceNormal returns the unit-length flat face normal, independent of any
// per-vertex normals.
func (t Triangle) FaceNormal() core.Vec3 {
	return t.V1.Subtract(t.V0).Cross(t.V2.Subtract(t.V0)).Normalize()
}

// PointAt evaluates a point on the triangle from barycentric weights.
func (t Triangle) PointAt(u, v, w float64) core.Vec3 {
	return t.V0.Multiply(u).Add(t.V1.Multiply(v)).Add(t.V2.Multiply(w))
}
