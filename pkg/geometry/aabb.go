package geometry

import (
	"math"

	"github.com/dusk-path/pathtracer/pkg/core"
)

// AABB is an axis-aligned bounding box, represented by its min/max corners.
type AABB struct {
	Min core.Vec3
	Max core.Vec3
}

// EmptyAABB returns a degenerate AABB (Min > Max on every axis) suitable as
// the identity element for Merge.
func EmptyAABB() AABB {
	inf := math.Inf(1)
	return AABB{
		Min: core.NewVec3(inf, inf, inf),
		Max: core.NewVec3(-inf, -inf, -inf),
	}
}

// NewAABB constructs an AABB from explicit min/max corners.
func NewAABB(min, max core.Vec3) AABB {
	return AABB{Min: min, Max: max}
}

// NewAABBFromPoints returns the tightest AABB enclosing all given points.
func NewAABBFromPoints(points ...core.Vec3) AABB {
	box := EmptyAABB()
	for _, p := range points {
		box.Min = box.Min.Min(p)
		box.Max = box.Max.Max(p)
	}
	return box
}

// Merge returns an AABB bounding both this box and other. Merge is
// commutative and associative, and merging a box with itself is the
// identity.
func (a AABB) Merge(other AABB) AABB {
	return AABB{Min: a.Min.Min(other.Min), Max: a.Max.Max(other.Max)}
}

// Center returns the box's midpoint.
func (a AABB) Center() core.Vec3 {
	return a.Min.Add(a.Max).Multiply(0.5)
}

// Size returns the box's extent along each axis.
func (a AABB) Size() core.Vec3 {
	return a.Max.Subtract(a.Min)
}

// Axis indices returned by LongestAxis.
const (
	AxisX = 0
	AxisY = 1
	AxisZ = 2
)

// LongestAxis returns the axis with the greatest extent. Ties break toward
// Y, then Z, then X: the implementation returns the first axis (in that
// order) whose size is >= each of the others.
func (a AABB) LongestAxis() int {
	size := a.Size()
	if size.Y >= size.X && size.Y >= size.Z {
		return AxisY
	}
	if size.Z >= size.X && size.Z >= size.Y {
		return AxisZ
	}
	return AxisX
}

// axisValue extracts the given axis component from a vector.
func axisValue(v core.Vec3, axis int) float64 {
	switch axis {
	case AxisX:
		return v.X
	case AxisY:
		return v.Y
	default:
		return v.Z
	}
}

// Hit performs the slab test for ray/AABB intersection within [tMin, tMax],
// returning only whether an intersection exists.
func (a AABB) Hit(ray core.Ray, tMin, tMax float64) bool {
	origin := [3]float64{ray.Origin.X, ray.Origin.Y, ray.Origin.Z}
	direction := [3]float64{ray.Direction.X, ray.Direction.Y, ray.Direction.Z}
	boxMin := [3]float64{a.Min.X, a.Min.Y, a.Min.Z}
	boxMax := [3]float64{a.Max.X, a.Max.Y, a.Max.Z}

	for axis := 0; axis < 3; axis++ {
		invDir := 1.0 / direction[axis]
		t0 := (boxMin[axis] - origin[axis]) * invDir
		t1 := (boxMax[axis] - origin[axis]) * invDir

		if invDir < 0 {
			t0, t1 = t1, t0
		}

		if t0 > tMin {
			tMin = t0
		}
		if t1 < tMax {
			tMax = t1
		}

		if tMax <= tMin {
			return false
		}
	}

	return true
}
