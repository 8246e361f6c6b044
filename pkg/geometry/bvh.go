package geometry

import (
	"sort"

	"github.com/dusk-path/pathtracer/pkg/core"
)

// LeafThreshold is the default maximum span size stored in a BVH leaf.
const LeafThreshold = 5

// bvhNode is a single entry in the BVH's flat node arena. Interior nodes
// carry child indices into the same arena; leaf nodes carry a [Begin, End)
// span into the (reordered) primitive array. A node is a leaf iff
// Left == -1.
type bvhNode struct {
	Bounds      AABB
	Left, Right int32
	Begin, End  int32
}

// BVH is a bounding volume hierarchy built once over a primitive list by
// recursive median split along each node's longest axis. The tree is stored
// as a contiguous node arena indexed by position (cache-friendlier than a
// pointer tree) rather than a pointer-linked structure.
type BVH struct {
	Nodes      []bvhNode
	Primitives []Primitive // reordered during construction; identity preserved via Primitive.ID
	LeafSize   int
}

// NewBVH builds a BVH over the given primitives using the default leaf
// threshold.
func NewBVH(primitives []Primitive) *BVH {
	return NewBVHWithLeafSize(primitives, LeafThreshold)
}

// NewBVHWithLeafSize builds a BVH with a configurable leaf-size threshold.
// Construction is single-threaded and does not mutate the input slice; a
// copy is reordered in place during the build.
func NewBVHWithLeafSize(primitives []Primitive, leafSize int) *BVH {
	b := &BVH{
		Primitives: append([]Primitive(nil), primitives...),
		LeafSize:   leafSize,
	}
	if len(b.Primitives) == 0 {
		return b
	}
	b.build(0, int32(len(b.Primitives)))
	return b
}

// build recursively constructs the node arena over primitives[begin:end],
// appending nodes depth-first and returning the index of the node it created.
func (b *BVH) build(begin, end int32) int32 {
	span := b.Primitives[begin:end]

	bounds := span[0].Bounds
	for i := 1; i < len(span); i++ {
		bounds = bounds.Merge(span[i].Bounds)
	}

	nodeIndex := int32(len(b.Nodes))
	b.Nodes = append(b.Nodes, bvhNode{Bounds: bounds})

	if len(span) <= b.LeafSize {
		b.Nodes[nodeIndex].Left = -1
		b.Nodes[nodeIndex].Begin = begin
		b.Nodes[nodeIndex].End = end
		return nodeIndex
	}

	axis := bounds.LongestAxis()
	sort.Slice(span, func(i, j int) bool {
		return axisValue(span[i].Bounds.Min, axis) < axisValue(span[j].Bounds.Min, axis)
	})

	mid := begin + int32(len(span))/2
	left := b.build(begin, mid)
	right := b.build(mid, end)

	b.Nodes[nodeIndex].Left = left
	b.Nodes[nodeIndex].Right = right
	return nodeIndex
}

// traversalTMin/traversalTMax is the default traversal interval: the global
// shadow-ray/continuation bias that prevents self-intersection.
const (
	traversalTMin = 0.01
	traversalTMax = 1e9
)

// Hit traverses the BVH from the root and returns the closest hit within
// (tMin, tMax), or nothing on a miss.
func (b *BVH) Hit(ray core.Ray, tMin, tMax float64) (Intersection, bool) {
	if len(b.Nodes) == 0 {
		return Intersection{}, false
	}
	return b.hitNode(0, ray, tMin, tMax)
}

// HitDefault traverses with the standard (0.01, 1e9) shadow/continuation
// interval used throughout the integrator.
func (b *BVH) HitDefault(ray core.Ray) (Intersection, bool) {
	return b.Hit(ray, traversalTMin, traversalTMax)
}

func (b *BVH) hitNode(index int32, ray core.Ray, tMin, tMax float64) (Intersection, bool) {
	node := &b.Nodes[index]
	if !node.Bounds.Hit(ray, tMin, tMax) {
		return Intersection{}, false
	}

	if node.Left == -1 {
		closest := tMax
		var best Intersection
		found := false
		for i := node.Begin; i < node.End; i++ {
			if hit, ok := b.Primitives[i].Hit(ray, tMin, closest); ok {
				closest = hit.T
				best = hit
				found = true
			}
		}
		return best, found
	}

	leftHit, leftOK := b.hitNode(node.Left, ray, tMin, tMax)
	closest := tMax
	if leftOK {
		closest = leftHit.T
	}
	rightHit, rightOK := b.hitNode(node.Right, ray, tMin, closest)
	if rightOK {
		return rightHit, true
	}
	if leftOK {
		return leftHit, true
	}
	return Intersection{}, false
}

// PrimitiveIDs returns the set of primitive ids covered by all leaves,
// exercised by tests that check BVH construction didn't drop any input.
func (b *BVH) PrimitiveIDs() map[uint32]bool {
	ids := make(map[uint32]bool, len(b.Primitives))
	for _, p := range b.Primitives {
		ids[p.ID] = true
	}
	return ids
}

// RootBounds returns the root node's AABB, or an empty box for an empty BVH.
func (b *BVH) RootBounds() AABB {
	if len(b.Nodes) == 0 {
		return EmptyAABB()
	}
	return b.Nodes[0].Bounds
}

// BoundsContain reports whether inner is fully contained in outer, within a
// small numeric slack — used by tests to check nesting invariants.
func BoundsContain(outer, inner AABB) bool {
	const eps = 1e-9
	return inner.Min.X >= outer.Min.X-eps && inner.Min.Y >= outer.Min.Y-eps && inner.Min.Z >= outer.Min.Z-eps &&
		inner.Max.X <= outer.Max.X+eps && inner.Max.Y <= outer.Max.Y+eps && inner.Max.Z <= outer.Max.Z+eps
}

// BruteForceHit linearly scans every primitive for the closest hit. Used by
// tests to cross-check BVH traversal against an obviously-correct reference.
func BruteForceHit(primitives []Primitive, ray core.Ray, tMin, tMax float64) (Intersection, bool) {
	closest := tMax
	var best Intersection
	found := false
	for i := range primitives {
		if hit, ok := primitives[i].Hit(ray, tMin, closest); ok {
			closest = hit.T
			best = hit
			found = true
		}
	}
	return best, found
}
