package scene

import (
	"math"
	"sort"

	"github.com/glint-render/glint/types"
)

// Ray is the input to the tracing collaborator calls.
type Ray struct {
	Origin types.Vec3
	Dir    types.Vec3
	TMin   float32
	TMax   float32
}

// Hit carries the interpolated surface attributes of the closest
// intersection.
type Hit struct {
	T             float32
	Position      types.Vec3
	GeomNormal    types.Vec3
	ShadingNormal types.Vec3
	UV            types.Vec2
	B1, B2        float32

	Instance uint32
	GeomInst uint32
	Prim     uint32
	Material uint32
}

const occlusionEpsilon = 1e-3

// Trace finds the closest intersection along the ray and interpolates the
// surface attributes at the hit point.
func (s *Scene) Trace(ray Ray) (Hit, bool) {
	tri, t, b1, b2, ok := s.bvh.closestHit(ray)
	if !ok {
		return Hit{}, false
	}

	geom := s.Instances[tri.instance].GeomInsts[tri.geomInst]
	v0, v1, v2 := geom.WorldTriangle(tri.prim)
	b0 := 1 - b1 - b2

	shadingNormal := v0.Normal.Mul(b0).Add(v1.Normal.Mul(b1)).Add(v2.Normal.Mul(b2)).Normalize()
	geomNormal := v1.Position.Sub(v0.Position).Cross(v2.Position.Sub(v0.Position)).Normalize()

	return Hit{
		T:             t,
		Position:      ray.Origin.Add(ray.Dir.Mul(t)),
		GeomNormal:    geomNormal,
		ShadingNormal: shadingNormal,
		UV:            v0.UV.Mul(b0).Add(v1.UV.Mul(b1)).Add(v2.UV.Mul(b2)),
		B1:            b1,
		B2:            b2,
		Instance:      tri.instance,
		GeomInst:      tri.geomInst,
		Prim:          tri.prim,
		Material:      geom.Material,
	}, true
}

// Occluded reports whether any geometry blocks the open segment between two
// points. Both endpoints are pulled in by an epsilon so the surfaces at the
// endpoints do not shadow themselves.
func (s *Scene) Occluded(from, to types.Vec3) bool {
	seg := to.Sub(from)
	dist := seg.Len()
	if dist <= 2*occlusionEpsilon {
		return false
	}
	ray := Ray{
		Origin: from,
		Dir:    seg.Mul(1 / dist),
		TMin:   occlusionEpsilon,
		TMax:   dist - occlusionEpsilon,
	}
	return s.bvh.anyHit(ray)
}

// bvhTriangle is one world-space triangle with its hierarchy identifiers.
type bvhTriangle struct {
	instance uint32
	geomInst uint32
	prim     uint32
	v0       types.Vec3
	v1       types.Vec3
	v2       types.Vec3
}

func (t *bvhTriangle) bounds() (types.Vec3, types.Vec3) {
	return types.MinVec3(t.v0, types.MinVec3(t.v1, t.v2)),
		types.MaxVec3(t.v0, types.MaxVec3(t.v1, t.v2))
}

func (t *bvhTriangle) center() types.Vec3 {
	return t.v0.Add(t.v1).Add(t.v2).Mul(1.0 / 3.0)
}

// Möller-Trumbore intersection; returns hit distance and barycentrics.
func (t *bvhTriangle) intersect(ray Ray) (float32, float32, float32, bool) {
	const epsilon = 1e-8

	e1 := t.v1.Sub(t.v0)
	e2 := t.v2.Sub(t.v0)

	h := ray.Dir.Cross(e2)
	det := e1.Dot(h)
	if det > -epsilon && det < epsilon {
		return 0, 0, 0, false
	}

	invDet := 1.0 / det
	s := ray.Origin.Sub(t.v0)
	b1 := s.Dot(h) * invDet
	if b1 < 0 || b1 > 1 {
		return 0, 0, 0, false
	}

	q := s.Cross(e1)
	b2 := ray.Dir.Dot(q) * invDet
	if b2 < 0 || b1+b2 > 1 {
		return 0, 0, 0, false
	}

	dist := e2.Dot(q) * invDet
	if dist < ray.TMin || dist > ray.TMax {
		return 0, 0, 0, false
	}
	return dist, b1, b2, true
}

// bvh is a median-split bounding volume hierarchy over the scene's
// world-space triangles.
type bvh struct {
	root *bvhNode
}

type bvhNode struct {
	min, max types.Vec3
	left     *bvhNode
	right    *bvhNode
	tris     []bvhTriangle // leaf payload; nil for interior nodes
}

const bvhLeafThreshold = 4

func newBVH(tris []bvhTriangle) *bvh {
	if len(tris) == 0 {
		return &bvh{}
	}
	return &bvh{root: buildBVHNode(tris)}
}

func buildBVHNode(tris []bvhTriangle) *bvhNode {
	node := &bvhNode{
		min: types.XYZ(float32(math.Inf(1)), float32(math.Inf(1)), float32(math.Inf(1))),
		max: types.XYZ(float32(math.Inf(-1)), float32(math.Inf(-1)), float32(math.Inf(-1))),
	}
	for i := range tris {
		lo, hi := tris[i].bounds()
		node.min = types.MinVec3(node.min, lo)
		node.max = types.MaxVec3(node.max, hi)
	}

	if len(tris) <= bvhLeafThreshold {
		node.tris = tris
		return node
	}

	// Median split along the longest extent.
	extent := node.max.Sub(node.min)
	axis := 0
	if extent[1] > extent[axis] {
		axis = 1
	}
	if extent[2] > extent[axis] {
		axis = 2
	}
	sort.Slice(tris, func(i, j int) bool {
		return tris[i].center()[axis] < tris[j].center()[axis]
	})

	mid := len(tris) / 2
	node.left = buildBVHNode(tris[:mid])
	node.right = buildBVHNode(tris[mid:])
	return node
}

func (n *bvhNode) intersectsBounds(ray Ray, tMax float32) bool {
	tMin := ray.TMin
	for axis := 0; axis < 3; axis++ {
		invD := 1.0 / ray.Dir[axis]
		t0 := (n.min[axis] - ray.Origin[axis]) * invD
		t1 := (n.max[axis] - ray.Origin[axis]) * invD
		if invD < 0 {
			t0, t1 = t1, t0
		}
		if t0 > tMin {
			tMin = t0
		}
		if t1 < tMax {
			tMax = t1
		}
		if tMax < tMin {
			return false
		}
	}
	return true
}

func (b *bvh) closestHit(ray Ray) (*bvhTriangle, float32, float32, float32, bool) {
	if b.root == nil {
		return nil, 0, 0, 0, false
	}

	var best *bvhTriangle
	var bestT, bestB1, bestB2 float32
	bestT = ray.TMax

	var walk func(n *bvhNode)
	walk = func(n *bvhNode) {
		if n == nil || !n.intersectsBounds(ray, bestT) {
			return
		}
		if n.tris != nil {
			for i := range n.tris {
				limited := ray
				limited.TMax = bestT
				if t, b1, b2, ok := n.tris[i].intersect(limited); ok {
					best = &n.tris[i]
					bestT, bestB1, bestB2 = t, b1, b2
				}
			}
			return
		}
		walk(n.left)
		walk(n.right)
	}
	walk(b.root)

	if best == nil {
		return nil, 0, 0, 0, false
	}
	return best, bestT, bestB1, bestB2, true
}

func (b *bvh) anyHit(ray Ray) bool {
	if b.root == nil {
		return false
	}

	var walk func(n *bvhNode) bool
	walk = func(n *bvhNode) bool {
		if n == nil || !n.intersectsBounds(ray, ray.TMax) {
			return false
		}
		if n.tris != nil {
			for i := range n.tris {
				if _, _, _, ok := n.tris[i].intersect(ray); ok {
					return true
				}
			}
			return false
		}
		return walk(n.left) || walk(n.right)
	}
	return walk(b.root)
}
