package scene

import (
	"math"
	"testing"

	"github.com/glint-render/glint/types"
)

func TestTraceClosestHit(t *testing.T) {
	s := twoLightScene(t)

	// Straight down onto the floor from above.
	hit, ok := s.Trace(Ray{
		Origin: types.XYZ(0.25, 1, 0.25),
		Dir:    types.XYZ(0, -1, 0),
		TMin:   1e-4,
		TMax:   float32(math.Inf(1)),
	})
	if !ok {
		t.Fatal("ray aimed at floor missed")
	}
	if math.Abs(float64(hit.T-1)) > 1e-4 {
		t.Errorf("hit distance %f, want 1", hit.T)
	}
	if hit.ShadingNormal.Sub(types.XYZ(0, 1, 0)).Len() > 1e-5 {
		t.Errorf("floor normal %v, want (0,1,0)", hit.ShadingNormal)
	}
	if hit.Position.Sub(types.XYZ(0.25, 0, 0.25)).Len() > 1e-4 {
		t.Errorf("hit position %v", hit.Position)
	}
	if s.Materials[hit.Material].Name != "white" {
		t.Errorf("hit material %q, want white", s.Materials[hit.Material].Name)
	}

	// The hit must identify the triangle it landed on.
	geom := s.Instances[hit.Instance].GeomInsts[hit.GeomInst]
	if int(hit.Prim) >= len(geom.Triangles) {
		t.Errorf("hit primitive index %d out of range", hit.Prim)
	}
}

func TestTraceMiss(t *testing.T) {
	s := twoLightScene(t)

	_, ok := s.Trace(Ray{
		Origin: types.XYZ(0, 1, 0),
		Dir:    types.XYZ(0, 0, 1).Normalize(),
		TMin:   1e-4,
		TMax:   float32(math.Inf(1)),
	})
	if ok {
		t.Error("ray aimed at open space reported a hit")
	}
}

func TestOccluded(t *testing.T) {
	s := twoLightScene(t)

	// Floor blocks the segment between points on opposite sides of it.
	if !s.Occluded(types.XYZ(0, 1, 0), types.XYZ(0, -1, 0)) {
		t.Error("segment through the floor not occluded")
	}

	// Clear line of sight above the floor.
	if s.Occluded(types.XYZ(-0.5, 0.5, 0), types.XYZ(0.5, 0.5, 0)) {
		t.Error("unobstructed segment reported occluded")
	}

	// Endpoint epsilon: a segment from the floor surface straight up to a
	// lamp must not be shadowed by either endpoint's own surface.
	if s.Occluded(types.XYZ(-1.5, 0, 0), types.XYZ(-1.5, 2, 0)) {
		t.Error("floor-to-lamp segment self-shadowed")
	}
}

func TestTraceBarycentricsInterpolatePosition(t *testing.T) {
	s := twoLightScene(t)

	hit, ok := s.Trace(Ray{
		Origin: types.XYZ(-0.4, 2, 0.1),
		Dir:    types.XYZ(0.2, -1, -0.05).Normalize(),
		TMin:   1e-4,
		TMax:   float32(math.Inf(1)),
	})
	if !ok {
		t.Fatal("expected floor hit")
	}

	geom := s.Instances[hit.Instance].GeomInsts[hit.GeomInst]
	v0, v1, v2 := geom.WorldTriangle(hit.Prim)
	b0 := 1 - hit.B1 - hit.B2
	reconstructed := v0.Position.Mul(b0).
		Add(v1.Position.Mul(hit.B1)).
		Add(v2.Position.Mul(hit.B2))

	if reconstructed.Sub(hit.Position).Len() > 1e-4 {
		t.Errorf("barycentric reconstruction %v != hit position %v", reconstructed, hit.Position)
	}
}
