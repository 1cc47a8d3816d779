package scene

import (
	"github.com/glint-render/glint/restir"
	"github.com/glint-render/glint/types"
)

// LightPoint is a fully evaluated point on an emissive surface.
type LightPoint struct {
	Position  types.Vec3
	Normal    types.Vec3
	Emittance types.Vec3
}

// SampleLight draws a light-surface point proportionally to the three-level
// emissive importance hierarchy: an instance, a geometry instance within
// it, then a triangle within that, each by its emitted-power weight. The
// single selection uniform is remapped between levels; the two position
// uniforms map to a point on the chosen triangle with the low-distortion
// square-to-triangle transform.
//
// Returns the compact sample encoding, the evaluated point, and the
// resulting area probability density (discrete probability over triangle
// area). ok is false when the scene has no emitters.
func (s *Scene) SampleLight(uSel, uPos0, uPos1 float32) (ls restir.LightSample, point LightPoint, areaPDensity float32, ok bool) {
	ii, instProb, u := s.instDist.Sample(uSel)
	if ii < 0 {
		return restir.LightSample{}, LightPoint{}, 0, false
	}
	inst := s.Instances[ii]

	gi, geomInstProb, u := inst.geomDist.Sample(u)
	if gi < 0 {
		return restir.LightSample{}, LightPoint{}, 0, false
	}
	geom := inst.GeomInsts[gi]

	pi, primProb, _ := geom.primDist.Sample(u)
	if pi < 0 {
		return restir.LightSample{}, LightPoint{}, 0, false
	}

	b1, b2 := squareToTriangle(uPos0, uPos1)
	ls = restir.LightSample{
		InstanceIndex:         uint32(ii),
		GeometryInstanceIndex: uint32(gi),
		PrimitiveIndex:        uint32(pi),
		B1:                    b1,
		B2:                    b2,
	}

	v0, v1, v2 := geom.WorldTriangle(uint32(pi))
	area := triangleArea(v0.Position, v1.Position, v2.Position)
	if area <= 0 {
		return restir.LightSample{}, LightPoint{}, 0, false
	}

	point = s.evaluateOn(geom, v0, v1, v2, b1, b2)
	areaPDensity = instProb * geomInstProb * primProb / area
	return ls, point, areaPDensity, true
}

// EvaluateLight re-derives the surface point encoded by a light sample.
// It is a pure function of the stored indices and barycentrics: reservoirs
// carry only the compact encoding, and reuse stages re-evaluate it at every
// receiving pixel.
func (s *Scene) EvaluateLight(ls restir.LightSample) LightPoint {
	geom := s.Instances[ls.InstanceIndex].GeomInsts[ls.GeometryInstanceIndex]
	v0, v1, v2 := geom.WorldTriangle(ls.PrimitiveIndex)
	return s.evaluateOn(geom, v0, v1, v2, ls.B1, ls.B2)
}

func (s *Scene) evaluateOn(geom *GeometryInstance, v0, v1, v2 Vertex, b1, b2 float32) LightPoint {
	b0 := 1 - b1 - b2
	return LightPoint{
		Position:  v0.Position.Mul(b0).Add(v1.Position.Mul(b1)).Add(v2.Position.Mul(b2)),
		Normal:    v1.Position.Sub(v0.Position).Cross(v2.Position.Sub(v0.Position)).Normalize(),
		Emittance: s.Materials[geom.Material].Emittance,
	}
}

// squareToTriangle maps two independent uniforms to barycentrics with the
// low-distortion unit-square-to-triangle transform (Heitz 2019). Unlike the
// naive sqrt mapping it keeps stretch low across the whole triangle.
func squareToTriangle(u0, u1 float32) (b1, b2 float32) {
	b1 = 0.5 * u0
	b2 = 0.5 * u1
	offset := b2 - b1
	if offset > 0 {
		b2 += offset
	} else {
		b1 -= offset
	}
	return b1, b2
}
