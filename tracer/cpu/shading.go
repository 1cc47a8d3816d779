package cpu

import (
	"math"

	"github.com/glint-render/glint/bsdf"
	"github.com/glint-render/glint/scene"
	"github.com/glint-render/glint/types"
)

// unshadowedContribution evaluates what a light-surface point would
// contribute to a shading point if nothing occluded it: BSDF response
// times the emitter's diffuse radiance times the geometry term. Emitters
// are diffuse, so outgoing radiance is exitance over pi. Both the
// resampling target density and final shading are built on this.
func unshadowedContribution(sp *surfacePixel, dirOutLocal types.Vec3, frame types.ReferenceFrame, mat bsdf.BSDF, lp scene.LightPoint) types.Vec3 {
	seg := lp.Position.Sub(sp.Position)
	distSq := seg.LenSq()
	if distSq <= 0 {
		return types.Vec3{}
	}
	dist := float32(math.Sqrt(float64(distSq)))
	dirIn := seg.Mul(1 / dist)

	cosSurf := dirIn.Dot(sp.Normal)
	cosLight := -dirIn.Dot(lp.Normal)
	if cosSurf <= 0 || cosLight <= 0 {
		return types.Vec3{}
	}

	le := lp.Emittance.Mul(1 / math.Pi)
	f := mat.Evaluate(dirOutLocal, frame.ToLocal(dirIn))
	g := cosLight * cosSurf / distSq

	return f.MulVec(le).Mul(g)
}
