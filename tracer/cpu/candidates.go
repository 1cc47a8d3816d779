package cpu

import (
	"time"

	"github.com/glint-render/glint/restir"
	"github.com/glint-render/glint/scene"
	"github.com/glint-render/glint/tracer"
	"github.com/glint-render/glint/types"
)

// generateCandidates runs initial resampling: each pixel streams a fixed
// number of area light samples through its scratch reservoir, weighted by
// unshadowed contribution over source density. Exactly one shadow ray is
// spent per pixel, on the surviving sample; an occluded survivor keeps its
// place but has its reciprocal-PDF estimate zeroed so it contributes
// nothing until reuse replaces it.
func generateCandidates(t *Tracer, req *tracer.FrameRequest) (time.Duration, error) {
	numCandidates := t.params.NumCandidates()
	hasEmitters := t.scene.HasEmitters()

	elapsed := t.forEachRow(func(x, y uint32) {
		idx := t.bufs.index(x, y)
		res := &t.bufs.scratch[idx]
		res.Initialize()

		sp := &t.bufs.gbuffer[idx]
		if sp.miss() || !hasEmitters {
			return
		}

		gen := &t.bufs.rngs[idx]
		mat, _ := t.scene.MaterialAt(sp.Material)
		frame := types.NewReferenceFrame(sp.Normal)
		dirOutLocal := frame.ToLocal(t.scene.Camera.Position.Sub(sp.Position).Normalize())

		// Track the survivor's density and position so the RIS weight
		// and shadow ray need no re-evaluation after the loop.
		var survivorDensity float32
		var survivorPoint scene.LightPoint

		for i := uint32(0); i < numCandidates; i++ {
			ls, lp, areaPDensity, ok := t.scene.SampleLight(gen.Float32(), gen.Float32(), gen.Float32())
			if !ok {
				break
			}

			density := restir.TargetDensity(unshadowedContribution(sp, dirOutLocal, frame, mat, lp))
			var weight float32
			if areaPDensity > 0 {
				weight = density / areaPDensity
			}
			if res.Update(ls, weight, gen.Float32()) {
				survivorDensity = density
				survivorPoint = lp
			}
		}

		res.CalcRecPDFValue(survivorDensity)
		if res.RecPDFValue() > 0 && t.scene.Occluded(sp.Position, survivorPoint.Position) {
			res.SetRecPDFValue(0)
		}
	})
	return elapsed, nil
}
