package cpu

import (
	"time"

	"github.com/glint-render/glint/restir"
	"github.com/glint-render/glint/tracer"
	"github.com/glint-render/glint/types"
)

// temporalReuse merges each pixel's fresh candidate reservoir with the
// reservoir it reprojects to in the previous frame, following motion
// vectors. The history's sample count is capped at a multiple of the
// current count so stale samples cannot dominate indefinitely. Frame zero
// has no history and the stage is a no-op.
func temporalReuse(t *Tracer, req *tracer.FrameRequest) (time.Duration, error) {
	if req.FrameCount == 0 {
		return 0, nil
	}
	factor := t.params.TemporalHistoryFactor

	elapsed := t.forEachRow(func(x, y uint32) {
		idx := t.bufs.index(x, y)
		sp := &t.bufs.gbuffer[idx]
		if sp.miss() {
			return
		}
		cur := &t.bufs.scratch[idx]

		prevX := int(float32(x) + 0.5 - sp.Motion[0])
		prevY := int(float32(y) + 0.5 - sp.Motion[1])
		if !t.bufs.inBounds(prevX, prevY) {
			return
		}
		prev := &t.bufs.history[t.bufs.index(uint32(prevX), uint32(prevY))]
		if prev.NumSamples() == 0 || prev.RecPDFValue() <= 0 {
			return
		}

		gen := &t.bufs.rngs[idx]
		mat, _ := t.scene.MaterialAt(sp.Material)
		frame := types.NewReferenceFrame(sp.Normal)
		dirOutLocal := frame.ToLocal(t.scene.Camera.Position.Sub(sp.Position).Normalize())

		// The history sample's density is re-evaluated at this frame's
		// surface point; a sample that no longer illuminates it merges
		// with zero weight.
		prevPoint := t.scene.EvaluateLight(prev.Sample())
		neighborDensity := restir.TargetDensity(unshadowedContribution(sp, dirOutLocal, frame, mat, prevPoint))

		capped := prev.NumSamples()
		if limit := factor * cur.NumSamples(); capped > limit {
			capped = limit
		}

		combined := restir.Combine(cur, prev, neighborDensity, capped, gen.Float32())
		if combined.SumWeights() > 0 {
			survivorPoint := t.scene.EvaluateLight(combined.Sample())
			density := restir.TargetDensity(unshadowedContribution(sp, dirOutLocal, frame, mat, survivorPoint))
			combined.CalcRecPDFValue(density)
		} else {
			combined.SetRecPDFValue(0)
		}
		*cur = combined
	})
	return elapsed, nil
}
