package cpu

import (
	"time"

	"github.com/glint-render/glint/tracer"
	"github.com/glint-render/glint/types"
)

// shadeReservoirs produces final radiance per pixel: the surface's own
// emission plus the surviving light sample's contribution scaled by the
// reciprocal-PDF estimate, gated by one shadow ray. The result is added to
// the accumulation buffer; tone-mapping divides by the frame count.
func shadeReservoirs(t *Tracer, req *tracer.FrameRequest) (time.Duration, error) {
	elapsed := t.forEachRow(func(x, y uint32) {
		idx := t.bufs.index(x, y)
		sp := &t.bufs.gbuffer[idx]

		var color types.Vec3
		if !sp.miss() {
			mat, emittance := t.scene.MaterialAt(sp.Material)
			color = emittance

			res := &t.bufs.history[idx]
			if res.NumSamples() > 0 && res.RecPDFValue() > 0 {
				point := t.scene.EvaluateLight(res.Sample())
				if !t.scene.Occluded(sp.Position, point.Position) {
					frame := types.NewReferenceFrame(sp.Normal)
					dirOutLocal := frame.ToLocal(t.scene.Camera.Position.Sub(sp.Position).Normalize())
					contrib := unshadowedContribution(sp, dirOutLocal, frame, mat, point).Mul(res.RecPDFValue())
					if contrib.IsFinite() {
						color = color.Add(contrib)
					}
				}
			}
		}

		base := idx * 4
		t.accumBuffer[base] += color[0]
		t.accumBuffer[base+1] += color[1]
		t.accumBuffer[base+2] += color[2]
		t.accumBuffer[base+3] += 1
	})
	return elapsed, nil
}
