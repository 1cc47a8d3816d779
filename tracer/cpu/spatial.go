package cpu

import (
	"math"
	"time"

	"github.com/glint-render/glint/restir"
	"github.com/glint-render/glint/tracer"
	"github.com/glint-render/glint/types"
)

// spatialReuse merges each pixel's post-temporal reservoir with reservoirs
// from nearby pixels, sampled uniformly over a disk. Neighbors whose view
// depth or shading normal diverge too far are rejected: their reservoirs
// were resampled against a different enough surface that reusing them
// mostly injects bias. The result is written to the history slot, which
// doubles as the shading input and the next frame's temporal source.
func spatialReuse(t *Tracer, req *tracer.FrameRequest) (time.Duration, error) {
	params := t.params

	elapsed := t.forEachRow(func(x, y uint32) {
		idx := t.bufs.index(x, y)
		sp := &t.bufs.gbuffer[idx]
		if sp.miss() {
			t.bufs.history[idx].Initialize()
			return
		}

		gen := &t.bufs.rngs[idx]
		mat, _ := t.scene.MaterialAt(sp.Material)
		frame := types.NewReferenceFrame(sp.Normal)
		dirOutLocal := frame.ToLocal(t.scene.Camera.Position.Sub(sp.Position).Normalize())

		cur := t.bufs.scratch[idx]

		for trial := 0; trial < params.SpatialTrials; trial++ {
			radius := params.SpatialRadius * float32(math.Sqrt(float64(gen.Float32())))
			theta := 2 * math.Pi * float64(gen.Float32())
			nx := int(float32(x) + 0.5 + radius*float32(math.Cos(theta)))
			ny := int(float32(y) + 0.5 + radius*float32(math.Sin(theta)))
			if !t.bufs.inBounds(nx, ny) || (nx == int(x) && ny == int(y)) {
				continue
			}

			nIdx := t.bufs.index(uint32(nx), uint32(ny))
			nsp := &t.bufs.gbuffer[nIdx]
			if nsp.miss() {
				continue
			}
			if abs32(nsp.Depth-sp.Depth) > params.DepthThreshold*sp.Depth {
				continue
			}
			if nsp.Normal.Dot(sp.Normal) < params.NormalThreshold {
				continue
			}

			neighbor := &t.bufs.scratch[nIdx]
			if neighbor.NumSamples() == 0 || neighbor.RecPDFValue() <= 0 {
				continue
			}

			point := t.scene.EvaluateLight(neighbor.Sample())
			neighborDensity := restir.TargetDensity(unshadowedContribution(sp, dirOutLocal, frame, mat, point))

			merged := restir.Combine(&cur, neighbor, neighborDensity, neighbor.NumSamples(), gen.Float32())
			if merged.SumWeights() > 0 {
				survivorPoint := t.scene.EvaluateLight(merged.Sample())
				density := restir.TargetDensity(unshadowedContribution(sp, dirOutLocal, frame, mat, survivorPoint))
				merged.CalcRecPDFValue(density)
			} else {
				merged.SetRecPDFValue(0)
			}
			cur = merged
		}

		t.bufs.history[idx] = cur
	})
	return elapsed, nil
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
