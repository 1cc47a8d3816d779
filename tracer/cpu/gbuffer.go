package cpu

import (
	"math"
	"time"

	"github.com/glint-render/glint/scene"
	"github.com/glint-render/glint/tracer"
	"github.com/glint-render/glint/types"
)

// rasterizeGBuffer traces one primary ray per pixel and records the
// surface attributes the resampling stages shade against. Pixels that hit
// nothing get a NaN position sentinel and stay inert downstream.
func rasterizeGBuffer(t *Tracer, req *tracer.FrameRequest) (time.Duration, error) {
	cam := t.scene.Camera
	prevVP := t.prevViewProj
	invW := 1 / float32(t.frameW)
	invH := 1 / float32(t.frameH)

	elapsed := t.forEachRow(func(x, y uint32) {
		idx := t.bufs.index(x, y)

		px := float32(x) + 0.5
		py := float32(y) + 0.5
		dir := cam.PrimaryRayDir(px*invW, py*invH)

		hit, ok := t.scene.Trace(scene.Ray{
			Origin: cam.Position,
			Dir:    dir,
			TMin:   0,
			TMax:   math.MaxFloat32,
		})
		if !ok {
			t.bufs.gbuffer[idx] = surfacePixel{
				Position: types.XYZ(types.NaN32(), types.NaN32(), types.NaN32()),
			}
			return
		}

		// Motion points from the current pixel back to where this
		// surface point projected last frame.
		var motion types.Vec2
		if prevPix, visible := scene.ProjectToPixel(prevVP, hit.Position, t.frameW, t.frameH); visible {
			motion = types.XY(px, py).Sub(prevPix)
		}

		t.bufs.gbuffer[idx] = surfacePixel{
			Position: hit.Position,
			Normal:   hit.ShadingNormal,
			UV:       hit.UV,
			Material: hit.Material,
			Depth:    hit.T,
			Motion:   motion,
		}
	})
	return elapsed, nil
}
