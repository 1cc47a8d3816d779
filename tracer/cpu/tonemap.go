package cpu

import (
	"math"
	"time"

	"github.com/glint-render/glint/tracer"
)

const invGamma = 1 / 2.2

// tonemapReinhard resolves the running accumulation average into the
// display buffer: exposure scale, Reinhard compression, gamma encode.
func tonemapReinhard(t *Tracer, req *tracer.FrameRequest) (time.Duration, error) {
	scale := req.Exposure / float32(req.FrameCount+1)

	elapsed := t.forEachRow(func(x, y uint32) {
		base := t.bufs.index(x, y) * 4
		for c := 0; c < 3; c++ {
			v := t.accumBuffer[base+c] * scale
			v = v / (1 + v)
			v = float32(math.Pow(float64(v), invGamma))
			if v < 0 {
				v = 0
			} else if v > 1 {
				v = 1
			}
			t.frameBuffer[base+c] = uint8(v*255 + 0.5)
		}
		t.frameBuffer[base+3] = 255
	})
	return elapsed, nil
}
