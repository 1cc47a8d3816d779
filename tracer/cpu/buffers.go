package cpu

import (
	"github.com/glint-render/glint/restir"
	"github.com/glint-render/glint/rng"
	"github.com/glint-render/glint/types"
)

// pixelReservoir is the per-pixel reservoir carrying compact light samples.
type pixelReservoir = restir.Reservoir[restir.LightSample]

// surfacePixel is one G-buffer record: the primary-visibility surface
// attributes every resampling stage shades against. A NaN position marks a
// pixel with no geometry; such pixels stay inert through all stages.
type surfacePixel struct {
	Position types.Vec3
	Normal   types.Vec3
	UV       types.Vec2
	Material uint32

	// View distance, used by the spatial similarity gate.
	Depth float32

	// Screen-space motion to the previous frame: prevPixel = pixel - Motion.
	Motion types.Vec2
}

func (p *surfacePixel) miss() bool {
	return p.Position.IsNaN()
}

// bufferSet owns the per-pixel state that persists across frames: the
// G-buffer, the two reservoir slots and the random streams.
//
// The two reservoir slots have fixed roles. scratch receives the candidate
// generation output and is rewritten in place by temporal reuse; history
// receives the spatial reuse output and is what the next frame's temporal
// stage reads. Candidate generation never touches history, so last frame's
// result stays readable while this frame is being built.
type bufferSet struct {
	frameW uint32
	frameH uint32

	gbuffer []surfacePixel
	scratch []pixelReservoir
	history []pixelReservoir
	rngs    []rng.PCG32
}

func newBufferSet(frameW, frameH, seed uint32) *bufferSet {
	n := int(frameW) * int(frameH)
	b := &bufferSet{
		frameW:  frameW,
		frameH:  frameH,
		gbuffer: make([]surfacePixel, n),
		scratch: make([]pixelReservoir, n),
		history: make([]pixelReservoir, n),
		rngs:    make([]rng.PCG32, n),
	}
	b.reset(seed)
	return b
}

// reset reseeds every pixel's random stream and clears reservoir history.
func (b *bufferSet) reset(seed uint32) {
	for i := range b.rngs {
		b.rngs[i] = rng.New(uint64(seed), uint64(i))
	}
	for i := range b.scratch {
		b.scratch[i].Initialize()
		b.history[i].Initialize()
	}
}

func (b *bufferSet) index(x, y uint32) int {
	return int(y)*int(b.frameW) + int(x)
}

func (b *bufferSet) inBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < int(b.frameW) && y < int(b.frameH)
}
