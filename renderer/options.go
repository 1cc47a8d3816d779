package renderer

import "github.com/glint-render/glint/restir"

type Options struct {
	// Frame dims.
	FrameW uint32
	FrameH uint32

	// Number of frames to accumulate. Zero means unbounded, which only
	// makes sense for interactive renderers.
	Frames uint32

	// Exposure for tonemapping.
	Exposure float32

	// Base seed for the per-pixel random streams.
	Seed uint32

	// Resampling stage tuning.
	Resampling restir.Params
}
