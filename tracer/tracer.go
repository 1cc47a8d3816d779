// Package tracer defines the frame-tracing contract between the renderer
// front-ends and the tracing backends, plus the row-block scheduling used
// to spread per-pixel work across workers.
package tracer

import "time"

// FrameRequest is the unit of work handed to a tracer: accumulate one more
// frame into the output buffers.
type FrameRequest struct {
	// Number of frames accumulated since the last reset. Frame zero has
	// no reservoir history, so temporal reuse degrades to self-only.
	FrameCount uint32

	// Base value for the per-pixel random streams. Only consulted when
	// the streams are (re)seeded on reset.
	Seed uint32

	// Exposure applied by tone-mapping.
	Exposure float32
}

// StageStat is the measured cost of one pipeline stage for one frame.
type StageStat struct {
	Name string
	Time time.Duration
}

// Stats captures per-stage timings of the most recent frame.
type Stats struct {
	Stages    []StageStat
	FrameTime time.Duration
}

// Tracer renders frames into caller-owned buffers.
type Tracer interface {
	// Id returns a human-readable tracer identifier.
	Id() string

	// Setup binds the tracer to the frame dimensions and output buffers:
	// an RGBA float32 accumulation buffer and an RGBA8 display buffer.
	Setup(frameW, frameH uint32, accumBuffer []float32, frameBuffer []uint8) error

	// RenderFrame runs the full pipeline for one frame. Stages execute
	// strictly in sequence with a full barrier between them.
	RenderFrame(req FrameRequest) error

	// Reset reseeds the per-pixel random streams and drops all
	// accumulated state (reservoir history included). Called on camera
	// cuts and interactive camera movement.
	Reset(seed uint32)

	// Stats returns the timings of the most recent frame.
	Stats() *Stats

	// Close releases tracer resources.
	Close()
}
