package renderer

import "time"

type StageStat struct {
	// Pipeline stage name.
	Name string

	// Time spent in the stage for the last frame.
	Time time.Duration

	// The percentage of total frame time the stage accounts for.
	FramePercent float32
}

type FrameStats struct {
	// Per-stage breakdown of the last frame.
	Stages []StageStat

	// Total render time for the last frame.
	RenderTime time.Duration

	// Frames accumulated since the last reset.
	Frames uint32
}
