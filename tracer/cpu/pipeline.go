package cpu

import (
	"time"

	"github.com/glint-render/glint/tracer"
)

// PipelineStage is one full-frame pass. Stages run strictly in sequence;
// the runner inserts a barrier after each so no pixel enters a stage before
// every pixel has left the previous one.
type PipelineStage struct {
	Name string
	Run  func(t *Tracer, req *tracer.FrameRequest) (time.Duration, error)
}

// Pipeline is the ordered list of stages that renders one frame. The
// resampling chain is fixed (G-buffer, candidates, temporal, spatial,
// shade); post-process stages are pluggable.
type Pipeline struct {
	Stages      []PipelineStage
	PostProcess []PipelineStage
}

// DefaultPipeline assembles the standard resampled direct-lighting frame.
func DefaultPipeline() *Pipeline {
	return &Pipeline{
		Stages: []PipelineStage{
			{Name: "gbuffer", Run: rasterizeGBuffer},
			{Name: "candidates", Run: generateCandidates},
			{Name: "temporal", Run: temporalReuse},
			{Name: "spatial", Run: spatialReuse},
			{Name: "shade", Run: shadeReservoirs},
		},
		PostProcess: []PipelineStage{
			{Name: "tonemap", Run: tonemapReinhard},
		},
	}
}
