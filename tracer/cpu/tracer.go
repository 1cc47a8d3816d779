// Package cpu implements the tracer.Tracer contract on the host CPU. Every
// pipeline stage is a data-parallel pass over pixels: row blocks are
// assigned to a fixed pool of workers by a feedback scheduler, and a full
// barrier separates consecutive stages.
package cpu

import (
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/glint-render/glint/log"
	"github.com/glint-render/glint/restir"
	"github.com/glint-render/glint/scene"
	"github.com/glint-render/glint/tracer"
	"github.com/glint-render/glint/types"
)

var logger = log.New("tracer")

// Tracer renders resampled direct lighting for a fixed scene.
type Tracer struct {
	id       string
	scene    *scene.Scene
	params   restir.Params
	pipeline *Pipeline

	frameW uint32
	frameH uint32

	// Caller-owned output buffers (RGBA32F accumulation, RGBA8 display).
	accumBuffer []float32
	frameBuffer []uint8

	bufs *bufferSet

	// Previous frame camera state for motion vectors.
	prevViewProj types.Mat4

	numWorkers int
	scheduler  tracer.BlockScheduler

	// Per-worker frame times feeding the scheduler, and the most recent
	// row assignment (exposed for the interactive overlay).
	workerTimes     []time.Duration
	blockAssignment []uint32

	stats tracer.Stats

	// Guards Reset against a concurrently rendering frame.
	mu sync.Mutex
}

// New creates a CPU tracer with one worker per logical CPU.
func New(sc *scene.Scene, params restir.Params, pipeline *Pipeline) *Tracer {
	numWorkers := runtime.NumCPU()
	return &Tracer{
		id:          fmt.Sprintf("cpu (%d workers)", numWorkers),
		scene:       sc,
		params:      params,
		pipeline:    pipeline,
		numWorkers:  numWorkers,
		scheduler:   tracer.NewFeedbackScheduler(),
		workerTimes: make([]time.Duration, numWorkers),
	}
}

func (t *Tracer) Id() string {
	return t.id
}

// Setup binds the tracer to the frame dimensions and output buffers and
// allocates the persistent per-pixel state.
func (t *Tracer) Setup(frameW, frameH uint32, accumBuffer []float32, frameBuffer []uint8) error {
	if frameW == 0 || frameH == 0 {
		return fmt.Errorf("cpu tracer: invalid frame dimensions %dx%d", frameW, frameH)
	}
	n := int(frameW) * int(frameH)
	if len(accumBuffer) < n*4 {
		return fmt.Errorf("cpu tracer: accumulation buffer too small: %d < %d", len(accumBuffer), n*4)
	}
	if len(frameBuffer) < n*4 {
		return fmt.Errorf("cpu tracer: frame buffer too small: %d < %d", len(frameBuffer), n*4)
	}

	t.frameW, t.frameH = frameW, frameH
	t.accumBuffer = accumBuffer
	t.frameBuffer = frameBuffer
	t.bufs = newBufferSet(frameW, frameH, 0)

	logger.Infof("set up %dx%d frame, %d workers, %d candidates/pixel",
		frameW, frameH, t.numWorkers, t.params.NumCandidates())
	return nil
}

// Reset drops all temporal state: per-pixel random streams are reseeded,
// reservoir history and accumulation are cleared.
func (t *Tracer) Reset(seed uint32) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.bufs.reset(seed)
	for i := range t.accumBuffer {
		t.accumBuffer[i] = 0
	}
	t.scene.Camera.ResetHistory()
}

// RenderFrame runs the pipeline stages in order with a barrier after each.
func (t *Tracer) RenderFrame(req tracer.FrameRequest) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.bufs == nil {
		return fmt.Errorf("cpu tracer: RenderFrame before Setup")
	}

	prev, _ := t.scene.Camera.BeginFrame()
	t.prevViewProj = prev

	frameStart := time.Now()
	t.stats.Stages = t.stats.Stages[:0]

	for _, stage := range t.pipeline.Stages {
		elapsed, err := stage.Run(t, &req)
		if err != nil {
			return fmt.Errorf("cpu tracer: stage %s: %w", stage.Name, err)
		}
		t.stats.Stages = append(t.stats.Stages, tracer.StageStat{Name: stage.Name, Time: elapsed})
	}
	for _, stage := range t.pipeline.PostProcess {
		elapsed, err := stage.Run(t, &req)
		if err != nil {
			return fmt.Errorf("cpu tracer: post-process %s: %w", stage.Name, err)
		}
		t.stats.Stages = append(t.stats.Stages, tracer.StageStat{Name: stage.Name, Time: elapsed})
	}

	t.stats.FrameTime = time.Since(frameStart)
	return nil
}

func (t *Tracer) Stats() *tracer.Stats {
	return &t.stats
}

func (t *Tracer) Close() {
	t.bufs = nil
}

// BlockAssignment exposes the current per-worker row split (read by the
// interactive overlay).
func (t *Tracer) BlockAssignment() []uint32 {
	return t.blockAssignment
}

// forEachRow runs fn over every row, split into per-worker blocks by the
// scheduler. It returns only after every worker finished, which is the
// inter-stage barrier.
func (t *Tracer) forEachRow(fn func(x, y uint32)) time.Duration {
	start := time.Now()

	t.blockAssignment = t.scheduler.Schedule(t.numWorkers, t.frameH, t.workerTimes)

	var wg sync.WaitGroup
	var y0 uint32
	for worker, blockH := range t.blockAssignment {
		wg.Add(1)
		go func(worker int, yStart, yEnd uint32) {
			defer wg.Done()
			workerStart := time.Now()
			for y := yStart; y < yEnd; y++ {
				for x := uint32(0); x < t.frameW; x++ {
					fn(x, y)
				}
			}
			t.workerTimes[worker] = time.Since(workerStart)
		}(worker, y0, y0+blockH)
		y0 += blockH
	}
	wg.Wait()

	return time.Since(start)
}
