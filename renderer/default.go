package renderer

import (
	"github.com/glint-render/glint/log"
	"github.com/glint-render/glint/scene"
	"github.com/glint-render/glint/tracer"
)

var logger = log.New("renderer")

// defaultRenderer accumulates a fixed number of frames into the output
// buffers. It is also the base for the interactive renderer, which
// replaces the outer loop.
type defaultRenderer struct {
	options Options

	sc *scene.Scene
	tr tracer.Tracer

	accumBuffer []float32
	frameBuffer []uint8

	frameCount uint32
}

// NewDefault creates a non-interactive renderer that accumulates
// opts.Frames frames.
func NewDefault(sc *scene.Scene, tr tracer.Tracer, opts Options) (Renderer, error) {
	r, err := newDefault(sc, tr, opts)
	if err != nil {
		return nil, err
	}
	return r, nil
}

func newDefault(sc *scene.Scene, tr tracer.Tracer, opts Options) (*defaultRenderer, error) {
	if sc == nil {
		return nil, ErrSceneNotDefined
	}
	if sc.Camera == nil {
		return nil, ErrCameraNotDefined
	}
	if tr == nil {
		return nil, ErrNoTracer
	}
	if opts.FrameW == 0 || opts.FrameH == 0 {
		return nil, ErrInvalidFrameDims
	}
	if opts.Exposure == 0 {
		opts.Exposure = 1
	}

	if !sc.HasEmitters() {
		logger.Warning("scene contains no emitters; output will be emission-only")
	}

	sc.Camera.SetupProjection(float32(opts.FrameW) / float32(opts.FrameH))

	n := int(opts.FrameW) * int(opts.FrameH)
	r := &defaultRenderer{
		options:     opts,
		sc:          sc,
		tr:          tr,
		accumBuffer: make([]float32, n*4),
		frameBuffer: make([]uint8, n*4),
	}

	if err := tr.Setup(opts.FrameW, opts.FrameH, r.accumBuffer, r.frameBuffer); err != nil {
		return nil, err
	}
	tr.Reset(opts.Seed)

	logger.Noticef("using tracer: %s", tr.Id())
	return r, nil
}

func (r *defaultRenderer) Render() error {
	frames := r.options.Frames
	if frames == 0 {
		frames = 1
	}
	for i := uint32(0); i < frames; i++ {
		if err := r.renderFrame(); err != nil {
			return err
		}
	}
	return nil
}

// renderFrame accumulates one more frame.
func (r *defaultRenderer) renderFrame() error {
	err := r.tr.RenderFrame(tracer.FrameRequest{
		FrameCount: r.frameCount,
		Seed:       r.options.Seed,
		Exposure:   r.options.Exposure,
	})
	if err != nil {
		return err
	}
	r.frameCount++
	return nil
}

// restart drops accumulated state after a camera change.
func (r *defaultRenderer) restart() {
	r.tr.Reset(r.options.Seed)
	r.frameCount = 0
}

func (r *defaultRenderer) FrameBuffer() []uint8 {
	return r.frameBuffer
}

func (r *defaultRenderer) Stats() FrameStats {
	trStats := r.tr.Stats()
	stats := FrameStats{
		RenderTime: trStats.FrameTime,
		Frames:     r.frameCount,
	}
	for _, st := range trStats.Stages {
		pct := float32(0)
		if trStats.FrameTime > 0 {
			pct = 100 * float32(st.Time) / float32(trStats.FrameTime)
		}
		stats.Stages = append(stats.Stages, StageStat{
			Name:         st.Name,
			Time:         st.Time,
			FramePercent: pct,
		})
	}
	return stats
}

func (r *defaultRenderer) Close() {
	r.tr.Close()
}
