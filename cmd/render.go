// Package cmd implements the cli command actions.
package cmd

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"
	"runtime"
	"time"

	"github.com/glint-render/glint/renderer"
	"github.com/glint-render/glint/restir"
	"github.com/glint-render/glint/scene"
	"github.com/glint-render/glint/tracer/cpu"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// Render a still frame and save it as a png.
func RenderFrame(ctx *cli.Context) error {
	setupLogging(ctx)

	sc, err := buildScene(ctx)
	if err != nil {
		return err
	}

	opts := rendererOptions(ctx)
	opts.Frames = uint32(ctx.Int("frames"))
	if opts.Frames == 0 {
		opts.Frames = 1
	}

	tr := cpu.New(sc, resamplingParams(ctx), cpu.DefaultPipeline())
	r, err := renderer.NewDefault(sc, tr, opts)
	if err != nil {
		return err
	}
	defer r.Close()

	logger.Noticef("rendering %d frame(s) at %dx%d", opts.Frames, opts.FrameW, opts.FrameH)
	start := time.Now()
	if err = r.Render(); err != nil {
		return err
	}
	logger.Noticef("rendered %d frame(s) in %d ms", opts.Frames, time.Since(start).Nanoseconds()/1e6)

	imgFile := ctx.String("out")
	if err = savePNG(imgFile, opts.FrameW, opts.FrameH, r.FrameBuffer()); err != nil {
		return err
	}
	logger.Noticef("wrote frame to %s", imgFile)

	displayFrameStats(r.Stats())
	return nil
}

// Render a continuously accumulating interactive view of the scene.
func RenderInteractive(ctx *cli.Context) error {
	// The opengl context must stay on the main thread.
	runtime.LockOSThread()
	setupLogging(ctx)

	sc, err := buildScene(ctx)
	if err != nil {
		return err
	}

	tr := cpu.New(sc, resamplingParams(ctx), cpu.DefaultPipeline())
	r, err := renderer.NewInteractive(sc, tr, rendererOptions(ctx))
	if err != nil {
		return err
	}
	defer r.Close()

	return r.Render()
}

func buildScene(ctx *cli.Context) (*scene.Scene, error) {
	// The cornell box is the only built-in scene for now.
	return scene.NewCornellBox()
}

func rendererOptions(ctx *cli.Context) renderer.Options {
	return renderer.Options{
		FrameW:     uint32(ctx.Int("width")),
		FrameH:     uint32(ctx.Int("height")),
		Exposure:   float32(ctx.Float64("exposure")),
		Seed:       uint32(ctx.Int("seed")),
		Resampling: resamplingParams(ctx),
	}
}

func resamplingParams(ctx *cli.Context) restir.Params {
	params := restir.DefaultParams()
	if v := ctx.Int("log2-candidates"); v > 0 {
		params.Log2NumCandidates = uint32(v)
	}
	if v := ctx.Int("spatial-trials"); v > 0 {
		params.SpatialTrials = v
	}
	return params
}

func savePNG(path string, frameW, frameH uint32, pix []uint8) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	img := image.NewRGBA(image.Rect(0, 0, int(frameW), int(frameH)))
	copy(img.Pix, pix)
	return png.Encode(f, img)
}

func displayFrameStats(stats renderer.FrameStats) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Stage", "% of frame", "Render time"})
	for _, stat := range stats.Stages {
		table.Append([]string{
			stat.Name,
			fmt.Sprintf("%02.1f %%", stat.FramePercent),
			stat.Time.String(),
		})
	}
	table.SetFooter([]string{"", "TOTAL", stats.RenderTime.String()})

	table.Render()
	logger.Noticef("frame statistics\n%s", buf.String())
}
