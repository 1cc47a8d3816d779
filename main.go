package main

import (
	"os"

	"github.com/glint-render/glint/cmd"
	"github.com/urfave/cli"
)

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "glint"
	app.Usage = "render scenes with resampled direct lighting"
	app.Version = "0.0.1"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
	}

	resamplingFlags := []cli.Flag{
		cli.IntFlag{
			Name:  "log2-candidates",
			Value: 5,
			Usage: "log2 of per-pixel light candidates",
		},
		cli.IntFlag{
			Name:  "spatial-trials",
			Value: 5,
			Usage: "spatial reuse attempts per pixel",
		},
		cli.IntFlag{
			Name:  "seed",
			Value: 1,
			Usage: "base seed for the per-pixel random streams",
		},
	}

	frameFlags := append([]cli.Flag{
		cli.IntFlag{
			Name:  "width",
			Value: 512,
			Usage: "frame width",
		},
		cli.IntFlag{
			Name:  "height",
			Value: 512,
			Usage: "frame height",
		},
		cli.Float64Flag{
			Name:  "exposure",
			Value: 1.0,
			Usage: "camera exposure for tone-mapping",
		},
	}, resamplingFlags...)

	app.Commands = []cli.Command{
		{
			Name:   "render",
			Usage:  "render scene",
			Action: nil,
			Subcommands: []cli.Command{
				{
					Name:        "frame",
					Usage:       "render single frame",
					Description: `Accumulate a number of frames and save the result as a png.`,
					Flags: append([]cli.Flag{
						cli.IntFlag{
							Name:  "frames",
							Value: 16,
							Usage: "number of frames to accumulate",
						},
						cli.StringFlag{
							Name:  "out, o",
							Value: "frame.png",
							Usage: "image filename for the rendered frame",
						},
					}, frameFlags...),
					Action: cmd.RenderFrame,
				},
				{
					Name:        "interactive",
					Usage:       "render interactive view of the scene",
					Description: `Open a window that keeps accumulating frames; camera movement restarts accumulation.`,
					Flags:       frameFlags,
					Action:      cmd.RenderInteractive,
				},
			},
		},
		{
			Name:   "scene",
			Usage:  "inspect scene data",
			Action: nil,
			Subcommands: []cli.Command{
				{
					Name:   "info",
					Usage:  "list scene materials and geometry",
					Action: cmd.ShowSceneInfo,
				},
			},
		},
	}

	app.Run(os.Args)
}
