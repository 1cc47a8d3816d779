package cmd

import (
	"github.com/glint-render/glint/log"
	"github.com/urfave/cli"
)

var logger = log.New("glint")

func setupLogging(ctx *cli.Context) {
	if ctx.GlobalBool("v") {
		log.SetLevel(log.Info)
	}

	if ctx.GlobalBool("vv") {
		log.SetLevel(log.Debug)
	}
}
