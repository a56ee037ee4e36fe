package main

import (
	"github.com/faiface/pixel/pixelgl"

	"github.com/nib8-core/chippy8/cmd"
)

func main() {
	// pixelgl needs to run on the main OS thread, so the cobra command tree
	// (which may open a display.Window) is driven from inside pixelgl.Run.
	pixelgl.Run(cmd.Execute)
}
