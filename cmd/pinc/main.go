package main

import (
	"github.com/tebeka/atexit"

	"github.com/OpenTraceLab/fpgapin/cmd/pinc/cmd"
)

func main() {
	atexit.Exit(cmd.Execute())
}
