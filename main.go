package main

import (
	"github.com/matija2209/alexa-maxa-reviews-sdk/cmd"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	cmd.SetVersion(version, buildTime)
	cmd.Execute()
}
