package main

import (
	"os"

	"github.com/ironsheep/media-actions/cmd/media-actions/cmd"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	cmd.Version = Version
	cmd.BuildTime = BuildTime
	cmd.GitCommit = GitCommit

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
