package main

import (
	"github.com/mrlokans/dataadapter/internal/cli"
	"github.com/mrlokans/dataadapter/internal/logging"
)

// Version information - set at build time via ldflags
var (
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	if err := cli.NewRootCmd(Version, Commit).Execute(); err != nil {
		logging.Fatalf("Error: %v", err)
	}
}
