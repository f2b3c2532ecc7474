// Package main runs embed.lua inside an embedded Lua engine.
//
// The process exits 0 whether or not the script succeeded; a failed script
// is reported by a single line on stdout. Only a failure to bring up the
// engine exits non-zero.
package main

import (
	"context"
	"os"

	embedhostcmd "github.com/louisbranch/embedhost/internal/cmd/embedhost"
	"github.com/louisbranch/embedhost/internal/platform/config"
)

func main() {
	cfg, err := embedhostcmd.ParseConfig()
	if err != nil {
		config.Exitf("Error: %v", err)
	}

	if err := embedhostcmd.Run(context.Background(), cfg, os.Args, os.Stdout, os.Stderr); err != nil {
		config.Exitf("Error: %v", err)
	}
	os.Exit(config.ExitSuccess)
}
