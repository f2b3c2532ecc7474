// Package main provides a CLI that smoke-tests a built embed host binary.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	embedsmokecmd "github.com/louisbranch/embedhost/internal/cmd/embedsmoke"
	"github.com/louisbranch/embedhost/internal/platform/config"
)

func main() {
	cfg, err := embedsmokecmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("Error: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := embedsmokecmd.Run(ctx, cfg, os.Stdout, os.Stderr); err != nil {
		config.Exitf("Error: %v", err)
	}
}
