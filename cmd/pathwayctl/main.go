// Package main is the operator command line for the Pathway services.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	ctlcmd "github.com/officialpathway/pathwei-website/internal/cmd/pathwayctl"
	"github.com/officialpathway/pathwei-website/internal/platform/config"
)

func main() {
	cfg, err := ctlcmd.ParseConfig()
	if err != nil {
		config.Exitf("config: %v", err)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := ctlcmd.Run(ctx, cfg, os.Args[1:]); err != nil {
		config.Exitf("Error: %v", err)
	}
}
