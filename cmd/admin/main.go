// Package main starts the Pathway back-office.
//
// The process serves login, the dashboard and every management page behind
// role checks. It shares the SQLite database and blob store with the site.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	admincmd "github.com/officialpathway/pathwei-website/internal/cmd/admin"
	entrypoint "github.com/officialpathway/pathwei-website/internal/platform/cmd"
)

func main() {
	cfg, err := admincmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	log.SetPrefix(entrypoint.LogPrefix(entrypoint.ServiceAdmin))
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := admincmd.Run(ctx, cfg); err != nil {
		log.Fatalf("failed to serve: %v", err)
	}
}
