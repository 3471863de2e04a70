// Package main is the entry point for the timeid CLI application.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/eykd/timeid-go/cmd"
)

func main() {
	// Create a context that is cancelled on SIGINT (Ctrl+C) or SIGTERM.
	// This lets serve shut down gracefully.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	code := cmd.ExecuteContext(ctx)
	cancel()
	os.Exit(code)
}
