// Package main provides the loadstat CLI tool for comparing baseline and
// candidate load-test samples.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// exitRegression is the exit status when a check finds a regression.
const exitRegression = 2

// exitCode is set by commands that succeed but must still fail the process.
var exitCode int

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
	os.Exit(exitCode)
}
