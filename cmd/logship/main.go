// Package main is the entry point for the logship CLI.
package main

import (
	"os"

	"github.com/logship/logship/cmd/logship/app"
	"github.com/logship/logship/pkg/logger"
)

func main() {
	// Initialize the logger
	logger.Initialize()

	if err := app.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
