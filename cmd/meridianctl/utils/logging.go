// Package utils provides utility functions for the meridianctl CLI.
// This file contains logging setup for clean CLI output.
package utils

import (
	"os"

	"github.com/meridian-dev/meridian/cmd/meridianctl/config"
	"github.com/meridian-dev/meridian/internal/logging"
)

// SetupLogging configures CLI logging behavior based on environment and config.
// Enables debug output when DEBUG=true, shows progress logs in verbose mode,
// and otherwise suppresses everything below ERROR so command output stays clean.
func SetupLogging() {
	// Check for DEBUG environment variable for debug logging
	if os.Getenv("DEBUG") == "true" {
		logging.RestoreOutput()
		logging.SetLevel("DEBUG")
		return
	}

	if config.Global.Verbose {
		// Show connection and operation progress logs
		logging.RestoreOutput()
		if config.Global.LogLevel == "DEBUG" {
			logging.SetLevel("DEBUG")
		} else {
			logging.SetLevel("INFO")
		}
		return
	}

	// Configure our application logging level first
	logging.SetLevel(config.Global.LogLevel)
	// Suppress debug/info logs by default (only show errors)
	logging.SuppressOutput()
}
