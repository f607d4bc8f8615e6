// Package rostercheck drives a running activities service through login,
// concurrent roster mutations and logout, and verifies the resulting rosters.
package rostercheck

import (
	"fmt"
	"os"

	"github.com/okian/mergington/pkg/logger"
)

// SetupLogging configures the process logger for the tool.
func SetupLogging(verbose bool) error {
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if verbose {
		return logger.SetLevelString("debug")
	}
	return nil
}

// ShowHelp prints usage information for the roster check tool.
func ShowHelp() {
	os.Stdout.WriteString(`Mergington Roster Check
=======================

Exercises a running activities service end to end: health, listing,
rejected anonymous and bad-password requests, login, concurrent signups,
duplicate rejection, concurrent unregisters, logout and token revocation.
Generated students are removed again, so the roster ends where it started.

Usage:
  go run ./cmd/rostercheck [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:8000")
  -username string
        Teacher username (default "mrodriguez")
  -password string
        Teacher password (default $MERGINGTON_ROSTERCHECK_PASSWORD)
  -activity string
        Activity to exercise (default "Chess Club")
  -students int
        Number of generated students (default 5)
  -workers int
        Maximum concurrent requests (default 4)
  -timeout duration
        HTTP request timeout (default 10s)
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  go run ./cmd/rostercheck -password art2024
  go run ./cmd/rostercheck -activity "Gym Class" -students 20 -workers 8
`)
}
