package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/okian/mergington/internal/rostercheck"
)

const defaultRunTimeout = 2 * time.Minute

func main() {
	var (
		baseURL  = flag.String("url", "http://localhost:8000", "Base URL of the service")
		username = flag.String("username", "mrodriguez", "Teacher username")
		password = flag.String("password", os.Getenv("MERGINGTON_ROSTERCHECK_PASSWORD"), "Teacher password")
		activity = flag.String("activity", rostercheck.DefaultActivity, "Activity to exercise")
		students = flag.Int("students", rostercheck.DefaultStudents, "Number of generated students")
		workers  = flag.Int("workers", rostercheck.DefaultWorkers, "Maximum concurrent requests")
		timeout  = flag.Duration("timeout", rostercheck.DefaultTimeout, "HTTP request timeout")
		verbose  = flag.Bool("verbose", false, "Enable verbose logging")
		help     = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		rostercheck.ShowHelp()
		return
	}

	if err := rostercheck.SetupLogging(*verbose); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	config := &rostercheck.Config{
		BaseURL:  *baseURL,
		Username: *username,
		Password: *password,
		Activity: *activity,
		Students: *students,
		Workers:  *workers,
		Timeout:  *timeout,
		Verbose:  *verbose,
	}

	if _, err := rostercheck.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Roster check failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
