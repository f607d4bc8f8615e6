package rostercheck

import "time"

// Config holds configuration for a roster check run.
type Config struct {
	BaseURL  string        // Base URL of the service
	Username string        // Teacher username
	Password string        // Teacher password
	Activity string        // Activity whose roster is exercised
	Students int           // Number of generated students signed up concurrently
	Workers  int           // Maximum concurrent requests
	Timeout  time.Duration // HTTP request timeout
	Verbose  bool          // Enable verbose logging
}

func (c *Config) withDefaults() *Config {
	out := *c
	if out.Activity == "" {
		out.Activity = DefaultActivity
	}
	if out.Students <= 0 {
		out.Students = DefaultStudents
	}
	if out.Workers <= 0 {
		out.Workers = DefaultWorkers
	}
	if out.Timeout <= 0 {
		out.Timeout = DefaultTimeout
	}
	return &out
}

// Report holds run statistics.
type Report struct {
	ChecksPassed int
	Signups      int
	Unregisters  int
	BaselineSize int
	PeakSize     int
	Students     []string
	StartTime    time.Time
	EndTime      time.Time
	Duration     time.Duration
}

func (r *Report) pass() { r.ChecksPassed++ }
