package rostercheck

import "time"

// Defaults used when a Config field is left zero.
const (
	DefaultActivity = "Chess Club"
	DefaultStudents = 5
	DefaultWorkers  = 4
	DefaultTimeout  = 10 * time.Second
)

const (
	studentDomain   = "rostercheck.mergington.edu"
	maxResponseBody = 1 << 20
)
