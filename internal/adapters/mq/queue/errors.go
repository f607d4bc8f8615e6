package queue

// Drop reasons reported to metrics and logs when Enqueue refuses an event.
const (
	DropClosed    = "closed"
	DropFull      = "full"
	DropCancelled = "cancelled"
)
