// Package types contains the JSON shapes shared by the HTTP API and its clients.
package types

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is returned by a successful login.
type LoginResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}

// MessageResponse carries a human readable confirmation.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the body of every non-2xx API response. Detail is the
// field the landing page shows to the user.
type ErrorResponse struct {
	Code   string `json:"code"`
	Detail string `json:"detail"`
}

// Stats is the body of GET /stats.
type Stats struct {
	Activities       int  `json:"activities"`
	Participants     int  `json:"participants"`
	Sessions         int  `json:"sessions"`
	AuditQueueLength int  `json:"auditQueueLength"`
	AuditJournalSize int  `json:"auditJournalSize"`
	WorkerCount      int  `json:"workerCount"`
	Started          bool `json:"started"`
}

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status string `json:"status"`
}
