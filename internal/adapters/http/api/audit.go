package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/okian/mergington/internal/domain/model"
)

// AuditDependencies exposes the audit journal.
type AuditDependencies interface {
	RecentEvents(ctx context.Context, limit int) []model.RosterEvent
}

// AuditHandler serves recent roster events to teachers.
type AuditHandler struct {
	deps     AuditDependencies
	maxLimit int
}

// NewAuditHandler creates a new audit handler.
func NewAuditHandler(deps AuditDependencies, maxLimit int) *AuditHandler {
	return &AuditHandler{deps: deps, maxLimit: maxLimit}
}

// HandleRecent handles GET /audit?limit=N.
func (h *AuditHandler) HandleRecent(w http.ResponseWriter, r *http.Request) {
	const op = "api.audit"

	limit := min(defaultAuditLimit, h.maxLimit)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > h.maxLimit {
			writeError(w, WrapKind(op, ErrInvalidLimit, fmt.Errorf("limit must be an integer between 1 and %d", h.maxLimit)))
			return
		}
		limit = n
	}

	writeJSON(w, http.StatusOK, h.deps.RecentEvents(r.Context(), limit))
}
