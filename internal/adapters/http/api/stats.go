package api

import (
	"context"
	"net/http"

	"github.com/okian/mergington/internal/domain/types"
)

// StatsProvider defines the interface for getting service statistics.
type StatsProvider interface {
	GetStats(ctx context.Context) (types.Stats, error)
}

// StatsHandler handles stats requests.
type StatsHandler struct {
	statsProvider StatsProvider
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(statsProvider StatsProvider) *StatsHandler {
	return &StatsHandler{statsProvider: statsProvider}
}

// HandleStats handles GET /stats.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	const op = "api.stats"
	stats, err := h.statsProvider.GetStats(r.Context())
	if err != nil {
		writeError(w, WrapKind(op, ErrInternal, err))
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
