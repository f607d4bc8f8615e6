package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/okian/mergington/internal/domain/model"
	"github.com/okian/mergington/internal/domain/types"
	"github.com/okian/mergington/pkg/logger"
)

// ActivitiesDependencies covers the roster operations.
type ActivitiesDependencies interface {
	ListActivities(ctx context.Context) (model.Catalog, error)
	Signup(ctx context.Context, activity, email, teacher string) (string, error)
	Unregister(ctx context.Context, activity, email, teacher string) (string, error)
}

// ActivitiesHandler handles listing and roster changes.
type ActivitiesHandler struct {
	deps   ActivitiesDependencies
	logger logger.Logger
}

// NewActivitiesHandler creates a new activities handler.
func NewActivitiesHandler(deps ActivitiesDependencies, l logger.Logger) *ActivitiesHandler {
	return &ActivitiesHandler{deps: deps, logger: l}
}

// HandleList handles GET /activities.
func (h *ActivitiesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_activities"
	all, err := h.deps.ListActivities(r.Context())
	if err != nil {
		h.logger.Error(r.Context(), "list activities failed", logger.Error(err))
		writeError(w, WrapKind(op, ErrInternal, err))
		return
	}
	writeJSON(w, http.StatusOK, all)
}

// HandleSignup handles POST /activities/{name}/signup?email=.
func (h *ActivitiesHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	const op = "api.signup"
	h.mutate(w, r, op, h.deps.Signup)
}

// HandleUnregister handles DELETE /activities/{name}/unregister?email=.
func (h *ActivitiesHandler) HandleUnregister(w http.ResponseWriter, r *http.Request) {
	const op = "api.unregister"
	h.mutate(w, r, op, h.deps.Unregister)
}

type rosterOp func(ctx context.Context, activity, email, teacher string) (string, error)

func (h *ActivitiesHandler) mutate(w http.ResponseWriter, r *http.Request, op string, fn rosterOp) {
	ctx := r.Context()
	sess, _ := SessionFrom(ctx)

	query := r.URL.Query()
	if !query.Has("email") {
		writeError(w, NewKind(op, ErrMissingEmail))
		return
	}
	email := query.Get("email")
	name := activityName(r)

	msg, err := fn(ctx, name, email, sess.Username)
	if err != nil {
		status, _, _ := statusFor(err)
		if status >= http.StatusInternalServerError {
			h.logger.Error(ctx, "roster change failed", logger.String("op", op), logger.Error(err))
		} else {
			h.logger.Debug(ctx, "roster change rejected",
				logger.String("op", op),
				logger.String("activity", name),
				logger.Error(err),
			)
		}
		writeError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, types.MessageResponse{Message: msg})
}

// activityName returns the decoded {name} path segment. chi matches on
// RawPath when the request carries one, leaving the segment escaped;
// otherwise the segment is already decoded and must not be unescaped again.
func activityName(r *http.Request) string {
	raw := chi.URLParam(r, "name")
	if r.URL.RawPath == "" {
		return raw
	}
	if name, err := url.PathUnescape(raw); err == nil {
		return name
	}
	return raw
}
