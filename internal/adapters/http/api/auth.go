package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/okian/mergington/internal/domain/model"
	"github.com/okian/mergington/internal/domain/types"
	"github.com/okian/mergington/pkg/logger"
)

// maxLoginBody bounds the login request body.
const maxLoginBody = 1 << 16

// AuthDependencies covers login and logout.
type AuthDependencies interface {
	Login(ctx context.Context, username, password string) (model.Session, error)
	Logout(ctx context.Context, token string) (string, error)
}

// AuthHandler handles teacher sessions.
type AuthHandler struct {
	deps   AuthDependencies
	logger logger.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(deps AuthDependencies, l logger.Logger) *AuthHandler {
	return &AuthHandler{deps: deps, logger: l}
}

// HandleLogin handles POST /auth/login.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	const op = "api.login"
	var req types.LoginRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxLoginBody)).Decode(&req); err != nil {
		writeError(w, WrapKind(op, ErrBadRequest, errors.New("invalid request body")))
		return
	}

	sess, err := h.deps.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, types.LoginResponse{Token: sess.Token, Username: sess.Username})
}

// HandleLogout handles POST /auth/logout. RequireTeacher has already run.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	const op = "api.logout"
	sess, ok := SessionFrom(r.Context())
	if !ok {
		writeError(w, NewKind(op, ErrInternal))
		return
	}

	username, err := h.deps.Logout(r.Context(), sess.Token)
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, types.MessageResponse{Message: fmt.Sprintf("Logged out %s", username)})
}
