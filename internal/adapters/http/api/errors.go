package api

import (
	"errors"
	"net/http"

	service "github.com/okian/mergington/internal/app"
	"github.com/okian/mergington/internal/adapters/repository"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest   = errors.New("bad request")
	ErrMissingEmail = errors.New("email query parameter is required")
	ErrInvalidLimit = errors.New("invalid limit")
	ErrInternal     = errors.New("internal error")
)

// Error ties a failure to the handler operation that produced it.
type Error struct {
	Op   string
	Kind error
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Err != nil:
		return e.Op + ": " + e.Err.Error()
	case e.Kind != nil:
		return e.Op + ": " + e.Kind.Error()
	default:
		return e.Op
	}
}

// Unwrap exposes both the kind and the cause to errors.Is.
func (e *Error) Unwrap() []error {
	out := make([]error, 0, 2)
	if e.Kind != nil {
		out = append(out, e.Kind)
	}
	if e.Err != nil {
		out = append(out, e.Err)
	}
	return out
}

// NewKind returns an error of the given kind with no further cause.
func NewKind(op string, kind error) error {
	return &Error{Op: op, Kind: kind}
}

// WrapKind classifies err under kind.
func WrapKind(op string, kind, err error) error {
	return &Error{Op: op, Kind: kind, Err: err}
}

// Wrap annotates err with op and keeps its own classification.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Err: err}
}

type errorMapping struct {
	kind   error
	status int
	code   string
	detail string
}

// Order matters: the specific auth errors come before ErrUnauthorized.
var errorMappings = []errorMapping{
	{service.ErrMissingToken, http.StatusUnauthorized, "unauthorized", "Missing or invalid authorization token"},
	{service.ErrInvalidToken, http.StatusUnauthorized, "unauthorized", "Invalid or expired token"},
	{service.ErrInvalidCredentials, http.StatusUnauthorized, "unauthorized", "Invalid username or password"},
	{service.ErrUnauthorized, http.StatusUnauthorized, "unauthorized", "Unauthorized"},
	{repository.ErrActivityNotFound, http.StatusNotFound, "not_found", "Activity not found"},
	{repository.ErrAlreadySignedUp, http.StatusBadRequest, "already_signed_up", "Student is already signed up"},
	{repository.ErrNotSignedUp, http.StatusBadRequest, "not_signed_up", "Student is not signed up for this activity"},
	{repository.ErrActivityFull, http.StatusBadRequest, "activity_full", "Activity is full"},
	{ErrMissingEmail, http.StatusBadRequest, "bad_request", "email query parameter is required"},
}

// statusFor translates err into an HTTP status, a machine code and the
// detail shown to users.
func statusFor(err error) (int, string, string) {
	for _, m := range errorMappings {
		if errors.Is(err, m.kind) {
			return m.status, m.code, m.detail
		}
	}

	var apiErr *Error
	if errors.Is(err, ErrBadRequest) || errors.Is(err, ErrInvalidLimit) {
		detail := http.StatusText(http.StatusBadRequest)
		if errors.As(err, &apiErr) && apiErr.Err != nil {
			detail = apiErr.Err.Error()
		}
		return http.StatusBadRequest, "bad_request", detail
	}

	return http.StatusInternalServerError, "internal", "Internal server error"
}
