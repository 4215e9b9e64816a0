package routes

import (
	"errors"
	"fmt"
	"net/http"

	"gitlab.com/davrev/openpoll/internal/models"
)

// ErrorBody is the wire shape of every error response.
type ErrorBody struct {
	Code        int    `json:"code"`
	Message     string `json:"message"`
	Description string `json:"description"`
}

// AppError is a request failure carrying its HTTP status, a client-facing
// description and the underlying cause for logging.
type AppError interface {
	error
	Status() int
	Description() string
	Unwrap() error
}

type ErrInternal struct {
	Cause   error
	Message string
}

func (e *ErrInternal) Error() string { return fmt.Sprintf("internal error: %v", e.Cause) }
func (e *ErrInternal) Status() int   { return http.StatusInternalServerError }
func (e *ErrInternal) Unwrap() error { return e.Cause }
func (e *ErrInternal) Description() string {
	if e.Message != "" {
		return e.Message
	}
	return "Internal server error"
}

type ErrBadRequest struct {
	Cause   error
	Message string
}

func (e *ErrBadRequest) Error() string { return e.Description() }
func (e *ErrBadRequest) Status() int   { return http.StatusBadRequest }
func (e *ErrBadRequest) Unwrap() error { return e.Cause }
func (e *ErrBadRequest) Description() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Cause != nil {
		return e.Cause.Error()
	}
	return "Bad request"
}

type ErrUnauthorized struct {
	Cause error
}

func (e *ErrUnauthorized) Error() string       { return e.Description() }
func (e *ErrUnauthorized) Status() int         { return http.StatusUnauthorized }
func (e *ErrUnauthorized) Unwrap() error       { return e.Cause }
func (e *ErrUnauthorized) Description() string { return "Missing or invalid credentials" }

type ErrForbidden struct {
	Cause error
}

func (e *ErrForbidden) Error() string       { return e.Description() }
func (e *ErrForbidden) Status() int         { return http.StatusForbidden }
func (e *ErrForbidden) Unwrap() error       { return e.Cause }
func (e *ErrForbidden) Description() string { return "Not authorized for this resource" }

type ErrNotFound struct {
	Cause error
	Thing string
}

func (e *ErrNotFound) Error() string { return e.Description() }
func (e *ErrNotFound) Status() int   { return http.StatusNotFound }
func (e *ErrNotFound) Unwrap() error { return e.Cause }
func (e *ErrNotFound) Description() string {
	if e.Thing != "" {
		return fmt.Sprintf("No %s was found", e.Thing)
	}
	return "Not found"
}

type ErrConflict struct {
	Cause   error
	Message string
}

func (e *ErrConflict) Error() string { return e.Description() }
func (e *ErrConflict) Status() int   { return http.StatusConflict }
func (e *ErrConflict) Unwrap() error { return e.Cause }
func (e *ErrConflict) Description() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Cause != nil {
		return e.Cause.Error()
	}
	return "Conflict"
}

// mapDomainErr translates errors surfaced by the db package into the HTTP
// taxonomy. Anything unrecognized is a server fault.
func mapDomainErr(err error) AppError {
	var verr *models.ValidationError
	if errors.As(err, &verr) {
		return &ErrBadRequest{Cause: verr, Message: verr.Error()}
	}
	switch {
	case errors.Is(err, models.ErrPollNotFound):
		return &ErrNotFound{Cause: err, Thing: "poll"}
	case errors.Is(err, models.ErrUserNotFound):
		return &ErrNotFound{Cause: err, Thing: "user"}
	case errors.Is(err, models.ErrCommentNotFound):
		return &ErrNotFound{Cause: err, Thing: "comment"}
	case errors.Is(err, models.ErrInvalidOption):
		return &ErrBadRequest{Cause: err}
	case errors.Is(err, models.ErrAlreadyVoted):
		return &ErrConflict{Cause: err}
	case errors.Is(err, models.ErrUsernameTaken):
		return &ErrConflict{Cause: err}
	case errors.Is(err, models.ErrNotAuthorized):
		return &ErrForbidden{Cause: err}
	case errors.Is(err, models.ErrInvalidCredentials):
		return &ErrUnauthorized{Cause: err}
	}
	return &ErrInternal{Cause: err}
}
