package models

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUsernameTaken      = errors.New("username already in use")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotAuthorized      = errors.New("not authorized to execute this action")
	ErrPollNotFound       = errors.New("no poll was found for the specified id")
	ErrUserNotFound       = errors.New("no user was found for the specified username")
	ErrCommentNotFound    = errors.New("no comment was found for the specified id")
	ErrInvalidOption      = errors.New("the option does not belong to this poll")
	ErrAlreadyVoted       = errors.New("user has already voted on this poll")
)

// ValidationError gathers field-level problems found before any write.
type ValidationError struct {
	Fields []FieldError
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = fmt.Sprintf("%s: %s", f.Field, f.Message)
	}
	return strings.Join(msgs, "; ")
}
