package services

import "errors"

// ErrStreamInProgress guards the chat session: only one streaming turn may
// be in flight at a time.
var ErrStreamInProgress = errors.New("a chat response is already streaming")

type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string { return "Validation error" }

type NotFoundError struct{ Message string }

func (e *NotFoundError) Error() string { return e.Message }

type UnauthorizedError struct{ Message string }

func (e *UnauthorizedError) Error() string { return e.Message }

type ConflictError struct{ Message string }

func (e *ConflictError) Error() string { return e.Message }

// UnsupportedError marks a flow that intentionally fails closed, like
// grading a speaking lesson.
type UnsupportedError struct{ Message string }

func (e *UnsupportedError) Error() string { return e.Message }
