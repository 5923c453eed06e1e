package models

import "errors"

// Domain errors the interaction layer turns into short user-facing replies.
var (
	ErrTaskNotFound = errors.New("task not found")
	ErrAmbiguousID  = errors.New("multiple tasks match that id prefix")
	ErrBadIDPrefix  = errors.New("id prefix too short")
	ErrNotAllowed   = errors.New("not allowed")
	ErrAlreadyDone  = errors.New("task already done")
)
