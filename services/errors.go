package services

import "errors"

// ErrNotFound covers both records that do not exist and records outside the
// actor's visible scope. The two are indistinguishable on purpose.
var ErrNotFound = errors.New("not found")

// PermissionError is an ownership-chain violation: writing through a budget
// the actor does not own. Rendered as a 400 non-field error, not a 403, so
// existence and ownership cannot be told apart through the error shape.
type PermissionError struct {
	Message string
}

func (e *PermissionError) Error() string {
	return e.Message
}

// ConflictError is a uniqueness violation scoped to a single field.
type ConflictError struct {
	Field   string
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// ValidationError is any other rejected input. An empty Field renders under
// non_field_errors.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

const (
	msgBudgetNotYours = "This budget doesn't belong to you."
	msgNameUnique     = "This field must be unique."
	msgSelfShare      = "You can't share budget with yourself."
	msgGrantUnique    = "The fields owner, visitor, budget must make a unique set."
	msgNotYourAccount = "You cannot edit other users."
)
