package engine

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindNotFound            Kind = "not_found"
	KindInvalidState        Kind = "invalid_state"
	KindNoActiveQuestion    Kind = "no_active_question"
	KindAlreadyCompleted    Kind = "already_completed"
	KindNotReady            Kind = "not_ready"
	KindCollaboratorFailure Kind = "collaborator_failure"
)

// Error carries its kind and a human readable reason. Collaborator failures
// keep the underlying cause reachable through Unwrap.
type Error struct {
	Kind   Kind
	Reason string
	Err    error
}

func (e *Error) Error() string {
	msg := string(e.Kind)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so errors.Is(err, ErrNotFound) works
// regardless of reason.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

var (
	ErrNotFound            = &Error{Kind: KindNotFound}
	ErrInvalidState        = &Error{Kind: KindInvalidState}
	ErrNoActiveQuestion    = &Error{Kind: KindNoActiveQuestion}
	ErrAlreadyCompleted    = &Error{Kind: KindAlreadyCompleted}
	ErrNotReady            = &Error{Kind: KindNotReady}
	ErrCollaboratorFailure = &Error{Kind: KindCollaboratorFailure}
)

func newError(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Reason: fmt.Sprintf(format, args...)}
}

func collaboratorFailure(reason string, cause error) *Error {
	return &Error{Kind: KindCollaboratorFailure, Reason: reason, Err: cause}
}

// KindOf reports the kind of an engine error anywhere in err's chain.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}
