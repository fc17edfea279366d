package errs

import (
	"errors"
	"fmt"
)

var (
	ErrRemoteUnavailable = errors.New("remote service unavailable")
	ErrConflict          = errors.New("conflict")
	ErrFatalSession      = errors.New("wizard session is not usable")
)

// RemoteUnavailableError wraps a transport or service failure of a collaborator.
// Callers fall back to a local computation when one exists.
type RemoteUnavailableError struct {
	Operation string
	Cause     error
}

func NewRemoteUnavailableError(operation string, cause error) *RemoteUnavailableError {
	return &RemoteUnavailableError{Operation: operation, Cause: cause}
}

func (e *RemoteUnavailableError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", ErrRemoteUnavailable, e.Operation, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrRemoteUnavailable, e.Operation)
}

func (e *RemoteUnavailableError) Unwrap() error {
	return ErrRemoteUnavailable
}

// ConflictError is a rejection caused by a duplicate value on the collaborator side.
type ConflictError struct {
	ParamName string
	Value     any
	Cause     error
}

func NewConflictError(paramName string, value any) *ConflictError {
	return &ConflictError{ParamName: paramName, Value: value}
}

func NewConflictErrorWithCause(paramName string, value any, cause error) *ConflictError {
	return &ConflictError{ParamName: paramName, Value: value, Cause: cause}
}

func (e *ConflictError) Error() string {
	msg := fmt.Sprintf("%s: %s %s already exists", ErrConflict, e.ParamName, sanitizeValue(e.Value))
	if e.Cause != nil {
		msg += fmt.Sprintf(" (cause: %v)", e.Cause)
	}
	return msg
}

func (e *ConflictError) Unwrap() error {
	return ErrConflict
}

// FatalSessionError means the session id is missing or expired.
type FatalSessionError struct {
	SessionID string
	Reason    string
}

func NewFatalSessionError(sessionID, reason string) *FatalSessionError {
	return &FatalSessionError{SessionID: sessionID, Reason: reason}
}

func (e *FatalSessionError) Error() string {
	if e.SessionID == "" {
		return fmt.Sprintf("%s: %s", ErrFatalSession, e.Reason)
	}
	return fmt.Sprintf("%s: %s: %s", ErrFatalSession, e.SessionID, e.Reason)
}

func (e *FatalSessionError) Unwrap() error {
	return ErrFatalSession
}
