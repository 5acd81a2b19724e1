package domain

import (
	"errors"
	"fmt"
)

var (
	ErrReportNotFound  = errors.New("report not found")
	ErrProjectNotFound = errors.New("project not found")

	// ErrStatusConflict is returned by the record store when a compare-and-swap
	// status write finds the row no longer in the expected status.
	ErrStatusConflict = errors.New("report status changed concurrently")
)

// Authorization denial reasons.
const (
	ReasonNotOwner    = "not-owner"
	ReasonNotMember   = "not-member"
	ReasonWrongRole   = "wrong-role"
	ReasonWrongStatus = "wrong-status"
)

// AuthorizationError means the actor may not perform the action. Reason is one
// of the Reason* constants so callers can present an accurate message.
type AuthorizationError struct {
	Reason string
	Detail string
}

func (e *AuthorizationError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("not authorized (%s): %s", e.Reason, e.Detail)
	}
	return fmt.Sprintf("not authorized (%s)", e.Reason)
}

// Unauthorized builds an AuthorizationError.
func Unauthorized(reason, detail string) *AuthorizationError {
	return &AuthorizationError{Reason: reason, Detail: detail}
}

// InvalidTransitionError means a status precondition was violated, including
// the optimistic-conflict case where a concurrent writer won the race.
type InvalidTransitionError struct {
	From     string
	To       string
	Conflict bool
}

func (e *InvalidTransitionError) Error() string {
	if e.Conflict {
		return fmt.Sprintf("invalid report transition %s -> %s: conflict", e.From, e.To)
	}
	return fmt.Sprintf("invalid report transition %s -> %s", e.From, e.To)
}

// ValidationError names the offending field.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Msg)
}

// Invalid builds a ValidationError.
func Invalid(field, msg string) *ValidationError {
	return &ValidationError{Field: field, Msg: msg}
}

// DependencyError wraps a failed record-store or blob-store call. Callers may
// retry; no partial state is observable when one is returned.
type DependencyError struct {
	Op  string
	Err error
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *DependencyError) Unwrap() error { return e.Err }

// Dependency wraps err unless it is already one of the taxonomy kinds.
func Dependency(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrReportNotFound) || errors.Is(err, ErrProjectNotFound) || errors.Is(err, ErrStatusConflict) {
		return err
	}
	return &DependencyError{Op: op, Err: err}
}
