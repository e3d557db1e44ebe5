package domain

import (
	"errors"
	"fmt"
)

var (
	ErrSelfDelete         = errors.New("self_delete")
	ErrInvalidTransition  = errors.New("invalid_transition")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidRange       = errors.New("invalid_range")
	ErrInvalidInput       = errors.New("invalid_input")
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrNotAuthenticated   = errors.New("not_authenticated")
)

// RejectedError is returned when the store refuses an operation. Nothing was
// mutated.
type RejectedError struct {
	Op     string
	Reason error
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("%s rejected: %v", e.Op, e.Reason)
}

func (e *RejectedError) Unwrap() error { return e.Reason }

func Reject(op string, reason error) error {
	return &RejectedError{Op: op, Reason: reason}
}

func IsRejected(err error) bool {
	var rejected *RejectedError
	return errors.As(err, &rejected)
}
