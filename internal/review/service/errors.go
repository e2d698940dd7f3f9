package service

import (
	"errors"
	"fmt"
)

// Failure classes of the acceptance flow. Validation failures are fatal and
// never retried; persistence failures are retried by policy before they
// surface; timeout preempts whatever is in flight.
var (
	ErrInvalidToken    = errors.New("invitation token is invalid or unknown")
	ErrEmailMismatch   = errors.New("invitation was issued to a different email")
	ErrExpired         = errors.New("invitation has expired")
	ErrAlreadyAccepted = errors.New("invitation already accepted by another reviewer")
	ErrPersistence     = errors.New("could not record acceptance")
	ErrTimeout         = errors.New("accepting is taking longer than expected")
)

// EmailMismatchError carries both conflicting addresses verbatim so the
// caller can show the reviewer which account they are signed in with.
type EmailMismatchError struct {
	TargetEmail   string
	IdentityEmail string
}

func (e *EmailMismatchError) Error() string {
	return fmt.Sprintf("invitation was issued to %s but you are signed in as %s",
		e.TargetEmail, e.IdentityEmail)
}

func (e *EmailMismatchError) Is(target error) bool {
	return target == ErrEmailMismatch
}

// IsValidationFailure reports whether the error is a fatal validation
// failure that must not be retried automatically.
func IsValidationFailure(err error) bool {
	return errors.Is(err, ErrInvalidToken) ||
		errors.Is(err, ErrEmailMismatch) ||
		errors.Is(err, ErrExpired) ||
		errors.Is(err, ErrAlreadyAccepted)
}
