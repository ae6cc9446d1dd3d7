package auth

import (
	"errors"
	"fmt"
)

// Expected outcomes of the auth flows. Handlers map these to specific HTTP
// statuses; anything not in this list is a system fault.
var (
	ErrDuplicateEmail  = errors.New("email already exists")
	ErrInvalidRole     = errors.New("role must be either STUDENT or TEACHER")
	ErrNotFound        = errors.New("user not found")
	ErrAlreadyVerified = errors.New("email already verified")
	ErrOTPMismatch     = errors.New("invalid OTP")
	ErrOTPExpired      = errors.New("OTP has expired")
	ErrInvalidPassword = errors.New("invalid password")
	ErrNotVerified     = errors.New("email not verified")
)

// CooldownError is returned when a resend comes in before the cooldown has
// elapsed. RetryAfter is the remaining wait in whole seconds, rounded up.
type CooldownError struct {
	RetryAfter int
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("please wait %d seconds before requesting a new OTP", e.RetryAfter)
}

// DeliveryError reports that the record was mutated but the OTP email did not
// go out. The new code is live; the user just may not have it.
type DeliveryError struct {
	Err error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("failed to send OTP email: %v", e.Err)
}

func (e *DeliveryError) Unwrap() error { return e.Err }
