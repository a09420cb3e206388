package domain

import (
	"errors"
	"fmt"
)

// Account errors
var (
	ErrAccountNotFound   = errors.New("account not found")
	ErrEmailTaken        = errors.New("email already registered")
	ErrAccountUnverified = errors.New("account email not verified")
	ErrAccountInactive   = errors.New("account is inactive")
)

// Authentication errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTooManyAttempts    = errors.New("too many failed login attempts")
)

// Token errors
var (
	// ErrTokenInvalid covers every verification failure of an access token
	// (bad signature, malformed, expired) and presentation of a revoked or
	// expired refresh token. Callers cannot distinguish which check failed.
	ErrTokenInvalid    = errors.New("invalid token")
	ErrTokenNotFound   = errors.New("token not found")
	ErrTokenGeneration = errors.New("token generation failed")
)

// Workflow errors
var (
	ErrRequestNotFound = errors.New("request not found")
)

// Authorization errors
var (
	ErrUnauthorized = errors.New("unauthorized access")
	ErrForbidden    = errors.New("insufficient role permissions")
)

// InvalidCredentialsError tags an authentication failure with the credential
// field that failed, for UX differentiation. It matches ErrInvalidCredentials
// under errors.Is, so security-sensitive callers can collapse both fields to
// one message.
type InvalidCredentialsError struct {
	Field string
}

func (e *InvalidCredentialsError) Error() string {
	return fmt.Sprintf("invalid credentials: %s", e.Field)
}

func (e *InvalidCredentialsError) Is(target error) bool {
	return target == ErrInvalidCredentials
}
