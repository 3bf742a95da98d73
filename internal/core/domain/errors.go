package domain

import "errors"

// Validation errors.
var (
	ErrMissingAttributes = errors.New("missing attributes")
	ErrInvalidEmail      = errors.New("invalid email format")
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrInvalidDate       = errors.New("invalid date")
	ErrInvalidFilter     = errors.New("date cannot be combined with from or upTo")
	ErrInvalidPayload    = errors.New("invalid payload")
	ErrUsernameMismatch  = errors.New("username does not match the route")
)

// Conflict errors.
var (
	ErrAlreadyRegistered = errors.New("already registered")
	ErrCategoryExists    = errors.New("category already exists")
	ErrGroupExists       = errors.New("group already exists")
	ErrAlreadyInGroup    = errors.New("user already in a group")
	ErrNoValidMembers    = errors.New("no valid members")
	ErrLastCategory      = errors.New("cannot delete the last category")
	ErrLastMember        = errors.New("group must keep at least one member")
	ErrAdminNotDeletable = errors.New("admins cannot be deleted")
)

// Not-found and credential errors.
var (
	ErrEmailNotFound       = errors.New("email not registered")
	ErrWrongCredentials    = errors.New("wrong credentials")
	ErrNoRefreshToken      = errors.New("no refresh token in cookies")
	ErrUserNotFound        = errors.New("user not found")
	ErrCategoryNotFound    = errors.New("category not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrGroupNotFound       = errors.New("group not found")
)

const (
	msgUnauthenticated = "Unauthorized"
	msgUnauthorized    = "Unauthorized access"
)

// AuthError is an authentication or authorization failure. Message is the
// uniform outcome and Cause the single detail exposed to the caller.
type AuthError struct {
	Message string
	Cause   string
}

func (e *AuthError) Error() string {
	return e.Message + ": " + e.Cause
}

// Unauthenticated reports that no usable identity could be resolved.
func Unauthenticated(cause string) *AuthError {
	return &AuthError{Message: msgUnauthenticated, Cause: cause}
}

// Unauthorized reports that a resolved identity lacks the required access.
func Unauthorized(cause string) *AuthError {
	return &AuthError{Message: msgUnauthorized, Cause: cause}
}
