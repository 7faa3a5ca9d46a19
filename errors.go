package roleguard

import (
	"errors"
	"fmt"
)

// Sentinel errors for role hierarchy operations.
var (
	// ErrDuplicateRole is returned when adding a role whose name is already taken or reserved.
	ErrDuplicateRole = errors.New("roleguard: duplicate role")

	// ErrUnknownRole is returned when referencing a role that is not registered.
	ErrUnknownRole = errors.New("roleguard: unknown role")

	// ErrCyclicHierarchy is returned when a child link would create a cycle.
	ErrCyclicHierarchy = errors.New("roleguard: cyclic role hierarchy")

	// ErrCorruptHierarchy is returned when persisted state cannot be restored.
	ErrCorruptHierarchy = errors.New("roleguard: corrupt hierarchy state")

	// ErrUnauthorized is returned when an actor doesn't satisfy a requirement.
	ErrUnauthorized = errors.New("roleguard: unauthorized")

	// ErrNoActor is returned when no actor identity can be determined.
	ErrNoActor = errors.New("roleguard: no actor")
)

// Error wraps a sentinel error with additional context.
type Error struct {
	Err     error  // Underlying sentinel error
	Message string // Additional context
	Role    string // Role involved (if applicable)
	Child   string // Child role involved (if applicable)
	Actor   string // Actor involved (if applicable)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Message)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error for errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is checks if the error matches a target error.
func (e *Error) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewError creates a new Error with context.
func NewError(err error, message string) *Error {
	return &Error{
		Err:     err,
		Message: message,
	}
}

// WithRole adds role information to the error.
func (e *Error) WithRole(role string) *Error {
	e.Role = role
	return e
}

// WithChild adds child role information to the error.
func (e *Error) WithChild(child string) *Error {
	e.Child = child
	return e
}

// WithActor adds actor information to the error.
func (e *Error) WithActor(actor string) *Error {
	e.Actor = actor
	return e
}

// IsDuplicateRole checks if an error is due to a duplicate role name.
func IsDuplicateRole(err error) bool {
	return errors.Is(err, ErrDuplicateRole)
}

// IsUnknownRole checks if an error is due to an unregistered role.
func IsUnknownRole(err error) bool {
	return errors.Is(err, ErrUnknownRole)
}

// IsCyclicHierarchy checks if an error is due to a rejected cyclic link.
func IsCyclicHierarchy(err error) bool {
	return errors.Is(err, ErrCyclicHierarchy)
}

// IsCorruptHierarchy checks if an error is due to unrestorable persisted state.
func IsCorruptHierarchy(err error) bool {
	return errors.Is(err, ErrCorruptHierarchy)
}

// IsUnauthorized checks if an error is an authorization error.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}
