package roleguard

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestSentinelErrors tests that all sentinel errors are properly defined
func TestSentinelErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		msg  string
	}{
		{"ErrDuplicateRole", ErrDuplicateRole, "roleguard: duplicate role"},
		{"ErrUnknownRole", ErrUnknownRole, "roleguard: unknown role"},
		{"ErrCyclicHierarchy", ErrCyclicHierarchy, "roleguard: cyclic role hierarchy"},
		{"ErrCorruptHierarchy", ErrCorruptHierarchy, "roleguard: corrupt hierarchy state"},
		{"ErrUnauthorized", ErrUnauthorized, "roleguard: unauthorized"},
		{"ErrNoActor", ErrNoActor, "roleguard: no actor"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.msg, tt.err.Error())
			assert.NotNil(t, tt.err)
		})
	}
}

// TestError_Error tests the Error method of Error struct
func TestError_Error(t *testing.T) {
	t.Run("With message", func(t *testing.T) {
		err := &Error{
			Err:     ErrCyclicHierarchy,
			Message: "link would create a cycle",
		}
		expected := "roleguard: cyclic role hierarchy: link would create a cycle"
		assert.Equal(t, expected, err.Error())
	})

	t.Run("Without message", func(t *testing.T) {
		err := &Error{
			Err: ErrCyclicHierarchy,
		}
		assert.Equal(t, "roleguard: cyclic role hierarchy", err.Error())
	})
}

// TestError_Unwrap tests the Unwrap method
func TestError_Unwrap(t *testing.T) {
	err := &Error{
		Err:     ErrUnknownRole,
		Message: "test message",
	}

	assert.Equal(t, ErrUnknownRole, err.Unwrap())
	assert.True(t, errors.Is(fmt.Errorf("wrapped: %w", err), ErrUnknownRole))
}

// TestError_Is tests the Is method
func TestError_Is(t *testing.T) {
	err := &Error{
		Err:     ErrUnknownRole,
		Message: "test message",
	}

	assert.True(t, err.Is(ErrUnknownRole))
	assert.False(t, err.Is(ErrDuplicateRole))
	assert.False(t, err.Is(errors.New("some other error")))
}

// TestNewError tests creating new Error instances
func TestNewError(t *testing.T) {
	err := NewError(ErrDuplicateRole, "role already registered")

	assert.Equal(t, ErrDuplicateRole, err.Err)
	assert.Equal(t, "role already registered", err.Message)
	assert.Equal(t, "roleguard: duplicate role: role already registered", err.Error())
}

// TestError_WithContext tests the chainable context setters
func TestError_WithContext(t *testing.T) {
	err := NewError(ErrCyclicHierarchy, "link would create a cycle")

	result := err.WithRole("moderators").WithChild("helpers").WithActor("42")

	// Should return the same instance (method receiver is a pointer)
	assert.Same(t, err, result)
	assert.Equal(t, "moderators", result.Role)
	assert.Equal(t, "helpers", result.Child)
	assert.Equal(t, "42", result.Actor)
}

// TestErrorPredicates tests the IsXxx helper functions
func TestErrorPredicates(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		predicate func(error) bool
	}{
		{"IsDuplicateRole", NewError(ErrDuplicateRole, "x"), IsDuplicateRole},
		{"IsUnknownRole", NewError(ErrUnknownRole, "x"), IsUnknownRole},
		{"IsCyclicHierarchy", NewError(ErrCyclicHierarchy, "x"), IsCyclicHierarchy},
		{"IsCorruptHierarchy", NewError(ErrCorruptHierarchy, "x"), IsCorruptHierarchy},
		{"IsUnauthorized", NewError(ErrUnauthorized, "x"), IsUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.predicate(tt.err))
			assert.False(t, tt.predicate(errors.New("unrelated")))
			assert.False(t, tt.predicate(nil))
		})
	}
}

// TestErrorsAs tests extracting the typed error from a chain
func TestErrorsAs(t *testing.T) {
	reg := NewTestRegistry()
	MustAddRole(t, reg, "moderators")

	_, err := reg.Require("ghosts")

	var re *Error
	assert.True(t, errors.As(err, &re))
	assert.Equal(t, "ghosts", re.Role)
	assert.True(t, IsUnknownRole(err))
}
