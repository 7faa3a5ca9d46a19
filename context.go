package roleguard

import (
	"context"
)

// Context keys for roleguard values.
type contextKey string

const (
	contextKeyActor    contextKey = "roleguard:actor"
	contextKeyRegistry contextKey = "roleguard:registry"
)

// WithActor adds an actor ID to the context.
// This is the actor being checked for authorization.
func WithActor(ctx context.Context, actor string) context.Context {
	return context.WithValue(ctx, contextKeyActor, actor)
}

// GetActor retrieves the actor ID from the context.
// Returns an empty string if no actor is set.
func GetActor(ctx context.Context) string {
	if actor, ok := ctx.Value(contextKeyActor).(string); ok {
		return actor
	}
	return ""
}

// MustGetActor retrieves the actor ID from the context.
// Panics if no actor is set.
func MustGetActor(ctx context.Context) string {
	actor, ok := ctx.Value(contextKeyActor).(string)
	if !ok || actor == "" {
		panic("roleguard: actor not in context")
	}
	return actor
}

// WithRegistry adds a registry to the context so handlers can inspect
// roles without a package-level variable.
func WithRegistry(ctx context.Context, reg *Registry) context.Context {
	return context.WithValue(ctx, contextKeyRegistry, reg)
}

// GetRegistry retrieves the registry from the context.
// Returns nil if no registry is set.
func GetRegistry(ctx context.Context) *Registry {
	if reg, ok := ctx.Value(contextKeyRegistry).(*Registry); ok {
		return reg
	}
	return nil
}

// FromContext is an alias for GetRegistry.
func FromContext(ctx context.Context) *Registry {
	return GetRegistry(ctx)
}
