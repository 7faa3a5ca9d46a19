package roleguard

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestContextActor tests actor round trips through the context
func TestContextActor(t *testing.T) {
	ctx := context.Background()

	t.Run("empty context", func(t *testing.T) {
		assert.Equal(t, "", GetActor(ctx))
	})

	t.Run("round trip", func(t *testing.T) {
		ctx := WithActor(ctx, "4711")
		assert.Equal(t, "4711", GetActor(ctx))
		assert.Equal(t, "4711", MustGetActor(ctx))
	})

	t.Run("overwrite", func(t *testing.T) {
		ctx := WithActor(WithActor(ctx, "4711"), "42")
		assert.Equal(t, "42", GetActor(ctx))
	})
}

// TestContextMustGetActorPanics tests the panic on missing actor
func TestContextMustGetActorPanics(t *testing.T) {
	assert.Panics(t, func() {
		MustGetActor(context.Background())
	})

	assert.Panics(t, func() {
		MustGetActor(WithActor(context.Background(), ""))
	})
}

// TestContextRegistry tests registry round trips through the context
func TestContextRegistry(t *testing.T) {
	ctx := context.Background()

	t.Run("empty context", func(t *testing.T) {
		assert.Nil(t, GetRegistry(ctx))
		assert.Nil(t, FromContext(ctx))
	})

	t.Run("round trip", func(t *testing.T) {
		reg := NewTestRegistry()
		ctx := WithRegistry(ctx, reg)
		assert.Same(t, reg, GetRegistry(ctx))
		assert.Same(t, reg, FromContext(ctx))
	})
}

// TestContextKeysDoNotCollide tests that actor and registry keys are distinct
func TestContextKeysDoNotCollide(t *testing.T) {
	reg := NewTestRegistry()
	ctx := WithRegistry(WithActor(context.Background(), "4711"), reg)

	assert.Equal(t, "4711", GetActor(ctx))
	assert.Same(t, reg, GetRegistry(ctx))

	// A plain string key does not reach the typed key's value.
	assert.Nil(t, ctx.Value("roleguard:actor"))
}
