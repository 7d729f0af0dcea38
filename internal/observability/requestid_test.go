package observability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequestIDRoundTrip(t *testing.T) {
	ctx := ContextWithRequestID(context.Background(), "req-123")
	assert.Equal(t, "req-123", RequestIDFromContext(ctx))
}

func TestRequestIDFromContext_Empty(t *testing.T) {
	assert.Empty(t, RequestIDFromContext(context.Background()))
}

func TestGetOrCreateRequestID(t *testing.T) {
	ctx, id := GetOrCreateRequestID(context.Background())
	assert.NotEmpty(t, id)
	assert.Equal(t, id, RequestIDFromContext(ctx))

	// Existing IDs are preserved.
	ctx2, id2 := GetOrCreateRequestID(ctx)
	assert.Equal(t, id, id2)
	assert.Equal(t, ctx, ctx2)
}

func TestNewRequestID_Unique(t *testing.T) {
	assert.NotEqual(t, NewRequestID(), NewRequestID())
}
