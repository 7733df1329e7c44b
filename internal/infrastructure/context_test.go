package infrastructure

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithTraceIDRoundTrip(t *testing.T) {
	ctx := WithTraceID(context.Background(), "trace-123")

	assert.Equal(t, "trace-123", GetTraceID(ctx))
}

func TestGetTraceIDEmptyContext(t *testing.T) {
	assert.Empty(t, GetTraceID(context.Background()))
}

func TestEnsureTraceIDGenerates(t *testing.T) {
	ctx := EnsureTraceID(context.Background())

	assert.NotEmpty(t, GetTraceID(ctx))
}

func TestEnsureTraceIDKeepsExisting(t *testing.T) {
	ctx := WithTraceID(context.Background(), "existing")
	ctx = EnsureTraceID(ctx)

	assert.Equal(t, "existing", GetTraceID(ctx))
}
