package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryNonceSource_StablePerOwner(t *testing.T) {
	src := NewMemoryNonceSource()
	ctx := context.Background()

	first, err := src.Nonce(ctx, "aleo1abc")
	require.NoError(t, err)

	second, err := src.Nonce(ctx, "aleo1abc")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestMemoryNonceSource_DistinctPerOwner(t *testing.T) {
	src := NewMemoryNonceSource()
	ctx := context.Background()

	one, err := src.Nonce(ctx, "aleo1abc")
	require.NoError(t, err)

	two, err := src.Nonce(ctx, "aleo1xyz")
	require.NoError(t, err)

	assert.NotEqual(t, one, two)
}
