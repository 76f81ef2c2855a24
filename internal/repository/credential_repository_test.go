package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCredentialRepository_RoundTrip(t *testing.T) {
	repo := NewMemoryCredentialRepository()
	ctx := context.Background()

	// store echoes exactly what was written
	credential := "header.payload.signature é世"
	require.NoError(t, repo.Save(ctx, "sid-1", credential))

	got, err := repo.Get(ctx, "sid-1")
	require.NoError(t, err)
	assert.Equal(t, credential, got)
}

func TestMemoryCredentialRepository_GetMissing(t *testing.T) {
	repo := NewMemoryCredentialRepository()

	_, err := repo.Get(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrNoCredential)
}

func TestMemoryCredentialRepository_ClearIsIdempotent(t *testing.T) {
	repo := NewMemoryCredentialRepository()
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, "sid-1", "cred"))
	require.NoError(t, repo.Clear(ctx, "sid-1"))
	require.NoError(t, repo.Clear(ctx, "sid-1"))

	_, err := repo.Get(ctx, "sid-1")
	assert.ErrorIs(t, err, ErrNoCredential)
}

func TestMemoryCredentialRepository_SaveOverwrites(t *testing.T) {
	repo := NewMemoryCredentialRepository()
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, "sid-1", "first"))
	require.NoError(t, repo.Save(ctx, "sid-1", "second"))

	got, err := repo.Get(ctx, "sid-1")
	require.NoError(t, err)
	assert.Equal(t, "second", got)
}

func TestMemoryCredentialRepository_SessionsAreIsolated(t *testing.T) {
	repo := NewMemoryCredentialRepository()
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, "sid-1", "one"))
	require.NoError(t, repo.Save(ctx, "sid-2", "two"))
	require.NoError(t, repo.Clear(ctx, "sid-1"))

	got, err := repo.Get(ctx, "sid-2")
	require.NoError(t, err)
	assert.Equal(t, "two", got)
}
