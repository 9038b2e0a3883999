package implementation

import (
	"context"
	"testing"

	"kelly-ai-client/internal/constant"
	"kelly-ai-client/internal/entity"
	"kelly-ai-client/internal/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCredentialRepositorySaveWithTokens(t *testing.T) {
	ctx := context.Background()
	store := memory.NewSecureStore()
	repo := NewCredentialRepository(store)

	require.NoError(t, repo.Save(ctx, &entity.AuthSession{
		AccessToken:  "at",
		RefreshToken: "rt",
		UserId:       "u1",
		UserEmail:    "a@b.co",
	}))

	token, found, err := repo.AccessToken(ctx)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "at", token)

	refresh, _, _ := store.Get(ctx, constant.StoreKeyRefreshToken)
	assert.Equal(t, "rt", refresh)

	id, err := repo.UserId(ctx)
	require.NoError(t, err)
	assert.Equal(t, "u1", id)

	email, err := repo.UserEmail(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a@b.co", email)
}

func TestCredentialRepositorySaveWithoutTokens(t *testing.T) {
	ctx := context.Background()
	repo := NewCredentialRepository(memory.NewSecureStore())

	require.NoError(t, repo.Save(ctx, &entity.AuthSession{UserId: "u1", UserEmail: "a@b.co"}))

	_, found, err := repo.AccessToken(ctx)
	require.NoError(t, err)
	assert.False(t, found)

	email, _ := repo.UserEmail(ctx)
	assert.Equal(t, "a@b.co", email)
}

func TestCredentialRepositoryClear(t *testing.T) {
	ctx := context.Background()
	store := memory.NewSecureStore()
	repo := NewCredentialRepository(store)

	require.NoError(t, store.Set(ctx, constant.StoreKeyConversations, "[]"))
	require.NoError(t, repo.Save(ctx, &entity.AuthSession{AccessToken: "at", RefreshToken: "rt", UserId: "u1", UserEmail: "a@b.co"}))

	require.NoError(t, repo.Clear(ctx))

	for _, key := range constant.SessionStoreKeys {
		_, found, _ := store.Get(ctx, key)
		assert.False(t, found, key)
	}
	// Conversations belong to the device, not the session.
	_, found, _ := store.Get(ctx, constant.StoreKeyConversations)
	assert.True(t, found)
}
