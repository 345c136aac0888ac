package app_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quizdesk/internal/app"
	"quizdesk/internal/domain"
	"quizdesk/internal/infra/memory"
)

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	hash, err := app.HashPassword("s3cret")
	require.NoError(t, err)
	_, err = store.CreateUser(ctx, domain.User{Username: "alice", PasswordHash: hash})
	require.NoError(t, err)

	auth := app.NewAuthenticator(store)

	user, err := auth.Authenticate(ctx, "alice", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)

	_, err = auth.Authenticate(ctx, "alice", "wrong")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	// Unknown users get the same error as a wrong password.
	_, err = auth.Authenticate(ctx, "nobody", "s3cret")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}
