package users

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEnsureUserCreatesAndIsIdempotent(t *testing.T) {
	svc := NewService(NewMemoryUserRepository())

	u, err := svc.EnsureUser(context.Background(), "mina", "Mina", "secret")
	require.NoError(t, err)
	require.NotEmpty(t, u.ID)
	require.Equal(t, "Mina", u.DisplayName)
	require.NotEqual(t, "secret", u.PasswordHash)

	again, err := svc.EnsureUser(context.Background(), "mina", "Someone Else", "other")
	require.NoError(t, err)
	require.Equal(t, u.ID, again.ID)
	require.Equal(t, "Mina", again.DisplayName)
}

func TestAuthenticate(t *testing.T) {
	svc := NewService(NewMemoryUserRepository())
	seeded, err := svc.EnsureUser(context.Background(), "mina", "Mina", "secret")
	require.NoError(t, err)

	u, err := svc.Authenticate(context.Background(), "mina", "secret")
	require.NoError(t, err)
	require.Equal(t, seeded.ID, u.ID)

	_, err = svc.Authenticate(context.Background(), "mina", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	// unknown user gets the same error as a wrong password
	_, err = svc.Authenticate(context.Background(), "nobody", "secret")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestGetByID(t *testing.T) {
	svc := NewService(NewMemoryUserRepository())
	seeded, err := svc.EnsureUser(context.Background(), "mina", "Mina", "secret")
	require.NoError(t, err)

	u, err := svc.GetByID(context.Background(), seeded.ID)
	require.NoError(t, err)
	require.NotNil(t, u)
	require.Equal(t, "mina", u.Username)

	missing, err := svc.GetByID(context.Background(), "missing")
	require.NoError(t, err)
	require.Nil(t, missing)
}
