package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dkeye/Collab/internal/domain"
	"github.com/dkeye/Collab/internal/mocks"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var secret = []byte("test-secret-0123456789")

func TestAuthenticator_Authenticate(t *testing.T) {
	ctrl := gomock.NewController(t)
	users := mocks.NewMockUserDirectory(ctrl)
	a := NewAuthenticator(secret, users)
	ctx := context.Background()

	t.Run("should resolve an active user", func(t *testing.T) {
		req := require.New(t)
		token, err := GenerateToken(secret, "u1", time.Hour)
		req.NoError(err)
		alice := domain.User{ID: "u1", Name: "Alice", Active: true}

		users.EXPECT().GetUser(gomock.Any(), domain.UserID("u1")).Return(alice, nil)
		got, err := a.Authenticate(ctx, token)

		req.NoError(err)
		req.Equal(alice, got)
	})

	t.Run("should refuse a missing credential", func(t *testing.T) {
		req := require.New(t)
		_, err := a.Authenticate(ctx, "  ")
		req.ErrorIs(err, domain.ErrMissingCredential)
	})

	t.Run("should refuse a token signed with another key", func(t *testing.T) {
		req := require.New(t)
		token, err := GenerateToken([]byte("another-secret-987654321"), "u1", time.Hour)
		req.NoError(err)

		_, err = a.Authenticate(ctx, token)
		req.ErrorIs(err, domain.ErrInvalidCredential)
	})

	t.Run("should refuse an expired token", func(t *testing.T) {
		req := require.New(t)
		token, err := GenerateToken(secret, "u1", -time.Minute)
		req.NoError(err)

		_, err = a.Authenticate(ctx, token)
		req.ErrorIs(err, domain.ErrInvalidCredential)
		req.ErrorIs(err, jwt.ErrTokenExpired)
	})

	t.Run("should refuse garbage", func(t *testing.T) {
		req := require.New(t)
		_, err := a.Authenticate(ctx, "not.a.jwt")
		req.ErrorIs(err, domain.ErrInvalidCredential)
	})

	t.Run("should refuse unknown and inactive users", func(t *testing.T) {
		req := require.New(t)
		token, err := GenerateToken(secret, "u1", time.Hour)
		req.NoError(err)

		users.EXPECT().GetUser(gomock.Any(), domain.UserID("u1")).Return(domain.User{}, domain.ErrUserNotFound)
		_, err = a.Authenticate(ctx, token)
		req.ErrorIs(err, domain.ErrInvalidCredential)

		users.EXPECT().GetUser(gomock.Any(), domain.UserID("u1")).Return(domain.User{ID: "u1"}, nil)
		_, err = a.Authenticate(ctx, token)
		req.ErrorIs(err, domain.ErrInvalidCredential)
	})

	t.Run("should not blame the client for a directory outage", func(t *testing.T) {
		req := require.New(t)
		token, err := GenerateToken(secret, "u1", time.Hour)
		req.NoError(err)

		users.EXPECT().GetUser(gomock.Any(), domain.UserID("u1")).Return(domain.User{}, errors.New("db down"))
		_, err = a.Authenticate(ctx, token)
		req.ErrorIs(err, domain.ErrPersistence)
		req.NotErrorIs(err, domain.ErrInvalidCredential)
	})
}

func TestBearerToken(t *testing.T) {
	req := require.New(t)
	req.Equal("abc", BearerToken("Bearer abc"))
	req.Equal("abc", BearerToken("bearer  abc "))
	req.Empty(BearerToken("Basic abc"))
	req.Empty(BearerToken(""))
}
