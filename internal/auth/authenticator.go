// Package auth turns a bearer credential into a verified, active user.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dkeye/Collab/internal/core"
	"github.com/dkeye/Collab/internal/domain"
	"github.com/rs/zerolog/log"
)

type Authenticator struct {
	secret []byte
	users  core.UserDirectory
}

func NewAuthenticator(secret []byte, users core.UserDirectory) *Authenticator {
	return &Authenticator{secret: secret, users: users}
}

// Authenticate has no side effects beyond the directory lookup. Every
// failure is ErrMissingCredential or ErrInvalidCredential, except a
// directory outage, which is reported as ErrPersistence.
func (a *Authenticator) Authenticate(ctx context.Context, raw string) (domain.User, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return domain.User{}, domain.ErrMissingCredential
	}
	claims, err := ValidateToken(a.secret, raw)
	if err != nil {
		return domain.User{}, invalid(err)
	}
	uid := domain.UserID(claims.UserID)
	user, err := a.users.GetUser(ctx, uid)
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		return domain.User{}, invalid(err)
	case err != nil:
		return domain.User{}, fmt.Errorf("%w: resolve user %s: %w", domain.ErrPersistence, uid, err)
	case !user.Active:
		log.Info().Str("module", "auth").Str("user", string(uid)).Msg("inactive account refused")
		return domain.User{}, invalid(errors.New("account inactive"))
	}
	return user, nil
}

// BearerToken extracts the credential from an Authorization header value.
func BearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
