package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dkeye/Collab/internal/domain"
	"github.com/golang-jwt/jwt/v5"
)

const issuer = "collab"

// CustomClaims is the payload of a bearer token.
type CustomClaims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// GenerateToken signs an HS256 token for userID. Credential issuance belongs
// to the account service; this exists for tests and local tooling.
func GenerateToken(secret []byte, userID domain.UserID, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &CustomClaims{
		UserID: string(userID),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   string(userID),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    issuer,
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// ValidateToken checks the signature, algorithm and expiry of raw.
func ValidateToken(secret []byte, raw string) (*CustomClaims, error) {
	token, err := jwt.ParseWithClaims(raw, &CustomClaims{}, func(*jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid {
		return nil, jwt.ErrSignatureInvalid
	}
	if claims.UserID == "" {
		return nil, errors.New("token carries no user id")
	}
	return claims, nil
}

func invalid(err error) error {
	return fmt.Errorf("%w: %w", domain.ErrInvalidCredential, err)
}
