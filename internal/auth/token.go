package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/redmonkez12/storefront-api/internal/config"
	"github.com/redmonkez12/storefront-api/internal/user"
)

// tokenIssuer is the iss claim of every access token.
const tokenIssuer = "storefront-api"

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// TokenClaims represents the identity carried by an access token.
type TokenClaims struct {
	UserID    string    `json:"id"`
	Email     string    `json:"email"`
	IssuedAt  time.Time `json:"iat"`
	ExpiresAt time.Time `json:"exp"`
}

// TokenService defines the interface for token creation and validation.
// Implementations include PasetoService (PASETO v4.local) and JWTService (HS256).
type TokenService interface {
	CreateToken(userID uuid.UUID, email string, duration time.Duration) (string, error)
	VerifyToken(tokenStr string) (*TokenClaims, error)
}

// NewTokenService builds the implementation selected by cfg.TokenKind.
func NewTokenService(cfg config.AuthConfig) (TokenService, error) {
	switch cfg.TokenKind {
	case config.TokenKindPaseto:
		return NewPasetoService(cfg.PasetoKey)
	case config.TokenKindJWT:
		return NewJWTService(cfg.JWTSecret)
	default:
		return nil, fmt.Errorf("unsupported token kind %q", cfg.TokenKind)
	}
}

// hashToken returns the hex sha256 of an opaque token. Only hashes are
// persisted or used as cache keys.
func hashToken(token string) string {
	return user.TokenHash(token)
}
