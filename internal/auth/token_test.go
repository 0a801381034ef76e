package auth

import (
	"strings"
	"testing"
	"time"

	"aidanwoods.dev/go-paseto"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redmonkez12/storefront-api/internal/config"
)

var testPasetoKey = []byte("0123456789abcdef0123456789abcdef")

func TestTokenServices(t *testing.T) {
	pasetoSvc, err := NewPasetoService(testPasetoKey)
	require.NoError(t, err)
	jwtSvc, err := NewJWTService("seed")
	require.NoError(t, err)

	services := map[string]TokenService{"paseto": pasetoSvc, "jwt": jwtSvc}

	for name, svc := range services {
		t.Run(name, func(t *testing.T) {
			id := uuid.New()
			token, err := svc.CreateToken(id, "jane@example.com", time.Hour)
			require.NoError(t, err)

			claims, err := svc.VerifyToken(token)
			require.NoError(t, err)
			assert.Equal(t, id.String(), claims.UserID)
			assert.Equal(t, "jane@example.com", claims.Email)
			assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt, 5*time.Second)

			_, err = svc.VerifyToken(token + "x")
			assert.ErrorIs(t, err, ErrInvalidToken)

			_, err = svc.VerifyToken("")
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestPasetoExpiredToken(t *testing.T) {
	svc, err := NewPasetoService(testPasetoKey)
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, err := svc.CreateToken(uuid.New(), "a@example.com", time.Hour)
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.VerifyToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestJWTExpiredToken(t *testing.T) {
	svc, err := NewJWTService("seed")
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, err := svc.CreateToken(uuid.New(), "a@example.com", time.Hour)
	require.NoError(t, err)

	_, err = svc.VerifyToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestJWTRejectsOtherSecret(t *testing.T) {
	issuer, err := NewJWTService("seed")
	require.NoError(t, err)
	verifier, err := NewJWTService("other")
	require.NoError(t, err)

	token, err := issuer.CreateToken(uuid.New(), "a@example.com", time.Hour)
	require.NoError(t, err)

	_, err = verifier.VerifyToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPasetoRejectsForeignTokens(t *testing.T) {
	svc, err := NewPasetoService(testPasetoKey)
	require.NoError(t, err)
	key, err := paseto.V4SymmetricKeyFromBytes(testPasetoKey)
	require.NoError(t, err)

	mint := func(issuer string, implicit []byte) string {
		token := paseto.NewToken()
		token.SetIssuer(issuer)
		token.SetSubject(uuid.NewString())
		token.SetIssuedAt(time.Now())
		token.SetExpiration(time.Now().Add(time.Hour))
		return token.V4Encrypt(key, implicit)
	}

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{name: "accepted", token: mint(tokenIssuer, accessPurpose)},
		{name: "other purpose", token: mint(tokenIssuer, []byte("password-reset")), wantErr: ErrInvalidToken},
		{name: "other issuer", token: mint("someone-else", accessPurpose), wantErr: ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.VerifyToken(tt.token)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestNewTokenService(t *testing.T) {
	svc, err := NewTokenService(config.AuthConfig{TokenKind: config.TokenKindPaseto, PasetoKey: testPasetoKey})
	require.NoError(t, err)
	assert.IsType(t, &PasetoService{}, svc)

	svc, err = NewTokenService(config.AuthConfig{TokenKind: config.TokenKindJWT, JWTSecret: "seed"})
	require.NoError(t, err)
	assert.IsType(t, &JWTService{}, svc)

	_, err = NewTokenService(config.AuthConfig{TokenKind: config.TokenKindPaseto, PasetoKey: []byte("short")})
	assert.Error(t, err)

	_, err = NewTokenService(config.AuthConfig{TokenKind: "opaque"})
	assert.Error(t, err)
}

func TestHashToken(t *testing.T) {
	h := hashToken("abc")
	assert.Len(t, h, 64)
	assert.Equal(t, h, hashToken("abc"))
	assert.NotEqual(t, h, hashToken("abd"))
	assert.Equal(t, strings.ToLower(h), h)
}
