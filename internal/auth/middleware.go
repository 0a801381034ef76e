package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/redmonkez12/storefront-api/internal/apperror"
	"github.com/redmonkez12/storefront-api/internal/httputil"
	"github.com/redmonkez12/storefront-api/internal/identity"
	"github.com/redmonkez12/storefront-api/internal/logging"
	"github.com/redmonkez12/storefront-api/internal/user"
)

// Policy controls what happens when a request cannot be authenticated.
type Policy int

const (
	// Required rejects unauthenticated requests.
	Required Policy = iota
	// Optional lets unauthenticated requests through anonymously.
	Optional
)

var (
	ErrTokenInvalid    = apperror.Unauthorized("Invalid token")
	ErrTokenExpired    = apperror.Unauthorized("Token expired")
	ErrTokenRevoked    = apperror.Unauthorized("Token revoked")
	ErrTokenUser       = apperror.Unauthorized("Invalid token - user")
	ErrUserNotApproved = apperror.Unauthorized("User not approved")
	ErrForbidden       = apperror.Forbidden("Forbidden")
)

// UserLookup resolves the subject of a token.
type UserLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*user.User, error)
}

// RevocationChecker reports whether a token was revoked by logout.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, token string) (bool, error)
}

// Middleware handles authentication for protected routes
type Middleware struct {
	tokens      TokenService
	users       UserLookup
	revocations RevocationChecker
	transport   Transport
}

// NewMiddleware builds the auth middleware. revocations may be nil.
func NewMiddleware(tokens TokenService, users UserLookup, revocations RevocationChecker, transport Transport) *Middleware {
	return &Middleware{
		tokens:      tokens,
		users:       users,
		revocations: revocations,
		transport:   transport,
	}
}

// Require authenticates the request and, when roles are given, demands at
// least one of them.
func (m *Middleware) Require(roles ...string) func(http.Handler) http.Handler {
	return m.Handler(Required, roles...)
}

// Optional attaches the caller when a valid token is present.
func (m *Middleware) Optional() func(http.Handler) http.Handler {
	return m.Handler(Optional)
}

// Handler returns the middleware for policy. Roles only apply to Required.
func (m *Middleware) Handler(policy Policy, roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			caller, err := m.authenticate(r)
			if err != nil {
				if policy == Optional {
					next.ServeHTTP(w, r)
					return
				}
				logging.GetLoggerFromContext(r.Context()).Warn("authentication failed", "error", err.Error())
				httputil.RespondError(w, r, err)
				return
			}

			if policy == Required && !caller.HasAnyRole(roles...) {
				httputil.RespondError(w, r, ErrForbidden)
				return
			}

			next.ServeHTTP(w, r.WithContext(identity.WithIdentity(r.Context(), caller)))
		})
	}
}

func (m *Middleware) authenticate(r *http.Request) (*identity.Identity, error) {
	token, err := m.transport.Extract(r)
	if err != nil {
		return nil, err
	}

	claims, err := m.tokens.VerifyToken(token)
	if err != nil {
		if errors.Is(err, ErrExpiredToken) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, ErrTokenInvalid
	}

	if m.revocations != nil {
		revoked, err := m.revocations.IsRevoked(r.Context(), token)
		if err != nil {
			return nil, fmt.Errorf("failed to check token revocation: %w", err)
		}
		if revoked {
			return nil, ErrTokenRevoked
		}
	}

	u, err := m.users.GetByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, ErrTokenUser
		}
		return nil, err
	}
	if u.ApprovalStatus != user.StatusApproved {
		return nil, ErrUserNotApproved
	}

	return u.Identity(), nil
}
