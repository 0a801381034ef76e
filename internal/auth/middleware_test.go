package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redmonkez12/storefront-api/internal/httputil"
	"github.com/redmonkez12/storefront-api/internal/identity"
	"github.com/redmonkez12/storefront-api/internal/user"
)

func newMiddlewareFixture(t *testing.T, transport Transport) (*Middleware, *serviceFixture) {
	t.Helper()
	f := newServiceFixture(t)
	return NewMiddleware(f.tokens, f.users, f.revocations, transport), f
}

// echoIdentity reports the attached caller, or "anonymous".
func echoIdentity(w http.ResponseWriter, r *http.Request) {
	caller, ok := identity.FromContext(r.Context())
	if !ok {
		_, _ = w.Write([]byte("anonymous"))
		return
	}
	_, _ = w.Write([]byte(caller.Email))
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) httputil.ErrorResponse {
	t.Helper()
	var body httputil.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func TestRequiredPolicy(t *testing.T) {
	mw, f := newMiddlewareFixture(t, Transport{Header: true, Cookie: true})

	approved := f.seed(t, "ok@example.com", user.StatusApproved)
	pending := f.seed(t, "pending@example.com", user.StatusPending)
	admin := f.seed(t, "admin@example.com", user.StatusApproved, identity.RoleAdmin)

	tokenFor := func(u *user.User) string {
		tok, err := f.tokens.CreateToken(u.ID, u.Email, time.Hour)
		require.NoError(t, err)
		return tok
	}
	ghost, err := f.tokens.CreateToken(uuid.New(), "ghost@example.com", time.Hour)
	require.NoError(t, err)
	revoked := tokenFor(approved)
	f.revocations.revoked[revoked] = time.Hour

	tests := []struct {
		name       string
		roles      []string
		header     string
		cookie     string
		wantStatus int
		wantBody   string
		wantError  string
	}{
		{name: "no token", wantStatus: http.StatusUnauthorized, wantError: "No token provided"},
		{name: "malformed header", header: "Token abc", wantStatus: http.StatusUnauthorized, wantError: "Invalid Bearer token"},
		{name: "garbage token", header: "Bearer abc", wantStatus: http.StatusUnauthorized, wantError: "Invalid token"},
		{name: "unknown user", header: "Bearer " + ghost, wantStatus: http.StatusUnauthorized, wantError: "Invalid token - user"},
		{name: "pending user", header: "Bearer " + tokenFor(pending), wantStatus: http.StatusUnauthorized, wantError: "User not approved"},
		{name: "revoked", header: "Bearer " + revoked, wantStatus: http.StatusUnauthorized, wantError: "Token revoked"},
		{name: "approved via header", header: "Bearer " + tokenFor(approved), wantStatus: http.StatusOK, wantBody: "ok@example.com"},
		{name: "approved via cookie", cookie: tokenFor(approved), wantStatus: http.StatusOK, wantBody: "ok@example.com"},
		{name: "header wins over cookie", header: "Bearer " + tokenFor(admin), cookie: tokenFor(approved), wantStatus: http.StatusOK, wantBody: "admin@example.com"},
		{name: "user on admin route", roles: []string{identity.RoleAdmin}, header: "Bearer " + tokenFor(approved), wantStatus: http.StatusForbidden, wantError: "Forbidden"},
		{name: "admin on admin route", roles: []string{identity.RoleAdmin}, header: "Bearer " + tokenFor(admin), wantStatus: http.StatusOK, wantBody: "admin@example.com"},
		{name: "any of roles", roles: []string{identity.RoleAdmin, identity.RoleUser}, header: "Bearer " + tokenFor(approved), wantStatus: http.StatusOK, wantBody: "ok@example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := mw.Require(tt.roles...)(http.HandlerFunc(echoIdentity))

			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: tt.cookie})
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, decodeError(t, rec).Error)
				return
			}
			assert.Equal(t, tt.wantBody, rec.Body.String())
		})
	}
}

func TestOptionalPolicyContinuesAnonymously(t *testing.T) {
	mw, f := newMiddlewareFixture(t, Transport{Header: true})
	approved := f.seed(t, "ok@example.com", user.StatusApproved)
	token, err := f.tokens.CreateToken(approved.ID, approved.Email, time.Hour)
	require.NoError(t, err)

	handler := mw.Optional()(http.HandlerFunc(echoIdentity))

	tests := []struct {
		name   string
		header string
		want   string
	}{
		{name: "no token", want: "anonymous"},
		{name: "invalid token", header: "Bearer nope", want: "anonymous"},
		{name: "malformed header", header: "Basic abc", want: "anonymous"},
		{name: "valid token", header: "Bearer " + token, want: "ok@example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/products", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.want, rec.Body.String())
		})
	}
}

func TestHeaderOnlyTransportIgnoresCookie(t *testing.T) {
	mw, f := newMiddlewareFixture(t, Transport{Header: true})
	approved := f.seed(t, "ok@example.com", user.StatusApproved)
	token, err := f.tokens.CreateToken(approved.ID, approved.Email, time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: token})
	rec := httptest.NewRecorder()

	mw.Require()(http.HandlerFunc(echoIdentity)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "No token provided", decodeError(t, rec).Error)
}

func TestExpiredTokenIsRejected(t *testing.T) {
	mw, f := newMiddlewareFixture(t, Transport{Header: true})
	approved := f.seed(t, "ok@example.com", user.StatusApproved)

	pasetoSvc := f.tokens.(*PasetoService)
	pasetoSvc.now = func() time.Time { return time.Now().Add(-3 * time.Hour) }
	token, err := pasetoSvc.CreateToken(approved.ID, approved.Email, time.Hour)
	require.NoError(t, err)
	pasetoSvc.now = time.Now

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	mw.Require()(http.HandlerFunc(echoIdentity)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Token expired", decodeError(t, rec).Error)
}
