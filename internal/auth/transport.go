package auth

import (
	"net/http"
	"strings"
	"time"

	"github.com/redmonkez12/storefront-api/internal/apperror"
	"github.com/redmonkez12/storefront-api/internal/config"
)

// AccessTokenCookie is the cookie carrying the access token for browser clients.
const AccessTokenCookie = "access_token"

var (
	ErrNoToken            = apperror.Unauthorized("No token provided")
	ErrInvalidBearerToken = apperror.Unauthorized("Invalid Bearer token")
)

// Transport describes where access tokens are read from and written to.
type Transport struct {
	Header   bool
	Cookie   bool
	Secure   bool
	SameSite http.SameSite
}

// NewTransport builds a Transport from the auth section of the config.
func NewTransport(cfg config.AuthConfig, production bool) Transport {
	return Transport{
		Header:   cfg.UsesHeader(),
		Cookie:   cfg.UsesCookie(),
		Secure:   production,
		SameSite: cfg.CookieSameSite,
	}
}

// Extract returns the raw token. The Authorization header wins over the
// cookie when both transports are enabled.
func (t Transport) Extract(r *http.Request) (string, error) {
	if t.Header {
		if header := r.Header.Get("Authorization"); header != "" {
			token, ok := strings.CutPrefix(header, "Bearer ")
			token = strings.TrimSpace(token)
			if !ok || token == "" {
				return "", ErrInvalidBearerToken
			}
			return token, nil
		}
	}

	if t.Cookie {
		if cookie, err := r.Cookie(AccessTokenCookie); err == nil && cookie.Value != "" {
			return cookie.Value, nil
		}
	}

	return "", ErrNoToken
}

// SetAccessTokenCookie writes the token cookie when cookies are enabled.
func (t Transport) SetAccessTokenCookie(w http.ResponseWriter, token string, duration time.Duration) {
	if !t.Cookie {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     AccessTokenCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(duration.Seconds()),
		HttpOnly: true,
		Secure:   t.Secure || t.SameSite == http.SameSiteNoneMode,
		SameSite: t.SameSite,
	})
}

// ClearAccessTokenCookie expires the token cookie.
func (t Transport) ClearAccessTokenCookie(w http.ResponseWriter) {
	if !t.Cookie {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     AccessTokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   t.Secure || t.SameSite == http.SameSiteNoneMode,
		SameSite: t.SameSite,
	})
}
