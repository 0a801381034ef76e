package config

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPasetoKey = "0123456789abcdef0123456789abcdef"

func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("PASETO_KEY", testPasetoKey)
	t.Setenv("APPROVAL_ADMIN_EMAIL", "admin@example.com")
}

func TestLoadDefaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.True(t, cfg.Server.IsDevelopment())
	assert.Equal(t, TokenKindPaseto, cfg.Auth.TokenKind)
	assert.Equal(t, TransportBoth, cfg.Auth.Transport)
	assert.True(t, cfg.Auth.UsesHeader())
	assert.True(t, cfg.Auth.UsesCookie())
	assert.Equal(t, http.SameSiteLaxMode, cfg.Auth.CookieSameSite)
	assert.Equal(t, StorageS3, cfg.Storage.Driver)
	assert.False(t, cfg.Catalog.ImageCleanup)
	assert.Equal(t, int64(50<<20), cfg.Server.MaxUploadBytes)
}

func TestLoadOverrides(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("PORT", "3001")
	t.Setenv("AUTH_TOKEN_TRANSPORT", "header")
	t.Setenv("COOKIE_SAMESITE", "none")
	t.Setenv("ACCESS_TOKEN_DURATION", "90m")
	t.Setenv("SEND_EMAIL", "false")
	t.Setenv("MAILER_EMAIL", "mailer@example.com")
	t.Setenv("WEBSERVICE_URL", "https://api.example.com/")
	t.Setenv("TRUSTED_ORIGINS", "https://a.example.com, https://b.example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "3001", cfg.Server.Port)
	assert.False(t, cfg.Auth.UsesCookie())
	assert.Equal(t, http.SameSiteNoneMode, cfg.Auth.CookieSameSite)
	assert.Equal(t, 90*time.Minute, cfg.Auth.AccessTokenDuration)
	assert.False(t, cfg.Email.Enabled)
	assert.Equal(t, "mailer@example.com", cfg.Email.From)
	assert.Equal(t, "https://api.example.com", cfg.Approval.WebserviceURL)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.Server.TrustedOrigins)
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "short paseto key", env: map[string]string{"PASETO_KEY": "short"}},
		{name: "jwt without seed", env: map[string]string{"AUTH_TOKEN_KIND": "jwt"}},
		{name: "unknown token kind", env: map[string]string{"AUTH_TOKEN_KIND": "opaque"}},
		{name: "unknown transport", env: map[string]string{"AUTH_TOKEN_TRANSPORT": "query"}},
		{name: "unknown storage", env: map[string]string{"STORAGE_DRIVER": "gcs"}},
		{name: "missing admin email", env: map[string]string{"APPROVAL_ADMIN_EMAIL": ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setBaseEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestConnectionStringPrefersURL(t *testing.T) {
	db := DatabaseConfig{URL: "postgres://u:p@h/db"}
	assert.Equal(t, "postgres://u:p@h/db", db.ConnectionString())

	db = DatabaseConfig{Host: "h", Port: "5432", User: "u", Password: "p", DBName: "d", SSLMode: "disable", ChannelBinding: "require"}
	assert.Equal(t, "host=h port=5432 user=u password=p dbname=d sslmode=disable channel_binding=require", db.ConnectionString())
}
