package config

import (
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Auth     AuthConfig
	Email    EmailConfig
	Approval ApprovalConfig
	Notify   NotifyConfig
	Storage  StorageConfig
	Catalog  CatalogConfig
}

type ServerConfig struct {
	Port            string
	Env             string // dev or prod
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	TrustedOrigins  []string // CORS allowed origins for cookie auth
	MaxUploadBytes  int64
}

type DatabaseConfig struct {
	URL            string // takes precedence over the discrete fields when set
	Host           string
	Port           string
	User           string
	Password       string
	DBName         string
	SSLMode        string
	ChannelBinding string // "require" for Neon DB, empty for local
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// Token kinds accepted by AUTH_TOKEN_KIND.
const (
	TokenKindPaseto = "paseto"
	TokenKindJWT    = "jwt"
)

// Token transports accepted by AUTH_TOKEN_TRANSPORT.
const (
	TransportHeader = "header"
	TransportCookie = "cookie"
	TransportBoth   = "both"
)

type AuthConfig struct {
	TokenKind string
	// PASETO symmetric key (must be 32 bytes for v4.local)
	PasetoKey           []byte
	JWTSecret           string
	AccessTokenDuration time.Duration
	Transport           string
	CookieSameSite      http.SameSite
}

type EmailConfig struct {
	Enabled      bool
	SMTPHost     string
	SMTPPort     string
	SMTPUser     string
	SMTPPassword string
	From         string
	FrontendURL  string // Frontend URL for password reset links
}

type ApprovalConfig struct {
	AdminEmail    string
	WebserviceURL string // public base URL used in approve/reject links
}

type NotifyConfig struct {
	OrderEmail   string
	ContactEmail string
}

// Storage drivers accepted by STORAGE_DRIVER.
const (
	StorageS3     = "s3"
	StorageMinIO  = "minio"
	StorageMemory = "memory"
)

type StorageConfig struct {
	Driver          string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	Endpoint        string // MinIO host:port
	UseSSL          bool
	PublicURL       string // MinIO public base URL
}

type CatalogConfig struct {
	ImageCleanup bool
}

// Load reads configuration from environment variables
// Call godotenv.Load() before this if using .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	frontURL := getEnv("FRONT_URL", "http://localhost:3000")

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("SERVER_PORT", getEnv("PORT", "8080")),
			Env:             getEnv("APP_ENV", "dev"),
			ReadTimeout:     getDurationEnv("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getDurationEnv("SERVER_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:     getDurationEnv("SERVER_IDLE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getDurationEnv("SERVER_SHUTDOWN_TIMEOUT", 15*time.Second),
			TrustedOrigins:  getSliceEnv("TRUSTED_ORIGINS", []string{frontURL}),
			MaxUploadBytes:  int64(getIntEnv("MAX_UPLOAD_MB", 50)) << 20,
		},
		Database: DatabaseConfig{
			URL:            getEnv("DATABASE_URL", ""),
			Host:           getEnv("DB_HOST", "localhost"),
			Port:           getEnv("DB_PORT", "5432"),
			User:           getEnv("DB_USER", "postgres"),
			Password:       getEnv("DB_PASSWORD", "postgres"),
			DBName:         getEnv("DB_NAME", "storefront"),
			SSLMode:        getEnv("DB_SSLMODE", "disable"),
			ChannelBinding: getEnv("DB_CHANNEL_BINDING", ""),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),
		},
		Auth: AuthConfig{
			TokenKind:           strings.ToLower(getEnv("AUTH_TOKEN_KIND", TokenKindPaseto)),
			PasetoKey:           []byte(getEnv("PASETO_KEY", "")),
			JWTSecret:           getEnv("JWT_SEED", ""),
			AccessTokenDuration: getDurationEnv("ACCESS_TOKEN_DURATION", 2*time.Hour),
			Transport:           strings.ToLower(getEnv("AUTH_TOKEN_TRANSPORT", TransportBoth)),
			CookieSameSite:      parseSameSite(getEnv("COOKIE_SAMESITE", "lax")),
		},
		Email: EmailConfig{
			Enabled:      getBoolEnv("SEND_EMAIL", true),
			SMTPHost:     getEnv("SMTP_HOST", getEnv("MAILER_HOST", "")),
			SMTPPort:     getEnv("SMTP_PORT", "587"),
			SMTPUser:     getEnv("SMTP_USER", getEnv("MAILER_EMAIL", "")),
			SMTPPassword: getEnv("SMTP_PASS", getEnv("MAILER_SECRET_KEY", "")),
			From:         getEnv("SMTP_FROM", ""),
			FrontendURL:  getEnv("FRONTEND_URL", frontURL),
		},
		Approval: ApprovalConfig{
			AdminEmail:    getEnv("APPROVAL_ADMIN_EMAIL", getEnv("ADMIN_EMAIL", "")),
			WebserviceURL: strings.TrimRight(getEnv("WEBSERVICE_URL", "http://localhost:8080"), "/"),
		},
		Notify: NotifyConfig{
			OrderEmail:   getEnv("ORDER_NOTIFY_EMAIL", ""),
			ContactEmail: getEnv("CONTACT_NOTIFY_EMAIL", ""),
		},
		Storage: StorageConfig{
			Driver:          strings.ToLower(getEnv("STORAGE_DRIVER", StorageS3)),
			Region:          getEnv("AWS_REGION", "us-east-1"),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			Bucket:          getEnv("AWS_S3_BUCKET", ""),
			Endpoint:        getEnv("MINIO_ENDPOINT", "localhost:9000"),
			UseSSL:          getBoolEnv("MINIO_USE_SSL", false),
			PublicURL:       strings.TrimRight(getEnv("STORAGE_PUBLIC_URL", ""), "/"),
		},
		Catalog: CatalogConfig{
			ImageCleanup: getBoolEnv("PRODUCT_IMAGE_CLEANUP", false),
		},
	}

	if cfg.Email.From == "" {
		cfg.Email.From = cfg.Email.SMTPUser
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Auth.TokenKind {
	case TokenKindPaseto:
		// Validate PASETO key length (must be 32 bytes for v4.local)
		if len(c.Auth.PasetoKey) != 32 {
			return fmt.Errorf("PASETO_KEY must be exactly 32 bytes, got %d", len(c.Auth.PasetoKey))
		}
	case TokenKindJWT:
		if c.Auth.JWTSecret == "" {
			return fmt.Errorf("JWT_SEED is required when AUTH_TOKEN_KIND=jwt")
		}
	default:
		return fmt.Errorf("unsupported AUTH_TOKEN_KIND %q", c.Auth.TokenKind)
	}

	switch c.Auth.Transport {
	case TransportHeader, TransportCookie, TransportBoth:
	default:
		return fmt.Errorf("unsupported AUTH_TOKEN_TRANSPORT %q", c.Auth.Transport)
	}

	switch c.Storage.Driver {
	case StorageS3, StorageMinIO, StorageMemory:
	default:
		return fmt.Errorf("unsupported STORAGE_DRIVER %q", c.Storage.Driver)
	}

	if c.Approval.AdminEmail == "" {
		return fmt.Errorf("APPROVAL_ADMIN_EMAIL is required")
	}

	return nil
}

func (c *DatabaseConfig) ConnectionString() string {
	if c.URL != "" {
		return c.URL
	}

	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)

	// Add channel_binding if configured (required for Neon DB)
	if c.ChannelBinding != "" {
		connStr += fmt.Sprintf(" channel_binding=%s", c.ChannelBinding)
	}

	return connStr
}

// Address returns Redis connection address (host:port)
func (c *RedisConfig) Address() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDevelopment returns true if the environment is set to dev
func (c *ServerConfig) IsDevelopment() bool {
	return c.Env == "dev"
}

// UsesHeader reports whether bearer tokens are read from the Authorization header.
func (c *AuthConfig) UsesHeader() bool {
	return c.Transport == TransportHeader || c.Transport == TransportBoth
}

// UsesCookie reports whether the access token travels in a cookie.
func (c *AuthConfig) UsesCookie() bool {
	return c.Transport == TransportCookie || c.Transport == TransportBoth
}

func parseSameSite(value string) http.SameSite {
	switch strings.ToLower(value) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	intValue, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	return intValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}

	return boolValue
}

// getDurationEnv accepts either a Go duration ("90m") or a number of seconds.
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if d, err := time.ParseDuration(value); err == nil {
		return d
	}

	seconds, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	return time.Duration(seconds) * time.Second
}

func getSliceEnv(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Split by comma and trim whitespace
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}

	if len(result) == 0 {
		return defaultValue
	}

	return result
}
