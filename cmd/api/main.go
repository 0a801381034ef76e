package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/redmonkez12/storefront-api/internal/auth"
	"github.com/redmonkez12/storefront-api/internal/category"
	"github.com/redmonkez12/storefront-api/internal/config"
	"github.com/redmonkez12/storefront-api/internal/contact"
	"github.com/redmonkez12/storefront-api/internal/database"
	"github.com/redmonkez12/storefront-api/internal/email"
	httpServer "github.com/redmonkez12/storefront-api/internal/http"
	"github.com/redmonkez12/storefront-api/internal/images"
	"github.com/redmonkez12/storefront-api/internal/logging"
	"github.com/redmonkez12/storefront-api/internal/product"
	"github.com/redmonkez12/storefront-api/internal/ratelimit"
	"github.com/redmonkez12/storefront-api/internal/storage"
	"github.com/redmonkez12/storefront-api/internal/upload"
	"github.com/redmonkez12/storefront-api/internal/user"
)

// @title           Storefront API
// @version         1.0
// @description     Back-office and storefront API: approval-gated accounts, catalog, image storage and notifications.

// @contact.name   API Support
// @contact.email  support@example.com

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the access token.

func main() {
	if err := run(); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := logging.NewLogger(cfg.Server.IsDevelopment())
	logger.Info("starting application",
		"env", cfg.Server.Env,
		"port", cfg.Server.Port,
		"token_kind", cfg.Auth.TokenKind,
		"storage", cfg.Storage.Driver,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(ctx, cfg.Database.ConnectionString())
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	redisClient, err := initRedis(ctx, cfg.Redis)
	if err != nil {
		return fmt.Errorf("failed to initialize Redis: %w", err)
	}
	defer redisClient.Close()

	objects, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	// Repositories
	userRepo := user.NewRepository(db)
	categoryRepo := category.NewRepository(db)
	productRepo := product.NewRepository(db)
	revocations := auth.NewRevocationRepository(redisClient)
	passwordResets := auth.NewPasswordResetRepository(redisClient)

	rateLimiter := ratelimit.NewLimiter(redisClient)

	tokens, err := auth.NewTokenService(cfg.Auth)
	if err != nil {
		return fmt.Errorf("failed to initialize token service: %w", err)
	}

	emailService := email.NewService(newMailer(cfg.Email, logger), email.Recipients{
		Admin:   cfg.Approval.AdminEmail,
		Orders:  cfg.Notify.OrderEmail,
		Contact: cfg.Notify.ContactEmail,
	}, cfg.Email.FrontendURL, logger)

	uploader := upload.NewUploader(objects, logger)

	// Services
	authService := auth.NewService(userRepo, passwordResets, revocations, tokens, emailService, logger, auth.Options{
		AccessTokenDuration: cfg.Auth.AccessTokenDuration,
		WebserviceURL:       cfg.Approval.WebserviceURL,
	})
	userService := user.NewService(userRepo, logger)
	categoryService := category.NewService(categoryRepo, logger)
	productService := product.NewService(productRepo, categoryRepo, uploader, logger, product.Options{
		ImageCleanup: cfg.Catalog.ImageCleanup,
	})
	imageService := images.NewService(objects, logger)
	contactService := contact.NewService(emailService, logger)

	transport := auth.NewTransport(cfg.Auth, !cfg.Server.IsDevelopment())
	authMiddleware := auth.NewMiddleware(tokens, userRepo, revocations, transport)

	router := httpServer.NewRouter(cfg, httpServer.Handlers{
		Auth:       auth.NewHandler(authService, rateLimiter, transport, cfg.Auth.AccessTokenDuration),
		Users:      user.NewHandler(userService),
		Categories: category.NewHandler(categoryService),
		Products:   product.NewHandler(productService),
		Upload:     upload.NewHandler(uploader),
		Images:     images.NewHandler(imageService),
		Contact:    contact.NewHandler(contactService),
	}, authMiddleware, logger)

	server := httpServer.NewServer(cfg.Server, router, logger)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- server.Start()
	}()

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		logger.Info("received shutdown signal")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// newMailer sends through SMTP unless email delivery is disabled.
func newMailer(cfg config.EmailConfig, logger *logging.Logger) email.Mailer {
	if !cfg.Enabled || cfg.SMTPHost == "" {
		logger.Warn("email delivery disabled, messages will only be logged")
		return email.NewLogMailer(logger)
	}
	return email.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.From)
}

// initRedis initializes the Redis connection and returns a Redis client
func initRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	return client, nil
}
