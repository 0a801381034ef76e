package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/redmonkez12/storefront-api/internal/auth"
	"github.com/redmonkez12/storefront-api/internal/category"
	"github.com/redmonkez12/storefront-api/internal/config"
	"github.com/redmonkez12/storefront-api/internal/contact"
	"github.com/redmonkez12/storefront-api/internal/httputil"
	"github.com/redmonkez12/storefront-api/internal/identity"
	"github.com/redmonkez12/storefront-api/internal/images"
	"github.com/redmonkez12/storefront-api/internal/logging"
	"github.com/redmonkez12/storefront-api/internal/product"
	"github.com/redmonkez12/storefront-api/internal/upload"
	"github.com/redmonkez12/storefront-api/internal/user"
)

// Handlers groups the feature handlers mounted by NewRouter.
type Handlers struct {
	Auth       *auth.Handler
	Users      *user.Handler
	Categories *category.Handler
	Products   *product.Handler
	Upload     *upload.Handler
	Images     *images.Handler
	Contact    *contact.Handler
}

// NewRouter creates and configures the HTTP router
func NewRouter(cfg *config.Config, h Handlers, authMiddleware *auth.Middleware, logger *logging.Logger) *chi.Mux {
	r := chi.NewRouter()

	// CORS - must be first
	if len(cfg.Server.TrustedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.Server.TrustedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			ExposedHeaders:   []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           300, // 5 minutes
		}))
	}

	r.Use(SecurityHeaders)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logging.RequestLogger(logger))
	r.Use(middleware.Compress(5))

	requireAuth := authMiddleware.Require()
	requireAdmin := authMiddleware.Require(identity.RoleAdmin)
	optionalAuth := authMiddleware.Optional()
	limitBody := middleware.RequestSize(cfg.Server.MaxUploadBytes)

	r.Get("/health", handleHealth)

	if cfg.Server.IsDevelopment() {
		logger.Info("swagger UI enabled", "path", "/swagger/*")
		r.Get("/swagger/*", httpSwagger.WrapHandler)
	}

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Auth.Register)
		r.Post("/login", h.Auth.Login)
		r.Post("/logout", h.Auth.Logout)
		r.Post("/forgot-password", h.Auth.ForgotPassword)
		r.Post("/reset-password", h.Auth.ResetPassword)
		r.Get("/approve-user/{token}", h.Auth.ApproveUser)
		r.Get("/reject-user/{token}", h.Auth.RejectUser)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/me", h.Auth.Me)
			r.Put("/me", h.Auth.Me)
			r.Patch("/update/{id}", h.Auth.UpdateProfile)
		})
	})

	r.Route("/categories", func(r chi.Router) {
		r.Get("/", h.Categories.List)
		r.With(requireAdmin).Post("/", h.Categories.Create)
		r.With(requireAdmin).Patch("/{id}", h.Categories.Update)
	})

	r.Route("/products", func(r chi.Router) {
		r.With(optionalAuth).Get("/", h.Products.List)
		r.With(optionalAuth).Get("/{id}", h.Products.Get)

		r.Group(func(r chi.Router) {
			r.Use(requireAdmin, limitBody)
			r.Post("/", h.Products.Create)
			r.Patch("/{id}", h.Products.Update)
			r.Delete("/{id}", h.Products.Delete)
		})
	})

	r.Route("/users", func(r chi.Router) {
		r.Use(requireAdmin)
		r.Get("/", h.Users.List)
		r.Post("/", h.Users.Create)
		r.Get("/{id}", h.Users.Get)
		r.Patch("/{id}", h.Users.Update)
		r.Patch("/{id}/approval", h.Users.UpdateApproval)
		r.Delete("/{id}", h.Users.Delete)
	})

	r.Route("/upload", func(r chi.Router) {
		r.Use(requireAuth, limitBody, upload.ContainFiles)
		// {type} is only resolved for inline middleware.
		allowedTypes := upload.AllowedTypes(upload.Folders...)
		r.With(allowedTypes).Post("/single/{type}", h.Upload.UploadSingle)
		r.With(allowedTypes).Post("/multiple/{type}", h.Upload.UploadMultiple)
	})

	r.Route("/images", func(r chi.Router) {
		r.Get("/", h.Images.List)
		r.Get("/{type}", h.Images.ListByType)
		r.With(requireAdmin).Delete("/*", h.Images.Delete)
	})

	r.Route("/send-order", func(r chi.Router) {
		r.Post("/", h.Contact.SendOrder)
		r.Post("/contact", h.Contact.SendContact)
	})

	return r
}

// handleHealth is a simple health check endpoint
// @Summary      Health check
// @Description  Check if the API is running
// @Tags         health
// @Produce      json
// @Success      200 {object} map[string]string
// @Router       /health [get]
func handleHealth(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, map[string]string{"status": "api is running"}, http.StatusOK)
}
