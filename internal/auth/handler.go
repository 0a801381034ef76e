package auth

import (
	"context"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/redmonkez12/storefront-api/internal/apperror"
	"github.com/redmonkez12/storefront-api/internal/httputil"
	"github.com/redmonkez12/storefront-api/internal/identity"
	"github.com/redmonkez12/storefront-api/internal/logging"
	"github.com/redmonkez12/storefront-api/internal/user"
)

var (
	errTooManyRequests = apperror.TooManyRequests("too many requests, please try again later")
	errCooldownActive  = apperror.TooManyRequests("please wait before requesting another reset")
)

const forgotPasswordMessage = "If an account exists with that email, a password reset link has been sent."

// RateLimiter guards the unauthenticated auth endpoints.
type RateLimiter interface {
	CheckIPRateLimitWithPurpose(ctx context.Context, ip, purpose string) (bool, error)
	RecordIPRequestWithPurpose(ctx context.Context, ip, purpose string) error
	CheckEmailCooldown(ctx context.Context, email string) (bool, error)
	SetEmailCooldown(ctx context.Context, email string) error
}

// Handler contains HTTP handlers for authentication endpoints
type Handler struct {
	service        *Service
	rateLimiter    RateLimiter
	transport      Transport
	accessDuration time.Duration
}

func NewHandler(service *Service, rateLimiter RateLimiter, transport Transport, accessDuration time.Duration) *Handler {
	return &Handler{
		service:        service,
		rateLimiter:    rateLimiter,
		transport:      transport,
		accessDuration: accessDuration,
	}
}

// Register handles user registration
// @Summary      Register a new user
// @Description  Create a pending account. The administrator receives an approval request by email.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body user.NewAccountRequest true "Registration data"
// @Success      201 {object} RegisterResponse
// @Failure      400 {object} httputil.ErrorResponse "Invalid request or email already exists"
// @Failure      429 {object} httputil.ErrorResponse "Too many requests"
// @Failure      500 {object} httputil.ErrorResponse "Internal server error"
// @Router       /auth/register [post]
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	if !h.allow(w, r, "register") {
		return
	}

	var req user.NewAccountRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.RespondError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.RespondError(w, r, err)
		return
	}

	logger := logging.GetLoggerFromContext(r.Context()).WithFields(map[string]any{"email": req.Email})

	newUser, err := h.service.Register(r.Context(), req)
	if err != nil {
		logger.Warn("registration failed", "error", err.Error())
		httputil.RespondError(w, r, err)
		return
	}

	logger.Info("user registered, pending approval", "user_id", newUser.ID)

	httputil.RespondJSON(w, RegisterResponse{
		User:    newUser,
		Message: RegistrationMessage,
	}, http.StatusCreated)
}

// Login handles user login
// @Summary      User login
// @Description  Authenticate an approved user and receive an access token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Login credentials"
// @Success      200 {object} LoginResponse
// @Failure      400 {object} httputil.ErrorResponse "Unknown email or wrong password"
// @Failure      401 {object} httputil.ErrorResponse "Account pending or rejected"
// @Failure      429 {object} httputil.ErrorResponse "Too many requests"
// @Router       /auth/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if !h.allow(w, r, "login") {
		return
	}

	var req LoginRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.RespondError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.RespondError(w, r, err)
		return
	}

	logger := logging.GetLoggerFromContext(r.Context()).WithFields(map[string]any{"email": req.Email})

	result, err := h.service.Login(r.Context(), req)
	if err != nil {
		logger.Warn("login failed", "error", err.Error())
		httputil.RespondError(w, r, err)
		return
	}

	logger.Info("user logged in successfully")

	h.transport.SetAccessTokenCookie(w, result.Token, h.accessDuration)
	httputil.RespondJSON(w, result, http.StatusOK)
}

// ApproveUser handles the approve link sent to the administrator
// @Summary      Approve a pending registration
// @Tags         auth
// @Produce      html
// @Param        token       path  string true  "Approval token"
// @Param        admin_email query string false "Administrator recorded as approver"
// @Success      200 {string} string "HTML page"
// @Failure      400 {string} string "HTML page"
// @Router       /auth/approve-user/{token} [get]
func (h *Handler) ApproveUser(w http.ResponseWriter, r *http.Request) {
	if _, err := h.service.Approve(r.Context(), chi.URLParam(r, "token"), r.URL.Query().Get("admin_email")); err != nil {
		renderErrorPage(w, r, err)
		return
	}

	renderPage(w, r, pageData{
		Title:   "User approved",
		Color:   colorSuccess,
		Message: "The user has been approved.",
		Detail:  "A confirmation email has been sent.",
	}, http.StatusOK)
}

// RejectUser handles the reject link sent to the administrator
// @Summary      Reject a pending registration
// @Tags         auth
// @Produce      html
// @Param        token       path  string true  "Approval token"
// @Param        admin_email query string false "Administrator recorded as rejecter"
// @Success      200 {string} string "HTML page"
// @Failure      400 {string} string "HTML page"
// @Router       /auth/reject-user/{token} [get]
func (h *Handler) RejectUser(w http.ResponseWriter, r *http.Request) {
	if _, err := h.service.Reject(r.Context(), chi.URLParam(r, "token"), r.URL.Query().Get("admin_email")); err != nil {
		renderErrorPage(w, r, err)
		return
	}

	renderPage(w, r, pageData{
		Title:   "User rejected",
		Color:   colorDanger,
		Message: "The user has been rejected.",
		Detail:  "A notification email has been sent.",
	}, http.StatusOK)
}

// Me returns the caller
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} MeResponse
// @Failure      401 {object} httputil.ErrorResponse
// @Router       /auth/me [get]
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	caller, ok := identity.FromContext(r.Context())
	if !ok {
		httputil.RespondError(w, r, ErrNoToken)
		return
	}

	me, err := h.service.Me(r.Context(), caller)
	if err != nil {
		httputil.RespondError(w, r, err)
		return
	}

	httputil.RespondJSON(w, me, http.StatusOK)
}

// UpdateProfile changes the name or roles of an account
// @Summary      Update account
// @Description  Users may update themselves. Only administrators may update others or change roles.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path string               true "User ID"
// @Param        request body UpdateProfileRequest true "Fields to change"
// @Success      200 {object} user.User
// @Failure      400 {object} httputil.ErrorResponse
// @Failure      403 {object} httputil.ErrorResponse
// @Router       /auth/update/{id} [patch]
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	caller, ok := identity.FromContext(r.Context())
	if !ok {
		httputil.RespondError(w, r, ErrNoToken)
		return
	}

	id, err := httputil.PathUUID(r, "id")
	if err != nil {
		httputil.RespondError(w, r, err)
		return
	}

	var req UpdateProfileRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.RespondError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.RespondError(w, r, err)
		return
	}

	updated, err := h.service.UpdateProfile(r.Context(), caller, id, req)
	if err != nil {
		httputil.RespondError(w, r, err)
		return
	}

	httputil.RespondJSON(w, updated, http.StatusOK)
}

// Logout handles user logout
// @Summary      User logout
// @Description  Revoke the current access token and clear the auth cookie
// @Tags         auth
// @Produce      json
// @Success      200 {object} httputil.MessageResponse
// @Router       /auth/logout [post]
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	if token, err := h.transport.Extract(r); err == nil {
		if err := h.service.Logout(r.Context(), token); err != nil {
			logger.Warn("failed to revoke access token", "error", err.Error())
		}
	}

	h.transport.ClearAccessTokenCookie(w)

	logger.Info("user logged out")

	httputil.RespondJSON(w, httputil.MessageResponse{Message: "Logged out successfully"}, http.StatusOK)
}

// ForgotPassword handles password reset requests
// @Summary      Request password reset
// @Description  Send a password reset link to the user's email. Always returns success to prevent email enumeration.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body ForgotPasswordRequest true "Email address"
// @Success      200 {object} httputil.MessageResponse
// @Failure      400 {object} httputil.ErrorResponse "Invalid request body"
// @Failure      429 {object} httputil.ErrorResponse "Too many requests"
// @Router       /auth/forgot-password [post]
func (h *Handler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	var req ForgotPasswordRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.RespondError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.RespondError(w, r, err)
		return
	}

	if !h.allow(w, r, "forgot-password") {
		return
	}

	// Check email cooldown (2 min)
	onCooldown, err := h.rateLimiter.CheckEmailCooldown(r.Context(), req.Email)
	if err != nil {
		logger.Error("failed to check email cooldown", "error", err.Error())
	} else if onCooldown {
		logger.Warn("email on cooldown", "email", req.Email)
		httputil.RespondError(w, r, errCooldownActive)
		return
	}

	if err := h.rateLimiter.SetEmailCooldown(r.Context(), req.Email); err != nil {
		logger.Error("failed to set email cooldown", "error", err.Error())
	}

	// Process request (always returns nil for security)
	_ = h.service.RequestPasswordReset(r.Context(), req.Email)

	httputil.RespondJSON(w, httputil.MessageResponse{Message: forgotPasswordMessage}, http.StatusOK)
}

// ResetPassword handles password reset with token
// @Summary      Reset password
// @Description  Reset a user's password using a valid reset token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body ResetPasswordRequest true "Reset token and new password"
// @Success      200 {object} httputil.MessageResponse
// @Failure      400 {object} httputil.ErrorResponse "Invalid request or token"
// @Router       /auth/reset-password [post]
func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	var req ResetPasswordRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.RespondError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.RespondError(w, r, err)
		return
	}

	if err := h.service.ResetPassword(r.Context(), req); err != nil {
		logger.Warn("password reset failed", "error", err.Error())
		httputil.RespondError(w, r, err)
		return
	}

	logger.Info("password reset successfully")

	httputil.RespondJSON(w, httputil.MessageResponse{
		Message: "Password reset successfully. You can now login with your new password.",
	}, http.StatusOK)
}

// allow applies the per-IP limit for purpose. Limiter failures let the
// request through.
func (h *Handler) allow(w http.ResponseWriter, r *http.Request, purpose string) bool {
	logger := logging.GetLoggerFromContext(r.Context())
	ip := getClientIP(r)

	exceeded, err := h.rateLimiter.CheckIPRateLimitWithPurpose(r.Context(), ip, purpose)
	if err != nil {
		logger.Error("failed to check IP rate limit", "error", err.Error())
	} else if exceeded {
		logger.Warn("IP rate limit exceeded", "ip", ip, "purpose", purpose)
		httputil.RespondError(w, r, errTooManyRequests)
		return false
	}

	if err := h.rateLimiter.RecordIPRequestWithPurpose(r.Context(), ip, purpose); err != nil {
		logger.Error("failed to record IP request", "error", err.Error())
	}
	return true
}

// getClientIP extracts the client IP address from the request
func getClientIP(r *http.Request) string {
	// Check X-Forwarded-For header first (behind proxy/load balancer)
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
