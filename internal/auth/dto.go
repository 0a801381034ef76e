package auth

import (
	"strings"

	"github.com/redmonkez12/storefront-api/internal/apperror"
	"github.com/redmonkez12/storefront-api/internal/user"
	"github.com/redmonkez12/storefront-api/internal/validate"
)

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	if validate.Blank(r.Email) {
		return apperror.BadRequest("Missing email")
	}
	if !validate.Email(r.Email) {
		return apperror.BadRequest("Email is not valid")
	}
	if r.Password == "" {
		return apperror.BadRequest("Missing password")
	}
	r.Email = validate.NormalizeEmail(r.Email)
	return nil
}

// LoginResponse is returned on successful login.
type LoginResponse struct {
	User  *user.User `json:"user"`
	Token string     `json:"token"`
}

// RegisterResponse represents the registration response
type RegisterResponse struct {
	User    *user.User `json:"user"`
	Message string     `json:"message"`
}

// MeResponse describes the caller.
type MeResponse struct {
	User    *user.User `json:"user"`
	IsAdmin bool       `json:"isAdmin"`
}

// UpdateProfileRequest changes the name and, for administrators, the roles
// of an account.
type UpdateProfileRequest struct {
	Name  *string  `json:"name,omitempty"`
	Roles []string `json:"role,omitempty"`
	Img   *string  `json:"img,omitempty"`
}

func (r *UpdateProfileRequest) Validate() error {
	if r.Name != nil {
		trimmed := strings.TrimSpace(*r.Name)
		if trimmed == "" {
			return apperror.BadRequest("Missing name")
		}
		r.Name = &trimmed
	}
	return user.ValidateRoles(r.Roles)
}

// ForgotPasswordRequest represents the password reset request
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

func (r *ForgotPasswordRequest) Validate() error {
	if validate.Blank(r.Email) {
		return apperror.BadRequest("Email is required")
	}
	if !validate.Email(r.Email) {
		return apperror.BadRequest("Invalid email format")
	}
	r.Email = validate.NormalizeEmail(r.Email)
	return nil
}

// ResetPasswordRequest represents the password reset confirmation
type ResetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

func (r *ResetPasswordRequest) Validate() error {
	if strings.TrimSpace(r.Token) == "" {
		return apperror.BadRequest("Token is required")
	}
	if r.NewPassword == "" {
		return apperror.BadRequest("New password is required")
	}
	if len(r.NewPassword) < user.MinPasswordLength {
		return apperror.BadRequest("Password must be at least 6 characters long")
	}
	r.Token = strings.TrimSpace(r.Token)
	return nil
}
