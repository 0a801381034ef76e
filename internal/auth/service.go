package auth

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/redmonkez12/storefront-api/internal/apperror"
	"github.com/redmonkez12/storefront-api/internal/email"
	"github.com/redmonkez12/storefront-api/internal/identity"
	"github.com/redmonkez12/storefront-api/internal/logging"
	"github.com/redmonkez12/storefront-api/internal/password"
	"github.com/redmonkez12/storefront-api/internal/user"
)

var (
	ErrEmailNotExists             = apperror.BadRequest("Email not exists")
	ErrInvalidPassword            = apperror.BadRequest("Invalid password")
	ErrAccountPending             = apperror.Unauthorized("Your account is pending approval")
	ErrAccountRejected            = apperror.Unauthorized("Your account has been rejected")
	ErrInvalidApprovalToken       = apperror.BadRequest("Invalid or expired approval token")
	ErrPasswordResetTokenNotFound = apperror.BadRequest("Invalid or expired reset token")
	ErrApprovalEmail              = apperror.Internal("Error sending approval email")
	ErrUpdateOtherUser            = apperror.Forbidden("You can only update your own account")
	ErrChangeRoles                = apperror.Forbidden("Only administrators can change roles")
)

// RegistrationMessage is returned alongside the created account.
const RegistrationMessage = "Registration successful. Your account is pending approval."

// DefaultActor is recorded when an approval link carries no admin_email.
const DefaultActor = "Admin"

// UserStore is the persistence contract of the auth service.
type UserStore interface {
	Create(ctx context.Context, u *user.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*user.User, error)
	GetByEmail(ctx context.Context, email string) (*user.User, error)
	GetByApprovalToken(ctx context.Context, token string) (*user.User, error)
	IsProcessedToken(ctx context.Context, tokenHash string) (bool, error)
	ResolveApproval(ctx context.Context, id uuid.UUID, d user.Decision) (*user.User, error)
	Update(ctx context.Context, u *user.User) error
	UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error
}

// ResetTokenStore keeps single-use password reset tokens.
type ResetTokenStore interface {
	Save(ctx context.Context, userID uuid.UUID, token string) error
	Consume(ctx context.Context, token string) (uuid.UUID, error)
}

// RevocationStore keeps logged-out access tokens.
type RevocationStore interface {
	RevocationChecker
	Revoke(ctx context.Context, token string, ttl time.Duration) error
}

// Notifier sends the emails of the auth workflows.
type Notifier interface {
	SendApprovalRequest(ctx context.Context, applicant email.Applicant, approveURL, rejectURL string) error
	SendApprovalDecision(ctx context.Context, to, name string, approved bool) error
	SendPasswordResetEmail(ctx context.Context, to, token string) error
}

// Options holds the settings of the auth service.
type Options struct {
	AccessTokenDuration time.Duration
	// WebserviceURL is the public base URL of this API, used in approval links.
	WebserviceURL string
}

// Service handles authentication business logic
type Service struct {
	users       UserStore
	resets      ResetTokenStore
	revocations RevocationStore
	tokens      TokenService
	notifier    Notifier
	logger      *logging.Logger
	opts        Options
	now         func() time.Time
}

func NewService(
	users UserStore,
	resets ResetTokenStore,
	revocations RevocationStore,
	tokens TokenService,
	notifier Notifier,
	logger *logging.Logger,
	opts Options,
) *Service {
	return &Service{
		users:       users,
		resets:      resets,
		revocations: revocations,
		tokens:      tokens,
		notifier:    notifier,
		logger:      logger,
		opts:        opts,
		now:         time.Now,
	}
}

// Register creates a pending account and asks the administrator to approve it.
// req must already be validated.
func (s *Service) Register(ctx context.Context, req user.NewAccountRequest) (*user.User, error) {
	if _, err := s.users.GetByEmail(ctx, req.Email); err == nil {
		return nil, user.ErrDuplicateEmail
	} else if !errors.Is(err, user.ErrNotFound) {
		return nil, err
	}

	passwordHash, err := password.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	approvalToken := uuid.NewString()
	u := &user.User{
		Name:           req.Name,
		Email:          req.Email,
		PasswordHash:   passwordHash,
		Roles:          []string{identity.RoleUser},
		ApprovalStatus: user.StatusPending,
		ApprovalToken:  &approvalToken,
	}
	req.Profile.ApplyTo(u)

	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}

	approveURL, rejectURL := s.approvalLinks(approvalToken)
	if err := s.notifier.SendApprovalRequest(ctx, applicantFromUser(u), approveURL, rejectURL); err != nil {
		s.logger.Error("failed to send approval request", "user_id", u.ID, "error", err)
		return nil, ErrApprovalEmail
	}

	return u, nil
}

// Login checks credentials and issues an access token.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	existing, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, ErrEmailNotExists
		}
		return nil, err
	}

	// Approval status is reported before the password is checked.
	switch existing.ApprovalStatus {
	case user.StatusPending:
		return nil, ErrAccountPending
	case user.StatusRejected:
		return nil, ErrAccountRejected
	}

	if !password.Verify(existing.PasswordHash, req.Password) {
		return nil, ErrInvalidPassword
	}

	token, err := s.tokens.CreateToken(existing.ID, existing.Email, s.opts.AccessTokenDuration)
	if err != nil {
		return nil, fmt.Errorf("failed to create access token: %w", err)
	}

	return &LoginResponse{User: existing, Token: token}, nil
}

// Approve resolves a pending registration as approved.
func (s *Service) Approve(ctx context.Context, token, actor string) (*user.User, error) {
	return s.decide(ctx, token, actor, user.StatusApproved)
}

// Reject resolves a pending registration as rejected.
func (s *Service) Reject(ctx context.Context, token, actor string) (*user.User, error) {
	return s.decide(ctx, token, actor, user.StatusRejected)
}

func (s *Service) decide(ctx context.Context, token, actor string, status user.ApprovalStatus) (*user.User, error) {
	if actor == "" {
		actor = DefaultActor
	}
	tokenHash := hashToken(token)

	pending, err := s.users.GetByApprovalToken(ctx, token)
	if err != nil {
		if !errors.Is(err, user.ErrNotFound) {
			return nil, err
		}
		processed, checkErr := s.users.IsProcessedToken(ctx, tokenHash)
		if checkErr != nil {
			return nil, checkErr
		}
		if processed {
			return nil, user.ErrNotPending
		}
		return nil, ErrInvalidApprovalToken
	}

	if pending.ApprovalStatus != user.StatusPending {
		return nil, user.ErrNotPending
	}

	resolved, err := s.users.ResolveApproval(ctx, pending.ID, user.Decision{
		Status:    status,
		Actor:     actor,
		At:        s.now(),
		TokenHash: tokenHash,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("approval resolved", "user_id", resolved.ID, "status", string(status), "actor", actor)

	if err := s.notifier.SendApprovalDecision(ctx, resolved.Email, resolved.Name, status == user.StatusApproved); err != nil {
		s.logger.Warn("failed to send approval decision", "user_id", resolved.ID, "error", err)
	}

	return resolved, nil
}

// Me returns the account of the caller.
func (s *Service) Me(ctx context.Context, caller *identity.Identity) (*MeResponse, error) {
	u, err := s.users.GetByID(ctx, caller.ID)
	if err != nil {
		return nil, err
	}
	return &MeResponse{User: u, IsAdmin: u.IsAdmin()}, nil
}

// UpdateProfile changes the name, image or roles of id on behalf of caller.
func (s *Service) UpdateProfile(ctx context.Context, caller *identity.Identity, id uuid.UUID, req UpdateProfileRequest) (*user.User, error) {
	if caller.ID != id && !caller.IsAdmin() {
		return nil, ErrUpdateOtherUser
	}
	if req.Roles != nil && !caller.IsAdmin() {
		return nil, ErrChangeRoles
	}

	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		u.Name = *req.Name
	}
	if req.Img != nil {
		u.Img = req.Img
	}
	if req.Roles != nil {
		u.Roles = user.NormalizeRoles(req.Roles)
	}

	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Logout revokes token until its natural expiry. Unparseable tokens are
// ignored.
func (s *Service) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	claims, err := s.tokens.VerifyToken(token)
	if err != nil {
		return nil
	}
	return s.revocations.Revoke(ctx, token, claims.ExpiresAt.Sub(s.now()))
}

// RequestPasswordReset initiates the password reset process
// Always returns nil to prevent email enumeration attacks
func (s *Service) RequestPasswordReset(ctx context.Context, emailAddr string) error {
	existing, err := s.users.GetByEmail(ctx, emailAddr)
	if err != nil {
		if !errors.Is(err, user.ErrNotFound) {
			s.logger.Warn("failed to get user for password reset", "error", err)
		}
		return nil
	}

	token := uuid.NewString()
	if err := s.resets.Save(ctx, existing.ID, token); err != nil {
		s.logger.Warn("failed to store password reset token", "error", err)
		return nil
	}

	go func() {
		emailCtx := context.Background()
		if err := s.notifier.SendPasswordResetEmail(emailCtx, existing.Email, token); err != nil {
			s.logger.Warn("failed to send password reset email", "email", existing.Email, "error", err)
		}
	}()

	return nil
}

// ResetPassword resets a user's password using a valid reset token
func (s *Service) ResetPassword(ctx context.Context, req ResetPasswordRequest) error {
	userID, err := s.resets.Consume(ctx, req.Token)
	if err != nil {
		return err
	}

	passwordHash, err := password.Hash(req.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.users.UpdatePassword(ctx, userID, passwordHash); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return ErrPasswordResetTokenNotFound
		}
		return err
	}

	s.logger.Info("password reset", "user_id", userID)
	return nil
}

func (s *Service) approvalLinks(token string) (approve, reject string) {
	escaped := url.PathEscape(token)
	return fmt.Sprintf("%s/auth/approve-user/%s", s.opts.WebserviceURL, escaped),
		fmt.Sprintf("%s/auth/reject-user/%s", s.opts.WebserviceURL, escaped)
}

func applicantFromUser(u *user.User) email.Applicant {
	return email.Applicant{
		Name:         u.Name,
		Email:        u.Email,
		Roles:        u.Roles,
		RazonSocial:  deref(u.RazonSocial),
		CUIT:         deref(u.CUIT),
		Phone:        deref(u.Phone),
		Localidad:    deref(u.Localidad),
		Provincia:    deref(u.Provincia),
		RegisteredAt: u.CreatedAt,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
