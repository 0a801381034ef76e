package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/redmonkez12/storefront-api/internal/logging"
	"github.com/redmonkez12/storefront-api/internal/pagination"
	"github.com/redmonkez12/storefront-api/internal/password"
)

// Store is the persistence contract used by the admin service.
type Store interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, u *User) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int, error)
	List(ctx context.Context, offset, limit int) ([]*User, error)
}

// Service implements user administration.
type Service struct {
	store  Store
	logger *logging.Logger
	now    func() time.Time
}

func NewService(store Store, logger *logging.Logger) *Service {
	return &Service{store: store, logger: logger, now: time.Now}
}

func (s *Service) List(ctx context.Context, p pagination.Params) (*pagination.Page[*User], error) {
	return pagination.Fetch(ctx, p, s.store.Count, s.store.List)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.store.GetByID(ctx, id)
}

// Create adds an account on behalf of an administrator. Such accounts skip
// the approval workflow.
func (s *Service) Create(ctx context.Context, req NewAccountRequest) (*User, error) {
	if err := s.ensureEmailFree(ctx, req.Email, uuid.Nil); err != nil {
		return nil, err
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	u := &User{
		Name:           req.Name,
		Email:          req.Email,
		PasswordHash:   hash,
		Roles:          NormalizeRoles(req.Roles),
		EmailValidated: true,
		ApprovalStatus: StatusApproved,
	}
	req.Profile.ApplyTo(u)

	if err := s.store.Create(ctx, u); err != nil {
		return nil, err
	}

	s.logger.Info("user created by admin", "user_id", u.ID)
	return u, nil
}

// Update applies a partial update.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateRequest) (*User, error) {
	u, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Email != nil && *req.Email != u.Email {
		if err := s.ensureEmailFree(ctx, *req.Email, u.ID); err != nil {
			return nil, err
		}
		u.Email = *req.Email
	}
	if req.Name != nil {
		u.Name = *req.Name
	}
	if req.Password != nil {
		hash, err := password.Hash(*req.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		u.PasswordHash = hash
	}
	if req.Roles != nil {
		u.Roles = NormalizeRoles(req.Roles)
	}
	req.Profile.ApplyTo(u)

	if err := s.store.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// SetApproval forces the approval status of an account. actor is recorded in
// the approved/rejected stamp.
func (s *Service) SetApproval(ctx context.Context, id uuid.UUID, status ApprovalStatus, actor string) (*User, error) {
	u, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	u.ApplyApproval(status, actor, s.now())

	if err := s.store.Update(ctx, u); err != nil {
		return nil, err
	}

	s.logger.Info("user approval updated", "user_id", u.ID, "status", status, "actor", actor)
	return u, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("user deleted", "user_id", id)
	return nil
}

func (s *Service) ensureEmailFree(ctx context.Context, email string, self uuid.UUID) error {
	existing, err := s.store.GetByEmail(ctx, email)
	switch {
	case errors.Is(err, ErrNotFound):
		return nil
	case err != nil:
		return err
	case existing.ID != self:
		return ErrDuplicateEmail
	}
	return nil
}
