package category

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/redmonkez12/storefront-api/internal/logging"
	"github.com/redmonkez12/storefront-api/internal/pagination"
)

type Store interface {
	Create(ctx context.Context, c *Category) error
	GetByID(ctx context.Context, id uuid.UUID) (*Category, error)
	GetByName(ctx context.Context, name string) (*Category, error)
	Update(ctx context.Context, c *Category) error
	Count(ctx context.Context) (int, error)
	List(ctx context.Context, offset, limit int) ([]*Category, error)
}

type Service struct {
	store  Store
	logger *logging.Logger
}

func NewService(store Store, logger *logging.Logger) *Service {
	return &Service{store: store, logger: logger}
}

func (s *Service) List(ctx context.Context, p pagination.Params) (*pagination.Page[Summary], error) {
	page, err := pagination.Fetch(ctx, p, s.store.Count, s.store.List)
	if err != nil {
		return nil, err
	}
	return pagination.Map(page, (*Category).Summary), nil
}

// Create stores a new category owned by owner.
func (s *Service) Create(ctx context.Context, owner uuid.UUID, req CreateRequest) (Summary, error) {
	if err := s.ensureNameFree(ctx, req.Name, uuid.Nil); err != nil {
		return Summary{}, err
	}

	c := &Category{Name: req.Name, Available: req.Available, UserID: &owner}
	if err := s.store.Create(ctx, c); err != nil {
		return Summary{}, err
	}

	s.logger.Info("category created", "category_id", c.ID, "user_id", owner)
	return c.Summary(), nil
}

// Update renames and toggles a category. The caller becomes its owner.
func (s *Service) Update(ctx context.Context, owner, id uuid.UUID, req UpdateRequest) (Summary, error) {
	c, err := s.store.GetByID(ctx, id)
	if err != nil {
		return Summary{}, err
	}

	if req.Name != nil && *req.Name != c.Name {
		if err := s.ensureNameFree(ctx, *req.Name, c.ID); err != nil {
			return Summary{}, err
		}
		c.Name = *req.Name
	}
	c.Available = req.available()
	c.UserID = &owner

	if err := s.store.Update(ctx, c); err != nil {
		return Summary{}, err
	}
	return c.Summary(), nil
}

func (s *Service) ensureNameFree(ctx context.Context, name string, self uuid.UUID) error {
	existing, err := s.store.GetByName(ctx, name)
	switch {
	case errors.Is(err, ErrNotFound):
		return nil
	case err != nil:
		return err
	case existing.ID != self:
		return ErrDuplicateName
	}
	return nil
}
