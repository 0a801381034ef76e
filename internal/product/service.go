package product

import (
	"context"
	"mime/multipart"
	"slices"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/redmonkez12/storefront-api/internal/apperror"
	"github.com/redmonkez12/storefront-api/internal/logging"
	"github.com/redmonkez12/storefront-api/internal/pagination"
	"github.com/redmonkez12/storefront-api/internal/storage"
)

// ImageFolder is the storage prefix of product images.
const ImageFolder = "products"

var (
	ErrNotFound         = apperror.NotFound("Product not found")
	ErrDuplicateCodigo  = apperror.Conflict("Product code already exists")
	ErrCategoryNotFound = apperror.BadRequest("Category not found")
)

type Store interface {
	Create(ctx context.Context, p *Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*Product, error)
	CodigoTaken(ctx context.Context, codigo string, self uuid.UUID) (bool, error)
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int, error)
	List(ctx context.Context, offset, limit int) ([]*Product, error)
}

type CategoryChecker interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

// ImageStore uploads and removes product images.
type ImageStore interface {
	Validate(files []*multipart.FileHeader) error
	Upload(ctx context.Context, folder, name string, files []*multipart.FileHeader) ([]string, error)
	Remove(ctx context.Context, refs []string) error
}

type Options struct {
	// ImageCleanup deletes images dropped by an update or delete from storage.
	ImageCleanup bool
}

type Service struct {
	store      Store
	categories CategoryChecker
	images     ImageStore
	logger     *logging.Logger
	opts       Options
}

func NewService(store Store, categories CategoryChecker, images ImageStore, logger *logging.Logger, opts Options) *Service {
	return &Service{
		store:      store,
		categories: categories,
		images:     images,
		logger:     logger,
		opts:       opts,
	}
}

func (s *Service) List(ctx context.Context, p pagination.Params) (*pagination.Page[*Product], error) {
	return pagination.Fetch(ctx, p, s.store.Count, s.store.List)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Product, error) {
	return s.store.GetByID(ctx, id)
}

// Create stores a product owned by owner together with its images. Either
// the product and all images are written or nothing is.
func (s *Service) Create(ctx context.Context, owner uuid.UUID, req CreateRequest, files []*multipart.FileHeader) (*Product, error) {
	if err := s.images.Validate(files); err != nil {
		return nil, err
	}
	if err := s.ensureCategory(ctx, req.categoryID); err != nil {
		return nil, err
	}
	codigo := req.codigo()
	if err := s.ensureCodigoFree(ctx, codigo, uuid.Nil); err != nil {
		return nil, err
	}

	p := &Product{
		Name:       *req.Name,
		Codigo:     codigo,
		Price:      *req.Price,
		Title:      *req.Title,
		Images:     []string{},
		UserID:     &owner,
		CategoryID: req.categoryID,
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.Available != nil {
		p.Available = *req.Available
	}

	uploaded, err := s.upload(ctx, p.Name, files)
	if err != nil {
		return nil, err
	}
	p.Images = append(p.Images, uploaded...)

	if err := s.store.Create(ctx, p); err != nil {
		s.discard(ctx, uploaded, err)
		return nil, err
	}

	s.logger.Info("product created", "product_id", p.ID, "images", len(uploaded))
	return s.store.GetByID(ctx, p.ID)
}

// Update applies a partial update and merges images: the retained subset of
// the stored images followed by the new uploads.
func (s *Service) Update(ctx context.Context, owner, id uuid.UUID, req UpdateRequest, files []*multipart.FileHeader) (*Product, error) {
	if err := s.images.Validate(files); err != nil {
		return nil, err
	}

	p, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Category != nil && req.categoryID != p.CategoryID {
		if err := s.ensureCategory(ctx, req.categoryID); err != nil {
			return nil, err
		}
		p.CategoryID = req.categoryID
	}
	if req.Codigo != nil {
		codigo := req.codigo()
		if err := s.ensureCodigoFree(ctx, codigo, p.ID); err != nil {
			return nil, err
		}
		p.Codigo = codigo
	}
	applyFields(p, req.Fields)
	p.UserID = &owner

	kept, dropped := retain(p.Images, req.RetainImages)

	uploaded, err := s.upload(ctx, p.Name, files)
	if err != nil {
		return nil, err
	}
	p.Images = append(kept, uploaded...)

	if err := s.store.Update(ctx, p); err != nil {
		s.discard(ctx, uploaded, err)
		return nil, err
	}

	if len(dropped) > 0 {
		s.cleanup(ctx, p.ID, dropped)
	}

	s.logger.Info("product updated", "product_id", p.ID, "kept", len(kept), "added", len(uploaded), "dropped", len(dropped))
	return s.store.GetByID(ctx, p.ID)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	p, err := s.store.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}

	if len(p.Images) > 0 {
		s.cleanup(ctx, id, p.Images)
	}

	s.logger.Info("product deleted", "product_id", id)
	return nil
}

func (s *Service) upload(ctx context.Context, name string, files []*multipart.FileHeader) ([]string, error) {
	if len(files) == 0 {
		return nil, nil
	}
	return s.images.Upload(ctx, ImageFolder, name, files)
}

// discard removes images uploaded for a write that failed.
func (s *Service) discard(ctx context.Context, urls []string, cause error) {
	if len(urls) == 0 {
		return
	}
	if err := s.images.Remove(context.WithoutCancel(ctx), urls); err != nil {
		s.logger.Error("failed to remove orphaned product images",
			"error", multierr.Combine(cause, err).Error(),
			"count", len(urls),
		)
	}
}

// cleanup deletes images no longer referenced, if enabled. Failures are only
// logged.
func (s *Service) cleanup(ctx context.Context, id uuid.UUID, urls []string) {
	if !s.opts.ImageCleanup {
		return
	}
	if err := s.images.Remove(context.WithoutCancel(ctx), urls); err != nil {
		s.logger.Warn("product image cleanup failed", "product_id", id, "error", err.Error())
	}
}

func (s *Service) ensureCategory(ctx context.Context, id uuid.UUID) error {
	ok, err := s.categories.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrCategoryNotFound
	}
	return nil
}

func (s *Service) ensureCodigoFree(ctx context.Context, codigo *string, self uuid.UUID) error {
	if codigo == nil {
		return nil
	}
	taken, err := s.store.CodigoTaken(ctx, *codigo, self)
	if err != nil {
		return err
	}
	if taken {
		return ErrDuplicateCodigo
	}
	return nil
}

func applyFields(p *Product, f Fields) {
	if f.Name != nil {
		p.Name = *f.Name
	}
	if f.Price != nil {
		p.Price = *f.Price
	}
	if f.Title != nil {
		p.Title = *f.Title
	}
	if f.Description != nil {
		p.Description = *f.Description
	}
	if f.Available != nil {
		p.Available = *f.Available
	}
}

// retain splits stored images into those named by keep and the rest. A nil
// keep retains everything. Entries match by full URL or by file name.
func retain(stored, keep []string) (kept, dropped []string) {
	if keep == nil {
		return slices.Clone(stored), nil
	}

	names := make(map[string]struct{}, len(keep))
	for _, k := range keep {
		names[k] = struct{}{}
		names[storage.Basename(k)] = struct{}{}
	}

	kept = []string{}
	for _, img := range stored {
		_, byURL := names[img]
		_, byName := names[storage.Basename(img)]
		if byURL || byName {
			kept = append(kept, img)
			continue
		}
		dropped = append(dropped, img)
	}
	return kept, dropped
}
