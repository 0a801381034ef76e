// Package images browses and deletes objects in the public bucket.
package images

import (
	"context"
	"strings"

	"github.com/redmonkez12/storefront-api/internal/apperror"
	"github.com/redmonkez12/storefront-api/internal/logging"
	"github.com/redmonkez12/storefront-api/internal/pagination"
	"github.com/redmonkez12/storefront-api/internal/storage"
)

// Default page sizes for the bucket-wide and per-folder listings.
const (
	DefaultLimit       = 50
	DefaultFolderLimit = 20
)

var ErrMissingKey = apperror.BadRequest("Image key is required")

// PageInfo describes where a listing window sits in the full result.
type PageInfo struct {
	CurrentPage   int  `json:"currentPage"`
	TotalImages   int  `json:"totalImages"`
	ImagesPerPage int  `json:"imagesPerPage"`
	TotalPages    int  `json:"totalPages"`
	HasNextPage   bool `json:"hasNextPage"`
	HasPrevPage   bool `json:"hasPrevPage"`
}

// Listing is one window of objects.
type Listing struct {
	Type       string           `json:"type,omitempty"`
	Images     []storage.Object `json:"images"`
	Pagination PageInfo         `json:"pagination"`
}

type Service struct {
	store  storage.ObjectStorage
	logger *logging.Logger
}

func NewService(store storage.ObjectStorage, logger *logging.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// List returns the p-th window of objects under prefix.
func (s *Service) List(ctx context.Context, prefix string, p pagination.Params) (*Listing, error) {
	objects, err := s.store.List(ctx, prefix)
	if err != nil {
		return nil, err
	}
	return paginate(objects, p), nil
}

// ListFolder lists the objects stored under "<folder>/".
func (s *Service) ListFolder(ctx context.Context, folder string, p pagination.Params) (*Listing, error) {
	listing, err := s.List(ctx, strings.Trim(folder, "/")+"/", p)
	if err != nil {
		return nil, err
	}
	listing.Type = folder
	return listing, nil
}

func (s *Service) Delete(ctx context.Context, key string) error {
	key = strings.TrimPrefix(key, "/")
	if key == "" {
		return ErrMissingKey
	}
	if err := s.store.Delete(ctx, key); err != nil {
		return err
	}
	s.logger.Info("image deleted", "key", key)
	return nil
}

func paginate(objects []storage.Object, p pagination.Params) *Listing {
	total := len(objects)
	start := min(p.Offset(), total)
	end := min(start+p.Limit, total)

	window := objects[start:end]
	if window == nil {
		window = []storage.Object{}
	}

	return &Listing{
		Images: window,
		Pagination: PageInfo{
			CurrentPage:   p.Page,
			TotalImages:   total,
			ImagesPerPage: p.Limit,
			TotalPages:    (total + p.Limit - 1) / p.Limit,
			HasNextPage:   end < total,
			HasPrevPage:   p.Page > 1,
		},
	}
}
