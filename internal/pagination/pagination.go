// Package pagination holds the page/limit contract shared by list endpoints.
package pagination

import (
	"context"
	"net/http"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/redmonkez12/storefront-api/internal/apperror"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

var (
	ErrInvalidPage  = apperror.BadRequest("Page must be greater than 0")
	ErrInvalidLimit = apperror.BadRequest("Limit must be greater than 0")
)

// Params is a validated page request.
type Params struct {
	Page  int
	Limit int
}

// New validates page and limit. Limits above MaxLimit are clamped.
func New(page, limit int) (Params, error) {
	if page < 1 {
		return Params{}, ErrInvalidPage
	}
	if limit < 1 {
		return Params{}, ErrInvalidLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return Params{Page: page, Limit: limit}, nil
}

// FromRequest reads ?page= and ?limit= falling back to the given defaults.
func FromRequest(r *http.Request, defaultLimit int) (Params, error) {
	q := r.URL.Query()

	page, err := parseInt(q.Get("page"), DefaultPage)
	if err != nil {
		return Params{}, ErrInvalidPage
	}
	limit, err := parseInt(q.Get("limit"), defaultLimit)
	if err != nil {
		return Params{}, ErrInvalidLimit
	}

	return New(page, limit)
}

func parseInt(raw string, fallback int) (int, error) {
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}

// Offset is the number of records skipped before this page.
func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Page is a single page of results.
type Page[T any] struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Items []T `json:"-"`
}

// Fetch runs count and find concurrently and assembles the page.
func Fetch[T any](
	ctx context.Context,
	p Params,
	count func(ctx context.Context) (int, error),
	find func(ctx context.Context, offset, limit int) ([]T, error),
) (*Page[T], error) {
	var (
		total int
		items []T
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := count(gctx)
		total = n
		return err
	})
	g.Go(func() error {
		found, err := find(gctx, p.Offset(), p.Limit)
		items = found
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if items == nil {
		items = []T{}
	}

	return &Page[T]{Page: p.Page, Limit: p.Limit, Total: total, Items: items}, nil
}

// Map converts the items of a page, keeping its metadata.
func Map[T, U any](in *Page[T], fn func(T) U) *Page[U] {
	out := make([]U, len(in.Items))
	for i, item := range in.Items {
		out[i] = fn(item)
	}
	return &Page[U]{Page: in.Page, Limit: in.Limit, Total: in.Total, Items: out}
}

// Envelope renders a page with its items under the given JSON key.
func Envelope[T any](p *Page[T], key string) map[string]any {
	return map[string]any{
		"page":  p.Page,
		"limit": p.Limit,
		"total": p.Total,
		key:     p.Items,
	}
}
