package category

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/redmonkez12/storefront-api/internal/apperror"
	"github.com/redmonkez12/storefront-api/internal/database"
)

var (
	ErrNotFound      = apperror.NotFound("Category not found")
	ErrDuplicateName = apperror.Conflict("category already exists")
)

type Repository struct {
	db *bun.DB
}

func NewRepository(db *bun.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, c *Category) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	now := time.Now()
	c.CreatedAt, c.UpdatedAt = now, now

	row := toRow(c)
	if _, err := r.db.NewInsert().Model(row).Returning("*").Exec(ctx); err != nil {
		if database.IsUniqueViolation(err, database.CategoriesNameKey) {
			return ErrDuplicateName
		}
		return fmt.Errorf("failed to create category: %w", err)
	}

	*c = *fromRow(row)
	return nil
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Category, error) {
	return r.getOne(ctx, "id = ?", id)
}

func (r *Repository) GetByName(ctx context.Context, name string) (*Category, error) {
	return r.getOne(ctx, "name = ?", name)
}

func (r *Repository) getOne(ctx context.Context, query string, arg any) (*Category, error) {
	row := new(database.Category)
	err := r.db.NewSelect().Model(row).Where(query, arg).Limit(1).Scan(ctx)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return fromRow(row), nil
}

// Exists reports whether a category with id is stored.
func (r *Repository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	ok, err := r.db.NewSelect().Model((*database.Category)(nil)).Where("id = ?", id).Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check category: %w", err)
	}
	return ok, nil
}

func (r *Repository) Update(ctx context.Context, c *Category) error {
	row := toRow(c)
	row.UpdatedAt = time.Now()

	res, err := r.db.NewUpdate().
		Model(row).
		Column("name", "available", "user_id", "updated_at").
		WherePK().
		Returning("*").
		Exec(ctx)
	if err != nil {
		if database.IsUniqueViolation(err, database.CategoriesNameKey) {
			return ErrDuplicateName
		}
		return fmt.Errorf("failed to update category: %w", err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	*c = *fromRow(row)
	return nil
}

func (r *Repository) Count(ctx context.Context) (int, error) {
	n, err := r.db.NewSelect().Model((*database.Category)(nil)).Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count categories: %w", err)
	}
	return n, nil
}

func (r *Repository) List(ctx context.Context, offset, limit int) ([]*Category, error) {
	var rows []database.Category
	err := r.db.NewSelect().
		Model(&rows).
		OrderExpr("created_at ASC, id ASC").
		Offset(offset).
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	out := make([]*Category, len(rows))
	for i := range rows {
		out[i] = fromRow(&rows[i])
	}
	return out, nil
}

func fromRow(row *database.Category) *Category {
	return &Category{
		ID:        row.ID,
		Name:      row.Name,
		Available: row.Available,
		UserID:    row.UserID,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}

func toRow(c *Category) *database.Category {
	return &database.Category{
		ID:        c.ID,
		Name:      c.Name,
		Available: c.Available,
		UserID:    c.UserID,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
