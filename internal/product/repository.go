package product

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/redmonkez12/storefront-api/internal/category"
	"github.com/redmonkez12/storefront-api/internal/database"
)

type Repository struct {
	db *bun.DB
}

func NewRepository(db *bun.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, p *Product) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	now := time.Now()
	p.CreatedAt, p.UpdatedAt = now, now

	row := toRow(p)
	if _, err := r.db.NewInsert().Model(row).Returning("*").Exec(ctx); err != nil {
		if database.IsUniqueViolation(err, database.ProductsCodigoKey) {
			return ErrDuplicateCodigo
		}
		return fmt.Errorf("failed to create product: %w", err)
	}

	p.CreatedAt, p.UpdatedAt = row.CreatedAt, row.UpdatedAt
	return nil
}

// GetByID loads a product with its category and owner resolved.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Product, error) {
	row := new(database.Product)
	err := r.db.NewSelect().
		Model(row).
		Relation("Category").
		Relation("User").
		Where("p.id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return fromRow(row), nil
}

// CodigoTaken reports whether another product than self already uses codigo.
func (r *Repository) CodigoTaken(ctx context.Context, codigo string, self uuid.UUID) (bool, error) {
	q := r.db.NewSelect().
		Model((*database.Product)(nil)).
		Where("codigo = ?", codigo)
	if self != uuid.Nil {
		q = q.Where("id <> ?", self)
	}
	taken, err := q.Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check product code: %w", err)
	}
	return taken, nil
}

func (r *Repository) Update(ctx context.Context, p *Product) error {
	row := toRow(p)
	row.UpdatedAt = time.Now()

	res, err := r.db.NewUpdate().
		Model(row).
		Column("name", "codigo", "price", "title", "description", "available", "img", "user_id", "category_id", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		if database.IsUniqueViolation(err, database.ProductsCodigoKey) {
			return ErrDuplicateCodigo
		}
		return fmt.Errorf("failed to update product: %w", err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	p.UpdatedAt = row.UpdatedAt
	return nil
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.NewDelete().
		Model((*database.Product)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) Count(ctx context.Context) (int, error) {
	n, err := r.db.NewSelect().Model((*database.Product)(nil)).Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return n, nil
}

// List returns a window of products with references resolved.
func (r *Repository) List(ctx context.Context, offset, limit int) ([]*Product, error) {
	var rows []database.Product
	err := r.db.NewSelect().
		Model(&rows).
		Relation("Category").
		Relation("User").
		OrderExpr("p.created_at ASC, p.id ASC").
		Offset(offset).
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	out := make([]*Product, len(rows))
	for i := range rows {
		out[i] = fromRow(&rows[i])
	}
	return out, nil
}

func fromRow(row *database.Product) *Product {
	p := &Product{
		ID:          row.ID,
		Name:        row.Name,
		Codigo:      row.Codigo,
		Price:       row.Price,
		Title:       row.Title,
		Description: row.Description,
		Available:   row.Available,
		Images:      row.Images,
		UserID:      row.UserID,
		CategoryID:  row.CategoryID,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
	if p.Images == nil {
		p.Images = []string{}
	}
	if row.Category != nil {
		p.Category = &category.Summary{
			ID:        row.Category.ID,
			Name:      row.Category.Name,
			Available: row.Category.Available,
		}
	}
	if row.User != nil {
		p.User = &Owner{ID: row.User.ID, Name: row.User.Name, Email: row.User.Email}
	}
	return p
}

func toRow(p *Product) *database.Product {
	images := p.Images
	if images == nil {
		images = []string{}
	}
	return &database.Product{
		ID:          p.ID,
		Name:        p.Name,
		Codigo:      p.Codigo,
		Price:       p.Price,
		Title:       p.Title,
		Description: p.Description,
		Available:   p.Available,
		Images:      images,
		UserID:      p.UserID,
		CategoryID:  p.CategoryID,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
