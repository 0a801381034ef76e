package database

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

// Constraint names surfaced by IsUniqueViolation checks.
const (
	UsersEmailKey     = "users_email_key"
	CategoriesNameKey = "categories_name_key"
	ProductsCodigoKey = "products_codigo_key"
)

// Migrate creates the schema if it does not exist yet. Tables are created in
// dependency order inside a single transaction.
func Migrate(ctx context.Context, db *bun.DB) error {
	return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.ExecContext(ctx, `CREATE EXTENSION IF NOT EXISTS pgcrypto`); err != nil {
			return fmt.Errorf("enable pgcrypto: %w", err)
		}

		if _, err := tx.NewCreateTable().
			Model((*User)(nil)).
			IfNotExists().
			Exec(ctx); err != nil {
			return fmt.Errorf("create users: %w", err)
		}

		if _, err := tx.NewCreateTable().
			Model((*Category)(nil)).
			IfNotExists().
			ForeignKey(`("user_id") REFERENCES "users" ("id") ON DELETE SET NULL`).
			Exec(ctx); err != nil {
			return fmt.Errorf("create categories: %w", err)
		}

		if _, err := tx.NewCreateTable().
			Model((*Product)(nil)).
			IfNotExists().
			ForeignKey(`("user_id") REFERENCES "users" ("id") ON DELETE SET NULL`).
			ForeignKey(`("category_id") REFERENCES "categories" ("id") ON DELETE RESTRICT`).
			Exec(ctx); err != nil {
			return fmt.Errorf("create products: %w", err)
		}

		indexes := []struct {
			model any
			name  string
			cols  []string
		}{
			{(*User)(nil), "users_approval_status_idx", []string{"approval_status"}},
			{(*Product)(nil), "products_category_id_idx", []string{"category_id"}},
		}
		for _, idx := range indexes {
			if _, err := tx.NewCreateIndex().
				Model(idx.model).
				Index(idx.name).
				Column(idx.cols...).
				IfNotExists().
				Exec(ctx); err != nil {
				return fmt.Errorf("create index %s: %w", idx.name, err)
			}
		}

		return nil
	})
}
