// Package product manages catalog items and their images.
package product

import (
	"time"

	"github.com/google/uuid"

	"github.com/redmonkez12/storefront-api/internal/category"
)

// Owner is the resolved user reference of a product.
type Owner struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

type Product struct {
	ID          uuid.UUID         `json:"id"`
	Name        string            `json:"name"`
	Codigo      *string           `json:"codigo,omitempty"`
	Price       float64           `json:"price"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Available   bool              `json:"available"`
	Images      []string          `json:"img"`
	UserID      *uuid.UUID        `json:"-"`
	CategoryID  uuid.UUID         `json:"-"`
	Category    *category.Summary `json:"category"`
	User        *Owner            `json:"user"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

// Public is the projection served to anonymous callers. It never carries
// price or owner.
type Public struct {
	ID          uuid.UUID         `json:"id"`
	Images      []string          `json:"img"`
	Name        string            `json:"name"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Category    *category.Summary `json:"category"`
}

func (p *Product) Public() Public {
	return Public{
		ID:          p.ID,
		Images:      p.Images,
		Name:        p.Name,
		Title:       p.Title,
		Description: p.Description,
		Category:    p.Category,
	}
}

// View returns the full record for authenticated callers and the public
// projection otherwise.
func (p *Product) View(authenticated bool) any {
	if authenticated {
		return p
	}
	return p.Public()
}
