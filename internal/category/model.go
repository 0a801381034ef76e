// Package category manages the product groupings of the catalog.
package category

import (
	"time"

	"github.com/google/uuid"
)

type Category struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Available bool       `json:"available"`
	UserID    *uuid.UUID `json:"user,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// Summary is the public projection of a category.
type Summary struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Available bool      `json:"available"`
}

func (c *Category) Summary() Summary {
	return Summary{ID: c.ID, Name: c.Name, Available: c.Available}
}
