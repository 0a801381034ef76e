package category

import (
	"strings"

	"github.com/redmonkez12/storefront-api/internal/apperror"
)

var ErrMissingName = apperror.BadRequest("Missing name")

type CreateRequest struct {
	Name      string `json:"name"`
	Available bool   `json:"available"`
}

func (r *CreateRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return ErrMissingName
	}
	return nil
}

// UpdateRequest changes the name when given. Available defaults to true when
// omitted.
type UpdateRequest struct {
	Name      *string `json:"name"`
	Available *bool   `json:"available"`
}

func (r *UpdateRequest) Validate() error {
	if r.Name != nil {
		name := strings.TrimSpace(*r.Name)
		if name == "" {
			return ErrMissingName
		}
		r.Name = &name
	}
	return nil
}

func (r UpdateRequest) available() bool {
	return r.Available == nil || *r.Available
}
