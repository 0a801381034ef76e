// Package contact forwards storefront orders and contact form submissions to
// the operations inboxes.
package contact

import (
	"strings"

	"github.com/redmonkez12/storefront-api/internal/apperror"
	"github.com/redmonkez12/storefront-api/internal/validate"
)

type OrderItem struct {
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Description string  `json:"description,omitempty"`
}

type OrderRequest struct {
	Name    string      `json:"name"`
	Surname string      `json:"surname,omitempty"`
	Phone   string      `json:"phone"`
	Items   []OrderItem `json:"items"`
	Total   *float64    `json:"total"`
}

func (r *OrderRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Surname = strings.TrimSpace(r.Surname)
	r.Phone = strings.TrimSpace(r.Phone)

	switch {
	case r.Name == "":
		return apperror.BadRequest("Missing name")
	case r.Phone == "":
		return apperror.BadRequest("Missing phone")
	case len(r.Items) == 0:
		return apperror.BadRequest("Missing items")
	case r.Total == nil:
		return apperror.BadRequest("Missing total")
	case *r.Total < 0:
		return apperror.BadRequest("Total must be greater than or equal to 0")
	}

	for _, item := range r.Items {
		if strings.TrimSpace(item.Title) == "" {
			return apperror.BadRequest("Every item needs a title")
		}
	}
	return nil
}

type Request struct {
	Name      string   `json:"name"`
	Email     string   `json:"email"`
	Localidad string   `json:"localidad"`
	Phone     string   `json:"phone"`
	Empresa   string   `json:"empresa"`
	Actividad string   `json:"actividad"`
	Cotizar   []string `json:"cotizar"`
	Message   string   `json:"message"`
}

func (r *Request) Validate() error {
	required := []struct {
		value *string
		field string
	}{
		{&r.Name, "name"},
		{&r.Email, "email"},
		{&r.Localidad, "localidad"},
		{&r.Phone, "phone"},
		{&r.Empresa, "empresa"},
		{&r.Actividad, "actividad"},
	}
	for _, f := range required {
		*f.value = strings.TrimSpace(*f.value)
		if *f.value == "" {
			return apperror.BadRequest("Missing " + f.field)
		}
	}

	if !validate.Email(r.Email) {
		return apperror.BadRequest("Email is not valid")
	}

	cotizar := r.Cotizar[:0]
	for _, c := range r.Cotizar {
		if c = strings.TrimSpace(c); c != "" {
			cotizar = append(cotizar, c)
		}
	}
	r.Cotizar = cotizar
	if len(r.Cotizar) == 0 {
		return apperror.BadRequest("Missing cotizar")
	}

	r.Message = strings.TrimSpace(r.Message)
	if r.Message == "" {
		return apperror.BadRequest("Missing message")
	}
	return nil
}
