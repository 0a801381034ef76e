package product

import (
	"encoding/json"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/redmonkez12/storefront-api/internal/apperror"
)

var (
	ErrMissingName     = apperror.BadRequest("Missing name")
	ErrMissingPrice    = apperror.BadRequest("Missing price")
	ErrInvalidPrice    = apperror.BadRequest("Price must be a number greater than or equal to 0")
	ErrMissingTitle    = apperror.BadRequest("Missing title")
	ErrMissingCategory = apperror.BadRequest("Missing category")
	ErrInvalidCategory = apperror.BadRequest("Invalid category id")
	ErrInvalidFlag     = apperror.BadRequest("Available must be a boolean")
)

// Code is a product code. Clients send it as a JSON string or number.
type Code string

func (c *Code) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*c = Code(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*c = Code(n.String())
	return nil
}

// Fields are the scalar product attributes shared by create and update. Nil
// means not provided.
type Fields struct {
	Name        *string  `json:"name"`
	Codigo      *Code    `json:"codigo"`
	Price       *float64 `json:"price"`
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Available   *bool    `json:"available"`
	Category    *string  `json:"category"`

	categoryID uuid.UUID
}

func (f *Fields) validate() error {
	trim(&f.Name)
	trim(&f.Title)
	if f.Codigo != nil {
		code := Code(strings.TrimSpace(string(*f.Codigo)))
		f.Codigo = &code
	}
	if f.Price != nil && !validPrice(*f.Price) {
		return ErrInvalidPrice
	}
	if f.Category != nil {
		id, err := uuid.Parse(strings.TrimSpace(*f.Category))
		if err != nil {
			return ErrInvalidCategory
		}
		f.categoryID = id
	}
	return nil
}

// codigo returns the normalized code, nil when absent or blank.
func (f *Fields) codigo() *string {
	if f.Codigo == nil || *f.Codigo == "" {
		return nil
	}
	s := string(*f.Codigo)
	return &s
}

// CreateRequest is the body of a product creation.
type CreateRequest struct {
	Fields
}

func (r *CreateRequest) Validate() error {
	if err := r.validate(); err != nil {
		return err
	}
	switch {
	case r.Name == nil || *r.Name == "":
		return ErrMissingName
	case r.Price == nil:
		return ErrMissingPrice
	case r.Title == nil || *r.Title == "":
		return ErrMissingTitle
	case r.Category == nil:
		return ErrMissingCategory
	}
	return nil
}

// UpdateRequest is a partial update. RetainImages lists the stored images to
// keep, by URL or file name. A nil slice keeps all of them.
type UpdateRequest struct {
	Fields
	RetainImages []string `json:"retainImages"`
}

func (r *UpdateRequest) Validate() error {
	if err := r.validate(); err != nil {
		return err
	}
	if r.Name != nil && *r.Name == "" {
		return ErrMissingName
	}
	if r.Title != nil && *r.Title == "" {
		return ErrMissingTitle
	}
	return nil
}

// FieldsFromForm reads the scalar fields of a multipart or urlencoded form.
func FieldsFromForm(form url.Values) (Fields, error) {
	var f Fields
	str := func(key string) *string {
		if !form.Has(key) {
			return nil
		}
		v := form.Get(key)
		return &v
	}

	f.Name = str("name")
	f.Title = str("title")
	f.Description = str("description")
	f.Category = str("category")
	if v := str("codigo"); v != nil {
		code := Code(*v)
		f.Codigo = &code
	}

	if v := str("price"); v != nil && strings.TrimSpace(*v) != "" {
		price, err := strconv.ParseFloat(strings.TrimSpace(*v), 64)
		if err != nil {
			return Fields{}, ErrInvalidPrice
		}
		f.Price = &price
	}

	if v := str("available"); v != nil && *v != "" {
		available, err := parseFlag(*v)
		if err != nil {
			return Fields{}, err
		}
		f.Available = &available
	}

	return f, nil
}

// RetainFromForm returns the repeated retainImages values, or nil when the
// field was not sent. A single value holding a JSON array is accepted too.
func RetainFromForm(form url.Values) []string {
	values, ok := form["retainImages"]
	if !ok {
		return nil
	}

	retain := []string{}
	for _, v := range values {
		v = strings.TrimSpace(v)
		if strings.HasPrefix(v, "[") {
			var list []string
			if json.Unmarshal([]byte(v), &list) == nil {
				retain = append(retain, list...)
				continue
			}
		}
		if v != "" {
			retain = append(retain, v)
		}
	}
	return retain
}

func parseFlag(v string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "on", "yes":
		return true, nil
	case "off", "no":
		return false, nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return false, ErrInvalidFlag
	}
	return b, nil
}

func trim(s **string) {
	if *s == nil {
		return
	}
	v := strings.TrimSpace(**s)
	*s = &v
}

// validPrice rejects negative and non-finite values. NaN and Inf parse from
// form input but cannot be encoded back to JSON.
func validPrice(p float64) bool {
	return p >= 0 && !math.IsInf(p, 0)
}
