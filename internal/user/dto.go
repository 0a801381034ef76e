package user

import (
	"slices"
	"strings"

	"github.com/redmonkez12/storefront-api/internal/apperror"
	"github.com/redmonkez12/storefront-api/internal/identity"
	"github.com/redmonkez12/storefront-api/internal/validate"
)

// MinPasswordLength is the shortest password accepted on any write path.
const MinPasswordLength = 6

// Profile holds the optional business and contact fields of an account.
type Profile struct {
	Img          *string `json:"img,omitempty"`
	RazonSocial  *string `json:"razonSocial,omitempty"`
	CUIT         *string `json:"cuit,omitempty"`
	Phone        *string `json:"phone,omitempty"`
	Direccion    *string `json:"direccion,omitempty"`
	Localidad    *string `json:"localidad,omitempty"`
	Provincia    *string `json:"provincia,omitempty"`
	CodigoPostal *int    `json:"codigoPostal,omitempty"`
}

// Validate checks the optional fields that carry a format.
func (p Profile) Validate() error {
	if p.CUIT != nil && *p.CUIT != "" && !validate.Digits(*p.CUIT, 11) {
		return apperror.BadRequest("CUIT must have 11 digits")
	}
	if p.CodigoPostal != nil && *p.CodigoPostal <= 0 {
		return apperror.BadRequest("Codigo postal must be greater than 0")
	}
	return nil
}

// ApplyTo copies the fields that are set onto u.
func (p Profile) ApplyTo(u *User) {
	if p.Img != nil {
		u.Img = p.Img
	}
	if p.RazonSocial != nil {
		u.RazonSocial = p.RazonSocial
	}
	if p.CUIT != nil {
		u.CUIT = p.CUIT
	}
	if p.Phone != nil {
		u.Phone = p.Phone
	}
	if p.Direccion != nil {
		u.Direccion = p.Direccion
	}
	if p.Localidad != nil {
		u.Localidad = p.Localidad
	}
	if p.Provincia != nil {
		u.Provincia = p.Provincia
	}
	if p.CodigoPostal != nil {
		u.CodigoPostal = p.CodigoPostal
	}
}

// NewAccountRequest is the body shared by self registration and admin
// creation.
type NewAccountRequest struct {
	Name     string   `json:"name"`
	Email    string   `json:"email"`
	Password string   `json:"password"`
	Roles    []string `json:"role,omitempty"`
	Profile
}

// Validate checks the request and normalizes the email in place.
func (r *NewAccountRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return apperror.BadRequest("Missing name")
	}
	if validate.Blank(r.Email) {
		return apperror.BadRequest("Missing email")
	}
	if !validate.Email(r.Email) {
		return apperror.BadRequest("Email is not valid")
	}
	r.Email = validate.NormalizeEmail(r.Email)
	if r.Password == "" {
		return apperror.BadRequest("Missing password")
	}
	if len(r.Password) < MinPasswordLength {
		return apperror.BadRequest("Password too short")
	}
	if err := ValidateRoles(r.Roles); err != nil {
		return err
	}
	return r.Profile.Validate()
}

// UpdateRequest is a partial update issued by an administrator.
type UpdateRequest struct {
	Name     *string  `json:"name,omitempty"`
	Email    *string  `json:"email,omitempty"`
	Password *string  `json:"password,omitempty"`
	Roles    []string `json:"role,omitempty"`
	Profile
}

func (r *UpdateRequest) Validate() error {
	if r.Name != nil {
		trimmed := strings.TrimSpace(*r.Name)
		if trimmed == "" {
			return apperror.BadRequest("Missing name")
		}
		r.Name = &trimmed
	}
	if r.Email != nil {
		if !validate.Email(*r.Email) {
			return apperror.BadRequest("Email is not valid")
		}
		normalized := validate.NormalizeEmail(*r.Email)
		r.Email = &normalized
	}
	if r.Password != nil && len(*r.Password) < MinPasswordLength {
		return apperror.BadRequest("Password too short")
	}
	if err := ValidateRoles(r.Roles); err != nil {
		return err
	}
	return r.Profile.Validate()
}

// ApprovalRequest sets the approval status directly.
type ApprovalRequest struct {
	ApprovalStatus ApprovalStatus `json:"approvalStatus"`
}

func (r ApprovalRequest) Validate() error {
	if !r.ApprovalStatus.Valid() {
		return apperror.BadRequest("Invalid approval status, valid ones PENDING, APPROVED, REJECTED")
	}
	return nil
}

// ValidateRoles rejects roles outside ValidRoles.
func ValidateRoles(roles []string) error {
	for _, r := range roles {
		if !slices.Contains(ValidRoles, r) {
			return apperror.BadRequest("Invalid role: " + r + ", valid ones " + strings.Join(ValidRoles, ", "))
		}
	}
	return nil
}

// NormalizeRoles deduplicates roles and falls back to USER when empty.
func NormalizeRoles(roles []string) []string {
	if len(roles) == 0 {
		return []string{identity.RoleUser}
	}
	out := slices.Clone(roles)
	slices.Sort(out)
	return slices.Compact(out)
}
