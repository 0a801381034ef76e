package user

import (
	"crypto/sha256"
	"encoding/hex"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/redmonkez12/storefront-api/internal/identity"
)

// ApprovalStatus is the state of an account in the admin-approval workflow.
type ApprovalStatus string

const (
	StatusPending  ApprovalStatus = "PENDING"
	StatusApproved ApprovalStatus = "APPROVED"
	StatusRejected ApprovalStatus = "REJECTED"
)

// Valid reports whether s is one of the known statuses.
func (s ApprovalStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// ValidRoles is the closed set of assignable roles.
var ValidRoles = []string{identity.RoleAdmin, identity.RoleUser}

type User struct {
	ID             uuid.UUID      `json:"id"`
	Name           string         `json:"name"`
	Email          string         `json:"email"`
	PasswordHash   string         `json:"-"` // Never expose password hash in JSON
	Roles          []string       `json:"role"`
	Img            *string        `json:"img,omitempty"`
	RazonSocial    *string        `json:"razonSocial,omitempty"`
	CUIT           *string        `json:"cuit,omitempty"`
	Phone          *string        `json:"phone,omitempty"`
	Direccion      *string        `json:"direccion,omitempty"`
	Localidad      *string        `json:"localidad,omitempty"`
	Provincia      *string        `json:"provincia,omitempty"`
	CodigoPostal   *int           `json:"codigoPostal,omitempty"`
	EmailValidated bool           `json:"emailValidated"`
	ApprovalStatus ApprovalStatus `json:"approvalStatus"`
	ApprovalToken  *string        `json:"-"`
	ProcessedHash  *string        `json:"-"` // hash of the last consumed approval token
	ApprovedAt     *time.Time     `json:"approvedAt,omitempty"`
	ApprovedBy     *string        `json:"approvedBy,omitempty"`
	RejectedAt     *time.Time     `json:"rejectedAt,omitempty"`
	RejectedBy     *string        `json:"rejectedBy,omitempty"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

// IsAdmin reports whether the account holds the ADMIN role.
func (u *User) IsAdmin() bool {
	return slices.Contains(u.Roles, identity.RoleAdmin)
}

// Identity returns the request-context view of the account.
func (u *User) Identity() *identity.Identity {
	return &identity.Identity{
		ID:    u.ID,
		Email: u.Email,
		Name:  u.Name,
		Roles: slices.Clone(u.Roles),
	}
}

// Ref is the reduced form embedded in other resources.
type Ref struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

// TokenHash returns the hex sha256 stored in place of a consumed token.
func TokenHash(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// ApplyApproval moves u to status, stamping or clearing the approval and
// rejection pairs. A pending token is consumed and its hash kept, so a late
// click on the emailed link reports the account as already processed.
func (u *User) ApplyApproval(status ApprovalStatus, actor string, at time.Time) {
	u.ApprovalStatus = status
	switch status {
	case StatusApproved:
		u.ApprovedAt, u.ApprovedBy = &at, &actor
		u.RejectedAt, u.RejectedBy = nil, nil
		u.EmailValidated = true
		u.consumeApprovalToken()
	case StatusRejected:
		u.RejectedAt, u.RejectedBy = &at, &actor
		u.ApprovedAt, u.ApprovedBy = nil, nil
		u.consumeApprovalToken()
	case StatusPending:
		u.ApprovedAt, u.ApprovedBy = nil, nil
		u.RejectedAt, u.RejectedBy = nil, nil
	}
}

func (u *User) consumeApprovalToken() {
	if u.ApprovalToken == nil {
		return
	}
	hash := TokenHash(*u.ApprovalToken)
	u.ProcessedHash = &hash
	u.ApprovalToken = nil
}
