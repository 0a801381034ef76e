package database

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is the persisted form of an account.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID                 uuid.UUID  `bun:"id,pk,type:uuid,default:gen_random_uuid()"`
	Name               string     `bun:"name,notnull"`
	Email              string     `bun:"email,notnull,unique"`
	PasswordHash       string     `bun:"password,notnull"`
	Roles              []string   `bun:"roles,array,notnull,default:'{USER}'"`
	Img                *string    `bun:"img"`
	RazonSocial        *string    `bun:"razon_social"`
	CUIT               *string    `bun:"cuit"`
	Phone              *string    `bun:"phone"`
	Direccion          *string    `bun:"direccion"`
	Localidad          *string    `bun:"localidad"`
	Provincia          *string    `bun:"provincia"`
	CodigoPostal       *int       `bun:"codigo_postal"`
	EmailValidated     bool       `bun:"email_validated,notnull,default:false"`
	ApprovalStatus     string     `bun:"approval_status,notnull,default:'PENDING'"`
	ApprovalToken      *string    `bun:"approval_token,unique"`
	ProcessedTokenHash *string    `bun:"processed_token_hash"`
	ApprovedAt         *time.Time `bun:"approved_at"`
	ApprovedBy         *string    `bun:"approved_by"`
	RejectedAt         *time.Time `bun:"rejected_at"`
	RejectedBy         *string    `bun:"rejected_by"`
	CreatedAt          time.Time  `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt          time.Time  `bun:"updated_at,notnull,default:current_timestamp"`
}

// Category is the persisted form of a product grouping.
type Category struct {
	bun.BaseModel `bun:"table:categories,alias:c"`

	ID        uuid.UUID  `bun:"id,pk,type:uuid,default:gen_random_uuid()"`
	Name      string     `bun:"name,notnull,unique"`
	Available bool       `bun:"available,notnull,default:false"`
	UserID    *uuid.UUID `bun:"user_id,type:uuid"`
	CreatedAt time.Time  `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt time.Time  `bun:"updated_at,notnull,default:current_timestamp"`

	User *User `bun:"rel:belongs-to,join:user_id=id"`
}

// Product is the persisted form of a catalog item.
type Product struct {
	bun.BaseModel `bun:"table:products,alias:p"`

	ID          uuid.UUID  `bun:"id,pk,type:uuid,default:gen_random_uuid()"`
	Name        string     `bun:"name,notnull"`
	Codigo      *string    `bun:"codigo,unique"`
	Price       float64    `bun:"price,notnull,default:0"`
	Title       string     `bun:"title,notnull,default:''"`
	Description string     `bun:"description,notnull,default:''"`
	Available   bool       `bun:"available,notnull,default:false"`
	Images      []string   `bun:"img,array,notnull,default:'{}'"`
	UserID      *uuid.UUID `bun:"user_id,type:uuid"`
	CategoryID  uuid.UUID  `bun:"category_id,type:uuid,notnull"`
	CreatedAt   time.Time  `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt   time.Time  `bun:"updated_at,notnull,default:current_timestamp"`

	User     *User     `bun:"rel:belongs-to,join:user_id=id"`
	Category *Category `bun:"rel:belongs-to,join:category_id=id"`
}
