package user

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/redmonkez12/storefront-api/internal/apperror"
	"github.com/redmonkez12/storefront-api/internal/database"
)

var (
	ErrNotFound       = apperror.NotFound("User not found")
	ErrDuplicateEmail = apperror.Conflict("Email already exists")
	// ErrNotPending is returned when a conditional approval update matched no
	// pending account.
	ErrNotPending = apperror.BadRequest("User already processed")
)

// Decision is a terminal approval outcome applied by ResolveApproval.
type Decision struct {
	Status    ApprovalStatus
	Actor     string
	At        time.Time
	TokenHash string
}

// Repository handles user data persistence
type Repository struct {
	db *bun.DB
}

func NewRepository(db *bun.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts u and fills in generated columns.
func (r *Repository) Create(ctx context.Context, u *User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	now := time.Now()
	u.CreatedAt, u.UpdatedAt = now, now

	dbUser := mapModelToDBUser(u)

	_, err := r.db.NewInsert().
		Model(dbUser).
		Returning("*").
		Exec(ctx)
	if err != nil {
		if database.IsUniqueViolation(err, database.UsersEmailKey) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	*u = *mapDBUserToModel(dbUser)
	return nil
}

// GetByID retrieves a user by ID
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return r.getOne(ctx, "id = ?", id)
}

// GetByEmail retrieves a user by email, case-insensitively.
func (r *Repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	return r.getOne(ctx, "lower(email) = lower(?)", email)
}

// GetByApprovalToken retrieves the account holding a pending approval token.
func (r *Repository) GetByApprovalToken(ctx context.Context, token string) (*User, error) {
	return r.getOne(ctx, "approval_token = ?", token)
}

// IsProcessedToken reports whether tokenHash belongs to an approval token
// that was already consumed.
func (r *Repository) IsProcessedToken(ctx context.Context, tokenHash string) (bool, error) {
	exists, err := r.db.NewSelect().
		Model((*database.User)(nil)).
		Where("processed_token_hash = ?", tokenHash).
		Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check processed token: %w", err)
	}
	return exists, nil
}

func (r *Repository) getOne(ctx context.Context, query string, arg any) (*User, error) {
	dbUser := new(database.User)
	err := r.db.NewSelect().
		Model(dbUser).
		Where(query, arg).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return mapDBUserToModel(dbUser), nil
}

// ResolveApproval applies d to a still-pending account in a single
// conditional update. ErrNotPending means another request got there first.
func (r *Repository) ResolveApproval(ctx context.Context, id uuid.UUID, d Decision) (*User, error) {
	dbUser := new(database.User)

	q := r.db.NewUpdate().
		Model(dbUser).
		Set("approval_status = ?", string(d.Status)).
		Set("approval_token = NULL").
		Set("processed_token_hash = ?", d.TokenHash).
		Set("updated_at = ?", d.At)

	switch d.Status {
	case StatusApproved:
		q = q.Set("approved_at = ?", d.At).
			Set("approved_by = ?", d.Actor).
			Set("email_validated = TRUE")
	case StatusRejected:
		q = q.Set("rejected_at = ?", d.At).
			Set("rejected_by = ?", d.Actor)
	default:
		return nil, fmt.Errorf("unsupported decision %q", d.Status)
	}

	res, err := q.
		Where("id = ?", id).
		Where("approval_status = ?", string(StatusPending)).
		Returning("*").
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve approval: %w", err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, ErrNotPending
	}

	return mapDBUserToModel(dbUser), nil
}

// Update writes every mutable column of u.
func (r *Repository) Update(ctx context.Context, u *User) error {
	dbUser := mapModelToDBUser(u)
	dbUser.UpdatedAt = time.Now()

	res, err := r.db.NewUpdate().
		Model(dbUser).
		ExcludeColumn("id", "created_at").
		WherePK().
		Returning("*").
		Exec(ctx)
	if err != nil {
		if database.IsUniqueViolation(err, database.UsersEmailKey) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("failed to update user: %w", err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	*u = *mapDBUserToModel(dbUser)
	return nil
}

// UpdatePassword updates a user's password hash
func (r *Repository) UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error {
	result, err := r.db.NewUpdate().
		Model((*database.User)(nil)).
		Set("password = ?", passwordHash).
		Set("updated_at = NOW()").
		Where("id = ?", userID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// Delete removes a user permanently.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.NewDelete().
		Model((*database.User)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
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

// Count returns the number of accounts.
func (r *Repository) Count(ctx context.Context) (int, error) {
	n, err := r.db.NewSelect().Model((*database.User)(nil)).Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return n, nil
}

// List returns a window of accounts ordered by creation time.
func (r *Repository) List(ctx context.Context, offset, limit int) ([]*User, error) {
	var rows []database.User
	err := r.db.NewSelect().
		Model(&rows).
		OrderExpr("created_at ASC, id ASC").
		Offset(offset).
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	users := make([]*User, len(rows))
	for i := range rows {
		users[i] = mapDBUserToModel(&rows[i])
	}
	return users, nil
}

// mapDBUserToModel converts database model to domain model
func mapDBUserToModel(dbu *database.User) *User {
	return &User{
		ID:             dbu.ID,
		Name:           dbu.Name,
		Email:          dbu.Email,
		PasswordHash:   dbu.PasswordHash,
		Roles:          dbu.Roles,
		Img:            dbu.Img,
		RazonSocial:    dbu.RazonSocial,
		CUIT:           dbu.CUIT,
		Phone:          dbu.Phone,
		Direccion:      dbu.Direccion,
		Localidad:      dbu.Localidad,
		Provincia:      dbu.Provincia,
		CodigoPostal:   dbu.CodigoPostal,
		EmailValidated: dbu.EmailValidated,
		ApprovalStatus: ApprovalStatus(dbu.ApprovalStatus),
		ApprovalToken:  dbu.ApprovalToken,
		ProcessedHash:  dbu.ProcessedTokenHash,
		ApprovedAt:     dbu.ApprovedAt,
		ApprovedBy:     dbu.ApprovedBy,
		RejectedAt:     dbu.RejectedAt,
		RejectedBy:     dbu.RejectedBy,
		CreatedAt:      dbu.CreatedAt,
		UpdatedAt:      dbu.UpdatedAt,
	}
}

func mapModelToDBUser(u *User) *database.User {
	dbu := &database.User{
		ID:             u.ID,
		Name:           u.Name,
		Email:          u.Email,
		PasswordHash:   u.PasswordHash,
		Roles:          u.Roles,
		Img:            u.Img,
		RazonSocial:    u.RazonSocial,
		CUIT:           u.CUIT,
		Phone:          u.Phone,
		Direccion:      u.Direccion,
		Localidad:      u.Localidad,
		Provincia:      u.Provincia,
		CodigoPostal:   u.CodigoPostal,
		EmailValidated: u.EmailValidated,
		ApprovalStatus: string(u.ApprovalStatus),
		ApprovalToken:  u.ApprovalToken,
		ApprovedAt:     u.ApprovedAt,
		ApprovedBy:     u.ApprovedBy,
		RejectedAt:     u.RejectedAt,
		RejectedBy:     u.RejectedBy,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
	dbu.ProcessedTokenHash = u.ProcessedHash
	return dbu
}
