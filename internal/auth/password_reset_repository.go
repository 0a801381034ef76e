package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	passwordResetTokenTTL = 1 * time.Hour

	resetTokenPrefix = "password_reset:"
	resetUserPrefix  = "password_reset:user:"
)

// PasswordResetRepository keeps single-use reset tokens in Redis. Only token
// hashes are stored, and each user holds at most one live token.
type PasswordResetRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewPasswordResetRepository(client *redis.Client) *PasswordResetRepository {
	return &PasswordResetRepository{
		client: client,
		ttl:    passwordResetTokenTTL,
	}
}

// Save stores token for userID and invalidates the token issued before it.
func (r *PasswordResetRepository) Save(ctx context.Context, userID uuid.UUID, token string) error {
	hash := hashToken(token)

	previous, err := r.client.SetArgs(ctx, resetUserPrefix+userID.String(), hash, redis.SetArgs{
		TTL: r.ttl,
		Get: true,
	}).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("failed to index password reset token: %w", err)
	}

	pipe := r.client.TxPipeline()
	if previous != "" && previous != hash {
		pipe.Del(ctx, resetTokenPrefix+previous)
	}
	pipe.Set(ctx, resetTokenPrefix+hash, userID.String(), r.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to store password reset token: %w", err)
	}

	return nil
}

// Consume returns the owner of token and deletes it in the same step, so a
// token can be redeemed once.
func (r *PasswordResetRepository) Consume(ctx context.Context, token string) (uuid.UUID, error) {
	raw, err := r.client.GetDel(ctx, resetTokenPrefix+hashToken(token)).Result()
	if errors.Is(err, redis.Nil) {
		return uuid.Nil, ErrPasswordResetTokenNotFound
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to consume password reset token: %w", err)
	}

	// The user index is left to expire. Save tolerates a stale entry.
	userID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to parse user ID: %w", err)
	}

	return userID, nil
}
