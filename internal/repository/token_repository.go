package repository

import (
	"context"
	"database/sql"

	"github.com/stayease/hotel-booking/internal/model"
)

// TokenRepo persists issued access tokens (single 'token_hash' column).
// Revocation is soft: the expired and revoked flags are flipped and rows
// are never deleted, keeping a full audit trail of issued sessions.
type TokenRepo struct{ DB *sql.DB }

func NewTokenRepo(db *sql.DB) *TokenRepo { return &TokenRepo{DB: db} }

// Store inserts a token hash row for a user.  New tokens start with both
// flags cleared.
func (r *TokenRepo) Store(ctx context.Context, userID uint64, tokenHash string) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO tokens (user_id, token_hash, token_type, expired, revoked) VALUES (?,?,?,0,0)",
		userID, tokenHash, model.TokenTypeBearer)
	return err
}

// FindByHash loads a token record by its hash.  sql.ErrNoRows is returned
// when no such token was ever issued.
func (r *TokenRepo) FindByHash(ctx context.Context, tokenHash string) (model.Token, error) {
	var t model.Token
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, user_id, token_hash, token_type, expired, revoked, created_at FROM tokens WHERE token_hash=? LIMIT 1",
		tokenHash).Scan(&t.ID, &t.UserID, &t.TokenHash, &t.TokenType, &t.Expired, &t.Revoked, &t.CreatedAt)
	return t, err
}

// IsLive reports whether a persisted token record exists and has neither
// flag set.  An unknown hash is simply not live, not an error.
func (r *TokenRepo) IsLive(ctx context.Context, tokenHash string) (bool, error) {
	t, err := r.FindByHash(ctx, tokenHash)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, err
	}
	return t.Usable(), nil
}

// RevokeByHash flips both flags on a single token.
func (r *TokenRepo) RevokeByHash(ctx context.Context, tokenHash string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE tokens SET expired=1, revoked=1 WHERE token_hash=? AND (expired=0 OR revoked=0)",
		tokenHash)
	return err
}

// RevokeAllForUser flips both flags on every live token a user holds.
// Called on login and refresh to enforce the single active session
// policy.
func (r *TokenRepo) RevokeAllForUser(ctx context.Context, userID uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE tokens SET expired=1, revoked=1 WHERE user_id=? AND (expired=0 OR revoked=0)",
		userID)
	return err
}
