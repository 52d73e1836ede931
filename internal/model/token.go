package model

import "time"

// TokenTypeBearer is the only token type issued by the service.
const TokenTypeBearer = "BEARER"

// Token models an entry in the `tokens` table.  Each row tracks one
// issued access token.  The plain JWT is not stored; only its SHA-256
// hash.  Revocation is soft: the Expired and Revoked flags are flipped
// on logout and session invalidation, and rows are never deleted, so the
// full issuance history is retained.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – owner of the token.
//  TokenHash – SHA-256 hex digest of the JWT string.
//  TokenType – always "BEARER".
//  Expired   – set when the session is invalidated.
//  Revoked   – set when the token is explicitly revoked.
//  CreatedAt – timestamp of issuance.
type Token struct {
	ID        uint64    // tokens.id
	UserID    uint64    // tokens.user_id
	TokenHash string    // tokens.token_hash
	TokenType string    // tokens.token_type
	Expired   bool      // tokens.expired
	Revoked   bool      // tokens.revoked
	CreatedAt time.Time // tokens.created_at
}

// Usable reports whether the persisted token record is still live.  A
// token must be neither expired nor revoked to authenticate a request.
func (t Token) Usable() bool {
	return !t.Expired && !t.Revoked
}
