package utils // package utils provides helper functions for token creation and hashing

import (
	"crypto/sha256" // SHA-256 hashing for persisted token digests
	"encoding/hex"  // hex encoding for digests
	"errors"        // sentinel errors for parse failures
	"time"          // expiry computation

	"github.com/golang-jwt/jwt/v5" // JWT library for creating and parsing signed tokens
)

// ErrInvalidToken is returned by ParseToken when a token fails signature
// verification, uses an unexpected algorithm, or is past its expiry.
var ErrInvalidToken = errors.New("invalid token")

// AccessToken represents a signed JWT access token along with its expiry.
// Access tokens are short-lived and carried in the Authorization header
// when calling protected endpoints.  The SHA-256 hash of the Token string
// is persisted so the token can be revoked server-side.
type AccessToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// RefreshToken is a longer-lived signed JWT used to obtain new access
// tokens.  Unlike access tokens it is not persisted; validity rests on
// its signature and embedded expiry alone.
type RefreshToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // UTC expiration time
}

// NewAccessToken builds and signs an HS256 JWT for a user.  The subject
// claim carries the user's email (the login identity), and the role and
// uid claims let the access control gate resolve the principal without a
// second lookup.  ttlMin controls the token lifetime in minutes.
func NewAccessToken(secret, email, role string, userID uint64, ttlMin int) (AccessToken, error) {
	exp := time.Now().UTC().Add(time.Duration(ttlMin) * time.Minute)
	claims := jwt.MapClaims{
		"sub":  email,
		"role": role,
		"uid":  userID,
		"exp":  exp.Unix(),
		"iat":  time.Now().UTC().Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}

// NewRefreshToken builds and signs an HS256 JWT carrying only the user's
// identity and an expiry ttlDays in the future.  Refresh tokens embed no
// role so a changed role takes effect on the next refresh.
func NewRefreshToken(secret, email string, ttlDays int) (RefreshToken, error) {
	exp := time.Now().UTC().Add(time.Duration(ttlDays) * 24 * time.Hour)
	claims := jwt.MapClaims{
		"sub": email,
		"exp": exp.Unix(),
		"iat": time.Now().UTC().Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return RefreshToken{}, err
	}
	return RefreshToken{Token: signed, Exp: exp}, nil
}

// ParseToken verifies a raw JWT against the signing secret and returns
// its claims.  Only HMAC-signed tokens are accepted; anything else is
// rejected with ErrInvalidToken.  Expiry is enforced by the jwt library
// during parsing.
func ParseToken(secret, raw string) (jwt.MapClaims, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return nil, ErrInvalidToken
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Subject extracts the sub claim from a parsed claim set.  An empty
// string is returned when the claim is missing or not a string.
func Subject(claims jwt.MapClaims) string {
	if v, ok := claims["sub"].(string); ok {
		return v
	}
	return ""
}

// HashToken returns the SHA-256 hash of a serialized token as a hex
// string.  Only this digest is stored in the tokens table, so database
// leaks cannot be replayed as live sessions.
func HashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
