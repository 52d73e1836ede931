package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
	"context" // context for store lookups
	"strings" // string utilities for prefix checking and trimming

	"github.com/labstack/echo/v4" // Echo framework used for defining middleware and handlers

	"github.com/stayease/hotel-booking/internal/model"
	"github.com/stayease/hotel-booking/internal/utils"
)

// TokenStore is the slice of the token repository the gate needs: a
// liveness check on the persisted record of a presented access token.
type TokenStore interface {
	IsLive(ctx context.Context, tokenHash string) (bool, error)
}

// UserStore resolves the token's embedded identity to a live account.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (model.User, error)
}

// JWTAuth returns an Echo middleware that resolves the request's bearer
// token into an authenticated principal.  A request without a usable
// token is NOT rejected here; it proceeds as anonymous and the role
// middleware will deny it on protected routes.  For a principal to be
// attached, all of the following must hold:
//
//   a) the token's signature and embedded expiry are valid, and
//   b) the persisted token record exists and is neither expired nor
//      revoked, and
//   c) the embedded identity resolves to a live account.
//
// On success the subject email, user id, role and the role's authority
// set are stored in the request context under "email", "user_id",
// "role" and "authorities".
func JWTAuth(secret string, tokens TokenStore, users UserStore) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return next(c) // anonymous pass-through
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			claims, err := utils.ParseToken(secret, raw)
			if err != nil {
				return next(c) // invalid signature or expired: anonymous
			}
			email := utils.Subject(claims)
			if email == "" {
				return next(c)
			}

			ctx := c.Request().Context()
			live, err := tokens.IsLive(ctx, utils.HashToken(raw))
			if err != nil || !live {
				return next(c) // revoked or expired server-side: anonymous
			}

			u, err := users.GetByEmail(ctx, email)
			if err != nil {
				return next(c) // identity no longer resolves to an account
			}

			c.Set("user_id", u.ID)
			c.Set("email", u.Email)
			c.Set("role", u.Role)
			c.Set("authorities", model.Authorities(u.Role))
			return next(c)
		}
	}
}
