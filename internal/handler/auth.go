package handler

import (
	"context"      // provides context with cancellation for DB calls
	"database/sql" // sentinel errors for missing rows
	"errors"       // error matching
	"net/http"     // HTTP status codes and primitives
	"strings"      // string manipulation utilities
	"time"         // timeouts for DB calls

	"github.com/labstack/echo/v4" // Echo framework for HTTP routing

	"github.com/stayease/hotel-booking/internal/config"     // app configuration
	"github.com/stayease/hotel-booking/internal/logger"     // structured logging
	"github.com/stayease/hotel-booking/internal/model"      // roles and token types
	"github.com/stayease/hotel-booking/internal/repository" // sentinel errors
	"github.com/stayease/hotel-booking/internal/utils"      // hashing and token issuing
)

// AuthHandler bundles dependencies for the auth endpoints: issuing,
// rotating and revoking tokens, plus password changes.
type AuthHandler struct {
	Cfg    config.Config
	Users  UserStore
	Tokens TokenStore
}

func NewAuthHandler(cfg config.Config, u UserStore, t TokenStore) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u, Tokens: t}
}

// ----- DTOs -----

type registerReq struct {
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Role      string `json:"role"` // CUSTOMER | MANAGER | ADMIN
}
type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
type changePasswordReq struct {
	CurrentPassword      string `json:"current_password"`
	NewPassword          string `json:"new_password"`
	ConfirmationPassword string `json:"confirmation_password"`
}

// tokenPairResp is the wire shape shared by register, login and refresh.
type tokenPairResp struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// issueTokens creates an access/refresh pair for a user and persists the
// access token's hash so the gate can check revocation state later.
func (h *AuthHandler) issueTokens(ctx context.Context, u model.User) (tokenPairResp, error) {
	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.Email, u.Role, u.ID, h.Cfg.AccessTTLMin)
	if err != nil {
		return tokenPairResp{}, err
	}
	refresh, err := utils.NewRefreshToken(h.Cfg.JWTSecret, u.Email, h.Cfg.RefreshTTLDays)
	if err != nil {
		return tokenPairResp{}, err
	}
	if err := h.Tokens.Store(ctx, u.ID, utils.HashToken(access.Token)); err != nil {
		return tokenPairResp{}, err
	}
	return tokenPairResp{AccessToken: access.Token, RefreshToken: refresh.Token}, nil
}

// Register handles POST /api/v1/auth/register: create the account and
// return a token pair immediately.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	fieldErrs := map[string]string{}
	if req.Email == "" {
		fieldErrs["email"] = "email is required"
	}
	if req.Password == "" {
		fieldErrs["password"] = "password is required"
	}
	if len(fieldErrs) > 0 {
		return c.JSON(http.StatusBadRequest, fieldErrs)
	}
	role := strings.ToUpper(strings.TrimSpace(req.Role))
	if !model.ValidRole(role) {
		role = model.RoleCustomer
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	uid, err := h.Users.Create(ctx, req.FirstName, req.LastName, req.Email, req.Password, role, h.Cfg.BcryptCost)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
		}
		logger.ErrorLogger.WithError(err).Error("register: create user failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}

	pair, err := h.issueTokens(ctx, model.User{ID: uid, Email: req.Email, Role: role})
	if err != nil {
		logger.ErrorLogger.WithError(err).Error("register: issue tokens failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue tokens failed"})
	}
	return c.JSON(http.StatusOK, pair)
}

// Login handles POST /api/v1/auth/login: verify credentials and rotate
// the session.  All previously live tokens for the account are expired
// and revoked before the new pair is issued (single active session).
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		logger.ErrorLogger.WithError(err).Error("login: query failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	if err := h.Tokens.RevokeAllForUser(ctx, u.ID); err != nil {
		logger.ErrorLogger.WithError(err).Error("login: revoke old tokens failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "revoke old tokens failed"})
	}
	pair, err := h.issueTokens(ctx, u)
	if err != nil {
		logger.ErrorLogger.WithError(err).Error("login: issue tokens failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue tokens failed"})
	}
	return c.JSON(http.StatusOK, pair)
}

// RefreshToken handles POST /api/v1/auth/refresh-token.  The refresh
// token is carried in the Authorization header.  A missing or malformed
// header produces an EMPTY 200 response with no state mutated — this
// no-op is part of the existing contract, not an error path.  The same
// silent no-op applies to structurally invalid or expired tokens.  On
// success a new access token is issued, all prior tokens are revoked,
// and the same refresh token is echoed back.
func (h *AuthHandler) RefreshToken(c echo.Context) error {
	auth := c.Request().Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return c.NoContent(http.StatusOK)
	}
	raw := strings.TrimPrefix(auth, "Bearer ")

	claims, err := utils.ParseToken(h.Cfg.JWTSecret, raw)
	if err != nil {
		return c.NoContent(http.StatusOK)
	}
	email := utils.Subject(claims)
	if email == "" {
		return c.NoContent(http.StatusOK)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, email)
	if err != nil {
		return c.NoContent(http.StatusOK)
	}

	if err := h.Tokens.RevokeAllForUser(ctx, u.ID); err != nil {
		logger.ErrorLogger.WithError(err).Error("refresh: revoke old tokens failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "revoke old tokens failed"})
	}
	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.Email, u.Role, u.ID, h.Cfg.AccessTTLMin)
	if err != nil {
		logger.ErrorLogger.WithError(err).Error("refresh: issue access failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
	}
	if err := h.Tokens.Store(ctx, u.ID, utils.HashToken(access.Token)); err != nil {
		logger.ErrorLogger.WithError(err).Error("refresh: save token failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save token failed"})
	}
	// The presented refresh token stays valid and is echoed back.
	return c.JSON(http.StatusOK, tokenPairResp{AccessToken: access.Token, RefreshToken: raw})
}

// Logout handles POST /api/v1/auth/logout: flip the expired and revoked
// flags on the presented access token's record.  The row itself is kept
// forever (soft revocation).  A missing or unknown token is a silent
// no-op.
func (h *AuthHandler) Logout(c echo.Context) error {
	auth := c.Request().Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return c.NoContent(http.StatusOK)
	}
	raw := strings.TrimPrefix(auth, "Bearer ")

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Tokens.RevokeByHash(ctx, utils.HashToken(raw)); err != nil {
		logger.ErrorLogger.WithError(err).Error("logout: revoke failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "logout failed"})
	}
	return c.NoContent(http.StatusOK)
}

// ChangePassword handles PATCH /api/v1/auth/change-password for the
// authenticated caller.  The current password must verify against the
// stored hash (401 otherwise) and the new password must match its
// confirmation (400 otherwise).
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	email, err := principalEmail(c)
	if err != nil {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "access denied"})
	}
	var req changePasswordReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.NewPassword == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "new password required"})
	}
	if req.NewPassword != req.ConfirmationPassword {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "passwords are not the same"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, email)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}
	if !utils.VerifyPassword(u.PasswordHash, req.CurrentPassword) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "wrong password"})
	}
	newHash, err := utils.HashPassword(req.NewPassword, h.Cfg.BcryptCost)
	if err != nil {
		logger.ErrorLogger.WithError(err).Error("change-password: hash failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	if err := h.Users.UpdatePassword(ctx, u.ID, newHash); err != nil {
		logger.ErrorLogger.WithError(err).Error("change-password: update failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.NoContent(http.StatusOK)
}
