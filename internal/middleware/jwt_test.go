package middleware

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stayease/hotel-booking/internal/model"
	"github.com/stayease/hotel-booking/internal/utils"
)

const gateSecret = "gate-test-secret"

type fakeTokens struct {
	live map[string]bool
}

func (f *fakeTokens) IsLive(_ context.Context, hash string) (bool, error) {
	return f.live[hash], nil
}

type fakeUsers struct {
	byEmail map[string]model.User
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (model.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return model.User{}, sql.ErrNoRows
	}
	return u, nil
}

// probe records what the gate attached to the request context.
func probe(captured *echo.Context) echo.HandlerFunc {
	return func(c echo.Context) error {
		*captured = c
		return c.NoContent(http.StatusOK)
	}
}

func runGate(t *testing.T, tokens *fakeTokens, users *fakeUsers, authHeader string) echo.Context {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var captured echo.Context
	h := JWTAuth(gateSecret, tokens, users)(probe(&captured))
	require.NoError(t, h(c))
	require.NotNil(t, captured)
	return captured
}

func TestJWTAuthAttachesPrincipal(t *testing.T) {
	user := model.User{ID: 7, Email: "alice@example.com", Role: model.RoleManager}
	tok, err := utils.NewAccessToken(gateSecret, user.Email, user.Role, user.ID, 15)
	require.NoError(t, err)

	tokens := &fakeTokens{live: map[string]bool{utils.HashToken(tok.Token): true}}
	users := &fakeUsers{byEmail: map[string]model.User{user.Email: user}}

	c := runGate(t, tokens, users, "Bearer "+tok.Token)
	assert.Equal(t, uint64(7), c.Get("user_id"))
	assert.Equal(t, "alice@example.com", c.Get("email"))
	assert.Equal(t, model.RoleManager, c.Get("role"))
	assert.ElementsMatch(t,
		[]string{"management:read", "management:write", "MANAGER"},
		c.Get("authorities"))
}

func TestJWTAuthAnonymousWithoutHeader(t *testing.T) {
	c := runGate(t, &fakeTokens{}, &fakeUsers{}, "")
	assert.Nil(t, c.Get("role"))
	assert.Nil(t, c.Get("email"))
}

func TestJWTAuthAnonymousOnBadSignature(t *testing.T) {
	tok, err := utils.NewAccessToken("some-other-secret", "alice@example.com", model.RoleAdmin, 1, 15)
	require.NoError(t, err)

	c := runGate(t, &fakeTokens{}, &fakeUsers{}, "Bearer "+tok.Token)
	assert.Nil(t, c.Get("role"))
}

func TestJWTAuthAnonymousWhenTokenNotLive(t *testing.T) {
	user := model.User{ID: 1, Email: "bob@example.com", Role: model.RoleCustomer}
	tok, err := utils.NewAccessToken(gateSecret, user.Email, user.Role, user.ID, 15)
	require.NoError(t, err)

	// Record missing or flagged: either way IsLive returns false.
	tokens := &fakeTokens{live: map[string]bool{}}
	users := &fakeUsers{byEmail: map[string]model.User{user.Email: user}}

	c := runGate(t, tokens, users, "Bearer "+tok.Token)
	assert.Nil(t, c.Get("role"))
}

func TestJWTAuthAnonymousWhenAccountGone(t *testing.T) {
	tok, err := utils.NewAccessToken(gateSecret, "ghost@example.com", model.RoleCustomer, 1, 15)
	require.NoError(t, err)

	tokens := &fakeTokens{live: map[string]bool{utils.HashToken(tok.Token): true}}
	c := runGate(t, tokens, &fakeUsers{}, "Bearer "+tok.Token)
	assert.Nil(t, c.Get("role"))
}
