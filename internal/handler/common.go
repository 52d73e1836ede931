package handler // handler defines http handlers

import (
	"errors"  // errors provides sentinel values used in the principal helpers
	"strconv" // strconv converts path parameters to numeric types

	"github.com/labstack/echo/v4" // echo defines request context types
)

// errNoPrincipal is returned when a handler needs an authenticated
// caller but the gate attached none.  Role middleware normally makes
// this unreachable; the check remains an explicit failure path.
var errNoPrincipal = errors.New("no authenticated principal in context")

// principalEmail extracts the authenticated caller's email from context.
func principalEmail(c echo.Context) (string, error) {
	if v, ok := c.Get("email").(string); ok && v != "" {
		return v, nil
	}
	return "", errNoPrincipal
}

// principalID extracts the authenticated caller's user id from context.
func principalID(c echo.Context) (uint64, error) {
	switch t := c.Get("user_id").(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	}
	return 0, errNoPrincipal
}

// pathID parses the :id path parameter as an unsigned integer.
func pathID(c echo.Context) (uint64, error) {
	return strconv.ParseUint(c.Param("id"), 10, 64)
}
