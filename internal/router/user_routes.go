package router

import (
	"github.com/labstack/echo/v4"

	"github.com/stayease/hotel-booking/internal/handler"
	"github.com/stayease/hotel-booking/internal/middleware"
	"github.com/stayease/hotel-booking/internal/model"
)

// RegisterUsers registers the read-only user directory.  /users/me is
// open to every authenticated role so callers can inspect their own
// account; listing and lookups by id are admin-only.
func RegisterUsers(e *echo.Echo, u *handler.UserHandler, gate echo.MiddlewareFunc) {
	g := e.Group("/users", gate)

	g.GET("", u.List, middleware.RequireRole(model.RoleAdmin))
	g.GET("/me", u.Me, middleware.RequireRole(model.RoleCustomer, model.RoleManager, model.RoleAdmin))
	g.GET("/:id", u.Get, middleware.RequireRole(model.RoleAdmin))
}
