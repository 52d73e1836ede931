package router

import (
	"github.com/labstack/echo/v4"

	"github.com/stayease/hotel-booking/internal/handler"
	"github.com/stayease/hotel-booking/internal/middleware"
	"github.com/stayease/hotel-booking/internal/model"
)

// RegisterHotels registers the hotel inventory endpoints.  Reads are
// open to every authenticated role.  Creation is granted to the
// CUSTOMER role specifically — this asymmetry (creation not restricted
// to elevated roles) is the existing product policy and is preserved
// literally.  Update and delete fall under the admin-only default.
// cache, when non-nil, is applied to the list endpoint.
func RegisterHotels(e *echo.Echo, h *handler.HotelHandler, gate echo.MiddlewareFunc, cache echo.MiddlewareFunc) {
	g := e.Group("/hotels", gate)

	anyRole := middleware.RequireRole(model.RoleCustomer, model.RoleManager, model.RoleAdmin)
	adminOnly := middleware.RequireRole(model.RoleAdmin)

	if cache != nil {
		g.GET("", h.List, anyRole, cache)
	} else {
		g.GET("", h.List, anyRole)
	}
	g.GET("/:id", h.Get, anyRole)
	g.POST("", h.Create, middleware.RequireRole(model.RoleCustomer))
	g.PUT("/:id", h.Update, adminOnly)
	g.DELETE("/:id", h.Delete, adminOnly)
}
