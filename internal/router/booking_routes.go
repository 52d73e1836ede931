package router

import (
	"github.com/labstack/echo/v4"

	"github.com/stayease/hotel-booking/internal/handler"
	"github.com/stayease/hotel-booking/internal/middleware"
	"github.com/stayease/hotel-booking/internal/model"
)

// RegisterBookings registers the booking lifecycle endpoints.  Apart
// from cancellation — granted to MANAGER and ADMIN — every booking
// route falls under the admin-only default of the route policy.
func RegisterBookings(e *echo.Echo, b *handler.BookingHandler, gate echo.MiddlewareFunc, cache echo.MiddlewareFunc) {
	g := e.Group("/bookings", gate)

	adminOnly := middleware.RequireRole(model.RoleAdmin)

	if cache != nil {
		g.GET("/available-rooms", b.AvailableRooms, adminOnly, cache)
	} else {
		g.GET("/available-rooms", b.AvailableRooms, adminOnly)
	}
	g.POST("", b.Book, adminOnly)
	g.PUT("/:id", b.Update, adminOnly)
	g.PUT("/:id/cancel", b.Cancel, middleware.RequireRole(model.RoleManager, model.RoleAdmin))
	g.GET("", b.List, adminOnly)
	g.GET("/status", b.ListByStatus, adminOnly)
	g.GET("/:id", b.Get, adminOnly)
	g.DELETE("/:id", b.Delete, adminOnly)
}
