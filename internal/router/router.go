package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/stayease/hotel-booking/internal/handler"    // import the handlers that implement business logic
	"github.com/stayease/hotel-booking/internal/middleware" // import middleware for JWT authentication and role enforcement
	"github.com/stayease/hotel-booking/internal/model"      // role names for route policies
)

// RegisterRoutes registers routes that bypass the access control gate.
// Currently this is only the health check; the auth endpoints register
// their own public group in RegisterAuth.
func RegisterRoutes(e *echo.Echo) {
	// Load balancers and monitoring poll this endpoint.
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the authentication endpoints.  Register, login,
// refresh-token and logout are public: they operate on the credentials
// or tokens carried in the request itself.  Change-password is the one
// auth operation that needs an authenticated principal, so it passes
// through the gate.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, gate echo.MiddlewareFunc) {
	g := e.Group("/api/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// refresh-token deliberately answers an empty 200 when the header is
	// absent or unusable; see the handler.
	g.POST("/refresh-token", a.RefreshToken)
	g.POST("/logout", a.Logout)
	g.PATCH("/change-password", a.ChangePassword,
		gate,
		middleware.RequireRole(model.RoleCustomer, model.RoleManager, model.RoleAdmin),
	)
}
