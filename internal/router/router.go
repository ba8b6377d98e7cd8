package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // Echo web framework handles routing

	"github.com/kashmirakothariai/Foundee/internal/handler"
	"github.com/kashmirakothariai/Foundee/internal/middleware"
	"github.com/kashmirakothariai/Foundee/internal/model"
)

// RegisterRoutes registers routes that carry no authentication at all.
// Currently that is only the health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the login endpoints.  Both issue bearer tokens
// and require no existing session.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler) {
	g := e.Group("/auth")
	g.POST("/google-login", a.GoogleLogin)
	g.POST("/login", a.Login)
}

// RegisterUser registers the account and profile endpoints.  All of them
// require a valid access token.
func RegisterUser(e *echo.Echo, u *handler.UserHandler, jwtSecret string) {
	g := e.Group("/user")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.GET("/me", u.Me)
	g.GET("/details", u.GetDetails)
	g.PUT("/details", u.UpdateDetails)
}

// RegisterQR registers the QR registry endpoints.  The scan route is
// public with optional authentication and a rate limiter; creation is
// restricted to admin roles; the management routes require a session.
func RegisterQR(e *echo.Echo, q *handler.QRHandler, jwtSecret string, scanLimiter echo.MiddlewareFunc) {
	// Public scan path.  OptionalJWTAuth runs before the limiter so an
	// authenticated scanner is throttled per user, not per shared IP.
	scan := e.Group("/qr/scan")
	scan.Use(middleware.OptionalJWTAuth(jwtSecret))
	if scanLimiter != nil {
		scan.Use(scanLimiter)
	}
	scan.GET("/:qr_id", q.Scan)

	// Creation is for admin roles only.
	admin := e.Group("/qr")
	admin.Use(middleware.JWTAuth(jwtSecret))
	admin.Use(middleware.RequireRole(model.RoleAdmin, model.RoleAspAdmin))
	admin.POST("/create", q.Create)
	admin.POST("/create-unbound", q.CreateUnbound)

	// Management routes for any authenticated user; ownership is checked
	// in the handlers.
	auth := e.Group("/qr")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.GET("/details/:qr_id", q.Details)
	auth.PUT("/update-permissions/:qr_id", q.UpdatePermissions)
	auth.PUT("/bind/:qr_id", q.Bind)
	auth.GET("/my-qr-codes", q.MyQRCodes)
}
