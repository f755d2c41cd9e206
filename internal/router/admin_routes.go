package router

import (
	"github.com/labstack/echo/v4"

	"github.com/temirkhan/campus-lesson-tracker/internal/handler"
	"github.com/temirkhan/campus-lesson-tracker/internal/middleware"
)

// RegisterAdmin registers ADMIN-scoped endpoints under /v1/admin.
func RegisterAdmin(e *echo.Echo, a *handler.AdminHandler, jwtSecret string) {
	g := e.Group(
		"/v1/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("ADMIN"),
	)

	g.GET("/stats", a.Stats)
	g.GET("/users", a.ListUsers)
	g.PUT("/users/:id/role", a.SetRole)
	g.POST("/lessons", a.CreateLesson)
}
