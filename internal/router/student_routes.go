package router

import (
	"github.com/labstack/echo/v4"

	"github.com/temirkhan/campus-lesson-tracker/internal/handler"
	"github.com/temirkhan/campus-lesson-tracker/internal/middleware"
)

// RegisterStudent registers student-scoped endpoints under /v1.  All routes
// require a valid JWT with the STUDENT role.  The browse reads (lessons,
// schedule) optionally sit behind the Redis response cache; the attendance
// verification endpoint is additionally rate limited because the code is
// short enough to guess.
func RegisterStudent(e *echo.Echo, s *handler.StudentHandler, a *handler.AttendanceHandler,
	eng *handler.EngagementHandler, p *handler.ProfileHandler, jwtSecret string,
	cacheMW, rateMW echo.MiddlewareFunc) {

	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("STUDENT"),
	)

	// Browse views, cacheable.
	g.GET("/lessons", s.ListLessons, cacheMW)
	g.GET("/schedule", s.Schedule, cacheMW)
	g.GET("/rewards", s.Rewards)

	// Attendance code submission, throttled.
	g.POST("/attendance/verify", a.Verify, rateMW)

	// Engagement log.
	g.POST("/engagements", eng.Create)
	g.GET("/engagements", eng.List)

	// Own profile.  Kept on the student group because only students edit
	// campus; instructors and admins read their identity via /v1/me.
	g.GET("/profile", p.Get)
	g.PUT("/profile", p.Update)
	g.PATCH("/profile", p.Update)
}
