package router

import (
	"github.com/labstack/echo/v4"

	"github.com/temirkhan/campus-lesson-tracker/internal/handler"
	"github.com/temirkhan/campus-lesson-tracker/internal/middleware"
)

// RegisterInstructor registers INSTRUCTOR-scoped endpoints under /v1.
func RegisterInstructor(e *echo.Echo, i *handler.InstructorHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("INSTRUCTOR"),
	)

	// ---- Scheduled lessons ----
	g.POST("/schedules", i.CreateSchedule)
	g.GET("/schedules", i.ListSchedules)
	g.PUT("/schedules/:id", i.UpdateSchedule)
	g.PATCH("/schedules/:id", i.UpdateSchedule)
	g.DELETE("/schedules/:id", i.DeleteSchedule)
	g.POST("/schedules/:id/code", i.RegenerateCode)

	// ---- Attendance ----
	g.GET("/schedules/:id/roster", i.Roster)
	g.POST("/progress", i.Mark) // manual marking, same upsert as code entry
}
