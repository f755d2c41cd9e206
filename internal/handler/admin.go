package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/temirkhan/campus-lesson-tracker/internal/model"
	"github.com/temirkhan/campus-lesson-tracker/internal/repository"
)

// AdminHandler serves the administrator dashboard: platform stats, user
// listing, role assignment and curriculum (lesson template) management.
type AdminHandler struct {
	Users       *repository.UserRepo
	Lessons     *repository.LessonRepo
	Schedules   *repository.ScheduleRepo
	Progress    *repository.ProgressRepo
	Engagements *repository.EngagementRepo
}

func NewAdminHandler(u *repository.UserRepo, l *repository.LessonRepo, s *repository.ScheduleRepo, p *repository.ProgressRepo, e *repository.EngagementRepo) *AdminHandler {
	if u == nil || l == nil || s == nil || p == nil || e == nil {
		panic("nil repository passed to NewAdminHandler")
	}
	return &AdminHandler{Users: u, Lessons: l, Schedules: s, Progress: p, Engagements: e}
}

// Stats handles GET /v1/admin/stats.
func (h *AdminHandler) Stats(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	roles, err := h.Users.CountByRole(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	lessonTotal, err := h.Lessons.Count(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	completions, err := h.Progress.CountCompleted(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	engagements, err := h.Engagements.Count(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	byCampus, err := h.Schedules.CountByCampus(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"users_by_role":       roles,
		"lessons":             lessonTotal,
		"completions":         completions,
		"engagements":         engagements,
		"schedules_by_campus": byCampus,
	})
}

// ListUsers handles GET /v1/admin/users with limit/offset paging.
func (h *AdminHandler) ListUsers(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))

	ctx, cancel := reqCtx(c)
	defer cancel()

	users, err := h.Users.List(ctx, limit, offset)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	type userRow struct {
		ID       uint64 `json:"id"`
		Email    string `json:"email"`
		Role     string `json:"role"`
		IsActive bool   `json:"is_active"`
	}
	out := make([]userRow, 0, len(users))
	for _, u := range users {
		out = append(out, userRow{ID: u.ID, Email: u.Email, Role: u.Role, IsActive: u.IsActive})
	}
	return c.JSON(http.StatusOK, echo.Map{"users": out, "count": len(out)})
}

type setRoleReq struct {
	Role string `json:"role" validate:"required,oneof=STUDENT INSTRUCTOR ADMIN"`
}

// SetRole handles PUT /v1/admin/users/:id/role.  Role is the one profile
// attribute a user never sets on themselves.
func (h *AdminHandler) SetRole(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	var req setRoleReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Users.SetRole(ctx, id, req.Role); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"user_id": id, "role": req.Role})
}

type createLessonReq struct {
	Title       string `json:"title" validate:"required,max=160"`
	Description string `json:"description" validate:"max=2000"`
	SortOrder   uint32 `json:"sort_order"`
}

// CreateLesson handles POST /v1/admin/lessons: adds a template to the
// curriculum.
func (h *AdminHandler) CreateLesson(c echo.Context) error {
	var req createLessonReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	l := model.Lesson{Title: req.Title, Description: req.Description, SortOrder: req.SortOrder}
	if err := h.Lessons.Create(ctx, &l); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create lesson failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"id":          l.ID,
		"title":       l.Title,
		"description": l.Description,
		"sort_order":  l.SortOrder,
	})
}
