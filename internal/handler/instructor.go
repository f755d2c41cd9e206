package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/temirkhan/campus-lesson-tracker/internal/model"
	"github.com/temirkhan/campus-lesson-tracker/internal/repository"
)

// InstructorHandler covers the instructor surface: scheduling lesson
// sittings with attendance codes, reading rosters and marking attendance by
// hand.  Instructors may only modify sittings they created.
type InstructorHandler struct {
	Schedules *repository.ScheduleRepo
	Lessons   *repository.LessonRepo
	Progress  *repository.ProgressRepo
}

func NewInstructorHandler(s *repository.ScheduleRepo, l *repository.LessonRepo, p *repository.ProgressRepo) *InstructorHandler {
	if s == nil || l == nil || p == nil {
		panic("nil repository passed to NewInstructorHandler")
	}
	return &InstructorHandler{Schedules: s, Lessons: l, Progress: p}
}

type scheduleReq struct {
	LessonID   uint64 `json:"lesson_id" validate:"required"`
	Campus     string `json:"campus" validate:"required,max=80"`
	LessonDate string `json:"lesson_date" validate:"required,datetime=2006-01-02"`
	StartsAt   string `json:"starts_at" validate:"required"`
	EndsAt     string `json:"ends_at" validate:"required"`
	Location   string `json:"location" validate:"max=160"`
}

type scheduleResp struct {
	scheduleItem
	AttendanceCode string `json:"attendance_code"`
	CreatedBy      uint64 `json:"created_by"`
}

func toScheduleResp(s model.ScheduledLesson) scheduleResp {
	// Instructors do see the code; students never do.
	return scheduleResp{
		scheduleItem:   toScheduleItem(s),
		AttendanceCode: s.AttendanceCode,
		CreatedBy:      s.CreatedBy,
	}
}

func (r *scheduleReq) toModel(createdBy uint64) (*model.ScheduledLesson, error) {
	date, err := time.Parse("2006-01-02", r.LessonDate)
	if err != nil {
		return nil, errors.New("invalid lesson_date")
	}
	starts, err := time.Parse(time.RFC3339, r.StartsAt)
	if err != nil {
		return nil, errors.New("invalid starts_at")
	}
	ends, err := time.Parse(time.RFC3339, r.EndsAt)
	if err != nil {
		return nil, errors.New("invalid ends_at")
	}
	if !ends.After(starts) {
		return nil, errors.New("ends_at must be after starts_at")
	}
	return &model.ScheduledLesson{
		LessonID:   r.LessonID,
		Campus:     r.Campus,
		LessonDate: date.UTC(),
		StartsAt:   starts.UTC(),
		EndsAt:     ends.UTC(),
		Location:   r.Location,
		CreatedBy:  createdBy,
	}, nil
}

// CreateSchedule handles POST /v1/schedules.  A fresh attendance code is
// generated server-side; clients never pick codes.
func (h *InstructorHandler) CreateSchedule(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req scheduleReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	s, err := req.toModel(userID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if _, err := h.Lessons.GetByID(ctx, s.LessonID); err != nil {
		if errors.Is(err, repository.ErrLessonNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "lesson not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	code, err := repository.NewAttendanceCode()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "generate code failed"})
	}
	s.AttendanceCode = code

	if err := h.Schedules.Create(ctx, s); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create schedule failed"})
	}
	return c.JSON(http.StatusCreated, toScheduleResp(*s))
}

// loadOwned fetches a scheduled lesson and enforces that the caller created
// it.  Responds and returns nil when the check fails.
func (h *InstructorHandler) loadOwned(c echo.Context, userID uint64) *model.ScheduledLesson {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		_ = c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid schedule id"})
		return nil
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	s, err := h.Schedules.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrScheduleNotFound) {
			_ = c.JSON(http.StatusNotFound, echo.Map{"error": "scheduled lesson not found"})
		} else {
			_ = c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
		return nil
	}
	if s.CreatedBy != userID {
		_ = c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		return nil
	}
	return s
}

// UpdateSchedule handles PUT/PATCH /v1/schedules/:id.
func (h *InstructorHandler) UpdateSchedule(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	s := h.loadOwned(c, userID)
	if s == nil {
		return nil
	}
	var req scheduleReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	upd, err := req.toModel(s.CreatedBy)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	upd.ID = s.ID
	upd.AttendanceCode = "" // keep the existing code on plain updates

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Schedules.Update(ctx, upd); err != nil {
		if errors.Is(err, repository.ErrScheduleNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "scheduled lesson not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, toScheduleResp(*upd))
}

// RegenerateCode handles POST /v1/schedules/:id/code.  Used when a code
// leaks or was shown on the wrong screen.
func (h *InstructorHandler) RegenerateCode(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	s := h.loadOwned(c, userID)
	if s == nil {
		return nil
	}
	code, err := repository.NewAttendanceCode()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "generate code failed"})
	}
	s.AttendanceCode = code

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Schedules.Update(ctx, s); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, toScheduleResp(*s))
}

// DeleteSchedule handles DELETE /v1/schedules/:id.  A sitting that already
// produced completions on its date cannot be removed.
func (h *InstructorHandler) DeleteSchedule(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	s := h.loadOwned(c, userID)
	if s == nil {
		return nil
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Schedules.Delete(ctx, s.ID); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "scheduled lesson has recorded completions"})
		}
		if errors.Is(err, repository.ErrScheduleNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "scheduled lesson not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// ListSchedules handles GET /v1/schedules: the caller's sittings, newest
// first, codes included.
func (h *InstructorHandler) ListSchedules(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	list, err := h.Schedules.ListByCreator(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]scheduleResp, 0, len(list))
	for _, s := range list {
		out = append(out, toScheduleResp(s))
	}
	return c.JSON(http.StatusOK, echo.Map{"schedules": out, "count": len(out)})
}

// Roster handles GET /v1/schedules/:id/roster: who completed the lesson
// behind the sitting and when.
func (h *InstructorHandler) Roster(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	s := h.loadOwned(c, userID)
	if s == nil {
		return nil
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	rows, err := h.Progress.CompletionsForLesson(ctx, s.LessonID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	type rosterRow struct {
		UserID      uint64 `json:"user_id"`
		Email       string `json:"email"`
		FullName    string `json:"full_name"`
		CompletedAt string `json:"completed_at"`
	}
	out := make([]rosterRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, rosterRow{
			UserID:      r.UserID,
			Email:       r.Email,
			FullName:    r.FullName,
			CompletedAt: r.CompletedAt.Format(time.RFC3339),
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"lesson_id": s.LessonID, "completions": out, "count": len(out)})
}

type markReq struct {
	UserID   uint64 `json:"user_id" validate:"required"`
	LessonID uint64 `json:"lesson_id" validate:"required"`
	Status   string `json:"status" validate:"required,oneof=NOT_STARTED IN_PROGRESS COMPLETED"`
}

// Mark handles POST /v1/progress: direct instructor marking, the manual
// counterpart of code verification.  Same upsert, same idempotence.
func (h *InstructorHandler) Mark(c echo.Context) error {
	if _, err := getUserID(c); err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req markReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if _, err := h.Lessons.GetByID(ctx, req.LessonID); err != nil {
		if errors.Is(err, repository.ErrLessonNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "lesson not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if err := h.Progress.UpsertStatus(ctx, req.UserID, req.LessonID, req.Status); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "mark failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"user_id":   req.UserID,
		"lesson_id": req.LessonID,
		"status":    req.Status,
	})
}
