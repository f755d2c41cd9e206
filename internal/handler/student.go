package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/temirkhan/campus-lesson-tracker/internal/model"
	"github.com/temirkhan/campus-lesson-tracker/internal/repository"
)

// StudentHandler serves the student dashboard reads: curriculum with merged
// progress, the campus schedule with the next upcoming sitting, and the
// reward summary.
type StudentHandler struct {
	Lessons   *repository.LessonRepo
	Schedules *repository.ScheduleRepo
	Progress  *repository.ProgressRepo
	Profiles  *repository.ProfileRepo
}

func NewStudentHandler(l *repository.LessonRepo, s *repository.ScheduleRepo, pr *repository.ProgressRepo, pf *repository.ProfileRepo) *StudentHandler {
	if l == nil || s == nil || pr == nil || pf == nil {
		panic("nil repository passed to NewStudentHandler")
	}
	return &StudentHandler{Lessons: l, Schedules: s, Progress: pr, Profiles: pf}
}

type lessonWithProgress struct {
	ID          uint64  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	SortOrder   uint32  `json:"sort_order"`
	Status      string  `json:"status"`
	CompletedAt *string `json:"completed_at,omitempty"`
}

type lessonListResp struct {
	Lessons   []lessonWithProgress `json:"lessons"`
	Completed int                  `json:"completed"`
	Total     int                  `json:"total"`
	Percent   int                  `json:"percent"`
}

// ListLessons handles GET /v1/lessons: every lesson template in curriculum
// order with the caller's progress merged in, plus the completion
// percentage.
func (h *StudentHandler) ListLessons(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	lessons, err := h.Lessons.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	progress, err := h.Progress.ListForUser(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	byLesson := make(map[uint64]model.LessonProgress, len(progress))
	for _, p := range progress {
		byLesson[p.LessonID] = p
	}

	resp := lessonListResp{Lessons: make([]lessonWithProgress, 0, len(lessons)), Total: len(lessons)}
	for _, l := range lessons {
		lw := lessonWithProgress{
			ID:          l.ID,
			Title:       l.Title,
			Description: l.Description,
			SortOrder:   l.SortOrder,
			Status:      model.ProgressNotStarted,
		}
		if p, ok := byLesson[l.ID]; ok {
			lw.Status = p.Status
			if p.CompletedAt != nil {
				ts := p.CompletedAt.Format(time.RFC3339)
				lw.CompletedAt = &ts
			}
			if p.Status == model.ProgressCompleted {
				resp.Completed++
			}
		}
		resp.Lessons = append(resp.Lessons, lw)
	}
	resp.Percent = model.ProgressPercent(resp.Completed, resp.Total)
	return c.JSON(http.StatusOK, resp)
}

type scheduleItem struct {
	ID         uint64 `json:"id"`
	LessonID   uint64 `json:"lesson_id"`
	Campus     string `json:"campus"`
	LessonDate string `json:"lesson_date"`
	StartsAt   string `json:"starts_at"`
	EndsAt     string `json:"ends_at"`
	Location   string `json:"location"`
}

func toScheduleItem(s model.ScheduledLesson) scheduleItem {
	// Attendance codes are deliberately absent from student responses.
	return scheduleItem{
		ID:         s.ID,
		LessonID:   s.LessonID,
		Campus:     s.Campus,
		LessonDate: s.LessonDate.Format("2006-01-02"),
		StartsAt:   s.StartsAt.Format(time.RFC3339),
		EndsAt:     s.EndsAt.Format(time.RFC3339),
		Location:   s.Location,
	}
}

// Schedule handles GET /v1/schedule: upcoming scheduled lessons at the
// caller's campus plus the next one by start time.  Without a campus on the
// profile there is nothing to show, same precondition as verification.
func (h *StudentHandler) Schedule(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	campus, err := h.Profiles.CampusFor(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "profile not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if campus == "" {
		return c.JSON(http.StatusConflict, echo.Map{"error": noCampusMsg})
	}

	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	upcoming, err := h.Schedules.ListByCampus(ctx, campus, today)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	items := make([]scheduleItem, 0, len(upcoming))
	for _, s := range upcoming {
		items = append(items, toScheduleItem(s))
	}
	var next *scheduleItem
	if n := model.NextUpcoming(upcoming, now); n != nil {
		it := toScheduleItem(*n)
		next = &it
	}
	return c.JSON(http.StatusOK, echo.Map{
		"campus":   campus,
		"upcoming": items,
		"next":     next,
	})
}

// Rewards handles GET /v1/rewards: the persisted tier and points from the
// profile.  The queue consumer keeps these current; no recomputation is
// done on the read path.
func (h *StudentHandler) Rewards(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	p, err := h.Profiles.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "profile not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"tier":   p.RewardTier,
		"points": p.RewardPoints,
	})
}
