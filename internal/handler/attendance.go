package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/temirkhan/campus-lesson-tracker/internal/attendance"
	"github.com/temirkhan/campus-lesson-tracker/internal/queue"
)

// CodeVerifier is the slice of the attendance package this handler needs;
// an interface so tests can drive the handler with a fake.
type CodeVerifier interface {
	VerifyCode(ctx context.Context, userID uint64, code string) (attendance.Match, error)
}

// AttendanceHandler exposes the code submission endpoint.  On success it
// invalidates the cached lesson views and publishes a completion event;
// both are feedback-side effects and never fail the request.
type AttendanceHandler struct {
	Verifier   CodeVerifier
	Invalidate func(ctx context.Context) error                            // cache bust, may be nil
	Publish    func(ctx context.Context, ev queue.LessonCompletedEvent) error // event publish, may be nil
}

func NewAttendanceHandler(v CodeVerifier, invalidate func(context.Context) error, publish func(context.Context, queue.LessonCompletedEvent) error) *AttendanceHandler {
	if v == nil {
		panic("nil verifier passed to NewAttendanceHandler")
	}
	return &AttendanceHandler{Verifier: v, Invalidate: invalidate, Publish: publish}
}

type verifyReq struct {
	Code string `json:"code" validate:"required,len=4"`
}

type verifyResp struct {
	ScheduledLessonID uint64 `json:"scheduled_lesson_id"`
	LessonID          uint64 `json:"lesson_id"`
	Campus            string `json:"campus"`
	Status            string `json:"status"`
	CompletedAt       string `json:"completed_at"`
}

// Verify handles POST /v1/attendance/verify.  All failures are resolved
// here; the client always gets a message and a retryable state.  Submitting
// the same valid code twice is safe and returns the same shape with a
// refreshed timestamp.
func (h *AttendanceHandler) Verify(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req verifyReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		// A short or empty code gets the generic invalid-code message so the
		// response does not reveal anything about code shape matching.
		return c.JSON(http.StatusNotFound, echo.Map{"error": invalidCodeMsg})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	match, err := h.Verifier.VerifyCode(ctx, userID, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, attendance.ErrNotAuthenticated):
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
		case errors.Is(err, attendance.ErrProfileIncomplete):
			return c.JSON(http.StatusConflict, echo.Map{"error": noCampusMsg})
		case errors.Is(err, attendance.ErrInvalidCode):
			return c.JSON(http.StatusNotFound, echo.Map{"error": invalidCodeMsg})
		default:
			log.Printf("attendance: verify failed for user=%d: %v", userID, err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to verify attendance"})
		}
	}

	// Feedback side: refresh dependent views and notify downstream.  Errors
	// are logged only; the completion is already durable.
	if h.Invalidate != nil {
		if err := h.Invalidate(ctx); err != nil {
			log.Printf("attendance: cache invalidate failed: %v", err)
		}
	}
	if h.Publish != nil {
		ev := queue.LessonCompletedEvent{
			UserID:            userID,
			LessonID:          match.LessonID,
			ScheduledLessonID: match.ScheduledLessonID,
			Campus:            match.Campus,
			CompletedAt:       match.CompletedAt.Format(time.RFC3339),
		}
		if err := h.Publish(ctx, ev); err != nil {
			log.Printf("attendance: publish completion event failed: %v", err)
		}
	}

	return c.JSON(http.StatusOK, verifyResp{
		ScheduledLessonID: match.ScheduledLessonID,
		LessonID:          match.LessonID,
		Campus:            match.Campus,
		Status:            "COMPLETED",
		CompletedAt:       match.CompletedAt.Format(time.RFC3339),
	})
}

const (
	invalidCodeMsg = "Invalid attendance code. Please try again."
	noCampusMsg    = "Set your campus in your profile before verifying attendance."
)
