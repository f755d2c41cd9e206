package handler

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/temirkhan/campus-lesson-tracker/internal/model"
	"github.com/temirkhan/campus-lesson-tracker/internal/repository"
)

// EngagementHandler lets students log and review the conversations they
// have had about the programme.  Logging one earns points, so the reward
// tier is recomputed right after a create.
type EngagementHandler struct {
	Engagements *repository.EngagementRepo
	Progress    *repository.ProgressRepo
	Profiles    *repository.ProfileRepo
}

func NewEngagementHandler(e *repository.EngagementRepo, pr *repository.ProgressRepo, pf *repository.ProfileRepo) *EngagementHandler {
	if e == nil || pr == nil || pf == nil {
		panic("nil repository passed to NewEngagementHandler")
	}
	return &EngagementHandler{Engagements: e, Progress: pr, Profiles: pf}
}

type createEngagementReq struct {
	ContactName string `json:"contact_name" validate:"required,max=120"`
	Notes       string `json:"notes" validate:"max=2000"`
	EngagedAt   string `json:"engaged_at" validate:"omitempty,datetime=2006-01-02"`
}

type engagementResp struct {
	ID          uint64 `json:"id"`
	ContactName string `json:"contact_name"`
	Notes       string `json:"notes"`
	EngagedAt   string `json:"engaged_at"`
}

// Create handles POST /v1/engagements.  The engaged_at date defaults to
// today when omitted.
func (h *EngagementHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createEngagementReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	engagedAt := time.Now().UTC()
	if req.EngagedAt != "" {
		engagedAt, _ = time.Parse("2006-01-02", req.EngagedAt) // validated above
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	e := model.Engagement{
		UserID:      userID,
		ContactName: req.ContactName,
		Notes:       req.Notes,
		EngagedAt:   engagedAt,
	}
	if err := h.Engagements.Create(ctx, &e); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create engagement failed"})
	}

	// The engagement is saved either way; a failed recompute only delays the
	// tier until the next completion event refreshes it.
	if err := h.recomputeReward(ctx, userID); err != nil {
		log.Printf("engagement: reward recompute failed for user=%d: %v", userID, err)
	}

	return c.JSON(http.StatusCreated, engagementResp{
		ID:          e.ID,
		ContactName: e.ContactName,
		Notes:       e.Notes,
		EngagedAt:   e.EngagedAt.Format("2006-01-02"),
	})
}

// recomputeReward rebuilds the caller's points and tier from their current
// completion and engagement counts.
func (h *EngagementHandler) recomputeReward(ctx context.Context, userID uint64) error {
	completed, err := h.Progress.CountCompletedForUser(ctx, userID)
	if err != nil {
		return err
	}
	engs, err := h.Engagements.CountForUser(ctx, userID)
	if err != nil {
		return err
	}
	points := model.RewardPoints(completed, engs)
	return h.Profiles.SetReward(ctx, userID, model.TierForPoints(points), points)
}

// List handles GET /v1/engagements, newest first.
func (h *EngagementHandler) List(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	list, err := h.Engagements.ListForUser(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]engagementResp, 0, len(list))
	for _, e := range list {
		out = append(out, engagementResp{
			ID:          e.ID,
			ContactName: e.ContactName,
			Notes:       e.Notes,
			EngagedAt:   e.EngagedAt.Format("2006-01-02"),
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"engagements": out, "count": len(out)})
}
