package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/temirkhan/campus-lesson-tracker/internal/model"
	"github.com/temirkhan/campus-lesson-tracker/internal/repository"
)

// ProfileHandler serves the authenticated user's own profile.
type ProfileHandler struct {
	Profiles *repository.ProfileRepo
}

func NewProfileHandler(p *repository.ProfileRepo) *ProfileHandler {
	if p == nil {
		panic("nil repository passed to NewProfileHandler")
	}
	return &ProfileHandler{Profiles: p}
}

type profileResp struct {
	UserID       uint64  `json:"user_id"`
	FullName     string  `json:"full_name"`
	Campus       *string `json:"campus"`
	Phone        *string `json:"phone"`
	RewardTier   string  `json:"reward_tier"`
	RewardPoints uint32  `json:"reward_points"`
}

func toProfileResp(p model.Profile) profileResp {
	return profileResp{
		UserID:       p.UserID,
		FullName:     p.FullName,
		Campus:       p.Campus,
		Phone:        p.Phone,
		RewardTier:   p.RewardTier,
		RewardPoints: p.RewardPoints,
	}
}

// Get handles GET /v1/profile.
func (h *ProfileHandler) Get(c echo.Context) error {
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
	return c.JSON(http.StatusOK, toProfileResp(p))
}

type updateProfileReq struct {
	FullName *string `json:"full_name" validate:"omitempty,max=120"`
	Campus   *string `json:"campus" validate:"omitempty,max=80"`
	Phone    *string `json:"phone" validate:"omitempty,max=32"`
}

// Update handles PUT /v1/profile.  Only the owner can change their profile;
// absent fields are left untouched, empty strings clear nullable columns.
func (h *ProfileHandler) Update(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req updateProfileReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Profiles.UpdateOwn(ctx, userID, req.FullName, req.Campus, req.Phone); err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "profile not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	p, err := h.Profiles.GetByUserID(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, toProfileResp(p))
}
