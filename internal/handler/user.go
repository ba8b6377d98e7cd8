package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kashmirakothariai/Foundee/internal/middleware"
	"github.com/kashmirakothariai/Foundee/internal/model"
	"github.com/kashmirakothariai/Foundee/internal/repository"
)

// UserHandler serves the current user's account and profile endpoints.
type UserHandler struct {
	Users    UserStore
	Profiles ProfileStore
	Logger   *slog.Logger
}

func NewUserHandler(users UserStore, profiles ProfileStore, logger *slog.Logger) *UserHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserHandler{Users: users, Profiles: profiles, Logger: logger}
}

// ----- DTOs -----

type userResp struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email_id"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"active_flag"`
	CreatedAt time.Time `json:"crt_dt"`
	UpdatedAt time.Time `json:"lst_updt_dt"`
}

type profileResp struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	FirstName   *string   `json:"first_name"`
	LastName    *string   `json:"last_name"`
	MobileNo    *string   `json:"mobile_no"`
	Address     *string   `json:"address"`
	Email       *string   `json:"email_id"`
	BloodGroup  *string   `json:"blood_grp"`
	CompanyName *string   `json:"company_name"`
	Description *string   `json:"description"`
	IsActive    bool      `json:"active_flag"`
	CreatedAt   time.Time `json:"crt_dt"`
	UpdatedAt   time.Time `json:"lst_updt_dt"`
}

func toProfileResp(p model.Profile) profileResp {
	return profileResp{
		ID:          p.ID,
		UserID:      p.UserID,
		FirstName:   p.FirstName,
		LastName:    p.LastName,
		MobileNo:    p.MobileNo,
		Address:     p.Address,
		Email:       p.Email,
		BloodGroup:  p.BloodGroup,
		CompanyName: p.CompanyName,
		Description: p.Description,
		IsActive:    p.IsActive,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// currentUserID reads the authenticated user id injected by the JWT
// middleware.  Empty string means anonymous.
func currentUserID(c echo.Context) string {
	if v, ok := c.Get(middleware.CtxUserID).(string); ok {
		return v
	}
	return ""
}

// Me returns the current user_login record, minus the password hash.
func (h *UserHandler) Me(c echo.Context) error {
	uid := currentUserID(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Valid token for an account that no longer exists.
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
		}
		h.Logger.Error("me: user lookup failed", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, userResp{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	})
}

// GetDetails returns the caller's canonical profile.
func (h *UserHandler) GetDetails(c echo.Context) error {
	uid := currentUserID(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	p, err := h.Profiles.GetCanonicalByUser(ctx, uid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user details not found"})
		}
		h.Logger.Error("get details: profile lookup failed", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, toProfileResp(p))
}

// UpdateDetails applies a partial update to the caller's canonical
// profile.  Fields absent from the body stay untouched; fields sent as
// null are cleared.
func (h *UserHandler) UpdateDetails(c echo.Context) error {
	uid := currentUserID(c)

	var patch model.ProfilePatch
	if err := c.Bind(&patch); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	p, err := h.Profiles.GetCanonicalByUser(ctx, uid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user details not found"})
		}
		h.Logger.Error("update details: profile lookup failed", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	if patch.Apply(&p) > 0 {
		if err := h.Profiles.Update(ctx, &p, uid); err != nil {
			h.Logger.Error("update details: write failed", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
		}
	}
	return c.JSON(http.StatusOK, toProfileResp(p))
}
