package handler

import (
	"context"  // provides context with cancellation for DB calls
	"errors"   // sentinel error matching
	"log/slog" // structured request logging
	"net/http" // HTTP status codes and primitives
	"strings"  // string manipulation utilities
	"time"     // timeouts for DB calls

	"github.com/labstack/echo/v4" // Echo framework for HTTP routing

	"github.com/kashmirakothariai/Foundee/internal/authn"
	"github.com/kashmirakothariai/Foundee/internal/config"
	"github.com/kashmirakothariai/Foundee/internal/model"
	"github.com/kashmirakothariai/Foundee/internal/repository"
	"github.com/kashmirakothariai/Foundee/internal/utils"
)

// AuthHandler bundles dependencies for the login endpoints.
type AuthHandler struct {
	Cfg      config.Config
	Users    UserStore
	Verifier authn.TokenVerifier
	Logger   *slog.Logger
}

func NewAuthHandler(cfg config.Config, users UserStore, verifier authn.TokenVerifier, logger *slog.Logger) *AuthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandler{Cfg: cfg, Users: users, Verifier: verifier, Logger: logger}
}

// ----- DTOs -----

type googleLoginReq struct {
	Token string `json:"token"`
}
type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
type tokenResp struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// GoogleLogin verifies a Google ID token and logs the user in, creating
// the account and its empty profile on first sight of the email.
func (h *AuthHandler) GoogleLogin(c echo.Context) error {
	var req googleLoginReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Token) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "token required"})
	}

	ident, err := h.Verifier.Verify(c.Request().Context(), req.Token)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid google token"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, ident.Email)
	switch {
	case err == nil:
		// existing account
	case errors.Is(err, repository.ErrNotFound):
		u, err = h.Users.CreateWithProfile(ctx, ident.Name, ident.Email, nil, model.RoleUser)
		if errors.Is(err, repository.ErrEmailExists) {
			// Lost a signup race for the same email; the account exists now.
			u, err = h.Users.GetByEmail(ctx, ident.Email)
		}
		if err != nil {
			h.Logger.Error("google login: create user failed", "email", ident.Email, "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
		}
		h.Logger.Info("google login: new account", "user_id", u.ID)
	default:
		h.Logger.Error("google login: user lookup failed", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, u.Email, u.Role, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue token failed"})
	}
	return c.JSON(http.StatusOK, tokenResp{AccessToken: access.Token, TokenType: "bearer"})
}

// Login authenticates with email and password.  Unknown email, an
// OAuth-only account without a password hash, and a wrong password all
// produce the identical 401 body so callers cannot probe which emails
// are registered.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		h.Logger.Error("login: user lookup failed", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if u.PasswordHash == nil || !utils.VerifyPassword(*u.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, u.Email, u.Role, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue token failed"})
	}
	return c.JSON(http.StatusOK, tokenResp{AccessToken: access.Token, TokenType: "bearer"})
}
