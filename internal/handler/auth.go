package handler

import (
	"context"      // context with cancellation for DB calls
	"database/sql" // sentinel errors returned from the repository
	"net/http"     // HTTP status codes and primitives
	"strings"      // string manipulation utilities
	"time"         // timeouts for DB calls

	"github.com/labstack/echo/v4" // Echo framework for HTTP routing

	"github.com/printforge/print-shop-service/internal/config"
	"github.com/printforge/print-shop-service/internal/repository"
	"github.com/printforge/print-shop-service/internal/utils"
)

// AuthHandler bundles dependencies for staff authentication.  The
// service exposes a single login endpoint: staff exchange username and
// password for a short lived bearer token that unlocks the admin
// routes.
type AuthHandler struct {
	Cfg   config.Config
	Staff *repository.StaffRepo
}

func NewAuthHandler(cfg config.Config, s *repository.StaffRepo) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Staff: s}
}

// ----- DTOs -----

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}

type loginResp struct {
	Username string    `json:"username"`
	Access   tokenPart `json:"access"`
}

// Login: verify staff credentials and return an access token.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Username = strings.ToLower(strings.TrimSpace(req.Username))
	if req.Username == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Staff.GetByUsername(ctx, req.Username)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	access, err := utils.NewStaffToken(h.Cfg.JWTSecret, u.ID, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
	}

	return c.JSON(http.StatusOK, loginResp{
		Username: u.Username,
		Access:   tokenPart{Token: access.Token, Expires: access.Exp},
	})
}
