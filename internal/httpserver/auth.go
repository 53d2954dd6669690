package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/minimarket/storefront/internal/auth"
	"github.com/minimarket/storefront/internal/logging"
	"github.com/minimarket/storefront/internal/models"
)

type AuthHandler struct {
	Svc *auth.Service
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func tokenResponse(token string, user *models.User) map[string]any {
	return map[string]any{
		"token": token,
		"user":  map[string]string{"id": user.ID, "username": user.Username},
	}
}

func (h *AuthHandler) Signup(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.signup")

	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("signup_error", "status", 400, "error", err)
		return errorJSON(c, http.StatusBadRequest, "invalid body")
	}
	if req.Username == "" || req.Password == "" {
		return errorJSON(c, http.StatusBadRequest, "username and password required")
	}

	token, user, err := h.Svc.Signup(ctx, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrUsernameTaken) {
			return errorJSON(c, http.StatusConflict, "username already exists")
		}
		l.Error("signup_error", "status", 500, "error", err)
		return errorJSON(c, http.StatusInternalServerError, "internal error")
	}

	return c.JSON(http.StatusOK, tokenResponse(token, user))
}

func (h *AuthHandler) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "error", err)
		return errorJSON(c, http.StatusBadRequest, "invalid body")
	}
	if req.Username == "" || req.Password == "" {
		return errorJSON(c, http.StatusBadRequest, "username and password required")
	}

	token, user, err := h.Svc.Login(ctx, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return errorJSON(c, http.StatusUnauthorized, "invalid credentials")
		}
		l.Error("login_error", "status", 500, "error", err)
		return errorJSON(c, http.StatusInternalServerError, "internal error")
	}

	return c.JSON(http.StatusOK, tokenResponse(token, user))
}
