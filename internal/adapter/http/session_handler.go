package http

import (
	"net/http"
	"strings"

	mw "lcflow/internal/adapter/middleware"
	sessionuc "lcflow/internal/usecase/session"

	"github.com/labstack/echo/v4"
)

// SessionHandler keys every call on X-Session-Id.
type SessionHandler struct{ uc *sessionuc.Usecase }

func NewSessionHandler(uc *sessionuc.Usecase) *SessionHandler { return &SessionHandler{uc: uc} }

type setUserReq struct {
	User string `json:"user" validate:"omitempty,userid"`
}

type setRoleReq struct {
	Role string `json:"role" validate:"required,role"`
}

func sessionID(c echo.Context) string {
	return strings.TrimSpace(c.Request().Header.Get(mw.HeaderSessionID))
}

func (h *SessionHandler) Get(c echo.Context) error {
	s, err := h.uc.Get(c.Request().Context(), sessionID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, s)
}

func (h *SessionHandler) SetUser(c echo.Context) error {
	var req setUserReq
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, err)
	}
	s, err := h.uc.SetCurrentUser(c.Request().Context(), sessionID(c), req.User)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, s)
}

func (h *SessionHandler) SetRole(c echo.Context) error {
	var req setRoleReq
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, err)
	}
	s, err := h.uc.SetUserRole(c.Request().Context(), sessionID(c), req.Role)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, s)
}
