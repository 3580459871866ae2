package http

import (
	"net/http"
	"strconv"
	"strings"

	"lcflow/internal/domain/notification"
	notifuc "lcflow/internal/usecase/notification"

	"github.com/labstack/echo/v4"
)

type NotificationHandler struct{ uc *notifuc.Usecase }

func NewNotificationHandler(uc *notifuc.Usecase) *NotificationHandler {
	return &NotificationHandler{uc: uc}
}

type addNotificationReq struct {
	Type    string `json:"type"    validate:"required,notiftype"`
	Title   string `json:"title"   validate:"required,max=255"`
	Message string `json:"message" validate:"max=2000"`
	LCID    string `json:"lcId"    validate:"max=64"`
}

func (h *NotificationHandler) List(c echo.Context) error {
	f := notification.Filter{LCID: strings.TrimSpace(c.QueryParam("lc_id"))}
	if raw := c.QueryParam("unread"); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "unread must be a boolean"})
		}
		f.UnreadOnly = b
	}
	out, err := h.uc.List(c.Request().Context(), f)
	if err != nil {
		return writeError(c, err)
	}
	if out == nil {
		out = []notification.Notification{}
	}
	return c.JSON(http.StatusOK, out)
}

func (h *NotificationHandler) Add(c echo.Context) error {
	var req addNotificationReq
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, err)
	}
	out, err := h.uc.Add(c.Request().Context(), notifuc.AddInput{
		Type:    notification.Type(req.Type),
		Title:   req.Title,
		Message: req.Message,
		LCID:    req.LCID,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *NotificationHandler) MarkRead(c echo.Context) error {
	if err := h.uc.MarkAsRead(c.Request().Context(), c.Param("id")); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
