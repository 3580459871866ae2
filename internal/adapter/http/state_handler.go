package http

import (
	"net/http"

	"lcflow/internal/usecase/snapshot"

	"github.com/labstack/echo/v4"
)

// StateHandler exposes the whole store as the "lc-store" blob.
type StateHandler struct{ uc *snapshot.Usecase }

func NewStateHandler(uc *snapshot.Usecase) *StateHandler { return &StateHandler{uc: uc} }

func (h *StateHandler) Export(c echo.Context) error {
	st, err := h.uc.Export(c.Request().Context(), sessionID(c))
	if err != nil {
		return writeError(c, err)
	}
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMEApplicationJSONCharsetUTF8)
	c.Response().WriteHeader(http.StatusOK)
	return snapshot.Encode(c.Response(), *st)
}

func (h *StateHandler) Import(c echo.Context) error {
	st, err := snapshot.Decode(c.Request().Body)
	if err != nil {
		return writeError(c, err)
	}
	if err := h.uc.Import(c.Request().Context(), sessionID(c), st); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
