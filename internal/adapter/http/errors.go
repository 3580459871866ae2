package http

import (
	"errors"
	"net/http"

	"lcflow/internal/domain/lc"
	"lcflow/internal/domain/notification"
	"lcflow/internal/domain/onchain"
	"lcflow/internal/domain/session"
	lcuc "lcflow/internal/usecase/lc"
	"lcflow/internal/usecase/snapshot"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// Map domain errors → HTTP codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, lc.ErrNotFound),
		errors.Is(err, lc.ErrDocumentNotFound),
		errors.Is(err, notification.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, lc.ErrInvalidTransition),
		errors.Is(err, lc.ErrAlreadyApproved),
		errors.Is(err, lc.ErrDocsAlreadySubmitted):
		return http.StatusConflict
	case errors.Is(err, lc.ErrInvalidDocument),
		errors.Is(err, onchain.ErrEmptyBatch):
		return http.StatusUnprocessableEntity
	case errors.Is(err, lc.ErrInvalidStatus),
		errors.Is(err, lc.ErrInvalidPhase),
		errors.Is(err, notification.ErrInvalidType),
		errors.Is(err, session.ErrInvalidRole),
		errors.Is(err, session.ErrMissingID),
		errors.Is(err, snapshot.ErrInvalidSnapshot):
		return http.StatusBadRequest
	case errors.Is(err, lcuc.ErrNoAnchorer):
		return http.StatusServiceUnavailable
	case errors.Is(err, lcuc.ErrAnchorFailed):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func writeError(c echo.Context, err error) error {
	code := statusFor(err)
	if code >= http.StatusInternalServerError {
		logrus.WithFields(logrus.Fields{
			"method": c.Request().Method,
			"path":   c.Path(),
			"status": code,
		}).Errorf("request failed: %v", err)
	}
	if code == http.StatusInternalServerError {
		return c.JSON(code, ErrorResponse{Error: "internal error"})
	}
	return c.JSON(code, ErrorResponse{Error: err.Error()})
}

func invalidBody(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
}

func validationFailed(c echo.Context, err error) error {
	return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
		Error:   "validation failed",
		Details: ToFieldErrors(err),
	})
}
