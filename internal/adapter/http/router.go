package http

import (
	mw "lcflow/internal/adapter/middleware"
	"lcflow/internal/domain/session"
	lcuc "lcflow/internal/usecase/lc"
	notifuc "lcflow/internal/usecase/notification"
	sessionuc "lcflow/internal/usecase/session"
	"lcflow/internal/usecase/snapshot"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// documents arrive base64 encoded, up to 20 files of 10 MiB each
const bodyLimit = "300M"

type Deps struct {
	LCs           *lcuc.Usecase
	Notifications *notifuc.Usecase
	Sessions      *sessionuc.Usecase
	Snapshot      *snapshot.Usecase

	// Health probes, keyed by dependency name.
	Checks map[string]Check

	// Optional, nil disables.
	Idempotency echo.MiddlewareFunc
	RateLimit   echo.MiddlewareFunc

	EnforceRoles bool
}

func NewServer(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = NewValidator()

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit(bodyLimit))
	if d.RateLimit != nil {
		e.Use(d.RateLimit)
	}

	RegisterRoutes(e, d)
	return e
}

func RegisterRoutes(e *echo.Echo, d Deps) {
	h := NewHandler(d.Checks)
	e.GET("/health", h.Health)

	v1 := e.Group("/v1")
	if d.Idempotency != nil {
		v1.Use(d.Idempotency)
	}
	role := func(roles ...session.Role) echo.MiddlewareFunc {
		return mw.RequireRole(d.EnforceRoles, roles...)
	}

	lcs := NewLCHandler(d.LCs)
	v1.POST("/lcs", lcs.Create, role(session.RoleImporter))
	v1.GET("/lcs", lcs.List)
	v1.GET("/lcs/summary", lcs.Summary)
	v1.GET("/lcs/:lc_id", lcs.Get)
	v1.POST("/lcs/:lc_id/documents", lcs.SubmitDocuments, role(session.RoleExporter))
	v1.GET("/lcs/:lc_id/documents/:doc_id", lcs.DownloadDocument)
	v1.POST("/lcs/:lc_id/approve", lcs.Approve, role(session.RoleAdmin))
	v1.POST("/lcs/:lc_id/shipment", lcs.UpdateShipment, role(session.RoleShipmentProvider))

	notes := NewNotificationHandler(d.Notifications)
	v1.GET("/notifications", notes.List)
	v1.POST("/notifications", notes.Add, role(session.RoleAdmin))
	v1.POST("/notifications/:id/read", notes.MarkRead)

	if d.Sessions != nil {
		s := NewSessionHandler(d.Sessions)
		v1.GET("/session", s.Get)
		v1.PUT("/session/user", s.SetUser)
		v1.PUT("/session/role", s.SetRole)
	}

	st := NewStateHandler(d.Snapshot)
	v1.GET("/state", st.Export)
	v1.PUT("/state", st.Import, role(session.RoleAdmin))
}
