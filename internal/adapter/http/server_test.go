package http

import (
	"bytes"
	"encoding/json"
	"io"
	stdhttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"lcflow/internal/adapter/chain"
	mw "lcflow/internal/adapter/middleware"
	mysqlrepo "lcflow/internal/adapter/repository/mysql"
	redisrepo "lcflow/internal/adapter/repository/redis"
	"lcflow/internal/domain/lc"
	"lcflow/internal/testutil/notificationmock"
	lcuc "lcflow/internal/usecase/lc"
	notifuc "lcflow/internal/usecase/notification"
	sessionuc "lcflow/internal/usecase/session"
	"lcflow/internal/usecase/snapshot"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// -------- helpers --------

type testServer struct {
	e    *echo.Echo
	db   *gorm.DB
	mr   *miniredis.Miniredis
	rdb  *goredis.Client
	sent *notificationmock.Dispatcher
}

type serverCfg struct{ noAnchor, roles, idempotent bool }

type serverOpt func(*serverCfg)

func withoutAnchorer() serverOpt { return func(c *serverCfg) { c.noAnchor = true } }

func withRoles() serverOpt { return func(c *serverCfg) { c.roles = true } }

func withIdempotency() serverOpt { return func(c *serverCfg) { c.idempotent = true } }

// newTestServer wires the real usecases over in-memory sqlite and miniredis.
func newTestServer(t *testing.T, opts ...serverOpt) *testServer {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, mysqlrepo.Migrate(db))

	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	lcs := mysqlrepo.NewLCRepository(db)
	blobs := mysqlrepo.NewBlobRepository(db)
	notes := mysqlrepo.NewNotificationRepository(db)
	sessions := redisrepo.NewSessionRepository(rdb, time.Hour)
	tx := mysqlrepo.NewGormUoW(db)
	sent := &notificationmock.Dispatcher{}

	var cfg serverCfg
	for _, o := range opts {
		o(&cfg)
	}

	d := Deps{EnforceRoles: cfg.roles}
	if cfg.idempotent {
		d.Idempotency = mw.Idempotency(rdb, time.Minute)
	}
	lcOpts := []lcuc.Option{lcuc.WithDispatcher(sent)}
	if !cfg.noAnchor {
		lcOpts = append(lcOpts, lcuc.WithAnchorer(chain.NewSimulated(7)))
	}
	d.LCs = lcuc.NewUsecase(lcs, blobs, tx, lcOpts...)
	d.Notifications = notifuc.NewUsecase(notes, tx, sent)
	d.Sessions = sessionuc.NewUsecase(sessions)
	d.Snapshot = snapshot.NewUsecase(lcs, notes, sessions, tx)

	return &testServer{e: NewServer(d), db: db, mr: mr, rdb: rdb, sent: sent}
}

func mustJSON(v any) *bytes.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

func (s *testServer) do(t *testing.T, method, path string, body io.Reader, hdr map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) doJSON(t *testing.T, method, path string, body any, hdr map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	if body == nil {
		return s.do(t, method, path, nil, hdr)
	}
	return s.do(t, method, path, mustJSON(body), hdr)
}

func nowRFC3339() string { return time.Now().UTC().Format(time.RFC3339) }

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), "raw=%s", rec.Body.String())
	return v
}

func sampleForm() lc.FormData {
	return lc.FormData{
		ApplicantName:      "Acme Imports",
		BeneficiaryName:    "Globex Exports",
		BeneficiaryCountry: "SG",
		LCType:             "irrevocable",
		LCAmount:           "1,500.50",
		Currency:           "USD",
		ContactEmail:       "ops@acme.example",
		DescriptionOfGoods: "Steel coils",
	}
}

// createLC posts a new LC and returns it.
func (s *testServer) createLC(t *testing.T) lc.LC {
	t.Helper()
	rec := s.doJSON(t, stdhttp.MethodPost, "/v1/lcs", map[string]any{
		"formData": sampleForm(),
		"userId":   "importer-1",
	}, nil)
	require.Equal(t, stdhttp.StatusCreated, rec.Code, rec.Body.String())
	return decode[lc.LC](t, rec)
}

func docsBody() map[string]any {
	return map[string]any{
		"userId": "exporter-1",
		"documents": []map[string]any{
			{"type": "INVOICE", "name": "invoice.pdf", "mimeType": "application/pdf", "content": []byte("%PDF-1.7 invoice")},
			{"type": "BILL_OF_LADING", "name": "bl.png", "mimeType": "image/png", "content": []byte("\x89PNG bill")},
		},
	}
}

func (s *testServer) submitDocs(t *testing.T, lcID string) lc.LC {
	t.Helper()
	rec := s.doJSON(t, stdhttp.MethodPost, "/v1/lcs/"+lcID+"/documents", docsBody(), nil)
	require.Equal(t, stdhttp.StatusOK, rec.Code, rec.Body.String())
	return decode[lc.LC](t, rec)
}
