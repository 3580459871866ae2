package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	httpadp "lcflow/internal/adapter/http"
	mw "lcflow/internal/adapter/middleware"
	"lcflow/internal/adapter/queue"
	mysqlrepo "lcflow/internal/adapter/repository/mysql"
	redisrepo "lcflow/internal/adapter/repository/redis"
	"lcflow/internal/domain/notification"
	lcuc "lcflow/internal/usecase/lc"
	notifuc "lcflow/internal/usecase/notification"
	sessionuc "lcflow/internal/usecase/session"
	"lcflow/internal/usecase/snapshot"
)

// idle rate limiter buckets are dropped after this long
const rateLimitTTL = time.Hour

func serveCmd(a *app) *cobra.Command {
	var autoMigrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx, autoMigrate)
		},
	}
	cmd.Flags().BoolVar(&autoMigrate, "migrate", false, "run schema migrations before serving")
	return cmd
}

func (a *app) serve(ctx context.Context, autoMigrate bool) error {
	cfg := a.cfg

	gdb, err := a.openDB()
	if err != nil {
		return err
	}
	if autoMigrate {
		if err := mysqlrepo.Migrate(gdb); err != nil {
			return err
		}
	}
	rdb, err := a.openRedis()
	if err != nil {
		return err
	}

	lcs := mysqlrepo.NewLCRepository(gdb)
	notes := mysqlrepo.NewNotificationRepository(gdb)
	sessions := redisrepo.NewSessionRepository(rdb, cfg.SessionTTL())
	tx := mysqlrepo.NewGormUoW(gdb)

	var dispatcher notification.Dispatcher
	if cfg.WebhookURL != "" {
		client := asynq.NewClient(a.redisOptions().Asynq())
		defer func() { _ = client.Close() }()
		dispatcher = queue.NewDispatcher(client, cfg.WebhookMaxRetry)
	}

	d := httpadp.Deps{
		LCs: lcuc.NewUsecase(lcs, mysqlrepo.NewBlobRepository(gdb), tx,
			lcuc.WithAnchorer(a.anchorer()),
			lcuc.WithDispatcher(dispatcher),
		),
		Notifications: notifuc.NewUsecase(notes, tx, dispatcher),
		Sessions:      sessionuc.NewUsecase(sessions),
		Snapshot:      snapshot.NewUsecase(lcs, notes, sessions, tx),
		Checks: map[string]httpadp.Check{
			"db":    pingDB(gdb),
			"redis": pingRedis(rdb),
		},
		EnforceRoles: cfg.EnforceRoles,
	}
	if !cfg.IdempDisabled {
		d.Idempotency = mw.Idempotency(rdb, cfg.IdempotencyTTL())
	}
	if cfg.RateLimitRPS > 0 {
		d.RateLimit = mw.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst, rateLimitTTL)
	}

	e := httpadp.NewServer(d)

	errCh := make(chan error, 1)
	go func() {
		addr := ":" + cfg.AppPort
		logrus.WithFields(logrus.Fields{
			"addr":   addr,
			"anchor": cfg.AnchorMode,
			"db":     cfg.DBDriver,
		}).Info("lcflow: listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logrus.Info("lcflow: shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
	defer cancel()
	return e.Shutdown(sctx)
}
