package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"lcflow/internal/adapter/chain"
	mysqlrepo "lcflow/internal/adapter/repository/mysql"
	redisrepo "lcflow/internal/adapter/repository/redis"
	"lcflow/internal/domain/onchain"
	"lcflow/internal/domain/session"
	"lcflow/internal/infrastructure/cache"
	"lcflow/internal/infrastructure/db"
	lcuc "lcflow/internal/usecase/lc"
	"lcflow/internal/usecase/snapshot"
)

func (a *app) openDB() (*gorm.DB, error) {
	if a.db != nil {
		return a.db, nil
	}
	gdb, err := db.OpenGorm(a.cfg.DBDriver, a.cfg.DSN(), a.cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", a.cfg.DBDriver, err)
	}
	a.db = gdb
	return gdb, nil
}

func (a *app) openRedis() (*goredis.Client, error) {
	if a.rdb != nil {
		return a.rdb, nil
	}
	rdb, err := cache.OpenRedis(context.Background(), a.redisOptions())
	if err != nil {
		return nil, err
	}
	a.rdb = rdb
	return rdb, nil
}

func (a *app) redisOptions() cache.Options {
	return cache.Options{Addr: a.cfg.RedisAddr, Password: a.cfg.RedisPassword, DB: a.cfg.RedisDB}
}

func (a *app) anchorer() onchain.Anchorer {
	if a.cfg.AnchorMode == "relay" {
		return chain.NewRelay(chain.RelayConfig{
			URL:        a.cfg.RelayURL,
			APIKey:     a.cfg.RelayAPIKey,
			ChainID:    a.cfg.ChainID,
			MaxRetries: a.cfg.RelayMaxRetries,
			Timeout:    15 * time.Second,
		}, &http.Client{})
	}
	return chain.NewSimulated(time.Now().UnixNano())
}

// lcUsecase is the read/write LC usecase without anchoring or webhooks,
// enough for the offline commands.
func (a *app) lcUsecase() (*lcuc.Usecase, error) {
	gdb, err := a.openDB()
	if err != nil {
		return nil, err
	}
	return lcuc.NewUsecase(
		mysqlrepo.NewLCRepository(gdb),
		mysqlrepo.NewBlobRepository(gdb),
		mysqlrepo.NewGormUoW(gdb),
	), nil
}

// snapshotUsecase only touches redis when a session id is given.
func (a *app) snapshotUsecase(sessionID string) (*snapshot.Usecase, error) {
	gdb, err := a.openDB()
	if err != nil {
		return nil, err
	}
	var sessions session.Repository
	if sessionID != "" {
		rdb, err := a.openRedis()
		if err != nil {
			return nil, err
		}
		sessions = redisrepo.NewSessionRepository(rdb, a.cfg.SessionTTL())
	}
	return snapshot.NewUsecase(
		mysqlrepo.NewLCRepository(gdb),
		mysqlrepo.NewNotificationRepository(gdb),
		sessions,
		mysqlrepo.NewGormUoW(gdb),
	), nil
}

func pingDB(gdb *gorm.DB) func(context.Context) error {
	return func(ctx context.Context) error {
		sqlDB, err := gdb.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}
}

func pingRedis(rdb goredis.Cmdable) func(context.Context) error {
	return func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
}
