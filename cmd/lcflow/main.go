package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"lcflow/internal/config"
	"lcflow/internal/infrastructure/logging"

	goredis "github.com/redis/go-redis/v9"
)

type app struct {
	cfgPath string
	cfg     *config.Config

	db  *gorm.DB
	rdb *goredis.Client
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "lcflow",
		Short:         "Letter of Credit lifecycle service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load()
		},
	}
	root.PersistentFlags().StringVar(&a.cfgPath, "config", "lcflow.yaml", "configuration file")

	root.AddCommand(
		serveCmd(a),
		workersCmd(a),
		migrateCmd(a),
		exportCmd(a),
		importCmd(a),
		lcsCmd(a),
	)
	return root
}

func (a *app) load() error {
	cfg, err := config.Load(a.cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if err := logging.Setup(cfg.LogLevel, cfg.LogFormat, nil); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	a.cfg = cfg
	return nil
}

func (a *app) close() {
	if a.db != nil {
		if sqlDB, err := a.db.DB(); err == nil {
			_ = sqlDB.Close()
		}
		a.db = nil
	}
	if a.rdb != nil {
		_ = a.rdb.Close()
		a.rdb = nil
	}
}

func recoverPanic() {
	if r := recover(); r != nil {
		logrus.WithField("panic", r).Error("lcflow: recovered from panic")
		os.Exit(1)
	}
}

func main() {
	defer recoverPanic()

	a := &app{}
	err := newRootCmd(a).Execute()
	a.close()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
