package main

import (
	"errors"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"lcflow/internal/adapter/queue"
)

func workersCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "workers",
		Short: "Deliver queued notification webhooks",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.cfg.WebhookURL == "" {
				return errors.New("workers need WEBHOOK_URL")
			}
			srv := queue.NewServer(a.redisOptions().Asynq(), a.cfg.WorkerConcurrency)
			h := queue.NewWebhookHandler(a.cfg.WebhookURL, a.cfg.WebhookHeaders, nil)

			logrus.WithFields(logrus.Fields{
				"concurrency": a.cfg.WorkerConcurrency,
				"queue":       queue.QueueWebhooks,
			}).Info("lcflow: starting workers")
			// Run blocks until SIGINT or SIGTERM.
			return srv.Run(queue.NewServeMux(h))
		},
	}
}
