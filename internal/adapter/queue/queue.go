package queue

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"lcflow/internal/domain/notification"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"
)

const (
	TypeNotificationWebhook = "notification:webhook"
	QueueWebhooks           = "webhooks"
)

// Webhook is the body posted to the subscriber.
type Webhook struct {
	Event   string                    `json:"event"`
	Payload notification.Notification `json:"data"`
}

func eventFor(t notification.Type) string {
	return "notification." + strings.ToLower(string(t))
}

type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

var _ notification.Dispatcher = (*Dispatcher)(nil)

// Dispatcher turns committed notifications into webhook tasks.
type Dispatcher struct {
	client   Enqueuer
	maxRetry int
}

func NewDispatcher(c Enqueuer, maxRetry int) *Dispatcher {
	return &Dispatcher{client: c, maxRetry: maxRetry}
}

func (d *Dispatcher) Dispatch(ctx context.Context, n notification.Notification) error {
	payload, err := json.Marshal(Webhook{Event: eventFor(n.Type), Payload: n})
	if err != nil {
		return err
	}
	task := asynq.NewTask(TypeNotificationWebhook, payload, asynq.Queue(QueueWebhooks))
	info, err := d.client.EnqueueContext(ctx, task, asynq.MaxRetry(d.maxRetry), asynq.TaskID(n.NotificationID))
	if err != nil {
		return fmt.Errorf("enqueue webhook: %w", err)
	}
	logrus.WithFields(logrus.Fields{"task_id": info.ID, "queue": info.Queue}).Debug("webhook queued")
	return nil
}

// WebhookHandler posts queued notifications to the configured URL.
type WebhookHandler struct {
	url     string
	headers map[string]string
	client  *http.Client
}

func NewWebhookHandler(url string, headers map[string]string, client *http.Client) *WebhookHandler {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &WebhookHandler{url: url, headers: headers, client: client}
}

// ProcessTask retries on transport errors and 5xx; 4xx are dropped.
func (h *WebhookHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var w Webhook
	if err := json.Unmarshal(t.Payload(), &w); err != nil {
		return fmt.Errorf("decode webhook: %v: %w", err, asynq.SkipRetry)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.url, bytes.NewReader(t.Payload()))
	if err != nil {
		return fmt.Errorf("build webhook request: %v: %w", err, asynq.SkipRetry)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range h.headers {
		req.Header.Set(k, v)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, resp.Body)

	switch {
	case resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("webhook status %d", resp.StatusCode)
	case resp.StatusCode >= 300:
		logrus.WithField("notification_id", w.Payload.NotificationID).
			Warnf("webhook rejected with status %d", resp.StatusCode)
		return fmt.Errorf("webhook status %d: %w", resp.StatusCode, asynq.SkipRetry)
	}
	logrus.WithFields(logrus.Fields{"event": w.Event, "notification_id": w.Payload.NotificationID}).Info("webhook delivered")
	return nil
}

func NewServer(opt asynq.RedisClientOpt, concurrency int) *asynq.Server {
	return asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues:      map[string]int{QueueWebhooks: 1},
	})
}

func NewServeMux(h *WebhookHandler) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.Handle(TypeNotificationWebhook, h)
	return mux
}
