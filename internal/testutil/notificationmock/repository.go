package notificationmock

import (
	"context"

	domain "lcflow/internal/domain/notification"
)

var (
	_ domain.Repository = (*Repo)(nil)
	_ domain.Dispatcher = (*Dispatcher)(nil)
)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	CreateFn              func(ctx context.Context, n *domain.Notification) error
	GetByNotificationIDFn func(ctx context.Context, id string) (*domain.Notification, error)
	MarkReadFn            func(ctx context.Context, id string) (int64, error)
	ListFn                func(ctx context.Context, f domain.Filter) ([]domain.Notification, error)
	UpsertFn              func(ctx context.Context, n *domain.Notification) error
}

func (m *Repo) Create(ctx context.Context, n *domain.Notification) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, n)
	}
	return nil
}

func (m *Repo) GetByNotificationID(ctx context.Context, id string) (*domain.Notification, error) {
	if m.GetByNotificationIDFn != nil {
		return m.GetByNotificationIDFn(ctx, id)
	}
	return nil, context.Canceled
}

func (m *Repo) MarkRead(ctx context.Context, id string) (int64, error) {
	if m.MarkReadFn != nil {
		return m.MarkReadFn(ctx, id)
	}
	return 0, context.Canceled
}

func (m *Repo) List(ctx context.Context, f domain.Filter) ([]domain.Notification, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, f)
	}
	return nil, context.Canceled
}

func (m *Repo) Upsert(ctx context.Context, n *domain.Notification) error {
	if m.UpsertFn != nil {
		return m.UpsertFn(ctx, n)
	}
	return nil
}

// Dispatcher records every notification it is handed.
type Dispatcher struct {
	Err  error
	Sent []domain.Notification
}

func (d *Dispatcher) Dispatch(_ context.Context, n domain.Notification) error {
	d.Sent = append(d.Sent, n)
	return d.Err
}
