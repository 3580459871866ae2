package sessionmock

import (
	"context"

	domain "lcflow/internal/domain/session"
)

var _ domain.Repository = (*Repo)(nil)

type Repo struct {
	GetFn      func(ctx context.Context, id string) (domain.Session, error)
	SetFieldFn func(ctx context.Context, id, field, value string) error
}

func (m *Repo) Get(ctx context.Context, id string) (domain.Session, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, id)
	}
	return domain.Session{}, context.Canceled
}

func (m *Repo) SetField(ctx context.Context, id, field, value string) error {
	if m.SetFieldFn != nil {
		return m.SetFieldFn(ctx, id, field, value)
	}
	return nil
}
