package lcmock

import (
	"context"

	domain "lcflow/internal/domain/lc"
)

var (
	_ domain.Repository     = (*Repo)(nil)
	_ domain.BlobRepository = (*BlobRepo)(nil)
)

// Repo is a function-backed mock that satisfies domain.Repository.
// Writes default to a no-op; reads default to context.Canceled.
type Repo struct {
	CreateFn             func(ctx context.Context, l *domain.LC) error
	GetByLCIDFn          func(ctx context.Context, lcID string) (*domain.LC, error)
	GetByLCIDForUpdateFn func(ctx context.Context, lcID string) (*domain.LC, error)
	ListFn               func(ctx context.Context, f domain.Filter) ([]domain.LC, error)
	SaveFn               func(ctx context.Context, l *domain.LC) error
	UpsertFn             func(ctx context.Context, l *domain.LC) error
}

func (m *Repo) Create(ctx context.Context, l *domain.LC) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, l)
	}
	return nil
}

func (m *Repo) GetByLCID(ctx context.Context, lcID string) (*domain.LC, error) {
	if m.GetByLCIDFn != nil {
		return m.GetByLCIDFn(ctx, lcID)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByLCIDForUpdate(ctx context.Context, lcID string) (*domain.LC, error) {
	if m.GetByLCIDForUpdateFn != nil {
		return m.GetByLCIDForUpdateFn(ctx, lcID)
	}
	return nil, context.Canceled
}

func (m *Repo) List(ctx context.Context, f domain.Filter) ([]domain.LC, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, f)
	}
	return nil, context.Canceled
}

func (m *Repo) Save(ctx context.Context, l *domain.LC) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, l)
	}
	return nil
}

func (m *Repo) Upsert(ctx context.Context, l *domain.LC) error {
	if m.UpsertFn != nil {
		return m.UpsertFn(ctx, l)
	}
	return nil
}

type BlobRepo struct {
	CreateFn          func(ctx context.Context, b *domain.DocumentBlob) error
	GetByDocumentIDFn func(ctx context.Context, documentID string) (*domain.DocumentBlob, error)
}

func (m *BlobRepo) Create(ctx context.Context, b *domain.DocumentBlob) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, b)
	}
	return nil
}

func (m *BlobRepo) GetByDocumentID(ctx context.Context, documentID string) (*domain.DocumentBlob, error) {
	if m.GetByDocumentIDFn != nil {
		return m.GetByDocumentIDFn(ctx, documentID)
	}
	return nil, context.Canceled
}
