package lc

import "context"

type Repository interface {
	Create(ctx context.Context, l *LC) error
	GetByLCID(ctx context.Context, lcID string) (*LC, error)
	// row lock; callers must be inside a transaction
	GetByLCIDForUpdate(ctx context.Context, lcID string) (*LC, error)
	List(ctx context.Context, f Filter) ([]LC, error)
	Save(ctx context.Context, l *LC) error
	// Upsert by public lc_id, used when rehydrating a snapshot.
	Upsert(ctx context.Context, l *LC) error
}

type BlobRepository interface {
	Create(ctx context.Context, b *DocumentBlob) error
	GetByDocumentID(ctx context.Context, documentID string) (*DocumentBlob, error)
}
