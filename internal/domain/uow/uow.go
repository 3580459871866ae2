package uow

import (
	"context"

	"lcflow/internal/domain/lc"
	"lcflow/internal/domain/notification"
)

type Repos struct {
	LCs           lc.Repository
	Blobs         lc.BlobRepository
	Notifications notification.Repository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// lock the LC row first, then pass it in
	WithinLCTx(ctx context.Context, lcID string, fn func(r Repos, l *lc.LC) error) error
}
