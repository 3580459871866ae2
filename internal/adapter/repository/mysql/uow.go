package mysql

import (
	"context"

	"lcflow/internal/domain/lc"
	"lcflow/internal/domain/notification"
	"lcflow/internal/domain/uow"

	"gorm.io/gorm"
)

var _ uow.UnitOfWork = (*GormUoW)(nil)

type GormUoW struct{ db *gorm.DB }

func NewGormUoW(db *gorm.DB) *GormUoW { return &GormUoW{db: db} }

func reposFor(tx *gorm.DB) uow.Repos {
	return uow.Repos{
		LCs:           &LCRepository{db: tx},
		Blobs:         &BlobRepository{db: tx},
		Notifications: &NotificationRepository{db: tx},
	}
}

func (u *GormUoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(reposFor(tx))
	})
}

func (u *GormUoW) WithinLCTx(ctx context.Context, lcID string, fn func(r uow.Repos, l *lc.LC) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := reposFor(tx)
		// lock the LC row up-front to prevent races
		l, err := r.LCs.GetByLCIDForUpdate(ctx, lcID)
		if err != nil {
			return err
		}
		return fn(r, l)
	})
}

// Migrate creates or updates every table the repositories use.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&lc.LC{}, &lc.DocumentBlob{}, &notification.Notification{})
}
