package mysql

import (
	"context"

	notifDomain "lcflow/internal/domain/notification"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type NotificationRepository struct{ db *gorm.DB }

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(ctx context.Context, n *notifDomain.Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *NotificationRepository) GetByNotificationID(ctx context.Context, id string) (*notifDomain.Notification, error) {
	var out notifDomain.Notification
	res := r.db.WithContext(ctx).Where("notification_id = ?", id).First(&out)
	if res.Error != nil {
		return nil, res.Error
	}
	return &out, nil
}

// MarkRead only touches unread rows, so a second call reports zero.
func (r *NotificationRepository) MarkRead(ctx context.Context, id string) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&notifDomain.Notification{}).
		Where("notification_id = ? AND is_read = ?", id, false).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}

func (r *NotificationRepository) List(ctx context.Context, f notifDomain.Filter) ([]notifDomain.Notification, error) {
	q := r.db.WithContext(ctx).Model(&notifDomain.Notification{})
	if f.UnreadOnly {
		q = q.Where("is_read = ?", false)
	}
	if f.LCID != "" {
		q = q.Where("lc_id = ?", f.LCID)
	}
	var out []notifDomain.Notification
	err := q.Order("timestamp ASC, id ASC").Find(&out).Error
	return out, err
}

func (r *NotificationRepository) Upsert(ctx context.Context, n *notifDomain.Notification) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "notification_id"}}, UpdateAll: true}).
		Create(n).Error
}
