package notification

import (
	"context"
	"errors"
	"fmt"
	"time"

	domain "lcflow/internal/domain/notification"
	"lcflow/internal/domain/uow"
	"lcflow/pkg/id"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type AddInput struct {
	Type    domain.Type
	Title   string
	Message string
	LCID    string
}

type Usecase struct {
	repo       domain.Repository
	uow        uow.UnitOfWork
	dispatcher domain.Dispatcher
	now        func() time.Time
}

// NewUsecase: dispatcher may be nil.
func NewUsecase(r domain.Repository, tx uow.UnitOfWork, d domain.Dispatcher) *Usecase {
	return &Usecase{repo: r, uow: tx, dispatcher: d, now: time.Now}
}

func (u *Usecase) Add(ctx context.Context, in AddInput) (*domain.Notification, error) {
	if !in.Type.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidType, string(in.Type))
	}
	n := domain.New(id.WithPrefix("notif"), in.Type, in.Title, in.Message, in.LCID, u.now())
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		return r.Notifications.Create(ctx, n)
	})
	if err != nil {
		return nil, err
	}
	if u.dispatcher != nil {
		if err := u.dispatcher.Dispatch(ctx, *n); err != nil {
			logrus.WithField("notification_id", n.NotificationID).Warnf("dispatch notification: %v", err)
		}
	}
	return n, nil
}

// MarkAsRead is idempotent for notifications that are already read.
func (u *Usecase) MarkAsRead(ctx context.Context, notificationID string) error {
	n, err := u.repo.MarkRead(ctx, notificationID)
	if err != nil {
		return err
	}
	if n == 0 {
		// zero rows affected can also mean it was read already
		if _, err := u.repo.GetByNotificationID(ctx, notificationID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}
	}
	return nil
}

// Pending returns unread notifications, oldest first.
func (u *Usecase) Pending(ctx context.Context) ([]domain.Notification, error) {
	return u.repo.List(ctx, domain.Filter{UnreadOnly: true})
}

func (u *Usecase) List(ctx context.Context, f domain.Filter) ([]domain.Notification, error) {
	return u.repo.List(ctx, f)
}
