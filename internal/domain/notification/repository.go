package notification

import "context"

type Repository interface {
	Create(ctx context.Context, n *Notification) error
	GetByNotificationID(ctx context.Context, id string) (*Notification, error)
	// MarkRead returns the number of rows matched.
	MarkRead(ctx context.Context, id string) (int64, error)
	// oldest first
	List(ctx context.Context, f Filter) ([]Notification, error)
	Upsert(ctx context.Context, n *Notification) error
}

// Dispatcher hands a committed notification to an out-of-band channel.
type Dispatcher interface {
	Dispatch(ctx context.Context, n Notification) error
}
