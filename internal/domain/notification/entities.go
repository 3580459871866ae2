package notification

import (
	"errors"
	"time"
)

var (
	ErrNotFound    = errors.New("notification not found")
	ErrInvalidType = errors.New("invalid notification type")
)

type Type string

const (
	TypeLCCreated             Type = "LC_CREATED"
	TypeExporterDocsSubmitted Type = "EXPORTER_DOCS_SUBMITTED"
	TypeAdminApproved         Type = "ADMIN_APPROVED"
	TypeShipmentStarted       Type = "SHIPMENT_STARTED"
	TypeShipmentCompleted     Type = "SHIPMENT_COMPLETED"
)

func (t Type) Valid() bool {
	switch t {
	case TypeLCCreated, TypeExporterDocsSubmitted, TypeAdminApproved,
		TypeShipmentStarted, TypeShipmentCompleted:
		return true
	}
	return false
}

// Table: notifications. Append-only; only Read ever changes.
type Notification struct {
	ID             uint64    `gorm:"primaryKey;column:id" json:"-"`
	NotificationID string    `gorm:"column:notification_id;size:64;not null;uniqueIndex:ux_notifications_notification_id" json:"id"`
	Type           Type      `gorm:"column:type;size:32;not null" json:"type"`
	Title          string    `gorm:"column:title;size:255;not null" json:"title"`
	Message        string    `gorm:"column:message;type:text" json:"message"`
	Timestamp      time.Time `gorm:"column:timestamp;not null;index:idx_notifications_timestamp" json:"timestamp"`
	// "read" is reserved in MySQL
	Read bool   `gorm:"column:is_read;not null;default:false;index:idx_notifications_is_read" json:"read"`
	LCID string `gorm:"column:lc_id;size:64;index:idx_notifications_lc_id" json:"lcId,omitempty"`
}

func (Notification) TableName() string { return "notifications" }

type Filter struct {
	UnreadOnly bool
	LCID       string
}

// New builds an unread notification stamped at now.
func New(id string, t Type, title, message, lcID string, now time.Time) *Notification {
	return &Notification{
		NotificationID: id,
		Type:           t,
		Title:          title,
		Message:        message,
		Timestamp:      now.UTC(),
		LCID:           lcID,
	}
}
