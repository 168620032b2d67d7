package domain

import (
	"encoding/json"
	"time"
)

type NotificationTemplate string

const (
	NotifBookingCreated   NotificationTemplate = "booking_created"
	NotifBookingCancelled NotificationTemplate = "booking_cancelled"
	NotifBookingCompleted NotificationTemplate = "booking_completed"
	NotifFeedbackReceived NotificationTemplate = "feedback_received"
	NotifRefundRequested  NotificationTemplate = "refund_requested"
	NotifRefundResolved   NotificationTemplate = "refund_resolved"
)

// Notification is a queued best-effort message to a user. Delivery is the
// dispatch collaborator's concern; the core only appends rows.
type Notification struct {
	ID        int64                `json:"id" gorm:"primaryKey"`
	UserID    int64                `json:"user_id" gorm:"not null;index:idx_notifications_user_unread"`
	Template  NotificationTemplate `json:"template" gorm:"size:48;not null"`
	Data      json.RawMessage      `json:"data,omitempty" gorm:"type:text"`
	IsRead    bool                 `json:"is_read" gorm:"index:idx_notifications_user_unread"`
	ReadAt    *time.Time           `json:"read_at,omitempty"`
	CreatedAt time.Time            `json:"created_at"`
}

func (Notification) TableName() string { return "notifications" }
