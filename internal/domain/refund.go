package domain

import "time"

type RefundStatus string

const (
	RefundPending   RefundStatus = "pending"
	RefundApproved  RefundStatus = "approved"
	RefundRejected  RefundStatus = "rejected"
	RefundCompleted RefundStatus = "completed"
)

// Resolved reports whether the refund has already been decided.
func (s RefundStatus) Resolved() bool {
	return s != RefundPending
}

// Refund is a request/record tied to exactly one booking.
type Refund struct {
	ID          int64        `json:"id" gorm:"primaryKey"`
	BookingID   int64        `json:"booking_id" gorm:"not null;index"`
	Amount      float64      `json:"amount" gorm:"not null"`
	Reason      string       `json:"reason" gorm:"type:text"`
	Status      RefundStatus `json:"status" gorm:"size:16;not null;index"`
	ProcessedBy *int64       `json:"processed_by,omitempty"`
	ProcessedAt *time.Time   `json:"processed_at,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

func (Refund) TableName() string { return "refunds" }
