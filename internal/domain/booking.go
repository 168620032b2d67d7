package domain

import "time"

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
	BookingRefunded  BookingStatus = "refunded"
)

// IsTerminal reports whether no further status transition is allowed.
func (s BookingStatus) IsTerminal() bool {
	return s == BookingCompleted || s == BookingCancelled || s == BookingRefunded
}

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

func ValidPaymentStatus(s PaymentStatus) bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentFailed, PaymentRefunded:
		return true
	}
	return false
}

// AllowedShowDurations are the bookable private-show lengths, in minutes.
var AllowedShowDurations = []int{30, 60, 90}

func ValidShowDuration(minutes int) bool {
	for _, d := range AllowedShowDurations {
		if d == minutes {
			return true
		}
	}
	return false
}

// Booking is a scheduled one-on-one private show slot.
// Non-cancelled bookings for the same host must never overlap in
// [scheduled_at, scheduled_at+duration); payment_reference is the
// idempotency key for payment-provider callbacks.
type Booking struct {
	ID              int64         `json:"id" gorm:"primaryKey"`
	UserID          int64         `json:"user_id" gorm:"not null;index"`
	HostID          int64         `json:"host_id" gorm:"not null;index"`
	DurationMinutes int           `json:"duration_minutes" gorm:"not null"`
	Price           float64       `json:"price" gorm:"not null"`
	ScheduledAt     time.Time     `json:"scheduled_at" gorm:"not null;index"`
	EndsAt          time.Time     `json:"ends_at" gorm:"not null"`
	PaymentMethod   string        `json:"payment_method" gorm:"size:32"`
	Status          BookingStatus `json:"status" gorm:"size:16;not null;index"`
	PaymentStatus   PaymentStatus `json:"payment_status" gorm:"size:16;not null"`

	// External payment transaction id; unique when present.
	PaymentReference *string `json:"payment_reference,omitempty" gorm:"size:128;uniqueIndex"`

	ChannelName string `json:"channel_name,omitempty" gorm:"size:80"`

	HostEarnings      float64 `json:"host_earnings"`
	PlatformFee       float64 `json:"platform_fee"`
	CommissionPercent float64 `json:"commission_percent"`

	Rating   *int    `json:"rating,omitempty"`
	Feedback *string `json:"feedback,omitempty" gorm:"type:text"`

	ShowEndedAt        *time.Time `json:"show_ended_at,omitempty"`
	CancelledAt        *time.Time `json:"cancelled_at,omitempty"`
	CancellationReason string     `json:"cancellation_reason,omitempty" gorm:"type:text"`
	AvailabilityRef    string     `json:"availability_ref,omitempty" gorm:"size:128"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Booking) TableName() string { return "bookings" }

// HostSchedule anchors the per-host row lock that serializes every
// mutation of that host's booking set. One row per host, created lazily.
type HostSchedule struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	HostID    int64     `json:"host_id" gorm:"not null;uniqueIndex"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (HostSchedule) TableName() string { return "host_schedules" }
