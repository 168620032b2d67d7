package booking

import "time"

type CreateBookingBody struct {
	HostID          int64     `json:"host_id" binding:"required"`
	DurationMinutes int       `json:"duration_minutes" binding:"required"`
	ScheduledAt     time.Time `json:"scheduled_at" binding:"required"`
	PaymentMethod   string    `json:"payment_method"`
	PaymentStatus   string    `json:"payment_status"`
}

type PaymentUpdateBody struct {
	PaymentStatus string  `json:"payment_status" binding:"required"`
	Reference     *string `json:"reference"`
}

type CancelBody struct {
	Reason string `json:"reason"`
}

type FeedbackBody struct {
	Rating   int    `json:"rating" binding:"required"`
	Comments string `json:"comments"`
}

type RefundRequestBody struct {
	Reason string `json:"reason" binding:"required"`
}

type RefundDecisionBody struct {
	Decision string `json:"decision" binding:"required"`
}
