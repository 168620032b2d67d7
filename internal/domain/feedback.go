package domain

import "time"

// ShowFeedback is the viewer's one-shot rating of a completed show.
// The booking row mirrors the rating for aggregate computations; the
// "already rated" guard is the rating on the booking, not this table.
type ShowFeedback struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	BookingID int64     `json:"booking_id" gorm:"not null;uniqueIndex"`
	UserID    int64     `json:"user_id" gorm:"not null;index"`
	Rating    int       `json:"rating" gorm:"not null"`
	Comments  string    `json:"comments,omitempty" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at"`
}

func (ShowFeedback) TableName() string { return "show_feedback" }
