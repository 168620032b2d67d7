package domain

import "time"

// RTCChannel is the capacity record the transport collaborator reads for
// a live channel. Registered after the owning session/booking commits.
type RTCChannel struct {
	ID              int64     `json:"id" gorm:"primaryKey"`
	Name            string    `json:"name" gorm:"size:80;uniqueIndex"`
	MaxParticipants int       `json:"max_participants" gorm:"not null"`
	IsActive        bool      `json:"is_active" gorm:"index"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (RTCChannel) TableName() string { return "rtc_channels" }
