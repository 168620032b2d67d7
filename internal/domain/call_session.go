package domain

import "time"

const (
	MinCallParticipants = 2
	MaxCallParticipants = 50
)

// CallSession is an ad-hoc multi-party video room with a hard participant cap.
type CallSession struct {
	ID                  int64      `json:"id" gorm:"primaryKey"`
	ChannelName         string     `json:"channel_name" gorm:"size:80;uniqueIndex"`
	CreatorID           int64      `json:"creator_id" gorm:"not null;index"`
	CreatorName         string     `json:"creator_name" gorm:"size:120"`
	Title               string     `json:"title,omitempty" gorm:"size:200"`
	MaxParticipants     int        `json:"max_participants" gorm:"not null"`
	CurrentParticipants int        `json:"current_participants" gorm:"not null;default:0"`
	AllowGuests         bool       `json:"allow_guests"`
	CameraRequired      bool       `json:"camera_required"`
	IsPublic            bool       `json:"is_public" gorm:"index"`
	IsActive            bool       `json:"is_active" gorm:"index"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
	EndedAt             *time.Time `json:"ended_at,omitempty"`
	DurationSeconds     int64      `json:"duration_seconds"`
}

func (CallSession) TableName() string { return "call_sessions" }

// CallParticipant is a membership record scoped to one CallSession.
// At most one open row (left_at IS NULL) may exist per (session, user);
// the session row lock serializes every write that could violate that.
type CallParticipant struct {
	ID              int64      `json:"id" gorm:"primaryKey"`
	SessionID       int64      `json:"session_id" gorm:"not null;index:idx_call_participants_session_user"`
	UserID          int64      `json:"user_id" gorm:"not null;index:idx_call_participants_session_user"`
	UserName        string     `json:"user_name" gorm:"size:120"`
	IsGuest         bool       `json:"is_guest"`
	IsHost          bool       `json:"is_host"`
	JoinedAt        time.Time  `json:"joined_at"`
	LeftAt          *time.Time `json:"left_at,omitempty"`
	DurationSeconds int64      `json:"duration_seconds"`
	WasKicked       bool       `json:"was_kicked"`
}

func (CallParticipant) TableName() string { return "call_participants" }
