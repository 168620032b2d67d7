package call

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"liveroom/internal/domain"
)

// lockSession loads the session row under FOR UPDATE, serializing every
// concurrent join/leave/kick/end/delete against it. On the embedded
// sqlite store the locking clause is dropped by the driver; the single
// writer there gives the same guarantee.
func lockSession(tx *gorm.DB, sessionID int64) (*domain.CallSession, error) {
	var s domain.CallSession
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&s, sessionID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

func openParticipant(tx *gorm.DB, sessionID, userID int64) (*domain.CallParticipant, error) {
	var p domain.CallParticipant
	err := tx.Where("session_id = ? AND user_id = ? AND left_at IS NULL", sessionID, userID).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func openParticipantCount(tx *gorm.DB, sessionID int64) (int64, error) {
	var cnt int64
	err := tx.Model(&domain.CallParticipant{}).
		Where("session_id = ? AND left_at IS NULL", sessionID).
		Count(&cnt).Error
	return cnt, err
}

func incrementParticipants(tx *gorm.DB, sessionID int64) error {
	return tx.Model(&domain.CallSession{}).
		Where("id = ?", sessionID).
		UpdateColumn("current_participants", gorm.Expr("current_participants + 1")).Error
}

// decrementParticipants clamps at zero so a stray double-close can never
// drive the counter negative.
func decrementParticipants(tx *gorm.DB, sessionID int64) error {
	return tx.Model(&domain.CallSession{}).
		Where("id = ?", sessionID).
		UpdateColumn("current_participants",
			gorm.Expr("CASE WHEN current_participants > 0 THEN current_participants - 1 ELSE 0 END")).Error
}

// closeParticipant stamps left_at and accumulates the open interval into
// the participant's duration.
func closeParticipant(tx *gorm.DB, p *domain.CallParticipant, at time.Time, kicked bool) error {
	p.LeftAt = &at
	p.DurationSeconds += int64(at.Sub(p.JoinedAt).Seconds())
	p.WasKicked = p.WasKicked || kicked
	return tx.Model(&domain.CallParticipant{}).
		Where("id = ?", p.ID).
		Updates(map[string]any{
			"left_at":          p.LeftAt,
			"duration_seconds": p.DurationSeconds,
			"was_kicked":       p.WasKicked,
		}).Error
}

func registerChannel(tx *gorm.DB, name string, maxParticipants int) error {
	return tx.Create(&domain.RTCChannel{
		Name:            name,
		MaxParticipants: maxParticipants,
		IsActive:        true,
	}).Error
}

func deactivateChannel(tx *gorm.DB, name string) error {
	return tx.Model(&domain.RTCChannel{}).
		Where("name = ?", name).
		Update("is_active", false).Error
}
