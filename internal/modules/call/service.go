package call

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"liveroom/internal/database"
	"liveroom/internal/domain"
	"liveroom/internal/pkg/rtctoken"
)

type Service struct {
	db       *gorm.DB
	tokens   TokenIssuer
	lockWait time.Duration
	tokenTTL time.Duration
	loggerf  func(format string, args ...any)
}

func NewService(db *gorm.DB, tokens TokenIssuer, lockWait, tokenTTL time.Duration, loggerf func(format string, args ...any)) *Service {
	if loggerf == nil {
		loggerf = func(string, ...any) {}
	}
	return &Service{
		db:       db,
		tokens:   tokens,
		lockWait: lockWait,
		tokenTTL: tokenTTL,
		loggerf:  loggerf,
	}
}

type CreateCallRequest struct {
	CreatorID       int64
	CreatorName     string
	Title           string
	MaxParticipants int
	AllowGuests     bool
	CameraRequired  bool
	IsPublic        bool
}

type CreateCallResult struct {
	Session   *domain.CallSession
	HostToken string
}

// Create persists a new active session with a zero counter and registers
// its transport channel. The host credential is issued only after commit
// and may be absent on issuer failure.
func (s *Service) Create(ctx context.Context, req CreateCallRequest) (*CreateCallResult, error) {
	if req.MaxParticipants < domain.MinCallParticipants || req.MaxParticipants > domain.MaxCallParticipants {
		return nil, ErrInvalidCapacity
	}

	session := &domain.CallSession{
		CreatorID:           req.CreatorID,
		CreatorName:         req.CreatorName,
		Title:               req.Title,
		MaxParticipants:     req.MaxParticipants,
		CurrentParticipants: 0,
		AllowGuests:         req.AllowGuests,
		CameraRequired:      req.CameraRequired,
		IsPublic:            req.IsPublic,
		IsActive:            true,
	}

	err := database.RunInTx(ctx, s.db, s.lockWait, func(tx *gorm.DB) error {
		if err := tx.Create(session).Error; err != nil {
			return err
		}

		// Derived from the committed id plus a random suffix, so it is
		// collision-free by construction rather than by uniqueness check.
		session.ChannelName = deriveChannelName("call", session.ID)
		if err := tx.Model(&domain.CallSession{}).
			Where("id = ?", session.ID).
			Update("channel_name", session.ChannelName).Error; err != nil {
			return err
		}

		return registerChannel(tx, session.ChannelName, session.MaxParticipants)
	})
	if err != nil {
		return nil, err
	}

	result := &CreateCallResult{Session: session}
	database.PostCommit(s.loggerf, "call.create.host_token", func() error {
		token, err := s.tokens.Issue(session.ChannelName, req.CreatorID, rtctoken.RoleHost, s.tokenTTL)
		if err != nil {
			return err
		}
		result.HostToken = token
		return nil
	})

	return result, nil
}

type JoinResult struct {
	Session       *domain.CallSession
	Token         string
	AlreadyJoined bool
}

// Join admits a user under the session row lock. Preconditions abort the
// whole transaction: session exists, still active, guests allowed when
// joining as guest, capacity left. A user with an open participant row
// re-joins idempotently without touching the counter.
func (s *Service) Join(ctx context.Context, sessionID, userID int64, userName string, isGuest bool) (*JoinResult, error) {
	var (
		session *domain.CallSession
		rejoin  bool
	)

	err := database.RunInTx(ctx, s.db, s.lockWait, func(tx *gorm.DB) error {
		var err error
		session, err = lockSession(tx, sessionID)
		if err != nil {
			return err
		}
		if !session.IsActive {
			return ErrEnded
		}
		if isGuest && !session.AllowGuests {
			return ErrGuestsNotAllowed
		}

		open, err := openParticipant(tx, sessionID, userID)
		if err != nil {
			return err
		}
		if open != nil {
			rejoin = true
			return nil
		}

		if session.CurrentParticipants >= session.MaxParticipants {
			return ErrFull
		}

		p := &domain.CallParticipant{
			SessionID: sessionID,
			UserID:    userID,
			UserName:  userName,
			IsGuest:   isGuest,
			IsHost:    userID == session.CreatorID,
			JoinedAt:  time.Now().UTC(),
		}
		if err := tx.Create(p).Error; err != nil {
			return err
		}
		if err := incrementParticipants(tx, sessionID); err != nil {
			return err
		}
		session.CurrentParticipants++
		return nil
	})
	if err != nil {
		return nil, err
	}

	result := &JoinResult{Session: session, AlreadyJoined: rejoin}
	database.PostCommit(s.loggerf, "call.join.token", func() error {
		role := rtctoken.RoleViewer
		if isGuest {
			role = rtctoken.RoleGuest
		}
		token, err := s.tokens.Issue(session.ChannelName, userID, role, s.tokenTTL)
		if err != nil {
			return err
		}
		result.Token = token
		return nil
	})

	return result, nil
}

// Leave closes the caller's open participant row and decrements the
// counter. A user without an open row leaves as a no-op.
func (s *Service) Leave(ctx context.Context, sessionID, userID int64) error {
	return database.RunInTx(ctx, s.db, s.lockWait, func(tx *gorm.DB) error {
		if _, err := lockSession(tx, sessionID); err != nil {
			return err
		}

		open, err := openParticipant(tx, sessionID, userID)
		if err != nil {
			return err
		}
		if open == nil {
			return nil
		}

		if err := closeParticipant(tx, open, time.Now().UTC(), false); err != nil {
			return err
		}
		return decrementParticipants(tx, sessionID)
	})
}

// End terminates the session: only the creator may end it, every open
// participant row is closed, the counter resets to zero and the
// transport channel goes inactive.
func (s *Service) End(ctx context.Context, sessionID, creatorID int64) (*domain.CallSession, error) {
	var session *domain.CallSession

	err := database.RunInTx(ctx, s.db, s.lockWait, func(tx *gorm.DB) error {
		var err error
		session, err = lockSession(tx, sessionID)
		if err != nil {
			return err
		}
		if session.CreatorID != creatorID {
			return ErrForbidden
		}
		if !session.IsActive {
			return ErrEnded
		}

		now := time.Now().UTC()

		var open []domain.CallParticipant
		if err := tx.Where("session_id = ? AND left_at IS NULL", sessionID).Find(&open).Error; err != nil {
			return err
		}
		for i := range open {
			if err := closeParticipant(tx, &open[i], now, false); err != nil {
				return err
			}
		}

		session.IsActive = false
		session.EndedAt = &now
		session.DurationSeconds = int64(now.Sub(session.CreatedAt).Seconds())
		session.CurrentParticipants = 0
		if err := tx.Model(&domain.CallSession{}).
			Where("id = ?", sessionID).
			Updates(map[string]any{
				"is_active":            false,
				"ended_at":             session.EndedAt,
				"duration_seconds":     session.DurationSeconds,
				"current_participants": 0,
			}).Error; err != nil {
			return err
		}

		return deactivateChannel(tx, session.ChannelName)
	})
	if err != nil {
		return nil, err
	}
	return session, nil
}

// Kick closes the target's open row with the kicked flag set. Creator only.
func (s *Service) Kick(ctx context.Context, sessionID, targetUserID, hostUserID int64) error {
	return database.RunInTx(ctx, s.db, s.lockWait, func(tx *gorm.DB) error {
		session, err := lockSession(tx, sessionID)
		if err != nil {
			return err
		}
		if session.CreatorID != hostUserID {
			return ErrForbidden
		}

		open, err := openParticipant(tx, sessionID, targetUserID)
		if err != nil {
			return err
		}
		if open == nil {
			return ErrAlreadyKicked
		}

		if err := closeParticipant(tx, open, time.Now().UTC(), true); err != nil {
			return err
		}
		return decrementParticipants(tx, sessionID)
	})
}

// Delete removes the session and its participant history. Allowed only
// for the creator and only while no participant row is open; the check
// runs under the same lock that admits joiners, so a racing join either
// lands before the delete (delete fails with ErrNotEmpty) or finds the
// session gone.
func (s *Service) Delete(ctx context.Context, sessionID, creatorID int64) error {
	return database.RunInTx(ctx, s.db, s.lockWait, func(tx *gorm.DB) error {
		session, err := lockSession(tx, sessionID)
		if err != nil {
			return err
		}
		if session.CreatorID != creatorID {
			return ErrForbidden
		}

		cnt, err := openParticipantCount(tx, sessionID)
		if err != nil {
			return err
		}
		if cnt > 0 {
			return ErrNotEmpty
		}

		if err := tx.Where("session_id = ?", sessionID).Delete(&domain.CallParticipant{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&domain.CallSession{}, sessionID).Error; err != nil {
			return err
		}
		return deactivateChannel(tx, session.ChannelName)
	})
}

func (s *Service) GetByID(ctx context.Context, sessionID int64) (*domain.CallSession, error) {
	var session domain.CallSession
	err := s.db.WithContext(ctx).First(&session, sessionID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &session, nil
}

func (s *Service) ListPublic(ctx context.Context) ([]domain.CallSession, error) {
	var sessions []domain.CallSession
	err := s.db.WithContext(ctx).
		Where("is_active = ? AND is_public = ?", true, true).
		Order("created_at DESC").
		Find(&sessions).Error
	return sessions, err
}

func (s *Service) Participants(ctx context.Context, sessionID int64) ([]domain.CallParticipant, error) {
	if _, err := s.GetByID(ctx, sessionID); err != nil {
		return nil, err
	}
	var out []domain.CallParticipant
	err := s.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("joined_at").
		Find(&out).Error
	return out, err
}

func deriveChannelName(prefix string, id int64) string {
	return fmt.Sprintf("%s-%d-%s", prefix, id, uuid.NewString()[:8])
}
