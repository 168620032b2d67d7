package notification

import (
	"context"
	"encoding/json"

	"gorm.io/gorm"

	"liveroom/internal/domain"
)

// Service appends notification rows. Delivery (push, email) is out of
// process; readers poll the unread index.
type Service struct {
	db      *gorm.DB
	loggerf func(format string, args ...any)
}

func NewService(db *gorm.DB, loggerf func(format string, args ...any)) *Service {
	if loggerf == nil {
		loggerf = func(string, ...any) {}
	}
	return &Service{db: db, loggerf: loggerf}
}

func (s *Service) Notify(ctx context.Context, userID int64, template domain.NotificationTemplate, data map[string]any) error {
	var payload json.RawMessage
	if len(data) > 0 {
		raw, err := json.Marshal(data)
		if err != nil {
			return err
		}
		payload = raw
	}

	n := &domain.Notification{
		UserID:   userID,
		Template: template,
		Data:     payload,
	}
	if err := s.db.WithContext(ctx).Create(n).Error; err != nil {
		s.loggerf("notification: persist %s for user %d: %v", template, userID, err)
		return err
	}
	return nil
}

func (s *Service) ListUnread(ctx context.Context, userID int64) ([]domain.Notification, error) {
	var out []domain.Notification
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND is_read = ?", userID, false).
		Order("created_at DESC").
		Find(&out).Error
	return out, err
}

func (s *Service) MarkRead(ctx context.Context, userID, notificationID int64) error {
	res := s.db.WithContext(ctx).Model(&domain.Notification{}).
		Where("id = ? AND user_id = ? AND is_read = ?", notificationID, userID, false).
		Updates(map[string]any{"is_read": true, "read_at": gorm.Expr("CURRENT_TIMESTAMP")})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
