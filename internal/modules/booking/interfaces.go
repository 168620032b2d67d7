package booking

import (
	"context"
	"time"

	"liveroom/internal/domain"
	"liveroom/internal/modules/pricing"
	"liveroom/internal/pkg/rtctoken"
)

// RateSource quotes the price and revenue split before the booking
// transaction starts.
type RateSource interface {
	Quote(ctx context.Context, hostID int64, durationMinutes int) (*pricing.Quote, error)
}

// TokenIssuer signs join credentials for the show channel after commit.
type TokenIssuer interface {
	Issue(channel string, subjectID int64, role rtctoken.Role, ttl time.Duration) (string, error)
}

// NotificationSender delivers best-effort messages; failures never fail
// the calling operation.
type NotificationSender interface {
	Notify(ctx context.Context, userID int64, template domain.NotificationTemplate, data map[string]any) error
}

// WindowPolicy decides whether a show may start at the given instant.
// Owned by a collaborator; consulted before anything is locked.
type WindowPolicy interface {
	IsAllowed(t time.Time) bool
}

// AvailabilityReleaser returns a reserved availability slot to the
// external reservation system on cancellation.
type AvailabilityReleaser interface {
	Release(ctx context.Context, ref string) error
}
