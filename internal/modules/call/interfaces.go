package call

import (
	"time"

	"liveroom/internal/pkg/rtctoken"
)

// TokenIssuer signs join credentials after session state has committed.
// Issue failures degrade to "joined without credential" and never roll
// anything back.
type TokenIssuer interface {
	Issue(channel string, subjectID int64, role rtctoken.Role, ttl time.Duration) (string, error)
}
