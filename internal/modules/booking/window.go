package booking

import (
	"context"
	"time"
)

// HourWindow allows starts whose local hour falls in [Open, Close).
type HourWindow struct {
	Open  int
	Close int
}

func (w HourWindow) IsAllowed(t time.Time) bool {
	h := t.Hour()
	return h >= w.Open && h < w.Close
}

// LogReleaser satisfies AvailabilityReleaser when no external
// availability system is wired; it only records the release.
type LogReleaser struct {
	Loggerf func(format string, args ...any)
}

func (r LogReleaser) Release(_ context.Context, ref string) error {
	if r.Loggerf != nil {
		r.Loggerf("availability: released slot %s", ref)
	}
	return nil
}
