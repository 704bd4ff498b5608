// Package quota holds the reputation-tiered broadcast rate-limit policy.
package quota

import (
	"fmt"
	"time"
)

// Limits is the number of broadcasts allowed per sliding window.
type Limits struct {
	MaxActions int
	Window     time.Duration
}

// WindowSeconds returns the window length in whole seconds.
func (l Limits) WindowSeconds() int64 {
	return int64(l.Window / time.Second)
}

// String renders limits such as "5 per 1h0m0s".
func (l Limits) String() string {
	return fmt.Sprintf("%d per %s", l.MaxActions, l.Window)
}

// step is one row of the policy table. A score at or below Ceiling gets Limits.
type step struct {
	ceiling int64
	limits  Limits
}

//nolint:gochecknoglobals // policy table
var policy = []step{
	{ceiling: -30, limits: Limits{MaxActions: 1, Window: 4 * time.Hour}},
	{ceiling: -2, limits: Limits{MaxActions: 1, Window: time.Hour}},
	{ceiling: 9, limits: Limits{MaxActions: 5, Window: time.Hour}},
	{ceiling: 25, limits: Limits{MaxActions: 15, Window: time.Hour}},
}

// topLimits applies to every score above the last table ceiling.
var topLimits = Limits{MaxActions: 30, Window: time.Hour} //nolint:gochecknoglobals // -

// LimitsFor returns the broadcast limits for a reputation score.
// Lower scores always get limits at least as strict as higher ones.
func LimitsFor(score int64) Limits {
	for _, s := range policy {
		if score <= s.ceiling {
			return s.limits
		}
	}

	return topLimits
}

// FormatWait renders a retry-after value like "1h 5m", "3m 4s" or "9s".
func FormatWait(seconds int64) string {
	seconds = max(0, seconds)
	mins := seconds / 60
	secs := seconds % 60

	if mins >= 60 {
		return fmt.Sprintf("%dh %dm", mins/60, mins%60)
	}

	if mins > 0 {
		return fmt.Sprintf("%dm %ds", mins, secs)
	}

	return fmt.Sprintf("%ds", secs)
}
