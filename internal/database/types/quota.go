package types

import (
	"github.com/uptrace/bun"
)

// BroadcastAction is one consumed unit of broadcast quota.
type BroadcastAction struct {
	bun.BaseModel `bun:"table:broadcast_actions,alias:ba"`

	ID     int64  `bun:"id,pk,autoincrement"`
	UserID uint64 `bun:"user_id,notnull"`
	UsedAt int64  `bun:"used_at,notnull"` // Unix nanoseconds
}

// Decision is the outcome of a quota check.
type Decision struct {
	Allowed    bool  `json:"allowed"`
	RetryAfter int64 `json:"retryAfter"` // Seconds until the oldest counted action leaves the window
}

// AttemptResult is the full broadcast pre-flight outcome.
type AttemptResult struct {
	Decision

	Blocked    bool  `json:"blocked"`
	Score      int64 `json:"score"`
	MaxActions int   `json:"maxActions"`
	Window     int64 `json:"windowSeconds"`
}
