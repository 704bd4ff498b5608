package types

import (
	"time"

	"github.com/uptrace/bun"
)

// MaintenanceMarkerID is the id of the single maintenance row.
const MaintenanceMarkerID = 1

// MaintenanceMarker records when vote state was last pruned.
// LastPruneAt is RFC3339Nano text and may be missing or malformed.
type MaintenanceMarker struct {
	bun.BaseModel `bun:"table:maintenance,alias:mt"`

	ID          int     `bun:"id,pk"`
	LastPruneAt *string `bun:"last_prune_at"`
}

// PruneResult reports what one prune pass removed.
type PruneResult struct {
	Messages int64     `json:"messages"`
	Votes    int64     `json:"votes"`
	At       time.Time `json:"at"`
}

// TableCounts holds row counts for diagnostics.
type TableCounts struct {
	Users        int        `json:"users"`
	Messages     int        `json:"messages"`
	Votes        int        `json:"votes"`
	Actions      int        `json:"actions"`
	Blocked      int        `json:"blocked"`
	LastPruneAt  *time.Time `json:"lastPruneAt,omitempty"`
	LastPruneRaw string     `json:"lastPruneRaw,omitempty"`
}
