package types

import (
	"github.com/uptrace/bun"
)

// BlockedUser is a user barred from broadcasting and voting.
type BlockedUser struct {
	bun.BaseModel `bun:"table:banlist,alias:bl"`

	UserID    uint64 `bun:"user_id,pk"                   json:"userId"`
	UserName  string `bun:"user_name,notnull,default:''" json:"userName"`
	BlockedBy uint64 `bun:"blocked_by,notnull"           json:"blockedBy"` // Admin who issued the block
	BlockedAt int64  `bun:"blocked_at,notnull"           json:"blockedAt"` // Unix nanoseconds
	Reason    string `bun:"reason,notnull,default:''"    json:"reason"`
}
