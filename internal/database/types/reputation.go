package types

import (
	"time"

	"github.com/uptrace/bun"
)

// ReputationAccount is the running reputation score of one user.
type ReputationAccount struct {
	bun.BaseModel `bun:"table:rep_users,alias:ru"`

	UserID      uint64 `bun:"user_id,pk"                     json:"userId"`      // Discord user ID
	UserName    string `bun:"user_name,notnull,default:''"   json:"userName"`    // Last seen display name
	Rep         int64  `bun:"rep,notnull,default:0"          json:"rep"`         // Signed score
	LastUpdated int64  `bun:"last_updated,notnull,default:0" json:"lastUpdated"` // Unix nanoseconds
}

// UpdatedAt returns LastUpdated as a time.
func (a *ReputationAccount) UpdatedAt() time.Time {
	return time.Unix(0, a.LastUpdated).UTC()
}
