package types

// AccountRecord is one reputation account in an export snapshot.
type AccountRecord struct {
	UserID      uint64
	UserName    string
	Rep         int64
	Level       int
	Tier        string
	LastUpdated string // RFC3339 timestamp
}

// BlockRecord is one blocked user in an export snapshot.
type BlockRecord struct {
	UserID    uint64
	UserName  string
	BlockedBy uint64
	BlockedAt string // RFC3339 timestamp
	Reason    string
}
