package types

import "time"

// ErrorResponse is returned for every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ReputationResponse describes one user's standing.
type ReputationResponse struct {
	UserID    uint64  `json:"userId,string"`
	UserName  string  `json:"userName"`
	Score     int64   `json:"score"`
	Level     int     `json:"level"`
	Tier      string  `json:"tier"`
	Stars     string  `json:"stars"`
	NextTier  *string `json:"nextTier,omitempty"`
	NextAt    *int64  `json:"nextAt,omitempty"`
	Remaining int64   `json:"remaining"`
	Blocked   bool    `json:"blocked"`
}

// QuotaResponse describes a user's current broadcast allowance.
type QuotaResponse struct {
	UserID        uint64 `json:"userId,string"`
	MaxActions    int    `json:"maxActions"`
	WindowSeconds int64  `json:"windowSeconds"`
	Remaining     int    `json:"remaining"`
}

// LeaderboardEntry is one ranked account.
type LeaderboardEntry struct {
	Rank     int    `json:"rank"`
	UserID   uint64 `json:"userId,string"`
	UserName string `json:"userName"`
	Score    int64  `json:"score"`
	Tier     string `json:"tier"`
}

// LeaderboardResponse lists the top accounts.
type LeaderboardResponse struct {
	Entries []LeaderboardEntry `json:"entries"`
}

// StatusResponse reports ledger row counts and the last prune.
type StatusResponse struct {
	Users       int        `json:"users"`
	Messages    int        `json:"messages"`
	Votes       int        `json:"votes"`
	Actions     int        `json:"actions"`
	Blocked     int        `json:"blocked"`
	LastPruneAt *time.Time `json:"lastPruneAt,omitempty"`
}
