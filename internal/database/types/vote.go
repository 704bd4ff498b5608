package types

import (
	"time"

	"github.com/uptrace/bun"
)

// Vote values accepted by the ledger.
const (
	VoteUp   int8 = 1
	VoteDown int8 = -1
)

// VotableMessage is a broadcast that can still receive votes.
type VotableMessage struct {
	bun.BaseModel `bun:"table:rep_messages,alias:rm"`

	MessageID  uint64 `bun:"message_id,pk"                    json:"messageId"`
	AuthorID   uint64 `bun:"author_id,notnull"                json:"authorId"`
	AuthorName string `bun:"author_name,notnull,default:''"   json:"authorName"`
	CreatedAt  int64  `bun:"created_at,notnull"               json:"createdAt"` // Unix nanoseconds
}

// Created returns CreatedAt as a time.
func (m *VotableMessage) Created() time.Time {
	return time.Unix(0, m.CreatedAt).UTC()
}

// Vote is one voter's current vote on a tracked message.
type Vote struct {
	bun.BaseModel `bun:"table:rep_votes,alias:rv"`

	MessageID uint64 `bun:"message_id,pk" json:"messageId"`
	VoterID   uint64 `bun:"voter_id,pk"   json:"voterId"`
	Vote      int8   `bun:"vote,notnull"  json:"vote"` // +1 or -1
}

// ValidVote reports whether v is an accepted vote value.
func ValidVote(v int8) bool {
	return v == VoteUp || v == VoteDown
}

// ReactionEvent is a reaction added to or removed from a broadcast.
type ReactionEvent struct {
	MessageID uint64
	UserID    uint64
	UserName  string
	Value     int8
	Removed   bool
}

// ReactionOutcome describes what a reaction event did.
type ReactionOutcome struct {
	AuthorID uint64
	Delta    int64
	Expired  bool // message had outlived the vote window and was dropped
	Tracked  bool // message was known at all
}
