package bot

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
	"github.com/doom2286/Foxcom/internal/bot/constants"
	"github.com/doom2286/Foxcom/internal/database"
	"github.com/doom2286/Foxcom/internal/database/dbretry"
	"github.com/doom2286/Foxcom/internal/database/types"
	"github.com/doom2286/Foxcom/internal/quota"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
)

// maxConcurrentSends bounds parallel channel sends per broadcast.
const maxConcurrentSends = 8

// Sender delivers a message to one channel and returns the new message ID.
type Sender interface {
	Send(ctx context.Context, channelID snowflake.ID, msg discord.MessageCreate) (snowflake.ID, error)
}

// Outcome is the terminal state of a broadcast request.
type Outcome int

const (
	// OutcomeSent means the quota allowed the broadcast and sends were attempted.
	OutcomeSent Outcome = iota
	// OutcomeFiltered means a content filter rejected the text.
	OutcomeFiltered
	// OutcomeBlocked means the sender is on the block list.
	OutcomeBlocked
	// OutcomeRateLimited means the sender's quota window is full.
	OutcomeRateLimited
)

// BroadcastRequest is one /qrf, /logi or /battle invocation.
type BroadcastRequest struct {
	UserID    uint64
	UserName  string
	AvatarURL string
	GuildID   uint64
	Tag       string
	Message   string
	Admin     bool
}

// BroadcastResult reports what happened to a request.
type BroadcastResult struct {
	Outcome    Outcome
	Reason     string
	RetryAfter int64
	Score      int64
	Sent       int
	Failed     int
}

// Reply renders the ephemeral confirmation shown to the sender.
func (r *BroadcastResult) Reply(tag string) string {
	switch r.Outcome {
	case OutcomeFiltered:
		return r.Reason
	case OutcomeBlocked:
		return constants.BlockedMessage
	case OutcomeRateLimited:
		return "Rate limit hit for your rep tier. Try again in " + quota.FormatWait(r.RetryAfter) + "."
	case OutcomeSent:
	}

	return fmt.Sprintf("Sent %s alert to %d channel(s).", tag, r.Sent)
}

// Broadcaster runs the broadcast pipeline: filters, quota pre-flight,
// fan-out to every configured channel and vote tracking of each copy.
type Broadcaster struct {
	db       database.Client
	sender   Sender
	channels []snowflake.ID
	mentions ContentFilter
	content  ContentFilter
	logger   *zap.Logger
}

// NewBroadcaster creates a broadcaster. The content filter is optional.
func NewBroadcaster(
	db database.Client, sender Sender, channels []snowflake.ID, content ContentFilter, logger *zap.Logger,
) *Broadcaster {
	return &Broadcaster{
		db:       db,
		sender:   sender,
		channels: channels,
		mentions: MentionFilter{},
		content:  content,
		logger:   logger.Named("broadcaster"),
	}
}

// Broadcast validates and relays one request.
func (b *Broadcaster) Broadcast(ctx context.Context, req BroadcastRequest) (*BroadcastResult, error) {
	if b.mentions.Check(req.Message) {
		return &BroadcastResult{Outcome: OutcomeFiltered, Reason: constants.MentionsBlocked}, nil
	}

	if b.content != nil && b.content.Check(req.Message) {
		return &BroadcastResult{Outcome: OutcomeFiltered, Reason: constants.ContentBlocked}, nil
	}

	attempt, err := dbretry.Operation(ctx, func(ctx context.Context) (*types.AttemptResult, error) {
		if req.Admin {
			return b.db.Service().Quota().AttemptAsAdmin(ctx, req.UserID, req.UserName)
		}
		return b.db.Service().Quota().Attempt(ctx, req.UserID, req.UserName)
	})
	if err != nil {
		return nil, fmt.Errorf("broadcast pre-flight failed: %w", err)
	}

	switch {
	case attempt.Blocked:
		return &BroadcastResult{Outcome: OutcomeBlocked}, nil
	case !attempt.Allowed:
		return &BroadcastResult{
			Outcome:    OutcomeRateLimited,
			RetryAfter: attempt.RetryAfter,
			Score:      attempt.Score,
		}, nil
	}

	msg := discord.NewMessageCreateBuilder().
		SetEmbeds(b.embed(req, attempt.Score)).
		SetAllowedMentions(&discord.AllowedMentions{}).
		Build()

	var sent, failed atomic.Int64

	p := pool.New().WithContext(ctx).WithMaxGoroutines(maxConcurrentSends)
	for _, channelID := range b.channels {
		p.Go(func(ctx context.Context) error {
			messageID, err := b.sender.Send(ctx, channelID, msg)
			if err != nil {
				failed.Add(1)
				b.logger.Warn("Failed to send broadcast",
					zap.Uint64("channelID", uint64(channelID)),
					zap.Error(err))
				return nil
			}

			sent.Add(1)
			b.track(ctx, uint64(messageID), req)

			return nil
		})
	}
	_ = p.Wait()

	b.logger.Info("Broadcast relayed",
		zap.Uint64("userID", req.UserID),
		zap.String("tag", req.Tag),
		zap.Int64("sent", sent.Load()),
		zap.Int64("failed", failed.Load()))

	return &BroadcastResult{
		Outcome: OutcomeSent,
		Score:   attempt.Score,
		Sent:    int(sent.Load()),
		Failed:  int(failed.Load()),
	}, nil
}

// track registers one delivered copy for reaction voting. A tracking failure
// only costs the author votes on that copy.
func (b *Broadcaster) track(ctx context.Context, messageID uint64, req BroadcastRequest) {
	err := dbretry.NoResult(ctx, func(ctx context.Context) error {
		return b.db.Service().Vote().TrackMessage(ctx, messageID, req.UserID, req.UserName)
	})
	if err != nil {
		b.logger.Error("Failed to track broadcast message",
			zap.Uint64("messageID", messageID),
			zap.Error(err))
	}
}

func (b *Broadcaster) embed(req BroadcastRequest, score int64) discord.Embed {
	footer := fmt.Sprintf("Sent by %s | Rep %s%s  %s",
		req.UserName, FormatScore(score), RepBadge(score),
		BroadcastMarker(req.UserID, req.GuildID, b.db.Ledger().Now()))

	return discord.NewEmbedBuilder().
		SetTitle(req.Tag).
		SetDescription(req.Message).
		SetColor(RepColor(score)).
		SetAuthor(req.UserName, "", req.AvatarURL).
		SetFooterText(footer).
		Build()
}
