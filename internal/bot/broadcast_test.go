package bot_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
	"github.com/doom2286/Foxcom/internal/bot"
	"github.com/doom2286/Foxcom/internal/bot/constants"
	"github.com/doom2286/Foxcom/internal/database/dbtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

var errChannelGone = errors.New("unknown channel")

type fakeSender struct {
	mu     sync.Mutex
	next   snowflake.ID
	fail   map[snowflake.ID]bool
	sent   map[snowflake.ID]discord.MessageCreate
	byChan map[snowflake.ID]snowflake.ID
}

func newFakeSender(failing ...snowflake.ID) *fakeSender {
	s := &fakeSender{
		next:   1000,
		fail:   make(map[snowflake.ID]bool),
		sent:   make(map[snowflake.ID]discord.MessageCreate),
		byChan: make(map[snowflake.ID]snowflake.ID),
	}
	for _, id := range failing {
		s.fail[id] = true
	}
	return s
}

func (s *fakeSender) Send(_ context.Context, channelID snowflake.ID, msg discord.MessageCreate) (snowflake.ID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.fail[channelID] {
		return 0, errChannelGone
	}

	s.next++
	s.sent[s.next] = msg
	s.byChan[channelID] = s.next

	return s.next, nil
}

func request(message string) bot.BroadcastRequest {
	return bot.BroadcastRequest{
		UserID:   5,
		UserName: "fox",
		GuildID:  77,
		Tag:      "QRF",
		Message:  message,
	}
}

func TestBroadcastDeliversAndTracks(t *testing.T) {
	env := dbtest.New(t)
	ctx := context.Background()
	sender := newFakeSender(3)
	b := bot.NewBroadcaster(env.Client, sender, []snowflake.ID{1, 2, 3}, nil, zaptest.NewLogger(t))

	result, err := b.Broadcast(ctx, request("armor pushing north"))
	require.NoError(t, err)
	assert.Equal(t, bot.OutcomeSent, result.Outcome)
	assert.Equal(t, 2, result.Sent)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, "Sent QRF alert to 2 channel(s).", result.Reply("QRF"))

	require.Len(t, sender.sent, 2)
	for messageID, msg := range sender.sent {
		require.Len(t, msg.Embeds, 1)
		embed := msg.Embeds[0]
		assert.Equal(t, "QRF", embed.Title)
		assert.Equal(t, "armor pushing north", embed.Description)
		assert.Equal(t, constants.GreyEmbedColor, embed.Color)
		require.NotNil(t, embed.Footer)
		assert.True(t, strings.HasSuffix(embed.Footer.Text, "fc|a:5|g:77|t:1740830400"), embed.Footer.Text)
		require.NotNil(t, msg.AllowedMentions)
		assert.Empty(t, msg.AllowedMentions.Parse)

		tracked, found, err := env.Client.Service().Vote().LookupMessage(ctx, uint64(messageID))
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, uint64(5), tracked.AuthorID)
		assert.Equal(t, "fox", tracked.AuthorName)
	}
}

func TestBroadcastFilters(t *testing.T) {
	env := dbtest.New(t)
	ctx := context.Background()
	sender := newFakeSender()
	words := bot.FilterFunc(func(text string) bool { return strings.Contains(text, "slur") })
	b := bot.NewBroadcaster(env.Client, sender, []snowflake.ID{1}, words, zaptest.NewLogger(t))

	result, err := b.Broadcast(ctx, request("@everyone rally"))
	require.NoError(t, err)
	assert.Equal(t, bot.OutcomeFiltered, result.Outcome)
	assert.Equal(t, constants.MentionsBlocked, result.Reply("QRF"))

	result, err = b.Broadcast(ctx, request("some slur here"))
	require.NoError(t, err)
	assert.Equal(t, bot.OutcomeFiltered, result.Outcome)
	assert.Equal(t, constants.ContentBlocked, result.Reply("QRF"))

	assert.Empty(t, sender.sent)

	count, err := env.Client.Model().Quota().CountRecent(ctx, 5, time.Hour)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestBroadcastRateLimited(t *testing.T) {
	env := dbtest.New(t)
	ctx := context.Background()
	b := bot.NewBroadcaster(env.Client, newFakeSender(), []snowflake.ID{1}, nil, zaptest.NewLogger(t))

	for i := range 5 {
		result, err := b.Broadcast(ctx, request("update"))
		require.NoError(t, err)
		require.Equal(t, bot.OutcomeSent, result.Outcome, "attempt %d", i+1)
	}

	result, err := b.Broadcast(ctx, request("update"))
	require.NoError(t, err)
	assert.Equal(t, bot.OutcomeRateLimited, result.Outcome)
	assert.Equal(t, int64(3600), result.RetryAfter)
	assert.Equal(t, "Rate limit hit for your rep tier. Try again in 1h 0m.", result.Reply("QRF"))
}

func TestBroadcastBlocked(t *testing.T) {
	env := dbtest.New(t)
	ctx := context.Background()
	sender := newFakeSender()
	b := bot.NewBroadcaster(env.Client, sender, []snowflake.ID{1}, nil, zaptest.NewLogger(t))

	require.NoError(t, env.Client.Model().Block().BlockUser(ctx, 5, "fox", 1, "spam"))

	result, err := b.Broadcast(ctx, request("update"))
	require.NoError(t, err)
	assert.Equal(t, bot.OutcomeBlocked, result.Outcome)
	assert.Equal(t, constants.BlockedMessage, result.Reply("QRF"))
	assert.Empty(t, sender.sent)

	req := request("update")
	req.Admin = true
	result, err = b.Broadcast(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, bot.OutcomeSent, result.Outcome)
	assert.Len(t, sender.sent, 1)
}

func TestBroadcastUsesReputationColor(t *testing.T) {
	env := dbtest.New(t)
	ctx := context.Background()
	sender := newFakeSender()
	b := bot.NewBroadcaster(env.Client, sender, []snowflake.ID{1}, nil, zaptest.NewLogger(t))

	require.NoError(t, env.Client.Service().Reputation().SetScore(ctx, 5, "fox", 60, "test"))

	result, err := b.Broadcast(ctx, request("update"))
	require.NoError(t, err)
	assert.Equal(t, int64(60), result.Score)

	msg := sender.sent[sender.byChan[1]]
	require.Len(t, msg.Embeds, 1)
	assert.Equal(t, constants.PurpleEmbedColor, msg.Embeds[0].Color)
	assert.True(t, strings.HasPrefix(msg.Embeds[0].Footer.Text, "Sent by fox | Rep 60 ★★★"))
}
