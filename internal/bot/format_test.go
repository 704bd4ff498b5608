package bot

import (
	"testing"
	"time"

	"github.com/doom2286/Foxcom/internal/bot/constants"
	"github.com/doom2286/Foxcom/internal/database/service"
	"github.com/doom2286/Foxcom/internal/database/types"
	"github.com/doom2286/Foxcom/internal/reputation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func card(score int64) *service.Card {
	return &service.Card{
		UserID:    1,
		UserName:  "fox",
		Score:     score,
		Tier:      reputation.TierFor(score),
		Milestone: reputation.MilestoneFor(score),
		Stars:     reputation.Stars(score),
	}
}

func TestFormatScore(t *testing.T) {
	assert.Equal(t, "0", FormatScore(0))
	assert.Equal(t, "999", FormatScore(999))
	assert.Equal(t, "1,234,567", FormatScore(1234567))
	assert.Equal(t, "-1,250", FormatScore(-1250))
}

func TestRepBadgeAndColor(t *testing.T) {
	tests := []struct {
		score int64
		badge string
		color int
	}{
		{score: -5, badge: "", color: constants.GreyEmbedColor},
		{score: 9, badge: "", color: constants.GreyEmbedColor},
		{score: 10, badge: " ★", color: constants.GreenEmbedColor},
		{score: 25, badge: " ★★", color: constants.BlueEmbedColor},
		{score: 50, badge: " ★★★", color: constants.PurpleEmbedColor},
		{score: 100, badge: " 🌟", color: constants.GoldEmbedColor},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.badge, RepBadge(tt.score), "score %d", tt.score)
		assert.Equal(t, tt.color, RepColor(tt.score), "score %d", tt.score)
	}
}

func TestBroadcastMarker(t *testing.T) {
	at := time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "fc|a:5|g:77|t:1740830400", BroadcastMarker(5, 77, at))
}

func TestNextMilestone(t *testing.T) {
	assert.Equal(t, "Elite at **129** (need **59** more)", NextMilestone(card(70)))
	assert.Equal(t, "Regular at **10** (need **13** more)", NextMilestone(card(-3)))
	assert.Equal(t, "🏆 Max tier reached", NextMilestone(card(300)))
}

func TestRepCardEmbed(t *testing.T) {
	embed := RepCardEmbed(card(70), "fox")

	require.Len(t, embed.Fields, 4)
	assert.Equal(t, "★★★ fox", embed.Fields[0].Value)
	assert.Equal(t, "70", embed.Fields[1].Value)
	assert.Equal(t, "Veteran", embed.Fields[2].Value)

	embed = RepCardEmbed(card(0), "cub")
	assert.Equal(t, "cub", embed.Fields[0].Value)
}

func TestLeaderboardLines(t *testing.T) {
	lines := LeaderboardLines([]*types.ReputationAccount{
		{UserID: 2, UserName: "high", Rep: 1500},
		{UserID: 1, UserName: "low", Rep: 3},
		{UserID: 9, Rep: -4},
	})

	assert.Equal(t, []string{
		"**1.** ★★★ high — **1,500**",
		"**2.** low — **3**",
		"**3.** User 9 — **-4**",
	}, lines)
}

func TestStatusEmbed(t *testing.T) {
	at := time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)

	embed := StatusEmbed(&types.TableCounts{Users: 1200, LastPruneAt: &at})
	require.Len(t, embed.Fields, 6)
	assert.Equal(t, "1,200", embed.Fields[0].Value)
	assert.Equal(t, "<t:1740830400:R>", embed.Fields[5].Value)

	embed = StatusEmbed(&types.TableCounts{LastPruneRaw: "garbage"})
	assert.Equal(t, "unreadable (`garbage`)", embed.Fields[5].Value)

	embed = StatusEmbed(&types.TableCounts{})
	assert.Equal(t, "never", embed.Fields[5].Value)
}
