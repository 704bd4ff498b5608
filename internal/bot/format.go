package bot

import (
	"fmt"
	"strings"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/doom2286/Foxcom/internal/bot/constants"
	"github.com/doom2286/Foxcom/internal/database/service"
	"github.com/doom2286/Foxcom/internal/database/types"
	"github.com/doom2286/Foxcom/internal/reputation"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English) //nolint:gochecknoglobals // -

// FormatScore renders a score with grouped digits, e.g. "-1,250".
func FormatScore(score int64) string {
	return printer.Sprintf("%d", score)
}

// RepBadge returns the suffix shown next to a broadcaster's score.
func RepBadge(score int64) string {
	switch {
	case score >= 100:
		return " 🌟"
	case score >= 50:
		return " ★★★"
	case score >= 25:
		return " ★★"
	case score >= 10:
		return " ★"
	default:
		return ""
	}
}

// RepColor returns the broadcast embed accent color for a score.
func RepColor(score int64) int {
	switch {
	case score >= 100:
		return constants.GoldEmbedColor
	case score >= 50:
		return constants.PurpleEmbedColor
	case score >= 25:
		return constants.BlueEmbedColor
	case score >= 10:
		return constants.GreenEmbedColor
	default:
		return constants.GreyEmbedColor
	}
}

// BroadcastMarker is the machine-readable footer tag that identifies a
// broadcast's author, origin guild and send time.
func BroadcastMarker(authorID, guildID uint64, at time.Time) string {
	return fmt.Sprintf("fc|a:%d|g:%d|t:%d", authorID, guildID, at.Unix())
}

// NextMilestone renders the "Next" field of a reputation card.
func NextMilestone(card *service.Card) string {
	if card.Milestone.Next == nil {
		return "🏆 Max tier reached"
	}

	return fmt.Sprintf("%s at **%s** (need **%s** more)",
		*card.Milestone.Next,
		FormatScore(*card.Milestone.NextAt),
		FormatScore(card.Milestone.Remaining(card.Score)))
}

// RepCardEmbed builds the /rep response.
func RepCardEmbed(card *service.Card, displayName string) discord.Embed {
	user := displayName
	if card.Stars != "" {
		user = card.Stars + " " + displayName
	}

	return discord.NewEmbedBuilder().
		SetTitle("📈 FoxCom Reputation").
		SetColor(constants.DefaultEmbedColor).
		AddField("User", user, false).
		AddField("Reputation", FormatScore(card.Score), true).
		AddField("Tier", card.Tier.Name, true).
		AddField("Next", NextMilestone(card), true).
		Build()
}

// LeaderboardLines renders one line per ranked account.
func LeaderboardLines(accounts []*types.ReputationAccount) []string {
	lines := make([]string, 0, len(accounts))
	for i, account := range accounts {
		name := account.UserName
		if name == "" {
			name = fmt.Sprintf("User %d", account.UserID)
		}

		if stars := reputation.Stars(account.Rep); stars != "" {
			name = stars + " " + name
		}

		lines = append(lines, fmt.Sprintf("**%d.** %s — **%s**", i+1, name, FormatScore(account.Rep)))
	}

	return lines
}

// LeaderboardEmbed builds the /toprep response.
func LeaderboardEmbed(accounts []*types.ReputationAccount) discord.Embed {
	return discord.NewEmbedBuilder().
		SetTitle(fmt.Sprintf("🏅 Reputation Leaderboard (Top %d)", len(accounts))).
		SetColor(constants.GoldEmbedColor).
		SetDescription(strings.Join(LeaderboardLines(accounts), "\n")).
		Build()
}

// StatusEmbed builds the /dbstatus response.
func StatusEmbed(counts *types.TableCounts) discord.Embed {
	lastPrune := "never"
	switch {
	case counts.LastPruneAt != nil:
		lastPrune = fmt.Sprintf("<t:%d:R>", counts.LastPruneAt.Unix())
	case counts.LastPruneRaw != "":
		lastPrune = fmt.Sprintf("unreadable (`%s`)", counts.LastPruneRaw)
	}

	return discord.NewEmbedBuilder().
		SetTitle("🗄️ FoxCom Ledger Status").
		SetColor(constants.DefaultEmbedColor).
		AddField("Accounts", printer.Sprintf("%d", counts.Users), true).
		AddField("Tracked messages", printer.Sprintf("%d", counts.Messages), true).
		AddField("Votes", printer.Sprintf("%d", counts.Votes), true).
		AddField("Quota actions", printer.Sprintf("%d", counts.Actions), true).
		AddField("Blocked users", printer.Sprintf("%d", counts.Blocked), true).
		AddField("Last prune", lastPrune, true).
		Build()
}
