package convert

import (
	dbService "github.com/doom2286/Foxcom/internal/database/service"
	dbTypes "github.com/doom2286/Foxcom/internal/database/types"
	"github.com/doom2286/Foxcom/internal/reputation"
	"github.com/doom2286/Foxcom/internal/rest/types"
)

// Reputation converts a reputation card to its API representation.
func Reputation(card *dbService.Card, blocked bool) types.ReputationResponse {
	return types.ReputationResponse{
		UserID:    card.UserID,
		UserName:  card.UserName,
		Score:     card.Score,
		Level:     card.Tier.Level,
		Tier:      card.Tier.Name,
		Stars:     card.Stars,
		NextTier:  card.Milestone.Next,
		NextAt:    card.Milestone.NextAt,
		Remaining: card.Milestone.Remaining(card.Score),
		Blocked:   blocked,
	}
}

// Leaderboard converts ranked accounts to their API representation.
func Leaderboard(accounts []*dbTypes.ReputationAccount) types.LeaderboardResponse {
	entries := make([]types.LeaderboardEntry, 0, len(accounts))
	for i, account := range accounts {
		entries = append(entries, types.LeaderboardEntry{
			Rank:     i + 1,
			UserID:   account.UserID,
			UserName: account.UserName,
			Score:    account.Rep,
			Tier:     reputation.TierFor(account.Rep).Name,
		})
	}

	return types.LeaderboardResponse{Entries: entries}
}

// Status converts table counts to their API representation.
func Status(counts *dbTypes.TableCounts) types.StatusResponse {
	return types.StatusResponse{
		Users:       counts.Users,
		Messages:    counts.Messages,
		Votes:       counts.Votes,
		Actions:     counts.Actions,
		Blocked:     counts.Blocked,
		LastPruneAt: counts.LastPruneAt,
	}
}
