package bot

import (
	"context"
	"errors"
	"fmt"

	"github.com/disgoorg/disgo/discord"
	"github.com/doom2286/Foxcom/internal/bot/constants"
	"github.com/doom2286/Foxcom/internal/database"
	"github.com/doom2286/Foxcom/internal/database/dbretry"
	"github.com/doom2286/Foxcom/internal/database/service"
	"github.com/doom2286/Foxcom/internal/database/types"
	"go.uber.org/zap"
)

// DefaultTopRepLimit is used when /toprep is called without a limit.
const DefaultTopRepLimit = 10

// Reply is the ephemeral response to a slash command.
type Reply struct {
	Content string
	Embeds  []discord.Embed
}

func textReply(content string) Reply {
	return Reply{Content: content}
}

func embedReply(embed discord.Embed) Reply {
	return Reply{Embeds: []discord.Embed{embed}}
}

// GlobalCommands returns the commands available in every guild.
func GlobalCommands() []discord.ApplicationCommandCreate {
	minLimit, maxLimit := service.MinLeaderboardLimit, service.MaxLeaderboardLimit

	broadcast := func(name, description string) discord.SlashCommandCreate {
		return discord.SlashCommandCreate{
			Name:        name,
			Description: description,
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionString{
					Name:        constants.MessageOption,
					Description: "Message to broadcast",
					Required:    true,
				},
			},
		}
	}

	return []discord.ApplicationCommandCreate{
		discord.SlashCommandCreate{
			Name:        constants.RepCommandName,
			Description: "Show reputation for a user (or yourself)",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionUser{
					Name:        constants.UserOption,
					Description: "User to check",
				},
			},
		},
		discord.SlashCommandCreate{
			Name:        constants.TopRepCommandName,
			Description: "Show the top reputation users",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionInt{
					Name:        constants.LimitOption,
					Description: "How many to show (max 25)",
					MinValue:    &minLimit,
					MaxValue:    &maxLimit,
				},
			},
		},
		broadcast(constants.QRFCommandName, "Quick Reaction Force broadcast"),
		broadcast(constants.LogiCommandName, "Logistics request broadcast"),
		broadcast(constants.BattleCommandName, "Battle update broadcast"),
	}
}

// AdminCommands returns the commands registered only in the admin guild.
func AdminCommands() []discord.ApplicationCommandCreate {
	target := discord.ApplicationCommandOptionUser{
		Name:        constants.UserOption,
		Description: "Target user",
		Required:    true,
	}

	return []discord.ApplicationCommandCreate{
		discord.SlashCommandCreate{
			Name:        constants.SetUserRepCommandName,
			Description: "Override a user's reputation",
			Options: []discord.ApplicationCommandOption{
				target,
				discord.ApplicationCommandOptionInt{
					Name:        constants.ValueOption,
					Description: "New reputation value",
					Required:    true,
				},
			},
		},
		discord.SlashCommandCreate{
			Name:        constants.DBStatusCommandName,
			Description: "Show ledger row counts and the last prune",
		},
		discord.SlashCommandCreate{
			Name:        constants.BlockUserCommandName,
			Description: "Block a user from FoxCom commands and votes",
			Options: []discord.ApplicationCommandOption{
				target,
				discord.ApplicationCommandOptionString{
					Name:        constants.ReasonOption,
					Description: "Why the user is blocked",
				},
			},
		},
		discord.SlashCommandCreate{
			Name:        constants.UnblockUserCommandName,
			Description: "Lift a user's block",
			Options:     []discord.ApplicationCommandOption{target},
		},
	}
}

// Commands implements the slash command behavior independent of Discord events.
type Commands struct {
	db     database.Client
	logger *zap.Logger
}

// NewCommands creates the command set.
func NewCommands(db database.Client, logger *zap.Logger) *Commands {
	return &Commands{
		db:     db,
		logger: logger.Named("commands"),
	}
}

// IsBlocked reports whether the user is on the block list.
func (c *Commands) IsBlocked(ctx context.Context, userID uint64) (bool, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (bool, error) {
		return c.db.Model().Block().IsBlocked(ctx, userID)
	})
}

// Rep shows a user's reputation card.
func (c *Commands) Rep(ctx context.Context, userID uint64, displayName string) (Reply, error) {
	card, err := c.db.Service().Reputation().GetCard(ctx, userID)
	if err != nil {
		return Reply{}, err
	}

	return embedReply(RepCardEmbed(card, displayName)), nil
}

// TopRep shows the leaderboard.
func (c *Commands) TopRep(ctx context.Context, limit int) (Reply, error) {
	accounts, err := c.db.Service().Reputation().GetLeaderboard(ctx, limit)
	if err != nil {
		return Reply{}, err
	}

	if len(accounts) == 0 {
		return textReply("⚠️ No reputation data yet."), nil
	}

	return embedReply(LeaderboardEmbed(accounts)), nil
}

// SetUserRep overrides a user's score.
func (c *Commands) SetUserRep(
	ctx context.Context, actor string, userID uint64, displayName string, value int64,
) (Reply, error) {
	err := dbretry.NoResult(ctx, func(ctx context.Context) error {
		return c.db.Service().Reputation().SetScore(ctx, userID, displayName, value, actor)
	})
	if errors.Is(err, types.ErrScoreOutOfRange) {
		lo, hi := c.db.Service().Reputation().Bounds()
		return textReply(fmt.Sprintf("❌ Reputation must be between %s and %s.", FormatScore(lo), FormatScore(hi))), nil
	}
	if err != nil {
		return Reply{}, err
	}

	return textReply(fmt.Sprintf("✅ Set reputation for **%s** to **%s**.", displayName, FormatScore(value))), nil
}

// DBStatus shows ledger row counts.
func (c *Commands) DBStatus(ctx context.Context) (Reply, error) {
	counts, err := c.db.Service().Maintenance().Status(ctx)
	if err != nil {
		return Reply{}, err
	}

	return embedReply(StatusEmbed(counts)), nil
}

// BlockUser adds a user to the block list.
func (c *Commands) BlockUser(
	ctx context.Context, adminID, userID uint64, displayName, reason string,
) (Reply, error) {
	err := dbretry.NoResult(ctx, func(ctx context.Context) error {
		return c.db.Model().Block().BlockUser(ctx, userID, displayName, adminID, reason)
	})
	if err != nil {
		return Reply{}, err
	}

	c.logger.Info("User blocked",
		zap.Uint64("userID", userID),
		zap.Uint64("adminID", adminID),
		zap.String("reason", reason))

	return textReply(fmt.Sprintf("⛔ Blocked **%s** from FoxCom commands.", displayName)), nil
}

// UnblockUser removes a user from the block list.
func (c *Commands) UnblockUser(ctx context.Context, userID uint64, displayName string) (Reply, error) {
	removed, err := dbretry.Operation(ctx, func(ctx context.Context) (bool, error) {
		return c.db.Model().Block().UnblockUser(ctx, userID)
	})
	if err != nil {
		return Reply{}, err
	}

	if !removed {
		return textReply(fmt.Sprintf("⚠️ **%s** is not blocked.", displayName)), nil
	}

	return textReply(fmt.Sprintf("✅ Unblocked **%s**.", displayName)), nil
}
