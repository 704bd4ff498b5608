package commands

import (
	"context"
	"time"

	"github.com/doom2286/Foxcom/internal/database/dbretry"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

// BlockCommands returns the block list commands.
func BlockCommands(deps *CLIDependencies) []*cli.Command {
	return []*cli.Command{
		{
			Name:      "block",
			Usage:     "Block a user from broadcasting and voting",
			ArgsUsage: "USER_ID",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "name", Usage: "Display name to store with the block"},
				&cli.StringFlag{Name: "reason", Aliases: []string{"r"}, Usage: "Why the user is blocked"},
			},
			Action: handleBlock(deps),
		},
		{
			Name:      "unblock",
			Usage:     "Lift a user's block",
			ArgsUsage: "USER_ID",
			Action:    handleUnblock(deps),
		},
		{
			Name:   "blocked",
			Usage:  "List blocked users",
			Action: handleBlocked(deps),
		},
	}
}

func handleBlock(deps *CLIDependencies) cli.ActionFunc {
	return func(ctx context.Context, c *cli.Command) error {
		if c.Args().Len() != 1 {
			return ErrUserIDRequired
		}

		userID, err := userIDArg(c, 0)
		if err != nil {
			return err
		}

		err = dbretry.NoResult(ctx, func(ctx context.Context) error {
			return deps.DB.Model().Block().BlockUser(ctx, userID, c.String("name"), 0, c.String("reason"))
		})
		if err != nil {
			return err
		}

		deps.Logger.Info("User blocked", zap.Uint64("userID", userID), zap.String("reason", c.String("reason")))

		return nil
	}
}

func handleUnblock(deps *CLIDependencies) cli.ActionFunc {
	return func(ctx context.Context, c *cli.Command) error {
		if c.Args().Len() != 1 {
			return ErrUserIDRequired
		}

		userID, err := userIDArg(c, 0)
		if err != nil {
			return err
		}

		removed, err := dbretry.Operation(ctx, func(ctx context.Context) (bool, error) {
			return deps.DB.Model().Block().UnblockUser(ctx, userID)
		})
		if err != nil {
			return err
		}

		if !removed {
			deps.Logger.Warn("User was not blocked", zap.Uint64("userID", userID))
			return nil
		}

		deps.Logger.Info("User unblocked", zap.Uint64("userID", userID))

		return nil
	}
}

func handleBlocked(deps *CLIDependencies) cli.ActionFunc {
	return func(ctx context.Context, _ *cli.Command) error {
		users, err := deps.DB.Model().Block().GetBlockedUsers(ctx)
		if err != nil {
			return err
		}

		for _, u := range users {
			deps.Logger.Info("Blocked user",
				zap.Uint64("userID", u.UserID),
				zap.String("userName", u.UserName),
				zap.Uint64("blockedBy", u.BlockedBy),
				zap.Time("blockedAt", time.Unix(0, u.BlockedAt).UTC()),
				zap.String("reason", u.Reason))
		}

		deps.Logger.Info("Block list", zap.Int("count", len(users)))

		return nil
	}
}
