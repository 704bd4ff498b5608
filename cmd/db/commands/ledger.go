package commands

import (
	"context"
	"path/filepath"
	"strconv"
	"time"

	"github.com/doom2286/Foxcom/internal/database/dbretry"
	"github.com/doom2286/Foxcom/internal/export"
	"github.com/doom2286/Foxcom/internal/reputation"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

// LedgerCommands returns the reputation ledger administration commands.
func LedgerCommands(deps *CLIDependencies) []*cli.Command {
	return []*cli.Command{
		{
			Name:   "status",
			Usage:  "Show ledger row counts and the last prune time",
			Action: handleStatus(deps),
		},
		{
			Name:      "setrep",
			Usage:     "Override a user's reputation score",
			ArgsUsage: "USER_ID VALUE",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "name",
					Usage: "Display name to store with the account",
				},
			},
			Action: handleSetRep(deps),
		},
		{
			Name:   "prune",
			Usage:  "Delete expired vote tracking state now",
			Action: handlePrune(deps),
		},
		{
			Name:  "leaderboard",
			Usage: "Show the top reputation accounts",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:    "limit",
					Aliases: []string{"l"},
					Usage:   "How many accounts to show (max 25)",
					Value:   10,
				},
			},
			Action: handleLeaderboard(deps),
		},
		{
			Name:  "export",
			Usage: "Write a SQLite snapshot of accounts and the block list",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "output",
					Aliases: []string{"o"},
					Value:   "exports",
					Usage:   "Base output directory for snapshots",
				},
			},
			Action: handleExport(deps),
		},
	}
}

func handleStatus(deps *CLIDependencies) cli.ActionFunc {
	return func(ctx context.Context, _ *cli.Command) error {
		counts, err := deps.DB.Service().Maintenance().Status(ctx)
		if err != nil {
			return err
		}

		fields := []zap.Field{
			zap.Int("accounts", counts.Users),
			zap.Int("messages", counts.Messages),
			zap.Int("votes", counts.Votes),
			zap.Int("actions", counts.Actions),
			zap.Int("blocked", counts.Blocked),
		}

		switch {
		case counts.LastPruneAt != nil:
			fields = append(fields, zap.Time("lastPrune", *counts.LastPruneAt))
		case counts.LastPruneRaw != "":
			fields = append(fields, zap.String("lastPruneUnreadable", counts.LastPruneRaw))
		}

		deps.Logger.Info("Ledger status", fields...)

		return nil
	}
}

func handleSetRep(deps *CLIDependencies) cli.ActionFunc {
	return func(ctx context.Context, c *cli.Command) error {
		if c.Args().Len() != 2 {
			return ErrValueRequired
		}

		userID, err := userIDArg(c, 0)
		if err != nil {
			return err
		}

		value, err := strconv.ParseInt(c.Args().Get(1), 10, 64)
		if err != nil {
			return err
		}

		err = dbretry.NoResult(ctx, func(ctx context.Context) error {
			return deps.DB.Service().Reputation().SetScore(ctx, userID, c.String("name"), value, "cli")
		})
		if err != nil {
			return err
		}

		deps.Logger.Info("Reputation set",
			zap.Uint64("userID", userID),
			zap.Int64("value", value),
			zap.String("tier", reputation.TierFor(value).Name))

		return nil
	}
}

func handlePrune(deps *CLIDependencies) cli.ActionFunc {
	return func(ctx context.Context, _ *cli.Command) error {
		result, err := dbretry.Operation(ctx, deps.DB.Service().Maintenance().Prune)
		if err != nil {
			return err
		}

		deps.Logger.Info("Prune complete",
			zap.Int64("messages", result.Messages),
			zap.Int64("votes", result.Votes),
			zap.Time("at", result.At))

		return nil
	}
}

func handleLeaderboard(deps *CLIDependencies) cli.ActionFunc {
	return func(ctx context.Context, c *cli.Command) error {
		accounts, err := deps.DB.Service().Reputation().GetLeaderboard(ctx, c.Int("limit"))
		if err != nil {
			return err
		}

		if len(accounts) == 0 {
			deps.Logger.Info("No reputation data yet")
			return nil
		}

		for i, account := range accounts {
			deps.Logger.Info("Leaderboard",
				zap.Int("rank", i+1),
				zap.Uint64("userID", account.UserID),
				zap.String("userName", account.UserName),
				zap.Int64("rep", account.Rep),
				zap.String("tier", reputation.TierFor(account.Rep).Name))
		}

		return nil
	}
}

func handleExport(deps *CLIDependencies) cli.ActionFunc {
	return func(ctx context.Context, c *cli.Command) error {
		outDir := filepath.Join(c.String("output"), time.Now().UTC().Format("2006-01-02_150405"))

		manifest, err := export.New(deps.DB, outDir).Export(ctx)
		if err != nil {
			return err
		}

		deps.Logger.Info("Export complete",
			zap.String("dir", outDir),
			zap.String("database", manifest.Database),
			zap.Int("accounts", manifest.Accounts),
			zap.Int("blocked", manifest.Blocked))

		return nil
	}
}
