package commands

import (
	"context"

	"github.com/uptrace/bun/migrate"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

// MigrationCommands returns the schema migration commands.
func MigrationCommands(deps *CLIDependencies) []*cli.Command {
	return []*cli.Command{
		{
			Name:   "migrate",
			Usage:  "Create the migration tables if needed and apply pending migrations",
			Action: handleMigrate(deps),
		},
		{
			Name:   "rollback",
			Usage:  "Roll back the last migration group",
			Action: handleRollback(deps),
		},
		{
			Name:   "migrations",
			Usage:  "Show applied and pending migrations",
			Action: handleMigrations(deps),
		},
		{
			Name:      "create-migration",
			Usage:     "Create a new Go migration file",
			ArgsUsage: "NAME",
			Action:    handleCreateMigration(deps),
		},
	}
}

// withLock runs fn while holding the migrator's table lock.
func withLock(ctx context.Context, m *migrate.Migrator, fn func() (*migrate.MigrationGroup, error)) (*migrate.MigrationGroup, error) {
	if err := m.Init(ctx); err != nil {
		return nil, err
	}

	if err := m.Lock(ctx); err != nil {
		return nil, err
	}
	defer m.Unlock(ctx) //nolint:errcheck // -

	return fn()
}

func handleMigrate(deps *CLIDependencies) cli.ActionFunc {
	return func(ctx context.Context, _ *cli.Command) error {
		group, err := withLock(ctx, deps.Migrator, func() (*migrate.MigrationGroup, error) {
			return deps.Migrator.Migrate(ctx)
		})
		if err != nil {
			return err
		}

		if group.IsZero() {
			deps.Logger.Info("Ledger schema is up to date")
			return nil
		}

		deps.Logger.Info("Migrated ledger schema", zap.String("group", group.String()))

		return nil
	}
}

func handleRollback(deps *CLIDependencies) cli.ActionFunc {
	return func(ctx context.Context, _ *cli.Command) error {
		group, err := withLock(ctx, deps.Migrator, func() (*migrate.MigrationGroup, error) {
			return deps.Migrator.Rollback(ctx)
		})
		if err != nil {
			return err
		}

		if group.IsZero() {
			deps.Logger.Info("No migration groups to roll back")
			return nil
		}

		deps.Logger.Info("Rolled back ledger schema", zap.String("group", group.String()))

		return nil
	}
}

func handleMigrations(deps *CLIDependencies) cli.ActionFunc {
	return func(ctx context.Context, _ *cli.Command) error {
		if err := deps.Migrator.Init(ctx); err != nil {
			return err
		}

		ms, err := deps.Migrator.MigrationsWithStatus(ctx)
		if err != nil {
			return err
		}

		deps.Logger.Info("Migration status",
			zap.Int("total", len(ms)),
			zap.Int("pending", len(ms.Unapplied())),
			zap.String("unapplied", ms.Unapplied().String()),
			zap.String("lastGroup", ms.LastGroup().String()))

		return nil
	}
}

func handleCreateMigration(deps *CLIDependencies) cli.ActionFunc {
	return func(ctx context.Context, c *cli.Command) error {
		if c.Args().Len() != 1 {
			return ErrNameRequired
		}

		mf, err := deps.Migrator.CreateGoMigration(ctx, c.Args().First())
		if err != nil {
			return err
		}

		deps.Logger.Info("Created Go migration",
			zap.String("name", mf.Name),
			zap.String("path", mf.Path))

		return nil
	}
}
