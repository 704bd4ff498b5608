package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/doom2286/Foxcom/cmd/db/commands"
	"github.com/doom2286/Foxcom/internal/database"
	"github.com/doom2286/Foxcom/internal/database/migrations"
	"github.com/doom2286/Foxcom/internal/setup/config"
	"github.com/uptrace/bun/migrate"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		log.Printf("Error: %v", err)
		os.Exit(1)
	}
}

func run() error {
	deps, err := setupDependencies()
	if err != nil {
		return fmt.Errorf("failed to setup dependencies: %w", err)
	}
	defer deps.DB.Close()

	var cmds []*cli.Command
	cmds = append(cmds, commands.MigrationCommands(deps)...)
	cmds = append(cmds, commands.LedgerCommands(deps)...)
	cmds = append(cmds, commands.BlockCommands(deps)...)

	app := &cli.Command{
		Name:     "db",
		Usage:    "FoxCom ledger management tool",
		Commands: cmds,
	}

	return app.Run(context.Background(), os.Args)
}

// setupDependencies opens the ledger without applying migrations so the
// migration commands stay in control of the schema.
func setupDependencies() (*commands.CLIDependencies, error) {
	cfg, _, err := config.LoadConfig("common")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	db, err := database.NewConnection(context.Background(), &cfg.Common, logger, false)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &commands.CLIDependencies{
		DB:       db,
		Migrator: migrate.NewMigrator(db.DB(), migrations.Migrations),
		Logger:   logger,
	}, nil
}
