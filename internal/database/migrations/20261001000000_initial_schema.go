package migrations

import (
	"context"
	"fmt"

	"github.com/doom2286/Foxcom/internal/database/types"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		models := []any{
			(*types.ReputationAccount)(nil),
			(*types.VotableMessage)(nil),
			(*types.MaintenanceMarker)(nil),
			(*types.BlockedUser)(nil),
		}

		for _, model := range models {
			_, err := db.NewCreateTable().
				Model(model).
				IfNotExists().
				Exec(ctx)
			if err != nil {
				return fmt.Errorf("failed to create table %T: %w", model, err)
			}
		}

		// Tables that need constraints the model builder cannot express
		statements := []string{
			`CREATE TABLE IF NOT EXISTS rep_votes (
				message_id INTEGER NOT NULL REFERENCES rep_messages (message_id) ON DELETE CASCADE,
				voter_id INTEGER NOT NULL,
				vote INTEGER NOT NULL CHECK (vote IN (-1, 1)),
				PRIMARY KEY (message_id, voter_id)
			)`,
			`CREATE TABLE IF NOT EXISTS broadcast_actions (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				user_id INTEGER NOT NULL,
				used_at INTEGER NOT NULL
			)`,
		}

		for _, stmt := range statements {
			if _, err := db.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("failed to create table: %w", err)
			}
		}

		_, err := db.NewInsert().
			Model(&types.MaintenanceMarker{ID: types.MaintenanceMarkerID}).
			On("CONFLICT (id) DO NOTHING").
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to seed maintenance marker: %w", err)
		}

		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		tables := []string{"rep_votes", "broadcast_actions"}
		for _, table := range tables {
			if _, err := db.ExecContext(ctx, "DROP TABLE IF EXISTS "+table); err != nil {
				return fmt.Errorf("failed to drop table %s: %w", table, err)
			}
		}

		models := []any{
			(*types.BlockedUser)(nil),
			(*types.MaintenanceMarker)(nil),
			(*types.VotableMessage)(nil),
			(*types.ReputationAccount)(nil),
		}

		for _, model := range models {
			_, err := db.NewDropTable().
				Model(model).
				IfExists().
				Exec(ctx)
			if err != nil {
				return fmt.Errorf("failed to drop table %T: %w", model, err)
			}
		}

		return nil
	})
}
