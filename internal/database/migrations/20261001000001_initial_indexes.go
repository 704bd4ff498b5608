package migrations

import (
	"context"
	"fmt"

	"github.com/doom2286/Foxcom/internal/database/types"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		indexes := []struct {
			model   any
			name    string
			columns []string
		}{
			{(*types.BroadcastAction)(nil), "idx_broadcast_actions_user_time", []string{"user_id", "used_at"}},
			{(*types.BroadcastAction)(nil), "idx_broadcast_actions_used_at", []string{"used_at"}},
			{(*types.VotableMessage)(nil), "idx_rep_messages_created_at", []string{"created_at"}},
			{(*types.ReputationAccount)(nil), "idx_rep_users_rep", []string{"rep"}},
		}

		for _, idx := range indexes {
			_, err := db.NewCreateIndex().
				Model(idx.model).
				Index(idx.name).
				Column(idx.columns...).
				IfNotExists().
				Exec(ctx)
			if err != nil {
				return fmt.Errorf("failed to create index %s: %w", idx.name, err)
			}
		}

		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		names := []string{
			"idx_rep_users_rep",
			"idx_rep_messages_created_at",
			"idx_broadcast_actions_used_at",
			"idx_broadcast_actions_user_time",
		}

		for _, name := range names {
			_, err := db.NewDropIndex().
				Index(name).
				IfExists().
				Exec(ctx)
			if err != nil {
				return fmt.Errorf("failed to drop index %s: %w", name, err)
			}
		}

		return nil
	})
}
