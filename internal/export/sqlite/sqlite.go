package sqlite

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/doom2286/Foxcom/internal/export/types"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

// FileName is the name of the snapshot database inside the output directory.
const FileName = "reputation.db"

// Exporter writes reputation snapshots to a standalone SQLite database.
type Exporter struct {
	outDir string
}

// New creates a new SQLite exporter instance.
func New(outDir string) *Exporter {
	return &Exporter{outDir: outDir}
}

// Path returns the snapshot file path.
func (e *Exporter) Path() string {
	return filepath.Join(e.outDir, FileName)
}

// Export replaces the snapshot file with the given accounts and blocks.
func (e *Exporter) Export(accounts []*types.AccountRecord, blocks []*types.BlockRecord) error {
	// Remove existing file if it exists
	if err := os.Remove(e.Path()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove existing file %s: %w", FileName, err)
	}

	conn, err := sqlite.OpenConn(e.Path(), sqlite.OpenCreate|sqlite.OpenReadWrite)
	if err != nil {
		return fmt.Errorf("failed to open SQLite database: %w", err)
	}
	defer conn.Close()

	err = sqlitex.ExecuteScript(conn, `
		CREATE TABLE accounts (
			user_id INTEGER PRIMARY KEY,
			user_name TEXT NOT NULL,
			rep INTEGER NOT NULL,
			level INTEGER NOT NULL,
			tier TEXT NOT NULL,
			last_updated TEXT NOT NULL
		);
		CREATE INDEX idx_accounts_rep ON accounts (rep DESC);
		CREATE TABLE blocked (
			user_id INTEGER PRIMARY KEY,
			user_name TEXT NOT NULL,
			blocked_by INTEGER NOT NULL,
			blocked_at TEXT NOT NULL,
			reason TEXT NOT NULL
		);
	`, nil)
	if err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}

	if err := insertBatched(conn, accounts, func(record *types.AccountRecord) error {
		return sqlitex.Execute(conn,
			"INSERT INTO accounts (user_id, user_name, rep, level, tier, last_updated) VALUES (?, ?, ?, ?, ?, ?)",
			&sqlitex.ExecOptions{
				Args: []any{
					int64(record.UserID), record.UserName, record.Rep, record.Level, record.Tier, record.LastUpdated,
				},
			})
	}); err != nil {
		return fmt.Errorf("failed to export accounts: %w", err)
	}

	if err := insertBatched(conn, blocks, func(record *types.BlockRecord) error {
		return sqlitex.Execute(conn,
			"INSERT INTO blocked (user_id, user_name, blocked_by, blocked_at, reason) VALUES (?, ?, ?, ?, ?)",
			&sqlitex.ExecOptions{
				Args: []any{
					int64(record.UserID), record.UserName, int64(record.BlockedBy), record.BlockedAt, record.Reason,
				},
			})
	}); err != nil {
		return fmt.Errorf("failed to export blocked users: %w", err)
	}

	return nil
}

// insertBatched inserts records in transactions of up to 1000 rows.
func insertBatched[T any](conn *sqlite.Conn, records []T, insert func(T) error) error {
	const batchSize = 1000
	for i := 0; i < len(records); i += batchSize {
		end := min(i+batchSize, len(records))

		// Begin transaction
		if err := sqlitex.Execute(conn, "BEGIN TRANSACTION", nil); err != nil {
			return fmt.Errorf("failed to begin transaction: %w", err)
		}

		// Insert batch
		for _, record := range records[i:end] {
			if err := insert(record); err != nil {
				_ = sqlitex.Execute(conn, "ROLLBACK", nil)
				return fmt.Errorf("failed to insert record: %w", err)
			}
		}

		// Commit transaction
		if err := sqlitex.Execute(conn, "COMMIT", nil); err != nil {
			return fmt.Errorf("failed to commit transaction: %w", err)
		}
	}

	return nil
}
