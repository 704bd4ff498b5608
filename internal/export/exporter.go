// Package export writes point-in-time snapshots of the reputation ledger.
package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bytedance/sonic"
	"github.com/doom2286/Foxcom/internal/database"
	"github.com/doom2286/Foxcom/internal/export/sqlite"
	"github.com/doom2286/Foxcom/internal/export/types"
	"github.com/doom2286/Foxcom/internal/reputation"
)

// EngineVersion is the version of the snapshot layout.
const EngineVersion = "1.0.0"

// ManifestFile is the name of the manifest written next to the snapshot.
const ManifestFile = "manifest.json"

// Manifest describes one snapshot.
type Manifest struct {
	EngineVersion string    `json:"engineVersion"`
	CreatedAt     time.Time `json:"createdAt"`
	Accounts      int       `json:"accounts"`
	Blocked       int       `json:"blocked"`
	Database      string    `json:"database"`
}

// Exporter snapshots reputation accounts and the block list.
type Exporter struct {
	db     database.Client
	outDir string
}

// New creates a new exporter instance.
func New(db database.Client, outDir string) *Exporter {
	return &Exporter{db: db, outDir: outDir}
}

// Export writes the SQLite snapshot and its manifest.
func (e *Exporter) Export(ctx context.Context) (*Manifest, error) {
	if err := os.MkdirAll(e.outDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	accounts, err := e.db.Model().Reputation().GetAllAccounts(ctx)
	if err != nil {
		return nil, err
	}

	blocked, err := e.db.Model().Block().GetBlockedUsers(ctx)
	if err != nil {
		return nil, err
	}

	accountRecords := make([]*types.AccountRecord, 0, len(accounts))
	for _, account := range accounts {
		tier := reputation.TierFor(account.Rep)
		accountRecords = append(accountRecords, &types.AccountRecord{
			UserID:      account.UserID,
			UserName:    account.UserName,
			Rep:         account.Rep,
			Level:       tier.Level,
			Tier:        tier.Name,
			LastUpdated: account.UpdatedAt().Format(time.RFC3339),
		})
	}

	blockRecords := make([]*types.BlockRecord, 0, len(blocked))
	for _, block := range blocked {
		blockRecords = append(blockRecords, &types.BlockRecord{
			UserID:    block.UserID,
			UserName:  block.UserName,
			BlockedBy: block.BlockedBy,
			BlockedAt: time.Unix(0, block.BlockedAt).UTC().Format(time.RFC3339),
			Reason:    block.Reason,
		})
	}

	exporter := sqlite.New(e.outDir)
	if err := exporter.Export(accountRecords, blockRecords); err != nil {
		return nil, err
	}

	manifest := &Manifest{
		EngineVersion: EngineVersion,
		CreatedAt:     e.db.Ledger().Now(),
		Accounts:      len(accountRecords),
		Blocked:       len(blockRecords),
		Database:      sqlite.FileName,
	}

	data, err := sonic.ConfigStd.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal manifest: %w", err)
	}

	if err := os.WriteFile(filepath.Join(e.outDir, ManifestFile), data, 0o600); err != nil {
		return nil, fmt.Errorf("failed to write manifest: %w", err)
	}

	return manifest, nil
}
