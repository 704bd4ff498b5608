package export_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/doom2286/Foxcom/internal/database/dbtest"
	"github.com/doom2286/Foxcom/internal/export"
	"github.com/doom2286/Foxcom/internal/export/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExport(t *testing.T) {
	env := dbtest.New(t)
	ctx := context.Background()

	require.NoError(t, env.Client.Service().Reputation().SetScore(ctx, 1, "one", 12, "seed"))
	require.NoError(t, env.Client.Service().Reputation().SetScore(ctx, 2, "two", 300, "seed"))
	require.NoError(t, env.Client.Model().Block().BlockUser(ctx, 3, "three", 1, "spam"))

	outDir := filepath.Join(t.TempDir(), "snapshots")

	manifest, err := export.New(env.Client, outDir).Export(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, manifest.Accounts)
	assert.Equal(t, 1, manifest.Blocked)
	assert.Equal(t, sqlite.FileName, manifest.Database)

	data, err := os.ReadFile(filepath.Join(outDir, export.ManifestFile))
	require.NoError(t, err)

	var decoded export.Manifest
	require.NoError(t, sonic.Unmarshal(data, &decoded))
	assert.Equal(t, export.EngineVersion, decoded.EngineVersion)
	assert.Equal(t, 2, decoded.Accounts)

	_, err = os.Stat(filepath.Join(outDir, sqlite.FileName))
	require.NoError(t, err)
}
