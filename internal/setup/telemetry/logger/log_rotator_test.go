package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readLines(t *testing.T, path string) []string {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	return strings.Split(strings.TrimRight(string(data), "\n"), "\n")
}

func TestLogRotatorTrimsToRecentLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "main.log")

	r, err := Open(path, 3)
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })

	for i := 1; i <= 6; i++ {
		_, err := fmt.Fprintf(r, "line %d\n", i)
		require.NoError(t, err)
	}

	assert.Equal(t, []string{"line 4", "line 5", "line 6"}, readLines(t, path))

	_, err = fmt.Fprintln(r, "line 7")
	require.NoError(t, err)
	assert.Equal(t, []string{"line 4", "line 5", "line 6", "line 7"}, readLines(t, path))
}

func TestLogRotatorMultiLineWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "main.log")

	r, err := Open(path, 2)
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })

	_, err = r.Write([]byte("a\nb\n\nc\nd\n"))
	require.NoError(t, err)

	assert.Equal(t, []string{"c", "d"}, readLines(t, path))
}

func TestLogRotatorUnlimited(t *testing.T) {
	path := filepath.Join(t.TempDir(), "main.log")

	r, err := Open(path, 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })

	for i := range 10 {
		_, err := fmt.Fprintf(r, "line %d\n", i)
		require.NoError(t, err)
	}

	assert.Len(t, readLines(t, path), 10)
}
