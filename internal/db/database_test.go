package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitDatabase_CreatesTables(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "slidecast.db")
	require.NoError(t, InitDatabase(path))
	t.Cleanup(func() { Close() })

	for _, table := range []string{"settings", "recent_shows"} {
		var name string
		err := DB.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		require.NoError(t, err, table)
		assert.Equal(t, table, name)
	}
}

func TestInitDatabase_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "slidecast.db")
	require.NoError(t, InitDatabase(path))
	_, err := DB.Exec(`INSERT INTO settings (key, value) VALUES ('width', '1280')`)
	require.NoError(t, err)
	require.NoError(t, Close())

	require.NoError(t, InitDatabase(path))
	t.Cleanup(func() { Close() })

	var value string
	require.NoError(t, DB.QueryRow(`SELECT value FROM settings WHERE key = 'width'`).Scan(&value))
	assert.Equal(t, "1280", value)
}
