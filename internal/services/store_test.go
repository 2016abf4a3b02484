package services

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slidecast/internal/db"
	"slidecast/internal/models"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	require.NoError(t, db.InitDatabase(filepath.Join(t.TempDir(), "test.db")))
	t.Cleanup(func() { db.Close() })
	return db.DB
}

func TestSQLSettingsStore_RoundTrip(t *testing.T) {
	a := assert.New(t)
	store := NewSQLSettingsStore(openTestDB(t))

	_, found, err := store.LoadSettings()
	require.NoError(t, err)
	a.False(found)

	saved := models.Settings{Width: 1280, Height: 720, PaddingSize: 16, BackgroundColor: "#102030"}
	require.NoError(t, store.SaveSettings(saved))
	saved.Width = 1366
	require.NoError(t, store.SaveSettings(saved))

	loaded, found, err := store.LoadSettings()
	require.NoError(t, err)
	a.True(found)
	a.Equal(saved, loaded)
}

func TestSQLSettingsStore_BacksSettingsService(t *testing.T) {
	database := openTestDB(t)
	svc, err := NewSettingsService(NewSQLSettingsStore(database))
	require.NoError(t, err)

	require.NoError(t, svc.Set(SettingPaddingSize, "24"))

	reopened, err := NewSettingsService(NewSQLSettingsStore(database))
	require.NoError(t, err)
	assert.Equal(t, 24, reopened.Get().PaddingSize)
	assert.Equal(t, 1920, reopened.Get().Width)
}

func TestSQLRecentShowStore_OrdersNewestFirst(t *testing.T) {
	a := assert.New(t)
	store := NewSQLRecentShowStore(openTestDB(t))
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, store.Touch(models.RecentShow{Path: "/shows/a.json", Name: "A", OpenedAt: base}))
	require.NoError(t, store.Touch(models.RecentShow{Path: "/shows/b.json", Name: "B", OpenedAt: base.Add(time.Hour)}))
	require.NoError(t, store.Touch(models.RecentShow{Path: "/shows/a.json", Name: "A2", OpenedAt: base.Add(2 * time.Hour)}))

	shows, err := store.List(10)
	require.NoError(t, err)
	require.Len(t, shows, 2)
	a.Equal("/shows/a.json", shows[0].Path)
	a.Equal("A2", shows[0].Name)
	a.Equal("/shows/b.json", shows[1].Path)

	limited, err := store.List(1)
	require.NoError(t, err)
	a.Len(limited, 1)
}

func TestSQLRecentShowStore_Remove(t *testing.T) {
	store := NewSQLRecentShowStore(openTestDB(t))
	require.NoError(t, store.Touch(models.RecentShow{Path: "/shows/a.json", Name: "A"}))

	require.NoError(t, store.Remove("/shows/a.json"))
	assert.Error(t, store.Remove("/shows/a.json"))

	shows, err := store.List(10)
	require.NoError(t, err)
	assert.Empty(t, shows)
}
