package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/habitkit/habit-tracker-api/internal/config"
	"github.com/habitkit/habit-tracker-api/internal/models"
	"github.com/habitkit/habit-tracker-api/internal/utils"
)

func TestOpenLocal_CreatesDirectoryAndMigrates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "habits.db")

	store, err := OpenLocal(path, false)
	require.NoError(t, err)
	defer store.Close()

	assert.Equal(t, KindSQLite, store.Kind)
	require.NoError(t, store.Ping(context.Background()))

	require.NoError(t, Migrate(store.DB))
	// Migrations are idempotent
	require.NoError(t, Migrate(store.DB))

	migrator := store.DB.Migrator()
	for _, model := range []interface{}{&models.User{}, &models.Habit{}, &models.CompletionEntry{}, &models.ValueEntry{}, &models.MoodEntry{}} {
		assert.True(t, migrator.HasTable(model))
	}
	assert.True(t, migrator.HasIndex("habit_values", "idx_habit_values_user_date"))
	assert.True(t, migrator.HasIndex(&models.ValueEntry{}, "uq_values_habit_user_date"))
}

func TestOpenRemote_Unreachable(t *testing.T) {
	cfg := &config.Config{
		RemoteDriver:     config.DriverPostgres,
		DBHost:           "127.0.0.1",
		DBPort:           "1",
		DBUser:           "habits",
		DBName:           "habits",
		DBSSLMode:        "disable",
		DBConnectTimeout: 500 * time.Millisecond,
	}

	_, err := OpenRemote(context.Background(), cfg)
	assert.Error(t, err)
}

func TestPaginate(t *testing.T) {
	store, err := OpenLocal(":memory:", false)
	require.NoError(t, err)
	defer store.Close()
	require.NoError(t, Migrate(store.DB))

	for i := 0; i < 5; i++ {
		require.NoError(t, store.DB.Create(&models.Habit{UserID: 1, Name: "h", Category: models.CategoryBinary}).Error)
	}

	var all []models.Habit
	require.NoError(t, store.DB.Scopes(OwnedBy(1), Paginate(utils.PaginationParams{})).Find(&all).Error)
	assert.Len(t, all, 5)

	var page []models.Habit
	require.NoError(t, store.DB.Scopes(OwnedBy(1), Paginate(utils.PaginationParams{Page: 2, Limit: 2, Offset: 2})).Order("id").Find(&page).Error)
	require.Len(t, page, 2)
	assert.Equal(t, uint64(3), page[0].ID)

	var none []models.Habit
	require.NoError(t, store.DB.Scopes(OwnedBy(2)).Find(&none).Error)
	assert.Empty(t, none)
}
