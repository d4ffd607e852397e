package services

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/habitkit/habit-tracker-api/internal/database"
	"github.com/habitkit/habit-tracker-api/internal/models"
	"github.com/habitkit/habit-tracker-api/internal/repository"
)

// newTestStore opens a migrated in-memory SQLite store.
func newTestStore(t *testing.T) *database.Store {
	t.Helper()

	store, err := database.OpenLocal(":memory:", false)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(store.DB))

	t.Cleanup(func() {
		store.Close()
	})
	return store
}

func newTestAuthService(t *testing.T, store *database.Store) *AuthService {
	t.Helper()
	return NewAuthService(
		repository.NewUserRepository(store.DB),
		NewBcryptHasher(bcrypt.MinCost),
		NewJWTIssuer("test-secret", 0),
	)
}

func createTestHabit(t *testing.T, store *database.Store, userID uint64, name string, category models.HabitCategory) *models.Habit {
	t.Helper()
	habit := &models.Habit{
		UserID:   userID,
		Name:     name,
		Category: category,
		Target:   1,
		Color:    "#667eea",
		Type:     "daily",
	}
	require.NoError(t, store.DB.Create(habit).Error)
	return habit
}
