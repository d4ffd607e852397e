package repository

import (
	"context"
	"errors"

	"github.com/habitkit/habit-tracker-api/internal/models"
	"github.com/habitkit/habit-tracker-api/internal/utils"
)

// ErrHabitIDCollision is returned by UpsertByID when the identifier is already
// taken by a habit of another user.
var ErrHabitIDCollision = errors.New("habit id is owned by another user")

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *models.User) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uint64) (*models.User, error)

	// FindByEmail finds a user by normalized email
	FindByEmail(ctx context.Context, email string) (*models.User, error)

	// UpdateName sets the display name and returns the updated user
	UpdateName(ctx context.Context, id uint64, name *string) (*models.User, error)
}

// HabitRepository defines the interface for habit and daily entry data access.
// Every operation is scoped by the owning user. Missing or foreign rows are
// reported as gorm.ErrRecordNotFound.
type HabitRepository interface {
	// List returns the user's habits, newest created first
	List(ctx context.Context, userID uint64) ([]models.Habit, error)

	// Count returns how many habits the user owns
	Count(ctx context.Context, userID uint64) (int64, error)

	// FindByID finds a habit owned by userID
	FindByID(ctx context.Context, userID, id uint64) (*models.Habit, error)

	// Create creates a new habit with a generated identifier
	Create(ctx context.Context, habit *models.Habit) error

	// Update overwrites all mutable fields of a habit
	Update(ctx context.Context, habit *models.Habit) error

	// Delete removes a habit owned by userID together with all of its entries
	Delete(ctx context.Context, userID, id uint64) error

	// UpsertByID writes habits keyed on their identifier, inserting absent rows
	// and overwriting mutable fields of present ones owned by the same user.
	// Rows are committed one at a time; on failure it returns how many were
	// written before the error. A row whose id belongs to another user fails
	// with ErrHabitIDCollision and is left untouched.
	UpsertByID(ctx context.Context, habits []models.Habit) (int, error)

	// AlignIDSequence moves the habit id generator past the highest stored id
	// so creates after an UpsertByID do not reuse an identifier.
	AlignIDSequence(ctx context.Context) error

	// UpsertCompletion inserts or replaces the (habit, user, date) completion entry
	UpsertCompletion(ctx context.Context, entry *models.CompletionEntry) error

	// UpsertValue inserts or replaces the (habit, user, date) value entry
	UpsertValue(ctx context.Context, entry *models.ValueEntry) error

	// UpsertMood inserts or replaces the (habit, user, date) mood entry
	UpsertMood(ctx context.Context, entry *models.MoodEntry) error

	// ListCompletions lists the user's completion entries, newest date first
	ListCompletions(ctx context.Context, userID uint64, page utils.PaginationParams) ([]models.CompletionEntry, error)

	// ListValues lists the user's value entries, newest date first
	ListValues(ctx context.Context, userID uint64, page utils.PaginationParams) ([]models.ValueEntry, error)

	// ListMoods lists the user's mood entries, newest date first
	ListMoods(ctx context.Context, userID uint64, page utils.PaginationParams) ([]models.MoodEntry, error)
}
