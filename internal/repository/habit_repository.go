package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/habitkit/habit-tracker-api/internal/database"
	"github.com/habitkit/habit-tracker-api/internal/models"
	"github.com/habitkit/habit-tracker-api/internal/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// habitSyncColumns are overwritten when a habit with the same identifier
// already exists in the target store.
var habitSyncColumns = []string{
	"name", "description", "category", "unit", "target", "color", "type", "updated_at",
}

var entryConflictColumns = []clause.Column{{Name: "habit_id"}, {Name: "user_id"}, {Name: "date"}}

// GormHabitRepository is a GORM implementation of HabitRepository
type GormHabitRepository struct {
	db *gorm.DB
}

// NewHabitRepository creates a new HabitRepository
func NewHabitRepository(db *gorm.DB) HabitRepository {
	return &GormHabitRepository{db: db}
}

// List returns the user's habits, newest created first
func (r *GormHabitRepository) List(ctx context.Context, userID uint64) ([]models.Habit, error) {
	habits := []models.Habit{}
	if err := r.db.WithContext(ctx).
		Scopes(database.OwnedBy(userID)).
		Order("created_at DESC, id DESC").
		Find(&habits).Error; err != nil {
		return nil, err
	}
	return habits, nil
}

// Count returns how many habits the user owns
func (r *GormHabitRepository) Count(ctx context.Context, userID uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Habit{}).
		Scopes(database.OwnedBy(userID)).
		Count(&count).Error
	return count, err
}

// FindByID finds a habit owned by userID
func (r *GormHabitRepository) FindByID(ctx context.Context, userID, id uint64) (*models.Habit, error) {
	var habit models.Habit
	if err := r.db.WithContext(ctx).
		Scopes(database.OwnedBy(userID)).
		First(&habit, id).Error; err != nil {
		return nil, err
	}
	return &habit, nil
}

// Create creates a new habit
func (r *GormHabitRepository) Create(ctx context.Context, habit *models.Habit) error {
	return r.db.WithContext(ctx).Create(habit).Error
}

// Update updates a habit
func (r *GormHabitRepository) Update(ctx context.Context, habit *models.Habit) error {
	return r.db.WithContext(ctx).Save(habit).Error
}

// Delete deletes a habit and its entries in a transaction
func (r *GormHabitRepository) Delete(ctx context.Context, userID, id uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Scopes(database.OwnedBy(userID)).Delete(&models.Habit{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		for _, entry := range []interface{}{&models.CompletionEntry{}, &models.ValueEntry{}, &models.MoodEntry{}} {
			if err := tx.Where("habit_id = ?", id).Delete(entry).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

// UpsertByID writes each habit keyed on its identifier. An existing row is
// only overwritten when it has the same owner.
func (r *GormHabitRepository) UpsertByID(ctx context.Context, habits []models.Habit) (int, error) {
	written := 0
	for i := range habits {
		habit := habits[i]
		if err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return upsertOwnedHabit(tx, &habit)
		}); err != nil {
			if errors.Is(err, ErrHabitIDCollision) {
				err = fmt.Errorf("%w: id %d", ErrHabitIDCollision, habit.ID)
			}
			return written, err
		}
		written++
	}
	return written, nil
}

// AlignIDSequence advances the PostgreSQL serial behind habits.id. SQLite and
// MySQL move their counters on explicit inserts already.
func (r *GormHabitRepository) AlignIDSequence(ctx context.Context) error {
	if r.db.Dialector.Name() != "postgres" {
		return nil
	}
	return r.db.WithContext(ctx).
		Exec("SELECT setval(pg_get_serial_sequence('habits', 'id'), COALESCE((SELECT MAX(id) FROM habits), 0) + 1, false)").
		Error
}

func upsertOwnedHabit(tx *gorm.DB, habit *models.Habit) error {
	var existing models.Habit
	err := tx.Select("id", "user_id").Where("id = ?", habit.ID).Take(&existing).Error
	switch {
	case err == nil && existing.UserID != habit.UserID:
		return ErrHabitIDCollision
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
		return err
	}

	onConflict := clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns(habitSyncColumns),
	}
	// MySQL's ON DUPLICATE KEY UPDATE takes no condition; the owner check above covers it.
	mysql := tx.Dialector.Name() == "mysql"
	if !mysql {
		onConflict.Where = clause.Where{Exprs: []clause.Expression{
			clause.Expr{SQL: "habits.user_id = excluded.user_id"},
		}}
	}

	result := tx.Clauses(onConflict).Create(habit)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 && !mysql {
		return ErrHabitIDCollision
	}
	return nil
}

// UpsertCompletion inserts or replaces a completion entry
func (r *GormHabitRepository) UpsertCompletion(ctx context.Context, entry *models.CompletionEntry) error {
	return upsertEntry(ctx, r.db, entry, entryKey{entry.HabitID, entry.UserID, entry.Date}, "completed")
}

// UpsertValue inserts or replaces a value entry
func (r *GormHabitRepository) UpsertValue(ctx context.Context, entry *models.ValueEntry) error {
	return upsertEntry(ctx, r.db, entry, entryKey{entry.HabitID, entry.UserID, entry.Date}, "value")
}

// UpsertMood inserts or replaces a mood entry
func (r *GormHabitRepository) UpsertMood(ctx context.Context, entry *models.MoodEntry) error {
	return upsertEntry(ctx, r.db, entry, entryKey{entry.HabitID, entry.UserID, entry.Date}, "mood_value")
}

// ListCompletions lists completion entries, newest date first
func (r *GormHabitRepository) ListCompletions(ctx context.Context, userID uint64, page utils.PaginationParams) ([]models.CompletionEntry, error) {
	entries := []models.CompletionEntry{}
	if err := r.listEntries(ctx, userID, page, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// ListValues lists value entries, newest date first
func (r *GormHabitRepository) ListValues(ctx context.Context, userID uint64, page utils.PaginationParams) ([]models.ValueEntry, error) {
	entries := []models.ValueEntry{}
	if err := r.listEntries(ctx, userID, page, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// ListMoods lists mood entries, newest date first
func (r *GormHabitRepository) ListMoods(ctx context.Context, userID uint64, page utils.PaginationParams) ([]models.MoodEntry, error) {
	entries := []models.MoodEntry{}
	if err := r.listEntries(ctx, userID, page, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *GormHabitRepository) listEntries(ctx context.Context, userID uint64, page utils.PaginationParams, dest interface{}) error {
	return r.db.WithContext(ctx).
		Scopes(database.OwnedBy(userID), database.Paginate(page)).
		Order("date DESC, id DESC").
		Find(dest).Error
}

type entryKey struct {
	habitID uint64
	userID  uint64
	date    string
}

// upsertEntry writes entry and reloads the stored row inside one transaction,
// so the caller sees either the new state or an error with the prior state intact.
func upsertEntry[T any](ctx context.Context, db *gorm.DB, entry *T, key entryKey, column string) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns:   entryConflictColumns,
			DoUpdates: clause.AssignmentColumns([]string{column, "updated_at"}),
		}).Create(entry).Error; err != nil {
			return err
		}

		// Dialects disagree on which id an upsert reports; read the row back.
		var stored T
		if err := tx.Where("habit_id = ? AND user_id = ? AND date = ?", key.habitID, key.userID, key.date).
			First(&stored).Error; err != nil {
			return err
		}
		*entry = stored
		return nil
	})
}
