package database

import (
	"fmt"

	"gorm.io/gorm"

	applog "github.com/habitkit/habit-tracker-api/internal/logger"
)

// AddIndexes adds the listing indexes that are not expressed on the models.
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		// Entry listings are per user, newest date first
		{"habit_completions", "idx_habit_completions_user_date", "user_id, date"},
		{"habit_values", "idx_habit_values_user_date", "user_id, date"},
		{"habit_moods", "idx_habit_moods_user_date", "user_id, date"},
	}

	for _, idx := range indexes {
		if db.Migrator().HasIndex(idx.table, idx.name) {
			applog.Debug("Index already exists, skipping", "index", idx.name)
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		applog.Debug("Created index", "index", idx.name, "table", idx.table, "columns", idx.columns)
	}

	return nil
}
