package models

import "time"

// EntryVariant names one of the three daily entry tables.
type EntryVariant string

const (
	VariantCompletion EntryVariant = "completion"
	VariantValue      EntryVariant = "value"
	VariantMood       EntryVariant = "mood"
)

// Entries are unique per (habit, user, date). Dates are stored as
// YYYY-MM-DD strings so ordering is identical across dialects.

type CompletionEntry struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	HabitID   uint64    `gorm:"not null;uniqueIndex:uq_completions_habit_user_date,priority:1;index:idx_habit_completions_habit_id" json:"habit_id"`
	UserID    uint64    `gorm:"not null;uniqueIndex:uq_completions_habit_user_date,priority:2" json:"user_id"`
	Date      string    `gorm:"type:varchar(10);not null;uniqueIndex:uq_completions_habit_user_date,priority:3;index:idx_habit_completions_date" json:"date"`
	Completed bool      `gorm:"not null" json:"completed"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (CompletionEntry) TableName() string { return "habit_completions" }

type ValueEntry struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	HabitID   uint64    `gorm:"not null;uniqueIndex:uq_values_habit_user_date,priority:1;index:idx_habit_values_habit_id" json:"habit_id"`
	UserID    uint64    `gorm:"not null;uniqueIndex:uq_values_habit_user_date,priority:2" json:"user_id"`
	Date      string    `gorm:"type:varchar(10);not null;uniqueIndex:uq_values_habit_user_date,priority:3;index:idx_habit_values_date" json:"date"`
	Value     float64   `gorm:"not null" json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (ValueEntry) TableName() string { return "habit_values" }

type MoodEntry struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	HabitID   uint64    `gorm:"not null;uniqueIndex:uq_moods_habit_user_date,priority:1;index:idx_habit_moods_habit_id" json:"habit_id"`
	UserID    uint64    `gorm:"not null;uniqueIndex:uq_moods_habit_user_date,priority:2" json:"user_id"`
	Date      string    `gorm:"type:varchar(10);not null;uniqueIndex:uq_moods_habit_user_date,priority:3;index:idx_habit_moods_date" json:"date"`
	Mood      int       `gorm:"column:mood_value;not null;check:chk_habit_moods_range,mood_value >= 1 AND mood_value <= 5" json:"mood"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (MoodEntry) TableName() string { return "habit_moods" }
