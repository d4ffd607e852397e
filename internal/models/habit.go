package models

import (
	"time"
)

type HabitCategory string

const (
	CategoryBinary   HabitCategory = "binary"
	CategoryQuantity HabitCategory = "quantity"
	CategoryMood     HabitCategory = "mood"
)

// Valid reports whether c is one of the known categories.
func (c HabitCategory) Valid() bool {
	switch c {
	case CategoryBinary, CategoryQuantity, CategoryMood:
		return true
	}
	return false
}

// EntryVariant returns the daily entry variant recorded for habits of this category.
func (c HabitCategory) EntryVariant() EntryVariant {
	switch c {
	case CategoryQuantity:
		return VariantValue
	case CategoryMood:
		return VariantMood
	default:
		return VariantCompletion
	}
}

type Habit struct {
	ID          uint64        `gorm:"primarykey" json:"id"`
	UserID      uint64        `gorm:"not null;index:idx_habits_user_id" json:"user_id"`
	Name        string        `gorm:"type:varchar(255);not null" json:"name"`
	Description *string       `gorm:"type:text" json:"description"`
	Category    HabitCategory `gorm:"type:varchar(50);not null;check:chk_habits_category,category IN ('binary','quantity','mood')" json:"category"`
	Unit        *string       `gorm:"type:varchar(50)" json:"unit"`
	Target      float64       `gorm:"not null;default:1" json:"target"`
	Color       string        `gorm:"type:varchar(7);not null;default:'#667eea'" json:"color"`
	Type        string        `gorm:"column:type;type:varchar(20);not null;default:'daily'" json:"type"`
	CreatedAt   time.Time     `gorm:"index:idx_habits_created_at" json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}
