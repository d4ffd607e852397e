package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/habitkit/habit-tracker-api/internal/constants"
	"github.com/habitkit/habit-tracker-api/internal/models"
	"github.com/habitkit/habit-tracker-api/internal/repository"
	"github.com/habitkit/habit-tracker-api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrHabitNotFound        = errors.New("habit not found")
	ErrHabitNameRequired    = fmt.Errorf("%w: name is required", ErrValidation)
	ErrInvalidCategory      = fmt.Errorf("%w: category must be one of binary, quantity, mood", ErrValidation)
	ErrCategoryImmutable    = fmt.Errorf("%w: category cannot be changed", ErrValidation)
	ErrInvalidTarget        = fmt.Errorf("%w: target must be greater than zero", ErrValidation)
	ErrInvalidColor         = fmt.Errorf("%w: color must be a hex color like #667eea", ErrValidation)
	ErrEntryVariantMismatch = fmt.Errorf("%w: entry type does not match habit category", ErrValidation)
	ErrMoodOutOfRange       = fmt.Errorf("%w: mood must be between %d and %d", ErrValidation, constants.MinMood, constants.MaxMood)
	ErrValueRequired        = fmt.Errorf("%w: value is required", ErrValidation)
)

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// HabitService handles habit and daily entry business logic
type HabitService struct {
	habitRepo repository.HabitRepository
}

// NewHabitService creates a new HabitService
func NewHabitService(habitRepo repository.HabitRepository) *HabitService {
	return &HabitService{
		habitRepo: habitRepo,
	}
}

// CreateHabitInput represents input for creating a habit
type CreateHabitInput struct {
	Name        string
	Description *string
	Category    models.HabitCategory
	Unit        *string
	Target      *float64
	Color       *string
	Type        *string
}

// UpdateHabitInput represents input for updating a habit. Nil fields are left unchanged.
type UpdateHabitInput struct {
	Name        *string
	Description *string
	Category    *models.HabitCategory
	Unit        *string
	Target      *float64
	Color       *string
	Type        *string
}

// ListHabits returns the user's habits, newest first
func (s *HabitService) ListHabits(ctx context.Context, userID uint64) ([]models.Habit, error) {
	habits, err := s.habitRepo.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list habits: %w", err)
	}
	return habits, nil
}

// GetHabit returns a habit owned by the user
func (s *HabitService) GetHabit(ctx context.Context, userID, habitID uint64) (*models.Habit, error) {
	habit, err := s.habitRepo.FindByID(ctx, userID, habitID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHabitNotFound
		}
		return nil, fmt.Errorf("failed to find habit: %w", err)
	}
	return habit, nil
}

// CreateHabit validates and creates a new habit
func (s *HabitService) CreateHabit(ctx context.Context, userID uint64, input CreateHabitInput) (*models.Habit, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrHabitNameRequired
	}
	if !input.Category.Valid() {
		return nil, ErrInvalidCategory
	}

	habit := &models.Habit{
		UserID:      userID,
		Name:        name,
		Description: trimOptional(input.Description),
		Category:    input.Category,
		Unit:        trimOptional(input.Unit),
		Target:      constants.DefaultHabitTarget,
		Color:       constants.DefaultHabitColor,
		Type:        constants.DefaultHabitType,
	}
	if err := applyHabitAttributes(habit, input.Target, input.Color, input.Type); err != nil {
		return nil, err
	}

	if err := s.habitRepo.Create(ctx, habit); err != nil {
		return nil, fmt.Errorf("failed to create habit: %w", err)
	}

	return habit, nil
}

// UpdateHabit updates an existing habit owned by the user
func (s *HabitService) UpdateHabit(ctx context.Context, userID, habitID uint64, input UpdateHabitInput) (*models.Habit, error) {
	habit, err := s.GetHabit(ctx, userID, habitID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrHabitNameRequired
		}
		habit.Name = name
	}
	if input.Category != nil && *input.Category != habit.Category {
		if !input.Category.Valid() {
			return nil, ErrInvalidCategory
		}
		return nil, ErrCategoryImmutable
	}
	if input.Description != nil {
		habit.Description = trimOptional(input.Description)
	}
	if input.Unit != nil {
		habit.Unit = trimOptional(input.Unit)
	}
	if err := applyHabitAttributes(habit, input.Target, input.Color, input.Type); err != nil {
		return nil, err
	}

	if err := s.habitRepo.Update(ctx, habit); err != nil {
		return nil, fmt.Errorf("failed to update habit: %w", err)
	}

	return habit, nil
}

// DeleteHabit deletes a habit and all of its entries
func (s *HabitService) DeleteHabit(ctx context.Context, userID, habitID uint64) error {
	if err := s.habitRepo.Delete(ctx, userID, habitID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrHabitNotFound
		}
		return fmt.Errorf("failed to delete habit: %w", err)
	}
	return nil
}

// RecordCompletion upserts the completion entry of a binary habit
func (s *HabitService) RecordCompletion(ctx context.Context, userID, habitID uint64, date string, completed bool) (*models.CompletionEntry, error) {
	day, err := s.prepareEntry(ctx, userID, habitID, date, models.VariantCompletion)
	if err != nil {
		return nil, err
	}

	entry := &models.CompletionEntry{HabitID: habitID, UserID: userID, Date: day, Completed: completed}
	if err := s.habitRepo.UpsertCompletion(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to record completion: %w", err)
	}
	return entry, nil
}

// RecordValue upserts the value entry of a quantity habit
func (s *HabitService) RecordValue(ctx context.Context, userID, habitID uint64, date string, value float64) (*models.ValueEntry, error) {
	day, err := s.prepareEntry(ctx, userID, habitID, date, models.VariantValue)
	if err != nil {
		return nil, err
	}

	entry := &models.ValueEntry{HabitID: habitID, UserID: userID, Date: day, Value: value}
	if err := s.habitRepo.UpsertValue(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to record value: %w", err)
	}
	return entry, nil
}

// RecordMood upserts the mood entry of a mood habit
func (s *HabitService) RecordMood(ctx context.Context, userID, habitID uint64, date string, mood int) (*models.MoodEntry, error) {
	if mood < constants.MinMood || mood > constants.MaxMood {
		return nil, ErrMoodOutOfRange
	}
	day, err := s.prepareEntry(ctx, userID, habitID, date, models.VariantMood)
	if err != nil {
		return nil, err
	}

	entry := &models.MoodEntry{HabitID: habitID, UserID: userID, Date: day, Mood: mood}
	if err := s.habitRepo.UpsertMood(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to record mood: %w", err)
	}
	return entry, nil
}

// ListCompletions lists the user's completion entries, newest date first
func (s *HabitService) ListCompletions(ctx context.Context, userID uint64, page utils.PaginationParams) ([]models.CompletionEntry, error) {
	entries, err := s.habitRepo.ListCompletions(ctx, userID, page)
	if err != nil {
		return nil, fmt.Errorf("failed to list completions: %w", err)
	}
	return entries, nil
}

// ListValues lists the user's value entries, newest date first
func (s *HabitService) ListValues(ctx context.Context, userID uint64, page utils.PaginationParams) ([]models.ValueEntry, error) {
	entries, err := s.habitRepo.ListValues(ctx, userID, page)
	if err != nil {
		return nil, fmt.Errorf("failed to list values: %w", err)
	}
	return entries, nil
}

// ListMoods lists the user's mood entries, newest date first
func (s *HabitService) ListMoods(ctx context.Context, userID uint64, page utils.PaginationParams) ([]models.MoodEntry, error) {
	entries, err := s.habitRepo.ListMoods(ctx, userID, page)
	if err != nil {
		return nil, fmt.Errorf("failed to list moods: %w", err)
	}
	return entries, nil
}

// prepareEntry validates the date and checks the habit is owned by the user
// and records the requested entry variant. It returns the normalized date.
func (s *HabitService) prepareEntry(ctx context.Context, userID, habitID uint64, date string, variant models.EntryVariant) (string, error) {
	day, err := utils.NormalizeDate(date)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrValidation, err)
	}

	habit, err := s.GetHabit(ctx, userID, habitID)
	if err != nil {
		return "", err
	}
	if habit.Category.EntryVariant() != variant {
		return "", fmt.Errorf("%w: %s habits record %s entries", ErrEntryVariantMismatch, habit.Category, habit.Category.EntryVariant())
	}
	return day, nil
}

func applyHabitAttributes(habit *models.Habit, target *float64, color, cadence *string) error {
	if target != nil {
		if *target <= 0 {
			return ErrInvalidTarget
		}
		habit.Target = *target
	}
	if color != nil {
		c := strings.TrimSpace(*color)
		if !hexColor.MatchString(c) {
			return ErrInvalidColor
		}
		habit.Color = c
	}
	if cadence != nil {
		if t := strings.TrimSpace(*cadence); t != "" {
			habit.Type = t
		}
	}
	return nil
}
