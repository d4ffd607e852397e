package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/habitkit/habit-tracker-api/internal/constants"
	"github.com/habitkit/habit-tracker-api/internal/models"
)

var (
	ErrSuggestionsNotConfigured = errors.New("habit suggestions are not configured")
	ErrGoalRequired             = fmt.Errorf("%w: goal is required", ErrValidation)
)

type SuggestionService struct {
	client *openai.Client
}

type SuggestedHabit struct {
	Name        string               `json:"name"`
	Description string               `json:"description"`
	Category    models.HabitCategory `json:"category"`
	Unit        string               `json:"unit,omitempty"`
	Target      float64              `json:"target"`
}

// NewSuggestionService returns a service without a client when apiKey is empty.
// baseURL overrides the OpenAI endpoint when set.
func NewSuggestionService(apiKey, baseURL string) *SuggestionService {
	if apiKey == "" {
		return &SuggestionService{}
	}
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &SuggestionService{
		client: openai.NewClientWithConfig(cfg),
	}
}

func (s *SuggestionService) Enabled() bool {
	return s != nil && s.client != nil
}

// SuggestHabits asks the model for habits that support goal. Suggestions with
// an unknown category are dropped and the result is capped.
func (s *SuggestionService) SuggestHabits(ctx context.Context, goal string) ([]SuggestedHabit, error) {
	if !s.Enabled() {
		return nil, ErrSuggestionsNotConfigured
	}
	goal = strings.TrimSpace(goal)
	if goal == "" {
		return nil, ErrGoalRequired
	}

	prompt := fmt.Sprintf(`You are a habit coach. Suggest up to %d daily habits that help with the goal below.

Goal:
%s

Return a JSON array only, no prose:
[
  {
    "name": "short habit name",
    "description": "one sentence",
    "category": "binary | quantity | mood",
    "unit": "unit for quantity habits, otherwise empty",
    "target": 1
  }
]

Rules:
- binary habits are done or not done each day
- quantity habits track a number against target in unit
- mood habits track a 1-5 rating
- return [] if nothing fits`, constants.MaxSuggestedHabits, goal)

	resp, err := s.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: openai.GPT4o,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			Temperature: 0.3,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from OpenAI")
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	var raw []SuggestedHabit
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse AI response: %w (response: %s)", err, content)
	}

	suggestions := make([]SuggestedHabit, 0, len(raw))
	for _, h := range raw {
		h.Name = strings.TrimSpace(h.Name)
		if h.Name == "" || !h.Category.Valid() {
			continue
		}
		if h.Target <= 0 {
			h.Target = constants.DefaultHabitTarget
		}
		suggestions = append(suggestions, h)
		if len(suggestions) == constants.MaxSuggestedHabits {
			break
		}
	}
	return suggestions, nil
}
