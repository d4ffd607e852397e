package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/habitkit/habit-tracker-api/internal/models"
)

// newFakeOpenAI serves a single chat completion whose message is content.
func newFakeOpenAI(t *testing.T, content string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"id":      "chatcmpl-test",
			"object":  "chat.completion",
			"created": 1700000000,
			"model":   "gpt-4o",
			"choices": []map[string]interface{}{{
				"index":         0,
				"finish_reason": "stop",
				"message": map[string]interface{}{
					"role":    "assistant",
					"content": content,
				},
			}},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestSuggestionService_NotConfigured(t *testing.T) {
	svc := NewSuggestionService("", "")
	assert.False(t, svc.Enabled())

	_, err := svc.SuggestHabits(context.Background(), "sleep better")
	assert.ErrorIs(t, err, ErrSuggestionsNotConfigured)
}

func TestSuggestionService_SuggestHabits(t *testing.T) {
	srv := newFakeOpenAI(t, "```json\n"+`[
		{"name": "Go to bed by 23:00", "description": "Fixed bedtime", "category": "binary", "target": 1},
		{"name": "Sleep hours", "description": "Track sleep", "category": "quantity", "unit": "h", "target": 8},
		{"name": "Nap", "description": "bad category", "category": "weekly", "target": 1},
		{"name": "Evening mood", "description": "Rate the evening", "category": "mood"}
	]`+"\n```")

	svc := NewSuggestionService("test-key", srv.URL)
	require.True(t, svc.Enabled())

	suggestions, err := svc.SuggestHabits(context.Background(), "sleep better")
	require.NoError(t, err)
	require.Len(t, suggestions, 3)
	assert.Equal(t, models.CategoryBinary, suggestions[0].Category)
	assert.Equal(t, "h", suggestions[1].Unit)
	assert.Equal(t, 8.0, suggestions[1].Target)
	assert.Equal(t, models.CategoryMood, suggestions[2].Category)
	assert.Equal(t, 1.0, suggestions[2].Target)
}

func TestSuggestionService_RequiresGoal(t *testing.T) {
	svc := NewSuggestionService("test-key", "http://127.0.0.1:1")

	_, err := svc.SuggestHabits(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrGoalRequired)
}

func TestSuggestionService_BadResponse(t *testing.T) {
	srv := newFakeOpenAI(t, "I cannot help with that")
	svc := NewSuggestionService("test-key", srv.URL)

	_, err := svc.SuggestHabits(context.Background(), "sleep better")
	assert.Error(t, err)
}
