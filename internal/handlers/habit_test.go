package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/habitkit/habit-tracker-api/internal/models"
)

// HabitHandlerTestSuite exercises habit and entry routes through the router
type HabitHandlerTestSuite struct {
	suite.Suite
	env   testEnv
	token string
}

func (suite *HabitHandlerTestSuite) SetupTest() {
	suite.env = setupTestEnv(suite.T(), false)
	suite.token = suite.env.registerUser(suite.T(), "alice@example.com")
}

func (suite *HabitHandlerTestSuite) createHabit(body map[string]interface{}) models.Habit {
	w := suite.env.do(suite.T(), http.MethodPost, "/api/habits", body, suite.token)
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var habit models.Habit
	decode(suite.T(), w, &habit)
	return habit
}

func (suite *HabitHandlerTestSuite) TestQuantityHabitScenario() {
	habit := suite.createHabit(map[string]interface{}{
		"name":     "Run",
		"category": "quantity",
		"unit":     "km",
		"target":   5,
	})
	suite.NotZero(habit.ID)
	suite.Equal(5.0, habit.Target)

	path := fmt.Sprintf("/api/habits/%d/value", habit.ID)

	w := suite.env.do(suite.T(), http.MethodPost, path, map[string]interface{}{"date": "2024-01-01", "value": 3.2}, suite.token)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var entry models.ValueEntry
	decode(suite.T(), w, &entry)
	suite.Equal(3.2, entry.Value)

	w = suite.env.do(suite.T(), http.MethodPost, path, map[string]interface{}{"date": "2024-01-01", "value": 4.0}, suite.token)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	decode(suite.T(), w, &entry)
	suite.Equal(4.0, entry.Value)

	w = suite.env.do(suite.T(), http.MethodGet, "/api/habits/values", nil, suite.token)
	suite.Require().Equal(http.StatusOK, w.Code)
	var values []models.ValueEntry
	decode(suite.T(), w, &values)
	suite.Require().Len(values, 1)
	suite.Equal(4.0, values[0].Value)
}

func (suite *HabitHandlerTestSuite) TestCreateHabit_Defaults() {
	habit := suite.createHabit(map[string]interface{}{"name": "Meditate", "category": "binary"})
	suite.Equal("#667eea", habit.Color)
	suite.Equal("daily", habit.Type)
	suite.Equal(1.0, habit.Target)

	w := suite.env.do(suite.T(), http.MethodGet, fmt.Sprintf("/api/habits/%d", habit.ID), nil, suite.token)
	suite.Require().Equal(http.StatusOK, w.Code)
	var fetched models.Habit
	decode(suite.T(), w, &fetched)
	suite.Equal(habit.ID, fetched.ID)
}

func (suite *HabitHandlerTestSuite) TestCreateHabit_Invalid() {
	w := suite.env.do(suite.T(), http.MethodPost, "/api/habits", map[string]interface{}{"name": "Run", "category": "weekly"}, suite.token)
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.env.do(suite.T(), http.MethodPost, "/api/habits", map[string]interface{}{"category": "binary"}, suite.token)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HabitHandlerTestSuite) TestListHabits() {
	suite.createHabit(map[string]interface{}{"name": "First", "category": "binary"})
	suite.createHabit(map[string]interface{}{"name": "Second", "category": "mood"})

	w := suite.env.do(suite.T(), http.MethodGet, "/api/habits", nil, suite.token)
	suite.Require().Equal(http.StatusOK, w.Code)

	var habits []models.Habit
	decode(suite.T(), w, &habits)
	suite.Require().Len(habits, 2)
	suite.Equal("Second", habits[0].Name)
}

func (suite *HabitHandlerTestSuite) TestOtherUsersHabitIsNotFound() {
	habit := suite.createHabit(map[string]interface{}{"name": "Run", "category": "binary"})
	other := suite.env.registerUser(suite.T(), "bob@example.com")
	path := fmt.Sprintf("/api/habits/%d", habit.ID)

	w := suite.env.do(suite.T(), http.MethodGet, path, nil, other)
	suite.Equal(http.StatusNotFound, w.Code)

	w = suite.env.do(suite.T(), http.MethodPut, path, map[string]interface{}{"name": "Mine now"}, other)
	suite.Equal(http.StatusNotFound, w.Code)

	w = suite.env.do(suite.T(), http.MethodDelete, path, nil, other)
	suite.Equal(http.StatusNotFound, w.Code)

	w = suite.env.do(suite.T(), http.MethodPost, path+"/completion", map[string]interface{}{"date": "2024-01-01", "completed": true}, other)
	suite.Equal(http.StatusNotFound, w.Code)

	w = suite.env.do(suite.T(), http.MethodGet, "/api/habits/abc", nil, suite.token)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *HabitHandlerTestSuite) TestUpdateAndDeleteHabit() {
	habit := suite.createHabit(map[string]interface{}{"name": "Read", "category": "binary"})
	path := fmt.Sprintf("/api/habits/%d", habit.ID)

	w := suite.env.do(suite.T(), http.MethodPut, path, map[string]interface{}{"name": "Read books", "color": "#112233"}, suite.token)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var updated models.Habit
	decode(suite.T(), w, &updated)
	suite.Equal("Read books", updated.Name)
	suite.Equal("#112233", updated.Color)

	w = suite.env.do(suite.T(), http.MethodPut, path, map[string]interface{}{"category": "mood"}, suite.token)
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.env.do(suite.T(), http.MethodPost, path+"/completion", map[string]interface{}{"date": "2024-01-01", "completed": true}, suite.token)
	suite.Require().Equal(http.StatusOK, w.Code)

	w = suite.env.do(suite.T(), http.MethodDelete, path, nil, suite.token)
	suite.Require().Equal(http.StatusOK, w.Code)

	w = suite.env.do(suite.T(), http.MethodGet, "/api/habits/completions", nil, suite.token)
	suite.Require().Equal(http.StatusOK, w.Code)
	var completions []models.CompletionEntry
	decode(suite.T(), w, &completions)
	suite.Empty(completions)

	w = suite.env.do(suite.T(), http.MethodGet, path, nil, suite.token)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *HabitHandlerTestSuite) TestEntryValidation() {
	binary := suite.createHabit(map[string]interface{}{"name": "Meditate", "category": "binary"})
	mood := suite.createHabit(map[string]interface{}{"name": "Mood", "category": "mood"})

	w := suite.env.do(suite.T(), http.MethodPost, fmt.Sprintf("/api/habits/%d/value", binary.ID),
		map[string]interface{}{"date": "2024-01-01", "value": 1}, suite.token)
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.env.do(suite.T(), http.MethodPost, fmt.Sprintf("/api/habits/%d/mood", mood.ID),
		map[string]interface{}{"date": "2024-01-01", "mood": 9}, suite.token)
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.env.do(suite.T(), http.MethodPost, fmt.Sprintf("/api/habits/%d/mood", mood.ID),
		map[string]interface{}{"date": "yesterday", "mood": 3}, suite.token)
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.env.do(suite.T(), http.MethodPost, fmt.Sprintf("/api/habits/%d/completion", binary.ID),
		map[string]interface{}{"date": "2024-01-01"}, suite.token)
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.env.do(suite.T(), http.MethodPost, fmt.Sprintf("/api/habits/%d/mood", mood.ID),
		map[string]interface{}{"date": "2024-01-01", "mood": 3}, suite.token)
	suite.Require().Equal(http.StatusOK, w.Code)
	var entry models.MoodEntry
	decode(suite.T(), w, &entry)
	suite.Equal(3, entry.Mood)
}

func (suite *HabitHandlerTestSuite) TestSuggestHabits_NotConfigured() {
	w := suite.env.do(suite.T(), http.MethodPost, "/api/habits/suggest", map[string]interface{}{"goal": "sleep better"}, suite.token)
	suite.Equal(http.StatusServiceUnavailable, w.Code)
}

func (suite *HabitHandlerTestSuite) TestUnknownRoute() {
	w := suite.env.do(suite.T(), http.MethodGet, "/api/nope", nil, "")
	suite.Equal(http.StatusNotFound, w.Code)
	suite.JSONEq(`{"error":"route not found"}`, w.Body.String())
}

func TestHabitHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(HabitHandlerTestSuite))
}
