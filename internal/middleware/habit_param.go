package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/habitkit/habit-tracker-api/internal/constants"
	apierrors "github.com/habitkit/habit-tracker-api/internal/errors"
)

// RequireHabitID parses the :id path parameter. An ID that cannot name a
// habit is answered with 404, the same as a habit owned by someone else.
func RequireHabitID() gin.HandlerFunc {
	return func(c *gin.Context) {
		habitID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil || habitID == 0 {
			apierrors.NotFound(c, "Habit not found")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyHabitID, habitID)
		c.Next()
	}
}

// GetHabitID retrieves the habit ID set by RequireHabitID
func GetHabitID(c *gin.Context) (uint64, bool) {
	v, exists := c.Get(constants.ContextKeyHabitID)
	if !exists {
		return 0, false
	}
	id, ok := v.(uint64)
	return id, ok
}
