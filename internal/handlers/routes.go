package handlers

import (
	"github.com/gin-gonic/gin"
	apierrors "github.com/habitkit/habit-tracker-api/internal/errors"
	"github.com/habitkit/habit-tracker-api/internal/middleware"
)

// Handlers groups everything mounted by RegisterRoutes.
type Handlers struct {
	Auth   *AuthHandler
	Habits *HabitHandler
	Sync   *SyncHandler
	Health *HealthHandler
	// Verifier authenticates bearer tokens on protected routes.
	Verifier middleware.TokenVerifier
}

// RegisterRoutes mounts the API on r. Session middleware must already be installed.
func RegisterRoutes(r *gin.Engine, h Handlers) {
	requireAuth := middleware.RequireAuth(h.Verifier)
	requireHabit := middleware.RequireHabitID()

	r.GET("/", h.Health.Root)
	r.GET("/health", h.Health.Health)

	// API routes
	api := r.Group("/api")
	{
		api.GET("/health", h.Health.Health)

		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/register", h.Auth.Register)
			auth.POST("/login", h.Auth.Login)
			auth.POST("/logout", h.Auth.Logout)
			auth.GET("/profile", requireAuth, h.Auth.GetProfile)
			auth.PUT("/profile", requireAuth, h.Auth.UpdateProfile)
		}

		// Habit routes (protected)
		habits := api.Group("/habits")
		habits.Use(requireAuth)
		{
			habits.GET("", h.Habits.ListHabits)
			habits.POST("", h.Habits.CreateHabit)
			habits.POST("/suggest", h.Habits.SuggestHabits)
			habits.GET("/completions", h.Habits.ListCompletions)
			habits.GET("/values", h.Habits.ListValues)
			habits.GET("/moods", h.Habits.ListMoods)
			habits.GET("/:id", requireHabit, h.Habits.GetHabit)
			habits.PUT("/:id", requireHabit, h.Habits.UpdateHabit)
			habits.DELETE("/:id", requireHabit, h.Habits.DeleteHabit)
			habits.POST("/:id/completion", requireHabit, h.Habits.RecordCompletion)
			habits.POST("/:id/value", requireHabit, h.Habits.RecordValue)
			habits.POST("/:id/mood", requireHabit, h.Habits.RecordMood)
		}

		// Sync routes (protected)
		sync := api.Group("/sync")
		sync.Use(requireAuth)
		{
			sync.GET("/status", h.Sync.Status)
			sync.POST("/upload", h.Sync.Upload)
			sync.POST("/download", h.Sync.Download)
			sync.POST("/auto", h.Sync.Auto)
		}
	}

	r.NoRoute(apierrors.RouteNotFound)
}
