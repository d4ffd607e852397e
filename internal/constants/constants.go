package constants

const (
	// AppName is used as the logger prefix and CLI name.
	AppName = "habit-tracker"
	// Version is reported by the health and banner endpoints.
	Version = "1.0.0"

	// ContextKeyUserID is the gin context and session key holding the authenticated user ID.
	ContextKeyUserID = "user_id"
	// ContextKeyHabitID holds the parsed :id path parameter of habit routes.
	ContextKeyHabitID = "habit_id"
	// ContextKeyRequestID is the gin context key holding the request ID.
	ContextKeyRequestID = "request_id"
	// SessionCookieName is the name of the session cookie.
	SessionCookieName = "habit_session"
	// HeaderRequestID carries the request ID in and out.
	HeaderRequestID = "X-Request-ID"

	MinPasswordLength = 6
	DefaultBcryptCost = 12

	// Pagination
	MinPageSize     = 1
	DefaultPageSize = 50
	MaxPageSize     = 500

	// Habit defaults
	DefaultHabitTarget = 1.0
	DefaultHabitColor  = "#667eea"
	DefaultHabitType   = "daily"

	MinMood = 1
	MaxMood = 5

	// DateLayout is the wire and storage format of entry dates.
	DateLayout = "2006-01-02"

	MaxSuggestedHabits = 10
)

// Environments
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)
