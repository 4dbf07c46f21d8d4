package constants

// Session
const (
	SessionCookieName = "task_session"
	ContextKeyUserID  = "user_id"
)

// Auth
const (
	MinPasswordLength = 8
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// AI
const (
	MaxAISuggestedTasks = 20
)
