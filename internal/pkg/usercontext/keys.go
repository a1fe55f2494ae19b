package usercontext

// Shared Locals/session keys used across controllers and middlewares
const (
	AuthKey          = "authenticated"
	KeyUserID        = "user_id"
	KeyUsername      = "username"
	KeyRole          = "profile_role"
	KeyIsAdmin       = "isAdmin"
	KeyFromProtected = "from_protected"
)
