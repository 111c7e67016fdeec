package domain

// Roles carried in JWT claims.
const (
	RoleAdmin   = "admin"
	RoleService = "service"
	RoleUser    = "user"
)
