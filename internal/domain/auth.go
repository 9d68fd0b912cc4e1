package domain

// Role is the permission level carried in access tokens.
type Role string

const (
	RoleAdmin Role = "ADMIN"
)
