package enum

// Admin roles. Every authenticated user belongs to the back office; the role
// only narrows which sections they can write to.
const (
	RoleAdmin = "admin"
	RoleSales = "ventas"
)
