package domain

// UserRole distinguishes what a user may do on the marketplace.
type UserRole string

const (
	RoleCustomer UserRole = "customer"
	RoleVendor   UserRole = "vendor"
	RoleAdmin    UserRole = "admin"
)

// User is the minimal read-model of an account holder the core needs for
// ownership and role checks. Account management itself lives outside the core.
type User struct {
	UserID string   `json:"userID"` // Primary Key (UUID)
	Email  string   `json:"email"`
	Name   string   `json:"name"`
	Role   UserRole `json:"role"`
	AuditFields
}
