// internal/domain/user/entity.go
package user

// Role determines authorization for admin-only operations. The server
// re-checks it on every request; the client-held value is advisory only.
type Role string

// User roles
const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User represents an account as served by the storefront API
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// IsAdmin reports whether the user holds the admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Merge applies non-empty fields from a partial update onto the user
func (u *User) Merge(partial User) {
	if partial.Name != "" {
		u.Name = partial.Name
	}
	if partial.Email != "" {
		u.Email = partial.Email
	}
	if partial.Role != "" {
		u.Role = partial.Role
	}
}
