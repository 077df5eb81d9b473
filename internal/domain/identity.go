package domain

// Role differentiates students from administrators.
type Role string

const (
	RoleStudent Role = "student"
	RoleAdmin   Role = "admin"
)

// Valid reports whether the role is known.
func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleAdmin
}

// Identity is the authenticated caller as persisted in the session record.
type Identity struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// IsAdmin reports whether the identity holds the privileged role.
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}
