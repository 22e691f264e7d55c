// Package models defines the data types shared by the verilens client:
// the authenticated identity, analysis records, user preferences, and
// user-facing notifications.
package models

// Role classifies an account's privilege level.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Identity is the authenticated user's snapshot, as reconciled between the
// local cache and the backend session. The backend session is authoritative;
// the cached copy only survives restarts.
type Identity struct {
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// IsAdmin reports whether the identity carries administrative privileges.
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}
