package domain

import "time"

// Role represents the user's permission level in the system.
type Role string

const (
	// RoleAdmin sees every group and manages users and metric imports.
	RoleAdmin Role = "admin"
	// RoleSupervisor sees a single fixed group.
	RoleSupervisor Role = "supervisor"
	// RoleParticipant sees only their own data.
	RoleParticipant Role = "participant"
)

// Valid returns true if the role is a recognized value.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleSupervisor, RoleParticipant:
		return true
	default:
		return false
	}
}

// UserStatus represents the user's account status.
type UserStatus string

const (
	// UserStatusActive indicates the user can log in and use the system.
	UserStatusActive UserStatus = "active"
	// UserStatusDisabled indicates the account is locked out.
	UserStatusDisabled UserStatus = "disabled"
)

// User represents an account in the system. Supervisors carry the group
// they oversee in GroupID; participants carry the group they belong to.
type User struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"password_hash,omitempty"` // stored hashed, filter from API responses
	DisplayName  string     `json:"display_name"`
	Role         Role       `json:"role"`
	GroupID      string     `json:"group_id,omitempty"` // empty for admins
	Status       UserStatus `json:"status,omitempty"`   // empty = active
	LastLoginAt  time.Time  `json:"last_login_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// IsAdmin returns true if the user has administrative privileges.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsActive returns true if the user can log in. Empty status is treated
// as active.
func (u *User) IsActive() bool {
	return u.Status == "" || u.Status == UserStatusActive
}

// Group is a monitored cohort of participants.
type Group struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
