package domain

import "time"

// Role is the access level of an identity.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleNormalUser Role = "normal-user"
	RoleMentor     Role = "mentor"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleNormalUser, RoleMentor:
		return true
	}
	return false
}

// User models a registered identity.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username,omitempty"`
	FullName     string    `json:"fullName"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"userRole"`
	IsBanned     bool      `json:"isBanned"`
	ProfileImage string    `json:"profileImage,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Actor is the authenticated caller of a request, as resolved by the role gate.
type Actor struct {
	ID   string `json:"id"`
	Role Role   `json:"userRole"`
}

// IsAdmin reports whether the actor holds the admin role.
func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }
