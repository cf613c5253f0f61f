package domain

import "time"

// Role is the two-tier authority level assigned to an account.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Satisfies reports whether a holder of this role may act where required
// is demanded. ADMIN implies USER-level access.
func (r Role) Satisfies(required Role) bool {
	if r == RoleAdmin {
		return true
	}
	return r == required
}

// Valid reports whether the role is a known value.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User is the domain model for registered accounts.
type User struct {
	ID            string
	Username      string
	Fullname      string
	Email         string
	PasswordHash  string
	Role          Role
	ProfilePicURL *string
	LikedEventIDs []string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Likes reports whether the user has liked the given event.
func (u *User) Likes(eventID string) bool {
	for _, id := range u.LikedEventIDs {
		if id == eventID {
			return true
		}
	}
	return false
}
