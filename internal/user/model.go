package user

import (
	"time"

	"github.com/gofrs/uuid"
)

// Role is a flat authority tag. There is no hierarchy: ADMIN does not imply
// USER unless both are assigned at provisioning time.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// User is an authenticatable principal. PasswordHash is a bcrypt hash and is
// never serialized. Accounts never expire or lock; that is the default
// policy, not an omission.
type User struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Fullname     string    `json:"fullname"`
	Street       string    `json:"street"`
	City         string    `json:"city"`
	State        string    `json:"state"`
	Zip          string    `json:"zip"`
	Phone        string    `json:"phone"`
	Roles        []Role    `json:"roles"`
	CreatedAt    time.Time `json:"created_at"`
}

// HasRole reports whether the required role is present in the user's tag set.
func (u *User) HasRole(role Role) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}
