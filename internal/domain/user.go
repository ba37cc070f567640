package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

type User struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func ValidateRole(r Role) error {
	if !r.Valid() {
		return fmt.Errorf("%w: invalid role %q", ErrValidation, r)
	}
	return nil
}

// UserFilter narrows the admin user listing.
type UserFilter struct {
	Search string
	Role   Role
}
