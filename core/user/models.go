package user

import (
	"time"

	"github.com/darasa/darasa/core"
)

type User struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"`
	CreatedAt time.Time `json:"created_at" db:"created_at"` // UTC
}

// NewUser contains information needed to register a new User.
// Authentication happens upstream; this only records the identity
// so ledgers can join a display name onto a caller id.
type NewUser struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
}

func (nu *NewUser) Validate() error {
	nu.Name = core.CleanString(nu.Name)
	nu.Email = core.CleanString(nu.Email, true /* lower */)
	return core.Validate.Struct(nu)
}
