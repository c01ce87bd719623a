package classroom

import (
	"time"

	"github.com/darasa/darasa/core"
)

// Membership roles. A user holds at most one role per classroom;
// the role is looked up, never stored on the user.
const (
	RoleAdmin          Role = "admin"
	RoleSecondaryAdmin Role = "secondary_admin"
	RoleStudent        Role = "student"
	RoleNonMember      Role = ""
)

type Role string

// IsElevated reports whether the role carries management capabilities.
func (r Role) IsElevated() bool {
	return r == RoleAdmin || r == RoleSecondaryAdmin
}

func (r Role) IsMember() bool {
	return r != RoleNonMember
}

type Classroom struct {
	ID          string `json:"id" db:"id"`
	Name        string `json:"name" db:"name"`
	Description string `json:"description" db:"description"`
	JoinLink    string `json:"join_link" db:"join_link"`

	// Projections of the membership table; the repository fills these in.
	AdminID           string   `json:"admin_id" db:"-"`
	SecondaryAdminIDs []string `json:"secondary_admin_ids" db:"-"`
	StudentIDs        []string `json:"student_ids" db:"-"`

	CreatedAt time.Time `json:"created_at" db:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"` // UTC
}

// NewClassroom contains information needed to create a new Classroom.
type NewClassroom struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

func (nc *NewClassroom) Validate() error {
	nc.Name = core.CleanString(nc.Name)
	nc.Description = core.CleanString(nc.Description)
	return core.Validate.Struct(nc)
}

// UpdateClassroom defines what information may be provided to modify an existing Classroom.
// Membership is never touched here; it only moves through the enrollment operations.
type UpdateClassroom struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (uc *UpdateClassroom) Validate(orig Classroom) error {
	if name := core.CleanString(uc.Name); name != "" {
		uc.Name = name
	} else {
		uc.Name = orig.Name
	}
	if desc := core.CleanString(uc.Description); desc != "" {
		uc.Description = desc
	} else {
		uc.Description = orig.Description
	}
	return core.Validate.Struct(uc)
}
