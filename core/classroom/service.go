package classroom

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// errors
	ErrNotFound         = errors.New("classroom not found")
	ErrAlreadyMember    = errors.New("user is already a member of this classroom")
	ErrNotMember        = errors.New("user is not a member of this classroom")
	ErrAdminCannotLeave = errors.New("the admin cannot leave their own classroom")
	ErrInvalidTarget    = errors.New("operation not allowed on the classroom admin")
	ErrPermissionDenied = errors.New("permission denied")
)

type (
	// RoleAuthority answers membership questions. Every mutating
	// operation in the other domain services consults it first.
	RoleAuthority interface {
		RoleOf(ctx context.Context, classroomID, userID string) (Role, error)
	}

	Repository interface {
		// CreateClassroom persists the classroom and its admin membership row atomically.
		CreateClassroom(ctx context.Context, room Classroom) (Classroom, error)
		GetClassroomByID(ctx context.Context, id string) (Classroom, error)
		GetClassroomByJoinLink(ctx context.Context, link string) (Classroom, error)
		// QueryClassroomsByMember returns classrooms the user belongs to in any role, ordered by name.
		QueryClassroomsByMember(ctx context.Context, userID string) ([]Classroom, error)
		UpdateClassroom(ctx context.Context, room Classroom) (Classroom, error)
		// DeleteClassroom removes the classroom and everything scoped to it:
		// memberships, assignments, submissions and attendance records.
		DeleteClassroom(ctx context.Context, id string) error

		// GetMemberRole returns RoleNonMember (and no error) when no membership row exists.
		GetMemberRole(ctx context.Context, classroomID, userID string) (Role, error)
		// AddMember fails with ErrAlreadyMember when a row for (classroom, user) exists.
		AddMember(ctx context.Context, classroomID, userID string, role Role) error
		SetMemberRole(ctx context.Context, classroomID, userID string, role Role) error
		// RemoveMember fails with ErrNotMember when no row exists.
		RemoveMember(ctx context.Context, classroomID, userID string) error
	}

	Service struct {
		repo Repository
	}
)

var _ RoleAuthority = (*Service)(nil)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// RoleOf is a pure query over the membership table; no side effects.
func (svc *Service) RoleOf(ctx context.Context, classroomID, userID string) (Role, error) {
	return svc.repo.GetMemberRole(ctx, classroomID, userID)
}

func (svc *Service) Create(ctx context.Context, adminID string, nc NewClassroom) (Classroom, error) {
	link, err := makeJoinLink()
	if err != nil {
		return Classroom{}, err
	}

	now := time.Now().UTC()
	room := Classroom{
		ID:          uuid.New().String(),
		Name:        nc.Name,
		Description: nc.Description,
		JoinLink:    link,
		AdminID:     adminID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return svc.repo.CreateClassroom(ctx, room)
}

func (svc *Service) Get(ctx context.Context, classroomID, callerID string) (Classroom, error) {
	role, err := svc.RoleOf(ctx, classroomID, callerID)
	if err != nil {
		return Classroom{}, err
	}
	if !role.IsMember() {
		return Classroom{}, ErrPermissionDenied
	}
	return svc.repo.GetClassroomByID(ctx, classroomID)
}

func (svc *Service) QueryByMember(ctx context.Context, userID string) ([]Classroom, error) {
	return svc.repo.QueryClassroomsByMember(ctx, userID)
}

func (svc *Service) Update(ctx context.Context, classroomID, callerID string, uc UpdateClassroom) (Classroom, error) {
	role, err := svc.RoleOf(ctx, classroomID, callerID)
	if err != nil {
		return Classroom{}, err
	}
	if !role.IsElevated() {
		return Classroom{}, ErrPermissionDenied
	}

	room, err := svc.repo.GetClassroomByID(ctx, classroomID)
	if err != nil {
		return Classroom{}, err
	}
	if err := uc.Validate(room); err != nil {
		return Classroom{}, err
	}

	room.Name = uc.Name
	room.Description = uc.Description
	room.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateClassroom(ctx, room)
}

// Join enrolls the holder of a join link as a Student.
func (svc *Service) Join(ctx context.Context, joinLink, userID string) (Classroom, error) {
	room, err := svc.repo.GetClassroomByJoinLink(ctx, joinLink)
	if err != nil {
		return Classroom{}, err
	}
	if err := svc.repo.AddMember(ctx, room.ID, userID, RoleStudent); err != nil {
		return Classroom{}, err
	}
	return svc.repo.GetClassroomByID(ctx, room.ID)
}

func (svc *Service) Leave(ctx context.Context, classroomID, userID string) error {
	role, err := svc.RoleOf(ctx, classroomID, userID)
	if err != nil {
		return err
	}
	if role == RoleAdmin {
		// the owning admin deletes the classroom instead
		return ErrAdminCannotLeave
	}
	if !role.IsMember() {
		return ErrNotMember
	}
	return svc.repo.RemoveMember(ctx, classroomID, userID)
}

func (svc *Service) Delete(ctx context.Context, classroomID, callerID string) error {
	role, err := svc.RoleOf(ctx, classroomID, callerID)
	if err != nil {
		return err
	}
	if role != RoleAdmin {
		return ErrPermissionDenied
	}
	return svc.repo.DeleteClassroom(ctx, classroomID)
}

// SetMemberRole promotes a Student to SecondaryAdmin or demotes a
// SecondaryAdmin back to Student. Only the admin may do either.
func (svc *Service) SetMemberRole(ctx context.Context, classroomID, callerID, targetID string, elevated bool) (Classroom, error) {
	callerRole, err := svc.RoleOf(ctx, classroomID, callerID)
	if err != nil {
		return Classroom{}, err
	}
	if callerRole != RoleAdmin {
		return Classroom{}, ErrPermissionDenied
	}

	targetRole, err := svc.RoleOf(ctx, classroomID, targetID)
	if err != nil {
		return Classroom{}, err
	}
	if targetRole == RoleAdmin {
		return Classroom{}, ErrInvalidTarget
	}
	if !targetRole.IsMember() {
		return Classroom{}, ErrNotMember
	}

	wanted := RoleStudent
	if elevated {
		wanted = RoleSecondaryAdmin
	}
	if targetRole != wanted { // no-op when the target already holds the requested role
		if err := svc.repo.SetMemberRole(ctx, classroomID, targetID, wanted); err != nil {
			return Classroom{}, err
		}
	}
	return svc.repo.GetClassroomByID(ctx, classroomID)
}

func (svc *Service) RemoveMember(ctx context.Context, classroomID, callerID, targetID string) (Classroom, error) {
	callerRole, err := svc.RoleOf(ctx, classroomID, callerID)
	if err != nil {
		return Classroom{}, err
	}
	if !callerRole.IsElevated() {
		return Classroom{}, ErrPermissionDenied
	}

	targetRole, err := svc.RoleOf(ctx, classroomID, targetID)
	if err != nil {
		return Classroom{}, err
	}
	if targetRole == RoleAdmin {
		return Classroom{}, ErrInvalidTarget
	}
	if !targetRole.IsMember() {
		return Classroom{}, ErrNotMember
	}

	if err := svc.repo.RemoveMember(ctx, classroomID, targetID); err != nil {
		return Classroom{}, err
	}
	return svc.repo.GetClassroomByID(ctx, classroomID)
}
