package assignment

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/darasa/darasa/core/classroom"
)

var (
	// errors
	ErrNotFound = errors.New("assignment not found")
)

type (
	Repository interface {
		CreateAssignment(ctx context.Context, asg Assignment) (Assignment, error)
		GetAssignmentByID(ctx context.Context, id string) (Assignment, error)
		QueryAssignmentsByClassroom(ctx context.Context, classroomID string) ([]Assignment, error)
		UpdateAssignment(ctx context.Context, asg Assignment) (Assignment, error)
	}

	Service struct {
		repo  Repository
		roles classroom.RoleAuthority
	}
)

func NewService(repo Repository, roles classroom.RoleAuthority) *Service {
	return &Service{repo: repo, roles: roles}
}

func (svc *Service) Create(ctx context.Context, classroomID, callerID string, na NewAssignment) (Assignment, error) {
	role, err := svc.roles.RoleOf(ctx, classroomID, callerID)
	if err != nil {
		return Assignment{}, err
	}
	if !role.IsElevated() {
		return Assignment{}, classroom.ErrPermissionDenied
	}

	now := time.Now().UTC()
	asg := Assignment{
		ID:            uuid.New().String(),
		ClassroomID:   classroomID,
		Title:         na.Title,
		Description:   na.Description,
		DueDate:       na.DueDate.UTC(),
		CreatedBy:     callerID,
		ContentPDFURL: na.ContentPDFURL,
		AnswerPDFURL:  na.AnswerPDFURL,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	return svc.repo.CreateAssignment(ctx, asg)
}

func (svc *Service) Update(ctx context.Context, assignmentID, callerID string, ua UpdateAssignment) (Assignment, error) {
	asg, err := svc.repo.GetAssignmentByID(ctx, assignmentID)
	if err != nil {
		return Assignment{}, err
	}

	role, err := svc.roles.RoleOf(ctx, asg.ClassroomID, callerID)
	if err != nil {
		return Assignment{}, err
	}
	if !role.IsElevated() {
		return Assignment{}, classroom.ErrPermissionDenied
	}

	if err := ua.Validate(asg); err != nil {
		return Assignment{}, err
	}

	asg.Title = ua.Title
	asg.Description = ua.Description
	if ua.DueDate != nil {
		asg.DueDate = ua.DueDate.UTC()
	}
	if ua.ContentPDFURL != "" {
		asg.ContentPDFURL = ua.ContentPDFURL
	}
	if ua.AnswerPDFURL != "" {
		asg.AnswerPDFURL = ua.AnswerPDFURL
	}
	asg.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateAssignment(ctx, asg)
}

// Get returns the assignment as seen by the caller's role; a Student
// never receives the answer key.
func (svc *Service) Get(ctx context.Context, assignmentID, callerID string) (Assignment, error) {
	asg, err := svc.repo.GetAssignmentByID(ctx, assignmentID)
	if err != nil {
		return Assignment{}, err
	}

	role, err := svc.roles.RoleOf(ctx, asg.ClassroomID, callerID)
	if err != nil {
		return Assignment{}, err
	}
	if !role.IsMember() {
		return Assignment{}, classroom.ErrPermissionDenied
	}
	return asg.ForRole(role), nil
}

// QueryByClassroom lists a classroom's assignments ordered by due date,
// role-filtered, and with duplicates by id dropped.
func (svc *Service) QueryByClassroom(ctx context.Context, classroomID, callerID string) ([]Assignment, error) {
	role, err := svc.roles.RoleOf(ctx, classroomID, callerID)
	if err != nil {
		return nil, err
	}
	if !role.IsMember() {
		return nil, classroom.ErrPermissionDenied
	}

	asgs, err := svc.repo.QueryAssignmentsByClassroom(ctx, classroomID)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(asgs))
	out := make([]Assignment, 0, len(asgs))
	for _, asg := range asgs {
		if _, ok := seen[asg.ID]; ok {
			continue
		}
		seen[asg.ID] = struct{}{}
		out = append(out, asg.ForRole(role))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DueDate.Before(out[j].DueDate) })
	return out, nil
}
