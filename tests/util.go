package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/darasa/darasa/core/assignment"
	"github.com/darasa/darasa/core/classroom"
	"github.com/darasa/darasa/core/user"
)

func CreateUser(t *testing.T, repo user.Repository, name, email string) user.User {
	t.Helper()
	usr := user.User{
		ID:        uuid.New().String(),
		Name:      name,
		Email:     email,
		CreatedAt: time.Now().UTC(),
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

func CreateClassroom(t *testing.T, svc *classroom.Service, adminID, name string) classroom.Classroom {
	t.Helper()
	room, err := svc.Create(context.Background(), adminID, classroom.NewClassroom{Name: name})
	if err != nil {
		t.Fatalf("CreateClassroom() failed: %v", err)
	}
	return room
}

func JoinClassroom(t *testing.T, svc *classroom.Service, room classroom.Classroom, userID string) {
	t.Helper()
	if _, err := svc.Join(context.Background(), room.JoinLink, userID); err != nil {
		t.Fatalf("JoinClassroom() failed: %v", err)
	}
}

func CreateAssignment(t *testing.T, repo assignment.Repository, classroomID, createdBy, title string, due time.Time) assignment.Assignment {
	t.Helper()
	now := time.Now().UTC()
	asg := assignment.Assignment{
		ID:           uuid.New().String(),
		ClassroomID:  classroomID,
		Title:        title,
		DueDate:      due.UTC(),
		CreatedBy:    createdBy,
		AnswerPDFURL: "https://files.test/answers/" + title + ".pdf",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	asg, err := repo.CreateAssignment(context.Background(), asg)
	if err != nil {
		t.Fatalf("CreateAssignment() failed: %v", err)
	}
	return asg
}
