// Package inmemdb provides map-backed repositories for tests and local
// development. A single lock guards all tables so classroom deletion can
// cascade atomically.
package inmemdb

import (
	"sync"

	"github.com/darasa/darasa/core/assignment"
	"github.com/darasa/darasa/core/attendance"
	"github.com/darasa/darasa/core/classroom"
	"github.com/darasa/darasa/core/submission"
	"github.com/darasa/darasa/core/user"
)

type DB struct {
	mutex sync.RWMutex

	users       map[string]user.User
	classrooms  map[string]classroom.Classroom
	members     map[string]map[string]classroom.Role // classroomID -> userID -> role
	assignments map[string]assignment.Assignment
	submissions map[string]submission.Submission
	attendance  map[string]attendance.Record
}

func Open() (*DB, error) {
	db := &DB{
		users:       make(map[string]user.User),
		classrooms:  make(map[string]classroom.Classroom),
		members:     make(map[string]map[string]classroom.Role),
		assignments: make(map[string]assignment.Assignment),
		submissions: make(map[string]submission.Submission),
		attendance:  make(map[string]attendance.Record),
	}
	return db, nil
}
