package inmemdb

import (
	"context"
	"sort"

	"github.com/darasa/darasa/core/assignment"
)

type assignmentRepository struct {
	db *DB
}

func NewAssignmentRepository(db *DB) assignment.Repository {
	return &assignmentRepository{db: db}
}

func (repo *assignmentRepository) CreateAssignment(_ context.Context, asg assignment.Assignment) (assignment.Assignment, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.assignments[asg.ID] = asg
	return asg, nil
}

func (repo *assignmentRepository) GetAssignmentByID(_ context.Context, id string) (assignment.Assignment, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if asg, ok := repo.db.assignments[id]; ok {
		return asg, nil
	}
	return assignment.Assignment{}, assignment.ErrNotFound
}

func (repo *assignmentRepository) QueryAssignmentsByClassroom(_ context.Context, classroomID string) ([]assignment.Assignment, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	asgs := make([]assignment.Assignment, 0)
	for _, asg := range repo.db.assignments {
		if asg.ClassroomID == classroomID {
			asgs = append(asgs, asg)
		}
	}
	sort.Slice(asgs, func(i, j int) bool { return asgs[i].DueDate.Before(asgs[j].DueDate) })
	return asgs, nil
}

func (repo *assignmentRepository) UpdateAssignment(_ context.Context, asg assignment.Assignment) (assignment.Assignment, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.assignments[asg.ID]; !ok {
		return assignment.Assignment{}, assignment.ErrNotFound
	}
	repo.db.assignments[asg.ID] = asg
	return asg, nil
}
