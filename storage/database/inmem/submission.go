package inmemdb

import (
	"context"
	"sort"

	"github.com/darasa/darasa/core/submission"
)

type submissionRepository struct {
	db *DB
}

func NewSubmissionRepository(db *DB) submission.Repository {
	return &submissionRepository{db: db}
}

func (repo *submissionRepository) CreateSubmission(_ context.Context, sub submission.Submission) (submission.Submission, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, existing := range repo.db.submissions {
		if existing.AssignmentID == sub.AssignmentID && existing.StudentID == sub.StudentID {
			return submission.Submission{}, submission.ErrAlreadySubmitted
		}
	}
	repo.db.submissions[sub.ID] = sub
	return sub, nil
}

func (repo *submissionRepository) GetSubmissionByID(_ context.Context, id string) (submission.Submission, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if sub, ok := repo.db.submissions[id]; ok {
		return sub, nil
	}
	return submission.Submission{}, submission.ErrNotFound
}

func (repo *submissionRepository) GetSubmissionByStudent(_ context.Context, assignmentID, studentID string) (submission.Submission, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, sub := range repo.db.submissions {
		if sub.AssignmentID == assignmentID && sub.StudentID == studentID {
			return sub, nil
		}
	}
	return submission.Submission{}, submission.ErrNotFound
}

func (repo *submissionRepository) QuerySubmissionsByAssignment(_ context.Context, assignmentID string) ([]submission.Submission, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	subs := make([]submission.Submission, 0)
	for _, sub := range repo.db.submissions {
		if sub.AssignmentID == assignmentID {
			subs = append(subs, sub)
		}
	}
	sort.Slice(subs, func(i, j int) bool { return subs[i].SubmittedAt.Before(subs[j].SubmittedAt) })
	return subs, nil
}

func (repo *submissionRepository) UpdateSubmission(_ context.Context, sub submission.Submission) (submission.Submission, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	orig, ok := repo.db.submissions[sub.ID]
	if !ok {
		return submission.Submission{}, submission.ErrNotFound
	}
	orig.Score = sub.Score
	orig.Feedback = sub.Feedback
	repo.db.submissions[sub.ID] = orig
	return orig, nil
}
