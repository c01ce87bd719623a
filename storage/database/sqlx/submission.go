package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/darasa/darasa/core/submission"
)

type submissionRepository struct {
	db *sqlx.DB
}

func NewSubmissionRepository(db *sqlx.DB) submission.Repository {
	return &submissionRepository{db: db}
}

func (repo *submissionRepository) CreateSubmission(ctx context.Context, sub submission.Submission) (submission.Submission, error) {
	const q = `
INSERT INTO submission (id, assignment_id, student_id, pdf_url, submitted_at, score, feedback)
VALUES (:id, :assignment_id, :student_id, :pdf_url, :submitted_at, :score, :feedback)`
	if _, err := repo.db.NamedExecContext(ctx, q, sub); err != nil {
		if isUniqueViolation(err, "submission_assignment_id_student_id_key") {
			return submission.Submission{}, submission.ErrAlreadySubmitted
		}
		return submission.Submission{}, err
	}
	return sub, nil
}

func (repo *submissionRepository) GetSubmissionByID(ctx context.Context, id string) (submission.Submission, error) {
	const q = `SELECT * FROM submission WHERE id = $1`
	var sub submission.Submission
	if err := repo.db.GetContext(ctx, &sub, q, id); err != nil {
		if err == sql.ErrNoRows {
			return submission.Submission{}, submission.ErrNotFound
		}
		return submission.Submission{}, err
	}
	return sub, nil
}

func (repo *submissionRepository) GetSubmissionByStudent(ctx context.Context, assignmentID, studentID string) (submission.Submission, error) {
	const q = `SELECT * FROM submission WHERE assignment_id = $1 AND student_id = $2`
	var sub submission.Submission
	if err := repo.db.GetContext(ctx, &sub, q, assignmentID, studentID); err != nil {
		if err == sql.ErrNoRows {
			return submission.Submission{}, submission.ErrNotFound
		}
		return submission.Submission{}, err
	}
	return sub, nil
}

func (repo *submissionRepository) QuerySubmissionsByAssignment(ctx context.Context, assignmentID string) ([]submission.Submission, error) {
	const q = `SELECT * FROM submission WHERE assignment_id = $1 ORDER BY submitted_at`
	subs := make([]submission.Submission, 0)
	if err := repo.db.SelectContext(ctx, &subs, q, assignmentID); err != nil {
		return nil, err
	}
	return subs, nil
}

func (repo *submissionRepository) UpdateSubmission(ctx context.Context, sub submission.Submission) (submission.Submission, error) {
	const q = `UPDATE submission SET score = :score, feedback = :feedback WHERE id = :id`
	res, err := repo.db.NamedExecContext(ctx, q, sub)
	if err != nil {
		return submission.Submission{}, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return submission.Submission{}, submission.ErrNotFound
	}
	return sub, nil
}
