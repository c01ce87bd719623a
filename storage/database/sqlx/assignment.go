package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/darasa/darasa/core/assignment"
)

type assignmentRepository struct {
	db *sqlx.DB
}

func NewAssignmentRepository(db *sqlx.DB) assignment.Repository {
	return &assignmentRepository{db: db}
}

func (repo *assignmentRepository) CreateAssignment(ctx context.Context, asg assignment.Assignment) (assignment.Assignment, error) {
	const q = `
INSERT INTO assignment (id, classroom_id, title, description, due_date, created_by, content_pdf_url, answer_pdf_url, created_at, updated_at)
VALUES (:id, :classroom_id, :title, :description, :due_date, :created_by, :content_pdf_url, :answer_pdf_url, :created_at, :updated_at)`
	if _, err := repo.db.NamedExecContext(ctx, q, asg); err != nil {
		return assignment.Assignment{}, err
	}
	return asg, nil
}

func (repo *assignmentRepository) GetAssignmentByID(ctx context.Context, id string) (assignment.Assignment, error) {
	const q = `SELECT * FROM assignment WHERE id = $1`
	var asg assignment.Assignment
	if err := repo.db.GetContext(ctx, &asg, q, id); err != nil {
		if err == sql.ErrNoRows {
			return assignment.Assignment{}, assignment.ErrNotFound
		}
		return assignment.Assignment{}, err
	}
	return asg, nil
}

func (repo *assignmentRepository) QueryAssignmentsByClassroom(ctx context.Context, classroomID string) ([]assignment.Assignment, error) {
	const q = `SELECT * FROM assignment WHERE classroom_id = $1 ORDER BY due_date`
	asgs := make([]assignment.Assignment, 0)
	if err := repo.db.SelectContext(ctx, &asgs, q, classroomID); err != nil {
		return nil, err
	}
	return asgs, nil
}

func (repo *assignmentRepository) UpdateAssignment(ctx context.Context, asg assignment.Assignment) (assignment.Assignment, error) {
	const q = `
UPDATE assignment
SET title = :title, description = :description, due_date = :due_date,
    content_pdf_url = :content_pdf_url, answer_pdf_url = :answer_pdf_url, updated_at = :updated_at
WHERE id = :id`
	res, err := repo.db.NamedExecContext(ctx, q, asg)
	if err != nil {
		return assignment.Assignment{}, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return assignment.Assignment{}, assignment.ErrNotFound
	}
	return asg, nil
}
