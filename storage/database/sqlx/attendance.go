package sqlxrepos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/darasa/darasa/core/attendance"
)

type attendanceRepository struct {
	db *sqlx.DB
}

func NewAttendanceRepository(db *sqlx.DB) attendance.Repository {
	return &attendanceRepository{db: db}
}

func (repo *attendanceRepository) CreateRecord(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	const q = `
INSERT INTO attendance_record (id, classroom_id, student_id, date, status, marked_by, created_at)
VALUES (:id, :classroom_id, :student_id, :date, :status, :marked_by, :created_at)`
	if _, err := repo.db.NamedExecContext(ctx, q, rec); err != nil {
		if isUniqueViolation(err, "attendance_record_classroom_id_student_id_date_key") {
			return attendance.Record{}, attendance.ErrAlreadyMarked
		}
		return attendance.Record{}, err
	}
	return rec, nil
}

func (repo *attendanceRepository) QueryRecordsByDate(ctx context.Context, classroomID string, date time.Time) ([]attendance.Record, error) {
	const q = `SELECT * FROM attendance_record WHERE classroom_id = $1 AND date = $2`
	recs := make([]attendance.Record, 0)
	if err := repo.db.SelectContext(ctx, &recs, q, classroomID, date); err != nil {
		return nil, err
	}
	return recs, nil
}

func (repo *attendanceRepository) QueryRecordsByMonth(ctx context.Context, classroomID string, month time.Month) ([]attendance.Record, error) {
	// matched on month regardless of year
	const q = `SELECT * FROM attendance_record WHERE classroom_id = $1 AND EXTRACT(MONTH FROM date) = $2`
	recs := make([]attendance.Record, 0)
	if err := repo.db.SelectContext(ctx, &recs, q, classroomID, int(month)); err != nil {
		return nil, err
	}
	return recs, nil
}
