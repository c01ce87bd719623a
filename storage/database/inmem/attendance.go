package inmemdb

import (
	"context"
	"sort"
	"time"

	"github.com/darasa/darasa/core/attendance"
)

type attendanceRepository struct {
	db *DB
}

func NewAttendanceRepository(db *DB) attendance.Repository {
	return &attendanceRepository{db: db}
}

func (repo *attendanceRepository) CreateRecord(_ context.Context, rec attendance.Record) (attendance.Record, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, existing := range repo.db.attendance {
		if existing.ClassroomID == rec.ClassroomID &&
			existing.StudentID == rec.StudentID &&
			existing.Date.Equal(rec.Date) {
			return attendance.Record{}, attendance.ErrAlreadyMarked
		}
	}
	repo.db.attendance[rec.ID] = rec
	return rec, nil
}

func (repo *attendanceRepository) QueryRecordsByDate(_ context.Context, classroomID string, date time.Time) ([]attendance.Record, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	recs := make([]attendance.Record, 0)
	for _, rec := range repo.db.attendance {
		if rec.ClassroomID == classroomID && rec.Date.Equal(date) {
			recs = append(recs, rec)
		}
	}
	sortRecords(recs)
	return recs, nil
}

func (repo *attendanceRepository) QueryRecordsByMonth(_ context.Context, classroomID string, month time.Month) ([]attendance.Record, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	recs := make([]attendance.Record, 0)
	for _, rec := range repo.db.attendance {
		if rec.ClassroomID == classroomID && rec.Date.Month() == month {
			recs = append(recs, rec)
		}
	}
	sortRecords(recs)
	return recs, nil
}

func sortRecords(recs []attendance.Record) {
	sort.Slice(recs, func(i, j int) bool {
		if !recs[i].Date.Equal(recs[j].Date) {
			return recs[i].Date.Before(recs[j].Date)
		}
		return recs[i].StudentID < recs[j].StudentID
	})
}
