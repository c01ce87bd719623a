package attendance

import (
	"time"

	"github.com/darasa/darasa/core"
)

type Status string

const (
	StatusPresent Status = "present"
	StatusAbsent  Status = "absent"
)

type (
	// Record is one immutable attendance entry: a student's status in a
	// classroom on a given day.
	Record struct {
		ID          string    `json:"id" db:"id"`
		ClassroomID string    `json:"classroom_id" db:"classroom_id"`
		StudentID   string    `json:"student_id" db:"student_id"`
		Date        time.Time `json:"date" db:"date"`
		Status      Status    `json:"status" db:"status"`
		MarkedBy    string    `json:"marked_by" db:"marked_by"`
		CreatedAt   time.Time `json:"created_at" db:"created_at"`
	}

	// RecordWithStudent is a Record enriched with the student's name for
	// roster views.
	RecordWithStudent struct {
		Record
		StudentName string `json:"student_name" db:"student_name"`
	}

	NewRecord struct {
		StudentID string    `json:"student_id" validate:"required"`
		Date      time.Time `json:"date" validate:"required"`
		Status    Status    `json:"status" validate:"required,oneof=present absent"`
	}

	// StudentSummary is one row of the monthly aggregation: how many days
	// the student was marked present in the month.
	StudentSummary struct {
		StudentID   string `json:"student_id"`
		StudentName string `json:"student_name"`
		PresentDays int    `json:"present_days"`
	}
)

// Present reports whether the record marks the student present.
func (r Record) Present() bool { return r.Status == StatusPresent }

func (nr *NewRecord) Validate() error {
	nr.StudentID = core.CleanString(nr.StudentID)
	nr.Status = Status(core.CleanString(string(nr.Status), true))
	return core.Validate.Struct(nr)
}

// DayOf truncates t to midnight UTC; the ledger keys on days, not instants.
func DayOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
