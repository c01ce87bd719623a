package submission

import (
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/darasa/darasa/core"
)

type (
	Submission struct {
		ID           string      `json:"id" db:"id"`
		AssignmentID string      `json:"assignment_id" db:"assignment_id"`
		StudentID    string      `json:"student_id" db:"student_id"`
		PDFURL       string      `json:"pdf_url" db:"pdf_url"`
		SubmittedAt  time.Time   `json:"submitted_at" db:"submitted_at"`
		Score        null.Int    `json:"score" db:"score"`
		Feedback     null.String `json:"feedback" db:"feedback"`
	}

	NewSubmission struct {
		PDFURL string `json:"pdf_url" validate:"required,url"`
	}
)

// Graded reports whether the submission already carries a score.
func (s Submission) Graded() bool { return s.Score.Valid }

func (ns *NewSubmission) Validate() error {
	ns.PDFURL = core.CleanString(ns.PDFURL)
	return core.Validate.Struct(ns)
}
