package assignment

import (
	"time"

	"github.com/darasa/darasa/core"
	"github.com/darasa/darasa/core/classroom"
)

type Assignment struct {
	ID          string    `json:"id" db:"id"`
	ClassroomID string    `json:"classroom_id" db:"classroom_id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	DueDate     time.Time `json:"due_date" db:"due_date"` // UTC; submissions accepted up to and including this instant
	CreatedBy   string    `json:"created_by" db:"created_by"`

	// ContentPDFURL is the prompt, visible to every member.
	ContentPDFURL string `json:"content_pdf_url,omitempty" db:"content_pdf_url"`
	// AnswerPDFURL is the answer key; only elevated members ever see it.
	AnswerPDFURL string `json:"answer_pdf_url,omitempty" db:"answer_pdf_url"`

	CreatedAt time.Time `json:"created_at" db:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"` // UTC
}

// ForRole returns the view of the assignment the given role may see.
// Hiding the answer key here is a confidentiality invariant, not a UI nicety.
func (a Assignment) ForRole(role classroom.Role) Assignment {
	if !role.IsElevated() {
		a.AnswerPDFURL = ""
	}
	return a
}

// NewAssignment contains information needed to publish a new Assignment.
// The answer key must exist before publication.
type NewAssignment struct {
	Title         string    `json:"title" validate:"required"`
	Description   string    `json:"description"`
	DueDate       time.Time `json:"due_date" validate:"required"`
	ContentPDFURL string    `json:"content_pdf_url"`
	AnswerPDFURL  string    `json:"answer_pdf_url" validate:"required,url"`
}

func (na *NewAssignment) Validate() error {
	na.Title = core.CleanString(na.Title)
	na.Description = core.CleanString(na.Description)
	na.ContentPDFURL = core.CleanString(na.ContentPDFURL)
	na.AnswerPDFURL = core.CleanString(na.AnswerPDFURL)
	return core.Validate.Struct(na)
}

// UpdateAssignment defines what may be modified on an existing Assignment.
// ClassroomID and CreatedBy are immutable and deliberately absent here.
type UpdateAssignment struct {
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	DueDate       *time.Time `json:"due_date"`
	ContentPDFURL string     `json:"content_pdf_url" validate:"omitempty,url"`
	AnswerPDFURL  string     `json:"answer_pdf_url" validate:"omitempty,url"`
}

func (ua *UpdateAssignment) Validate(orig Assignment) error {
	if title := core.CleanString(ua.Title); title != "" {
		ua.Title = title
	} else {
		ua.Title = orig.Title
	}
	if desc := core.CleanString(ua.Description); desc != "" {
		ua.Description = desc
	} else {
		ua.Description = orig.Description
	}
	ua.ContentPDFURL = core.CleanString(ua.ContentPDFURL)
	ua.AnswerPDFURL = core.CleanString(ua.AnswerPDFURL)
	return core.Validate.Struct(ua)
}
