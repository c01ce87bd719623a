package assignment

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/darasa/darasa/core"
)

var (
	NowFunc = time.Now // mockable

	dueFutureTag  = "duefuture"
	dueFutureText = "due date must be in the future"
)

func init() {
	core.Validate.RegisterStructValidation(newAssignmentStructValidation, NewAssignment{})
	core.RegisterCustomTranslation(dueFutureTag, dueFutureText)
}

// newAssignmentStructValidation rejects a due date that is not strictly in the future.
func newAssignmentStructValidation(sl validator.StructLevel) {
	na, ok := sl.Current().Interface().(NewAssignment)
	if !ok {
		return
	}
	if !na.DueDate.IsZero() && !na.DueDate.After(NowFunc()) {
		sl.ReportError(na.DueDate, "due_date", "DueDate", dueFutureTag, "")
	}
}
