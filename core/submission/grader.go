package submission

import (
	"context"
	"errors"
)

// ErrGraderUnavailable signals that the grading backend could not be
// reached or returned garbage.
var ErrGraderUnavailable = errors.New("grader unavailable")

type (
	// Grade is the grading backend's verdict on a single submission.
	Grade struct {
		Score    int    `json:"score"`
		Feedback string `json:"feedback"`
	}

	// Grader scores a student's work against the assignment's answer key.
	Grader interface {
		Grade(ctx context.Context, answerKeyURL, submissionURL string) (Grade, error)
	}
)
