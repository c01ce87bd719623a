package gradersvc

import (
	"context"
	"sync/atomic"

	"github.com/darasa/darasa/core/submission"
)

// DummyGrader is a configurable in-process grader for tests and local
// development. The zero value grades everything 100 with no feedback.
type DummyGrader struct {
	GradeFunc func(ctx context.Context, answerKeyURL, submissionURL string) (submission.Grade, error)

	calls int64
}

var _ submission.Grader = (*DummyGrader)(nil)

func (g *DummyGrader) Grade(ctx context.Context, answerKeyURL, submissionURL string) (submission.Grade, error) {
	atomic.AddInt64(&g.calls, 1)
	if g.GradeFunc != nil {
		return g.GradeFunc(ctx, answerKeyURL, submissionURL)
	}
	return submission.Grade{Score: 100}, nil
}

// Calls returns how many times Grade was invoked.
func (g *DummyGrader) Calls() int {
	return int(atomic.LoadInt64(&g.calls))
}
