package submission

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/darasa/darasa/core"
	"github.com/darasa/darasa/core/assignment"
	"github.com/darasa/darasa/core/classroom"
	"github.com/darasa/darasa/core/user"
)

var (
	// errors
	ErrNotFound         = errors.New("submission not found")
	ErrAlreadySubmitted = errors.New("assignment already submitted")
	ErrDeadlinePassed   = errors.New("assignment deadline has passed")

	// NowFunc returns the current time. It can be mocked in tests.
	NowFunc func() time.Time = time.Now
)

const (
	minScore = 0
	maxScore = 100
)

type (
	Repository interface {
		CreateSubmission(ctx context.Context, sub Submission) (Submission, error)
		GetSubmissionByID(ctx context.Context, id string) (Submission, error)
		GetSubmissionByStudent(ctx context.Context, assignmentID, studentID string) (Submission, error)
		QuerySubmissionsByAssignment(ctx context.Context, assignmentID string) ([]Submission, error)
		UpdateSubmission(ctx context.Context, sub Submission) (Submission, error)
	}

	// SubmissionWithStudent is a ledger row enriched with the student's
	// name for teacher-facing listings.
	SubmissionWithStudent struct {
		Submission
		StudentName string `json:"student_name" db:"student_name"`
	}

	EvaluationFailure struct {
		SubmissionID string `json:"submission_id"`
		Error        string `json:"error"`
	}

	EvaluationResult struct {
		Evaluated int                 `json:"evaluated"`
		Failures  []EvaluationFailure `json:"failures"`
	}

	Service struct {
		repo        Repository
		assignments assignment.Repository
		roles       classroom.RoleAuthority
		grader      Grader
		users       user.Repository
		mailSvc     core.EmailService
	}
)

func NewService(
	repo Repository,
	assignments assignment.Repository,
	roles classroom.RoleAuthority,
	grader Grader,
	users user.Repository,
	mailSvc core.EmailService,
) *Service {
	return &Service{
		repo:        repo,
		assignments: assignments,
		roles:       roles,
		grader:      grader,
		users:       users,
		mailSvc:     mailSvc,
	}
}

// Submit records a student's single submission for an assignment.
// A submission arriving exactly at the due date is accepted.
func (svc *Service) Submit(ctx context.Context, assignmentID, studentID string, ns NewSubmission) (Submission, error) {
	if err := ns.Validate(); err != nil {
		return Submission{}, err
	}

	asg, err := svc.assignments.GetAssignmentByID(ctx, assignmentID)
	if err != nil {
		return Submission{}, err
	}

	role, err := svc.roles.RoleOf(ctx, asg.ClassroomID, studentID)
	if err != nil {
		return Submission{}, err
	}
	if role != classroom.RoleStudent {
		return Submission{}, classroom.ErrPermissionDenied
	}

	now := NowFunc().UTC()
	if now.After(asg.DueDate) {
		return Submission{}, ErrDeadlinePassed
	}

	sub := Submission{
		ID:           uuid.New().String(),
		AssignmentID: assignmentID,
		StudentID:    studentID,
		PDFURL:       ns.PDFURL,
		SubmittedAt:  now,
	}
	return svc.repo.CreateSubmission(ctx, sub)
}

// GetOwn returns the caller's submission for the assignment, if any.
func (svc *Service) GetOwn(ctx context.Context, assignmentID, studentID string) (Submission, error) {
	asg, err := svc.assignments.GetAssignmentByID(ctx, assignmentID)
	if err != nil {
		return Submission{}, err
	}

	role, err := svc.roles.RoleOf(ctx, asg.ClassroomID, studentID)
	if err != nil {
		return Submission{}, err
	}
	if !role.IsMember() {
		return Submission{}, classroom.ErrPermissionDenied
	}
	return svc.repo.GetSubmissionByStudent(ctx, assignmentID, studentID)
}

// QueryByAssignment lists all submissions for the assignment with
// student names attached, ordered by submission time. Elevated roles only.
func (svc *Service) QueryByAssignment(ctx context.Context, assignmentID, callerID string) ([]SubmissionWithStudent, error) {
	asg, err := svc.assignments.GetAssignmentByID(ctx, assignmentID)
	if err != nil {
		return nil, err
	}

	role, err := svc.roles.RoleOf(ctx, asg.ClassroomID, callerID)
	if err != nil {
		return nil, err
	}
	if !role.IsElevated() {
		return nil, classroom.ErrPermissionDenied
	}

	subs, err := svc.repo.QuerySubmissionsByAssignment(ctx, assignmentID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(subs, func(i, j int) bool { return subs[i].SubmittedAt.Before(subs[j].SubmittedAt) })

	ids := make([]string, 0, len(subs))
	for _, sub := range subs {
		ids = append(ids, sub.StudentID)
	}
	students, err := svc.users.QueryUsersByID(ctx, ids...)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(students))
	for _, stu := range students {
		names[stu.ID] = stu.Name
	}

	out := make([]SubmissionWithStudent, 0, len(subs))
	for _, sub := range subs {
		out = append(out, SubmissionWithStudent{Submission: sub, StudentName: names[sub.StudentID]})
	}
	return out, nil
}

// EvaluateAll dispatches every ungraded submission of the assignment to
// the grading backend with a bounded worker pool. Already graded
// submissions are skipped, so re-running after a partial failure only
// retries the failed ones.
func (svc *Service) EvaluateAll(ctx context.Context, assignmentID, callerID string) (EvaluationResult, error) {
	asg, err := svc.assignments.GetAssignmentByID(ctx, assignmentID)
	if err != nil {
		return EvaluationResult{}, err
	}

	role, err := svc.roles.RoleOf(ctx, asg.ClassroomID, callerID)
	if err != nil {
		return EvaluationResult{}, err
	}
	if !role.IsElevated() {
		return EvaluationResult{}, classroom.ErrPermissionDenied
	}

	subs, err := svc.repo.QuerySubmissionsByAssignment(ctx, assignmentID)
	if err != nil {
		return EvaluationResult{}, err
	}

	pending := make([]Submission, 0, len(subs))
	for _, sub := range subs {
		if !sub.Graded() {
			pending = append(pending, sub)
		}
	}
	if len(pending) == 0 {
		return EvaluationResult{Failures: []EvaluationFailure{}}, nil
	}

	workers := core.Conf.Grader.Workers
	if workers < 1 {
		workers = 1
	}
	timeout := core.Conf.Grader.Timeout

	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		result = EvaluationResult{Failures: []EvaluationFailure{}}
	)
	jobs := make(chan Submission)

	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for sub := range jobs {
				graded, err := svc.evaluate(ctx, asg, sub, timeout)
				mu.Lock()
				if err != nil {
					result.Failures = append(result.Failures, EvaluationFailure{SubmissionID: sub.ID, Error: err.Error()})
				} else {
					result.Evaluated++
				}
				mu.Unlock()
				if err == nil {
					svc.notifyGraded(ctx, asg, graded)
				}
			}
		}()
	}

	for _, sub := range pending {
		jobs <- sub
	}
	close(jobs)
	wg.Wait()

	sort.Slice(result.Failures, func(i, j int) bool {
		return result.Failures[i].SubmissionID < result.Failures[j].SubmissionID
	})
	return result, nil
}

func (svc *Service) evaluate(ctx context.Context, asg assignment.Assignment, sub Submission, timeout time.Duration) (Submission, error) {
	gctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	grade, err := svc.grader.Grade(gctx, asg.AnswerPDFURL, sub.PDFURL)
	if err != nil {
		return Submission{}, err
	}
	if grade.Score < minScore || grade.Score > maxScore {
		return Submission{}, fmt.Errorf("grader returned score %d out of range", grade.Score)
	}

	sub.Score.SetValid(grade.Score)
	sub.Feedback.SetValid(grade.Feedback)
	return svc.repo.UpdateSubmission(ctx, sub)
}

func (svc *Service) notifyGraded(ctx context.Context, asg assignment.Assignment, sub Submission) {
	stu, err := svc.users.GetUserByID(ctx, sub.StudentID)
	if err != nil {
		return
	}
	msg := &core.EmailMessage{
		To:      []mail.Address{{Name: stu.Name, Address: stu.Email}},
		Subject: fmt.Sprintf("Your submission for %q has been graded", asg.Title),
		BodyStr: fmt.Sprintf("Hi %s,\n\nYour submission for %q was graded: %d/%d.\n\n%s\n", stu.Name, asg.Title, sub.Score.Int, maxScore, sub.Feedback.String),
	}
	svc.mailSvc.SendMessages(msg)
}
