package submission_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/darasa/darasa/core/classroom"
	"github.com/darasa/darasa/core/submission"
	emailsvc "github.com/darasa/darasa/services/email"
	gradersvc "github.com/darasa/darasa/services/grader"
	inmemdb "github.com/darasa/darasa/storage/database/inmem"
	testutil "github.com/darasa/darasa/tests"
)

type fixture struct {
	svc      *submission.Service
	grader   *gradersvc.DummyGrader
	room     classroom.Classroom
	asgID    string
	admin    string
	student  string
	student2 string
}

func setup(t *testing.T, due time.Time) fixture {
	t.Helper()
	db, err := inmemdb.Open()
	if err != nil {
		t.Fatalf("setup() failed: %v", err)
	}
	usrRepo := inmemdb.NewUserRepository(db)
	asgRepo := inmemdb.NewAssignmentRepository(db)
	roomSvc := classroom.NewService(inmemdb.NewClassroomRepository(db))
	grader := &gradersvc.DummyGrader{}
	emailsvc.ClearSentMessages()

	admin := testutil.CreateUser(t, usrRepo, "Alice", "alice@test.cd")
	student := testutil.CreateUser(t, usrRepo, "Bob", "bob@test.cd")
	student2 := testutil.CreateUser(t, usrRepo, "Carol", "carol@test.cd")
	room := testutil.CreateClassroom(t, roomSvc, admin.ID, "Physics 101")
	testutil.JoinClassroom(t, roomSvc, room, student.ID)
	testutil.JoinClassroom(t, roomSvc, room, student2.ID)
	asg := testutil.CreateAssignment(t, asgRepo, room.ID, admin.ID, "optics", due)

	svc := submission.NewService(
		inmemdb.NewSubmissionRepository(db),
		asgRepo,
		roomSvc,
		grader,
		usrRepo,
		emailsvc.NewConsoleServiceMock(),
	)
	return fixture{
		svc:      svc,
		grader:   grader,
		room:     room,
		asgID:    asg.ID,
		admin:    admin.ID,
		student:  student.ID,
		student2: student2.ID,
	}
}

func Test_Service_Submit(t *testing.T) {
	due := time.Now().Add(time.Hour).UTC()
	fx := setup(t, due)
	ctx := context.Background()
	ns := submission.NewSubmission{PDFURL: "https://files.test/subs/bob.pdf"}

	sub, err := fx.svc.Submit(ctx, fx.asgID, fx.student, ns)
	if err != nil {
		t.Fatalf("Submit() failed: %v", err)
	}
	if sub.StudentID != fx.student || sub.Graded() {
		t.Errorf("Submit() = %+v; want ungraded submission by student", sub)
	}

	// second submission conflicts; the first is kept
	if _, err = fx.svc.Submit(ctx, fx.asgID, fx.student, ns); err != submission.ErrAlreadySubmitted {
		t.Errorf("Submit() twice err = %v; want ErrAlreadySubmitted", err)
	}
	got, err := fx.svc.GetOwn(ctx, fx.asgID, fx.student)
	if err != nil {
		t.Fatalf("GetOwn() failed: %v", err)
	}
	if got.ID != sub.ID {
		t.Errorf("GetOwn() = %s; want the original submission %s", got.ID, sub.ID)
	}

	// teachers do not submit
	if _, err = fx.svc.Submit(ctx, fx.asgID, fx.admin, ns); err != classroom.ErrPermissionDenied {
		t.Errorf("Submit() by admin err = %v; want ErrPermissionDenied", err)
	}
	if _, err = fx.svc.Submit(ctx, fx.asgID, "stranger", ns); err != classroom.ErrPermissionDenied {
		t.Errorf("Submit() by stranger err = %v; want ErrPermissionDenied", err)
	}
}

func Test_Service_Submit_deadline(t *testing.T) {
	due := time.Date(2023, 3, 10, 23, 59, 0, 0, time.UTC)
	fx := setup(t, due)
	ctx := context.Background()
	ns := submission.NewSubmission{PDFURL: "https://files.test/subs/bob.pdf"}
	defer func() { submission.NowFunc = time.Now }()

	// exactly at the due date is accepted
	submission.NowFunc = func() time.Time { return due }
	if _, err := fx.svc.Submit(ctx, fx.asgID, fx.student, ns); err != nil {
		t.Errorf("Submit() at due date err = %v; want accepted", err)
	}

	// a millisecond later is not
	submission.NowFunc = func() time.Time { return due.Add(time.Millisecond) }
	if _, err := fx.svc.Submit(ctx, fx.asgID, fx.student2, ns); err != submission.ErrDeadlinePassed {
		t.Errorf("Submit() after due date err = %v; want ErrDeadlinePassed", err)
	}
}

func Test_Service_Submit_concurrent(t *testing.T) {
	fx := setup(t, time.Now().Add(time.Hour))
	ctx := context.Background()
	ns := submission.NewSubmission{PDFURL: "https://files.test/subs/bob.pdf"}

	const n = 16
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		conflicts int
	)
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			_, err := fx.svc.Submit(ctx, fx.asgID, fx.student, ns)
			mu.Lock()
			defer mu.Unlock()
			switch err {
			case nil:
				succeeded++
			case submission.ErrAlreadySubmitted:
				conflicts++
			default:
				t.Errorf("Submit() err = %v", err)
			}
		}()
	}
	wg.Wait()

	if succeeded != 1 || conflicts != n-1 {
		t.Errorf("concurrent Submit(): %d succeeded, %d conflicted; want 1 and %d", succeeded, conflicts, n-1)
	}
}

func Test_Service_QueryByAssignment(t *testing.T) {
	fx := setup(t, time.Now().Add(time.Hour))
	ctx := context.Background()

	if _, err := fx.svc.Submit(ctx, fx.asgID, fx.student, submission.NewSubmission{PDFURL: "https://files.test/subs/bob.pdf"}); err != nil {
		t.Fatalf("Submit() failed: %v", err)
	}

	subs, err := fx.svc.QueryByAssignment(ctx, fx.asgID, fx.admin)
	if err != nil {
		t.Fatalf("QueryByAssignment() failed: %v", err)
	}
	if len(subs) != 1 {
		t.Fatalf("QueryByAssignment() returned %d; want 1", len(subs))
	}
	if subs[0].StudentName != "Bob" {
		t.Errorf("StudentName = %q; want %q", subs[0].StudentName, "Bob")
	}

	// the submission ledger is teacher-facing
	if _, err = fx.svc.QueryByAssignment(ctx, fx.asgID, fx.student); err != classroom.ErrPermissionDenied {
		t.Errorf("QueryByAssignment() by student err = %v; want ErrPermissionDenied", err)
	}
}

func Test_Service_EvaluateAll(t *testing.T) {
	fx := setup(t, time.Now().Add(time.Hour))
	ctx := context.Background()

	if _, err := fx.svc.Submit(ctx, fx.asgID, fx.student, submission.NewSubmission{PDFURL: "https://files.test/subs/bob.pdf"}); err != nil {
		t.Fatalf("Submit() failed: %v", err)
	}
	if _, err := fx.svc.Submit(ctx, fx.asgID, fx.student2, submission.NewSubmission{PDFURL: "https://files.test/subs/carol.pdf"}); err != nil {
		t.Fatalf("Submit() failed: %v", err)
	}

	// only elevated roles may dispatch
	if _, err := fx.svc.EvaluateAll(ctx, fx.asgID, fx.student); err != classroom.ErrPermissionDenied {
		t.Errorf("EvaluateAll() by student err = %v; want ErrPermissionDenied", err)
	}

	// first run: one submission fails
	fx.grader.GradeFunc = func(_ context.Context, _, submissionURL string) (submission.Grade, error) {
		if strings.Contains(submissionURL, "carol") {
			return submission.Grade{}, submission.ErrGraderUnavailable
		}
		return submission.Grade{Score: 85, Feedback: "solid work"}, nil
	}

	res, err := fx.svc.EvaluateAll(ctx, fx.asgID, fx.admin)
	if err != nil {
		t.Fatalf("EvaluateAll() failed: %v", err)
	}
	if res.Evaluated != 1 || len(res.Failures) != 1 {
		t.Fatalf("EvaluateAll() = %+v; want 1 evaluated, 1 failure", res)
	}
	if calls := fx.grader.Calls(); calls != 2 {
		t.Errorf("grader calls = %d; want 2", calls)
	}

	got, err := fx.svc.GetOwn(ctx, fx.asgID, fx.student)
	if err != nil {
		t.Fatalf("GetOwn() failed: %v", err)
	}
	if !got.Graded() || got.Score.Int != 85 || got.Feedback.String != "solid work" {
		t.Errorf("graded submission = %+v; want score 85 with feedback", got)
	}

	// second run only retries the failed one
	fx.grader.GradeFunc = func(_ context.Context, _, _ string) (submission.Grade, error) {
		return submission.Grade{Score: 70}, nil
	}
	res, err = fx.svc.EvaluateAll(ctx, fx.asgID, fx.admin)
	if err != nil {
		t.Fatalf("EvaluateAll() retry failed: %v", err)
	}
	if res.Evaluated != 1 || len(res.Failures) != 0 {
		t.Fatalf("EvaluateAll() retry = %+v; want 1 evaluated, 0 failures", res)
	}
	if calls := fx.grader.Calls(); calls != 3 {
		t.Errorf("grader calls = %d; want 3 (graded submissions skipped)", calls)
	}

	// everything graded: nothing to dispatch
	res, err = fx.svc.EvaluateAll(ctx, fx.asgID, fx.admin)
	if err != nil {
		t.Fatalf("EvaluateAll() no-op failed: %v", err)
	}
	if res.Evaluated != 0 || len(res.Failures) != 0 || fx.grader.Calls() != 3 {
		t.Errorf("EvaluateAll() no-op = %+v, calls = %d; want untouched", res, fx.grader.Calls())
	}
}

func Test_Service_EvaluateAll_scoreOutOfRange(t *testing.T) {
	fx := setup(t, time.Now().Add(time.Hour))
	ctx := context.Background()

	if _, err := fx.svc.Submit(ctx, fx.asgID, fx.student, submission.NewSubmission{PDFURL: "https://files.test/subs/bob.pdf"}); err != nil {
		t.Fatalf("Submit() failed: %v", err)
	}

	fx.grader.GradeFunc = func(_ context.Context, _, _ string) (submission.Grade, error) {
		return submission.Grade{Score: 101}, nil
	}
	res, err := fx.svc.EvaluateAll(ctx, fx.asgID, fx.admin)
	if err != nil {
		t.Fatalf("EvaluateAll() failed: %v", err)
	}
	if res.Evaluated != 0 || len(res.Failures) != 1 {
		t.Fatalf("EvaluateAll() = %+v; want the bogus score rejected", res)
	}

	got, err := fx.svc.GetOwn(ctx, fx.asgID, fx.student)
	if err != nil {
		t.Fatalf("GetOwn() failed: %v", err)
	}
	if got.Graded() {
		t.Errorf("submission stored out-of-range score %v", got.Score)
	}
}
