package attendance

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/darasa/darasa/core"
	"github.com/darasa/darasa/core/classroom"
	"github.com/darasa/darasa/core/user"
)

var (
	// errors
	ErrNotFound      = errors.New("attendance record not found")
	ErrAlreadyMarked = errors.New("attendance already marked for this day")
	ErrFutureDate    = errors.New("cannot mark attendance for a future date")

	// NowFunc returns the current time. It can be mocked in tests.
	NowFunc func() time.Time = time.Now
)

type (
	Repository interface {
		CreateRecord(ctx context.Context, rec Record) (Record, error)
		QueryRecordsByDate(ctx context.Context, classroomID string, date time.Time) ([]Record, error)
		QueryRecordsByMonth(ctx context.Context, classroomID string, month time.Month) ([]Record, error)
	}

	Service struct {
		repo  Repository
		roles classroom.RoleAuthority
		users user.Repository
	}
)

func NewService(repo Repository, roles classroom.RoleAuthority, users user.Repository) *Service {
	return &Service{repo: repo, roles: roles, users: users}
}

// Mark writes one attendance entry. Entries are write-once: marking the
// same student twice for the same day fails and keeps the original.
func (svc *Service) Mark(ctx context.Context, classroomID, callerID string, nr NewRecord) (Record, error) {
	if err := nr.Validate(); err != nil {
		return Record{}, err
	}

	role, err := svc.roles.RoleOf(ctx, classroomID, callerID)
	if err != nil {
		return Record{}, err
	}
	if !role.IsElevated() {
		return Record{}, classroom.ErrPermissionDenied
	}

	targetRole, err := svc.roles.RoleOf(ctx, classroomID, nr.StudentID)
	if err != nil {
		return Record{}, err
	}
	if targetRole != classroom.RoleStudent {
		return Record{}, classroom.ErrInvalidTarget
	}

	day := DayOf(nr.Date)
	if day.After(DayOf(NowFunc())) {
		return Record{}, ErrFutureDate
	}

	rec := Record{
		ID:          uuid.New().String(),
		ClassroomID: classroomID,
		StudentID:   nr.StudentID,
		Date:        day,
		Status:      nr.Status,
		MarkedBy:    callerID,
		CreatedAt:   NowFunc().UTC(),
	}
	return svc.repo.CreateRecord(ctx, rec)
}

// GetForDate lists the day's records with student names, ordered by name.
func (svc *Service) GetForDate(ctx context.Context, classroomID, callerID string, date time.Time) ([]RecordWithStudent, error) {
	role, err := svc.roles.RoleOf(ctx, classroomID, callerID)
	if err != nil {
		return nil, err
	}
	if !role.IsElevated() {
		return nil, classroom.ErrPermissionDenied
	}

	recs, err := svc.repo.QueryRecordsByDate(ctx, classroomID, DayOf(date))
	if err != nil {
		return nil, err
	}

	names, err := svc.studentNames(ctx, recs)
	if err != nil {
		return nil, err
	}
	out := make([]RecordWithStudent, 0, len(recs))
	for _, rec := range recs {
		out = append(out, RecordWithStudent{Record: rec, StudentName: names[rec.StudentID]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].StudentName < out[j].StudentName })
	return out, nil
}

// MonthlySummary aggregates present-day counts per student for the named
// month. The month is matched by name regardless of year; a student with
// any record in the month appears once, even with zero present days.
func (svc *Service) MonthlySummary(ctx context.Context, classroomID, callerID, monthName string) ([]StudentSummary, error) {
	role, err := svc.roles.RoleOf(ctx, classroomID, callerID)
	if err != nil {
		return nil, err
	}
	if !role.IsElevated() {
		return nil, classroom.ErrPermissionDenied
	}

	month, err := parseMonth(monthName)
	if err != nil {
		return nil, err
	}

	recs, err := svc.repo.QueryRecordsByMonth(ctx, classroomID, month)
	if err != nil {
		return nil, err
	}

	names, err := svc.studentNames(ctx, recs)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	for _, rec := range recs {
		if _, ok := counts[rec.StudentID]; !ok {
			counts[rec.StudentID] = 0
		}
		if rec.Present() {
			counts[rec.StudentID]++
		}
	}

	out := make([]StudentSummary, 0, len(counts))
	for id, n := range counts {
		out = append(out, StudentSummary{StudentID: id, StudentName: names[id], PresentDays: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StudentName < out[j].StudentName })
	return out, nil
}

func (svc *Service) studentNames(ctx context.Context, recs []Record) (map[string]string, error) {
	ids := make([]string, 0, len(recs))
	seen := make(map[string]struct{}, len(recs))
	for _, rec := range recs {
		if _, ok := seen[rec.StudentID]; ok {
			continue
		}
		seen[rec.StudentID] = struct{}{}
		ids = append(ids, rec.StudentID)
	}
	students, err := svc.users.QueryUsersByID(ctx, ids...)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(students))
	for _, stu := range students {
		names[stu.ID] = stu.Name
	}
	return names, nil
}

func parseMonth(name string) (time.Month, error) {
	name = core.CleanString(name, true)
	for m := time.January; m <= time.December; m++ {
		if strings.ToLower(m.String()) == name {
			return m, nil
		}
	}
	return 0, core.NewValidationError(errors.New("unknown month name"), core.FieldError{Field: "month", Error: "unknown month name"})
}
