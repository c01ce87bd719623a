package tests

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"

	. "github.com/darasa/darasa/apps/api/echo"
	"github.com/darasa/darasa/core"
	"github.com/darasa/darasa/core/assignment"
	"github.com/darasa/darasa/core/attendance"
	"github.com/darasa/darasa/core/classroom"
	"github.com/darasa/darasa/core/submission"
	"github.com/darasa/darasa/core/user"
	emailsvc "github.com/darasa/darasa/services/email"
	gradersvc "github.com/darasa/darasa/services/grader"
	inmemdb "github.com/darasa/darasa/storage/database/inmem"
)

var errMissingToken = httpErr{Error: "missing or malformed jwt"}

type deps struct {
	app     Server
	usrRepo user.Repository
	asgRepo assignment.Repository
	roomSvc *classroom.Service
	subSvc  *submission.Service
	grader  *gradersvc.DummyGrader
}

func setup(t *testing.T) deps {
	t.Helper()
	core.Conf.Debug = false
	core.Conf.TestMode = true

	db, err := inmemdb.Open()
	if err != nil {
		t.Fatalf("setup() failed: %v", err)
	}
	usrRepo := inmemdb.NewUserRepository(db)
	asgRepo := inmemdb.NewAssignmentRepository(db)

	logger := logsvcForTests()
	mailSvc := emailsvc.NewConsoleServiceMock()
	grader := &gradersvc.DummyGrader{}

	usrSvc := user.NewService(usrRepo)
	roomSvc := classroom.NewService(inmemdb.NewClassroomRepository(db))
	asgSvc := assignment.NewService(asgRepo, roomSvc)
	subSvc := submission.NewService(inmemdb.NewSubmissionRepository(db), asgRepo, roomSvc, grader, usrRepo, mailSvc)
	attSvc := attendance.NewService(inmemdb.NewAttendanceRepository(db), roomSvc, usrRepo)

	app := NewServer(
		ServerDeps{
			Logger:         logger,
			UserSvc:        usrSvc,
			ClassroomSvc:   roomSvc,
			AssignmentSvc:  asgSvc,
			SubmissionSvc:  subSvc,
			AttendanceSvc:  attSvc,
			DisableReqLogs: true,
		},
	)
	return deps{
		app:     app,
		usrRepo: usrRepo,
		asgRepo: asgRepo,
		roomSvc: roomSvc,
		subSvc:  subSvc,
		grader:  grader,
	}
}

func logsvcForTests() core.Logger {
	return noopLogger{std: log.New(os.Stdout, "TEST : ", log.LstdFlags)}
}

type noopLogger struct {
	std *log.Logger
}

func (l noopLogger) Enable(bool)                        {}
func (l noopLogger) Debug(string, ...interface{})       {}
func (l noopLogger) Info(string, ...interface{})        {}
func (l noopLogger) Warn(string, ...interface{})        {}
func (l noopLogger) Error(msg string, _ ...interface{}) { l.std.Println("ERROR:", msg) }
func (l noopLogger) Fatal(msg string, _ ...interface{}) { l.std.Fatalln("FATAL:", msg) }

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func getToken(t *testing.T, usr user.User) string {
	claims := GetUserClaims(usr)
	token, err := GenerateToken(claims)
	if err != nil {
		t.Fatalf("getToken(): %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj(): %v", err)
	}
	return data
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	if j1 == nil || j2 == nil {
		return false, nil
	}
	return assert.ElementsMatch(t, j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
