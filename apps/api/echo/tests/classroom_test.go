package tests

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/darasa/darasa/core/classroom"
	testutil "github.com/darasa/darasa/tests"
)

func Test_classroomApi_create(t *testing.T) {
	d := setup(t)
	admin := testutil.CreateUser(t, d.usrRepo, "Alice", "alice@test.cd")
	token := getToken(t, admin)
	body := []byte(`{"name": "Physics 101", "description": "Mechanics & optics"}`)

	tests := []httpTest{
		{
			name:     "Auth required",
			method:   http.MethodPost,
			path:     "/v1/classrooms",
			body:     body,
			wantCode: http.StatusUnauthorized,
			wantData: marchallObj(t, errMissingToken),
		},
		{
			name:     "Name required",
			method:   http.MethodPost,
			path:     "/v1/classrooms",
			body:     []byte(`{"name": "  "}`),
			token:    token,
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"name": "name is a required field"}`),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			d.app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("Created", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/classrooms", token, body)
		d.app.ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("code = %d; want 201; body %s", rec.Code, rec.Body.String())
		}
		var room classroom.Classroom
		if err := json.Unmarshal(rec.Body.Bytes(), &room); err != nil {
			t.Fatalf("unmarshalling response: %v", err)
		}
		if room.Name != "Physics 101" || room.AdminID != admin.ID || room.JoinLink == "" {
			t.Errorf("created room = %+v", room)
		}
	})
}

func Test_classroomApi_joinAndLeave(t *testing.T) {
	d := setup(t)
	admin := testutil.CreateUser(t, d.usrRepo, "Alice", "alice@test.cd")
	student := testutil.CreateUser(t, d.usrRepo, "Bob", "bob@test.cd")
	room := testutil.CreateClassroom(t, d.roomSvc, admin.ID, "Physics 101")
	adminToken := getToken(t, admin)
	studentToken := getToken(t, student)
	joinBody := []byte(fmt.Sprintf(`{"join_link": %q}`, room.JoinLink))

	t.Run("Join", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/classrooms/join", studentToken, joinBody)
		d.app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %d; want 200; body %s", rec.Code, rec.Body.String())
		}
		var got classroom.Classroom
		if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
			t.Fatalf("unmarshalling response: %v", err)
		}
		if len(got.StudentIDs) != 1 || got.StudentIDs[0] != student.ID {
			t.Errorf("StudentIDs = %v; want [%s]", got.StudentIDs, student.ID)
		}
	})

	tests := []httpTest{
		{
			name:     "Joining twice conflicts",
			method:   http.MethodPost,
			path:     "/v1/classrooms/join",
			body:     joinBody,
			token:    studentToken,
			wantCode: http.StatusConflict,
			wantData: marchallObj(t, httpErr{Error: "user is already a member of this classroom"}),
		},
		{
			name:     "Unknown link",
			method:   http.MethodPost,
			path:     "/v1/classrooms/join",
			body:     []byte(`{"join_link": "no-such-link"}`),
			token:    studentToken,
			wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: "classroom not found"}),
		},
		{
			name:     "Admin cannot leave",
			method:   http.MethodPost,
			path:     "/v1/classrooms/" + room.ID + "/leave",
			token:    adminToken,
			wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Error: "the admin cannot leave their own classroom"}),
		},
		{
			name:     "Student leaves",
			method:   http.MethodPost,
			path:     "/v1/classrooms/" + room.ID + "/leave",
			token:    studentToken,
			wantCode: http.StatusNoContent,
			wantData: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			d.app.ServeHTTP(rec, req)
			if tt.wantData == nil {
				if rec.Code != tt.wantCode {
					t.Errorf("code = %d; want %d", rec.Code, tt.wantCode)
				}
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_classroomApi_members(t *testing.T) {
	d := setup(t)
	admin := testutil.CreateUser(t, d.usrRepo, "Alice", "alice@test.cd")
	student := testutil.CreateUser(t, d.usrRepo, "Bob", "bob@test.cd")
	room := testutil.CreateClassroom(t, d.roomSvc, admin.ID, "Physics 101")
	testutil.JoinClassroom(t, d.roomSvc, room, student.ID)
	adminToken := getToken(t, admin)
	studentToken := getToken(t, student)

	t.Run("Promote", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPut, "/v1/classrooms/"+room.ID+"/members/"+student.ID+"/role", adminToken, []byte(`{"elevated": true}`))
		d.app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %d; want 200; body %s", rec.Code, rec.Body.String())
		}
		var got classroom.Classroom
		if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
			t.Fatalf("unmarshalling response: %v", err)
		}
		if len(got.SecondaryAdminIDs) != 1 || got.SecondaryAdminIDs[0] != student.ID {
			t.Errorf("SecondaryAdminIDs = %v; want [%s]", got.SecondaryAdminIDs, student.ID)
		}
	})

	tests := []httpTest{
		{
			name:     "Only the admin changes roles",
			method:   http.MethodPut,
			path:     "/v1/classrooms/" + room.ID + "/members/" + admin.ID + "/role",
			body:     []byte(`{"elevated": true}`),
			token:    studentToken,
			wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
		{
			name:     "The admin is not a valid target",
			method:   http.MethodDelete,
			path:     "/v1/classrooms/" + room.ID + "/members/" + admin.ID,
			token:    adminToken,
			wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Error: "operation not allowed on the classroom admin"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			d.app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_classroomApi_query(t *testing.T) {
	d := setup(t)
	admin := testutil.CreateUser(t, d.usrRepo, "Alice", "alice@test.cd")
	testutil.CreateClassroom(t, d.roomSvc, admin.ID, "Zoology")
	testutil.CreateClassroom(t, d.roomSvc, admin.ID, "Algebra")

	req, rec := newAuthRequest(http.MethodGet, "/v1/classrooms", getToken(t, admin))
	d.app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d; want 200; body %s", rec.Code, rec.Body.String())
	}
	var rooms []classroom.Classroom
	if err := json.Unmarshal(rec.Body.Bytes(), &rooms); err != nil {
		t.Fatalf("unmarshalling response: %v", err)
	}
	if len(rooms) != 2 || rooms[0].Name != "Algebra" || rooms[1].Name != "Zoology" {
		t.Errorf("rooms = %+v; want [Algebra Zoology]", rooms)
	}
}
