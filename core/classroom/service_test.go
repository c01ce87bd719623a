package classroom_test

import (
	"context"
	"testing"

	"github.com/darasa/darasa/core/classroom"
	inmemdb "github.com/darasa/darasa/storage/database/inmem"
	testutil "github.com/darasa/darasa/tests"
)

func setup(t *testing.T) (*classroom.Service, *inmemdb.DB) {
	t.Helper()
	db, err := inmemdb.Open()
	if err != nil {
		t.Fatalf("setup() failed: %v", err)
	}
	return classroom.NewService(inmemdb.NewClassroomRepository(db)), db
}

func Test_Service_Create(t *testing.T) {
	svc, db := setup(t)
	ctx := context.Background()
	admin := testutil.CreateUser(t, inmemdb.NewUserRepository(db), "Alice", "alice@test.cd")

	room, err := svc.Create(ctx, admin.ID, classroom.NewClassroom{Name: "Physics 101"})
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if room.AdminID != admin.ID {
		t.Errorf("AdminID = %q; want %q", room.AdminID, admin.ID)
	}
	if room.JoinLink == "" {
		t.Error("JoinLink is empty")
	}

	role, err := svc.RoleOf(ctx, room.ID, admin.ID)
	if err != nil {
		t.Fatalf("RoleOf() failed: %v", err)
	}
	if role != classroom.RoleAdmin {
		t.Errorf("RoleOf(admin) = %q; want %q", role, classroom.RoleAdmin)
	}
}

func Test_Service_RoleOf_nonMember(t *testing.T) {
	svc, db := setup(t)
	ctx := context.Background()
	admin := testutil.CreateUser(t, inmemdb.NewUserRepository(db), "Alice", "alice@test.cd")
	room := testutil.CreateClassroom(t, svc, admin.ID, "Physics 101")

	role, err := svc.RoleOf(ctx, room.ID, "stranger")
	if err != nil {
		t.Fatalf("RoleOf() failed: %v", err)
	}
	if role != classroom.RoleNonMember {
		t.Errorf("RoleOf(stranger) = %q; want non-member", role)
	}
	if role.IsMember() || role.IsElevated() {
		t.Error("non-member role reports membership")
	}
}

func Test_Service_Join(t *testing.T) {
	svc, db := setup(t)
	ctx := context.Background()
	usrRepo := inmemdb.NewUserRepository(db)
	admin := testutil.CreateUser(t, usrRepo, "Alice", "alice@test.cd")
	student := testutil.CreateUser(t, usrRepo, "Bob", "bob@test.cd")
	room := testutil.CreateClassroom(t, svc, admin.ID, "Physics 101")

	got, err := svc.Join(ctx, room.JoinLink, student.ID)
	if err != nil {
		t.Fatalf("Join() failed: %v", err)
	}
	if len(got.StudentIDs) != 1 || got.StudentIDs[0] != student.ID {
		t.Errorf("StudentIDs = %v; want [%s]", got.StudentIDs, student.ID)
	}

	// joining twice conflicts
	if _, err = svc.Join(ctx, room.JoinLink, student.ID); err != classroom.ErrAlreadyMember {
		t.Errorf("Join() twice err = %v; want ErrAlreadyMember", err)
	}

	// the admin re-joining their own room conflicts too
	if _, err = svc.Join(ctx, room.JoinLink, admin.ID); err != classroom.ErrAlreadyMember {
		t.Errorf("Join() by admin err = %v; want ErrAlreadyMember", err)
	}

	// unknown link
	if _, err = svc.Join(ctx, "no-such-link", student.ID); err != classroom.ErrNotFound {
		t.Errorf("Join() with bad link err = %v; want ErrNotFound", err)
	}
}

func Test_Service_Leave(t *testing.T) {
	svc, db := setup(t)
	ctx := context.Background()
	usrRepo := inmemdb.NewUserRepository(db)
	admin := testutil.CreateUser(t, usrRepo, "Alice", "alice@test.cd")
	student := testutil.CreateUser(t, usrRepo, "Bob", "bob@test.cd")
	room := testutil.CreateClassroom(t, svc, admin.ID, "Physics 101")
	testutil.JoinClassroom(t, svc, room, student.ID)

	if err := svc.Leave(ctx, room.ID, admin.ID); err != classroom.ErrAdminCannotLeave {
		t.Errorf("Leave() by admin err = %v; want ErrAdminCannotLeave", err)
	}
	if err := svc.Leave(ctx, room.ID, "stranger"); err != classroom.ErrNotMember {
		t.Errorf("Leave() by stranger err = %v; want ErrNotMember", err)
	}
	if err := svc.Leave(ctx, room.ID, student.ID); err != nil {
		t.Fatalf("Leave() failed: %v", err)
	}

	role, _ := svc.RoleOf(ctx, room.ID, student.ID)
	if role != classroom.RoleNonMember {
		t.Errorf("RoleOf() after leave = %q; want non-member", role)
	}
}

func Test_Service_SetMemberRole(t *testing.T) {
	svc, db := setup(t)
	ctx := context.Background()
	usrRepo := inmemdb.NewUserRepository(db)
	admin := testutil.CreateUser(t, usrRepo, "Alice", "alice@test.cd")
	student := testutil.CreateUser(t, usrRepo, "Bob", "bob@test.cd")
	room := testutil.CreateClassroom(t, svc, admin.ID, "Physics 101")
	testutil.JoinClassroom(t, svc, room, student.ID)

	// promote
	got, err := svc.SetMemberRole(ctx, room.ID, admin.ID, student.ID, true)
	if err != nil {
		t.Fatalf("SetMemberRole() failed: %v", err)
	}
	if len(got.SecondaryAdminIDs) != 1 || got.SecondaryAdminIDs[0] != student.ID {
		t.Errorf("SecondaryAdminIDs = %v; want [%s]", got.SecondaryAdminIDs, student.ID)
	}

	role, _ := svc.RoleOf(ctx, room.ID, student.ID)
	if !role.IsElevated() {
		t.Errorf("promoted role = %q; want elevated", role)
	}

	// promoting again is a no-op
	if _, err = svc.SetMemberRole(ctx, room.ID, admin.ID, student.ID, true); err != nil {
		t.Errorf("SetMemberRole() repeat failed: %v", err)
	}

	// a secondary admin cannot change roles; only the admin can
	other := testutil.CreateUser(t, usrRepo, "Carol", "carol@test.cd")
	testutil.JoinClassroom(t, svc, room, other.ID)
	if _, err = svc.SetMemberRole(ctx, room.ID, student.ID, other.ID, true); err != classroom.ErrPermissionDenied {
		t.Errorf("SetMemberRole() by secondary admin err = %v; want ErrPermissionDenied", err)
	}

	// the admin is not a valid target
	if _, err = svc.SetMemberRole(ctx, room.ID, admin.ID, admin.ID, false); err != classroom.ErrInvalidTarget {
		t.Errorf("SetMemberRole() on admin err = %v; want ErrInvalidTarget", err)
	}

	// demote
	got, err = svc.SetMemberRole(ctx, room.ID, admin.ID, student.ID, false)
	if err != nil {
		t.Fatalf("SetMemberRole() demote failed: %v", err)
	}
	role, _ = svc.RoleOf(ctx, room.ID, student.ID)
	if role != classroom.RoleStudent {
		t.Errorf("demoted role = %q; want %q", role, classroom.RoleStudent)
	}
	if len(got.SecondaryAdminIDs) != 0 {
		t.Errorf("SecondaryAdminIDs after demote = %v; want empty", got.SecondaryAdminIDs)
	}
}

func Test_Service_RemoveMember(t *testing.T) {
	svc, db := setup(t)
	ctx := context.Background()
	usrRepo := inmemdb.NewUserRepository(db)
	admin := testutil.CreateUser(t, usrRepo, "Alice", "alice@test.cd")
	secondary := testutil.CreateUser(t, usrRepo, "Bob", "bob@test.cd")
	student := testutil.CreateUser(t, usrRepo, "Carol", "carol@test.cd")
	room := testutil.CreateClassroom(t, svc, admin.ID, "Physics 101")
	testutil.JoinClassroom(t, svc, room, secondary.ID)
	testutil.JoinClassroom(t, svc, room, student.ID)
	if _, err := svc.SetMemberRole(ctx, room.ID, admin.ID, secondary.ID, true); err != nil {
		t.Fatalf("SetMemberRole() failed: %v", err)
	}

	// a student cannot remove anyone
	if _, err := svc.RemoveMember(ctx, room.ID, student.ID, secondary.ID); err != classroom.ErrPermissionDenied {
		t.Errorf("RemoveMember() by student err = %v; want ErrPermissionDenied", err)
	}

	// nobody removes the admin
	if _, err := svc.RemoveMember(ctx, room.ID, secondary.ID, admin.ID); err != classroom.ErrInvalidTarget {
		t.Errorf("RemoveMember() on admin err = %v; want ErrInvalidTarget", err)
	}

	// a secondary admin may remove a student
	got, err := svc.RemoveMember(ctx, room.ID, secondary.ID, student.ID)
	if err != nil {
		t.Fatalf("RemoveMember() failed: %v", err)
	}
	if len(got.StudentIDs) != 0 {
		t.Errorf("StudentIDs = %v; want empty", got.StudentIDs)
	}
}

func Test_Service_Delete(t *testing.T) {
	svc, db := setup(t)
	ctx := context.Background()
	usrRepo := inmemdb.NewUserRepository(db)
	admin := testutil.CreateUser(t, usrRepo, "Alice", "alice@test.cd")
	secondary := testutil.CreateUser(t, usrRepo, "Bob", "bob@test.cd")
	room := testutil.CreateClassroom(t, svc, admin.ID, "Physics 101")
	testutil.JoinClassroom(t, svc, room, secondary.ID)
	if _, err := svc.SetMemberRole(ctx, room.ID, admin.ID, secondary.ID, true); err != nil {
		t.Fatalf("SetMemberRole() failed: %v", err)
	}

	// elevated is not enough; only the admin deletes
	if err := svc.Delete(ctx, room.ID, secondary.ID); err != classroom.ErrPermissionDenied {
		t.Errorf("Delete() by secondary admin err = %v; want ErrPermissionDenied", err)
	}

	if err := svc.Delete(ctx, room.ID, admin.ID); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if _, err := svc.Get(ctx, room.ID, admin.ID); err == nil {
		t.Error("Get() after delete succeeded; want error")
	}
}

func Test_Service_QueryByMember(t *testing.T) {
	svc, db := setup(t)
	ctx := context.Background()
	usrRepo := inmemdb.NewUserRepository(db)
	admin := testutil.CreateUser(t, usrRepo, "Alice", "alice@test.cd")
	student := testutil.CreateUser(t, usrRepo, "Bob", "bob@test.cd")

	zoology := testutil.CreateClassroom(t, svc, admin.ID, "Zoology")
	algebra := testutil.CreateClassroom(t, svc, admin.ID, "Algebra")
	testutil.JoinClassroom(t, svc, algebra, student.ID)

	rooms, err := svc.QueryByMember(ctx, admin.ID)
	if err != nil {
		t.Fatalf("QueryByMember() failed: %v", err)
	}
	if len(rooms) != 2 {
		t.Fatalf("QueryByMember() returned %d rooms; want 2", len(rooms))
	}
	// ordered by name
	if rooms[0].ID != algebra.ID || rooms[1].ID != zoology.ID {
		t.Errorf("QueryByMember() order = [%s %s]; want [Algebra Zoology]", rooms[0].Name, rooms[1].Name)
	}

	rooms, err = svc.QueryByMember(ctx, student.ID)
	if err != nil {
		t.Fatalf("QueryByMember() failed: %v", err)
	}
	if len(rooms) != 1 || rooms[0].ID != algebra.ID {
		t.Errorf("QueryByMember(student) = %v; want just Algebra", rooms)
	}
}
