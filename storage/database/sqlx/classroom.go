package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/darasa/darasa/core/classroom"
)

type classroomRepository struct {
	db *sqlx.DB
}

func NewClassroomRepository(db *sqlx.DB) classroom.Repository {
	return &classroomRepository{db: db}
}

func (repo *classroomRepository) CreateClassroom(ctx context.Context, room classroom.Classroom) (classroom.Classroom, error) {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return classroom.Classroom{}, err
	}
	defer func() { _ = tx.Rollback() }()

	const q = `
INSERT INTO classroom (id, name, description, join_link, created_at, updated_at)
VALUES (:id, :name, :description, :join_link, :created_at, :updated_at)`
	if _, err = tx.NamedExecContext(ctx, q, room); err != nil {
		return classroom.Classroom{}, err
	}

	const mq = `INSERT INTO classroom_member (classroom_id, user_id, role) VALUES ($1, $2, $3)`
	if _, err = tx.ExecContext(ctx, mq, room.ID, room.AdminID, classroom.RoleAdmin); err != nil {
		return classroom.Classroom{}, err
	}

	if err = tx.Commit(); err != nil {
		return classroom.Classroom{}, errors.Wrap(err, "creating classroom")
	}
	return room, nil
}

func (repo *classroomRepository) GetClassroomByID(ctx context.Context, id string) (classroom.Classroom, error) {
	const q = `SELECT * FROM classroom WHERE id = $1`
	var room classroom.Classroom
	if err := repo.db.GetContext(ctx, &room, q, id); err != nil {
		if err == sql.ErrNoRows {
			return classroom.Classroom{}, classroom.ErrNotFound
		}
		return classroom.Classroom{}, err
	}
	return repo.loadMembers(ctx, room)
}

func (repo *classroomRepository) GetClassroomByJoinLink(ctx context.Context, link string) (classroom.Classroom, error) {
	const q = `SELECT * FROM classroom WHERE join_link = $1`
	var room classroom.Classroom
	if err := repo.db.GetContext(ctx, &room, q, link); err != nil {
		if err == sql.ErrNoRows {
			return classroom.Classroom{}, classroom.ErrNotFound
		}
		return classroom.Classroom{}, err
	}
	return repo.loadMembers(ctx, room)
}

func (repo *classroomRepository) QueryClassroomsByMember(ctx context.Context, userID string) ([]classroom.Classroom, error) {
	const q = `
SELECT c.* FROM classroom c
JOIN classroom_member m ON m.classroom_id = c.id
WHERE m.user_id = $1
ORDER BY c.name`
	rooms := make([]classroom.Classroom, 0)
	if err := repo.db.SelectContext(ctx, &rooms, q, userID); err != nil {
		return nil, err
	}
	for i, room := range rooms {
		loaded, err := repo.loadMembers(ctx, room)
		if err != nil {
			return nil, err
		}
		rooms[i] = loaded
	}
	return rooms, nil
}

func (repo *classroomRepository) UpdateClassroom(ctx context.Context, room classroom.Classroom) (classroom.Classroom, error) {
	const q = `
UPDATE classroom
SET name = :name, description = :description, updated_at = :updated_at
WHERE id = :id`
	res, err := repo.db.NamedExecContext(ctx, q, room)
	if err != nil {
		return classroom.Classroom{}, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return classroom.Classroom{}, classroom.ErrNotFound
	}
	return room, nil
}

func (repo *classroomRepository) DeleteClassroom(ctx context.Context, id string) error {
	// scoped rows go with it via ON DELETE CASCADE
	const q = `DELETE FROM classroom WHERE id = $1`
	res, err := repo.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return classroom.ErrNotFound
	}
	return nil
}

func (repo *classroomRepository) GetMemberRole(ctx context.Context, classroomID, userID string) (classroom.Role, error) {
	const q = `SELECT role FROM classroom_member WHERE classroom_id = $1 AND user_id = $2`
	var role classroom.Role
	if err := repo.db.GetContext(ctx, &role, q, classroomID, userID); err != nil {
		if err == sql.ErrNoRows {
			return classroom.RoleNonMember, nil
		}
		return classroom.RoleNonMember, err
	}
	return role, nil
}

func (repo *classroomRepository) AddMember(ctx context.Context, classroomID, userID string, role classroom.Role) error {
	const q = `INSERT INTO classroom_member (classroom_id, user_id, role) VALUES ($1, $2, $3)`
	if _, err := repo.db.ExecContext(ctx, q, classroomID, userID, role); err != nil {
		if isUniqueViolation(err, "classroom_member_pkey") {
			return classroom.ErrAlreadyMember
		}
		return err
	}
	return nil
}

func (repo *classroomRepository) SetMemberRole(ctx context.Context, classroomID, userID string, role classroom.Role) error {
	const q = `UPDATE classroom_member SET role = $3 WHERE classroom_id = $1 AND user_id = $2`
	res, err := repo.db.ExecContext(ctx, q, classroomID, userID, role)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return classroom.ErrNotMember
	}
	return nil
}

func (repo *classroomRepository) RemoveMember(ctx context.Context, classroomID, userID string) error {
	const q = `DELETE FROM classroom_member WHERE classroom_id = $1 AND user_id = $2`
	res, err := repo.db.ExecContext(ctx, q, classroomID, userID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return classroom.ErrNotMember
	}
	return nil
}

func (repo *classroomRepository) loadMembers(ctx context.Context, room classroom.Classroom) (classroom.Classroom, error) {
	const q = `SELECT user_id, role FROM classroom_member WHERE classroom_id = $1`
	var members []struct {
		UserID string         `db:"user_id"`
		Role   classroom.Role `db:"role"`
	}
	if err := repo.db.SelectContext(ctx, &members, q, room.ID); err != nil {
		return classroom.Classroom{}, err
	}

	room.SecondaryAdminIDs = make([]string, 0)
	room.StudentIDs = make([]string, 0)
	for _, m := range members {
		switch m.Role {
		case classroom.RoleAdmin:
			room.AdminID = m.UserID
		case classroom.RoleSecondaryAdmin:
			room.SecondaryAdminIDs = append(room.SecondaryAdminIDs, m.UserID)
		case classroom.RoleStudent:
			room.StudentIDs = append(room.StudentIDs, m.UserID)
		}
	}
	return room, nil
}
