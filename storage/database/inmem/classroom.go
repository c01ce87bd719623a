package inmemdb

import (
	"context"
	"sort"

	"github.com/darasa/darasa/core/classroom"
)

type classroomRepository struct {
	db *DB
}

func NewClassroomRepository(db *DB) classroom.Repository {
	return &classroomRepository{db: db}
}

func (repo *classroomRepository) CreateClassroom(_ context.Context, room classroom.Classroom) (classroom.Classroom, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.classrooms[room.ID] = room
	repo.db.members[room.ID] = map[string]classroom.Role{room.AdminID: classroom.RoleAdmin}
	return repo.withMembers(room), nil
}

func (repo *classroomRepository) GetClassroomByID(_ context.Context, id string) (classroom.Classroom, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if room, ok := repo.db.classrooms[id]; ok {
		return repo.withMembers(room), nil
	}
	return classroom.Classroom{}, classroom.ErrNotFound
}

func (repo *classroomRepository) GetClassroomByJoinLink(_ context.Context, link string) (classroom.Classroom, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, room := range repo.db.classrooms {
		if room.JoinLink == link {
			return repo.withMembers(room), nil
		}
	}
	return classroom.Classroom{}, classroom.ErrNotFound
}

func (repo *classroomRepository) QueryClassroomsByMember(_ context.Context, userID string) ([]classroom.Classroom, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	rooms := make([]classroom.Classroom, 0)
	for id, members := range repo.db.members {
		if _, ok := members[userID]; ok {
			rooms = append(rooms, repo.withMembers(repo.db.classrooms[id]))
		}
	}
	sort.Slice(rooms, func(i, j int) bool { return rooms[i].Name < rooms[j].Name })
	return rooms, nil
}

func (repo *classroomRepository) UpdateClassroom(_ context.Context, room classroom.Classroom) (classroom.Classroom, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	orig, ok := repo.db.classrooms[room.ID]
	if !ok {
		return classroom.Classroom{}, classroom.ErrNotFound
	}
	orig.Name = room.Name
	orig.Description = room.Description
	orig.UpdatedAt = room.UpdatedAt
	repo.db.classrooms[room.ID] = orig
	return repo.withMembers(orig), nil
}

func (repo *classroomRepository) DeleteClassroom(_ context.Context, id string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.classrooms[id]; !ok {
		return classroom.ErrNotFound
	}
	delete(repo.db.classrooms, id)
	delete(repo.db.members, id)

	// cascade
	for asgID, asg := range repo.db.assignments {
		if asg.ClassroomID != id {
			continue
		}
		delete(repo.db.assignments, asgID)
		for subID, sub := range repo.db.submissions {
			if sub.AssignmentID == asgID {
				delete(repo.db.submissions, subID)
			}
		}
	}
	for recID, rec := range repo.db.attendance {
		if rec.ClassroomID == id {
			delete(repo.db.attendance, recID)
		}
	}
	return nil
}

func (repo *classroomRepository) GetMemberRole(_ context.Context, classroomID, userID string) (classroom.Role, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if members, ok := repo.db.members[classroomID]; ok {
		if role, ok := members[userID]; ok {
			return role, nil
		}
	}
	return classroom.RoleNonMember, nil
}

func (repo *classroomRepository) AddMember(_ context.Context, classroomID, userID string, role classroom.Role) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	members, ok := repo.db.members[classroomID]
	if !ok {
		return classroom.ErrNotFound
	}
	if _, ok = members[userID]; ok {
		return classroom.ErrAlreadyMember
	}
	members[userID] = role
	return nil
}

func (repo *classroomRepository) SetMemberRole(_ context.Context, classroomID, userID string, role classroom.Role) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	members, ok := repo.db.members[classroomID]
	if !ok {
		return classroom.ErrNotFound
	}
	if _, ok = members[userID]; !ok {
		return classroom.ErrNotMember
	}
	members[userID] = role
	return nil
}

func (repo *classroomRepository) RemoveMember(_ context.Context, classroomID, userID string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	members, ok := repo.db.members[classroomID]
	if !ok {
		return classroom.ErrNotFound
	}
	if _, ok = members[userID]; !ok {
		return classroom.ErrNotMember
	}
	delete(members, userID)
	return nil
}

// withMembers fills the role projections; callers hold the lock.
func (repo *classroomRepository) withMembers(room classroom.Classroom) classroom.Classroom {
	room.SecondaryAdminIDs = make([]string, 0)
	room.StudentIDs = make([]string, 0)
	for userID, role := range repo.db.members[room.ID] {
		switch role {
		case classroom.RoleAdmin:
			room.AdminID = userID
		case classroom.RoleSecondaryAdmin:
			room.SecondaryAdminIDs = append(room.SecondaryAdminIDs, userID)
		case classroom.RoleStudent:
			room.StudentIDs = append(room.StudentIDs, userID)
		}
	}
	sort.Strings(room.SecondaryAdminIDs)
	sort.Strings(room.StudentIDs)
	return room
}
