package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/darasa/darasa/core/user"
)

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) user.Repository {
	return &userRepository{db: db}
}

func (repo *userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	const q = `
INSERT INTO "user" (id, name, email, created_at)
VALUES (:id, :name, :email, :created_at)`
	if _, err := repo.db.NamedExecContext(ctx, q, usr); err != nil {
		return user.User{}, err
	}
	return usr, nil
}

func (repo *userRepository) GetUserByID(ctx context.Context, id string) (user.User, error) {
	const q = `SELECT * FROM "user" WHERE id = $1`
	var usr user.User
	if err := repo.db.GetContext(ctx, &usr, q, id); err != nil {
		if err == sql.ErrNoRows {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, err
	}
	return usr, nil
}

func (repo *userRepository) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	const q = `SELECT * FROM "user" WHERE email = $1`
	var usr user.User
	if err := repo.db.GetContext(ctx, &usr, q, email); err != nil {
		if err == sql.ErrNoRows {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, err
	}
	return usr, nil
}

func (repo *userRepository) QueryUsersByID(ctx context.Context, ids ...string) ([]user.User, error) {
	users := make([]user.User, 0, len(ids))
	if len(ids) == 0 {
		return users, nil
	}

	q, args, err := sqlx.In(`SELECT * FROM "user" WHERE id IN (?)`, ids)
	if err != nil {
		return nil, err
	}
	q = repo.db.Rebind(q)
	if err = repo.db.SelectContext(ctx, &users, q, args...); err != nil {
		return nil, err
	}
	return users, nil
}
