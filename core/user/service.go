package user

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/darasa/darasa/core"
)

var (
	// errors
	ErrNotFound = errors.New("user not found")
)

type (
	Repository interface {
		CreateUser(ctx context.Context, usr User) (User, error)
		GetUserByID(ctx context.Context, id string) (User, error)
		GetUserByEmail(ctx context.Context, email string) (User, error)
		// QueryUsersByID fetches the given users in one go; unknown ids are skipped.
		QueryUsersByID(ctx context.Context, ids ...string) ([]User, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Register records a caller identity, upserting by email.
func (svc *Service) Register(ctx context.Context, nu NewUser) (User, error) {
	if usr, err := svc.repo.GetUserByEmail(ctx, nu.Email); err == nil {
		return usr, nil
	} else if err != ErrNotFound {
		return User{}, err
	}

	usr := User{
		ID:        uuid.New().String(),
		Name:      nu.Name,
		Email:     nu.Email,
		CreatedAt: time.Now().UTC(),
	}
	return svc.repo.CreateUser(ctx, usr)
}

func (svc *Service) GetByID(ctx context.Context, id string) (User, error) {
	return svc.repo.GetUserByID(ctx, id)
}

func (svc *Service) GetByEmail(ctx context.Context, email string) (User, error) {
	return svc.repo.GetUserByEmail(ctx, core.CleanString(email, true /* lower */))
}

func (svc *Service) QueryByID(ctx context.Context, ids ...string) ([]User, error) {
	return svc.repo.QueryUsersByID(ctx, ids...)
}
