package usecase

import (
	"chatwire/internal/entity"
	"chatwire/internal/repository"
	"context"
)

type UserUsecase interface {
	Get(ctx context.Context, userId string) (entity.User, error)
	ListContacts(ctx context.Context, userId string) ([]entity.User, error)
}

type userUsecase struct {
	userRepo repository.UserRepository
}

func NewUserUseCase(userRepo repository.UserRepository) UserUsecase {
	return &userUsecase{
		userRepo: userRepo,
	}
}

func (u *userUsecase) Get(ctx context.Context, userId string) (entity.User, error) {
	user, err := u.userRepo.Get(ctx, userId)
	if err != nil {
		return entity.User{}, err
	}

	return user, nil
}

// ListContacts returns every user except userId.
func (u *userUsecase) ListContacts(ctx context.Context, userId string) ([]entity.User, error) {
	users, err := u.userRepo.ListExcept(ctx, userId)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []entity.User{}
	}

	return users, nil
}
