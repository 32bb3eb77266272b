package service

import (
	"github.com/csshost/csshost/internal/model"
	"github.com/csshost/csshost/internal/repository"
)

type UserService struct {
	userRepo    repository.UserRepository
	profileRepo repository.ProfileRepository
}

func NewUserService(userRepo repository.UserRepository, profileRepo repository.ProfileRepository) *UserService {
	return &UserService{
		userRepo:    userRepo,
		profileRepo: profileRepo,
	}
}

func (s *UserService) ByID(id string) (*model.User, error) {
	return s.userRepo.ByID(id)
}

// WithProfile loads a user together with its profile in one call, the shape
// the auth middleware needs on every request.
func (s *UserService) WithProfile(userID string) (*model.User, *model.Profile, error) {
	user, err := s.userRepo.ByID(userID)
	if err != nil {
		return nil, nil, err
	}
	profile, err := s.profileRepo.ByUserID(userID)
	if err != nil {
		return nil, nil, err
	}
	return user, profile, nil
}
