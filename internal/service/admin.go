package service

import (
	"fmt"
	"log/slog"

	"github.com/csshost/csshost/internal/model"
	"github.com/csshost/csshost/internal/repository"
)

// AdminService backs the superadmin dashboard. Authorization happens once at
// the router boundary; these methods assume the caller is already an admin.
type AdminService struct {
	userRepo    repository.UserRepository
	profileRepo repository.ProfileRepository
	fileRepo    repository.FileRepository
}

func NewAdminService(userRepo repository.UserRepository, profileRepo repository.ProfileRepository, fileRepo repository.FileRepository) *AdminService {
	return &AdminService{
		userRepo:    userRepo,
		profileRepo: profileRepo,
		fileRepo:    fileRepo,
	}
}

// AdminUser is one row of the admin user table.
type AdminUser struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	Role        string `json:"role"`
	StorageUsed int64  `json:"storage_used"`
	Suspended   bool   `json:"suspended"`
	FileCount   int64  `json:"file_count"`
}

func (s *AdminService) Users() ([]*AdminUser, error) {
	profiles, err := s.profileRepo.All()
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}

	users := make([]*AdminUser, 0, len(profiles))
	for _, p := range profiles {
		row := &AdminUser{
			ID:          p.UserID,
			Role:        p.Role,
			StorageUsed: p.StorageUsed,
			Suspended:   p.Suspended,
		}

		user, err := s.userRepo.ByID(p.UserID)
		if err == nil {
			row.Email = user.Email
		} else {
			slog.Warn("profile without user row", "user_id", p.UserID, "error", err)
		}

		row.FileCount, err = s.fileRepo.CountByOwner(p.UserID)
		if err != nil {
			return nil, fmt.Errorf("failed to count files for %s: %w", p.UserID, err)
		}

		users = append(users, row)
	}

	return users, nil
}

// Files lists every record in the system, newest first.
func (s *AdminService) Files() ([]*model.File, error) {
	return s.fileRepo.All()
}

func (s *AdminService) SetSuspended(userID string, suspended bool) error {
	return s.profileRepo.SetSuspended(userID, suspended)
}

// Stats are the admin dashboard totals.
type Stats struct {
	Users       int64 `json:"users"`
	Files       int64 `json:"files"`
	BytesStored int64 `json:"bytes_stored"`
}

func (s *AdminService) Stats() (*Stats, error) {
	users, err := s.profileRepo.Count()
	if err != nil {
		return nil, err
	}
	files, err := s.fileRepo.Count()
	if err != nil {
		return nil, err
	}
	size, err := s.fileRepo.TotalSize()
	if err != nil {
		return nil, err
	}
	return &Stats{Users: users, Files: files, BytesStored: size}, nil
}
