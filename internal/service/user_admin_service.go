package service

import (
	"context"

	"github.com/sponza-next/internal/cache"
	"github.com/sponza-next/internal/constants"
	"github.com/sponza-next/internal/models"
	"github.com/sponza-next/internal/repository"
)

// UserAdminService admin-side user management
type UserAdminService struct {
	userRepo repository.UserRepository
}

// NewUserAdminService creates the user admin service
func NewUserAdminService(userRepo repository.UserRepository) *UserAdminService {
	return &UserAdminService{userRepo: userRepo}
}

// List queries users
func (s *UserAdminService) List(filter repository.UserListFilter) ([]models.User, int64, error) {
	return s.userRepo.List(filter)
}

// Get fetches a user
func (s *UserAdminService) Get(userID uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	return user, nil
}

// SetStatus enables or disables accounts. Disabling also revokes every
// outstanding token for the affected users.
func (s *UserAdminService) SetStatus(userIDs []uint, status string) error {
	if status != constants.UserStatusActive && status != constants.UserStatusDisabled {
		return ErrInvalidStatusChange
	}
	if len(userIDs) == 0 {
		return nil
	}
	if err := s.userRepo.BatchUpdateStatus(userIDs, status); err != nil {
		return err
	}
	for _, id := range userIDs {
		_ = cache.DelUserAuthState(context.Background(), id)
	}
	return nil
}
