package user

import (
	"log/slog"
	"strings"
	"time"

	"github.com/alraedsec/work-management/internal/auth"
	userDatamodel "github.com/alraedsec/work-management/internal/core/datamodel/user"
)

type RepositoryAPI interface {
	GetByID(userID int64) (*userDatamodel.User, error)
	GetAll() ([]*userDatamodel.User, error)
	GetActive() ([]*userDatamodel.User, error)
	ExistsByUsername(username string) (bool, error)
	Create(u *userDatamodel.User) error
	Delete(userID int64) error
}

type Service struct {
	repo               RepositoryAPI
	logger             *slog.Logger
	bcryptCost         int
	tempPasswordLength int
}

func NewService(repo RepositoryAPI, logger *slog.Logger, bcryptCost, tempPasswordLength int) *Service {
	return &Service{
		repo:               repo,
		logger:             logger,
		bcryptCost:         bcryptCost,
		tempPasswordLength: tempPasswordLength,
	}
}

func (s *Service) GetByID(userID int64) (*User, error) {
	u, err := s.repo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	return FromDataModel(u), nil
}

func (s *Service) ListUsers() ([]*User, error) {
	users, err := s.repo.GetAll()
	if err != nil {
		s.logger.Error("failed to list users", "error", err)
		return nil, err
	}
	return FromDataModelSlice(users), nil
}

// ListActiveUsers feeds the task assignment picker; only active accounts are
// assignable.
func (s *Service) ListActiveUsers() ([]*User, error) {
	users, err := s.repo.GetActive()
	if err != nil {
		s.logger.Error("failed to list active users", "error", err)
		return nil, err
	}
	return FromDataModelSlice(users), nil
}

// CreateUser is the administrator path: the account is active immediately
// and the caller receives the generated temporary password once.
func (s *Service) CreateUser(dto CreateUserDTO) (*CreatedUser, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	username := strings.TrimSpace(dto.Username)

	exists, err := s.repo.ExistsByUsername(username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, auth.ErrDuplicateIdentifier
	}

	tempPassword, err := auth.GenerateTempPassword(s.tempPasswordLength)
	if err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(tempPassword, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	dm := &userDatamodel.User{
		Username:     username,
		FullName:     strings.TrimSpace(dto.FullName),
		PasswordHash: hash,
		Role:         string(dto.NormalizedRole()),
		Status:       auth.StatusActive,
		Email:        dto.Email,
		Phone:        dto.Phone,
		Department:   dto.Department,
		Position:     dto.Position,
		RequestedAt:  &now,
	}

	if err := s.repo.Create(dm); err != nil {
		s.logger.Error("failed to create user", "error", err, "username", username)
		return nil, err
	}

	s.logger.Info("user created by admin", "user_id", dm.ID, "username", username, "role", dm.Role)

	return &CreatedUser{
		User:         FromDataModel(dm),
		TempPassword: tempPassword,
	}, nil
}

func (s *Service) DeleteUser(userID int64) error {
	if _, err := s.repo.GetByID(userID); err != nil {
		return err
	}

	if err := s.repo.Delete(userID); err != nil {
		s.logger.Error("failed to delete user", "error", err, "user_id", userID)
		return err
	}

	s.logger.Info("user deleted", "user_id", userID)
	return nil
}
