package auth

import (
	"log/slog"
	"strings"
	"time"

	userDatamodel "github.com/alraedsec/work-management/internal/core/datamodel/user"
	"golang.org/x/crypto/bcrypt"
)

const MinPasswordLength = 6

type RepositoryAPI interface {
	GetByIdentifier(identifier string) (*userDatamodel.User, error)
	GetByID(userID int64) (*userDatamodel.User, error)
	ExistsByUsername(username string) (bool, error)
	Create(u *userDatamodel.User) error
	UpdatePassword(userID int64, passwordHash string) error
	UpdateStatus(userID int64, status string) error
}

type Service struct {
	repo               RepositoryAPI
	tokenGenerator     TokenGeneratorAPI
	logger             *slog.Logger
	bcryptCost         int
	tempPasswordLength int
}

func NewService(repo RepositoryAPI, tokenGen TokenGeneratorAPI, logger *slog.Logger, bcryptCost, tempPasswordLength int) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	if tempPasswordLength == 0 {
		tempPasswordLength = DefaultTempPasswordLength
	}
	return &Service{
		repo:               repo,
		tokenGenerator:     tokenGen,
		logger:             logger,
		bcryptCost:         bcryptCost,
		tempPasswordLength: tempPasswordLength,
	}
}

// Authenticate validates credentials and returns session tokens. Any lookup
// or comparison failure collapses into ErrInvalidCredentials so the caller
// cannot distinguish unknown users from wrong passwords. Account status is
// only consulted after the credentials themselves verify.
func (s *Service) Authenticate(dto LoginDTO) (AuthTokens, error) {
	if err := dto.Validate(); err != nil {
		return AuthTokens{}, err
	}

	u, err := s.repo.GetByIdentifier(dto.Identifier)
	if err != nil {
		s.logger.Warn("authentication lookup failed", "identifier", dto.Identifier)
		return AuthTokens{}, ErrInvalidCredentials
	}

	if err := VerifyPassword(u.PasswordHash, dto.Password); err != nil {
		s.logger.Warn("password mismatch", "user_id", u.ID)
		return AuthTokens{}, ErrInvalidCredentials
	}

	// Accounts predating the approval workflow have no status and remain
	// immediately usable.
	switch u.Status {
	case StatusPending:
		return AuthTokens{}, ErrAccountPending
	case StatusRejected:
		return AuthTokens{}, ErrAccountRejected
	case StatusActive, "":
	default:
		return AuthTokens{}, ErrInvalidCredentials
	}

	role := ParseRole(u.Role)

	accessToken, err := s.tokenGenerator.GenerateAccessToken(u.ID, u.FullName, role)
	if err != nil {
		return AuthTokens{}, err
	}

	refreshToken, err := s.tokenGenerator.GenerateRefreshToken(u.ID, u.FullName, role)
	if err != nil {
		return AuthTokens{}, err
	}

	s.logger.Info("user authenticated", "user_id", u.ID, "role", role)

	return AuthTokens{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Name:         u.FullName,
		Role:         role,
	}, nil
}

// Register creates a pending account with a generated temporary password.
// The username pre-check mirrors the legacy behavior; the unique index on
// username is what actually closes the duplicate race.
func (s *Service) Register(dto RegisterDTO) (*RegisteredUser, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	username := strings.TrimSpace(dto.Username)

	exists, err := s.repo.ExistsByUsername(username)
	if err != nil {
		s.logger.Error("duplicate pre-check failed", "error", err, "username", username)
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateIdentifier
	}

	tempPassword, err := GenerateTempPassword(s.tempPasswordLength)
	if err != nil {
		s.logger.Error("temp password generation failed", "error", err)
		return nil, err
	}

	hash, err := HashPassword(tempPassword, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	u := &userDatamodel.User{
		Username:     username,
		FullName:     strings.TrimSpace(dto.FullName),
		PasswordHash: hash,
		Role:         string(RoleStaff),
		Status:       StatusPending,
		Email:        dto.Email,
		Phone:        dto.Phone,
		Department:   dto.Department,
		Position:     dto.Position,
		Notes:        dto.Notes,
		RequestedAt:  &now,
	}

	if err := s.repo.Create(u); err != nil {
		// A concurrent signup that slipped past the pre-check lands here via
		// the unique index.
		if isUniqueViolation(err) {
			return nil, ErrDuplicateIdentifier
		}
		s.logger.Error("failed to create user", "error", err, "username", username)
		return nil, err
	}

	s.logger.Info("user registered", "user_id", u.ID, "username", username)

	return &RegisteredUser{
		ID:           u.ID,
		Username:     u.Username,
		FullName:     u.FullName,
		Status:       u.Status,
		TempPassword: tempPassword,
	}, nil
}

func (s *Service) RefreshTokens(refreshToken string) (AuthTokens, error) {
	claims, err := s.tokenGenerator.ValidateToken(refreshToken)
	if err != nil {
		return AuthTokens{}, err
	}

	role := ParseRole(claims.Role)

	accessToken, err := s.tokenGenerator.GenerateAccessToken(claims.UserID, claims.Name, role)
	if err != nil {
		return AuthTokens{}, err
	}

	newRefreshToken, err := s.tokenGenerator.GenerateRefreshToken(claims.UserID, claims.Name, role)
	if err != nil {
		return AuthTokens{}, err
	}

	return AuthTokens{
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
		Name:         claims.Name,
		Role:         role,
	}, nil
}

func (s *Service) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.tokenGenerator.ValidateToken(tokenString)
}

// ChangePassword re-reads the stored hash, verifies the supplied current
// password against it, and only then overwrites. Minimum length is the only
// password rule enforced anywhere in the system.
func (s *Service) ChangePassword(userID int64, dto ChangePasswordDTO) error {
	if err := dto.Validate(); err != nil {
		return err
	}
	if len(dto.NewPassword) < MinPasswordLength {
		return ErrPasswordTooShort
	}

	u, err := s.repo.GetByID(userID)
	if err != nil {
		return ErrUserNotFound
	}

	if err := VerifyPassword(u.PasswordHash, dto.CurrentPassword); err != nil {
		s.logger.Warn("change password rejected", "user_id", userID)
		return ErrWrongCurrentPassword
	}

	hash, err := HashPassword(dto.NewPassword, s.bcryptCost)
	if err != nil {
		return err
	}

	if err := s.repo.UpdatePassword(userID, hash); err != nil {
		s.logger.Error("failed to update password", "error", err, "user_id", userID)
		return err
	}

	s.logger.Info("password changed", "user_id", userID)
	return nil
}

// Approve moves a pending or rejected account to active. Approving an
// already-active account is a no-op; no terminal state is truly terminal.
func (s *Service) Approve(userID int64) error {
	u, err := s.repo.GetByID(userID)
	if err != nil {
		return ErrUserNotFound
	}

	if u.Status == StatusActive {
		return nil
	}

	if err := s.repo.UpdateStatus(userID, StatusActive); err != nil {
		s.logger.Error("failed to approve user", "error", err, "user_id", userID)
		return err
	}

	s.logger.Info("user approved", "user_id", userID, "previous_status", u.Status)
	return nil
}

// Reject moves a pending account to rejected.
func (s *Service) Reject(userID int64) error {
	u, err := s.repo.GetByID(userID)
	if err != nil {
		return ErrUserNotFound
	}

	if u.Status != StatusPending {
		return ErrInvalidStatusChange
	}

	if err := s.repo.UpdateStatus(userID, StatusRejected); err != nil {
		s.logger.Error("failed to reject user", "error", err, "user_id", userID)
		return err
	}

	s.logger.Info("user rejected", "user_id", userID)
	return nil
}

// ResetPassword generates and stores a fresh temporary password, returning
// it once to the administrator.
func (s *Service) ResetPassword(userID int64) (string, error) {
	if _, err := s.repo.GetByID(userID); err != nil {
		return "", ErrUserNotFound
	}

	tempPassword, err := GenerateTempPassword(s.tempPasswordLength)
	if err != nil {
		return "", err
	}

	hash, err := HashPassword(tempPassword, s.bcryptCost)
	if err != nil {
		return "", err
	}

	if err := s.repo.UpdatePassword(userID, hash); err != nil {
		s.logger.Error("failed to reset password", "error", err, "user_id", userID)
		return "", err
	}

	s.logger.Info("password reset", "user_id", userID)
	return tempPassword, nil
}

func isUniqueViolation(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate")
}
