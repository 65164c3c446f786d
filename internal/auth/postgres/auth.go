package postgres

import (
	"github.com/alraedsec/work-management/internal/auth"
	userDatamodel "github.com/alraedsec/work-management/internal/core/datamodel/user"
	"gorm.io/gorm"
)

// Repository implements auth.RepositoryAPI using GORM.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetByIdentifier looks the user up by username, falling back to full name
// for legacy clients. Both matches are case-insensitive.
func (r *Repository) GetByIdentifier(identifier string) (*userDatamodel.User, error) {
	var u userDatamodel.User
	err := r.db.Where("LOWER(username) = LOWER(?)", identifier).First(&u).Error
	if err == nil {
		return &u, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	err = r.db.Where("LOWER(full_name) = LOWER(?)", identifier).First(&u).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, auth.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *Repository) GetByID(userID int64) (*userDatamodel.User, error) {
	var u userDatamodel.User
	err := r.db.Where("id = ?", userID).First(&u).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, auth.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *Repository) ExistsByUsername(username string) (bool, error) {
	var count int64
	err := r.db.Model(&userDatamodel.User{}).
		Where("LOWER(username) = LOWER(?)", username).
		Count(&count).Error
	return count > 0, err
}

func (r *Repository) Create(u *userDatamodel.User) error {
	return r.db.Create(u).Error
}

func (r *Repository) UpdatePassword(userID int64, passwordHash string) error {
	return r.db.Model(&userDatamodel.User{}).
		Where("id = ?", userID).
		Update("password_hash", passwordHash).Error
}

func (r *Repository) UpdateStatus(userID int64, status string) error {
	return r.db.Model(&userDatamodel.User{}).
		Where("id = ?", userID).
		Update("status", status).Error
}
