package postgres

import (
	"github.com/alraedsec/work-management/internal/auth"
	userDatamodel "github.com/alraedsec/work-management/internal/core/datamodel/user"
	"gorm.io/gorm"
)

// UserRepository implements the user.RepositoryAPI interface using GORM.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(userID int64) (*userDatamodel.User, error) {
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

func (r *UserRepository) GetAll() ([]*userDatamodel.User, error) {
	var users []*userDatamodel.User
	err := r.db.Order("full_name ASC").Find(&users).Error
	return users, err
}

func (r *UserRepository) GetActive() ([]*userDatamodel.User, error) {
	var users []*userDatamodel.User
	err := r.db.Where("status = ? OR status = ''", auth.StatusActive).
		Order("full_name ASC").
		Find(&users).Error
	return users, err
}

func (r *UserRepository) ExistsByUsername(username string) (bool, error) {
	var count int64
	err := r.db.Model(&userDatamodel.User{}).
		Where("LOWER(username) = LOWER(?)", username).
		Count(&count).Error
	return count > 0, err
}

func (r *UserRepository) Create(u *userDatamodel.User) error {
	return r.db.Create(u).Error
}

func (r *UserRepository) Delete(userID int64) error {
	return r.db.Delete(&userDatamodel.User{}, userID).Error
}
