package user

import "time"

// User maps the users table. Username is the login key; the unique index is
// what makes concurrent duplicate signups fail closed instead of producing
// two rows.
type User struct {
	ID           int64      `gorm:"primaryKey"`
	Username     string     `gorm:"column:username;uniqueIndex;not null"`
	FullName     string     `gorm:"column:full_name;not null"`
	PasswordHash string     `gorm:"column:password_hash;not null"`
	Role         string     `gorm:"column:role;not null;default:staff"`
	Status       string     `gorm:"column:status;not null;default:pending"`
	Email        string     `gorm:"column:email"`
	Phone        string     `gorm:"column:phone"`
	Department   string     `gorm:"column:department"`
	Position     string     `gorm:"column:position"`
	Notes        string     `gorm:"column:notes"`
	RequestedAt  *time.Time `gorm:"column:requested_at"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	UpdatedAt    time.Time  `gorm:"column:updated_at"`
}

func (User) TableName() string {
	return "users"
}
