package postgres_test

import (
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/alraedsec/work-management/internal/auth"
	authPostgres "github.com/alraedsec/work-management/internal/auth/postgres"
	userDatamodel "github.com/alraedsec/work-management/internal/core/datamodel/user"
)

func TestAuthPostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Auth Postgres Suite")
}

// SQLiteUser is a SQLite-compatible model for testing
type SQLiteUser struct {
	ID           int64      `gorm:"primaryKey"`
	Username     string     `gorm:"column:username;uniqueIndex;not null"`
	FullName     string     `gorm:"column:full_name;not null"`
	PasswordHash string     `gorm:"column:password_hash;not null"`
	Role         string     `gorm:"column:role;default:staff"`
	Status       string     `gorm:"column:status;default:pending"`
	Email        string     `gorm:"column:email"`
	Phone        string     `gorm:"column:phone"`
	Department   string     `gorm:"column:department"`
	Position     string     `gorm:"column:position"`
	Notes        string     `gorm:"column:notes"`
	RequestedAt  *time.Time `gorm:"column:requested_at"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	UpdatedAt    time.Time  `gorm:"column:updated_at"`
}

func (SQLiteUser) TableName() string {
	return "users"
}

var _ = Describe("Auth PostgreSQL Repository", func() {
	var (
		db   *gorm.DB
		repo auth.RepositoryAPI
	)

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())

		Expect(db.AutoMigrate(&SQLiteUser{})).To(Succeed())

		repo = authPostgres.NewRepository(db)
	})

	seed := func(username, fullName, status string) *userDatamodel.User {
		u := &userDatamodel.User{
			Username:     username,
			FullName:     fullName,
			PasswordHash: "hash",
			Role:         "staff",
			Status:       status,
		}
		Expect(repo.Create(u)).To(Succeed())
		return u
	}

	Describe("GetByIdentifier", func() {
		It("should match the username case-insensitively", func() {
			seed("rashid", "Rashid Al Amri", auth.StatusActive)

			found, err := repo.GetByIdentifier("RASHID")
			Expect(err).NotTo(HaveOccurred())
			Expect(found.FullName).To(Equal("Rashid Al Amri"))
		})

		It("should fall back to the full name", func() {
			seed("rashid", "Rashid Al Amri", auth.StatusActive)

			found, err := repo.GetByIdentifier("rashid al amri")
			Expect(err).NotTo(HaveOccurred())
			Expect(found.Username).To(Equal("rashid"))
		})

		It("should report unknown identifiers", func() {
			_, err := repo.GetByIdentifier("nobody")
			Expect(err).To(MatchError(auth.ErrUserNotFound))
		})
	})

	Describe("Create", func() {
		It("should fail the second insert of the same username", func() {
			seed("rashid", "Rashid Al Amri", auth.StatusActive)

			dup := &userDatamodel.User{
				Username:     "rashid",
				FullName:     "Someone Else",
				PasswordHash: "hash",
			}
			err := repo.Create(dup)
			Expect(err).To(HaveOccurred())

			var count int64
			Expect(db.Model(&SQLiteUser{}).Count(&count).Error).To(Succeed())
			Expect(count).To(Equal(int64(1)))
		})
	})

	Describe("ExistsByUsername", func() {
		It("should ignore case", func() {
			seed("rashid", "Rashid Al Amri", auth.StatusActive)

			exists, err := repo.ExistsByUsername("Rashid")
			Expect(err).NotTo(HaveOccurred())
			Expect(exists).To(BeTrue())

			exists, err = repo.ExistsByUsername("other")
			Expect(err).NotTo(HaveOccurred())
			Expect(exists).To(BeFalse())
		})
	})

	Describe("UpdateStatus", func() {
		It("should persist approval transitions", func() {
			u := seed("newguy", "Khalil Mansour", auth.StatusPending)

			Expect(repo.UpdateStatus(u.ID, auth.StatusActive)).To(Succeed())

			found, err := repo.GetByID(u.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(found.Status).To(Equal(auth.StatusActive))
		})
	})

	Describe("UpdatePassword", func() {
		It("should overwrite only the hash", func() {
			u := seed("rashid", "Rashid Al Amri", auth.StatusActive)

			Expect(repo.UpdatePassword(u.ID, "newhash")).To(Succeed())

			found, err := repo.GetByID(u.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(found.PasswordHash).To(Equal("newhash"))
			Expect(found.FullName).To(Equal("Rashid Al Amri"))
		})
	})
})
