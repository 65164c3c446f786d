package cmd

import (
	"fmt"
	"log"

	"github.com/alraedsec/work-management/internal/auth"
	userDatamodel "github.com/alraedsec/work-management/internal/core/datamodel/user"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample accounts for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		db, _, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}

		if clearData {
			for _, table := range []string{"file_blobs", "task_files", "followups", "tasks", "users"} {
				if err := db.Exec("DELETE FROM " + table).Error; err != nil {
					log.Fatalf("failed to clear %s: %v", table, err)
				}
			}
			fmt.Println("Cleared existing data")
		}

		hash, _ := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)

		seedUser(db, &userDatamodel.User{
			Username:     "admin",
			FullName:     "Operations Manager",
			PasswordHash: string(hash),
			Role:         string(auth.RoleAdmin),
			Status:       string(auth.StatusActive),
			Department:   "Management",
			Position:     "Manager",
		})

		seedUser(db, &userDatamodel.User{
			Username:     "guard1",
			FullName:     "Ahmed Hassan",
			PasswordHash: string(hash),
			Role:         string(auth.RoleStaff),
			Status:       string(auth.StatusActive),
			Department:   "Field Operations",
			Position:     "Security Guard",
		})

		seedUser(db, &userDatamodel.User{
			Username:     "dispatcher1",
			FullName:     "Sara Khalid",
			PasswordHash: string(hash),
			Role:         string(auth.RoleStaff),
			Status:       string(auth.StatusActive),
			Department:   "Control Room",
			Position:     "Dispatcher",
		})

		fmt.Println("Seed accounts ready; default password is \"password\"")
	},
}

func seedUser(db *gorm.DB, u *userDatamodel.User) {
	var count int64
	if err := db.Model(&userDatamodel.User{}).
		Where("LOWER(username) = LOWER(?)", u.Username).
		Count(&count).Error; err != nil {
		log.Fatalf("failed to check user %s: %v", u.Username, err)
	}
	if count > 0 {
		fmt.Printf("user %s already exists, skipping\n", u.Username)
		return
	}

	if err := db.Create(u).Error; err != nil {
		log.Fatalf("failed to seed user %s: %v", u.Username, err)
	}
	fmt.Printf("Seeded user: %s (%s)\n", u.Username, u.Role)
}
