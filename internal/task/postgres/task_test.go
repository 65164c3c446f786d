package postgres_test

import (
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	taskDatamodel "github.com/alraedsec/work-management/internal/core/datamodel/task"
	"github.com/alraedsec/work-management/internal/task"
	taskPostgres "github.com/alraedsec/work-management/internal/task/postgres"
)

func TestTaskPostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Task Postgres Suite")
}

// SQLiteTask is a SQLite-compatible model for testing
type SQLiteTask struct {
	ID           int64     `gorm:"primaryKey"`
	Title        string    `gorm:"column:title;not null"`
	AssigneeID   int64     `gorm:"column:assignee_id;index"`
	AssigneeName string    `gorm:"column:assignee_name;not null"`
	Deadline     string    `gorm:"column:deadline"`
	Priority     string    `gorm:"column:priority;default:Medium"`
	Status       string    `gorm:"column:status;default:Pending"`
	CreatedBy    string    `gorm:"column:created_by"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (SQLiteTask) TableName() string {
	return "tasks"
}

var _ = Describe("Task PostgreSQL Repository", func() {
	var (
		db   *gorm.DB
		repo task.RepositoryAPI
	)

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())

		Expect(db.AutoMigrate(&SQLiteTask{})).To(Succeed())

		repo = taskPostgres.NewTaskRepository(db)
	})

	seed := func(title, assignee, priority, status string) *taskDatamodel.Task {
		t := &taskDatamodel.Task{
			Title:        title,
			AssigneeName: assignee,
			Priority:     priority,
			Status:       status,
		}
		Expect(repo.Create(t)).To(Succeed())
		return t
	}

	Describe("GetByAssigneeName", func() {
		It("should match names regardless of case", func() {
			seed("patrol", "Ahmed Hassan", "High", "Pending")
			seed("report", "AHMED HASSAN", "Low", "Pending")
			seed("other", "Sara Khalid", "Medium", "Pending")

			tasks, err := repo.GetByAssigneeName("ahmed hassan")
			Expect(err).NotTo(HaveOccurred())
			Expect(tasks).To(HaveLen(2))
		})
	})

	Describe("GetByID", func() {
		It("should report missing rows as not found", func() {
			_, err := repo.GetByID(12345)
			Expect(err).To(MatchError(task.ErrTaskNotFound))
		})
	})

	Describe("UpdatePriority", func() {
		It("should change only the priority", func() {
			created := seed("patrol", "Ahmed Hassan", "Medium", "Pending")

			Expect(repo.UpdatePriority(created.ID, "High")).To(Succeed())

			found, err := repo.GetByID(created.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(found.Priority).To(Equal("High"))
			Expect(found.Status).To(Equal("Pending"))
		})
	})

	Describe("UpdateStatus", func() {
		It("should persist completion", func() {
			created := seed("patrol", "Ahmed Hassan", "Medium", "Pending")

			Expect(repo.UpdateStatus(created.ID, "Finished")).To(Succeed())

			found, err := repo.GetByID(created.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(found.Status).To(Equal("Finished"))
		})
	})

	Describe("Delete", func() {
		It("should remove the row", func() {
			created := seed("patrol", "Ahmed Hassan", "Medium", "Pending")

			Expect(repo.Delete(created.ID)).To(Succeed())

			_, err := repo.GetByID(created.ID)
			Expect(err).To(MatchError(task.ErrTaskNotFound))
		})
	})
})
