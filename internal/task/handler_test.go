package task_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"time"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/alraedsec/work-management/internal/auth"
	userDatamodel "github.com/alraedsec/work-management/internal/core/datamodel/user"
	"github.com/alraedsec/work-management/internal/core/events"
	"github.com/alraedsec/work-management/internal/task"
	taskPostgres "github.com/alraedsec/work-management/internal/task/postgres"
)

// SQLiteHandlerTask is a SQLite-compatible model for testing
type SQLiteHandlerTask struct {
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

func (SQLiteHandlerTask) TableName() string {
	return "tasks"
}

type staticDirectory map[int64]*userDatamodel.User

func (d staticDirectory) GetByID(userID int64) (*userDatamodel.User, error) {
	if u, ok := d[userID]; ok {
		return u, nil
	}
	return nil, errors.New("user not found")
}

var _ = Describe("Task Handler Integration", func() {
	var (
		db      *gorm.DB
		service *task.Service
		handler *task.Handler
		router  *chi.Mux

		admin = &auth.User{ID: 1, Name: "Operations Manager", Role: auth.RoleAdmin}
		staff = &auth.User{ID: 2, Name: "Ahmed Hassan", Role: auth.RoleStaff}
	)

	asUser := func(actor *auth.User) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				next.ServeHTTP(w, r.WithContext(auth.ContextWithUser(r.Context(), actor)))
			})
		}
	}

	buildRouter := func(actor *auth.User) *chi.Mux {
		r := chi.NewRouter()
		r.Use(asUser(actor))
		r.Route("/tasks", func(tr chi.Router) {
			tr.Post("/", handler.CreateTask)
			tr.Get("/", handler.ListTasks)
			tr.Get("/{taskID}", handler.GetTask)
			tr.Post("/{taskID}/complete", handler.CompleteTask)
			tr.Patch("/{taskID}/priority", handler.UpdatePriority)
			tr.Delete("/{taskID}", handler.DeleteTask)
		})
		return r
	}

	BeforeEach(func() {
		var err error
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(db.AutoMigrate(&SQLiteHandlerTask{})).To(Succeed())

		directory := staticDirectory{
			2: {ID: 2, FullName: "Ahmed Hassan", Status: string(auth.StatusActive)},
			3: {ID: 3, FullName: "Sara Khalid", Status: string(auth.StatusActive)},
		}

		repo := taskPostgres.NewTaskRepository(db)
		service = task.NewService(repo, directory, nil, events.NewEventBus(slogger), slogger)
		handler = task.NewHandler(service)
		router = buildRouter(staff)
	})

	postJSON := func(r *chi.Mux, path string, payload interface{}) *httptest.ResponseRecorder {
		body, err := json.Marshal(payload)
		Expect(err).NotTo(HaveOccurred())
		req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	It("should create a self-assigned task for staff", func() {
		w := postJSON(router, "/tasks", task.CreateTaskDTO{Title: "Patrol gate 4", Priority: "High"})

		Expect(w.Code).To(Equal(http.StatusCreated))

		var created task.Task
		Expect(json.NewDecoder(w.Body).Decode(&created)).To(Succeed())
		Expect(created.AssigneeName).To(Equal("Ahmed Hassan"))
		Expect(created.Priority).To(Equal(task.PriorityHigh))
		Expect(created.Status).To(Equal(task.StatusPending))
	})

	It("should reject a task without a title", func() {
		w := postJSON(router, "/tasks", task.CreateTaskDTO{Title: ""})

		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("should scope the listing to the caller", func() {
		adminRouter := buildRouter(admin)
		Expect(postJSON(adminRouter, "/tasks", task.CreateTaskDTO{Title: "Theirs", AssigneeID: 3}).Code).To(Equal(http.StatusCreated))
		Expect(postJSON(router, "/tasks", task.CreateTaskDTO{Title: "Mine"}).Code).To(Equal(http.StatusCreated))

		req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusOK))

		var response struct {
			Tasks []*task.Task `json:"tasks"`
			Total int          `json:"total"`
		}
		Expect(json.NewDecoder(w.Body).Decode(&response)).To(Succeed())
		Expect(response.Total).To(Equal(1))
		Expect(response.Tasks[0].Title).To(Equal("Mine"))
	})

	It("should return 404 for an unknown task", func() {
		req := httptest.NewRequest(http.MethodGet, "/tasks/999", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusNotFound))
	})

	It("should complete a task idempotently over HTTP", func() {
		w := postJSON(router, "/tasks", task.CreateTaskDTO{Title: "Close the gate"})
		var created task.Task
		Expect(json.NewDecoder(w.Body).Decode(&created)).To(Succeed())

		for i := 0; i < 2; i++ {
			req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/tasks/%d/complete", created.ID), nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			Expect(rec.Code).To(Equal(http.StatusOK))
		}

		fetched, err := service.GetByID(staff, created.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(fetched.Status).To(Equal(task.StatusFinished))
	})

	It("should refuse priority changes from staff", func() {
		w := postJSON(router, "/tasks", task.CreateTaskDTO{Title: "Restock kits"})
		var created task.Task
		Expect(json.NewDecoder(w.Body).Decode(&created)).To(Succeed())

		body, _ := json.Marshal(task.UpdatePriorityDTO{Priority: "High"})
		req := httptest.NewRequest(http.MethodPatch, fmt.Sprintf("/tasks/%d/priority", created.ID), bytes.NewReader(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		Expect(rec.Code).To(Equal(http.StatusForbidden))
	})

	It("should let admins delete a task", func() {
		w := postJSON(router, "/tasks", task.CreateTaskDTO{Title: "Old drill"})
		var created task.Task
		Expect(json.NewDecoder(w.Body).Decode(&created)).To(Succeed())

		adminRouter := buildRouter(admin)
		req := httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/tasks/%d", created.ID), nil)
		rec := httptest.NewRecorder()
		adminRouter.ServeHTTP(rec, req)

		Expect(rec.Code).To(Equal(http.StatusNoContent))
	})
})
