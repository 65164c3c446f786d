package postgres

import (
	taskDatamodel "github.com/alraedsec/work-management/internal/core/datamodel/task"
	"github.com/alraedsec/work-management/internal/task"
	"gorm.io/gorm"
)

// TaskRepository implements the task.RepositoryAPI interface using GORM.
type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) GetByID(taskID int64) (*taskDatamodel.Task, error) {
	var t taskDatamodel.Task
	err := r.db.Where("id = ?", taskID).First(&t).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, task.ErrTaskNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *TaskRepository) GetAll() ([]*taskDatamodel.Task, error) {
	var tasks []*taskDatamodel.Task
	err := r.db.Order("id DESC").Find(&tasks).Error
	return tasks, err
}

// GetByAssigneeName matches case-insensitively; assignee names are the scope
// key for rows created before assignee IDs were recorded.
func (r *TaskRepository) GetByAssigneeName(name string) ([]*taskDatamodel.Task, error) {
	var tasks []*taskDatamodel.Task
	err := r.db.Where("LOWER(assignee_name) = LOWER(?)", name).
		Order("id DESC").
		Find(&tasks).Error
	return tasks, err
}

func (r *TaskRepository) Create(t *taskDatamodel.Task) error {
	return r.db.Create(t).Error
}

func (r *TaskRepository) UpdatePriority(taskID int64, priority string) error {
	return r.db.Model(&taskDatamodel.Task{}).
		Where("id = ?", taskID).
		Update("priority", priority).Error
}

func (r *TaskRepository) UpdateStatus(taskID int64, status string) error {
	return r.db.Model(&taskDatamodel.Task{}).
		Where("id = ?", taskID).
		Update("status", status).Error
}

func (r *TaskRepository) Delete(taskID int64) error {
	return r.db.Delete(&taskDatamodel.Task{}, taskID).Error
}
