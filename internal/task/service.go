package task

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/alraedsec/work-management/internal/auth"
	taskDatamodel "github.com/alraedsec/work-management/internal/core/datamodel/task"
	userDatamodel "github.com/alraedsec/work-management/internal/core/datamodel/user"
	"github.com/alraedsec/work-management/internal/core/events"
)

var (
	ErrTaskNotFound      = errors.New("task not found")
	ErrNotTaskOwner      = errors.New("task belongs to another user")
	ErrAssigneeNotFound  = errors.New("assignee not found")
	ErrAssigneeNotActive = errors.New("assignee account is not active")
	ErrAdminRequired     = errors.New("administrator access required")
)

type RepositoryAPI interface {
	GetByID(taskID int64) (*taskDatamodel.Task, error)
	GetAll() ([]*taskDatamodel.Task, error)
	GetByAssigneeName(name string) ([]*taskDatamodel.Task, error)
	Create(t *taskDatamodel.Task) error
	UpdatePriority(taskID int64, priority string) error
	UpdateStatus(taskID int64, status string) error
	Delete(taskID int64) error
}

// UserDirectoryAPI resolves assignees at creation time. Only the lookup is
// needed here, not the full user service surface.
type UserDirectoryAPI interface {
	GetByID(userID int64) (*userDatamodel.User, error)
}

// ActivityPurgerAPI removes a task's trail when the task itself is deleted.
type ActivityPurgerAPI interface {
	PurgeTask(taskID int64) error
}

type Service struct {
	repo     RepositoryAPI
	users    UserDirectoryAPI
	purger   ActivityPurgerAPI
	eventBus *events.EventBus
	logger   *slog.Logger
}

func NewService(repo RepositoryAPI, users UserDirectoryAPI, purger ActivityPurgerAPI, eventBus *events.EventBus, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		users:    users,
		purger:   purger,
		eventBus: eventBus,
		logger:   logger,
	}
}

// SetActivityPurger wires the trail cleanup dependency. The activity
// service is constructed after the task service, so this cannot be a
// constructor argument.
func (s *Service) SetActivityPurger(purger ActivityPurgerAPI) {
	s.purger = purger
}

// Create registers a new task. Staff always self-assign; admins may assign
// to any active account. Tasks start Pending.
func (s *Service) Create(actor *auth.User, dto CreateTaskDTO) (*Task, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	assigneeID := actor.ID
	assigneeName := actor.Name

	if actor.Role.IsAdmin() && dto.AssigneeID == 0 {
		return nil, ValidationError{Field: "assignee_id", Message: "assignee is required"}
	}

	if actor.Role.IsAdmin() && dto.AssigneeID != actor.ID {
		assignee, err := s.users.GetByID(dto.AssigneeID)
		if err != nil {
			s.logger.Warn("task assignee lookup failed", "assignee_id", dto.AssigneeID, "error", err)
			return nil, ErrAssigneeNotFound
		}
		if assignee.Status != string(auth.StatusActive) && assignee.Status != "" {
			return nil, ErrAssigneeNotActive
		}
		assigneeID = assignee.ID
		assigneeName = assignee.FullName
	}

	now := time.Now()
	dm := &taskDatamodel.Task{
		Title:        dto.Title,
		AssigneeID:   assigneeID,
		AssigneeName: assigneeName,
		Deadline:     dto.Deadline,
		Priority:     string(ParsePriority(dto.Priority)),
		Status:       string(StatusPending),
		CreatedBy:    actor.Name,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(dm); err != nil {
		s.logger.Error("failed to create task", "error", err, "title", dto.Title)
		return nil, err
	}

	created := FromDataModel(dm)

	if s.eventBus != nil {
		event := events.NewTaskCreatedEvent(created.ID, created.Title, created.AssigneeName, string(created.Priority))
		if err := s.eventBus.Publish(context.Background(), event); err != nil {
			s.logger.Error("failed to publish task created event", "error", err, "task_id", created.ID)
		}
	}

	s.logger.Info("task created",
		"task_id", created.ID,
		"assignee", created.AssigneeName,
		"priority", created.Priority,
		"created_by", actor.Name)

	return created, nil
}

// List returns the tasks visible to the actor, ordered by deadline unless
// a priority or status re-sort is requested. Admins see everything; staff
// see their own tasks.
func (s *Service) List(actor *auth.User, sortBy string) ([]*Task, error) {
	var (
		rows []*taskDatamodel.Task
		err  error
	)

	if actor.Role.IsAdmin() {
		rows, err = s.repo.GetAll()
	} else {
		rows, err = s.repo.GetByAssigneeName(actor.Name)
	}
	if err != nil {
		s.logger.Error("failed to list tasks", "error", err, "user_id", actor.ID)
		return nil, err
	}

	tasks := FromDataModelSlice(rows)
	SortForListing(tasks, sortBy)
	return tasks, nil
}

// GetByID returns one task. Staff can only read tasks assigned to them.
func (s *Service) GetByID(actor *auth.User, taskID int64) (*Task, error) {
	dm, err := s.repo.GetByID(taskID)
	if err != nil {
		return nil, err
	}

	t := FromDataModel(dm)
	if !actor.Role.IsAdmin() && !t.IsAssignedTo(actor.Name) {
		s.logger.Warn("task access denied", "task_id", taskID, "user_id", actor.ID)
		return nil, ErrNotTaskOwner
	}
	return t, nil
}

// UpdatePriority changes a task's priority. Admin only. A no-op change
// still succeeds but publishes no event.
func (s *Service) UpdatePriority(actor *auth.User, taskID int64, dto UpdatePriorityDTO) (*Task, error) {
	if !actor.Role.IsAdmin() {
		return nil, ErrAdminRequired
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	dm, err := s.repo.GetByID(taskID)
	if err != nil {
		return nil, err
	}

	t := FromDataModel(dm)
	newPriority := ParsePriority(dto.Priority)
	if t.Priority == newPriority {
		return t, nil
	}

	if err := s.repo.UpdatePriority(taskID, string(newPriority)); err != nil {
		s.logger.Error("failed to update task priority", "error", err, "task_id", taskID)
		return nil, err
	}

	oldPriority := t.Priority
	t.Priority = newPriority

	if s.eventBus != nil {
		event := events.NewTaskPriorityChangedEvent(taskID, string(oldPriority), string(newPriority), actor.Name)
		if err := s.eventBus.Publish(context.Background(), event); err != nil {
			s.logger.Error("failed to publish priority changed event", "error", err, "task_id", taskID)
		}
	}

	s.logger.Info("task priority changed",
		"task_id", taskID,
		"old_priority", oldPriority,
		"new_priority", newPriority,
		"changed_by", actor.Name)

	return t, nil
}

// Complete marks a task Finished. Completion is one-way and idempotent:
// finishing an already finished task succeeds without side effects.
func (s *Service) Complete(actor *auth.User, taskID int64) (*Task, error) {
	dm, err := s.repo.GetByID(taskID)
	if err != nil {
		return nil, err
	}

	t := FromDataModel(dm)
	if !actor.Role.IsAdmin() && !t.IsAssignedTo(actor.Name) {
		return nil, ErrNotTaskOwner
	}

	if t.IsFinished() {
		return t, nil
	}

	if err := s.repo.UpdateStatus(taskID, string(StatusFinished)); err != nil {
		s.logger.Error("failed to complete task", "error", err, "task_id", taskID)
		return nil, err
	}
	t.Status = StatusFinished

	if s.eventBus != nil {
		event := events.NewTaskCompletedEvent(taskID, actor.Name)
		if err := s.eventBus.Publish(context.Background(), event); err != nil {
			s.logger.Error("failed to publish task completed event", "error", err, "task_id", taskID)
		}
	}

	s.logger.Info("task completed", "task_id", taskID, "completed_by", actor.Name)
	return t, nil
}

// Delete removes a task together with its followups and files. Admin only.
func (s *Service) Delete(actor *auth.User, taskID int64) error {
	if !actor.Role.IsAdmin() {
		return ErrAdminRequired
	}

	if _, err := s.repo.GetByID(taskID); err != nil {
		return err
	}

	if s.purger != nil {
		if err := s.purger.PurgeTask(taskID); err != nil {
			s.logger.Error("failed to purge task trail", "error", err, "task_id", taskID)
			return err
		}
	}

	if err := s.repo.Delete(taskID); err != nil {
		s.logger.Error("failed to delete task", "error", err, "task_id", taskID)
		return err
	}

	s.logger.Info("task deleted", "task_id", taskID, "deleted_by", actor.Name)
	return nil
}
