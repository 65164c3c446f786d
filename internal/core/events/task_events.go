package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeTaskCreated         = "task.created"
	EventTypeTaskCompleted       = "task.completed"
	EventTypeTaskPriorityChanged = "task.priority_changed"
)

type TaskCreatedEvent struct {
	BaseEvent
	TaskID   int64  `json:"task_id"`
	Title    string `json:"title"`
	Assignee string `json:"assignee"`
	Priority string `json:"priority"`
}

func NewTaskCreatedEvent(taskID int64, title, assignee, priority string) *TaskCreatedEvent {
	return &TaskCreatedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeTaskCreated,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"task_id":  taskID,
				"title":    title,
				"assignee": assignee,
				"priority": priority,
			},
		},
		TaskID:   taskID,
		Title:    title,
		Assignee: assignee,
		Priority: priority,
	}
}

type TaskCompletedEvent struct {
	BaseEvent
	TaskID      int64  `json:"task_id"`
	CompletedBy string `json:"completed_by"`
}

func NewTaskCompletedEvent(taskID int64, completedBy string) *TaskCompletedEvent {
	return &TaskCompletedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeTaskCompleted,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"task_id":      taskID,
				"completed_by": completedBy,
			},
		},
		TaskID:      taskID,
		CompletedBy: completedBy,
	}
}

type TaskPriorityChangedEvent struct {
	BaseEvent
	TaskID      int64  `json:"task_id"`
	OldPriority string `json:"old_priority"`
	NewPriority string `json:"new_priority"`
	ChangedBy   string `json:"changed_by"`
}

func NewTaskPriorityChangedEvent(taskID int64, oldPriority, newPriority, changedBy string) *TaskPriorityChangedEvent {
	return &TaskPriorityChangedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeTaskPriorityChanged,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"task_id":      taskID,
				"old_priority": oldPriority,
				"new_priority": newPriority,
				"changed_by":   changedBy,
			},
		},
		TaskID:      taskID,
		OldPriority: oldPriority,
		NewPriority: newPriority,
		ChangedBy:   changedBy,
	}
}
