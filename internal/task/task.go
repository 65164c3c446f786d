package task

import (
	"sort"
	"strings"
	"time"

	taskDatamodel "github.com/alraedsec/work-management/internal/core/datamodel/task"
)

// Priority levels a task can carry. High sorts before Medium before Low.
type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// ParsePriority normalizes free-form priority input. Unknown values
// fall back to Medium.
func ParsePriority(s string) Priority {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "high":
		return PriorityHigh
	case "low":
		return PriorityLow
	default:
		return PriorityMedium
	}
}

// Rank returns the sort rank of the priority, lower ranks first.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 3
	default:
		return 2
	}
}

// Status of a task. Tasks move one way: Pending to Finished.
type Status string

const (
	StatusPending  Status = "Pending"
	StatusFinished Status = "Finished"
)

// Task is the domain representation of a tracked work item.
type Task struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	AssigneeID   int64     `json:"assignee_id"`
	AssigneeName string    `json:"assignee_name"`
	Deadline     string    `json:"deadline"`
	Priority     Priority  `json:"priority"`
	Status       Status    `json:"status"`
	CreatedBy    string    `json:"created_by"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IsFinished reports whether the task has reached its terminal state.
func (t *Task) IsFinished() bool {
	return t.Status == StatusFinished
}

// IsAssignedTo reports whether the task belongs to the named user.
// Assignee names compare case-insensitively; legacy rows may lack an
// assignee ID, so the name is the scope key.
func (t *Task) IsAssignedTo(name string) bool {
	return strings.EqualFold(t.AssigneeName, name)
}

// Listing sort keys. Deadline ascending is the default ordering; priority
// and status are opt-in re-sorts applied in memory after the fetch.
const (
	SortByDeadline = "deadline"
	SortByPriority = "priority"
	SortByStatus   = "status"
)

// SortForListing orders tasks for display. Deadlines are ISO dates so
// lexicographic order is chronological order; empty deadlines sort last.
// Priority orders High before Medium before Low; status compares the raw
// status strings. Unknown sort keys fall back to deadline order.
func SortForListing(tasks []*Task, sortBy string) {
	switch sortBy {
	case SortByPriority:
		sort.SliceStable(tasks, func(i, j int) bool {
			return tasks[i].Priority.Rank() < tasks[j].Priority.Rank()
		})
	case SortByStatus:
		sort.SliceStable(tasks, func(i, j int) bool {
			return tasks[i].Status < tasks[j].Status
		})
	default:
		sort.SliceStable(tasks, func(i, j int) bool {
			return deadlineKey(tasks[i].Deadline) < deadlineKey(tasks[j].Deadline)
		})
	}
}

func deadlineKey(d string) string {
	if d == "" {
		return "￿"
	}
	return d
}

// ToDataModel converts the domain task to its persistence representation.
func (t *Task) ToDataModel() *taskDatamodel.Task {
	return &taskDatamodel.Task{
		ID:           t.ID,
		Title:        t.Title,
		AssigneeID:   t.AssigneeID,
		AssigneeName: t.AssigneeName,
		Deadline:     t.Deadline,
		Priority:     string(t.Priority),
		Status:       string(t.Status),
		CreatedBy:    t.CreatedBy,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
}

// FromDataModel converts a persistence row to the domain representation.
func FromDataModel(dm *taskDatamodel.Task) *Task {
	return &Task{
		ID:           dm.ID,
		Title:        dm.Title,
		AssigneeID:   dm.AssigneeID,
		AssigneeName: dm.AssigneeName,
		Deadline:     dm.Deadline,
		Priority:     Priority(dm.Priority),
		Status:       Status(dm.Status),
		CreatedBy:    dm.CreatedBy,
		CreatedAt:    dm.CreatedAt,
		UpdatedAt:    dm.UpdatedAt,
	}
}

// FromDataModelSlice converts a slice of persistence rows.
func FromDataModelSlice(dms []*taskDatamodel.Task) []*Task {
	tasks := make([]*Task, 0, len(dms))
	for _, dm := range dms {
		tasks = append(tasks, FromDataModel(dm))
	}
	return tasks
}
