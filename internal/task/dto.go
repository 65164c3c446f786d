package task

import (
	"fmt"
	"strings"
	"time"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// CreateTaskDTO carries a task creation request. AssigneeID is only
// honored for admins; staff always self-assign.
type CreateTaskDTO struct {
	Title      string `json:"title"`
	AssigneeID int64  `json:"assignee_id,omitempty"`
	Deadline   string `json:"deadline,omitempty"`
	Priority   string `json:"priority,omitempty"`
}

func (d *CreateTaskDTO) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return ValidationError{Field: "title", Message: "title is required"}
	}
	if d.Deadline != "" {
		if _, err := time.Parse("2006-01-02", d.Deadline); err != nil {
			return ValidationError{Field: "deadline", Message: "deadline must be an ISO date (YYYY-MM-DD)"}
		}
	}
	return nil
}

// UpdatePriorityDTO carries an admin priority change.
type UpdatePriorityDTO struct {
	Priority string `json:"priority"`
}

func (d *UpdatePriorityDTO) Validate() error {
	switch strings.ToLower(strings.TrimSpace(d.Priority)) {
	case "high", "medium", "low":
		return nil
	}
	return ValidationError{Field: "priority", Message: "priority must be one of High, Medium, Low"}
}
