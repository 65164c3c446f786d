package task

import "time"

// Task maps the tasks table. AssigneeID is the authoritative reference;
// AssigneeName is a denormalized copy kept because the listing contract
// matches on name case-insensitively.
type Task struct {
	ID           int64     `gorm:"primaryKey"`
	Title        string    `gorm:"column:title;not null"`
	AssigneeID   int64     `gorm:"column:assignee_id;not null;index"`
	AssigneeName string    `gorm:"column:assignee_name;not null"`
	Deadline     string    `gorm:"column:deadline;not null"`
	Priority     string    `gorm:"column:priority;not null;default:Medium"`
	Status       string    `gorm:"column:status;not null;default:Pending"`
	CreatedBy    string    `gorm:"column:created_by"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (Task) TableName() string {
	return "tasks"
}
