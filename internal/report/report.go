package report

// AdminStats is the dashboard summary shown to administrators.
type AdminStats struct {
	TotalTasks    int64 `json:"total_tasks" db:"total_tasks"`
	PendingTasks  int64 `json:"pending_tasks" db:"pending_tasks"`
	FinishedTasks int64 `json:"finished_tasks" db:"finished_tasks"`
	TotalUsers    int64 `json:"total_users" db:"total_users"`
}

// StaffStats is the dashboard summary scoped to one user's tasks.
type StaffStats struct {
	TotalTasks    int64 `json:"total_tasks" db:"total_tasks"`
	PendingTasks  int64 `json:"pending_tasks" db:"pending_tasks"`
	FinishedTasks int64 `json:"finished_tasks" db:"finished_tasks"`
	HighPriority  int64 `json:"high_priority" db:"high_priority"`
}

// AssigneeWorkload is one row of the per-assignee overview table.
type AssigneeWorkload struct {
	AssigneeName  string `json:"assignee_name" db:"assignee_name"`
	TotalTasks    int64  `json:"total_tasks" db:"total_tasks"`
	PendingTasks  int64  `json:"pending_tasks" db:"pending_tasks"`
	FinishedTasks int64  `json:"finished_tasks" db:"finished_tasks"`
}
