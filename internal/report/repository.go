package report

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

// Repository runs the aggregate dashboard queries. Reporting reads raw SQL
// through sqlx so the counts come from single round trips instead of row
// scans.
type Repository struct {
	db *sqlx.DB
	sb squirrel.StatementBuilderType
}

// NewRepository builds a reporting repository. Postgres connections need the
// dollar placeholder format; sqlite uses the default question marks.
func NewRepository(db *sqlx.DB) *Repository {
	sb := squirrel.StatementBuilder
	if db.DriverName() == "pgx" || db.DriverName() == "postgres" {
		sb = sb.PlaceholderFormat(squirrel.Dollar)
	}
	return &Repository{db: db, sb: sb}
}

func (r *Repository) AdminStats(ctx context.Context) (*AdminStats, error) {
	query, args, err := r.sb.
		Select(
			"COUNT(*) AS total_tasks",
			"COALESCE(SUM(CASE WHEN status = 'Pending' THEN 1 ELSE 0 END), 0) AS pending_tasks",
			"COALESCE(SUM(CASE WHEN status = 'Finished' THEN 1 ELSE 0 END), 0) AS finished_tasks",
			"(SELECT COUNT(*) FROM users) AS total_users",
		).
		From("tasks").
		ToSql()
	if err != nil {
		return nil, err
	}

	var stats AdminStats
	if err := r.db.GetContext(ctx, &stats, query, args...); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (r *Repository) StaffStats(ctx context.Context, assigneeName string) (*StaffStats, error) {
	query, args, err := r.sb.
		Select(
			"COUNT(*) AS total_tasks",
			"COALESCE(SUM(CASE WHEN status = 'Pending' THEN 1 ELSE 0 END), 0) AS pending_tasks",
			"COALESCE(SUM(CASE WHEN status = 'Finished' THEN 1 ELSE 0 END), 0) AS finished_tasks",
			"COALESCE(SUM(CASE WHEN priority = 'High' THEN 1 ELSE 0 END), 0) AS high_priority",
		).
		From("tasks").
		Where("LOWER(assignee_name) = LOWER(?)", assigneeName).
		ToSql()
	if err != nil {
		return nil, err
	}

	var stats StaffStats
	if err := r.db.GetContext(ctx, &stats, query, args...); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (r *Repository) AssigneeWorkloads(ctx context.Context) ([]*AssigneeWorkload, error) {
	query, args, err := r.sb.
		Select(
			"assignee_name",
			"COUNT(*) AS total_tasks",
			"COALESCE(SUM(CASE WHEN status = 'Pending' THEN 1 ELSE 0 END), 0) AS pending_tasks",
			"COALESCE(SUM(CASE WHEN status = 'Finished' THEN 1 ELSE 0 END), 0) AS finished_tasks",
		).
		From("tasks").
		GroupBy("assignee_name").
		OrderBy("pending_tasks DESC", "assignee_name ASC").
		ToSql()
	if err != nil {
		return nil, err
	}

	var workloads []*AssigneeWorkload
	if err := r.db.SelectContext(ctx, &workloads, query, args...); err != nil {
		return nil, err
	}
	return workloads, nil
}
