package report

import (
	"context"
	"log/slog"

	"github.com/alraedsec/work-management/internal/auth"
)

type RepositoryAPI interface {
	AdminStats(ctx context.Context) (*AdminStats, error)
	StaffStats(ctx context.Context, assigneeName string) (*StaffStats, error)
	AssigneeWorkloads(ctx context.Context) ([]*AssigneeWorkload, error)
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Stats returns the dashboard summary for the actor's role: the whole board
// for admins, their own slice for staff.
func (s *Service) Stats(ctx context.Context, actor *auth.User) (interface{}, error) {
	if actor.Role.IsAdmin() {
		stats, err := s.repo.AdminStats(ctx)
		if err != nil {
			s.logger.Error("failed to compute admin stats", "error", err)
			return nil, err
		}
		return stats, nil
	}

	stats, err := s.repo.StaffStats(ctx, actor.Name)
	if err != nil {
		s.logger.Error("failed to compute staff stats", "error", err, "user", actor.Name)
		return nil, err
	}
	return stats, nil
}

// Overview returns the per-assignee workload table. Admin only; the route
// enforces that.
func (s *Service) Overview(ctx context.Context) ([]*AssigneeWorkload, error) {
	workloads, err := s.repo.AssigneeWorkloads(ctx)
	if err != nil {
		s.logger.Error("failed to compute workload overview", "error", err)
		return nil, err
	}
	return workloads, nil
}
