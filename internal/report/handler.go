package report

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/alraedsec/work-management/internal"
	"github.com/alraedsec/work-management/internal/auth"
	"github.com/alraedsec/work-management/internal/transport"
	"github.com/alraedsec/work-management/pkg/logger"
)

// queryTimeout bounds the dashboard aggregates; they scan the whole tasks
// table and must not hold a connection past this.
const queryTimeout = 5 * time.Second

type ServiceAPI interface {
	Stats(ctx context.Context, actor *auth.User) (interface{}, error)
	Overview(ctx context.Context) ([]*AssigneeWorkload, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(svc ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
	}
}

func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	ctx, cancel := internal.WithTimeout(r.Context(), queryTimeout)
	defer cancel()

	stats, err := h.Service.Stats(ctx, actor)
	if err != nil {
		h.Logger.Error("stats query failed", "error", err, "user_id", actor.ID)
		h.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.WriteJSON(w, http.StatusOK, stats)
}

func (h *Handler) GetOverview(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := internal.WithTimeout(r.Context(), queryTimeout)
	defer cancel()

	workloads, err := h.Service.Overview(ctx)
	if err != nil {
		h.Logger.Error("overview query failed", "error", err)
		h.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"workloads": workloads,
		"total":     len(workloads),
	})
}
