package task

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	"github.com/alraedsec/work-management/internal/auth"
	"github.com/alraedsec/work-management/internal/transport"
	"github.com/alraedsec/work-management/pkg/logger"
)

type ServiceAPI interface {
	Create(actor *auth.User, dto CreateTaskDTO) (*Task, error)
	List(actor *auth.User, sortBy string) ([]*Task, error)
	GetByID(actor *auth.User, taskID int64) (*Task, error)
	UpdatePriority(actor *auth.User, taskID int64, dto UpdatePriorityDTO) (*Task, error)
	Complete(actor *auth.User, taskID int64) (*Task, error)
	Delete(actor *auth.User, taskID int64) error
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

func (h *Handler) CreateTask(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto CreateTaskDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := h.Service.Create(actor, dto)
	if err != nil {
		h.Logger.Error("task creation failed", "error", err, "user_id", actor.ID)

		switch err {
		case ErrAssigneeNotFound:
			h.WriteError(w, http.StatusBadRequest, "assignee not found")
		case ErrAssigneeNotActive:
			h.WriteError(w, http.StatusBadRequest, "assignee account is not active")
		default:
			if _, ok := err.(ValidationError); ok {
				h.WriteError(w, http.StatusBadRequest, err.Error())
			} else {
				h.WriteError(w, http.StatusInternalServerError, "internal server error")
			}
		}
		return
	}

	h.WriteJSON(w, http.StatusCreated, created)
}

func (h *Handler) ListTasks(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	tasks, err := h.Service.List(actor, r.URL.Query().Get("sort"))
	if err != nil {
		h.Logger.Error("task listing failed", "error", err, "user_id", actor.ID)
		h.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"tasks": tasks,
		"total": len(tasks),
	})
}

func (h *Handler) GetTask(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	taskID, err := taskIDParam(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid task id")
		return
	}

	t, err := h.Service.GetByID(actor, taskID)
	if err != nil {
		h.writeTaskError(w, err, taskID)
		return
	}

	h.WriteJSON(w, http.StatusOK, t)
}

func (h *Handler) UpdatePriority(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	taskID, err := taskIDParam(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid task id")
		return
	}

	var dto UpdatePriorityDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	t, err := h.Service.UpdatePriority(actor, taskID, dto)
	if err != nil {
		h.writeTaskError(w, err, taskID)
		return
	}

	h.WriteJSON(w, http.StatusOK, t)
}

func (h *Handler) CompleteTask(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	taskID, err := taskIDParam(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid task id")
		return
	}

	t, err := h.Service.Complete(actor, taskID)
	if err != nil {
		h.writeTaskError(w, err, taskID)
		return
	}

	h.WriteJSON(w, http.StatusOK, t)
}

func (h *Handler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	taskID, err := taskIDParam(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid task id")
		return
	}

	if err := h.Service.Delete(actor, taskID); err != nil {
		h.writeTaskError(w, err, taskID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) writeTaskError(w http.ResponseWriter, err error, taskID int64) {
	h.Logger.Error("task operation failed", "error", err, "task_id", taskID)

	switch err {
	case ErrTaskNotFound:
		h.WriteError(w, http.StatusNotFound, "task not found")
	case ErrNotTaskOwner:
		h.WriteError(w, http.StatusForbidden, "task belongs to another user")
	case ErrAdminRequired:
		h.WriteError(w, http.StatusForbidden, "administrator access required")
	default:
		if _, ok := err.(ValidationError); ok {
			h.WriteError(w, http.StatusBadRequest, err.Error())
		} else {
			h.WriteError(w, http.StatusInternalServerError, "internal server error")
		}
	}
}

func taskIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "taskID"), 10, 64)
}
