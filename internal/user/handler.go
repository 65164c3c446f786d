package user

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/alraedsec/work-management/internal/auth"
	"github.com/alraedsec/work-management/internal/transport"
	"github.com/alraedsec/work-management/pkg/logger"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	GetByID(userID int64) (*User, error)
	ListUsers() ([]*User, error)
	ListActiveUsers() ([]*User, error)
	CreateUser(dto CreateUserDTO) (*CreatedUser, error)
	DeleteUser(userID int64) error
}

// ApprovalAPI is the slice of the auth service the user handler needs for
// the approve/reject/reset-password admin actions.
type ApprovalAPI interface {
	Approve(userID int64) error
	Reject(userID int64) error
	ResetPassword(userID int64) (string, error)
}

type Handler struct {
	*transport.BaseHandler
	Service  ServiceAPI
	Approval ApprovalAPI
}

func NewHandler(svc ServiceAPI, approval ApprovalAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
		Approval:    approval,
	}
}

// GetCurrentUser handles GET /users/me
func (h *Handler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	sessionUser, ok := auth.UserFromContext(r.Context())
	if !ok || sessionUser == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	u, err := h.Service.GetByID(sessionUser.ID)
	if err != nil {
		h.Logger.Error("GetCurrentUser: service error", "error", err, "user_id", sessionUser.ID)
		h.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.WriteJSON(w, http.StatusOK, u)
}

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Service.ListUsers()
	if err != nil {
		h.Logger.Error("ListUsers: service error", "error", err)
		h.WriteError(w, http.StatusInternalServerError, "failed to list users")
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"users": users})
}

func (h *Handler) ListActiveUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Service.ListActiveUsers()
	if err != nil {
		h.Logger.Error("ListActiveUsers: service error", "error", err)
		h.WriteError(w, http.StatusInternalServerError, "failed to list users")
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"users": users})
}

func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var dto CreateUserDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := h.Service.CreateUser(dto)
	if err != nil {
		h.Logger.Error("CreateUser: service error", "error", err, "username", dto.Username)

		switch err {
		case auth.ErrDuplicateIdentifier:
			h.WriteError(w, http.StatusConflict, "a user with this name already exists")
		default:
			if _, ok := err.(ValidationError); ok {
				h.WriteError(w, http.StatusBadRequest, err.Error())
			} else {
				h.WriteError(w, http.StatusInternalServerError, "failed to create user")
			}
		}
		return
	}

	h.WriteJSON(w, http.StatusCreated, created)
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userIDParam(w, r)
	if !ok {
		return
	}

	if err := h.Service.DeleteUser(userID); err != nil {
		h.Logger.Error("DeleteUser: service error", "error", err, "user_id", userID)

		switch err {
		case auth.ErrUserNotFound:
			h.WriteError(w, http.StatusNotFound, "user not found")
		default:
			h.WriteError(w, http.StatusInternalServerError, "failed to delete user")
		}
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) ApproveUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userIDParam(w, r)
	if !ok {
		return
	}

	if err := h.Approval.Approve(userID); err != nil {
		h.Logger.Error("ApproveUser: service error", "error", err, "user_id", userID)

		switch err {
		case auth.ErrUserNotFound:
			h.WriteError(w, http.StatusNotFound, "user not found")
		default:
			h.WriteError(w, http.StatusInternalServerError, "failed to approve user")
		}
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"status": "approved"})
}

func (h *Handler) RejectUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userIDParam(w, r)
	if !ok {
		return
	}

	if err := h.Approval.Reject(userID); err != nil {
		h.Logger.Error("RejectUser: service error", "error", err, "user_id", userID)

		switch err {
		case auth.ErrUserNotFound:
			h.WriteError(w, http.StatusNotFound, "user not found")
		case auth.ErrInvalidStatusChange:
			h.WriteError(w, http.StatusBadRequest, "user status does not allow rejection")
		default:
			h.WriteError(w, http.StatusInternalServerError, "failed to reject user")
		}
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"status": "rejected"})
}

func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userIDParam(w, r)
	if !ok {
		return
	}

	tempPassword, err := h.Approval.ResetPassword(userID)
	if err != nil {
		h.Logger.Error("ResetPassword: service error", "error", err, "user_id", userID)

		switch err {
		case auth.ErrUserNotFound:
			h.WriteError(w, http.StatusNotFound, "user not found")
		default:
			h.WriteError(w, http.StatusInternalServerError, "failed to reset password")
		}
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"temp_password": tempPassword})
}

func (h *Handler) userIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	idStr := chi.URLParam(r, "id")
	userID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid user ID")
		return 0, false
	}
	return userID, true
}
