package activity

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	"github.com/alraedsec/work-management/internal/auth"
	"github.com/alraedsec/work-management/internal/task"
	"github.com/alraedsec/work-management/internal/transport"
	"github.com/alraedsec/work-management/pkg/logger"
)

type ServiceAPI interface {
	AddNote(actor *auth.User, taskID int64, dto AddNoteDTO) (*Followup, error)
	ListNotes(actor *auth.User, taskID int64) ([]*Followup, error)
	UploadFile(actor *auth.User, taskID int64, dto UploadFileDTO) (*TaskFile, error)
	ListFiles(actor *auth.User, taskID int64) ([]*TaskFile, error)
	DownloadFile(actor *auth.User, taskID, fileID int64) (*FileDownload, error)
	DeleteFile(actor *auth.User, taskID, fileID int64) error
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

func (h *Handler) AddNote(w http.ResponseWriter, r *http.Request) {
	actor, taskID, ok := h.actorAndTask(w, r)
	if !ok {
		return
	}

	var dto AddNoteDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	note, err := h.Service.AddNote(actor, taskID, dto)
	if err != nil {
		h.writeActivityError(w, err, taskID)
		return
	}

	h.WriteJSON(w, http.StatusCreated, note)
}

func (h *Handler) ListNotes(w http.ResponseWriter, r *http.Request) {
	actor, taskID, ok := h.actorAndTask(w, r)
	if !ok {
		return
	}

	notes, err := h.Service.ListNotes(actor, taskID)
	if err != nil {
		h.writeActivityError(w, err, taskID)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"followups": notes,
		"total":     len(notes),
	})
}

// multipartMemory is the in-memory threshold for parsing uploads; larger
// parts spill to temp files. It is not a size limit.
const multipartMemory = 32 << 20

// UploadFile accepts a multipart form with a single "file" part.
func (h *Handler) UploadFile(w http.ResponseWriter, r *http.Request) {
	actor, taskID, ok := h.actorAndTask(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "file part is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.Logger.Error("reading upload failed", "error", err, "task_id", taskID)
		h.WriteError(w, http.StatusBadRequest, "could not read uploaded file")
		return
	}

	dto := UploadFileDTO{
		FileName: header.Filename,
		FileType: header.Header.Get("Content-Type"),
		Data:     data,
	}

	uploaded, err := h.Service.UploadFile(actor, taskID, dto)
	if err != nil {
		h.writeActivityError(w, err, taskID)
		return
	}

	h.WriteJSON(w, http.StatusCreated, uploaded)
}

func (h *Handler) ListFiles(w http.ResponseWriter, r *http.Request) {
	actor, taskID, ok := h.actorAndTask(w, r)
	if !ok {
		return
	}

	files, err := h.Service.ListFiles(actor, taskID)
	if err != nil {
		h.writeActivityError(w, err, taskID)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"files": files,
		"total": len(files),
	})
}

func (h *Handler) DownloadFile(w http.ResponseWriter, r *http.Request) {
	actor, taskID, ok := h.actorAndTask(w, r)
	if !ok {
		return
	}

	fileID, err := fileIDParam(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid file id")
		return
	}

	download, err := h.Service.DownloadFile(actor, taskID, fileID)
	if err != nil {
		h.writeActivityError(w, err, taskID)
		return
	}

	h.WriteJSON(w, http.StatusOK, download)
}

func (h *Handler) DeleteFile(w http.ResponseWriter, r *http.Request) {
	actor, taskID, ok := h.actorAndTask(w, r)
	if !ok {
		return
	}

	fileID, err := fileIDParam(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid file id")
		return
	}

	if err := h.Service.DeleteFile(actor, taskID, fileID); err != nil {
		h.writeActivityError(w, err, taskID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) actorAndTask(w http.ResponseWriter, r *http.Request) (*auth.User, int64, bool) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return nil, 0, false
	}

	taskID, err := strconv.ParseInt(chi.URLParam(r, "taskID"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid task id")
		return nil, 0, false
	}

	return actor, taskID, true
}

func (h *Handler) writeActivityError(w http.ResponseWriter, err error, taskID int64) {
	h.Logger.Error("task trail operation failed", "error", err, "task_id", taskID)

	switch err {
	case task.ErrTaskNotFound:
		h.WriteError(w, http.StatusNotFound, "task not found")
	case ErrTaskNotVisible:
		h.WriteError(w, http.StatusForbidden, "task belongs to another user")
	case ErrFileNotFound:
		h.WriteError(w, http.StatusNotFound, "file not found")
	case ErrNotFileOwner:
		h.WriteError(w, http.StatusForbidden, "file was uploaded by another user")
	case ErrBlobMissing:
		h.WriteError(w, http.StatusInternalServerError, "file payload unavailable")
	default:
		if _, ok := err.(ValidationError); ok {
			h.WriteError(w, http.StatusBadRequest, err.Error())
		} else {
			h.HandleError(w, err)
		}
	}
}

func fileIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "fileID"), 10, 64)
}
