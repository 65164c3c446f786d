package activity

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	apperrors "github.com/alraedsec/work-management/internal"
	"github.com/alraedsec/work-management/internal/auth"
	activityDatamodel "github.com/alraedsec/work-management/internal/core/datamodel/activity"
	"github.com/alraedsec/work-management/internal/task"
)

var (
	ErrFileNotFound   = errors.New("file not found")
	ErrNotFileOwner   = errors.New("file was uploaded by another user")
	ErrBlobMissing    = errors.New("file payload missing from blob store")
	ErrTaskNotVisible = errors.New("task belongs to another user")
)

// adminNotePrefix marks notes written by administrators so staff can tell
// directives apart from peer updates.
const adminNotePrefix = "BOSS: "

type RepositoryAPI interface {
	CreateFollowup(f *activityDatamodel.Followup) error
	GetFollowupsByTask(taskID int64) ([]*activityDatamodel.Followup, error)
	DeleteFollowupsByTask(taskID int64) error

	CreateFile(f *activityDatamodel.TaskFile) error
	GetFileByID(fileID int64) (*activityDatamodel.TaskFile, error)
	GetFilesByTask(taskID int64) ([]*activityDatamodel.TaskFile, error)
	DeleteFile(fileID int64) error
	DeleteFilesByTask(taskID int64) error
	CountFilesByChecksum(checksum string) (int64, error)

	GetBlob(checksum string) (*activityDatamodel.FileBlob, error)
	CreateBlob(b *activityDatamodel.FileBlob) error
	BlobExists(checksum string) (bool, error)
	DeleteBlob(checksum string) error
}

// TaskGuardAPI checks that the actor may touch the task before its trail is
// read or written. The task service already encodes the visibility rules.
type TaskGuardAPI interface {
	GetByID(actor *auth.User, taskID int64) (*task.Task, error)
}

type Service struct {
	repo   RepositoryAPI
	guard  TaskGuardAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, guard TaskGuardAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		guard:  guard,
		logger: logger,
	}
}

// AddNote appends a followup to the task's trail. Admin notes carry the
// BOSS prefix so the trail shows who gave direction.
func (s *Service) AddNote(actor *auth.User, taskID int64, dto AddNoteDTO) (*Followup, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.guard.GetByID(actor, taskID); err != nil {
		return nil, s.mapGuardError(err)
	}

	content := strings.TrimSpace(dto.Content)
	if actor.Role.IsAdmin() && !strings.HasPrefix(content, adminNotePrefix) {
		content = adminNotePrefix + content
	}

	dm := &activityDatamodel.Followup{
		TaskID:     taskID,
		AuthorName: actor.Name,
		Content:    content,
		CreatedAt:  time.Now(),
	}

	if err := s.repo.CreateFollowup(dm); err != nil {
		s.logger.Error("failed to add followup", "error", err, "task_id", taskID)
		return nil, err
	}

	s.logger.Info("followup added", "task_id", taskID, "author", actor.Name)
	return followupFromDataModel(dm), nil
}

// AddSystemNote records an automated audit entry on the trail, bypassing the
// actor visibility check. Used by event subscribers.
func (s *Service) AddSystemNote(taskID int64, authorName, content string) error {
	dm := &activityDatamodel.Followup{
		TaskID:     taskID,
		AuthorName: authorName,
		Content:    content,
		CreatedAt:  time.Now(),
	}
	if err := s.repo.CreateFollowup(dm); err != nil {
		s.logger.Error("failed to add system followup", "error", err, "task_id", taskID)
		return err
	}
	return nil
}

// ListNotes returns the task's followups, newest first.
func (s *Service) ListNotes(actor *auth.User, taskID int64) ([]*Followup, error) {
	if _, err := s.guard.GetByID(actor, taskID); err != nil {
		return nil, s.mapGuardError(err)
	}

	dms, err := s.repo.GetFollowupsByTask(taskID)
	if err != nil {
		s.logger.Error("failed to list followups", "error", err, "task_id", taskID)
		return nil, err
	}
	return followupsFromDataModel(dms), nil
}

// UploadFile stores an attachment. Payloads are content-addressed by SHA-256
// so identical uploads share one blob.
func (s *Service) UploadFile(actor *auth.User, taskID int64, dto UploadFileDTO) (*TaskFile, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.guard.GetByID(actor, taskID); err != nil {
		return nil, s.mapGuardError(err)
	}

	sum := sha256.Sum256(dto.Data)
	checksum := hex.EncodeToString(sum[:])

	exists, err := s.repo.BlobExists(checksum)
	if err != nil {
		return nil, apperrors.NewUploadError(err)
	}
	if !exists {
		blob := &activityDatamodel.FileBlob{
			Checksum:  checksum,
			Data:      base64.StdEncoding.EncodeToString(dto.Data),
			CreatedAt: time.Now(),
		}
		if err := s.repo.CreateBlob(blob); err != nil {
			s.logger.Error("failed to store file blob", "error", err, "checksum", checksum)
			return nil, apperrors.NewUploadError(err)
		}
	}

	dm := &activityDatamodel.TaskFile{
		TaskID:     taskID,
		FileName:   dto.FileName,
		FileType:   dto.FileType,
		FileSize:   int64(len(dto.Data)),
		Checksum:   checksum,
		UploadedBy: actor.Name,
		UploadedAt: time.Now(),
	}

	if err := s.repo.CreateFile(dm); err != nil {
		s.logger.Error("failed to record file metadata", "error", err, "task_id", taskID)
		return nil, apperrors.NewUploadError(err)
	}

	s.logger.Info("file uploaded",
		"task_id", taskID,
		"file_name", dto.FileName,
		"size", dm.FileSize,
		"uploaded_by", actor.Name)

	return fileFromDataModel(dm), nil
}

// ListFiles returns the task's attachments.
func (s *Service) ListFiles(actor *auth.User, taskID int64) ([]*TaskFile, error) {
	if _, err := s.guard.GetByID(actor, taskID); err != nil {
		return nil, s.mapGuardError(err)
	}

	dms, err := s.repo.GetFilesByTask(taskID)
	if err != nil {
		s.logger.Error("failed to list files", "error", err, "task_id", taskID)
		return nil, err
	}
	return filesFromDataModel(dms), nil
}

// DownloadFile returns the attachment with its payload embedded as a data
// URI, the form the client renders as a download link.
func (s *Service) DownloadFile(actor *auth.User, taskID, fileID int64) (*FileDownload, error) {
	if _, err := s.guard.GetByID(actor, taskID); err != nil {
		return nil, s.mapGuardError(err)
	}

	dm, err := s.repo.GetFileByID(fileID)
	if err != nil {
		return nil, err
	}
	if dm.TaskID != taskID {
		return nil, ErrFileNotFound
	}

	blob, err := s.repo.GetBlob(dm.Checksum)
	if err != nil {
		s.logger.Error("file payload missing", "file_id", fileID, "checksum", dm.Checksum)
		return nil, ErrBlobMissing
	}

	contentType := dm.FileType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	return &FileDownload{
		FileName: dm.FileName,
		FileType: contentType,
		FileSize: dm.FileSize,
		DataURI:  fmt.Sprintf("data:%s;base64,%s", contentType, blob.Data),
	}, nil
}

// DeleteFile removes an attachment. Admins may delete any file; staff only
// their own uploads. The blob is collected once its last reference goes.
func (s *Service) DeleteFile(actor *auth.User, taskID, fileID int64) error {
	if _, err := s.guard.GetByID(actor, taskID); err != nil {
		return s.mapGuardError(err)
	}

	dm, err := s.repo.GetFileByID(fileID)
	if err != nil {
		return err
	}
	if dm.TaskID != taskID {
		return ErrFileNotFound
	}

	if !actor.Role.IsAdmin() && !strings.EqualFold(dm.UploadedBy, actor.Name) {
		return ErrNotFileOwner
	}

	if err := s.repo.DeleteFile(fileID); err != nil {
		s.logger.Error("failed to delete file", "error", err, "file_id", fileID)
		return err
	}

	if err := s.collectBlob(dm.Checksum); err != nil {
		s.logger.Error("blob collection failed", "error", err, "checksum", dm.Checksum)
	}

	s.logger.Info("file deleted", "file_id", fileID, "task_id", taskID, "deleted_by", actor.Name)
	return nil
}

// PurgeTask removes every followup and file attached to a task. Called when
// the task itself is deleted.
func (s *Service) PurgeTask(taskID int64) error {
	if err := s.repo.DeleteFollowupsByTask(taskID); err != nil {
		return fmt.Errorf("purging followups: %w", err)
	}

	files, err := s.repo.GetFilesByTask(taskID)
	if err != nil {
		return fmt.Errorf("listing files for purge: %w", err)
	}

	if err := s.repo.DeleteFilesByTask(taskID); err != nil {
		return fmt.Errorf("purging files: %w", err)
	}

	for _, f := range files {
		if err := s.collectBlob(f.Checksum); err != nil {
			s.logger.Error("blob collection failed during purge", "error", err, "checksum", f.Checksum)
		}
	}

	s.logger.Info("task trail purged", "task_id", taskID, "files_removed", len(files))
	return nil
}

// collectBlob drops a blob once no metadata row references it.
func (s *Service) collectBlob(checksum string) error {
	count, err := s.repo.CountFilesByChecksum(checksum)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	return s.repo.DeleteBlob(checksum)
}

func (s *Service) mapGuardError(err error) error {
	if err == task.ErrNotTaskOwner {
		return ErrTaskNotVisible
	}
	return err
}
