package activity

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	activityDatamodel "github.com/alraedsec/work-management/internal/core/datamodel/activity"
)

// Followup is a single append-only note on a task's trail.
type Followup struct {
	ID         int64     `json:"id"`
	TaskID     int64     `json:"task_id"`
	AuthorName string    `json:"author_name"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
}

// TaskFile is the metadata of an uploaded attachment. The payload itself
// lives in a content-addressed blob shared by identical uploads.
type TaskFile struct {
	ID            int64     `json:"id"`
	TaskID        int64     `json:"task_id"`
	FileName      string    `json:"file_name"`
	FileType      string    `json:"file_type"`
	FileSize      int64     `json:"file_size"`
	FormattedSize string    `json:"formatted_size"`
	Icon          string    `json:"icon"`
	Checksum      string    `json:"checksum"`
	UploadedBy    string    `json:"uploaded_by"`
	UploadedAt    time.Time `json:"uploaded_at"`
}

// FormatFileSize renders a byte count for display, B through MB.
func FormatFileSize(size int64) string {
	switch {
	case size < 1024:
		return fmt.Sprintf("%d B", size)
	case size < 1024*1024:
		return fmt.Sprintf("%.1f KB", float64(size)/1024)
	default:
		return fmt.Sprintf("%.1f MB", float64(size)/(1024*1024))
	}
}

// FileIcon picks a display icon class from the file extension.
func FileIcon(fileName string) string {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".pdf":
		return "file-pdf"
	case ".doc", ".docx":
		return "file-word"
	case ".xls", ".xlsx", ".csv":
		return "file-excel"
	case ".png", ".jpg", ".jpeg", ".gif", ".bmp", ".webp":
		return "file-image"
	case ".zip", ".rar", ".7z", ".tar", ".gz":
		return "file-archive"
	case ".txt", ".md", ".log":
		return "file-text"
	default:
		return "file"
	}
}

func followupFromDataModel(dm *activityDatamodel.Followup) *Followup {
	return &Followup{
		ID:         dm.ID,
		TaskID:     dm.TaskID,
		AuthorName: dm.AuthorName,
		Content:    dm.Content,
		CreatedAt:  dm.CreatedAt,
	}
}

func followupsFromDataModel(dms []*activityDatamodel.Followup) []*Followup {
	out := make([]*Followup, 0, len(dms))
	for _, dm := range dms {
		out = append(out, followupFromDataModel(dm))
	}
	return out
}

func fileFromDataModel(dm *activityDatamodel.TaskFile) *TaskFile {
	return &TaskFile{
		ID:            dm.ID,
		TaskID:        dm.TaskID,
		FileName:      dm.FileName,
		FileType:      dm.FileType,
		FileSize:      dm.FileSize,
		FormattedSize: FormatFileSize(dm.FileSize),
		Icon:          FileIcon(dm.FileName),
		Checksum:      dm.Checksum,
		UploadedBy:    dm.UploadedBy,
		UploadedAt:    dm.UploadedAt,
	}
}

func filesFromDataModel(dms []*activityDatamodel.TaskFile) []*TaskFile {
	out := make([]*TaskFile, 0, len(dms))
	for _, dm := range dms {
		out = append(out, fileFromDataModel(dm))
	}
	return out
}
