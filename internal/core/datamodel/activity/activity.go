package activity

import "time"

// Followup maps the followups table. Rows are append-only; display order is
// descending id, which follows insertion order rather than timestamps.
type Followup struct {
	ID         int64     `gorm:"primaryKey"`
	TaskID     int64     `gorm:"column:task_id;not null;index"`
	AuthorName string    `gorm:"column:author_name;not null"`
	Content    string    `gorm:"column:content;not null"`
	CreatedAt  time.Time `gorm:"column:created_at"`
}

func (Followup) TableName() string {
	return "followups"
}

// TaskFile maps the task_files table. The payload itself lives in
// file_blobs keyed by checksum; this row carries only metadata and the
// reference.
type TaskFile struct {
	ID         int64     `gorm:"primaryKey"`
	TaskID     int64     `gorm:"column:task_id;not null;index"`
	FileName   string    `gorm:"column:file_name;not null"`
	FileType   string    `gorm:"column:file_type"`
	FileSize   int64     `gorm:"column:file_size;not null"`
	Checksum   string    `gorm:"column:checksum;not null;index"`
	UploadedBy string    `gorm:"column:uploaded_by"`
	UploadedAt time.Time `gorm:"column:uploaded_at"`
}

func (TaskFile) TableName() string {
	return "task_files"
}

// FileBlob holds one base64 payload per distinct content checksum. Identical
// uploads share a row.
type FileBlob struct {
	Checksum  string    `gorm:"column:checksum;primaryKey"`
	Data      string    `gorm:"column:data;not null"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (FileBlob) TableName() string {
	return "file_blobs"
}
