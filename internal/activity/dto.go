package activity

import (
	"fmt"
	"strings"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// AddNoteDTO carries a followup note.
type AddNoteDTO struct {
	Content string `json:"content"`
}

func (d *AddNoteDTO) Validate() error {
	if strings.TrimSpace(d.Content) == "" {
		return ValidationError{Field: "content", Message: "note content is required"}
	}
	return nil
}

// UploadFileDTO carries a decoded attachment ready for storage.
type UploadFileDTO struct {
	FileName string
	FileType string
	Data     []byte
}

// Validate checks the metadata only. Payload size is recorded but not
// bounded; blobs of any size are accepted. TODO: revisit once the blob
// store moves out of the database.
func (d *UploadFileDTO) Validate() error {
	if strings.TrimSpace(d.FileName) == "" {
		return ValidationError{Field: "file", Message: "file name is required"}
	}
	return nil
}

// FileDownload is the served form of an attachment: the payload embedded as
// a data URI alongside its metadata.
type FileDownload struct {
	FileName string `json:"file_name"`
	FileType string `json:"file_type"`
	FileSize int64  `json:"file_size"`
	DataURI  string `json:"data_uri"`
}
