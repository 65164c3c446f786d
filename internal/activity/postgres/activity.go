package postgres

import (
	"github.com/alraedsec/work-management/internal/activity"
	activityDatamodel "github.com/alraedsec/work-management/internal/core/datamodel/activity"
	"gorm.io/gorm"
)

// ActivityRepository implements the activity.RepositoryAPI interface using
// GORM, covering followups, file metadata, and the blob store.
type ActivityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

func (r *ActivityRepository) CreateFollowup(f *activityDatamodel.Followup) error {
	return r.db.Create(f).Error
}

func (r *ActivityRepository) GetFollowupsByTask(taskID int64) ([]*activityDatamodel.Followup, error) {
	var followups []*activityDatamodel.Followup
	err := r.db.Where("task_id = ?", taskID).
		Order("id DESC").
		Find(&followups).Error
	return followups, err
}

func (r *ActivityRepository) DeleteFollowupsByTask(taskID int64) error {
	return r.db.Where("task_id = ?", taskID).
		Delete(&activityDatamodel.Followup{}).Error
}

func (r *ActivityRepository) CreateFile(f *activityDatamodel.TaskFile) error {
	return r.db.Create(f).Error
}

func (r *ActivityRepository) GetFileByID(fileID int64) (*activityDatamodel.TaskFile, error) {
	var f activityDatamodel.TaskFile
	err := r.db.Where("id = ?", fileID).First(&f).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, activity.ErrFileNotFound
		}
		return nil, err
	}
	return &f, nil
}

func (r *ActivityRepository) GetFilesByTask(taskID int64) ([]*activityDatamodel.TaskFile, error) {
	var files []*activityDatamodel.TaskFile
	err := r.db.Where("task_id = ?", taskID).
		Order("id DESC").
		Find(&files).Error
	return files, err
}

func (r *ActivityRepository) DeleteFile(fileID int64) error {
	return r.db.Delete(&activityDatamodel.TaskFile{}, fileID).Error
}

func (r *ActivityRepository) DeleteFilesByTask(taskID int64) error {
	return r.db.Where("task_id = ?", taskID).
		Delete(&activityDatamodel.TaskFile{}).Error
}

func (r *ActivityRepository) CountFilesByChecksum(checksum string) (int64, error) {
	var count int64
	err := r.db.Model(&activityDatamodel.TaskFile{}).
		Where("checksum = ?", checksum).
		Count(&count).Error
	return count, err
}

func (r *ActivityRepository) GetBlob(checksum string) (*activityDatamodel.FileBlob, error) {
	var b activityDatamodel.FileBlob
	err := r.db.Where("checksum = ?", checksum).First(&b).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, activity.ErrBlobMissing
		}
		return nil, err
	}
	return &b, nil
}

func (r *ActivityRepository) CreateBlob(b *activityDatamodel.FileBlob) error {
	return r.db.Create(b).Error
}

func (r *ActivityRepository) BlobExists(checksum string) (bool, error) {
	var count int64
	err := r.db.Model(&activityDatamodel.FileBlob{}).
		Where("checksum = ?", checksum).
		Count(&count).Error
	return count > 0, err
}

func (r *ActivityRepository) DeleteBlob(checksum string) error {
	return r.db.Where("checksum = ?", checksum).
		Delete(&activityDatamodel.FileBlob{}).Error
}
