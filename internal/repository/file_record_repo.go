package repository

import (
	"context"

	"gorm.io/gorm"

	"certhub/backend/internal/model"
)

// FileRecordRepository 上传文件元数据访问接口
type FileRecordRepository interface {
	Create(ctx context.Context, record *model.FileRecord) error
	ListByUser(ctx context.Context, userID string) ([]model.FileRecord, error)
	DeleteByUser(ctx context.Context, userID string) error
}

// fileRecordRepo FileRecordRepository 的 GORM 实现
type fileRecordRepo struct {
	db *gorm.DB
}

// NewFileRecordRepo 创建 FileRecordRepository 实例
func NewFileRecordRepo(db *gorm.DB) FileRecordRepository {
	return &fileRecordRepo{db: db}
}

func (r *fileRecordRepo) Create(ctx context.Context, record *model.FileRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *fileRecordRepo) ListByUser(ctx context.Context, userID string) ([]model.FileRecord, error) {
	var records []model.FileRecord
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("upload_time DESC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *fileRecordRepo) DeleteByUser(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&model.FileRecord{}).Error
}
