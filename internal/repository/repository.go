package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository 所有 Repository 的聚合入口
type Repository struct {
	db *gorm.DB

	User         UserRepository
	Certificate  CertificateRepository
	FileRecord   FileRecordRepository
	SystemConfig SystemConfigRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:           db,
		User:         NewUserRepo(db),
		Certificate:  NewCertificateRepo(db),
		FileRecord:   NewFileRecordRepo(db),
		SystemConfig: NewSystemConfigRepo(db),
	}
}

// BeginTx 开启事务，返回事务句柄。
// 未绑定数据库时（单测场景）返回 nil 句柄，调用方按 nil 跳过 Commit/Rollback。
func (r *Repository) BeginTx(ctx context.Context) (*gorm.DB, error) {
	if r.db == nil {
		return nil, nil
	}
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	return tx, nil
}

// WithTx 返回绑定到指定事务的 Repository 副本
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return NewRepository(tx)
}
