package repository

import (
	"context"

	"gorm.io/gorm"

	"certhub/backend/internal/model"
)

// SystemConfigRepository 系统配置数据访问接口（按键单例）
type SystemConfigRepository interface {
	GetByKey(ctx context.Context, key string) (*model.SystemConfig, error)
	// Upsert 按键写入：不存在则创建，存在则原地更新
	Upsert(ctx context.Context, cfg *model.SystemConfig) error
	List(ctx context.Context) ([]model.SystemConfig, error)
}

type systemConfigRepo struct {
	db *gorm.DB
}

// NewSystemConfigRepo 创建 SystemConfigRepository 实例
func NewSystemConfigRepo(db *gorm.DB) SystemConfigRepository {
	return &systemConfigRepo{db: db}
}

func (r *systemConfigRepo) GetByKey(ctx context.Context, key string) (*model.SystemConfig, error) {
	var cfg model.SystemConfig
	err := r.db.WithContext(ctx).Where("config_key = ?", key).First(&cfg).Error
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (r *systemConfigRepo) Upsert(ctx context.Context, cfg *model.SystemConfig) error {
	var existing model.SystemConfig
	err := r.db.WithContext(ctx).Where("config_key = ?", cfg.ConfigKey).First(&existing).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return r.db.WithContext(ctx).Create(cfg).Error
		}
		return err
	}

	existing.ConfigValue = cfg.ConfigValue
	existing.UpdatedBy = cfg.UpdatedBy
	if cfg.Description != nil {
		existing.Description = cfg.Description
	}
	return r.db.WithContext(ctx).Save(&existing).Error
}

func (r *systemConfigRepo) List(ctx context.Context) ([]model.SystemConfig, error) {
	var configs []model.SystemConfig
	err := r.db.WithContext(ctx).Order("config_key ASC").Find(&configs).Error
	if err != nil {
		return nil, err
	}
	return configs, nil
}
