package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"certhub/backend/internal/dto"
	"certhub/backend/internal/model"
	"certhub/backend/internal/repository"
)

// ── 系统配置模块业务错误 ──

var (
	ErrSystemConfigNotFound = errors.New("系统配置不存在")
	ErrBadDeadlineFormat    = errors.New("截止时间格式应为 YYYY-MM-DD HH:MM:SS")
)

// SystemConfigService 系统配置业务接口
type SystemConfigService interface {
	Get(ctx context.Context, key string) (*dto.SystemConfigResponse, error)
	Set(ctx context.Context, key string, req *dto.UpdateSystemConfigRequest, callerID string) (*dto.SystemConfigResponse, error)
	List(ctx context.Context) ([]dto.SystemConfigResponse, error)
}

type systemConfigService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewSystemConfigService 创建 SystemConfigService 实例
func NewSystemConfigService(repo *repository.Repository, logger *zap.Logger) SystemConfigService {
	return &systemConfigService{repo: repo, logger: logger}
}

// ────────────────────── Get ──────────────────────

func (s *systemConfigService) Get(ctx context.Context, key string) (*dto.SystemConfigResponse, error) {
	cfg, err := s.repo.SystemConfig.GetByKey(ctx, key)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSystemConfigNotFound
		}
		s.logger.Error("查询系统配置失败", zap.String("key", key), zap.Error(err))
		return nil, err
	}
	return toSystemConfigResponse(cfg), nil
}

// ────────────────────── Set ──────────────────────

// Set 按键写入配置；截止时间键做格式校验
func (s *systemConfigService) Set(ctx context.Context, key string, req *dto.UpdateSystemConfigRequest, callerID string) (*dto.SystemConfigResponse, error) {
	if key == model.ConfigKeySubmissionDeadline {
		if _, err := time.ParseInLocation(deadlineLayout, req.ConfigValue, time.Local); err != nil {
			return nil, ErrBadDeadlineFormat
		}
	}

	cfg := &model.SystemConfig{
		ConfigKey:   key,
		ConfigValue: req.ConfigValue,
		Description: req.Description,
		UpdatedBy:   &callerID,
	}
	if err := s.repo.SystemConfig.Upsert(ctx, cfg); err != nil {
		s.logger.Error("写入系统配置失败", zap.String("key", key), zap.Error(err))
		return nil, err
	}

	saved, err := s.repo.SystemConfig.GetByKey(ctx, key)
	if err != nil {
		s.logger.Error("查询系统配置失败", zap.String("key", key), zap.Error(err))
		return nil, err
	}
	return toSystemConfigResponse(saved), nil
}

// ────────────────────── List ──────────────────────

func (s *systemConfigService) List(ctx context.Context) ([]dto.SystemConfigResponse, error) {
	configs, err := s.repo.SystemConfig.List(ctx)
	if err != nil {
		s.logger.Error("查询系统配置失败", zap.Error(err))
		return nil, err
	}
	resp := make([]dto.SystemConfigResponse, 0, len(configs))
	for i := range configs {
		resp = append(resp, *toSystemConfigResponse(&configs[i]))
	}
	return resp, nil
}

// ── 内部辅助 ──

func toSystemConfigResponse(cfg *model.SystemConfig) *dto.SystemConfigResponse {
	return &dto.SystemConfigResponse{
		ConfigKey:   cfg.ConfigKey,
		ConfigValue: cfg.ConfigValue,
		Description: derefString(cfg.Description),
		UpdatedAt:   cfg.UpdatedAt.Format(time.RFC3339),
		UpdatedBy:   derefString(cfg.UpdatedBy),
	}
}
