package service

import (
	"go.uber.org/zap"

	"certhub/backend/config"
	"certhub/backend/internal/repository"
	"certhub/backend/pkg/glm"
	"certhub/backend/pkg/imageconv"
	"certhub/backend/pkg/jwt"
	"certhub/backend/pkg/redis"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Auth         AuthService
	User         UserService
	File         FileService
	Certificate  CertificateService
	Export       ExportService
	SystemConfig SystemConfigService
}

// NewService 创建 Service 聚合。
// rdb 与 glmClient 允许为 nil：无 Redis 时黑名单降级，无 API Key 时识别接口返回未配置错误。
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	glmClient *glm.Client,
	converter *imageconv.Converter,
	logger *zap.Logger,
) *Service {
	var recognizer recognitionClient
	if glmClient != nil {
		recognizer = glmClient
	}
	return &Service{
		Auth:         NewAuthService(cfg, repo, jwtMgr, rdb, logger),
		User:         NewUserService(repo, logger),
		File:         NewFileService(cfg, repo, logger),
		Certificate:  NewCertificateService(repo, recognizer, converter, logger),
		Export:       NewExportService(repo, logger),
		SystemConfig: NewSystemConfigService(repo, logger),
	}
}
