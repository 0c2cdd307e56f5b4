package handler

import "certhub/backend/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth         *AuthHandler
	User         *UserHandler
	Certificate  *CertificateHandler
	Export       *ExportHandler
	SystemConfig *SystemConfigHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:         NewAuthHandler(svc.Auth),
		User:         NewUserHandler(svc.User),
		Certificate:  NewCertificateHandler(svc.Certificate, svc.File),
		Export:       NewExportHandler(svc.Export),
		SystemConfig: NewSystemConfigHandler(svc.SystemConfig),
	}
}
