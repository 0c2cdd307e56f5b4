package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"certhub/backend/internal/dto"
	"certhub/backend/internal/service"
	"certhub/backend/pkg/response"
)

// SystemConfigHandler 系统配置 HTTP 处理器
type SystemConfigHandler struct {
	configSvc service.SystemConfigService
}

// NewSystemConfigHandler 创建 SystemConfigHandler
func NewSystemConfigHandler(configSvc service.SystemConfigService) *SystemConfigHandler {
	return &SystemConfigHandler{configSvc: configSvc}
}

// Get 读取单个配置项
// GET /api/v1/system-configs/:key
func (h *SystemConfigHandler) Get(c *gin.Context) {
	result, err := h.configSvc.Get(c.Request.Context(), c.Param("key"))
	if err != nil {
		if errors.Is(err, service.ErrSystemConfigNotFound) {
			response.NotFound(c, 40001, err.Error())
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// Set 创建或更新配置项（管理员）
// PUT /api/v1/system-configs/:key
func (h *SystemConfigHandler) Set(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateSystemConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.configSvc.Set(c.Request.Context(), c.Param("key"), &req, callerID)
	if err != nil {
		if errors.Is(err, service.ErrBadDeadlineFormat) {
			response.BadRequest(c, 40002, err.Error())
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// List 全部配置项列表（管理员）
// GET /api/v1/system-configs
func (h *SystemConfigHandler) List(c *gin.Context) {
	result, err := h.configSvc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}
