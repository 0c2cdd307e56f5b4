package dto

// ── 系统配置模块 DTO ──

// UpdateSystemConfigRequest 更新系统配置请求
type UpdateSystemConfigRequest struct {
	ConfigValue string  `json:"config_value" binding:"required,max=500"`
	Description *string `json:"description"  binding:"omitempty,max=200"`
}

// SystemConfigResponse 系统配置响应
type SystemConfigResponse struct {
	ConfigKey   string `json:"config_key"`
	ConfigValue string `json:"config_value"`
	Description string `json:"description,omitempty"`
	UpdatedAt   string `json:"updated_at"`
	UpdatedBy   string `json:"updated_by,omitempty"`
}
