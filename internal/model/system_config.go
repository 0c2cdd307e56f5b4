package model

import "time"

// 系统配置键
const (
	ConfigKeySubmissionDeadline = "submission_deadline"
	ConfigKeyAPIProvider        = "api_provider"
	ConfigKeyMaxFileSize        = "max_file_size"
)

// SystemConfig 系统配置表 — 对应 system_config（按键单例，首次写入时创建）
type SystemConfig struct {
	ConfigID    string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"config_id"`
	ConfigKey   string    `gorm:"type:varchar(100);not null;uniqueIndex"         json:"config_key"`
	ConfigValue string    `gorm:"type:varchar(500);not null"                     json:"config_value"`
	Description *string   `gorm:"type:varchar(300)"                              json:"description"`
	UpdatedAt   time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"updated_at"`
	UpdatedBy   *string   `gorm:"type:uuid"                                      json:"updated_by"`
}

// TableName 指定表名
func (SystemConfig) TableName() string { return "system_config" }
