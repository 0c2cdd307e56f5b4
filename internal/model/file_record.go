package model

import "time"

// 文件类型
const (
	FileTypePDF   = "pdf"
	FileTypeImage = "image"
)

// FileRecord 上传文件元数据表 — 对应 files
// 仅做记录用途：写库失败不回滚已落盘的文件
type FileRecord struct {
	FileID     string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"file_id"`
	UserID     string    `gorm:"type:uuid;not null;index"                       json:"user_id"`
	FileName   string    `gorm:"type:varchar(300);not null"                     json:"file_name"` // 原始文件名
	FilePath   string    `gorm:"type:varchar(500);not null"                     json:"file_path"` // 服务器存储绝对路径
	FileType   string    `gorm:"type:varchar(10);not null"                      json:"file_type"` // pdf/image
	FileSize   int64     `gorm:"not null"                                       json:"file_size"` // 字节
	UploadTime time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"upload_time"`
}

// TableName 指定表名
func (FileRecord) TableName() string { return "files" }
